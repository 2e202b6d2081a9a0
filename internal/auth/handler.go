package auth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ems-portal/ems-portal/internal/activity"
	"github.com/ems-portal/ems-portal/internal/layout"
	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/internal/view"
)

// InvalidCredentialsMessage is shown when no account matches the form.
const InvalidCredentialsMessage = "Invalid credentials. Please try again."

// ShellTeardown releases per-session shell resources at logout.
type ShellTeardown interface {
	Teardown(sessionID string)
}

// LoginObserver counts login attempts by result.
type LoginObserver interface {
	ObserveLogin(result string)
}

// HandlerParams groups the dependencies of Handler.
type HandlerParams struct {
	Logger    *slog.Logger
	Service   *Service
	Templates *view.Engine
	Sessions  *shared.SessionManager
	CSRF      *shared.CSRFManager
	Recorder  activity.Recorder
	Shells    ShellTeardown
	Metrics   LoginObserver
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	recorder       activity.Recorder
	shells         ShellTeardown
	metrics        LoginObserver
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(p HandlerParams) *Handler {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := p.Recorder
	if recorder == nil {
		recorder = activity.Discard{}
	}
	return &Handler{
		logger:         logger,
		service:        p.Service,
		templates:      p.Templates,
		sessionManager: p.Sessions,
		csrfManager:    p.CSRF,
		recorder:       recorder,
		shells:         p.Shells,
		metrics:        p.Metrics,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(navigation.PathLogin, h.showLogin)
	r.Post(navigation.PathLogin, h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Role         string `validate:"required,oneof=admin schoolAdmin staff"`
	UserID       string `validate:"required"`
	Password     string `validate:"required"`
	ShowPassword bool
}

// RoleOption is one entry of the user type select.
type RoleOption struct {
	Value    string
	Label    string
	Selected bool
}

type loginPageData struct {
	Form     loginForm
	Roles    []RoleOption
	Errors   map[string]string
	Accounts []Account
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if FromContext(r.Context()) != nil {
		http.Redirect(w, r, navigation.PathDashboard, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginForm{Role: string(navigation.RoleAdmin)}, nil, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Role:         r.PostFormValue("role"),
		UserID:       r.PostFormValue("user_id"),
		Password:     r.PostFormValue("password"),
		ShowPassword: r.PostFormValue("show_password") == "1",
	}

	// The visibility button re-renders the form without attempting a login.
	if r.PostFormValue("action") == "toggle-password" {
		form.ShowPassword = !form.ShowPassword
		h.renderLogin(w, r, form, nil, http.StatusOK)
		return
	}

	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				errs[fieldErr.Field()] = fieldMessage(fieldErr)
			}
		} else {
			errs["general"] = InvalidCredentialsMessage
		}
		h.observe("invalid")
		h.renderLogin(w, r, form, errs, http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), navigation.Role(form.Role), form.UserID, form.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("authenticate", slog.Any("error", err))
		}
		h.observe("failure")
		h.record(r, activity.Entry{
			Admin:       strings.TrimSpace(form.UserID),
			Role:        navigation.Role(form.Role).Label(),
			Action:      "Failed Login",
			Description: "Unsuccessful login attempt",
		})
		errs["general"] = InvalidCredentialsMessage
		h.renderLogin(w, r, form, errs, http.StatusBadRequest)
		return
	}

	sess, err := shared.RequireSession(r.Context())
	if err != nil {
		h.logger.Error("login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.sessionManager.Renew(sess)
	h.csrfManager.Rotate(sess)
	if _, err := Begin(sess, *user); err != nil {
		h.logger.Error("begin session context", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.observe("success")
	h.record(r, activity.Entry{
		Admin:       user.UserID,
		Role:        user.Role.Label(),
		Action:      "Login",
		School:      schoolLabel(user.SchoolID),
		Description: "User logged in",
	})
	http.Redirect(w, r, navigation.PathDashboard, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sc := FromContext(r.Context()); sc != nil {
		sc.End()
	}
	if sess != nil {
		if h.shells != nil {
			h.shells.Teardown(sess.ID)
		}
		layout.ClearViewState(sess)
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, navigation.PathLogin, http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, errs map[string]string, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	roles := make([]RoleOption, 0, 3)
	for _, role := range navigation.Roles() {
		roles = append(roles, RoleOption{Value: string(role), Label: role.Label(), Selected: string(role) == form.Role})
	}
	data := view.TemplateData{
		Title:       "Login",
		CSRFToken:   csrfToken,
		Flash:       shared.FlashFromContext(r.Context()),
		CurrentPath: r.URL.Path,
		Data: loginPageData{
			Form:     form,
			Roles:    roles,
			Errors:   errs,
			Accounts: DemoAccounts(),
		},
	}
	if err := h.templates.Render(w, status, "pages/login.html", data); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) record(r *http.Request, entry activity.Entry) {
	entry.IP = clientIP(r)
	ctx := context.WithoutCancel(r.Context())
	if err := h.recorder.Record(ctx, entry); err != nil {
		h.logger.Warn("record login activity", slog.String("action", entry.Action), slog.Any("error", err))
	}
}

func (h *Handler) observe(result string) {
	if h.metrics != nil {
		h.metrics.ObserveLogin(result)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Role":
		return "Select a user type."
	case "UserID":
		return "User ID is required."
	case "Password":
		return "Password is required."
	}
	return fe.Error()
}

func schoolLabel(schoolID string) string {
	if schoolID == "" {
		return activity.NoSchool
	}
	return "School " + schoolID
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
