// Package home serves the signed-in pages rendered inside the dashboard
// shell, together with the sidebar endpoints.
package home

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ems-portal/ems-portal/internal/activity"
	"github.com/ems-portal/ems-portal/internal/auth"
	"github.com/ems-portal/ems-portal/internal/layout"
	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/platform/httpx"
	"github.com/ems-portal/ems-portal/internal/rbac"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/internal/view"
)

// SidebarObserver counts sidebar interactions.
type SidebarObserver interface {
	ObserveSidebar(action string)
}

// HandlerParams groups the dependencies of Handler.
type HandlerParams struct {
	Logger    *slog.Logger
	Templates *view.Engine
	CSRF      *shared.CSRFManager
	Shells    *layout.Manager
	Activity  *activity.Service
	Auth      auth.Middleware
	RBAC      rbac.Middleware
	Metrics   SidebarObserver
}

// Handler serves /home.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	shells    *layout.Manager
	activity  *activity.Service
	auth      auth.Middleware
	rbac      rbac.Middleware
	metrics   SidebarObserver
}

// NewHandler constructs a Handler.
func NewHandler(p HandlerParams) *Handler {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		templates: p.Templates,
		csrf:      p.CSRF,
		shells:    p.Shells,
		activity:  p.Activity,
		auth:      p.Auth,
		rbac:      p.RBAC,
		metrics:   p.Metrics,
	}
	if h.rbac.Denied == nil {
		h.rbac.Denied = http.HandlerFunc(h.forbidden)
	}
	return h
}

// MountRoutes registers the /home routes. Mount it under "/home".
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.auth.RequireUser)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, navigation.PathDashboard, http.StatusSeeOther)
	})
	r.Get("/dashboard", h.placeholder)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermSchoolsView, rbac.PermEmployeesView))
		r.Get("/school-status", h.placeholder)
		r.Get("/school-status/", h.schoolStatus)
		r.Get("/school-status/{schoolID}", h.schoolStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermTransfersView))
		r.Get("/transfers", h.placeholder)
		r.Get("/transfers/outgoing", h.placeholder)
		r.Get("/transfers/incoming", h.placeholder)
	})
	r.With(h.rbac.RequireAny(rbac.PermStaffStatementView)).Get("/staff-statement", h.placeholder)
	r.With(h.rbac.RequireAny(rbac.PermAttendanceView)).Get("/attendance", h.placeholder)
	r.With(h.rbac.RequireAny(rbac.PermLogsView)).Get("/logs", h.logs)

	r.Route("/sidebar", func(r chi.Router) {
		r.Post("/toggle", h.toggleSidebar)
		r.Post("/groups/{slug}", h.toggleGroup)
		r.Get("/state", h.sidebarState)
	})
}

func (h *Handler) placeholder(w http.ResponseWriter, r *http.Request) {
	page, ok := routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "pages/placeholder.html", page.Title, map[string]any{
		"Heading": page.Heading,
		"Body":    page.Body,
	}, http.StatusOK)
}

// forbidden renders the access-denied page inside the shell.
func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/placeholder.html", forbiddenPage.Title, map[string]any{
		"Heading": forbiddenPage.Heading,
		"Body":    forbiddenPage.Body,
	}, http.StatusForbidden)
}

func (h *Handler) schoolStatus(w http.ResponseWriter, r *http.Request) {
	sc := auth.FromContext(r.Context())
	raw := chi.URLParam(r, "schoolID")
	if raw == "" {
		// Reached through the Employees link of an account without a school.
		h.logger.Warn("school status without school id", slog.String("user", sc.User().UserID))
		http.NotFound(w, r)
		return
	}
	if _, err := strconv.Atoi(raw); err != nil {
		http.NotFound(w, r)
		return
	}
	if sc.Role() == navigation.RoleSchoolAdmin && sc.User().SchoolID != raw {
		h.logger.Warn("school status of another school",
			slog.String("user", sc.User().UserID),
			slog.String("school", raw))
		h.forbidden(w, r)
		return
	}
	page := employeesPage(raw)
	h.render(w, r, "pages/placeholder.html", page.Title, map[string]any{
		"Heading": page.Heading,
		"Body":    page.Body,
	}, http.StatusOK)
}

func (h *Handler) logs(w http.ResponseWriter, r *http.Request) {
	// Matched as typed; surrounding spaces are part of the substring.
	term := r.URL.Query().Get("q")
	var selected int64
	if raw := r.URL.Query().Get("view"); raw != "" {
		selected, _ = strconv.ParseInt(raw, 10, 64)
	}
	page, err := h.activity.View(r.Context(), term, selected)
	if err != nil {
		h.logger.Error("load activity logs", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/logs.html", "Logs", page, http.StatusOK)
}

func (h *Handler) toggleSidebar(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	shell := h.openShell(r)
	shell.ToggleExpanded()
	h.shells.Save(sess, shell)
	h.observe("toggle")
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

func (h *Handler) toggleGroup(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	shell := h.openShell(r)
	group, ok := layout.GroupBySlug(shell.Entries(), chi.URLParam(r, "slug"))
	if !ok {
		httpx.RespondError(w, r, fmt.Errorf("sidebar group %q: %w", chi.URLParam(r, "slug"), httpx.ErrNotFound))
		return
	}
	shell.SelectGroup(group.Title)
	h.shells.Save(sess, shell)
	h.observe("group")
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

type sidebarState struct {
	Expanded   bool   `json:"expanded"`
	SubNavOpen bool   `json:"subNavOpen"`
	ActiveTab  string `json:"activeTab"`
	Loading    bool   `json:"loading"`
}

func (h *Handler) sidebarState(w http.ResponseWriter, r *http.Request) {
	shell := h.openShell(r)
	state := shell.State()
	httpx.JSON(w, http.StatusOK, sidebarState{
		Expanded:   state.Expanded,
		SubNavOpen: state.SubNavOpen,
		ActiveTab:  state.ActiveTab,
		Loading:    shell.Loading(),
	})
}

// openShell builds the sidebar of the signed-in user.
func (h *Handler) openShell(r *http.Request) *layout.Shell {
	sc := auth.FromContext(r.Context())
	user := sc.User()
	schoolID := user.SchoolNumber()
	if sc.Role() == navigation.RoleSchoolAdmin && schoolID == nil {
		h.logger.Warn("school admin without school id", slog.String("user", user.UserID))
	}
	shell := h.shells.Open(shared.SessionFromContext(r.Context()), sc.Role(), schoolID)
	if len(shell.Entries()) == 0 {
		h.logger.Warn("unrecognized role", slog.String("role", string(sc.Role())), slog.String("user", user.UserID))
	}
	return shell
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	sc := auth.FromContext(r.Context())

	shell := h.openShell(r)
	shell.Sync(r.URL.Path)
	if tab := r.URL.Query().Get(layout.SelectParam); tab != "" && shell.SelectLeaf(tab) {
		h.observe("select")
	}
	h.shells.Save(sess, shell)
	sidebar := shell.View()

	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       shared.FlashFromContext(r.Context()),
		CurrentPath: r.URL.Path,
		Account: &view.Account{
			UserID:    sc.User().UserID,
			RoleLabel: sc.Role().Label(),
		},
		Sidebar: &sidebar,
		Data:    data,
	}
	if err := h.templates.Render(w, status, name, viewData); err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) observe(action string) {
	if h.metrics != nil {
		h.metrics.ObserveSidebar(action)
	}
}

// returnTo is the local path the sidebar form came from.
func returnTo(r *http.Request) string {
	target := r.PostFormValue("return_to")
	if !strings.HasPrefix(target, "/home/") {
		return navigation.PathDashboard
	}
	return target
}
