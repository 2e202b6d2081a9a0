package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ems-portal/ems-portal/internal/activity"
	"github.com/ems-portal/ems-portal/internal/auth"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/internal/view"
	emstest "github.com/ems-portal/ems-portal/testing"
)

type recordedTeardown struct {
	ids []string
}

func (r *recordedTeardown) Teardown(id string) { r.ids = append(r.ids, id) }

type loginCounter map[string]int

func (c loginCounter) ObserveLogin(result string) { c[result]++ }

type harness struct {
	router   http.Handler
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
	records  *activity.MemorySource
	shells   *recordedTeardown
	logins   loginCounter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	creds, err := auth.NewStaticCredentials(auth.DemoAccounts(), bcrypt.MinCost)
	require.NoError(t, err)
	templates, err := view.NewEngine()
	require.NoError(t, err)

	sessions, _ := emstest.Sessions(t, "test_session")
	h := &harness{
		sessions: sessions,
		csrf:     shared.NewCSRFManager("csrfsecret"),
		records:  activity.NewMemorySource(nil),
		shells:   &recordedTeardown{},
		logins:   loginCounter{},
	}
	handler := auth.NewHandler(auth.HandlerParams{
		Service:   auth.NewService(creds),
		Templates: templates,
		Sessions:  h.sessions,
		CSRF:      h.csrf,
		Recorder:  activity.NewStoreRecorder(h.records),
		Shells:    h.shells,
		Metrics:   h.logins,
	})

	r := chi.NewRouter()
	r.Use(h.withSession, auth.Middleware{}.Attach)
	handler.MountRoutes(r)
	h.router = r
	return h
}

// withSession loads the session and commits it after the handler ran.
func (h *harness) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Load(r.Context(), r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ctx := shared.ContextWithSession(r.Context(), sess)
		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, r.WithContext(ctx))
		if err := h.sessions.Commit(ctx, w, r, sess); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for k, v := range rec.Header() {
			w.Header()[k] = v
		}
		w.WriteHeader(rec.Code)
		_, _ = w.Write(rec.Body.Bytes())
	})
}

func (h *harness) load(t *testing.T, cookie *http.Cookie) *shared.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := h.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func (h *harness) sessionID(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	id, ok := h.sessions.IDFromCookie(cookie.Value)
	require.True(t, ok)
	return id
}

// start opens the login page and returns the session cookie and CSRF token.
func (h *harness) start(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	token, err := h.csrf.EnsureToken(context.Background(), h.load(t, cookies[0]))
	require.NoError(t, err)
	return cookies[0], token
}

func (h *harness) post(t *testing.T, path string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "198.51.100.7:4242"
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func cookieOf(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestLoginPage(t *testing.T) {
	h := newHarness(t)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, "Welcome Back!")
	assert.Contains(t, body, `type="password"`)
	assert.Contains(t, body, "User ID: schoolAdmin | Password: school123")
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)

	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"admin"},
		"user_id":            {"admin"},
		"password":           {"wrong"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), auth.InvalidCredentialsMessage)
	assert.Contains(t, rr.Body.String(), `value="admin"`)

	sess := h.load(t, cookieOf(t, rr))
	assert.Equal(t, h.sessionID(t, cookie), sess.ID)
	assert.Empty(t, sess.Get(auth.SessionKeyUser))
	assert.Empty(t, sess.Get(auth.SessionKeyRole))

	records, err := h.records.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Failed Login", records[0].Action)
	assert.Equal(t, "198.51.100.7", records[0].IP)
	assert.Equal(t, 1, h.logins["failure"])
}

func TestLoginRoleMismatchFails(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)

	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"staff"},
		"user_id":            {"admin"},
		"password":           {"admin123"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), auth.InvalidCredentialsMessage)
}

func TestLoginValidationErrors(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)

	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"superuser"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Select a user type.")
	assert.Contains(t, body, "User ID is required.")
	assert.Contains(t, body, "Password is required.")
	assert.Equal(t, 1, h.logins["invalid"])
}

func TestTogglePasswordVisibility(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)

	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"action":             {"toggle-password"},
		"show_password":      {"0"},
		"role":               {"staff"},
		"user_id":            {"staff"},
		"password":           {"staff123"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="password" type="text"`)
	assert.Empty(t, h.load(t, cookieOf(t, rr)).Get(auth.SessionKeyUser))
}

func TestLoginSuccessBeginsSessionContext(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)

	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"schoolAdmin"},
		"user_id":            {"  schoolAdmin "},
		"password":           {"school123"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/home/dashboard", rr.Header().Get("Location"))

	renewed := cookieOf(t, rr)
	assert.NotEqual(t, cookie.Value, renewed.Value)
	sess := h.load(t, renewed)
	sc, err := auth.LoadContext(sess)
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, "schoolAdmin", string(sc.Role()))
	assert.Equal(t, "101", sc.User().SchoolID)
	assert.NotContains(t, sess.Get(auth.SessionKeyUser), "school123")
	assert.Error(t, h.csrf.VerifyToken(context.Background(), sess, token), "token must rotate on login")

	records, err := h.records.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Login", records[0].Action)
	assert.Equal(t, "School 101", records[0].School)
	assert.Equal(t, 1, h.logins["success"])
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)
	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"admin"},
		"user_id":            {"admin"},
		"password":           {"admin123"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	signedIn := cookieOf(t, rr)

	rr = h.post(t, "/logout", signedIn, url.Values{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, -1, cookieOf(t, rr).MaxAge)
	assert.Equal(t, []string{h.sessionID(t, signedIn)}, h.shells.ids)

	// The old cookie no longer resolves to a signed-in session.
	assert.Empty(t, h.load(t, signedIn).Get(auth.SessionKeyUser))
}

func TestSignedInUserSkipsLoginPage(t *testing.T) {
	h := newHarness(t)
	cookie, token := h.start(t)
	rr := h.post(t, "/login", cookie, url.Values{
		shared.CSRFFormField: {token},
		"role":               {"staff"},
		"user_id":            {"staff"},
		"password":           {"staff123"},
	})
	signedIn := cookieOf(t, rr)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(signedIn)
	rr = httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/home/dashboard", rr.Header().Get("Location"))
}
