package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authapi "vo-directory/internal/api/auth"
	"vo-directory/internal/auth"
	"vo-directory/internal/catalog"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/gateway/gatewaytest"
	"vo-directory/internal/infra/cache"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "vo_session"

type server struct {
	engine   *gin.Engine
	backend  *gatewaytest.Backend
	notifier *gatewaytest.Notifier
	accounts *auth.Service
	workflow *workflow.Workflow
}

func newServer(t *testing.T) server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := gatewaytest.New()
	require.NoError(t, b.Languages().Create(context.Background(), &languages.Language{Name: "English"}))
	require.NoError(t, b.Languages().Create(context.Background(), &languages.Language{Name: "French"}))

	mem := cache.NewMemory()
	tokens := auth.NewTokens("routes-secret", time.Hour)
	revoked := auth.NewRevocations(mem)
	accounts := auth.NewService(b.Users(), tokens, revoked)
	cat := catalog.New(b.Artists(), b.Languages(), mem)
	notifier := &gatewaytest.Notifier{}
	wf := workflow.New(workflow.Deps{
		Artists:   b.Artists(),
		Demos:     b.Demos(),
		Languages: b.Languages(),
		Files:     gatewaytest.NewFiles(),
		Notifier:  notifier,
		Cache:     cat,
	})

	engine, err := NewRouter(Deps{
		Resolver:             auth.NewResolver(tokens, revoked, b.Users()),
		Accounts:             accounts,
		Catalog:              cat,
		Artists:              b.Artists(),
		Workflow:             wf,
		Cookies:              authapi.Cookies{Name: cookieName},
		SubmissionRatePerMin: 2,
	})
	require.NoError(t, err)
	return server{engine: engine, backend: b, notifier: notifier, accounts: accounts, workflow: wf}
}

func (s server) token(t *testing.T, email string, admin bool) string {
	t.Helper()
	_, err := s.accounts.CreateUser(context.Background(), email, "passw0rd!", admin)
	require.NoError(t, err)
	tok, _, err := s.accounts.Login(context.Background(), email, "passw0rd!")
	require.NoError(t, err)
	return tok
}

func (s server) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func withCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s server) approvedArtist(t *testing.T, username, lang, gender string) string {
	t.Helper()
	a, err := s.workflow.CreateArtist(context.Background(), workflow.ArtistInput{
		FirstName:   "First",
		LastName:    username,
		Email:       username + "@vo.test",
		Username:    username,
		VoiceGender: gender,
		Bio:         "Bio of " + username,
		Languages:   []string{lang},
	}, workflow.CreateOptions{Approved: true})
	require.NoError(t, err)
	return a.ID
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminPageGuard(t *testing.T) {
	s := newServer(t)
	member := s.token(t, "member@vo.test", false)
	admin := s.token(t, "admin@vo.test", true)

	tests := []struct {
		name     string
		token    string
		status   int
		location string
	}{
		{"anonymous", "", http.StatusFound, "/login"},
		{"garbage cookie", "nope", http.StatusFound, "/login"},
		{"signed in, not admin", member, http.StatusFound, "/"},
		{"admin", admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/languages", nil)
			if tt.token != "" {
				withCookie(req, tt.token)
			}
			w := s.do(req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestAdminAPIGuard(t *testing.T) {
	s := newServer(t)
	member := s.token(t, "member@vo.test", false)
	admin := s.token(t, "admin@vo.test", true)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/admin/artists", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","redirect":"/login"}`, w.Body.String())

	w = s.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/admin/artists", nil), member))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied","redirect":"/"}`, w.Body.String())

	w = s.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/admin/artists", nil), admin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListingPages(t *testing.T) {
	s := newServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No voices available")

	s.approvedArtist(t, "anna", "English", "female")
	s.approvedArtist(t, "marc", "French", "male")

	w = s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "/vo/anna")
	assert.Contains(t, w.Body.String(), "/vo/marc")

	w = s.do(httptest.NewRequest(http.MethodGet, "/language/French", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "/vo/anna")
	assert.Contains(t, w.Body.String(), "/vo/marc")

	w = s.do(httptest.NewRequest(http.MethodGet, "/language/French?gender=female", nil))
	assert.Contains(t, w.Body.String(), "No voices available")
}

func TestLanguageSelectorRedirects(t *testing.T) {
	s := newServer(t)

	tests := map[string]string{
		"/?language=French":               "/language/French",
		"/?language=all":                  "/",
		"/?language=French&gender=male":   "/language/French?gender=male",
		"/language/all":                   "/",
		"/?language=Brazilian+Portuguese": "/language/Brazilian%20Portuguese",
	}
	for target, location := range tests {
		w := s.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, location, w.Header().Get("Location"), target)
	}
}

func TestArtistsAPIFilter(t *testing.T) {
	s := newServer(t)
	s.approvedArtist(t, "anna", "English", "female")
	s.approvedArtist(t, "marc", "French", "male")

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/artists?language=English&gender=FEMALE", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "anna", got[0]["username"])
	assert.NotContains(t, got[0], "email")

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/artists?language=German", nil))
	assert.Equal(t, "[]", w.Body.String())
}

func submissionBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validSubmission() map[string]string {
	return map[string]string{
		"first_name":   "Jane",
		"last_name":    "Doe",
		"email":        "jane@vo.test",
		"username":     "Jane Doe",
		"voice_gender": "female",
		"bio":          "<b>Warm</b> and friendly.",
		"languages":    "English, French",
	}
}

func TestPublicSubmissionIsHiddenUntilApproved(t *testing.T) {
	s := newServer(t)
	admin := s.token(t, "admin@vo.test", true)

	body, ct := submissionBody(t, validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", body)
	req.Header.Set("Content-Type", ct)
	w := s.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, s.notifier.Sent, 1)

	w = s.do(httptest.NewRequest(http.MethodGet, "/vo/jane-doe", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(withCookie(httptest.NewRequest(http.MethodGet, "/vo/jane-doe", nil), admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pending approval")
	assert.Contains(t, w.Body.String(), "Warm and friendly.")
	assert.NotContains(t, w.Body.String(), "<b>Warm")

	id := s.notifier.Sent[0].ArtistID
	w = s.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/admin/artists/"+id+"/approve", nil), admin))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/vo/Jane-Doe", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmissionValidation(t *testing.T) {
	s := newServer(t)

	fields := validSubmission()
	delete(fields, "bio")
	delete(fields, "languages")
	body, ct := submissionBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", body)
	req.Header.Set("Content-Type", ct)
	w := s.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var got struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, workflow.MsgRequiredFields, got.Error)
	assert.Contains(t, got.Details, "bio")
	assert.Contains(t, got.Details, "languages")
	assert.Empty(t, s.notifier.Sent)
}

func TestSubmissionRateLimit(t *testing.T) {
	s := newServer(t)
	var last int
	for i := 0; i < 3; i++ {
		body, ct := submissionBody(t, map[string]string{})
		req := httptest.NewRequest(http.MethodPost, "/api/submissions", body)
		req.Header.Set("Content-Type", ct)
		last = s.do(req).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLoginFormAndLogout(t *testing.T) {
	s := newServer(t)
	_, err := s.accounts.CreateUser(context.Background(), "admin@vo.test", "passw0rd!", true)
	require.NoError(t, err)

	form := url.Values{"email": {"admin@vo.test"}, "password": {"wrong-pass1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	form.Set("password", "passw0rd!")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = s.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	w = s.do(withCookie(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), session.Value))
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, true, snapshot["isAuthenticated"])
	assert.Equal(t, true, snapshot["isAdmin"])
	assert.Equal(t, false, snapshot["isLoading"])
	assert.Equal(t, "admin@vo.test", snapshot["email"])

	w = s.do(withCookie(httptest.NewRequest(http.MethodGet, "/logout", nil), session.Value))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// the old token no longer resolves
	w = s.do(withCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), session.Value))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAdminFormHasSubmitState(t *testing.T) {
	s := newServer(t)
	admin := s.token(t, "admin@vo.test", true)

	w := s.do(withCookie(httptest.NewRequest(http.MethodGet, "/admin/new", nil), admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-submit-once")
	assert.Contains(t, w.Body.String(), "Submitting…")
}

func TestAdminFormRerendersWithError(t *testing.T) {
	s := newServer(t)
	admin := s.token(t, "admin@vo.test", true)

	fields := validSubmission()
	fields["first_name"] = ""
	body, ct := submissionBody(t, fields)
	req := withCookie(httptest.NewRequest(http.MethodPost, "/admin/new", body), admin)
	req.Header.Set("Content-Type", ct)
	w := s.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), workflow.MsgRequiredFields)
	assert.Contains(t, w.Body.String(), `value="jane@vo.test"`)
}

func TestLanguageAdminAPI(t *testing.T) {
	s := newServer(t)
	admin := s.token(t, "admin@vo.test", true)

	create := func(name string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/languages", strings.NewReader(`{"name":"`+name+`"}`))
		req.Header.Set("Content-Type", "application/json")
		return s.do(withBearer(req, admin))
	}

	assert.Equal(t, http.StatusCreated, create("  German ").Code)
	assert.Equal(t, http.StatusConflict, create("german").Code)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/languages", nil))
	var got []languages.Language
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"English", "French", "German"}, languages.Names(got))

	w = s.do(withBearer(httptest.NewRequest(http.MethodDelete, "/api/admin/languages/999", nil), admin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
