package users_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/shared"
	"github.com/appboilerplate/taskmanager/internal/users"
)

type httpFixture struct {
	*fixture
	router http.Handler
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	f := newFixture(t)
	bundle, err := i18n.New("en")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := users.NewHandler(logger, f.service, bundle)
	mw := auth.Middleware{Service: f.sessions, Strings: bundle.Domain("user"), Logger: logger}

	r := chi.NewRouter()
	r.Use(bundle.Middleware)
	handler.MountPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		handler.MountRoutes(r)
	})
	return &httpFixture{fixture: f, router: r}
}

func (f *httpFixture) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *httpFixture) json(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return f.serve(req, token)
}

func (f *httpFixture) upload(t *testing.T, token, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return f.serve(req, token)
}

func (f *httpFixture) signup(t *testing.T) (map[string]any, string) {
	t.Helper()
	rec := f.json(t, http.MethodPost, "/users", "", `{"name":"Ana","email":"A@X.com ","password":"s3cret!!","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User, resp.Token
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestSignupHandler(t *testing.T) {
	f := newHTTPFixture(t)
	user, token := f.signup(t)

	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, false, user["has_avatar"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "tokens")
	assert.NotEmpty(t, token)

	rec := f.json(t, http.MethodGet, "/users/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user["id"], body(t, rec)["user"].(map[string]any)["id"])
}

func TestSignupHandlerDuplicate(t *testing.T) {
	f := newHTTPFixture(t)
	f.signup(t)

	rec := f.json(t, http.MethodPost, "/users", "", `{"name":"Other","email":"a@x.com","password":"s3cret!!"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := body(t, rec)
	assert.Equal(t, "error", env["status"])
	assert.Equal(t, "Error while trying to create your user", env["message"])
}

func TestSignupHandlerValidation(t *testing.T) {
	f := newHTTPFixture(t)
	for _, payload := range []string{
		`{"name":"Ana","email":"a@x.com","password":"short"}`,
		`{"email":"a@x.com","password":"s3cret!!"}`,
		`not json`,
	} {
		rec := f.json(t, http.MethodPost, "/users", "", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	f := newHTTPFixture(t)
	rec := f.json(t, http.MethodGet, "/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateHandler(t *testing.T) {
	f := newHTTPFixture(t)
	_, token := f.signup(t)

	rec := f.json(t, http.MethodPatch, "/users/me", token, `{"name":"Bea","age":22}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body(t, rec)
	assert.Equal(t, "Bea", user["name"])
	assert.Equal(t, float64(22), user["age"])
}

func TestUpdateHandlerForbiddenKeys(t *testing.T) {
	f := newHTTPFixture(t)
	_, token := f.signup(t)

	rec := f.json(t, http.MethodPatch, "/users/me", token, `{"name":"Bea","tokens":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You're trying to update forbidden keys in your request", body(t, rec)["message"])

	rec = f.json(t, http.MethodGet, "/users/profile", token, "")
	assert.Equal(t, "Ana", body(t, rec)["user"].(map[string]any)["name"])
}

func TestUpdateHandlerInvalidValue(t *testing.T) {
	f := newHTTPFixture(t)
	_, token := f.signup(t)

	rec := f.json(t, http.MethodPatch, "/users/me", token, `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to update your user data.", body(t, rec)["message"])
}

func TestAvatarUploadAndServe(t *testing.T) {
	f := newHTTPFixture(t)
	user, token := f.signup(t)

	rec := f.upload(t, token, "avatar", "me.png", pngBytes(t, 300, 500))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Your avatar was uploaded successfully.", body(t, rec)["message"])

	req := httptest.NewRequest(http.MethodGet, "/user/"+user["id"].(string)+"/profile", nil)
	rec = f.serve(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, w, h := decodeSize(t, rec.Body.Bytes())
	assert.Equal(t, 250, w)
	assert.Equal(t, 250, h)
}

func TestAvatarUploadRejections(t *testing.T) {
	f := newHTTPFixture(t)
	_, token := f.signup(t)

	rec := f.upload(t, token, "avatar", "anim.gif", gifBytes(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please, upload a png, jpg or jpeg avatar file.", body(t, rec)["message"])

	rec = f.upload(t, token, "picture", "me.png", pngBytes(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.upload(t, token, "avatar", "big.png", make([]byte, users.MaxAvatarBytes+10))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Your avatar file must be smaller than 1MB.", body(t, rec)["message"])

	rec = f.upload(t, token, "avatar", "broken.jpg", []byte("not a jpeg"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteAvatarHandler(t *testing.T) {
	f := newHTTPFixture(t)
	user, token := f.signup(t)
	require.Equal(t, http.StatusOK, f.upload(t, token, "avatar", "me.jpg", jpegBytes(t, 40, 40)).Code)

	rec := f.json(t, http.MethodDelete, "/users/profile/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body(t, rec)["status"])

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/user/"+user["id"].(string)+"/profile", nil), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "This user does not have an avatar", body(t, rec)["message"])
}

func TestDeleteAvatarHandlerFailure(t *testing.T) {
	f := newHTTPFixture(t)
	_, token := f.signup(t)
	f.repo.avatarErr = shared.ErrPersistence

	rec := f.json(t, http.MethodDelete, "/users/profile/me", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeAvatarUnknownAccount(t *testing.T) {
	f := newHTTPFixture(t)
	rec := f.serve(httptest.NewRequest(http.MethodGet, "/user/01HZZZZZZZZZZZZZZZZZZZZZZZ/profile", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
