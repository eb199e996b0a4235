package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:   "test-session-secret",
		SessionTTL:      time.Hour,
		CORSOrigins:     "http://localhost:5173",
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	app := New(testConfig(), db, Options{Limiter: auth.NewMemoryLimiter(), Quiet: true})
	return app, db
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

func (cl *client) send(req *http.Request) *http.Response {
	cl.t.Helper()
	for name, value := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)

	for _, ck := range resp.Cookies() {
		if ck.Value == "" || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (cl *client) get(path string) *http.Response {
	cl.t.Helper()
	return cl.send(httptest.NewRequest(fiber.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *http.Response {
	cl.t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return cl.send(req)
}

func (cl *client) postJSON(path string, body any) *http.Response {
	cl.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(cl.t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return cl.send(req)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func requireError(t *testing.T, resp *http.Response, status int, kind string) {
	t.Helper()
	body := decode[errorBody](t, resp)
	require.Equal(t, status, resp.StatusCode, "error: %s", body.Error)
	require.Equal(t, kind, body.Kind)
}

func registerWorker(t *testing.T, cl *client, email, password string) {
	t.Helper()
	resp := cl.postForm("/registrar_worker", url.Values{
		"nombre":    {"Ana"},
		"apellidos": {"Pérez " + email},
		"correo":    {email},
		"password":  {password},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func registerBoss(t *testing.T, cl *client, email, password string) {
	t.Helper()
	resp := cl.postForm("/registrar_boss", url.Values{
		"nombre":    {"Carlos"},
		"apellidos": {"Ruiz " + email},
		"correo":    {email},
		"password":  {password},
		"empresa":   {"Orquídea SA"},
		"telefono":  {"555-0101"},
		"cargo":     {"Manager"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, cl *client, email, password string) auth.LoginResponse {
	t.Helper()
	resp := cl.postForm("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decode[auth.LoginResponse](t, resp)
}

// newBoss and newWorker return logged-in clients.
func newBoss(t *testing.T, app *fiber.App, email string) *client {
	cl := newClient(t, app)
	registerBoss(t, cl, email, "pw")
	login(t, cl, email, "pw")
	return cl
}

func newWorker(t *testing.T, app *fiber.App, email string) *client {
	cl := newClient(t, app)
	registerWorker(t, cl, email, "pw")
	login(t, cl, email, "pw")
	return cl
}

func (cl *client) postFile(path, field, filename string, content []byte) *http.Response {
	cl.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(cl.t, err)
	_, err = part.Write(content)
	require.NoError(cl.t, err)
	require.NoError(cl.t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return cl.send(req)
}
