package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/dashboard"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/kv/memkv"
)

var ctx = context.Background()

type testApp struct {
	srv     *Server
	usrSvc  *user.Service
	dashSvc *dashboard.Service
	mail    *emailsvc.ConsoleServiceMock
	store   *memkv.Store
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := &core.Config{
		TestMode:             true,
		AppName:              "Darasa",
		FrontendBaseURL:      "http://localhost:5173",
		DefaultFromEmail:     mail.Address{Name: "Darasa", Address: "noreply@darasa.test"},
		PasswordResetTimeout: time.Hour,
		PasswordHashCost:     bcrypt.MinCost,
		Server:               core.ServerConfig{DisableReqLogs: true},
		Storage:              core.StorageConfig{AuthSnapshot: "auth-storage", DashboardSnapshot: "dashboard-storage"},
	}
	logger := core.NewStdLogger(log.New(io.Discard, "", 0))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	app := &testApp{store: memkv.Open(), mail: emailsvc.NewConsoleServiceMock(conf)}
	var err error
	app.usrSvc, err = user.NewService(ctx, app.store, app.mail, logger, validate, conf)
	require.NoError(t, err)
	app.dashSvc, err = dashboard.NewService(ctx, app.store, logger, conf)
	require.NoError(t, err)

	app.srv = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      app.usrSvc,
		DashboardSvc: app.dashSvc,
		Validate:     validate,
		Translator:   translator,
	})
	return app
}

// createUser registers a verified user.
func (app *testApp) createUser(t *testing.T, name, email, pwd, role string) user.User {
	t.Helper()
	usr, err := app.usrSvc.Signup(ctx, user.NewUser{Name: name, Email: email, Password: pwd, Role: role})
	require.NoError(t, err)
	require.NoError(t, app.usrSvc.MarkEmailVerified(ctx, email))
	usr, err = app.usrSvc.GetByID(usr.ID)
	require.NoError(t, err)
	return usr
}

// loginAs opens a session for a new verified user with the given role.
func (app *testApp) loginAs(t *testing.T, role string) user.User {
	t.Helper()
	email := role + "@x.com"
	if _, err := app.usrSvc.GetByEmail(email); err != nil {
		app.createUser(t, "Test "+role, email, "password1", role)
	}
	usr, err := app.usrSvc.Login(ctx, email, "password1")
	require.NoError(t, err)
	return usr
}

func (app *testApp) lastToken(t *testing.T) string {
	t.Helper()
	msg, ok := app.mail.Last()
	require.True(t, ok)
	data, ok := msg.TemplateData.(user.MailData)
	require.True(t, ok)
	return data.Token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (app *testApp) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	app.srv.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
