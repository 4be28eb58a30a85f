package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	. "github.com/trezcool/lms/apps/api/echo"
	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
	logsvc "github.com/trezcool/lms/services/logger"
	"github.com/trezcool/lms/tests"
)

const pwd = "Xk9#pLq2wz"

var (
	conf = &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "LMS",
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
			DisableReqLogs:            true,
		},
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testApp struct {
	server *Server
	repos  testutil.Repos

	admin, prof, stud1, stud2 user.User
}

// newTestApp serves the API over a fresh in-memory database holding the BIO department,
// an administrator, a professor and two students.
func newTestApp(t *testing.T) *testApp {
	repos := testutil.OpenDummyDB(t)
	testutil.CreateDepartment(t, repos.LMS, "BIO", "Biology")

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)
	validate, translator := testutil.NewValidator()

	app := &testApp{
		repos: repos,
		admin: testutil.CreateUser(t, repos.User, "root", "Root", "Admin", user.RoleAdministrator, "", pwd),
		prof:  testutil.CreateUser(t, repos.User, "prof1", "Ada", "Lovelace", user.RoleProfessor, "BIO", pwd),
		stud1: testutil.CreateUser(t, repos.User, "u1", "Alan", "Turing", user.RoleStudent, "BIO", pwd),
		stud2: testutil.CreateUser(t, repos.User, "u2", "Grace", "Hopper", user.RoleStudent, "BIO", pwd),
	}
	app.server = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      user.NewService(repos.User),
		RegistrySvc:  lms.NewRegistryService(repos.LMS),
		CatalogSvc:   lms.NewCatalogService(repos.LMS),
		GradebookSvc: lms.NewGradebookService(repos.LMS),
		StudentSvc:   lms.NewStudentService(repos.LMS),
		Validate:     validate,
		Translator:   translator,
	})
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte // compared as JSON
	wantText string // compared verbatim, when wantData is nil
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		if tt.wantText != "" && rec.Body.String() != tt.wantText {
			t.Errorf("failed! text = %q; wantText %q", rec.Body.String(), tt.wantText)
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v; body %s", err, rec.Body.String())
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// runSequence runs the tests in order against the same server; each may depend on the previous ones.
func runSequence(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
