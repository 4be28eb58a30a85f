package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/trezcool/lms/apps/api/echo"
)

func Test_userApi_login(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/users/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"uid":"this field is required","password":"this field is required"}`),
		},
		{
			name:     "unknown user",
			method:   http.MethodPost,
			path:     "/api/users/login",
			body:     []byte(`{"uid":"nobody","password":"` + pwd + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"authentication failed"}`),
		},
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/users/login",
			body:     []byte(`{"uid":"u1","password":"nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"authentication failed"}`),
		},
	}
	runSequence(t, app, tests)

	t.Run("success", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/users/login", "", []byte(`{"uid":" U1 ","password":"`+pwd+`"}`))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("login code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
			t.Fatalf("login response = %s; err %v", rec.Body.String(), err)
		}

		// the new token is usable
		req, rec = newAuthRequest(http.MethodGet, "/api/users/me", resp.Token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("me code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_userApi_tokenRefresh(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/api/users/token-refresh",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		},
		{
			name:     "bad token",
			method:   http.MethodPost,
			path:     "/api/users/token-refresh",
			token:    "not-a-jwt",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "refreshed",
			method:   http.MethodPost,
			path:     "/api/users/token-refresh",
			token:    getToken(t, app.prof),
			wantCode: http.StatusOK,
		},
	}
	runSequence(t, app, tests)
}

func Test_userApi_me(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/users/me",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		},
		{
			name:     "student",
			method:   http.MethodGet,
			path:     "/api/users/me",
			token:    getToken(t, app.stud1),
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"uid":"u1","fname":"Alan","lname":"Turing","dob":"2000-01-01T00:00:00Z",
				"role":"Student","subject":"BIO","department":"Biology"
			}`),
		},
	}
	runSequence(t, app, tests)
}
