package tests

import (
	"net/http"
	"testing"

	"github.com/brightpath/academia/core/user"
)

func TestLogin(t *testing.T) {
	env := setup(t)

	env.createUser(t, "Asha Demo", "", "asha@test.cd", "S12345", "password123", []string{user.RoleStudent})
	env.createUser(t, "Admin", "admin", "admin@test.cd", "", "adminpwd", []string{user.RoleAdmin})
	deactivated := env.createUser(t, "Gone", "gone", "gone@test.cd", "", "gonepwd", nil)
	inactive := false
	if _, err := env.usrSvc.Update(deactivated.ID, user.UpdateUser{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivating user failed: %v", err)
	}

	type loginReq struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	tests := []struct {
		name      string
		body      loginReq
		wantCode  int
		wantToken bool
	}{
		{name: "student ID login", body: loginReq{"S12345", "password123"}, wantCode: http.StatusOK, wantToken: true},
		{name: "email login", body: loginReq{"asha@test.cd", "password123"}, wantCode: http.StatusOK, wantToken: true},
		{name: "username login", body: loginReq{"admin", "adminpwd"}, wantCode: http.StatusOK, wantToken: true},
		// unknown identifier and wrong password yield the same error
		{name: "unknown identifier", body: loginReq{"S99999", "password123"}, wantCode: http.StatusBadRequest},
		{name: "wrong password", body: loginReq{"S12345", "letmein"}, wantCode: http.StatusBadRequest},
		{name: "deactivated account", body: loginReq{"gone", "gonepwd"}, wantCode: http.StatusForbidden},
		{name: "missing fields", body: loginReq{}, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", marshallObj(t, tt.body))
			env.server.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantToken {
				var resp struct {
					Token string `json:"token"`
				}
				decodeBody(t, rec, &resp)
				if resp.Token == "" {
					t.Error("expected a token")
				}
			}
		})
	}
}

func TestLoginFailureMessagesMatch(t *testing.T) {
	env := setup(t)
	env.createUser(t, "Asha Demo", "", "asha@test.cd", "S12345", "password123", []string{user.RoleStudent})

	body := func(login, pwd string) []byte {
		return marshallObj(t, map[string]string{"login": login, "password": pwd})
	}

	req1, rec1 := newRequest(http.MethodPost, "/v1/users/login", body("S99999", "password123"))
	env.server.ServeHTTP(rec1, req1)
	req2, rec2 := newRequest(http.MethodPost, "/v1/users/login", body("S12345", "letmein"))
	env.server.ServeHTTP(rec2, req2)

	// an attacker cannot tell a bad identifier from a bad password
	ok, err := jsonBytesEqual(t, rec1.Body.Bytes(), rec2.Body.Bytes())
	if err != nil {
		t.Fatalf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("responses differ: %s vs %s", rec1.Body.String(), rec2.Body.String())
	}
}

func TestUserQueryRequiresAdmin(t *testing.T) {
	env := setup(t)

	stuUsr := env.createUser(t, "Asha Demo", "", "asha@test.cd", "S12345", "password123", []string{user.RoleStudent})
	admUsr := env.createUser(t, "Admin", "admin", "admin@test.cd", "", "adminpwd", []string{user.RoleAdmin})

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "auth required", wantCode: http.StatusUnauthorized},
		{name: "admin required", token: getToken(t, stuUsr), wantCode: http.StatusForbidden},
		{name: "admin ok", token: getToken(t, admUsr), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}
