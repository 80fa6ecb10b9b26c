package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAuthFlow_SignupLoginProfile(t *testing.T) {
	app := setupApp(t)

	// Step 1: Signup returns a token and the recovery words, exactly once
	token, words, userID := app.signupUser(t, "auth@test.com", "password123")
	if token == "" {
		t.Fatal("expected non-empty token from signup")
	}
	if userID == "" {
		t.Fatal("expected non-empty user ID")
	}
	if len(words) != 6 {
		t.Fatalf("expected 6 recovery words, got %d", len(words))
	}

	// Step 2: Login with the same credentials
	loginToken := app.loginUser(t, "auth@test.com", "password123")

	// Step 3: Access profile with the login token
	rec := app.request("GET", "/api/v1/profile", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}

	// Step 4: No secret material in the profile response
	body := rec.Body.String()
	for _, field := range []string{"password", "recovery_words_hash", "reset_token"} {
		if strings.Contains(body, `"`+field+`"`) {
			t.Errorf("profile response leaks %q: %s", field, body)
		}
	}
}

func TestAuthFlow_SignupDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	app.signupUser(t, "dup@test.com", "password123")

	rec := app.request("POST", "/api/v1/auth/signup",
		`{"email":"dup@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", code)
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	app.signupUser(t, "wrong@test.com", "password123")

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"wrong@test.com","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", code)
	}
}

func TestAuthFlow_AccountLockout(t *testing.T) {
	app := setupApp(t)

	app.signupUser(t, "lockout@test.com", "password123")

	// Fail 5 times; the 5th failure locks the account
	for i := 0; i < 5; i++ {
		rec := app.request("POST", "/api/v1/auth/login",
			`{"email":"lockout@test.com","password":"wrong"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	// Even the correct password is rejected while locked
	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"lockout@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while locked, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ACCOUNT_LOCKED" {
		t.Errorf("expected ACCOUNT_LOCKED, got %v", code)
	}
}

func TestAuthFlow_RecoveryWordReset(t *testing.T) {
	app := setupApp(t)

	_, words, _ := app.signupUser(t, "recovery@test.com", "password123")

	// Step 1: Verify the recovery words to obtain a reset token
	wordsJSON := `["` + strings.Join(words, `","`) + `"]`
	rec := app.request("POST", "/api/v1/auth/verify-recovery-words",
		fmt.Sprintf(`{"email":"recovery@test.com","recovery_words":%s}`, wordsJSON), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify failed: %d %s", rec.Code, rec.Body.String())
	}
	resetToken := parseJSON(t, rec)["reset_token"].(string)
	if len(resetToken) != 64 {
		t.Fatalf("expected 64-char reset token, got %d chars", len(resetToken))
	}

	// Step 2: Reset the password with the token
	rec = app.request("POST", "/api/v1/auth/reset-password",
		fmt.Sprintf(`{"email":"recovery@test.com","reset_token":%q,"new_password":"newpassword456"}`, resetToken), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", rec.Code, rec.Body.String())
	}

	// Step 3: The token is single-use
	rec = app.request("POST", "/api/v1/auth/reset-password",
		fmt.Sprintf(`{"email":"recovery@test.com","reset_token":%q,"new_password":"anotherpass789"}`, resetToken), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on token reuse, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_RESET_TOKEN" {
		t.Errorf("expected INVALID_RESET_TOKEN, got %v", code)
	}

	// Step 4: The old password no longer works, the new one does
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"recovery@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with old password, got %d", rec.Code)
	}
	app.loginUser(t, "recovery@test.com", "newpassword456")
}

func TestAuthFlow_RecoveryWordFailuresShareLockout(t *testing.T) {
	app := setupApp(t)

	app.signupUser(t, "phrase@test.com", "password123")

	wrong := `{"email":"phrase@test.com","recovery_words":["aaa","bbb","ccc","ddd","eee","fff"]}`
	for i := 0; i < 5; i++ {
		rec := app.request("POST", "/api/v1/auth/verify-recovery-words", wrong, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	// Recovery-word failures count against the same lockout as logins
	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"phrase@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while locked, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ACCOUNT_LOCKED" {
		t.Errorf("expected ACCOUNT_LOCKED, got %v", code)
	}
}

func TestAuthFlow_ChangePassword(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.signupUser(t, "change@test.com", "password123")

	rec := app.request("POST", "/api/v1/profile/change-password",
		`{"old_password":"password123","new_password":"changedpass456"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("change password failed: %d %s", rec.Code, rec.Body.String())
	}

	app.loginUser(t, "change@test.com", "changedpass456")

	// Wrong old password is rejected
	rec = app.request("POST", "/api/v1/profile/change-password",
		`{"old_password":"nope-nope","new_password":"whatever123"}`, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong old password, got %d", rec.Code)
	}
}

func TestAuthFlow_ProfileRequiresToken(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/profile", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}
