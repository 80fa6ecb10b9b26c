package integration

import (
	"net/http"
	"testing"
)

func TestNomineeFlow_CreateListUpdateDelete(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.signupUser(t, "nomflow@test.com", "password123")

	nomineeID, accessCode := app.createNominee(t, token, "priya@test.com", "Limited")
	if len(accessCode) != 8 {
		t.Fatalf("expected 8-char access code, got %q", accessCode)
	}

	// List
	rec := app.request("GET", "/api/v1/nominees", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 nominee, got %d", len(data))
	}
	nominee := data[0].(map[string]interface{})
	if nominee["status"] != "Pending" {
		t.Errorf("expected Pending status, got %v", nominee["status"])
	}
	if _, leaked := nominee["emergency_access_code"]; leaked {
		t.Error("access code hash leaked in list response")
	}

	// Update
	rec = app.request("PUT", "/api/v1/nominees/"+nomineeID,
		`{"access_level":"Full","relationship":"Sister"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["nominee"].(map[string]interface{})
	if updated["access_level"] != "Full" {
		t.Errorf("expected Full after update, got %v", updated["access_level"])
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/nominees/"+nomineeID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/nominees/"+nomineeID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestNomineeFlow_OwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.signupUser(t, "alice@test.com", "password123")
	bobToken, _, _ := app.signupUser(t, "bob@test.com", "password123")

	nomineeID, _ := app.createNominee(t, aliceToken, "shared-nominee@test.com", "Full")

	// Bob cannot read, update, or delete Alice's nominee
	rec := app.request("GET", "/api/v1/nominees/"+nomineeID, "", bobToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign read, got %d", rec.Code)
	}
	rec = app.request("PUT", "/api/v1/nominees/"+nomineeID, `{"name":"Hacked"}`, bobToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign update, got %d", rec.Code)
	}
	rec = app.request("DELETE", "/api/v1/nominees/"+nomineeID, "", bobToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign delete, got %d", rec.Code)
	}

	// Both users can designate the same nominee email
	if nID, _ := app.createNominee(t, bobToken, "shared-nominee@test.com", "Limited"); nID == "" {
		t.Fatal("expected bob to create a nominee with the same email")
	}
}

func TestNomineeFlow_DuplicateEmailPerUser(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.signupUser(t, "dupnom@test.com", "password123")

	app.createNominee(t, token, "priya@test.com", "Full")

	rec := app.request("POST", "/api/v1/nominees",
		`{"name":"Priya Again","email":"priya@test.com","access_level":"Limited"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_NOMINEE" {
		t.Errorf("expected DUPLICATE_NOMINEE, got %v", code)
	}
}
