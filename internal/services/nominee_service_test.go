package services

import (
	"testing"

	"sampatti/internal/models"
	"sampatti/internal/pagination"
	"sampatti/internal/testutil"
)

func TestCreateNominee(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		nominee, code, err := svc.CreateNominee(user.ID, CreateNomineeInput{
			Name:         "Priya",
			Email:        "priya@example.com",
			Relationship: "Spouse",
			AccessLevel:  models.AccessLevelFull,
		})
		testutil.AssertNoError(t, err)

		if nominee.Status != models.NomineeStatusPending {
			t.Errorf("expected Pending status, got %s", nominee.Status)
		}
		if len(code) != 8 {
			t.Errorf("expected 8-char access code, got %q", code)
		}
		if nominee.EmergencyAccessCode == code {
			t.Error("access code should be stored hashed, not plaintext")
		}
	})

	t.Run("duplicate_email_for_same_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		input := CreateNomineeInput{Name: "Priya", Email: "dup@example.com", AccessLevel: models.AccessLevelFull}

		_, _, err := svc.CreateNominee(user.ID, input)
		testutil.AssertNoError(t, err)

		_, _, err = svc.CreateNominee(user.ID, input)
		testutil.AssertAppError(t, err, "DUPLICATE_NOMINEE")
	})

	t.Run("same_email_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		userA := testutil.CreateTestUser(t, db)
		userB := testutil.CreateTestUser(t, db)
		input := CreateNomineeInput{Name: "Priya", Email: "shared@example.com", AccessLevel: models.AccessLevelFull}

		_, _, err := svc.CreateNominee(userA.ID, input)
		testutil.AssertNoError(t, err)

		_, _, err = svc.CreateNominee(userB.ID, input)
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_access_level", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		_, _, err := svc.CreateNominee(user.ID, CreateNomineeInput{Name: "Priya", Email: "p@example.com", AccessLevel: "Everything"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		_, _, err := svc.CreateNominee(user.ID, CreateNomineeInput{AccessLevel: models.AccessLevelFull})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetNomineeByID(t *testing.T) {
	t.Run("owner_can_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)

		nominee, err := svc.GetNomineeByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if nominee.ID != created.ID {
			t.Errorf("expected nominee %s, got %s", created.ID, nominee.ID)
		}
	})

	t.Run("other_user_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		owner := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestNominee(t, db, owner.ID, models.AccessLevelFull)

		_, err := svc.GetNomineeByID(stranger.ID, created.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNomineeService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.GetNomineeByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "NOMINEE_NOT_FOUND")
	})
}

func TestUpdateNominee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	created := testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)

	newLevel := models.AccessLevelLimited
	updated, err := svc.UpdateNominee(user.ID, created.ID, UpdateNomineeInput{AccessLevel: &newLevel})
	testutil.AssertNoError(t, err)

	if updated.AccessLevel != models.AccessLevelLimited {
		t.Errorf("expected Limited access level, got %s", updated.AccessLevel)
	}
	if updated.Name != created.Name {
		t.Errorf("expected name untouched, got %s", updated.Name)
	}
}

func TestDeleteNominee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	created := testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)
	db.Create(&models.NomineeAccessLog{NomineeID: created.ID, Action: "Emergency Access Granted"})

	err := svc.DeleteNominee(user.ID, created.ID)
	testutil.AssertNoError(t, err)

	var count int64
	db.Model(&models.Nominee{}).Where("id = ?", created.ID).Count(&count)
	if count != 0 {
		t.Error("expected nominee deleted")
	}
	db.Model(&models.NomineeAccessLog{}).Where("nominee_id = ?", created.ID).Count(&count)
	if count != 0 {
		t.Error("expected access logs deleted with the nominee")
	}
}

func TestRegenerateAccessCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	nominee, _, err := svc.CreateNominee(user.ID, CreateNomineeInput{
		Name: "Priya", Email: "regen@example.com", AccessLevel: models.AccessLevelFull,
	})
	testutil.AssertNoError(t, err)

	code, err := svc.RegenerateAccessCode(user.ID, nominee.ID)
	testutil.AssertNoError(t, err)
	if len(code) != 8 {
		t.Errorf("expected 8-char code, got %q", code)
	}

	fresh, err := svc.GetNomineeByID(user.ID, nominee.ID)
	testutil.AssertNoError(t, err)
	if fresh.Status != models.NomineeStatusActive {
		t.Errorf("expected nominee activated, got %s", fresh.Status)
	}

	// The fresh code now opens the emergency gate.
	emergency := newEmergencyService(db)
	_, _, err = emergency.GrantAccess("regen@example.com", code, "203.0.113.9", "test-agent")
	testutil.AssertNoError(t, err)
}

func TestRevokeNominee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	nominee := testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)

	err := svc.RevokeNominee(user.ID, nominee.ID)
	testutil.AssertNoError(t, err)

	fresh, _ := svc.GetNomineeByID(user.ID, nominee.ID)
	if fresh.Status != models.NomineeStatusRevoked {
		t.Errorf("expected Revoked status, got %s", fresh.Status)
	}

	emergency := newEmergencyService(db)
	_, _, err = emergency.GrantAccess(nominee.Email, testutil.TestAccessCode, "203.0.113.9", "test-agent")
	testutil.AssertAppError(t, err, "INVALID_ACCESS_CODE")
}

func TestGetUserNominees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)
	testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelLimited)
	testutil.CreateTestNominee(t, db, other.ID, models.AccessLevelFull)

	resp, err := svc.GetUserNominees(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if resp.TotalItems != 2 {
		t.Errorf("expected 2 nominees, got %d", resp.TotalItems)
	}
	for _, n := range resp.Data {
		if n.UserID != user.ID {
			t.Error("listed a nominee belonging to another user")
		}
	}
}

func TestGetAccessLogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNomineeService(db)

	user := testutil.CreateTestUser(t, db)
	nominee := testutil.CreateTestNominee(t, db, user.ID, models.AccessLevelFull)

	emergency := newEmergencyService(db)
	_, _, err := emergency.GrantAccess(nominee.Email, testutil.TestAccessCode, "203.0.113.9", "test-agent")
	testutil.AssertNoError(t, err)
	_, _, err = emergency.GrantAccess(nominee.Email, "WRONGCODE", "203.0.113.9", "test-agent")
	testutil.AssertAppError(t, err, "INVALID_ACCESS_CODE")

	resp, err := svc.GetAccessLogs(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if resp.TotalItems != 2 {
		t.Fatalf("expected 2 log entries, got %d", resp.TotalItems)
	}
	for _, entry := range resp.Data {
		if entry.NomineeName != nominee.Name {
			t.Errorf("expected nominee name %q, got %q", nominee.Name, entry.NomineeName)
		}
	}
}
