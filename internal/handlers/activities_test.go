package handlers_test

import (
	"testing"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/tests/helpers"
)

// TestCreateActivityDefaults verifies the admin-only gate and the defaults
// applied to a minimal payload.
func TestCreateActivityDefaults(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)

	body := map[string]interface{}{
		"title":       "Stacking blocks",
		"description": "Stack blocks into a tower",
		"domain":      models.DomainMotor,
		"ageRange":    map[string]int{"min": 12, "max": 36},
	}

	resp := request(t, app, "POST", "/api/activities", helpers.MintToken(t, volunteer.ID), body)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "POST", "/api/activities", helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 201)

	var activity models.Activity
	helpers.ParseData(t, resp, &activity)
	if activity.Duration != 15 {
		t.Errorf("Expected duration defaulted to 15, got %d", activity.Duration)
	}
	if activity.DifficultyLevel != "Medium" {
		t.Errorf("Expected difficulty defaulted to Medium, got %q", activity.DifficultyLevel)
	}
	if activity.Language != "English" {
		t.Errorf("Expected language defaulted to English, got %q", activity.Language)
	}
	if !activity.IsApproved {
		t.Error("Expected new activity approved by default")
	}
	if activity.CreatedBy != admin.ID {
		t.Errorf("Expected createdBy stamped with caller, got %s", activity.CreatedBy)
	}
}

// TestCreateActivityDraft verifies an explicit isApproved=false survives the
// insert and keeps the draft out of non-admin lists.
func TestCreateActivityDraft(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)

	body := map[string]interface{}{
		"title":       "Draft activity",
		"description": "Needs review",
		"domain":      models.DomainLanguage,
		"ageRange":    map[string]int{"min": 12, "max": 36},
		"isApproved":  false,
	}
	resp := request(t, app, "POST", "/api/activities", helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 201)
	var created models.Activity
	helpers.ParseData(t, resp, &created)
	if created.IsApproved {
		t.Error("Expected created activity to stay a draft")
	}

	var row models.Activity
	if err := db.First(&row, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("Failed to reload activity: %v", err)
	}
	if row.IsApproved {
		t.Error("Expected stored activity to stay a draft")
	}

	resp = request(t, app, "GET", "/api/activities", helpers.MintToken(t, parent.ID), nil)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 0 {
		t.Errorf("Expected parent to see 0 activities, got %d", env.Count)
	}
}

// TestListActivitiesApprovalVisibility verifies non-admins only see approved
// entries.
func TestListActivitiesApprovalVisibility(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)

	helpers.CreateTestActivity(t, db, "Approved one", models.DomainMotor, models.AgeRange{Min: 0, Max: 36}, admin.ID)
	draft := models.Activity{
		Title:       "Draft",
		Description: "Not reviewed yet",
		Domain:      models.DomainMotor,
		AgeRange:    models.AgeRange{Min: 0, Max: 36},
		Duration:    15,
		CreatedBy:   admin.ID,
		IsApproved:  false,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("Failed to create draft activity: %v", err)
	}

	resp := request(t, app, "GET", "/api/activities?domain=Motor", helpers.MintToken(t, parent.ID), nil)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 1 {
		t.Errorf("Expected parent to see 1 approved activity, got %d", env.Count)
	}

	resp = request(t, app, "GET", "/api/activities", helpers.MintToken(t, admin.ID), nil)
	env = helpers.ParseEnvelope(t, resp, true)
	if env.Count != 2 {
		t.Errorf("Expected admin to see 2 activities, got %d", env.Count)
	}

	// Direct reads of the draft follow the same visibility rule.
	resp = request(t, app, "GET", "/api/activities/"+draft.ID, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 403)
	resp = request(t, app, "GET", "/api/activities/"+draft.ID, helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 200)
}

// TestListActivitiesTagFilter verifies the any-match tag filter with both
// repeatable and comma-separated parameters.
func TestListActivitiesTagFilter(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)

	indoor := helpers.CreateTestActivity(t, db, "Indoor game", models.DomainSocial, models.AgeRange{Min: 12, Max: 48}, admin.ID)
	indoor.Tags = []string{"indoor", "quiet"}
	if err := db.Save(indoor).Error; err != nil {
		t.Fatalf("Failed to tag activity: %v", err)
	}
	outdoor := helpers.CreateTestActivity(t, db, "Outdoor game", models.DomainMotor, models.AgeRange{Min: 12, Max: 48}, admin.ID)
	outdoor.Tags = []string{"outdoor"}
	if err := db.Save(outdoor).Error; err != nil {
		t.Fatalf("Failed to tag activity: %v", err)
	}
	helpers.CreateTestActivity(t, db, "Untagged", models.DomainOther, models.AgeRange{Min: 12, Max: 48}, admin.ID)

	token := helpers.MintToken(t, admin.ID)

	resp := request(t, app, "GET", "/api/activities?tags=indoor", token, nil)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 1 {
		t.Errorf("Expected 1 indoor activity, got %d", env.Count)
	}

	resp = request(t, app, "GET", "/api/activities?tags=indoor,outdoor", token, nil)
	env = helpers.ParseEnvelope(t, resp, true)
	if env.Count != 2 {
		t.Errorf("Expected 2 tagged activities, got %d", env.Count)
	}
}

// TestListActivitiesByAge verifies the months-based range match and the
// invalid parameter handling.
func TestListActivitiesByAge(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)

	helpers.CreateTestActivity(t, db, "For infants", models.DomainMotor, models.AgeRange{Min: 0, Max: 12}, admin.ID)
	helpers.CreateTestActivity(t, db, "For toddlers", models.DomainMotor, models.AgeRange{Min: 13, Max: 36}, admin.ID)

	token := helpers.MintToken(t, parent.ID)

	resp := request(t, app, "GET", "/api/activities/age/6", token, nil)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 1 {
		t.Errorf("Expected 1 activity for 6 months, got %d", env.Count)
	}

	resp = request(t, app, "GET", "/api/activities/age/twelve", token, nil)
	helpers.AssertStatus(t, resp, 400)
	envErr := helpers.ParseEnvelope(t, resp, false)
	if envErr.Message != "Invalid age group" {
		t.Errorf("Unexpected message: %s", envErr.Message)
	}
}

// TestUpdateActivityAdminOnly verifies the update gate and the partial update.
func TestUpdateActivityAdminOnly(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	activity := helpers.CreateTestActivity(t, db, "Stacking blocks", models.DomainMotor, models.AgeRange{Min: 12, Max: 36}, admin.ID)

	body := map[string]interface{}{"isApproved": false}

	resp := request(t, app, "PUT", "/api/activities/"+activity.ID, helpers.MintToken(t, parent.ID), body)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "PUT", "/api/activities/"+activity.ID, helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 200)
	var updated models.Activity
	helpers.ParseData(t, resp, &updated)
	if updated.IsApproved {
		t.Error("Expected activity unapproved after update")
	}
	if updated.Title != "Stacking blocks" {
		t.Errorf("Expected untouched fields preserved, got %q", updated.Title)
	}
}
