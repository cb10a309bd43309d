package handlers_test

import (
	"testing"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/tests/helpers"
)

// TestCreateVisitStampsLastVisitDate verifies logging a visit moves the
// child's lastVisitDate in the same transaction.
func TestCreateVisitStampsLastVisitDate(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)

	visitDate := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	body := map[string]interface{}{
		"childId":   child.ID,
		"visitDate": visitDate.Format(time.RFC3339),
		"duration":  45,
		"location":  "Home",
	}
	resp := request(t, app, "POST", "/api/visits", helpers.MintToken(t, volunteer.ID), body)
	helpers.AssertStatus(t, resp, 201)

	var visit models.Visit
	helpers.ParseData(t, resp, &visit)
	if visit.VolunteerID != volunteer.ID {
		t.Errorf("Expected volunteerId defaulted to caller, got %s", visit.VolunteerID)
	}

	var stamped models.Child
	if err := db.First(&stamped, "id = ?", child.ID).Error; err != nil {
		t.Fatalf("Failed to reload child: %v", err)
	}
	if stamped.LastVisitDate == nil || !stamped.LastVisitDate.Equal(visitDate) {
		t.Errorf("Expected lastVisitDate %v, got %v", visitDate, stamped.LastVisitDate)
	}
}

// TestCreateVisitRoleGate verifies parents cannot log visits at all and
// volunteers cannot log visits for children assigned to someone else.
func TestCreateVisitRoleGate(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	assigned := helpers.CreateTestUser(t, db, "Assigned", "assigned@test.local", models.RoleVolunteer)
	outsider := helpers.CreateTestUser(t, db, "Outsider", "outsider@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &assigned.ID)

	body := map[string]interface{}{
		"childId":  child.ID,
		"duration": 30,
		"location": "Home",
	}

	// Parents are stopped by the role table before any service logic runs.
	resp := request(t, app, "POST", "/api/visits", helpers.MintToken(t, parent.ID), body)
	helpers.AssertStatus(t, resp, 403)

	// A volunteer recording on behalf of the assigned volunteer is refused.
	bodyForOther := map[string]interface{}{
		"childId":     child.ID,
		"volunteerId": assigned.ID,
		"duration":    30,
		"location":    "Home",
	}
	resp = request(t, app, "POST", "/api/visits", helpers.MintToken(t, outsider.ID), bodyForOther)
	helpers.AssertStatus(t, resp, 403)

	// The assigned volunteer is fine.
	resp = request(t, app, "POST", "/api/visits", helpers.MintToken(t, assigned.ID), body)
	helpers.AssertStatus(t, resp, 201)
}

// TestCreateVisitValidation exercises the body validation failures.
func TestCreateVisitValidation(t *testing.T) {
	db, app := setup(t)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	token := helpers.MintToken(t, volunteer.ID)

	resp := request(t, app, "POST", "/api/visits", token, map[string]interface{}{
		"duration": 30,
		"location": "Home",
	})
	helpers.AssertStatus(t, resp, 400)
	env := helpers.ParseEnvelope(t, resp, false)
	if env.Message != "Field 'ChildID' is required" {
		t.Errorf("Unexpected message: %s", env.Message)
	}

	resp = request(t, app, "POST", "/api/visits", token, map[string]interface{}{
		"childId":  "whatever",
		"duration": 30,
		"location": "spaceship",
	})
	helpers.AssertStatus(t, resp, 400)
}

// TestCreateVisitFlexiblePayload verifies the lenient parsing older frontend
// builds rely on: duration as a string and a bare object for a single
// milestone assessment.
func TestCreateVisitFlexiblePayload(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)
	milestone := helpers.CreateTestMilestone(t, db, child.ID, models.DomainMotor, models.StatusInProgress, volunteer.ID)

	body := map[string]interface{}{
		"childId":  child.ID,
		"duration": "40",
		"location": "Center",
		"milestonesAssessed": map[string]interface{}{
			"milestoneId": milestone.ID,
			"status":      models.StatusAchieved,
		},
	}
	resp := request(t, app, "POST", "/api/visits", helpers.MintToken(t, volunteer.ID), body)
	helpers.AssertStatus(t, resp, 201)

	var visit models.Visit
	helpers.ParseData(t, resp, &visit)
	if visit.Duration != 40 {
		t.Errorf("Expected duration 40 from string payload, got %d", visit.Duration)
	}
	if len(visit.MilestonesAssessed) != 1 || visit.MilestonesAssessed[0].MilestoneID != milestone.ID {
		t.Errorf("Expected single assessment wrapped into a list, got %+v", visit.MilestonesAssessed)
	}
}

// TestListVisitsByVolunteerSelfOnly verifies a volunteer can only read their
// own visit history while admins can read anyone's.
func TestListVisitsByVolunteerSelfOnly(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	vol1 := helpers.CreateTestUser(t, db, "Vol One", "vol1@test.local", models.RoleVolunteer)
	vol2 := helpers.CreateTestUser(t, db, "Vol Two", "vol2@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &vol1.ID)

	helpers.CreateTestVisit(t, db, vol1.ID, child.ID, time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestVisit(t, db, vol1.ID, child.ID, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), 45)

	resp := request(t, app, "GET", "/api/visits/volunteer/"+vol1.ID, helpers.MintToken(t, vol2.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "GET", "/api/visits/volunteer/"+vol1.ID, helpers.MintToken(t, vol1.ID), nil)
	helpers.AssertStatus(t, resp, 200)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 2 {
		t.Errorf("Expected 2 visits, got %d", env.Count)
	}

	resp = request(t, app, "GET", "/api/visits/volunteer/"+vol1.ID, helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 200)
}

// TestListVisitsByChildDateWindow verifies the startDate/endDate filters.
func TestListVisitsByChildDateWindow(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)

	helpers.CreateTestVisit(t, db, volunteer.ID, child.ID, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestVisit(t, db, volunteer.ID, child.ID, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestVisit(t, db, volunteer.ID, child.ID, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), 30)

	path := "/api/visits/child/" + child.ID + "?startDate=2026-06-01&endDate=2026-07-01"
	resp := request(t, app, "GET", path, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 200)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 1 {
		t.Errorf("Expected 1 visit in window, got %d", env.Count)
	}

	resp = request(t, app, "GET", "/api/visits/child/"+child.ID+"?startDate=nonsense", helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 400)
}

// TestGetVisitAccess verifies read access: the child's parent and the
// recording volunteer see the visit, other parents do not.
func TestGetVisitAccess(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	other := helpers.CreateTestUser(t, db, "Other", "other@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)
	visit := helpers.CreateTestVisit(t, db, volunteer.ID, child.ID, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), 30)

	resp := request(t, app, "GET", "/api/visits/"+visit.ID, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var got models.Visit
	helpers.ParseData(t, resp, &got)
	if got.Volunteer == nil || got.Volunteer.Name != "Volunteer" {
		t.Error("Expected volunteer projection on visit")
	}
	if got.Child == nil || got.Child.Name != "Ada" {
		t.Error("Expected child projection on visit")
	}

	resp = request(t, app, "GET", "/api/visits/"+visit.ID, helpers.MintToken(t, other.ID), nil)
	helpers.AssertStatus(t, resp, 403)
}

// TestUpdateVisitRecorderOnly verifies only the recording volunteer or an
// admin may edit a visit.
func TestUpdateVisitRecorderOnly(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	vol1 := helpers.CreateTestUser(t, db, "Vol One", "vol1@test.local", models.RoleVolunteer)
	vol2 := helpers.CreateTestUser(t, db, "Vol Two", "vol2@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &vol1.ID)
	visit := helpers.CreateTestVisit(t, db, vol1.ID, child.ID, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), 30)

	body := map[string]interface{}{"notes": "went well"}

	resp := request(t, app, "PUT", "/api/visits/"+visit.ID, helpers.MintToken(t, vol2.ID), body)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "PUT", "/api/visits/"+visit.ID, helpers.MintToken(t, vol1.ID), body)
	helpers.AssertStatus(t, resp, 200)
	var updated models.Visit
	helpers.ParseData(t, resp, &updated)
	if updated.Notes != "went well" {
		t.Errorf("Expected notes updated, got %q", updated.Notes)
	}

	resp = request(t, app, "PUT", "/api/visits/"+visit.ID, helpers.MintToken(t, admin.ID),
		map[string]interface{}{"duration": 60})
	helpers.AssertStatus(t, resp, 200)
	helpers.ParseData(t, resp, &updated)
	if updated.Duration != 60 {
		t.Errorf("Expected duration 60, got %d", updated.Duration)
	}
}
