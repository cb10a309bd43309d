// children_test.go
//
// A scalable, high performance drop-in replacement for the casetrack nodejs backend
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of casetrack.
// casetrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// casetrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with casetrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/tests/helpers"
)

// TestCreateChildParentOwnership verifies a parent always registers children
// under their own account, even when the payload names someone else.
func TestCreateChildParentOwnership(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent One", "parent1@test.local", models.RoleParent)
	other := helpers.CreateTestUser(t, db, "Parent Two", "parent2@test.local", models.RoleParent)

	body := map[string]interface{}{
		"name":     "Ada",
		"dob":      "2023-01-15T00:00:00Z",
		"gender":   "Female",
		"parentId": other.ID,
	}
	resp := request(t, app, "POST", "/api/children", helpers.MintToken(t, parent.ID), body)
	helpers.AssertStatus(t, resp, 201)

	var child models.Child
	helpers.ParseData(t, resp, &child)
	if child.ParentID != parent.ID {
		t.Errorf("Expected parentId %s, got %s", parent.ID, child.ParentID)
	}
	if !child.IsActive {
		t.Error("Expected new child to be active")
	}
}

// TestCreateChildRequiresParent verifies an admin must name the parent.
func TestCreateChildRequiresParent(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)

	body := map[string]interface{}{
		"name":   "Ben",
		"dob":    "2022-06-01T00:00:00Z",
		"gender": "Male",
	}
	resp := request(t, app, "POST", "/api/children", helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 400)

	env := helpers.ParseEnvelope(t, resp, false)
	if env.Message != "Parent ID is required" {
		t.Errorf("Unexpected message: %s", env.Message)
	}
}

// TestCreateChildRejectsInvalidVolunteer verifies the named volunteer must
// actually hold the volunteer (or admin) role.
func TestCreateChildRejectsInvalidVolunteer(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	notAVolunteer := helpers.CreateTestUser(t, db, "Plain", "plain@test.local", models.RoleUser)

	body := map[string]interface{}{
		"name":        "Cora",
		"dob":         "2021-03-10T00:00:00Z",
		"gender":      "Female",
		"parentId":    parent.ID,
		"volunteerId": notAVolunteer.ID,
	}
	resp := request(t, app, "POST", "/api/children", helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 404)

	env := helpers.ParseEnvelope(t, resp, false)
	if env.Message != "Valid volunteer not found" {
		t.Errorf("Unexpected message: %s", env.Message)
	}
}

// TestListChildrenScoping verifies parents see their own children, volunteers
// their assigned children, and admins everything.
func TestListChildrenScoping(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent1 := helpers.CreateTestUser(t, db, "Parent One", "parent1@test.local", models.RoleParent)
	parent2 := helpers.CreateTestUser(t, db, "Parent Two", "parent2@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)

	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	helpers.CreateTestChild(t, db, "Ada", dob, parent1.ID, &volunteer.ID)
	helpers.CreateTestChild(t, db, "Ben", dob, parent1.ID, nil)
	helpers.CreateTestChild(t, db, "Cora", dob, parent2.ID, nil)

	cases := []struct {
		name  string
		token string
		count int
	}{
		{"parent sees own", helpers.MintToken(t, parent1.ID), 2},
		{"volunteer sees assigned", helpers.MintToken(t, volunteer.ID), 1},
		{"admin sees all", helpers.MintToken(t, admin.ID), 3},
	}
	for _, tc := range cases {
		resp := request(t, app, "GET", "/api/children", tc.token, nil)
		helpers.AssertStatus(t, resp, 200)
		env := helpers.ParseEnvelope(t, resp, true)
		if env.Count != tc.count {
			t.Errorf("%s: expected count %d, got %d", tc.name, tc.count, env.Count)
		}
	}
}

// TestListChildrenAgeFilter verifies the age window in years.
func TestListChildrenAgeFilter(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)

	now := time.Now().UTC()
	helpers.CreateTestChild(t, db, "Baby", now.AddDate(0, -6, 0), parent.ID, nil)
	helpers.CreateTestChild(t, db, "Kid", now.AddDate(-5, 0, 0).AddDate(0, 0, -7), parent.ID, nil)

	path := "/api/children?age=" + url.QueryEscape(`{"min":0,"max":1}`)
	resp := request(t, app, "GET", path, helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var children []models.Child
	env := helpers.ParseData(t, resp, &children)
	if env.Count != 1 {
		t.Fatalf("Expected 1 child in window, got %d", env.Count)
	}
	if children[0].Name != "Baby" {
		t.Errorf("Expected Baby, got %s", children[0].Name)
	}
}

// TestDeleteChildRoleGate verifies only admins may delete, and that a deleted
// child drops out of default lists but stays visible to admins on request.
func TestDeleteChildRoleGate(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, nil)

	resp := request(t, app, "DELETE", "/api/children/"+child.ID, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "DELETE", "/api/children/"+child.ID, helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	// Gone from the default list, for the parent too.
	resp = request(t, app, "GET", "/api/children", helpers.MintToken(t, parent.ID), nil)
	env := helpers.ParseEnvelope(t, resp, true)
	if env.Count != 0 {
		t.Errorf("Expected deleted child hidden from list, got count %d", env.Count)
	}

	// includeDeleted is honored for admins only.
	resp = request(t, app, "GET", "/api/children?includeDeleted=true", helpers.MintToken(t, parent.ID), nil)
	env = helpers.ParseEnvelope(t, resp, true)
	if env.Count != 0 {
		t.Errorf("Expected includeDeleted ignored for parent, got count %d", env.Count)
	}
	resp = request(t, app, "GET", "/api/children?includeDeleted=true", helpers.MintToken(t, admin.ID), nil)
	env = helpers.ParseEnvelope(t, resp, true)
	if env.Count != 1 {
		t.Errorf("Expected admin to see deleted child, got count %d", env.Count)
	}

	var deleted models.Child
	if err := db.First(&deleted, "id = ?", child.ID).Error; err != nil {
		t.Fatalf("Expected soft-deleted row to remain: %v", err)
	}
	if !deleted.IsDeleted || deleted.IsActive {
		t.Errorf("Expected isDeleted=true isActive=false, got %v/%v", deleted.IsDeleted, deleted.IsActive)
	}
}

// TestUpdateChildVolunteerAssignment verifies parents cannot touch the
// volunteer assignment while admins can set and clear it.
func TestUpdateChildVolunteerAssignment(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, nil)

	body := map[string]interface{}{"volunteerId": volunteer.ID}
	resp := request(t, app, "PUT", "/api/children/"+child.ID, helpers.MintToken(t, parent.ID), body)
	helpers.AssertStatus(t, resp, 403)
	env := helpers.ParseEnvelope(t, resp, false)
	if env.Message != "Not authorized to assign volunteers" {
		t.Errorf("Unexpected message: %s", env.Message)
	}

	resp = request(t, app, "PUT", "/api/children/"+child.ID, helpers.MintToken(t, admin.ID), body)
	helpers.AssertStatus(t, resp, 200)
	var updated models.Child
	helpers.ParseData(t, resp, &updated)
	if updated.VolunteerID == nil || *updated.VolunteerID != volunteer.ID {
		t.Fatal("Expected volunteer to be assigned")
	}

	// An empty id clears the assignment. Assert against the row: the
	// response omits a nil volunteerId, so re-decoding into the populated
	// struct would keep the stale value.
	resp = request(t, app, "PUT", "/api/children/"+child.ID, helpers.MintToken(t, admin.ID),
		map[string]interface{}{"volunteerId": ""})
	helpers.AssertStatus(t, resp, 200)
	var cleared models.Child
	if err := db.First(&cleared, "id = ?", child.ID).Error; err != nil {
		t.Fatalf("Failed to reload child: %v", err)
	}
	if cleared.VolunteerID != nil {
		t.Errorf("Expected volunteer cleared, got %s", *cleared.VolunteerID)
	}
}

// TestGetChildCrossParent verifies a parent cannot read another parent's child.
func TestGetChildCrossParent(t *testing.T) {
	db, app := setup(t)
	parent1 := helpers.CreateTestUser(t, db, "Parent One", "parent1@test.local", models.RoleParent)
	parent2 := helpers.CreateTestUser(t, db, "Parent Two", "parent2@test.local", models.RoleParent)
	dob := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent1.ID, nil)

	resp := request(t, app, "GET", "/api/children/"+child.ID, helpers.MintToken(t, parent2.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "GET", "/api/children/"+child.ID, helpers.MintToken(t, parent1.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var got models.Child
	helpers.ParseData(t, resp, &got)
	if got.Parent == nil || got.Parent.Name != "Parent One" {
		t.Error("Expected parent projection on child record")
	}
}
