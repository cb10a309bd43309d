// reports_test.go
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
	"testing"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/tests/helpers"
)

// TestChildReport verifies the per-child report numbers for a toddler.
func TestChildReport(t *testing.T) {
	db, app := setup(t)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	other := helpers.CreateTestUser(t, db, "Other", "other@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)

	// Two years old puts the child in the toddler stage.
	dob := time.Now().UTC().AddDate(-2, 0, 0)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)

	helpers.CreateTestMilestone(t, db, child.ID, models.DomainMotor, models.StatusAchieved, volunteer.ID)
	helpers.CreateTestMilestone(t, db, child.ID, models.DomainMotor, models.StatusAchieved, volunteer.ID)
	helpers.CreateTestMilestone(t, db, child.ID, models.DomainLanguage, models.StatusInProgress, volunteer.ID)
	helpers.CreateTestVisit(t, db, volunteer.ID, child.ID, time.Now().UTC().AddDate(0, 0, -7), 30)

	resp := request(t, app, "GET", "/api/reports/child/"+child.ID, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var report services.ChildReport
	helpers.ParseData(t, resp, &report)

	if report.MilestoneStats.Total != 3 || report.MilestoneStats.Achieved != 2 {
		t.Errorf("Expected 3 total / 2 achieved, got %d/%d",
			report.MilestoneStats.Total, report.MilestoneStats.Achieved)
	}
	motor := report.MilestoneStats.ByDomain[models.DomainMotor]
	if motor.Achieved != 2 || motor.ProgressPercent != 100 {
		t.Errorf("Expected Motor 2 achieved at 100%%, got %d at %d%%", motor.Achieved, motor.ProgressPercent)
	}
	if report.VisitCount != 1 {
		t.Errorf("Expected 1 visit, got %d", report.VisitCount)
	}

	progress := report.AgeAppropriateProgress
	if progress.DevelopmentalStage != "toddler" {
		t.Errorf("Expected toddler stage, got %q", progress.DevelopmentalStage)
	}
	// Toddlers are expected 6 Motor milestones; 2 achieved rounds to 33%.
	if p := progress.Progress[models.DomainMotor]; p.Expected != 6 || p.Achieved != 2 || p.Percentage != 33 {
		t.Errorf("Unexpected Motor progress: %+v", p)
	}
	// 2 achieved against the toddler total of 25 rounds to 8%.
	if p := progress.Progress["Overall"]; p.Expected != 25 || p.Achieved != 2 || p.Percentage != 8 {
		t.Errorf("Unexpected Overall progress: %+v", p)
	}

	// Another parent cannot pull the report.
	resp = request(t, app, "GET", "/api/reports/child/"+child.ID, helpers.MintToken(t, other.ID), nil)
	helpers.AssertStatus(t, resp, 403)
}

// TestSummaryReport verifies the admin gate and the org-wide ratios.
func TestSummaryReport(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	volunteer := helpers.CreateTestUser(t, db, "Volunteer", "vol@test.local", models.RoleVolunteer)

	dob := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	child1 := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &volunteer.ID)
	helpers.CreateTestChild(t, db, "Ben", dob, parent.ID, nil)
	helpers.CreateTestVisit(t, db, volunteer.ID, child1.ID, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestVisit(t, db, volunteer.ID, child1.ID, time.Date(2026, 8, 8, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestVisit(t, db, volunteer.ID, child1.ID, time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC), 30)
	helpers.CreateTestMilestone(t, db, child1.ID, models.DomainMotor, models.StatusAchieved, volunteer.ID)

	resp := request(t, app, "GET", "/api/reports/summary", helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "GET", "/api/reports/summary", helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var report services.SummaryReport
	helpers.ParseData(t, resp, &report)
	if report.Counts.TotalChildren != 2 || report.Counts.TotalVisits != 3 {
		t.Errorf("Unexpected counts: %+v", report.Counts)
	}
	if report.Counts.TotalVolunteers != 1 || report.Counts.TotalParents != 1 {
		t.Errorf("Unexpected role counts: %+v", report.Counts)
	}
	if report.VisitsPerChild != 1.5 {
		t.Errorf("Expected visitsPerChild 1.5, got %v", report.VisitsPerChild)
	}
	if report.ChildrenPerVolunteer != 2 {
		t.Errorf("Expected childrenPerVolunteer 2, got %v", report.ChildrenPerVolunteer)
	}
}

// TestVolunteerReport verifies the self-only gate, the hour total, and the
// 404 for a non-volunteer id.
func TestVolunteerReport(t *testing.T) {
	db, app := setup(t)
	admin := helpers.CreateTestUser(t, db, "Admin", "admin@test.local", models.RoleAdmin)
	parent := helpers.CreateTestUser(t, db, "Parent", "parent@test.local", models.RoleParent)
	vol1 := helpers.CreateTestUser(t, db, "Vol One", "vol1@test.local", models.RoleVolunteer)
	vol2 := helpers.CreateTestUser(t, db, "Vol Two", "vol2@test.local", models.RoleVolunteer)

	dob := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	child := helpers.CreateTestChild(t, db, "Ada", dob, parent.ID, &vol1.ID)
	now := time.Now().UTC()
	helpers.CreateTestVisit(t, db, vol1.ID, child.ID, now.AddDate(0, 0, -14), 30)
	visit := helpers.CreateTestVisit(t, db, vol1.ID, child.ID, now.AddDate(0, 0, -7), 45)

	// The second visit references a live milestone, a soft-deleted one, and a
	// dangling id; only the live one may count in the stats.
	live := helpers.CreateTestMilestone(t, db, child.ID, models.DomainMotor, models.StatusAchieved, vol1.ID)
	gone := helpers.CreateTestMilestone(t, db, child.ID, models.DomainLanguage, models.StatusInProgress, vol1.ID)
	if err := db.Model(gone).Update("is_deleted", true).Error; err != nil {
		t.Fatalf("Failed to soft delete milestone: %v", err)
	}
	visit.MilestonesAssessed = []models.AssessedMilestone{
		{MilestoneID: live.ID},
		{MilestoneID: gone.ID},
		{MilestoneID: "no-such-milestone"},
	}
	if err := db.Save(visit).Error; err != nil {
		t.Fatalf("Failed to update visit: %v", err)
	}

	// Parents never reach the handler; volunteers only reach their own report.
	resp := request(t, app, "GET", "/api/reports/volunteer/"+vol1.ID, helpers.MintToken(t, parent.ID), nil)
	helpers.AssertStatus(t, resp, 403)
	resp = request(t, app, "GET", "/api/reports/volunteer/"+vol1.ID, helpers.MintToken(t, vol2.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = request(t, app, "GET", "/api/reports/volunteer/"+vol1.ID, helpers.MintToken(t, vol1.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var report services.VolunteerReport
	helpers.ParseData(t, resp, &report)
	if report.Stats.AssignedChildren != 1 || report.Stats.TotalVisits != 2 {
		t.Errorf("Unexpected stats: %+v", report.Stats)
	}
	if report.Stats.TotalHours != 1.25 {
		t.Errorf("Expected 1.25 hours, got %v", report.Stats.TotalHours)
	}
	if len(report.Stats.VisitsByMonth) != 6 {
		t.Errorf("Expected 6 month buckets, got %d", len(report.Stats.VisitsByMonth))
	}
	if report.Stats.MilestonesAssessed != 1 || report.Stats.MilestonesAchieved != 1 {
		t.Errorf("Expected 1 assessed / 1 achieved, got %d/%d",
			report.Stats.MilestonesAssessed, report.Stats.MilestonesAchieved)
	}

	// Asking for a parent's "volunteer report" is a 404, not an empty report.
	resp = request(t, app, "GET", "/api/reports/volunteer/"+parent.ID, helpers.MintToken(t, admin.ID), nil)
	helpers.AssertStatus(t, resp, 404)
}
