// data.go
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

package helpers

import (
	"testing"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates a user with the given role and a generated password.
func CreateTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := user.SetPassword(GeneratePassword()); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return &user
}

// CreateTestChild creates a child for the parent, optionally assigned to a
// volunteer.
func CreateTestChild(t *testing.T, db *gorm.DB, name string, dob time.Time, parentID string, volunteerID *string) *models.Child {
	t.Helper()
	child := models.Child{
		Name:        name,
		DOB:         dob,
		Gender:      "Female",
		ParentID:    parentID,
		VolunteerID: volunteerID,
		IsActive:    true,
	}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("Failed to create child %s: %v", name, err)
	}
	return &child
}

// CreateTestMilestone creates a milestone for the child in the given domain
// and status.
func CreateTestMilestone(t *testing.T, db *gorm.DB, childID, domain, status, assessedBy string) *models.Milestone {
	t.Helper()
	milestone := models.Milestone{
		ChildID:          childID,
		Domain:           domain,
		Title:            domain + " checkpoint",
		ExpectedAgeRange: models.AgeRange{Min: 0, Max: 72},
		Status:           status,
		AssessedBy:       assessedBy,
	}
	if status == models.StatusAchieved {
		now := time.Now().UTC()
		milestone.AchievedDate = &now
	}
	if err := db.Create(&milestone).Error; err != nil {
		t.Fatalf("Failed to create milestone: %v", err)
	}
	return &milestone
}

// CreateTestVisit creates a visit record directly, bypassing the service
// layer so tests control every field.
func CreateTestVisit(t *testing.T, db *gorm.DB, volunteerID, childID string, visitDate time.Time, duration int) *models.Visit {
	t.Helper()
	visit := models.Visit{
		VolunteerID: volunteerID,
		ChildID:     childID,
		VisitDate:   visitDate,
		Duration:    duration,
		Location:    "Home",
	}
	if err := db.Create(&visit).Error; err != nil {
		t.Fatalf("Failed to create visit: %v", err)
	}
	return &visit
}

// CreateTestActivity creates an approved library activity.
func CreateTestActivity(t *testing.T, db *gorm.DB, title, domain string, ageRange models.AgeRange, createdBy string) *models.Activity {
	t.Helper()
	activity := models.Activity{
		Title:       title,
		Description: title + " description",
		Domain:      domain,
		AgeRange:    ageRange,
		Duration:    15,
		CreatedBy:   createdBy,
		IsApproved:  true,
	}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("Failed to create activity %s: %v", title, err)
	}
	return &activity
}
