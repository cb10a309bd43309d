// visit_service.go
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

package services

import (
	"errors"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/types"
	"gorm.io/gorm"
)

// CreateVisitInput carries the fields accepted when logging a visit. Duration
// and milestone assessments use the flex types because older frontend builds
// send them as a string and a bare object respectively.
type CreateVisitInput struct {
	VolunteerID         string                                   `json:"volunteerId"`
	ChildID             string                                   `json:"childId" validate:"required"`
	VisitDate           *time.Time                               `json:"visitDate"`
	Duration            types.FlexInt                            `json:"duration" validate:"required,gt=0"`
	Location            string                                   `json:"location" validate:"required,oneof=Home Center School Other"`
	LocationDetails     string                                   `json:"locationDetails"`
	ActivitiesConducted []models.ConductedActivity               `json:"activitiesConducted"`
	MilestonesAssessed  types.FlexList[models.AssessedMilestone] `json:"milestonesAssessed"`
	ChildObservations   models.ChildObservations                 `json:"childObservations"`
	ParentInteraction   models.ParentInteraction                 `json:"parentInteraction"`
	HomeEnvironment     models.HomeEnvironment                   `json:"homeEnvironment"`
	FollowUpNeeded      bool                                     `json:"followUpNeeded"`
	FollowUpReason      string                                   `json:"followUpReason"`
	FollowUpAction      string                                   `json:"followUpAction"`
	Notes               string                                   `json:"notes"`
	Photos              []string                                 `json:"photos"`
}

// UpdateVisitInput carries the updatable visit fields.
type UpdateVisitInput struct {
	VisitDate           *time.Time                               `json:"visitDate"`
	Duration            *types.FlexInt                           `json:"duration" validate:"omitempty,gt=0"`
	Location            *string                                  `json:"location" validate:"omitempty,oneof=Home Center School Other"`
	LocationDetails     *string                                  `json:"locationDetails"`
	ActivitiesConducted []models.ConductedActivity               `json:"activitiesConducted"`
	MilestonesAssessed  types.FlexList[models.AssessedMilestone] `json:"milestonesAssessed"`
	ChildObservations   *models.ChildObservations                `json:"childObservations"`
	ParentInteraction   *models.ParentInteraction                `json:"parentInteraction"`
	HomeEnvironment     *models.HomeEnvironment                  `json:"homeEnvironment"`
	FollowUpNeeded      *bool                                    `json:"followUpNeeded"`
	FollowUpReason      *string                                  `json:"followUpReason"`
	FollowUpAction      *string                                  `json:"followUpAction"`
	Notes               *string                                  `json:"notes"`
	Photos              []string                                 `json:"photos"`
	StatusUpdates       []models.VisitStatusUpdate               `json:"statusUpdates"`
}

// VisitFilters narrows visit lists to a date window.
type VisitFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateVisit logs a visit and stamps the child's lastVisitDate. Both writes
// happen in one transaction so a failed visit insert never moves the stamp.
func CreateVisit(db *gorm.DB, caller Caller, input CreateVisitInput) (*models.Visit, error) {
	volunteerID := input.VolunteerID
	if volunteerID == "" && caller.IsVolunteer() {
		volunteerID = caller.ID
	}
	if volunteerID == "" {
		return nil, Invalidf("Volunteer ID is required")
	}

	child, err := findChild(db, input.ChildID)
	if err != nil {
		return nil, err
	}
	if err := requireVolunteerLike(db, volunteerID); err != nil {
		return nil, err
	}
	if caller.IsVolunteer() && caller.ID != volunteerID &&
		(child.VolunteerID == nil || *child.VolunteerID != caller.ID) {
		return nil, Forbiddenf("Not authorized to record visits for this child")
	}

	visit := models.Visit{
		VolunteerID:         volunteerID,
		ChildID:             input.ChildID,
		Duration:            input.Duration.Int(),
		Location:            input.Location,
		LocationDetails:     input.LocationDetails,
		ActivitiesConducted: input.ActivitiesConducted,
		MilestonesAssessed:  input.MilestonesAssessed.Slice(),
		ChildObservations:   input.ChildObservations,
		ParentInteraction:   input.ParentInteraction,
		HomeEnvironment:     input.HomeEnvironment,
		FollowUpNeeded:      input.FollowUpNeeded,
		FollowUpReason:      input.FollowUpReason,
		FollowUpAction:      input.FollowUpAction,
		Notes:               input.Notes,
		Photos:              input.Photos,
	}
	if input.VisitDate != nil {
		visit.VisitDate = *input.VisitDate
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visit).Error; err != nil {
			return err
		}
		return tx.Model(&models.Child{}).
			Where("id = ?", child.ID).
			Update("last_visit_date", visit.VisitDate).Error
	})
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// ListVisitsByChild returns a child's visits, newest first, optionally
// limited to a date window.
func ListVisitsByChild(db *gorm.DB, caller Caller, childID string, f VisitFilters) ([]models.Visit, error) {
	child, err := findChild(db, childID)
	if err != nil {
		return nil, err
	}
	if err := authorizeChildAccess(caller, child); err != nil {
		return nil, err
	}

	q := db.Where("child_id = ? AND is_deleted = ?", childID, false)
	q = applyVisitWindow(q, f)

	var visits []models.Visit
	if err := q.Order("visit_date DESC").Find(&visits).Error; err != nil {
		return nil, err
	}
	if err := attachVisitRefs(db, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// ListVisitsByVolunteer returns a volunteer's visits, newest first.
// Volunteers can only query their own history.
func ListVisitsByVolunteer(db *gorm.DB, caller Caller, volunteerID string, f VisitFilters) ([]models.Visit, error) {
	if caller.IsVolunteer() && caller.ID != volunteerID {
		return nil, Forbiddenf("Not authorized to access this volunteer's visits")
	}
	if err := requireVolunteerLike(db, volunteerID); err != nil {
		return nil, err
	}

	q := db.Where("volunteer_id = ? AND is_deleted = ?", volunteerID, false)
	q = applyVisitWindow(q, f)

	var visits []models.Visit
	if err := q.Order("visit_date DESC").Find(&visits).Error; err != nil {
		return nil, err
	}
	if err := attachVisitRefs(db, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// GetVisit returns a single visit. The child's parent, the recording
// volunteer, and admins may read it.
func GetVisit(db *gorm.DB, caller Caller, id string) (*models.Visit, error) {
	visit, err := findVisit(db, id)
	if err != nil {
		return nil, err
	}

	var child models.Child
	if err := db.First(&child, "id = ?", visit.ChildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Associated child not found")
		}
		return nil, err
	}
	if caller.IsParentLike() && child.ParentID != caller.ID {
		return nil, Forbiddenf("Not authorized to access this visit")
	}
	if caller.IsVolunteer() && visit.VolunteerID != caller.ID {
		return nil, Forbiddenf("Not authorized to access this visit")
	}

	visits := []models.Visit{*visit}
	if err := attachVisitRefs(db, visits); err != nil {
		return nil, err
	}
	return &visits[0], nil
}

// UpdateVisit applies a partial update. Only the recording volunteer or an
// admin may edit a visit.
func UpdateVisit(db *gorm.DB, caller Caller, id string, input UpdateVisitInput) (*models.Visit, error) {
	visit, err := findVisit(db, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && visit.VolunteerID != caller.ID {
		return nil, Forbiddenf("Not authorized to update this visit")
	}

	if input.VisitDate != nil {
		visit.VisitDate = *input.VisitDate
	}
	if input.Duration != nil {
		visit.Duration = input.Duration.Int()
	}
	if input.Location != nil {
		visit.Location = *input.Location
	}
	if input.LocationDetails != nil {
		visit.LocationDetails = *input.LocationDetails
	}
	if input.ActivitiesConducted != nil {
		visit.ActivitiesConducted = input.ActivitiesConducted
	}
	if input.MilestonesAssessed != nil {
		visit.MilestonesAssessed = input.MilestonesAssessed.Slice()
	}
	if input.ChildObservations != nil {
		visit.ChildObservations = *input.ChildObservations
	}
	if input.ParentInteraction != nil {
		visit.ParentInteraction = *input.ParentInteraction
	}
	if input.HomeEnvironment != nil {
		visit.HomeEnvironment = *input.HomeEnvironment
	}
	if input.FollowUpNeeded != nil {
		visit.FollowUpNeeded = *input.FollowUpNeeded
	}
	if input.FollowUpReason != nil {
		visit.FollowUpReason = *input.FollowUpReason
	}
	if input.FollowUpAction != nil {
		visit.FollowUpAction = *input.FollowUpAction
	}
	if input.Notes != nil {
		visit.Notes = *input.Notes
	}
	if input.Photos != nil {
		visit.Photos = input.Photos
	}
	if input.StatusUpdates != nil {
		visit.StatusUpdates = input.StatusUpdates
	}

	if err := db.Save(visit).Error; err != nil {
		return nil, err
	}
	return visit, nil
}

func findVisit(db *gorm.DB, id string) (*models.Visit, error) {
	var visit models.Visit
	if err := db.First(&visit, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Visit not found")
		}
		return nil, err
	}
	return &visit, nil
}

func applyVisitWindow(q *gorm.DB, f VisitFilters) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("visit_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("visit_date <= ?", *f.EndDate)
	}
	return q
}

// attachVisitRefs fills the volunteer and child projections for a slice of
// visits with one query per table.
func attachVisitRefs(db *gorm.DB, visits []models.Visit) error {
	userIDs := make([]string, 0, len(visits))
	childIDs := make([]string, 0, len(visits))
	for i := range visits {
		userIDs = append(userIDs, visits[i].VolunteerID)
		childIDs = append(childIDs, visits[i].ChildID)
	}
	users, err := userRefs(db, userIDs)
	if err != nil {
		return err
	}
	children, err := childRefs(db, childIDs)
	if err != nil {
		return err
	}
	for i := range visits {
		visits[i].Volunteer = refOrNil(users, visits[i].VolunteerID)
		visits[i].Child = childRefOrNil(children, visits[i].ChildID)
	}
	return nil
}
