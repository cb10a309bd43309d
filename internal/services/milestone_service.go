package services

import (
	"errors"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// CreateMilestoneInput carries the fields accepted when recording a
// milestone. mediaURL is a flex list; older frontend builds send a single
// URL as a bare string-bearing object.
type CreateMilestoneInput struct {
	ChildID          string                     `json:"childId" validate:"required"`
	Domain           string                     `json:"domain" validate:"required,oneof=Motor Cognitive Language Social Emotional Other"`
	Title            string                     `json:"title" validate:"required,max=255"`
	Description      string                     `json:"description"`
	ExpectedAgeRange models.AgeRange            `json:"expectedAgeRange"`
	Status           string                     `json:"status" validate:"omitempty,oneof='Not Started' 'In Progress' Achieved Concern"`
	AchievedDate     *time.Time                 `json:"achievedDate"`
	Notes            string                     `json:"notes"`
	MediaURL         types.FlexList[string]     `json:"mediaURL"`
	AssessedBy       string                     `json:"assessedBy"`
	Activities       []models.MilestoneActivity `json:"activities"`
}

// UpdateMilestoneInput carries the updatable milestone fields. Parents are
// silently restricted to notes, media, and activity completion; the other
// fields are dropped for them rather than rejected.
type UpdateMilestoneInput struct {
	Domain           *string                    `json:"domain" validate:"omitempty,oneof=Motor Cognitive Language Social Emotional Other"`
	Title            *string                    `json:"title" validate:"omitempty,min=1,max=255"`
	Description      *string                    `json:"description"`
	ExpectedAgeRange *models.AgeRange           `json:"expectedAgeRange"`
	Status           *string                    `json:"status" validate:"omitempty,oneof='Not Started' 'In Progress' Achieved Concern"`
	AchievedDate     *time.Time                 `json:"achievedDate"`
	Notes            *string                    `json:"notes"`
	MediaURL         types.FlexList[string]     `json:"mediaURL"`
	Activities       []models.MilestoneActivity `json:"activities"`
}

// MilestoneFilters narrows a child's milestone list.
type MilestoneFilters struct {
	Domain string
	Status string
}

// CreateMilestone records a milestone for a child. Volunteers may only record
// against children assigned to them; parents only against their own children.
func CreateMilestone(db *gorm.DB, caller Caller, input CreateMilestoneInput) (*models.Milestone, error) {
	child, err := findLiveChild(db, input.ChildID)
	if err != nil {
		return nil, err
	}
	if err := authorizeMilestoneWrite(caller, child); err != nil {
		return nil, err
	}

	assessedBy := input.AssessedBy
	if assessedBy == "" {
		assessedBy = caller.ID
	}

	milestone := models.Milestone{
		ChildID:          input.ChildID,
		Domain:           input.Domain,
		Title:            input.Title,
		Description:      input.Description,
		ExpectedAgeRange: input.ExpectedAgeRange,
		Status:           input.Status,
		AchievedDate:     input.AchievedDate,
		Notes:            input.Notes,
		MediaURL:         input.MediaURL.Slice(),
		AssessedBy:       assessedBy,
		Activities:       input.Activities,
	}
	if milestone.Status == "" {
		milestone.Status = models.StatusNotStarted
	}
	if milestone.Status == models.StatusAchieved && milestone.AchievedDate == nil {
		now := time.Now().UTC()
		milestone.AchievedDate = &now
	}

	if err := db.Create(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// ListMilestonesByChild returns a child's milestones, newest first, with
// optional domain and status filters.
func ListMilestonesByChild(db *gorm.DB, caller Caller, childID string, f MilestoneFilters) ([]models.Milestone, error) {
	child, err := findChild(db, childID)
	if err != nil {
		return nil, err
	}
	if err := authorizeChildAccess(caller, child); err != nil {
		return nil, err
	}

	q := db.Where("child_id = ? AND is_deleted = ?", childID, false)
	if db.Dialector.Name() == "mysql" {
		// USE INDEX is MySQL syntax only.
		q = q.Clauses(hints.UseIndex("idx_milestones_child_domain_status"))
	}
	if f.Domain != "" {
		q = q.Where("domain = ?", f.Domain)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var milestones []models.Milestone
	if err := q.Order("created_at DESC").Find(&milestones).Error; err != nil {
		return nil, err
	}
	if err := attachAssessorRefs(db, milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// GetMilestone returns a single milestone the caller is allowed to see.
func GetMilestone(db *gorm.DB, caller Caller, id string) (*models.Milestone, error) {
	milestone, child, err := findMilestoneWithChild(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeChildAccess(caller, child); err != nil {
		return nil, err
	}

	milestones := []models.Milestone{*milestone}
	if err := attachAssessorRefs(db, milestones); err != nil {
		return nil, err
	}
	return &milestones[0], nil
}

// UpdateMilestone applies a partial update. Parents can only complete
// activities and add notes or media; the remaining fields are dropped for
// them without error, matching the replaced service.
func UpdateMilestone(db *gorm.DB, caller Caller, id string, input UpdateMilestoneInput) (*models.Milestone, error) {
	milestone, child, err := findMilestoneWithChild(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeMilestoneWrite(caller, child); err != nil {
		return nil, err
	}

	if caller.IsParentLike() {
		input = UpdateMilestoneInput{
			Notes:      input.Notes,
			MediaURL:   input.MediaURL,
			Activities: input.Activities,
		}
	}

	if input.Domain != nil {
		milestone.Domain = *input.Domain
	}
	if input.Title != nil {
		milestone.Title = *input.Title
	}
	if input.Description != nil {
		milestone.Description = *input.Description
	}
	if input.ExpectedAgeRange != nil {
		milestone.ExpectedAgeRange = *input.ExpectedAgeRange
	}
	if input.Status != nil {
		milestone.Status = *input.Status
	}
	if input.AchievedDate != nil {
		milestone.AchievedDate = input.AchievedDate
	}
	if input.Notes != nil {
		milestone.Notes = *input.Notes
	}
	if input.MediaURL != nil {
		milestone.MediaURL = input.MediaURL.Slice()
	}
	if input.Activities != nil {
		milestone.Activities = input.Activities
	}
	if milestone.Status == models.StatusAchieved && milestone.AchievedDate == nil {
		now := time.Now().UTC()
		milestone.AchievedDate = &now
	}

	if err := db.Save(milestone).Error; err != nil {
		return nil, err
	}
	return milestone, nil
}

// findLiveChild loads a child that has not been soft-deleted.
func findLiveChild(db *gorm.DB, id string) (*models.Child, error) {
	child, err := findChild(db, id)
	if err != nil {
		return nil, err
	}
	if child.IsDeleted {
		return nil, NotFoundf("Child not found")
	}
	return child, nil
}

// findMilestoneWithChild loads a live milestone and its child. A milestone
// whose child record has vanished is reported as a distinct 404 so the
// inconsistency is visible.
func findMilestoneWithChild(db *gorm.DB, id string) (*models.Milestone, *models.Child, error) {
	var milestone models.Milestone
	if err := db.First(&milestone, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("Milestone not found")
		}
		return nil, nil, err
	}

	var child models.Child
	if err := db.First(&child, "id = ?", milestone.ChildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("Associated child not found")
		}
		return nil, nil, err
	}
	return &milestone, &child, nil
}

// authorizeMilestoneWrite enforces who may record or edit milestones for a
// child. An unassigned volunteer is allowed, matching the replaced service's
// null-safe check.
func authorizeMilestoneWrite(caller Caller, child *models.Child) error {
	if caller.IsParentLike() && child.ParentID != caller.ID {
		return Forbiddenf("Not authorized to record milestones for this child")
	}
	if caller.IsVolunteer() &&
		child.VolunteerID != nil && *child.VolunteerID != caller.ID {
		return Forbiddenf("Not authorized to record milestones for this child")
	}
	return nil
}

// attachAssessorRefs fills the assessor projection for a slice of milestones
// with one user query.
func attachAssessorRefs(db *gorm.DB, milestones []models.Milestone) error {
	ids := make([]string, 0, len(milestones))
	for i := range milestones {
		ids = append(ids, milestones[i].AssessedBy)
	}
	refs, err := userRefs(db, ids)
	if err != nil {
		return err
	}
	for i := range milestones {
		milestones[i].Assessor = refOrNil(refs, milestones[i].AssessedBy)
	}
	return nil
}
