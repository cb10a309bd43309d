package services

import (
	"errors"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateActivityInput carries the fields accepted when adding a library
// activity.
type CreateActivityInput struct {
	Title               string          `json:"title" validate:"required,max=255"`
	Description         string          `json:"description" validate:"required"`
	Domain              string          `json:"domain" validate:"required,oneof=Motor Cognitive Language Social Emotional Other"`
	AgeRange            models.AgeRange `json:"ageRange"`
	Materials           []string        `json:"materials"`
	Steps               []string        `json:"steps"`
	Duration            types.FlexInt   `json:"duration" validate:"omitempty,gt=0"`
	DifficultyLevel     string          `json:"difficultyLevel" validate:"omitempty,oneof=Easy Medium Hard"`
	Language            string          `json:"language" validate:"omitempty,max=40"`
	Tags                []string        `json:"tags"`
	BenefitsDescription string          `json:"benefitsDescription"`
	MediaURL            []string        `json:"mediaURL"`
	IsApproved          *bool           `json:"isApproved"`
}

// UpdateActivityInput carries the updatable activity fields.
type UpdateActivityInput struct {
	Title               *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description         *string          `json:"description"`
	Domain              *string          `json:"domain" validate:"omitempty,oneof=Motor Cognitive Language Social Emotional Other"`
	AgeRange            *models.AgeRange `json:"ageRange"`
	Materials           []string         `json:"materials"`
	Steps               []string         `json:"steps"`
	Duration            *types.FlexInt   `json:"duration" validate:"omitempty,gt=0"`
	DifficultyLevel     *string          `json:"difficultyLevel" validate:"omitempty,oneof=Easy Medium Hard"`
	Language            *string          `json:"language" validate:"omitempty,max=40"`
	Tags                []string         `json:"tags"`
	BenefitsDescription *string          `json:"benefitsDescription"`
	MediaURL            []string         `json:"mediaURL"`
	IsApproved          *bool            `json:"isApproved"`
}

// ActivityFilters narrows the activity list.
type ActivityFilters struct {
	Domain          string
	Language        string
	Tags            []string
	DifficultyLevel string
}

// CreateActivity adds an activity to the library, stamped with the creator.
// New activities are approved unless the payload says otherwise.
func CreateActivity(db *gorm.DB, caller Caller, input CreateActivityInput) (*models.Activity, error) {
	activity := models.Activity{
		Title:               input.Title,
		Description:         input.Description,
		Domain:              input.Domain,
		AgeRange:            input.AgeRange,
		Materials:           input.Materials,
		Steps:               input.Steps,
		Duration:            input.Duration.Int(),
		DifficultyLevel:     input.DifficultyLevel,
		Language:            input.Language,
		Tags:                input.Tags,
		BenefitsDescription: input.BenefitsDescription,
		MediaURL:            input.MediaURL,
		CreatedBy:           caller.ID,
		IsApproved:          true,
	}
	if activity.Duration == 0 {
		activity.Duration = 15
	}
	if activity.DifficultyLevel == "" {
		activity.DifficultyLevel = "Medium"
	}
	if activity.Language == "" {
		activity.Language = "English"
	}
	if input.IsApproved != nil {
		activity.IsApproved = *input.IsApproved
	}

	if err := db.Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities returns library activities, newest first. Non-admin callers
// only see approved entries; soft-deleted entries are never returned.
func ListActivities(db *gorm.DB, caller Caller, f ActivityFilters) ([]models.Activity, error) {
	q := activityScope(db, caller)
	q = applyActivityFilters(q, f)

	var activities []models.Activity
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	if err := attachCreatorRefs(db, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ListActivitiesByAge returns activities whose age range covers the given age
// in months.
func ListActivitiesByAge(db *gorm.DB, caller Caller, ageInMonths int, f ActivityFilters) ([]models.Activity, error) {
	q := activityScope(db, caller).
		Where("age_range_min <= ? AND age_range_max >= ?", ageInMonths, ageInMonths)
	q = applyActivityFilters(q, f)

	var activities []models.Activity
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	if err := attachCreatorRefs(db, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetActivity returns a single activity. Unapproved entries are only visible
// to admins.
func GetActivity(db *gorm.DB, caller Caller, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := db.First(&activity, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Activity not found")
		}
		return nil, err
	}
	if !activity.IsApproved && !caller.IsAdmin() {
		return nil, Forbiddenf("This activity is not approved yet")
	}

	activities := []models.Activity{activity}
	if err := attachCreatorRefs(db, activities); err != nil {
		return nil, err
	}
	return &activities[0], nil
}

// UpdateActivity applies a partial update to a library activity.
func UpdateActivity(db *gorm.DB, id string, input UpdateActivityInput) (*models.Activity, error) {
	var activity models.Activity
	if err := db.First(&activity, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Activity not found")
		}
		return nil, err
	}

	if input.Title != nil {
		activity.Title = *input.Title
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Domain != nil {
		activity.Domain = *input.Domain
	}
	if input.AgeRange != nil {
		activity.AgeRange = *input.AgeRange
	}
	if input.Materials != nil {
		activity.Materials = input.Materials
	}
	if input.Steps != nil {
		activity.Steps = input.Steps
	}
	if input.Duration != nil {
		activity.Duration = input.Duration.Int()
	}
	if input.DifficultyLevel != nil {
		activity.DifficultyLevel = *input.DifficultyLevel
	}
	if input.Language != nil {
		activity.Language = *input.Language
	}
	if input.Tags != nil {
		activity.Tags = input.Tags
	}
	if input.BenefitsDescription != nil {
		activity.BenefitsDescription = *input.BenefitsDescription
	}
	if input.MediaURL != nil {
		activity.MediaURL = input.MediaURL
	}
	if input.IsApproved != nil {
		activity.IsApproved = *input.IsApproved
	}

	if err := db.Save(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// activityScope applies the visibility rules every activity read shares.
func activityScope(db *gorm.DB, caller Caller) *gorm.DB {
	q := db.Model(&models.Activity{}).Where("is_deleted = ?", false)
	if !caller.IsAdmin() {
		q = q.Where("is_approved = ?", true)
	}
	return q
}

func applyActivityFilters(q *gorm.DB, f ActivityFilters) *gorm.DB {
	if f.Domain != "" {
		q = q.Where("domain = ?", f.Domain)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.DifficultyLevel != "" {
		q = q.Where("difficulty_level = ?", f.DifficultyLevel)
	}
	if len(f.Tags) > 0 {
		// Tag overlap: any requested tag present in the JSON tags column.
		session := q.Session(&gorm.Session{NewDB: true})
		tagQ := session.Where(datatypes.JSONArrayQuery("tags").Contains(f.Tags[0]))
		for _, tag := range f.Tags[1:] {
			tagQ = tagQ.Or(datatypes.JSONArrayQuery("tags").Contains(tag))
		}
		q = q.Where(tagQ)
	}
	return q
}

// attachCreatorRefs fills the creator projection for a slice of activities
// with one user query.
func attachCreatorRefs(db *gorm.DB, activities []models.Activity) error {
	ids := make([]string, 0, len(activities))
	for i := range activities {
		ids = append(ids, activities[i].CreatedBy)
	}
	refs, err := userRefs(db, ids)
	if err != nil {
		return err
	}
	for i := range activities {
		activities[i].Creator = refOrNil(refs, activities[i].CreatedBy)
	}
	return nil
}
