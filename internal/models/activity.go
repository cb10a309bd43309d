package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is a reusable suggested exercise from the curated library.
// Non-admin callers only ever see approved, non-deleted activities. The age
// range is embedded as real columns so the by-age lookup stays a SQL
// predicate.
type Activity struct {
	ID                  string   `gorm:"type:char(36);primaryKey" json:"id"`
	Title               string   `gorm:"size:255;not null" json:"title"`
	Description         string   `gorm:"not null" json:"description"`
	Domain              string   `gorm:"size:20;not null;index:idx_activities_domain_age,priority:1" json:"domain"`
	AgeRange            AgeRange `gorm:"embedded;embeddedPrefix:age_range_" json:"ageRange"`
	Materials           []string `gorm:"serializer:json" json:"materials,omitempty"`
	Steps               []string `gorm:"serializer:json" json:"steps,omitempty"`
	Duration            int      `gorm:"not null;default:15" json:"duration"`
	DifficultyLevel     string   `gorm:"size:10;default:Medium" json:"difficultyLevel"`
	Language            string   `gorm:"size:40;default:English;index" json:"language"`
	Tags                []string `gorm:"serializer:json" json:"tags,omitempty"`
	BenefitsDescription string   `json:"benefitsDescription,omitempty"`
	MediaURL            []string `gorm:"serializer:json" json:"mediaURL,omitempty"`
	CreatedBy           string   `gorm:"type:char(36);not null" json:"createdBy"`
	// No column default: with one, GORM omits an explicit false on insert
	// and the row comes back approved.
	IsApproved          bool     `gorm:"not null" json:"isApproved"`
	IsDeleted           bool     `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	Creator *UserRef `gorm:"-" json:"creator,omitempty"`
}

// TableName overrides the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// BeforeCreate assigns the id.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
