package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone is one developmental checkpoint recorded for a child. Status
// transitions are free-form; achievedDate is expected when status becomes
// Achieved but the replaced service never enforced it, and neither do we.
type Milestone struct {
	ID               string              `gorm:"type:char(36);primaryKey" json:"id"`
	ChildID          string              `gorm:"type:char(36);not null;index:idx_milestones_child_domain_status,priority:1" json:"childId"`
	Domain           string              `gorm:"size:20;not null;index:idx_milestones_child_domain_status,priority:2" json:"domain"`
	Title            string              `gorm:"size:255;not null" json:"title"`
	Description      string              `json:"description,omitempty"`
	ExpectedAgeRange AgeRange            `gorm:"embedded;embeddedPrefix:expected_age_" json:"expectedAgeRange"`
	Status           string              `gorm:"size:20;not null;default:'Not Started';index:idx_milestones_child_domain_status,priority:3" json:"status"`
	AchievedDate     *time.Time          `json:"achievedDate,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	MediaURL         []string            `gorm:"serializer:json" json:"mediaURL,omitempty"`
	AssessedBy       string              `gorm:"type:char(36);not null" json:"assessedBy"`
	IsDeleted        bool                `gorm:"not null;default:false" json:"isDeleted"`
	Activities       []MilestoneActivity `gorm:"serializer:json" json:"activities,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`

	Assessor *UserRef `gorm:"-" json:"assessor,omitempty"`
}

// MilestoneActivity is a practice exercise attached to a milestone.
type MilestoneActivity struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

// TableName overrides the table name for Milestone
func (Milestone) TableName() string {
	return "milestones"
}

// BeforeCreate assigns the id.
func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
