package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Child is a tracked child. parentId is required and must reference an
// existing user; volunteerId is the optional assigned volunteer. Children are
// soft-deleted only.
type Child struct {
	ID                string           `gorm:"type:char(36);primaryKey" json:"id"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	DOB               time.Time        `gorm:"not null" json:"dob"`
	Gender            string           `gorm:"size:10;not null" json:"gender"`
	ParentID          string           `gorm:"type:char(36);not null;index" json:"parentId"`
	VolunteerID       *string          `gorm:"type:char(36);index" json:"volunteerId,omitempty"`
	Address           Address          `gorm:"serializer:json" json:"address"`
	HealthInfo        HealthInfo       `gorm:"serializer:json" json:"healthInfo"`
	EducationLevel    string           `gorm:"size:40" json:"educationLevel,omitempty"`
	PreferredLanguage string           `gorm:"size:40;default:English" json:"preferredLanguage"`
	SpecialNeeds      []string         `gorm:"serializer:json" json:"specialNeeds,omitempty"`
	EmergencyContact  EmergencyContact `gorm:"serializer:json" json:"emergencyContact"`
	RegistrationDate  time.Time        `json:"registrationDate"`
	IsActive          bool             `gorm:"not null;default:true" json:"isActive"`
	IsDeleted         bool             `gorm:"not null;default:false;index" json:"isDeleted"`
	LastVisitDate     *time.Time       `json:"lastVisitDate,omitempty"`
	Notes             []ChildNote      `gorm:"serializer:json" json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`

	// Populated projections, not columns.
	Parent    *UserRef `gorm:"-" json:"parent,omitempty"`
	Volunteer *UserRef `gorm:"-" json:"volunteer,omitempty"`
}

// HealthInfo holds basic medical facts about a child.
type HealthInfo struct {
	BloodGroup  string   `json:"bloodGroup,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
}

// EmergencyContact is who to call when something goes wrong during a visit.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// ChildNote is a dated free-form note on a child's record.
type ChildNote struct {
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for Child
func (Child) TableName() string {
	return "children"
}

// BeforeCreate assigns the id and defaults the registration date.
func (c *Child) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.RegistrationDate.IsZero() {
		c.RegistrationDate = time.Now().UTC()
	}
	return nil
}

// AgeYears returns the child's age in whole years at the reference time.
func (c *Child) AgeYears(at time.Time) int {
	years := at.Year() - c.DOB.Year()
	if at.Month() < c.DOB.Month() ||
		(at.Month() == c.DOB.Month() && at.Day() < c.DOB.Day()) {
		years--
	}
	return years
}

// AgeMonths returns the child's age in whole months at the reference time.
// The stage lookup in child reports keys off this value.
func (c *Child) AgeMonths(at time.Time) int {
	return (at.Year()-c.DOB.Year())*12 + int(at.Month()) - int(c.DOB.Month())
}
