package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit is one home/center visit record. Creating a visit also stamps the
// child's lastVisitDate; both writes happen in one transaction in the visit
// service. Visits are soft-deleted only.
type Visit struct {
	ID                  string              `gorm:"type:char(36);primaryKey" json:"id"`
	VolunteerID         string              `gorm:"type:char(36);not null;index" json:"volunteerId"`
	ChildID             string              `gorm:"type:char(36);not null;index" json:"childId"`
	VisitDate           time.Time           `gorm:"not null;index" json:"visitDate"`
	Duration            int                 `gorm:"not null" json:"duration"`
	Location            string              `gorm:"size:20;not null" json:"location"`
	LocationDetails     string              `json:"locationDetails,omitempty"`
	ActivitiesConducted []ConductedActivity `gorm:"serializer:json" json:"activitiesConducted,omitempty"`
	MilestonesAssessed  []AssessedMilestone `gorm:"serializer:json" json:"milestonesAssessed,omitempty"`
	ChildObservations   ChildObservations   `gorm:"serializer:json" json:"childObservations"`
	ParentInteraction   ParentInteraction   `gorm:"serializer:json" json:"parentInteraction"`
	HomeEnvironment     HomeEnvironment     `gorm:"serializer:json" json:"homeEnvironment"`
	FollowUpNeeded      bool                `gorm:"not null;default:false" json:"followUpNeeded"`
	FollowUpReason      string              `json:"followUpReason,omitempty"`
	FollowUpAction      string              `json:"followUpAction,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	Photos              []string            `gorm:"serializer:json" json:"photos,omitempty"`
	IsDeleted           bool                `gorm:"not null;default:false" json:"isDeleted"`
	StatusUpdates       []VisitStatusUpdate `gorm:"serializer:json" json:"statusUpdates,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`

	Volunteer *UserRef  `gorm:"-" json:"volunteer,omitempty"`
	Child     *ChildRef `gorm:"-" json:"child,omitempty"`
}

// ConductedActivity is an exercise carried out during a visit.
type ConductedActivity struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Duration    int    `json:"duration,omitempty"`
}

// AssessedMilestone records a milestone reviewed during a visit.
type AssessedMilestone struct {
	MilestoneID string `json:"milestoneId"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ChildObservations captures how the child presented during a visit.
type ChildObservations struct {
	Mood          string `json:"mood,omitempty"`
	Participation string `json:"participation,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ParentInteraction captures parental presence and engagement.
type ParentInteraction struct {
	Present       bool   `json:"present"`
	Participation string `json:"participation,omitempty"`
	Feedback      string `json:"feedback,omitempty"`
}

// HomeEnvironment captures the visit setting.
type HomeEnvironment struct {
	AppropriateSpace  bool   `json:"appropriateSpace"`
	LearningMaterials bool   `json:"learningMaterials"`
	Notes             string `json:"notes,omitempty"`
}

// VisitStatusUpdate is an entry in a visit's scheduling history.
type VisitStatusUpdate struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChildRef is the name/dob/gender projection embedded where the replaced
// service populated a referenced child.
type ChildRef struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	DOB    time.Time `json:"dob"`
	Gender string    `json:"gender,omitempty"`
}

// Ref returns the child's reference projection.
func (c *Child) Ref() ChildRef {
	return ChildRef{ID: c.ID, Name: c.Name, DOB: c.DOB, Gender: c.Gender}
}

// TableName overrides the table name for Visit
func (Visit) TableName() string {
	return "visits"
}

// BeforeCreate assigns the id and defaults the visit date.
func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	return nil
}
