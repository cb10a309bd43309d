package models

// Roles known to the platform. Role is stored on User and checked by the
// authorization middleware against the permission table.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleParent    = "parent"
	RoleVolunteer = "volunteer"
)

// AllRoles lists every valid user role.
var AllRoles = []string{RoleUser, RoleAdmin, RoleParent, RoleVolunteer}

// Developmental domains for milestones and activities.
const (
	DomainMotor     = "Motor"
	DomainCognitive = "Cognitive"
	DomainLanguage  = "Language"
	DomainSocial    = "Social"
	DomainEmotional = "Emotional"
	DomainOther     = "Other"
)

// Domains lists every developmental domain, in report ordering.
var Domains = []string{
	DomainMotor,
	DomainCognitive,
	DomainLanguage,
	DomainSocial,
	DomainEmotional,
	DomainOther,
}

// Milestone statuses.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusAchieved   = "Achieved"
	StatusConcern    = "Concern"
)

// IsValidRole reports whether role is one of the platform roles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Address is a postal address stored as a JSON column.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// AgeRange is a min/max age window in months. It is embedded as two real
// columns so range predicates stay in SQL.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether the age in months falls inside the range.
func (r AgeRange) Contains(ageInMonths int) bool {
	return r.Min <= ageInMonths && ageInMonths <= r.Max
}
