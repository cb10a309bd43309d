// user.go
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

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is any platform actor: admin, parent, volunteer, or plain user.
// Role-specific data lives in profile structs serialized as JSON columns.
// Users are the only entity that is hard-deleted; dangling parentId and
// volunteerId references left behind on other records are a known gap of the
// replaced service and are preserved as-is.
type User struct {
	ID               string           `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Email            string           `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password         string           `gorm:"size:255" json:"-"`
	Role             string           `gorm:"size:20;not null;default:user;index" json:"role"`
	IsEmailVerified  bool             `gorm:"not null;default:false" json:"isEmailVerified"`
	Avatar           string           `gorm:"size:512" json:"avatar,omitempty"`
	ParentProfile    ParentProfile    `gorm:"serializer:json" json:"parentProfile"`
	VolunteerProfile VolunteerProfile `gorm:"serializer:json" json:"volunteerProfile"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ParentProfile holds parent-specific fields.
type ParentProfile struct {
	Phone             string  `json:"phone,omitempty"`
	Address           Address `json:"address,omitempty"`
	PreferredLanguage string  `json:"preferredLanguage,omitempty"`
}

// Availability is a volunteer's weekly availability.
type Availability struct {
	Days  []string `json:"days,omitempty"`
	Hours string   `json:"hours,omitempty"`
}

// VolunteerProfile holds volunteer-specific fields.
type VolunteerProfile struct {
	Phone             string       `json:"phone,omitempty"`
	Address           Address      `json:"address,omitempty"`
	Specializations   []string     `json:"specializations,omitempty"`
	Qualifications    []string     `json:"qualifications,omitempty"`
	Availability      Availability `json:"availability,omitempty"`
	JoinedDate        *time.Time   `json:"joinedDate,omitempty"`
	Status            string       `json:"status,omitempty"`
	SupervisorID      string       `json:"supervisorId,omitempty"`
	TrainingCompleted bool         `json:"trainingCompleted"`
	AssignedChildren  []string     `json:"assignedChildren,omitempty"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and normalizes the email.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// SetPassword stores a bcrypt hash of the plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsVolunteerLike reports whether the user can stand in a volunteer slot.
// The replaced service accepted admins anywhere a volunteer id was required.
func (u *User) IsVolunteerLike() bool {
	return u.Role == RoleVolunteer || u.Role == RoleAdmin
}

// UserRef is the name/email projection embedded in list responses where the
// replaced service populated a referenced user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Ref returns the user's reference projection.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
