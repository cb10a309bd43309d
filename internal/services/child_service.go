// child_service.go
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
	"gorm.io/gorm"
)

// CreateChildInput carries the fields accepted when registering a child.
type CreateChildInput struct {
	Name              string                   `json:"name" validate:"required,max=255"`
	DOB               time.Time                `json:"dob" validate:"required"`
	Gender            string                   `json:"gender" validate:"required,oneof=Male Female Other"`
	ParentID          string                   `json:"parentId"`
	VolunteerID       *string                  `json:"volunteerId"`
	Address           models.Address           `json:"address"`
	HealthInfo        models.HealthInfo        `json:"healthInfo"`
	EducationLevel    string                   `json:"educationLevel" validate:"omitempty,max=40"`
	PreferredLanguage string                   `json:"preferredLanguage" validate:"omitempty,max=40"`
	SpecialNeeds      []string                 `json:"specialNeeds"`
	EmergencyContact  models.EmergencyContact  `json:"emergencyContact"`
}

// UpdateChildInput carries the updatable child fields. Nil pointers are left
// untouched.
type UpdateChildInput struct {
	Name              *string                  `json:"name" validate:"omitempty,min=1,max=255"`
	DOB               *time.Time               `json:"dob"`
	Gender            *string                  `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	VolunteerID       *string                  `json:"volunteerId"`
	Address           *models.Address          `json:"address"`
	HealthInfo        *models.HealthInfo       `json:"healthInfo"`
	EducationLevel    *string                  `json:"educationLevel" validate:"omitempty,max=40"`
	PreferredLanguage *string                  `json:"preferredLanguage" validate:"omitempty,max=40"`
	SpecialNeeds      []string                 `json:"specialNeeds"`
	EmergencyContact  *models.EmergencyContact `json:"emergencyContact"`
	IsActive          *bool                    `json:"isActive"`
	Notes             []models.ChildNote       `json:"notes"`
}

// ChildFilters narrows the child list.
type ChildFilters struct {
	IsActive       *bool
	Age            *models.AgeRange // in years
	IncludeDeleted bool             // honored for admins only
}

// CreateChild registers a new child. Parents always register children under
// their own account; admins and volunteers must name the parent explicitly.
func CreateChild(db *gorm.DB, caller Caller, input CreateChildInput) (*models.Child, error) {
	parentID := input.ParentID
	if caller.IsParentLike() {
		parentID = caller.ID
	}
	if parentID == "" {
		return nil, Invalidf("Parent ID is required")
	}

	var parent models.User
	if err := db.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Parent not found")
		}
		return nil, err
	}

	child := models.Child{
		Name:              input.Name,
		DOB:               input.DOB,
		Gender:            input.Gender,
		ParentID:          parentID,
		Address:           input.Address,
		HealthInfo:        input.HealthInfo,
		EducationLevel:    input.EducationLevel,
		PreferredLanguage: input.PreferredLanguage,
		SpecialNeeds:      input.SpecialNeeds,
		EmergencyContact:  input.EmergencyContact,
		IsActive:          true,
	}
	if child.PreferredLanguage == "" {
		child.PreferredLanguage = "English"
	}

	if input.VolunteerID != nil && *input.VolunteerID != "" {
		if err := requireVolunteerLike(db, *input.VolunteerID); err != nil {
			return nil, err
		}
		child.VolunteerID = input.VolunteerID
	}

	if err := db.Create(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

// ListChildren returns the children visible to the caller. Parents see their
// own children, volunteers their assigned children, admins everything.
func ListChildren(db *gorm.DB, caller Caller, f ChildFilters) ([]models.Child, error) {
	q := db.Model(&models.Child{})

	switch {
	case caller.IsParentLike():
		q = q.Where("parent_id = ?", caller.ID)
	case caller.IsVolunteer():
		q = q.Where("volunteer_id = ?", caller.ID)
	}

	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Age != nil {
		now := time.Now().UTC()
		// A child aged min..max years (inclusive) has a dob inside this window.
		latest := now.AddDate(-f.Age.Min, 0, 0)
		earliest := now.AddDate(-(f.Age.Max + 1), 0, 0)
		q = q.Where("dob > ? AND dob <= ?", earliest, latest)
	}
	if !(f.IncludeDeleted && caller.IsAdmin()) {
		q = q.Where("is_deleted = ?", false)
	}

	var children []models.Child
	if err := q.Order("created_at DESC").Find(&children).Error; err != nil {
		return nil, err
	}
	if err := attachChildUserRefs(db, children); err != nil {
		return nil, err
	}
	return children, nil
}

// GetChild returns a single child the caller is allowed to see.
func GetChild(db *gorm.DB, caller Caller, id string) (*models.Child, error) {
	child, err := findChild(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeChildAccess(caller, child); err != nil {
		return nil, err
	}

	refs := []models.Child{*child}
	if err := attachChildUserRefs(db, refs); err != nil {
		return nil, err
	}
	return &refs[0], nil
}

// UpdateChild applies a partial update. Parents may only touch their own
// children; reassigning the volunteer requires the admin or volunteer role.
func UpdateChild(db *gorm.DB, caller Caller, id string, input UpdateChildInput) (*models.Child, error) {
	child, err := findChild(db, id)
	if err != nil {
		return nil, err
	}
	if caller.IsParentLike() && child.ParentID != caller.ID {
		return nil, Forbiddenf("Not authorized to update this child's information")
	}

	if input.VolunteerID != nil {
		if caller.IsParentLike() {
			return nil, Forbiddenf("Not authorized to assign volunteers")
		}
		if *input.VolunteerID == "" {
			child.VolunteerID = nil
		} else {
			if err := requireVolunteerLike(db, *input.VolunteerID); err != nil {
				return nil, err
			}
			child.VolunteerID = input.VolunteerID
		}
	}

	if input.Name != nil {
		child.Name = *input.Name
	}
	if input.DOB != nil {
		child.DOB = *input.DOB
	}
	if input.Gender != nil {
		child.Gender = *input.Gender
	}
	if input.Address != nil {
		child.Address = *input.Address
	}
	if input.HealthInfo != nil {
		child.HealthInfo = *input.HealthInfo
	}
	if input.EducationLevel != nil {
		child.EducationLevel = *input.EducationLevel
	}
	if input.PreferredLanguage != nil {
		child.PreferredLanguage = *input.PreferredLanguage
	}
	if input.SpecialNeeds != nil {
		child.SpecialNeeds = input.SpecialNeeds
	}
	if input.EmergencyContact != nil {
		child.EmergencyContact = *input.EmergencyContact
	}
	if input.IsActive != nil {
		child.IsActive = *input.IsActive
	}
	if input.Notes != nil {
		child.Notes = input.Notes
	}

	if err := db.Save(child).Error; err != nil {
		return nil, err
	}
	return child, nil
}

// SoftDeleteChild flags a child as deleted and inactive. The row and its
// milestones and visits stay in place.
func SoftDeleteChild(db *gorm.DB, id string) error {
	child, err := findChild(db, id)
	if err != nil {
		return err
	}
	child.IsDeleted = true
	child.IsActive = false
	return db.Save(child).Error
}

// findChild loads a child by id, deleted or not. Visibility of deleted rows
// is decided per operation, not here.
func findChild(db *gorm.DB, id string) (*models.Child, error) {
	var child models.Child
	if err := db.First(&child, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Child not found")
		}
		return nil, err
	}
	return &child, nil
}

// authorizeChildAccess enforces the per-child read rules: parents must own
// the record, volunteers must be assigned to it. Admins pass.
func authorizeChildAccess(caller Caller, child *models.Child) error {
	if caller.IsParentLike() && child.ParentID != caller.ID {
		return Forbiddenf("Not authorized to access this child's information")
	}
	if caller.IsVolunteer() &&
		(child.VolunteerID == nil || *child.VolunteerID != caller.ID) {
		return Forbiddenf("Not authorized to access this child's information")
	}
	return nil
}

// requireVolunteerLike checks that id names a user who can hold a volunteer
// assignment (volunteer or admin role).
func requireVolunteerLike(db *gorm.DB, id string) error {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("Valid volunteer not found")
		}
		return err
	}
	if !user.IsVolunteerLike() {
		return NotFoundf("Valid volunteer not found")
	}
	return nil
}

// attachChildUserRefs fills the parent and volunteer projections for a slice
// of children with one user query.
func attachChildUserRefs(db *gorm.DB, children []models.Child) error {
	ids := make([]string, 0, len(children)*2)
	for i := range children {
		ids = append(ids, children[i].ParentID)
		if children[i].VolunteerID != nil {
			ids = append(ids, *children[i].VolunteerID)
		}
	}
	refs, err := userRefs(db, ids)
	if err != nil {
		return err
	}
	for i := range children {
		children[i].Parent = refOrNil(refs, children[i].ParentID)
		if children[i].VolunteerID != nil {
			children[i].Volunteer = refOrNil(refs, *children[i].VolunteerID)
		}
	}
	return nil
}
