package services

import (
	"encoding/json"
	"errors"

	"github.com/earlysteps/casetrack/internal/models"
	"gorm.io/gorm"
)

// UpdateUserInput carries the updatable user fields. Profile patches are raw
// maps because the replaced service merged them shallowly over the stored
// profile, key by key.
type UpdateUserInput struct {
	Name             *string                `json:"name" validate:"omitempty,min=1,max=255"`
	Avatar           *string                `json:"avatar" validate:"omitempty,max=512"`
	Role             *string                `json:"role" validate:"omitempty,oneof=user admin parent volunteer"`
	ParentProfile    map[string]interface{} `json:"parentProfile"`
	VolunteerProfile map[string]interface{} `json:"volunteerProfile"`
}

// ListUsers returns all users, optionally filtered by role.
func ListUsers(db *gorm.DB, role string) ([]models.User, error) {
	var users []models.User
	q := db.Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single user by id.
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user record. Only admins or the
// user themselves may update; only admins may change the role. Profile
// objects are merged shallowly over the stored profile.
func UpdateUser(db *gorm.DB, caller Caller, id string, input UpdateUserInput) (*models.User, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return nil, Forbiddenf("Not authorized to update this user")
	}

	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Role != nil && caller.IsAdmin() {
		if !models.IsValidRole(*input.Role) {
			return nil, Invalidf("Invalid role: %s", *input.Role)
		}
		user.Role = *input.Role
	}
	if input.ParentProfile != nil {
		if err := mergeProfile(&user.ParentProfile, input.ParentProfile); err != nil {
			return nil, Invalidf("Invalid parentProfile: %v", err)
		}
	}
	if input.VolunteerProfile != nil {
		if err := mergeProfile(&user.VolunteerProfile, input.VolunteerProfile); err != nil {
			return nil, Invalidf("Invalid volunteerProfile: %v", err)
		}
	}

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user record. Users are the one entity that is hard
// deleted; references from children and visits are left dangling, matching
// the replaced service.
func DeleteUser(db *gorm.DB, id string) error {
	res := db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("User not found")
	}
	return nil
}

// mergeProfile overlays patch keys onto the stored profile struct. Top-level
// keys replace; nested objects are not merged recursively, matching the
// spread-based merge of the replaced service.
func mergeProfile(profile interface{}, patch map[string]interface{}) error {
	current, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	merged := map[string]interface{}{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for k, v := range patch {
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(out, profile)
}
