package services

import (
	"github.com/earlysteps/casetrack/internal/models"
	"gorm.io/gorm"
)

// userRefs loads the name/email projections for a set of user ids in one
// query. Ids that no longer resolve (hard-deleted users) are simply absent
// from the result, so callers leave those projections nil.
func userRefs(db *gorm.DB, ids []string) (map[string]models.UserRef, error) {
	refs := map[string]models.UserRef{}
	uniq := dedupe(ids)
	if len(uniq) == 0 {
		return refs, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", uniq).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		refs[users[i].ID] = users[i].Ref()
	}
	return refs, nil
}

// childRefs loads the name/dob/gender projections for a set of child ids.
func childRefs(db *gorm.DB, ids []string) (map[string]models.ChildRef, error) {
	refs := map[string]models.ChildRef{}
	uniq := dedupe(ids)
	if len(uniq) == 0 {
		return refs, nil
	}
	var children []models.Child
	if err := db.Where("id IN ?", uniq).Find(&children).Error; err != nil {
		return nil, err
	}
	for i := range children {
		refs[children[i].ID] = children[i].Ref()
	}
	return refs, nil
}

func dedupe(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func refOrNil(refs map[string]models.UserRef, id string) *models.UserRef {
	if r, ok := refs[id]; ok {
		return &r
	}
	return nil
}

func childRefOrNil(refs map[string]models.ChildRef, id string) *models.ChildRef {
	if r, ok := refs[id]; ok {
		return &r
	}
	return nil
}
