// report_service.go
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
	"math"
	"time"

	"github.com/earlysteps/casetrack/internal/models"
	"gorm.io/gorm"
)

// Developmental stages used by the age-appropriate progress score.
const (
	StageInfant    = "infant"
	StageToddler   = "toddler"
	StagePreschool = "preschool"
	StageSchool    = "school"
)

// expectedMilestones is the per-stage expectation table the age-appropriate
// progress score compares against. Values come from the program's curriculum
// and match the replaced service exactly.
var expectedMilestones = map[string]map[string]int{
	StageInfant: {
		models.DomainMotor:     5,
		models.DomainCognitive: 4,
		models.DomainLanguage:  3,
		models.DomainSocial:    3,
		models.DomainEmotional: 2,
		"Total":                17,
	},
	StageToddler: {
		models.DomainMotor:     6,
		models.DomainCognitive: 5,
		models.DomainLanguage:  6,
		models.DomainSocial:    4,
		models.DomainEmotional: 4,
		"Total":                25,
	},
	StagePreschool: {
		models.DomainMotor:     5,
		models.DomainCognitive: 6,
		models.DomainLanguage:  7,
		models.DomainSocial:    5,
		models.DomainEmotional: 5,
		"Total":                28,
	},
	StageSchool: {
		models.DomainMotor:     4,
		models.DomainCognitive: 8,
		models.DomainLanguage:  8,
		models.DomainSocial:    6,
		models.DomainEmotional: 6,
		"Total":                32,
	},
}

// DevelopmentalStage maps an age in months onto a curriculum stage.
func DevelopmentalStage(ageInMonths int) string {
	switch {
	case ageInMonths <= 12:
		return StageInfant
	case ageInMonths <= 36:
		return StageToddler
	case ageInMonths <= 60:
		return StagePreschool
	default:
		return StageSchool
	}
}

// DomainStats are milestone counts for one domain.
type DomainStats struct {
	Total           int `json:"total"`
	Achieved        int `json:"achieved"`
	InProgress      int `json:"inProgress"`
	NotStarted      int `json:"notStarted"`
	Concern         int `json:"concern"`
	ProgressPercent int `json:"progressPercent"`
}

// MilestoneStats are milestone counts overall and broken down by domain.
type MilestoneStats struct {
	Total      int                    `json:"total"`
	Achieved   int                    `json:"achieved"`
	InProgress int                    `json:"inProgress"`
	NotStarted int                    `json:"notStarted"`
	Concern    int                    `json:"concern"`
	ByDomain   map[string]DomainStats `json:"byDomain"`
}

// DomainProgress compares achieved milestones in one domain against the
// stage expectation.
type DomainProgress struct {
	Achieved   int `json:"achieved"`
	Expected   int `json:"expected"`
	Percentage int `json:"percentage"`
}

// AgeProgress is the age-appropriate progress section of a child report.
type AgeProgress struct {
	AgeInMonths        int                       `json:"ageInMonths"`
	DevelopmentalStage string                    `json:"developmentalStage"`
	Progress           map[string]DomainProgress `json:"progress"`
}

// ChildReport is the per-child development report.
type ChildReport struct {
	Child                  *models.Child      `json:"child"`
	MilestoneStats         MilestoneStats     `json:"milestoneStats"`
	RecentMilestones       []models.Milestone `json:"recentMilestones"`
	RecentVisits           []models.Visit     `json:"recentVisits"`
	VisitCount             int                `json:"visitCount"`
	AgeAppropriateProgress AgeProgress        `json:"ageAppropriateProgress"`
}

// SummaryCounts are the org-wide entity counts of the summary report.
type SummaryCounts struct {
	TotalChildren   int64 `json:"totalChildren"`
	TotalVolunteers int64 `json:"totalVolunteers"`
	TotalParents    int64 `json:"totalParents"`
	TotalVisits     int64 `json:"totalVisits"`
	TotalMilestones int64 `json:"totalMilestones"`
}

// SummaryReport is the admin-only organization overview.
type SummaryReport struct {
	Counts               SummaryCounts  `json:"counts"`
	MilestoneStats       MilestoneStats `json:"milestoneStats"`
	RecentVisits         []models.Visit `json:"recentVisits"`
	VisitsPerChild       float64        `json:"visitsPerChild"`
	ChildrenPerVolunteer float64        `json:"childrenPerVolunteer"`
}

// VolunteerStats are the aggregate numbers of a volunteer report.
type VolunteerStats struct {
	AssignedChildren   int            `json:"assignedChildren"`
	TotalVisits        int            `json:"totalVisits"`
	TotalHours         float64        `json:"totalHours"`
	VisitsByMonth      map[string]int `json:"visitsByMonth"`
	MilestonesAssessed int            `json:"milestonesAssessed"`
	MilestonesAchieved int            `json:"milestonesAchieved"`
}

// VolunteerReport is the per-volunteer activity report.
type VolunteerReport struct {
	Volunteer        *models.User   `json:"volunteer"`
	Stats            VolunteerStats `json:"stats"`
	AssignedChildren []models.Child `json:"assignedChildren"`
	RecentVisits     []models.Visit `json:"recentVisits"`
}

// GetChildReport builds the development report for one child. Access follows
// the same ownership rules as reading the child record.
func GetChildReport(db *gorm.DB, caller Caller, childID string) (*ChildReport, error) {
	child, err := GetChild(db, caller, childID)
	if err != nil {
		return nil, err
	}

	var milestones []models.Milestone
	if err := db.Where("child_id = ? AND is_deleted = ?", childID, false).
		Order("created_at DESC").Find(&milestones).Error; err != nil {
		return nil, err
	}

	var visits []models.Visit
	if err := db.Where("child_id = ? AND is_deleted = ?", childID, false).
		Order("visit_date DESC").Find(&visits).Error; err != nil {
		return nil, err
	}

	recentMilestones := milestones
	if len(recentMilestones) > 10 {
		recentMilestones = recentMilestones[:10]
	}
	recentVisits := visits
	if len(recentVisits) > 10 {
		recentVisits = recentVisits[:10]
	}
	if err := attachAssessorRefs(db, recentMilestones); err != nil {
		return nil, err
	}
	if err := attachVisitRefs(db, recentVisits); err != nil {
		return nil, err
	}

	ageInMonths := child.AgeMonths(time.Now().UTC())
	return &ChildReport{
		Child:                  child,
		MilestoneStats:         computeMilestoneStats(milestones),
		RecentMilestones:       recentMilestones,
		RecentVisits:           recentVisits,
		VisitCount:             len(visits),
		AgeAppropriateProgress: computeAgeProgress(milestones, ageInMonths),
	}, nil
}

// GetSummaryReport builds the org-wide overview. Authorization (admin only)
// is enforced at the route.
func GetSummaryReport(db *gorm.DB) (*SummaryReport, error) {
	var counts SummaryCounts
	countQueries := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&counts.TotalChildren, db.Model(&models.Child{}).Where("is_deleted = ?", false)},
		{&counts.TotalVolunteers, db.Model(&models.User{}).Where("role = ?", models.RoleVolunteer)},
		{&counts.TotalParents, db.Model(&models.User{}).Where("role = ?", models.RoleParent)},
		{&counts.TotalVisits, db.Model(&models.Visit{}).Where("is_deleted = ?", false)},
		{&counts.TotalMilestones, db.Model(&models.Milestone{}).Where("is_deleted = ?", false)},
	}
	for _, cq := range countQueries {
		if err := cq.query.Count(cq.dst).Error; err != nil {
			return nil, err
		}
	}

	var milestones []models.Milestone
	if err := db.Where("is_deleted = ?", false).Find(&milestones).Error; err != nil {
		return nil, err
	}

	var recentVisits []models.Visit
	if err := db.Where("is_deleted = ?", false).
		Order("visit_date DESC").Limit(10).Find(&recentVisits).Error; err != nil {
		return nil, err
	}
	if err := attachVisitRefs(db, recentVisits); err != nil {
		return nil, err
	}

	return &SummaryReport{
		Counts:               counts,
		MilestoneStats:       computeMilestoneStats(milestones),
		RecentVisits:         recentVisits,
		VisitsPerChild:       ratio2(counts.TotalVisits, counts.TotalChildren),
		ChildrenPerVolunteer: ratio2(counts.TotalChildren, counts.TotalVolunteers),
	}, nil
}

// GetVolunteerReport builds the activity report for one volunteer.
// Volunteers may only request their own report.
func GetVolunteerReport(db *gorm.DB, caller Caller, volunteerID string) (*VolunteerReport, error) {
	if !caller.IsAdmin() && caller.ID != volunteerID {
		return nil, Forbiddenf("Not authorized to access this volunteer's report")
	}

	var volunteer models.User
	if err := db.First(&volunteer, "id = ?", volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Volunteer not found")
		}
		return nil, err
	}
	if !volunteer.IsVolunteerLike() {
		return nil, NotFoundf("Volunteer not found")
	}

	var assigned []models.Child
	if err := db.Where("volunteer_id = ? AND is_deleted = ?", volunteerID, false).
		Find(&assigned).Error; err != nil {
		return nil, err
	}
	if err := attachChildUserRefs(db, assigned); err != nil {
		return nil, err
	}

	var visits []models.Visit
	if err := db.Where("volunteer_id = ? AND is_deleted = ?", volunteerID, false).
		Order("visit_date DESC").Find(&visits).Error; err != nil {
		return nil, err
	}

	totalMinutes := 0
	assessedIDs := []string{}
	for i := range visits {
		totalMinutes += visits[i].Duration
		for _, am := range visits[i].MilestonesAssessed {
			assessedIDs = append(assessedIDs, am.MilestoneID)
		}
	}

	// Only milestones that still exist and are not deleted count; visits can
	// carry dangling references.
	assessed := 0
	achieved := 0
	assessedIDs = dedupe(assessedIDs)
	if len(assessedIDs) > 0 {
		var assessedMilestones []models.Milestone
		if err := db.Where("id IN ? AND is_deleted = ?", assessedIDs, false).
			Find(&assessedMilestones).Error; err != nil {
			return nil, err
		}
		assessed = len(assessedMilestones)
		for i := range assessedMilestones {
			if assessedMilestones[i].Status == models.StatusAchieved {
				achieved++
			}
		}
	}

	recentVisits := visits
	if len(recentVisits) > 10 {
		recentVisits = recentVisits[:10]
	}
	if err := attachVisitRefs(db, recentVisits); err != nil {
		return nil, err
	}

	return &VolunteerReport{
		Volunteer: &volunteer,
		Stats: VolunteerStats{
			AssignedChildren:   len(assigned),
			TotalVisits:        len(visits),
			TotalHours:         math.Round(float64(totalMinutes)/60*100) / 100,
			VisitsByMonth:      visitsByMonth(visits, time.Now().UTC()),
			MilestonesAssessed: assessed,
			MilestonesAchieved: achieved,
		},
		AssignedChildren: assigned,
		RecentVisits:     recentVisits,
	}, nil
}

// computeMilestoneStats tallies milestone statuses overall and per domain.
func computeMilestoneStats(milestones []models.Milestone) MilestoneStats {
	stats := MilestoneStats{ByDomain: map[string]DomainStats{}}
	for _, domain := range models.Domains {
		stats.ByDomain[domain] = DomainStats{}
	}

	for i := range milestones {
		m := &milestones[i]
		stats.Total++
		d := stats.ByDomain[m.Domain]
		d.Total++
		switch m.Status {
		case models.StatusAchieved:
			stats.Achieved++
			d.Achieved++
		case models.StatusInProgress:
			stats.InProgress++
			d.InProgress++
		case models.StatusConcern:
			stats.Concern++
			d.Concern++
		default:
			stats.NotStarted++
			d.NotStarted++
		}
		stats.ByDomain[m.Domain] = d
	}

	for domain, d := range stats.ByDomain {
		if d.Total > 0 {
			d.ProgressPercent = roundPercent(d.Achieved, d.Total)
		}
		stats.ByDomain[domain] = d
	}
	return stats
}

// computeAgeProgress scores achieved milestones per domain against the stage
// expectation table. Percentages cap at 100 even when a child exceeds the
// expectation.
func computeAgeProgress(milestones []models.Milestone, ageInMonths int) AgeProgress {
	stage := DevelopmentalStage(ageInMonths)
	expected := expectedMilestones[stage]

	achievedByDomain := map[string]int{}
	for i := range milestones {
		if milestones[i].Status == models.StatusAchieved {
			achievedByDomain[milestones[i].Domain]++
		}
	}

	progress := map[string]DomainProgress{}
	totalAchieved := 0
	for domain, want := range expected {
		if domain == "Total" {
			continue
		}
		got := achievedByDomain[domain]
		totalAchieved += got
		pct := 0
		if want > 0 {
			pct = roundPercent(got, want)
			if pct > 100 {
				pct = 100
			}
		}
		progress[domain] = DomainProgress{Achieved: got, Expected: want, Percentage: pct}
	}

	totalExpected := expected["Total"]
	overallPct := 0
	if totalExpected > 0 {
		overallPct = roundPercent(totalAchieved, totalExpected)
		if overallPct > 100 {
			overallPct = 100
		}
	}
	progress["Overall"] = DomainProgress{
		Achieved:   totalAchieved,
		Expected:   totalExpected,
		Percentage: overallPct,
	}

	return AgeProgress{
		AgeInMonths:        ageInMonths,
		DevelopmentalStage: stage,
		Progress:           progress,
	}
}

// visitsByMonth buckets visits into the last six calendar months, keyed by
// month name. Months with no visits still appear with a zero count.
func visitsByMonth(visits []models.Visit, now time.Time) map[string]int {
	buckets := map[string]int{}
	months := make([]time.Time, 0, 6)
	for i := 5; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		months = append(months, m)
		buckets[m.Month().String()] = 0
	}

	for i := range visits {
		vd := visits[i].VisitDate
		for _, m := range months {
			if vd.Year() == m.Year() && vd.Month() == m.Month() {
				buckets[m.Month().String()]++
				break
			}
		}
	}
	return buckets
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// ratio2 divides two counts and rounds to two decimals, returning 0 for an
// empty denominator.
func ratio2(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*100) / 100
}
