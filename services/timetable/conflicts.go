package timetable

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/kranthikiran885366/time-table-app/config"
	"github.com/kranthikiran885366/time-table-app/models"
)

// Detector finds scheduling conflicts in a candidate batch of entries,
// optionally against the already-persisted schedule.
type Detector struct {
	LunchStart      string
	LunchEnd        string
	MaxDailyMinutes int
}

// NewDetector builds a Detector from the configured lunch window and daily
// faculty workload ceiling.
func NewDetector() *Detector {
	return &Detector{
		LunchStart:      config.AppConfig.LunchBreakStart,
		LunchEnd:        config.AppConfig.LunchBreakEnd,
		MaxDailyMinutes: config.AppConfig.MaxDailyFacultyMinutes,
	}
}

// Detect runs every conflict rule over the candidate entries. Room and
// section overlaps are checked within the batch; faculty overlaps and daily
// workload are additionally checked against the existing persisted schedule
// so an upload cannot silently double-book someone who already teaches
// elsewhere. Lookups supply section strengths and room capacities for the
// capacity rule; either map may be nil.
func (d *Detector) Detect(candidates []models.TimetableEntry, existing []models.TimetableEntry,
	sections map[string]models.Section, rooms map[string]models.Room) []models.Conflict {

	var conflicts []models.Conflict

	conflicts = append(conflicts, d.overlaps(candidates, nil, models.ConflictRoom,
		func(e models.TimetableEntry) string {
			if e.RoomNo == models.PlaceholderRoom {
				return ""
			}
			return e.RoomNo
		})...)
	conflicts = append(conflicts, d.overlaps(candidates, nil, models.ConflictSection,
		func(e models.TimetableEntry) string { return e.SectionCode })...)
	conflicts = append(conflicts, d.overlaps(candidates, existing, models.ConflictFaculty,
		func(e models.TimetableEntry) string { return e.FacultyName })...)
	conflicts = append(conflicts, d.capacityWarnings(candidates, sections, rooms)...)
	conflicts = append(conflicts, d.breakOverlaps(candidates)...)
	conflicts = append(conflicts, d.workloadExceeded(candidates, existing)...)

	return conflicts
}

// Blocking filters the ERROR-severity conflicts that gate a bulk commit.
// Workload conflicts are excluded here: they are advisory in bulk upload and
// only block the single-entry creation path.
func Blocking(conflicts []models.Conflict) []models.Conflict {
	var blocking []models.Conflict
	for _, c := range conflicts {
		if c.IsBlocking() && c.Type != models.ConflictWorkload {
			blocking = append(blocking, c)
		}
	}
	return blocking
}

// Warnings filters the WARNING-severity conflicts.
func Warnings(conflicts []models.Conflict) []models.Conflict {
	var warnings []models.Conflict
	for _, c := range conflicts {
		if c.Severity == models.SeverityWarning {
			warnings = append(warnings, c)
		}
	}
	return warnings
}

// overlaps groups entries by (day, key), sorts by start time, and sweeps
// with a running maximum end: any entry starting before that maximum
// overlaps an earlier one. Intervals are half-open, so touching endpoints
// do not conflict. Existing entries participate in the sweep but a conflict
// is only reported when at least one side is a candidate.
func (d *Detector) overlaps(candidates, existing []models.TimetableEntry, conflictType string,
	key func(models.TimetableEntry) string) []models.Conflict {

	type member struct {
		entry     models.TimetableEntry
		candidate bool
	}
	groups := make(map[string][]member)
	add := func(entries []models.TimetableEntry, isCandidate bool) {
		for _, e := range entries {
			k := key(e)
			if k == "" || e.Day == "" {
				continue
			}
			groups[e.Day+"|"+k] = append(groups[e.Day+"|"+k], member{entry: e, candidate: isCandidate})
		}
	}
	add(candidates, true)
	add(existing, false)

	groupKeys := make([]string, 0, len(groups))
	for k := range groups {
		groupKeys = append(groupKeys, k)
	}
	sort.Strings(groupKeys)

	var conflicts []models.Conflict
	for _, gk := range groupKeys {
		group := groups[gk]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].entry.StartTime < group[j].entry.StartTime
		})

		maxEnd := -1
		var holder member
		for _, m := range group {
			start := toMinutes(m.entry.StartTime)
			end := toMinutes(m.entry.EndTime)
			if maxEnd > start && (m.candidate || holder.candidate) {
				conflicts = append(conflicts, d.overlapConflict(conflictType, holder.entry, m.entry))
			}
			if end > maxEnd {
				maxEnd = end
				holder = m
			}
		}
	}
	return conflicts
}

func (d *Detector) overlapConflict(conflictType string, a, b models.TimetableEntry) models.Conflict {
	var subject string
	switch conflictType {
	case models.ConflictRoom:
		subject = fmt.Sprintf("room %s is double-booked", a.RoomNo)
	case models.ConflictSection:
		subject = fmt.Sprintf("section %s has overlapping classes", a.SectionCode)
	case models.ConflictFaculty:
		subject = fmt.Sprintf("%s is scheduled in two places at once", a.FacultyName)
	}
	return models.Conflict{
		Type:     conflictType,
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("%s on %s", subject, a.Day),
		Day:      a.Day,
		Time:     fmt.Sprintf("%s-%s / %s-%s", a.StartTime, a.EndTime, b.StartTime, b.EndTime),
		Details:  []models.ConflictSide{side(a), side(b)},
	}
}

func side(e models.TimetableEntry) models.ConflictSide {
	return models.ConflictSide{
		SectionCode: e.SectionCode,
		SubjectCode: e.SubjectCode,
		RoomNo:      e.RoomNo,
		FacultyName: e.FacultyName,
		Time:        e.StartTime + "-" + e.EndTime,
	}
}

func (d *Detector) capacityWarnings(candidates []models.TimetableEntry,
	sections map[string]models.Section, rooms map[string]models.Room) []models.Conflict {

	var conflicts []models.Conflict
	for _, e := range candidates {
		section, okS := sections[e.SectionCode]
		room, okR := rooms[e.RoomNo]
		if !okS || !okR || room.Capacity <= 0 {
			continue
		}
		if section.Strength > room.Capacity {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictCapacity,
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("section %s (%d students) exceeds room %s capacity (%d)",
					e.SectionCode, section.Strength, e.RoomNo, room.Capacity),
				Day:     e.Day,
				Time:    e.StartTime + "-" + e.EndTime,
				Details: []models.ConflictSide{side(e)},
			})
		}
	}
	return conflicts
}

func (d *Detector) breakOverlaps(candidates []models.TimetableEntry) []models.Conflict {
	lunchStart := toMinutes(d.LunchStart)
	lunchEnd := toMinutes(d.LunchEnd)

	var conflicts []models.Conflict
	for _, e := range candidates {
		start := toMinutes(e.StartTime)
		end := toMinutes(e.EndTime)
		if start < lunchEnd && lunchStart < end {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictBreak,
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("%s for %s overlaps the lunch break (%s-%s)",
					e.SubjectCode, e.SectionCode, d.LunchStart, d.LunchEnd),
				Day:        e.Day,
				Time:       e.StartTime + "-" + e.EndTime,
				Details:    []models.ConflictSide{side(e)},
				Suggestion: fmt.Sprintf("reschedule to end by %s or start after %s", d.LunchStart, d.LunchEnd),
			})
		}
	}
	return conflicts
}

// workloadExceeded sums scheduled minutes per faculty per day across the
// candidate batch and the existing schedule, flagging anyone over the
// configured daily ceiling.
func (d *Detector) workloadExceeded(candidates, existing []models.TimetableEntry) []models.Conflict {
	minutes := make(map[string]int)
	accumulate := func(entries []models.TimetableEntry) {
		for _, e := range entries {
			if e.FacultyName == "" {
				continue
			}
			span := toMinutes(e.EndTime) - toMinutes(e.StartTime)
			if span > 0 {
				minutes[e.FacultyName+"|"+e.Day] += span
			}
		}
	}
	accumulate(candidates)
	accumulate(existing)

	keys := make([]string, 0, len(minutes))
	for k := range minutes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []models.Conflict
	for _, k := range keys {
		total := minutes[k]
		if total <= d.MaxDailyMinutes {
			continue
		}
		name, day := splitKey(k)
		conflicts = append(conflicts, models.Conflict{
			Type:     models.ConflictWorkload,
			Severity: models.SeverityError,
			Message: fmt.Sprintf("%s is scheduled %.1f hours on %s (limit %.1f)",
				name, float64(total)/60, day, float64(d.MaxDailyMinutes)/60),
			Day: day,
		})
	}
	return conflicts
}

func splitKey(k string) (string, string) {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i] == '|' {
			return k[:i], k[i+1:]
		}
	}
	return k, ""
}

func toMinutes(t string) int {
	if len(t) != 5 || t[2] != ':' {
		return -1
	}
	h, err1 := strconv.Atoi(t[:2])
	m, err2 := strconv.Atoi(t[3:])
	if err1 != nil || err2 != nil {
		return -1
	}
	return h*60 + m
}
