package ingest

import (
	"sort"

	"github.com/kranthikiran885366/time-table-app/models"
)

// MergeLabs collapses strictly consecutive identical lab slots into single
// multi-period entries. Entries are grouped by (section, day) and swept in
// startTime order with one active accumulator; a candidate folds into the
// accumulator only when subject, room, and Lab type all match, the candidate
// starts exactly where the accumulator ends, and the faculty is unset on
// either side or equal. Non-lab entries pass through untouched.
func MergeLabs(entries []models.ParsedSlotEntry) []models.ParsedSlotEntry {
	groups := make(map[string][]models.ParsedSlotEntry)
	var order []string
	for _, e := range entries {
		key := e.SectionCode + "|" + e.Day
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	var merged []models.ParsedSlotEntry
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime < group[j].StartTime
		})

		var current *models.ParsedSlotEntry
		for i := range group {
			entry := group[i]
			if current != nil && canMerge(current, &entry) {
				current.EndTime = entry.EndTime
				current.Duration++
				current.MergeCount++
				current.Merged = true
				if current.FacultyName == "" {
					current.FacultyName = entry.FacultyName
				}
				continue
			}
			if current != nil {
				merged = append(merged, *current)
			}
			c := entry
			current = &c
		}
		if current != nil {
			merged = append(merged, *current)
		}
	}
	return merged
}

func canMerge(current *models.ParsedSlotEntry, next *models.ParsedSlotEntry) bool {
	if current.ClassType != models.ClassTypeLab || next.ClassType != models.ClassTypeLab {
		return false
	}
	if current.SubjectCode != next.SubjectCode || current.RoomNo != next.RoomNo {
		return false
	}
	if next.StartTime != current.EndTime {
		return false
	}
	if current.FacultyName != "" && next.FacultyName != "" && current.FacultyName != next.FacultyName {
		return false
	}
	return true
}
