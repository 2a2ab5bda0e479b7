package ingest

import (
	"fmt"
	"strings"
)

// ValidationError means the uploaded data is wrong; the caller can fix the
// spreadsheet and retry. All collected detail travels with it so the author
// can fix the workbook in one pass.
type ValidationError struct {
	Message         string   `json:"message"`
	MissingSections []string `json:"missingSections,omitempty"`
	MissingFaculty  []string `json:"missingFaculty,omitempty"`
	MissingRooms    []string `json:"missingRooms,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := []string{e.Message}
	if len(e.MissingSections) > 0 {
		parts = append(parts, "missing sections: "+strings.Join(e.MissingSections, ", "))
	}
	if len(e.MissingFaculty) > 0 {
		parts = append(parts, "missing faculty mappings: "+strings.Join(e.MissingFaculty, ", "))
	}
	if len(e.MissingRooms) > 0 {
		parts = append(parts, "missing rooms: "+strings.Join(e.MissingRooms, ", "))
	}
	return strings.Join(parts, "; ")
}

// StorageError means the durable store failed mid-operation; the caller should
// retry later. Internal detail is logged server-side, never surfaced.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a user-fixable validation failure.
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
