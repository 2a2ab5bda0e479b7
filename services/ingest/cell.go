package ingest

import (
	"regexp"
	"strings"

	"github.com/kranthikiran885366/time-table-app/models"
)

// freeKeywords mark a cell as an unscheduled slot rather than a class.
var freeKeywords = map[string]bool{
	"BREAK":   true,
	"LUNCH":   true,
	"RECESS":  true,
	"FREE":    true,
	"HOLIDAY": true,
	"OFF":     true,
}

var (
	hintRe       = regexp.MustCompile(`[(\[]([^)\]]+)[)\]]`)
	assessmentRe = regexp.MustCompile(`^([A-Z]?\d+)\s*ASSESSMENT\s*-\s*([A-Z0-9]+)$`)
	honorsRe     = regexp.MustCompile(`^HONORS\s*-\s*([A-Z0-9]+)$`)
	labShortRe   = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*-\s*L\s*-\s*([A-Z0-9]+)$`)
	labWordRe    = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s+LAB\s*-\s*([A-Z0-9]+)$`)
	tutorialRe   = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*-\s*([A-Z0-9]+)\s*\(T\)$`)
	typedRe      = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*-\s*(T|THEORY|L|LAB)\s*-\s*([A-Z0-9]+)$`)
	genericRe    = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*[-/ ]\s*([A-Z0-9]+)$`)
	runRe        = regexp.MustCompile(`[A-Z0-9]{2,}`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// cellPattern is one grammar rule tried against a normalized cell. It either
// matches the whole cell and yields a token, or reports no match.
type cellPattern func(text string) (models.RawCellToken, bool)

// cellPatterns are tried in order; the first whole-cell match wins, which
// keeps the grammar deterministic.
var cellPatterns = []cellPattern{
	matchAssessment,
	matchHonors,
	matchLab,
	matchTutorial,
	matchTyped,
	matchGeneric,
	matchFallback,
}

func matchAssessment(text string) (models.RawCellToken, bool) {
	m := assessmentRe.FindStringSubmatch(text)
	if m == nil {
		return models.RawCellToken{}, false
	}
	return models.RawCellToken{
		SubjectCode: m[1] + " ASSESSMENT",
		ClassType:   models.ClassTypeAssessment,
		RoomNo:      m[2],
	}, true
}

func matchHonors(text string) (models.RawCellToken, bool) {
	m := honorsRe.FindStringSubmatch(text)
	if m == nil {
		return models.RawCellToken{}, false
	}
	return models.RawCellToken{
		SubjectCode: "HONORS",
		ClassType:   models.ClassTypeHonors,
		RoomNo:      m[1],
	}, true
}

func matchLab(text string) (models.RawCellToken, bool) {
	m := labShortRe.FindStringSubmatch(text)
	if m == nil {
		m = labWordRe.FindStringSubmatch(text)
	}
	if m == nil {
		return models.RawCellToken{}, false
	}
	return models.RawCellToken{
		SubjectCode: m[1] + "-LAB",
		ClassType:   models.ClassTypeLab,
		RoomNo:      m[2],
	}, true
}

func matchTutorial(text string) (models.RawCellToken, bool) {
	m := tutorialRe.FindStringSubmatch(text)
	if m == nil {
		return models.RawCellToken{}, false
	}
	return models.RawCellToken{
		SubjectCode: m[1],
		ClassType:   models.ClassTypeTutorial,
		RoomNo:      m[2],
	}, true
}

func matchTyped(text string) (models.RawCellToken, bool) {
	m := typedRe.FindStringSubmatch(text)
	if m == nil {
		return models.RawCellToken{}, false
	}
	token := models.RawCellToken{SubjectCode: m[1], RoomNo: m[3]}
	switch m[2] {
	case "L", "LAB":
		token.ClassType = models.ClassTypeLab
		token.SubjectCode = m[1] + "-LAB"
	default:
		token.ClassType = models.ClassTypeTheory
	}
	return token, true
}

func matchGeneric(text string) (models.RawCellToken, bool) {
	m := genericRe.FindStringSubmatch(text)
	if m == nil {
		return models.RawCellToken{}, false
	}
	return models.RawCellToken{
		SubjectCode: m[1],
		ClassType:   models.ClassTypeTheory,
		RoomNo:      m[2],
	}, true
}

// matchFallback extracts alphanumeric runs of length >= 2: first run is the
// subject, last run is the room, a middle "LAB" run makes it a lab.
func matchFallback(text string) (models.RawCellToken, bool) {
	runs := runRe.FindAllString(text, -1)
	if len(runs) < 2 {
		return models.RawCellToken{}, false
	}
	token := models.RawCellToken{
		SubjectCode: runs[0],
		ClassType:   models.ClassTypeTheory,
		RoomNo:      runs[len(runs)-1],
	}
	for _, mid := range runs[1 : len(runs)-1] {
		if mid == "LAB" {
			token.ClassType = models.ClassTypeLab
			token.SubjectCode = runs[0] + "-LAB"
			break
		}
	}
	return token, true
}

// normalizeCell upper-cases, collapses whitespace, and folds unicode dashes
// into plain hyphens so every pattern sees one canonical form.
func normalizeCell(text string) string {
	s := strings.TrimSpace(strings.ToUpper(text))
	s = strings.NewReplacer("–", "-", "—", "-").Replace(s)
	return spaceRe.ReplaceAllString(s, " ")
}

// stripFacultyHint removes a parenthesized/bracketed faculty hint from the
// cell, returning the remainder and the hint. A bare "(T)" is the tutorial
// marker, not a hint, and is left in place.
func stripFacultyHint(text string) (string, string) {
	m := hintRe.FindStringSubmatchIndex(text)
	if m == nil {
		return text, ""
	}
	hint := strings.TrimSpace(text[m[2]:m[3]])
	if strings.EqualFold(hint, "T") {
		return text, ""
	}
	return strings.TrimSpace(text[:m[0]] + text[m[1]:]), hint
}

// ParseCell converts one grid cell's text into a class-slot token.
// Free slots (empty, dashes, break keywords) return ok=false with no error;
// text that matches no pattern returns ok=false with a non-empty reason.
func ParseCell(text string) (token models.RawCellToken, ok bool, reason string) {
	s := normalizeCell(text)
	if s == "" || s == "-" {
		return models.RawCellToken{}, false, ""
	}
	if freeKeywords[s] {
		return models.RawCellToken{}, false, ""
	}

	remainder, hint := stripFacultyHint(s)
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return models.RawCellToken{}, false, "cell contains only a faculty hint"
	}

	for _, pattern := range cellPatterns {
		if t, matched := pattern(remainder); matched {
			t.FacultyHint = hint
			return t, true, ""
		}
	}
	return models.RawCellToken{}, false, "unrecognized cell format"
}
