// internal/aggregator/key.go
package aggregator

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar-day format used across all collections.
// Lexicographic comparison of dates in this layout equals chronological
// comparison, which is what the latest-weight date gate relies on.
const DateLayout = "2006-01-02"

// ExerciseKey builds the normalized key that indexes per-exercise stats in a
// latest-weight document, e.g. ("Legs", "Back Squat") -> "legs_back_squat".
// Case and whitespace variants of the same movement map to the same key.
func ExerciseKey(bodyPart, exercise string) string {
	return normalize(bodyPart) + "_" + normalize(exercise)
}

// normalize lower-cases and replaces each whitespace character with an
// underscore.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return unicode.ToLower(r)
	}, s)
}

// ValidDate reports whether s is a well-formed "YYYY-MM-DD" date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
