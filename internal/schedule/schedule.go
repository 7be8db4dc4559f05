// Package schedule defines the course and template data model shared by the
// store, the import pipeline, and the HTTP API.
package schedule

import (
	"strings"

	"github.com/google/uuid"
)

// CourseType classifies a scheduled class occurrence.
type CourseType string

const (
	Lecture  CourseType = "lecture"
	Lab      CourseType = "lab"
	Seminar  CourseType = "seminar"
	Exam     CourseType = "exam"
	Practice CourseType = "practice"
)

// courseTypes is the closed set of valid types.
var courseTypes = map[CourseType]struct{}{
	Lecture:  {},
	Lab:      {},
	Seminar:  {},
	Exam:     {},
	Practice: {},
}

// ParseCourseType normalizes a raw type string. Unrecognized or empty values
// fall back to Lecture with ok=false; the caller decides whether that is a
// warning or an error.
func ParseCourseType(raw string) (CourseType, bool) {
	ct := CourseType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := courseTypes[ct]; ok {
		return ct, true
	}
	return Lecture, false
}

// Course is one scheduled class occurrence. StartTime/EndTime always equal
// one of the canonical grid slot pairs: the import pipeline enforces this by
// snapping, everything else assigns times only from the grid table.
type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      CourseType `json:"type"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Location  string     `json:"location"`
	DayOfWeek int        `json:"dayOfWeek"`
	Professor string     `json:"professor"`
}

// Template is a named, owned collection of courses.
type Template struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Courses []Course `json:"courses"`
}

// NewID returns a fresh 128-bit random identifier. Course and template ids
// must never collide within a store; lookups, updates and deletes all key
// on them.
func NewID() string {
	return uuid.NewString()
}
