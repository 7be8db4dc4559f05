// Package importer validates and canonicalizes untrusted schedule structures
// produced by the extraction service or by manual file import. It is
// all-or-nothing: a single invalid course anywhere aborts the whole import
// and no drafts are returned.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/timetable-app/timetable/internal/schedule"
	"github.com/timetable-app/timetable/internal/timegrid"
)

// ErrMalformedInput means the top-level structure failed to parse or is
// missing required keys.
var ErrMalformedInput = errors.New("malformed import data")

// ErrInvalidField means a specific course failed validation. The wrapped
// message identifies the course and the offending field.
var ErrInvalidField = errors.New("invalid course field")

// Draft is a validated template candidate. IDs are intentionally empty:
// assigning fresh ids is the store's job at merge time.
type Draft struct {
	Name    string
	Courses []schedule.Course
}

// fallbackName is used when a legacy document carries a blank name.
const fallbackName = "Импортированное расписание"

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Run parses raw as one of the two accepted shapes and returns one draft
// (legacy shape) or exactly four (subgroup shape, fixed order: subgroup 1
// numerator, subgroup 1 denominator, subgroup 2 numerator, subgroup 2
// denominator). Soft fallbacks are logged as warnings; everything else is
// fatal to the whole invocation.
func Run(raw []byte, logger *slog.Logger) ([]Draft, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: не удалось разобрать JSON: %v", ErrMalformedInput, err)
	}

	// The two shapes are discriminated by key presence: a direct courses
	// array means the legacy shape, subgroup objects mean the four-way
	// cross product. Anything else is rejected.
	if _, ok := doc["courses"]; ok {
		return runLegacy(doc, logger)
	}
	if _, ok := doc["subgroup1"]; ok {
		return runSubgroups(doc, logger)
	}
	if _, ok := doc["subgroup2"]; ok {
		return runSubgroups(doc, logger)
	}
	return nil, fmt.Errorf("%w: ожидались ключи name+courses или scheduleName+subgroup1+subgroup2", ErrMalformedInput)
}

// runLegacy handles the {name, courses} shape.
func runLegacy(doc map[string]any, logger *slog.Logger) ([]Draft, error) {
	name, ok := doc["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: отсутствует поле name", ErrMalformedInput)
	}
	list, ok := doc["courses"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: поле courses не является списком", ErrMalformedInput)
	}

	courses, err := validateCourses("", list, logger)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}
	return []Draft{{Name: name, Courses: courses}}, nil
}

// runSubgroups handles the {scheduleName, subgroup1, subgroup2} shape.
func runSubgroups(doc map[string]any, logger *slog.Logger) ([]Draft, error) {
	name, _ := doc["scheduleName"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: отсутствует поле scheduleName", ErrMalformedInput)
	}

	// A missing subgroup object is a hard failure; a missing parity branch
	// inside a present subgroup is tolerated as an empty lesson list.
	branches := []struct {
		subgroup string
		parity   string
		suffix   string
	}{
		{"subgroup1", "numerator", "1 подгруппа - числитель"},
		{"subgroup1", "denominator", "1 подгруппа - знаменатель"},
		{"subgroup2", "numerator", "2 подгруппа - числитель"},
		{"subgroup2", "denominator", "2 подгруппа - знаменатель"},
	}

	for _, key := range []string{"subgroup1", "subgroup2"} {
		if _, ok := doc[key]; !ok {
			return nil, fmt.Errorf("%w: отсутствует объект %s", ErrMalformedInput, key)
		}
	}

	drafts := make([]Draft, 0, len(branches))
	for _, b := range branches {
		list := branchCourses(doc, b.subgroup, b.parity, logger)
		label := fmt.Sprintf("%s, %s", b.subgroup, b.parity)
		courses, err := validateCourses(label, list, logger)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, Draft{
			Name:    fmt.Sprintf("%s - %s", name, b.suffix),
			Courses: courses,
		})
	}
	return drafts, nil
}

// branchCourses digs out subgroup.parity.courses, logging a warning and
// returning an empty list for any missing level below the subgroup object.
func branchCourses(doc map[string]any, subgroup, parity string, logger *slog.Logger) []any {
	sg, ok := doc[subgroup].(map[string]any)
	if !ok {
		logger.Warn("subgroup is not an object, treating as empty", "subgroup", subgroup)
		return nil
	}
	branch, ok := sg[parity].(map[string]any)
	if !ok {
		logger.Warn("missing parity branch, treating as empty", "subgroup", subgroup, "parity", parity)
		return nil
	}
	list, ok := branch["courses"].([]any)
	if !ok {
		logger.Warn("branch has no courses list, treating as empty", "subgroup", subgroup, "parity", parity)
		return nil
	}
	return list
}

// validateCourses applies the per-course validation steps to one branch.
// branch is empty for the legacy shape and only affects error messages.
func validateCourses(branch string, list []any, logger *slog.Logger) ([]schedule.Course, error) {
	courses := make([]schedule.Course, 0, len(list))
	for i, item := range list {
		c, err := validateCourse(branch, i, item, logger)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// validateCourse runs the full validation and normalization sequence for a
// single raw course: presence, type fallback, day range, time format, slot
// snapping, trimming.
func validateCourse(branch string, idx int, item any, logger *slog.Logger) (schedule.Course, error) {
	raw, ok := item.(map[string]any)
	if !ok {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf("не является объектом (%v)", summarize(item)))
	}

	title := strings.TrimSpace(getString(raw, "title"))
	startTime := strings.TrimSpace(getString(raw, "startTime"))
	endTime := strings.TrimSpace(getString(raw, "endTime"))
	location := strings.TrimSpace(getString(raw, "location"))

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if startTime == "" {
		missing = append(missing, "startTime")
	}
	if endTime == "" {
		missing = append(missing, "endTime")
	}
	if location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf(
			"отсутствуют обязательные поля: %s (%s)",
			strings.Join(missing, ", "), summarize(raw)))
	}

	courseType, known := schedule.ParseCourseType(getString(raw, "type"))
	if !known {
		logger.Warn("unrecognized course type, defaulting to lecture",
			"course", title, "type", raw["type"])
	}

	day, ok := toInt(raw["dayOfWeek"])
	if !ok || day < 0 || day > 6 {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf(
			"неверный день недели (%v)", raw["dayOfWeek"]))
	}

	if !timePattern.MatchString(startTime) {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf(
			"неверный формат времени (%s)", startTime))
	}
	if !timePattern.MatchString(endTime) {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf(
			"неверный формат времени (%s)", endTime))
	}

	// Snap unconditionally: even an exact match is rewritten to the slot's
	// canonical pair, which also normalizes "8:30" to "08:30".
	startMinutes, err := timegrid.TimeToMinutes(startTime)
	if err != nil {
		return schedule.Course{}, courseErr(branch, idx, fmt.Sprintf(
			"неверный формат времени (%s)", startTime))
	}
	slot := timegrid.SnapToSlot(startMinutes)
	if !timegrid.IsExact(startTime, endTime) {
		logger.Warn("course time does not match the grid, snapping to nearest slot",
			"course", title,
			"startTime", startTime,
			"endTime", endTime,
			"slot", slot.ID)
	}

	return schedule.Course{
		Title:     title,
		Type:      courseType,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Location:  location,
		DayOfWeek: day,
		Professor: strings.TrimSpace(getString(raw, "professor")),
	}, nil
}

// courseErr builds an InvalidField error naming the course by 1-based
// position, prefixed with the branch for subgroup imports.
func courseErr(branch string, idx int, msg string) error {
	if branch == "" {
		return fmt.Errorf("%w: курс %d: %s", ErrInvalidField, idx+1, msg)
	}
	return fmt.Errorf("%w: %s: курс %d: %s", ErrInvalidField, branch, idx+1, msg)
}

// summarize renders a compact, truncated view of a raw course for error
// messages.
func summarize(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	const limit = 120
	s := string(b)
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// toInt coerces JSON numbers and numeric strings to an integer, rejecting
// fractions.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
