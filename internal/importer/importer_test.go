package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/timetable-app/timetable/internal/schedule"
)

func TestRun_Legacy(t *testing.T) {
	t.Run("valid_course_is_normalized", func(t *testing.T) {
		raw := `{"name":"Test","courses":[{"title":"Math","type":"Lecture","startTime":"8:30","endTime":"9:50","location":"101","dayOfWeek":0}]}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if len(drafts) != 1 {
			t.Fatalf("len(drafts) = %d, want 1", len(drafts))
		}
		d := drafts[0]
		if d.Name != "Test" {
			t.Errorf("Name = %q, want %q", d.Name, "Test")
		}
		if len(d.Courses) != 1 {
			t.Fatalf("len(Courses) = %d, want 1", len(d.Courses))
		}
		c := d.Courses[0]
		if c.Type != schedule.Lecture {
			t.Errorf("Type = %q, want lecture", c.Type)
		}
		if c.StartTime != "08:30" || c.EndTime != "09:50" {
			t.Errorf("times = %s-%s, want 08:30-09:50", c.StartTime, c.EndTime)
		}
		if c.DayOfWeek != 0 {
			t.Errorf("DayOfWeek = %d, want 0", c.DayOfWeek)
		}
		if c.ID != "" {
			t.Errorf("ID = %q, want empty (assigned at merge)", c.ID)
		}
	})

	t.Run("blank_name_falls_back", func(t *testing.T) {
		drafts, err := Run([]byte(`{"name":"  ","courses":[]}`), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if drafts[0].Name != "Импортированное расписание" {
			t.Errorf("Name = %q, want fallback", drafts[0].Name)
		}
	})

	t.Run("missing_name_is_malformed", func(t *testing.T) {
		_, err := Run([]byte(`{"courses":[]}`), nil)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("err = %v, want ErrMalformedInput", err)
		}
	})

	t.Run("courses_not_a_list", func(t *testing.T) {
		_, err := Run([]byte(`{"name":"x","courses":{}}`), nil)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("err = %v, want ErrMalformedInput", err)
		}
	})
}

func TestRun_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not_json", "not json"},
		{"empty_object", "{}"},
		{"array", "[1,2,3]"},
		{"unrelated_keys", `{"foo":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := Run([]byte(tt.raw), nil)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("err = %v, want ErrMalformedInput", err)
			}
			if drafts != nil {
				t.Errorf("drafts = %v, want nil", drafts)
			}
		})
	}
}

func TestRun_CourseValidation(t *testing.T) {
	t.Run("invalid_day_names_value", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":9}]}`
		_, err := Run([]byte(raw), nil)
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("err = %v, want ErrInvalidField", err)
		}
		if !strings.Contains(err.Error(), "9") {
			t.Errorf("error %q does not name the bad day value", err)
		}
	})

	t.Run("day_as_numeric_string_is_coerced", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":"3"}]}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if drafts[0].Courses[0].DayOfWeek != 3 {
			t.Errorf("DayOfWeek = %d, want 3", drafts[0].Courses[0].DayOfWeek)
		}
	})

	t.Run("sunday_is_accepted", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":6}]}`
		if _, err := Run([]byte(raw), nil); err != nil {
			t.Errorf("dayOfWeek 6 rejected: %v", err)
		}
	})

	t.Run("fractional_day_is_invalid", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":1.5}]}`
		if _, err := Run([]byte(raw), nil); !errors.Is(err, ErrInvalidField) {
			t.Errorf("err = %v, want ErrInvalidField", err)
		}
	})

	t.Run("missing_fields_are_listed", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"type":"lecture","startTime":"08:30","endTime":"09:50","dayOfWeek":0}]}`
		_, err := Run([]byte(raw), nil)
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("err = %v, want ErrInvalidField", err)
		}
		for _, field := range []string{"title", "location"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q does not name missing field %s", err, field)
			}
		}
	})

	t.Run("blank_title_counts_as_missing", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"   ","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":0}]}`
		if _, err := Run([]byte(raw), nil); !errors.Is(err, ErrInvalidField) {
			t.Errorf("err = %v, want ErrInvalidField", err)
		}
	})

	t.Run("bad_time_format_names_value", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"830","endTime":"09:50","location":"101","dayOfWeek":0}]}`
		_, err := Run([]byte(raw), nil)
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("err = %v, want ErrInvalidField", err)
		}
		if !strings.Contains(err.Error(), "830") {
			t.Errorf("error %q does not name the bad time", err)
		}
	})

	t.Run("inexact_time_snaps_without_failing", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","startTime":"13:35","endTime":"14:45","location":"101","dayOfWeek":0}]}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		c := drafts[0].Courses[0]
		if c.StartTime != "13:20" || c.EndTime != "14:40" {
			t.Errorf("snapped times = %s-%s, want 13:20-14:40", c.StartTime, c.EndTime)
		}
	})

	t.Run("unknown_type_defaults_to_lecture", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"Math","type":"webinar","startTime":"08:30","endTime":"09:50","location":"101","dayOfWeek":0}]}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if drafts[0].Courses[0].Type != schedule.Lecture {
			t.Errorf("Type = %q, want lecture fallback", drafts[0].Courses[0].Type)
		}
	})

	t.Run("fields_are_trimmed", func(t *testing.T) {
		raw := `{"name":"T","courses":[{"title":"  Math ","startTime":"08:30","endTime":"09:50","location":" 101 ","dayOfWeek":0,"professor":" Иванов "}]}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		c := drafts[0].Courses[0]
		if c.Title != "Math" || c.Location != "101" || c.Professor != "Иванов" {
			t.Errorf("trimming failed: %+v", c)
		}
	})
}

const subgroupInput = `{
  "scheduleName": "ИВТ-21",
  "subgroup1": {
    "numerator":   {"courses": [{"title":"Матанализ","type":"lecture","startTime":"08:30","endTime":"09:50","location":"А-101","dayOfWeek":0}]},
    "denominator": {"courses": [{"title":"Физика","type":"lab","startTime":"10:00","endTime":"11:20","location":"Б-202","dayOfWeek":1}]}
  },
  "subgroup2": {
    "numerator":   {"courses": [{"title":"Программирование","type":"practice","startTime":"11:30","endTime":"12:50","location":"В-303","dayOfWeek":2}]},
    "denominator": {"courses": [{"title":"Английский","type":"seminar","startTime":"13:20","endTime":"14:40","location":"Г-404","dayOfWeek":3}]}
  }
}`

func TestRun_Subgroups(t *testing.T) {
	t.Run("cross_product_in_fixed_order", func(t *testing.T) {
		drafts, err := Run([]byte(subgroupInput), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if len(drafts) != 4 {
			t.Fatalf("len(drafts) = %d, want 4", len(drafts))
		}
		wantNames := []string{
			"ИВТ-21 - 1 подгруппа - числитель",
			"ИВТ-21 - 1 подгруппа - знаменатель",
			"ИВТ-21 - 2 подгруппа - числитель",
			"ИВТ-21 - 2 подгруппа - знаменатель",
		}
		wantTitles := []string{"Матанализ", "Физика", "Программирование", "Английский"}
		for i, d := range drafts {
			if d.Name != wantNames[i] {
				t.Errorf("drafts[%d].Name = %q, want %q", i, d.Name, wantNames[i])
			}
			if len(d.Courses) != 1 || d.Courses[0].Title != wantTitles[i] {
				t.Errorf("drafts[%d] courses = %+v, want single %q", i, d.Courses, wantTitles[i])
			}
		}
	})

	t.Run("missing_parity_branch_is_empty", func(t *testing.T) {
		raw := `{
		  "scheduleName": "Группа",
		  "subgroup1": {"numerator": {"courses": []}, "denominator": {"courses": []}},
		  "subgroup2": {"numerator": {"courses": []}}
		}`
		drafts, err := Run([]byte(raw), nil)
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		if len(drafts) != 4 {
			t.Fatalf("len(drafts) = %d, want 4", len(drafts))
		}
		if len(drafts[3].Courses) != 0 {
			t.Errorf("drafts[3].Courses = %v, want empty", drafts[3].Courses)
		}
	})

	t.Run("missing_subgroup_object_is_fatal", func(t *testing.T) {
		raw := `{"scheduleName":"Группа","subgroup1":{"numerator":{"courses":[]}}}`
		if _, err := Run([]byte(raw), nil); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("err = %v, want ErrMalformedInput", err)
		}
	})

	t.Run("missing_schedule_name_is_fatal", func(t *testing.T) {
		raw := `{"subgroup1":{},"subgroup2":{}}`
		if _, err := Run([]byte(raw), nil); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("err = %v, want ErrMalformedInput", err)
		}
	})

	t.Run("all_or_nothing", func(t *testing.T) {
		// One course in subgroup2.numerator has no title: the whole import
		// must abort with a branch-identifying error.
		raw := `{
		  "scheduleName": "Группа",
		  "subgroup1": {
		    "numerator":   {"courses": [{"title":"А","startTime":"08:30","endTime":"09:50","location":"1","dayOfWeek":0}]},
		    "denominator": {"courses": [{"title":"Б","startTime":"08:30","endTime":"09:50","location":"1","dayOfWeek":0}]}
		  },
		  "subgroup2": {
		    "numerator":   {"courses": [{"startTime":"08:30","endTime":"09:50","location":"1","dayOfWeek":0}]},
		    "denominator": {"courses": [{"title":"Г","startTime":"08:30","endTime":"09:50","location":"1","dayOfWeek":0}]}
		  }
		}`
		drafts, err := Run([]byte(raw), nil)
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("err = %v, want ErrInvalidField", err)
		}
		if drafts != nil {
			t.Errorf("drafts = %v, want nil (no partial output)", drafts)
		}
		if !strings.Contains(err.Error(), "subgroup2") || !strings.Contains(err.Error(), "title") {
			t.Errorf("error %q does not identify branch and field", err)
		}
	})
}
