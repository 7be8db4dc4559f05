package export

import (
	"strings"
	"testing"

	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/schedule"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/store"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"My Schedule", "my_schedule_template.json"},
		{"Основное расписание", "____________________template.json"},
		{"Group-21 (A)", "group_21__a__template.json"},
		{"abc123", "abc123_template.json"},
	}
	for _, tt := range tests {
		if got := Filename(tt.name); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(schedule.Template{ID: "t1", Name: "Test", Courses: []schedule.Course{}})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if !strings.Contains(string(data), "\n  \"id\": \"t1\",\n") {
		t.Errorf("not pretty-printed:\n%s", data)
	}
}

// Exporting a template and re-importing the file must preserve the courses
// (ids are reassigned) and suffix the name on collision.
func TestRoundTrip(t *testing.T) {
	s := store.New(storage.NewMemKV(), nil)
	if err := s.Rename(store.DefaultTemplateID, "Расписание А"); err != nil {
		t.Fatal(err)
	}
	course := schedule.Course{
		Title:     "Физика",
		Type:      schedule.Lab,
		StartTime: "10:00",
		EndTime:   "11:20",
		Location:  "Б-202",
		DayOfWeek: 1,
		Professor: "Петров",
	}
	if _, err := s.AddCourse(course); err != nil {
		t.Fatal(err)
	}

	exported, err := Marshal(s.Current())
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	draft, err := Read(exported, nil)
	if err != nil {
		t.Fatalf("Read error = %v", err)
	}
	added, err := s.MergeImported([]importer.Draft{draft})
	if err != nil {
		t.Fatalf("MergeImported error = %v", err)
	}

	got := added[0]
	if got.Name != "Расписание А (импортировано)" {
		t.Errorf("Name = %q, want collision suffix", got.Name)
	}
	if len(got.Courses) != 1 {
		t.Fatalf("len(Courses) = %d, want 1", len(got.Courses))
	}
	c := got.Courses[0]
	orig := s.Snapshot().Templates[0].Courses[0]
	if c.ID == orig.ID {
		t.Error("re-imported course kept the original id")
	}
	c.ID, orig.ID = "", ""
	if c != orig {
		t.Errorf("course content changed across round trip:\n got %+v\nwant %+v", c, orig)
	}
}
