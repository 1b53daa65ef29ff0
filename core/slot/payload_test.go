package slot

import (
	"testing"
	"time"
)

func TestBuildCreating(t *testing.T) {
	vals := Values{
		ReviewNumber: "2",
		Date:         "2025-12-16",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Room:         "202",
		MeetingLink:  " https://zoom.us/j/456 ",
		Comments:     "  bring the burndown chart ",
	}

	p := Build(vals, "Prof. Kanku", true)

	if p.ReviewNumber != 2 || p.Room != 202 {
		t.Errorf("Build() numbers = %d, %d; want 2, 202", p.ReviewNumber, p.Room)
	}
	if p.TimeRange != "10:00 - 11:00" {
		t.Errorf("Build() timeRange = %q", p.TimeRange)
	}
	wantStart := time.Date(2025, time.December, 16, 10, 0, 0, 0, time.UTC)
	if !p.StartsAt.Equal(wantStart) {
		t.Errorf("Build() startsAt = %v; want %v", p.StartsAt, wantStart)
	}
	if !p.EndsAt.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("Build() endsAt = %v", p.EndsAt)
	}
	if p.MeetingLink != "https://zoom.us/j/456" || p.Comments != "bring the burndown chart" {
		t.Errorf("Build() did not trim: %q, %q", p.MeetingLink, p.Comments)
	}

	// creation defaults: a fresh slot has no prior server state to inherit from
	if p.Title.String != DefaultTitle || p.Description.String != DefaultDescription || p.Module.String != DefaultModule {
		t.Errorf("Build() academic defaults = %v, %v, %v", p.Title, p.Description, p.Module)
	}
	if p.Status.String != string(StatusAvailable) {
		t.Errorf("Build() estado = %v; want available", p.Status)
	}
	if p.CreatedBy.String != "Prof. Kanku" {
		t.Errorf("Build() createdBy = %v", p.CreatedBy)
	}
}

func TestBuildCreatingKeepsExplicitAcademics(t *testing.T) {
	vals := Values{
		ReviewNumber: "1", Date: "2025-12-16", StartTime: "10:00", EndTime: "11:00",
		Title: "Sprint Review", Module: "PIS-2", Status: string(StatusAvailable),
	}
	p := Build(vals, "", true)
	if p.Title.String != "Sprint Review" || p.Module.String != "PIS-2" {
		t.Errorf("Build() overrode explicit academics: %v, %v", p.Title, p.Module)
	}
	if p.CreatedBy.Valid {
		t.Errorf("Build() createdBy should be unset, got %v", p.CreatedBy)
	}
}

func TestBuildEditing(t *testing.T) {
	vals := Values{
		ReviewNumber: "3",
		Date:         "2025-12-16",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Room:         "202",
		Comments:     "new",
		Status:       string(StatusRequested), // must be ignored
		Title:        "Sneaky title",          // edits never carry title/description
		Description:  "sneaky description",
	}

	p := Build(vals, "Prof. Kanku", false)

	// title and description are omitted, not blanked: "field absent" and
	// "field present but empty" are different wire statements
	if p.Title.Valid || p.Description.Valid {
		t.Errorf("Build(editing) must omit title/description, got %v, %v", p.Title, p.Description)
	}
	if p.Status.Valid {
		t.Errorf("Build(editing) must omit estado, got %v", p.Status)
	}
	if p.CreatedBy.Valid {
		t.Errorf("Build(editing) must omit createdBy, got %v", p.CreatedBy)
	}
}

func TestBuildEditingExplicitModule(t *testing.T) {
	vals := Values{ReviewNumber: "3", Date: "2025-12-16", StartTime: "10:00", EndTime: "11:00", Room: "202"}

	if p := Build(vals, "", false); p.Module.Valid {
		t.Errorf("Build(editing) module should be omitted when blank, got %v", p.Module)
	}

	vals.Module = " PIS-2 "
	if p := Build(vals, "", false); p.Module.String != "PIS-2" {
		t.Errorf("Build(editing) module = %v; want PIS-2", p.Module)
	}
}

func TestParseRoomSyntheticFallback(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2025, time.December, 16, 9, 30, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	want := int(nowFunc().UnixNano() / int64(time.Millisecond))
	for _, room := range []string{"", "aula magna", "-3", "0"} {
		if got := parseRoom(room); got != want {
			t.Errorf("parseRoom(%q) = %d; want synthetic %d", room, got, want)
		}
	}
	if got := parseRoom(" 202 "); got != 202 {
		t.Errorf("parseRoom(\" 202 \") = %d; want 202", got)
	}
}
