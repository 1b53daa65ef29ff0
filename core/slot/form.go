package slot

import (
	"strconv"
	"strings"
	"time"

	"github.com/tmukandila/ratiba/core"
)

var nowFunc = time.Now // mockable

// Values are the flat string fields of the slot editor form.
//
// The academic fields (Title, Module, Description) are part of the struct so
// that privileged forms may submit them, but Project never fills them in:
// the standard editor must not present - and therefore can never accidentally
// clear - fields it does not manage.
type Values struct {
	ReviewNumber string `json:"reviewNumber" validate:"required,number"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime      string `json:"endTime" validate:"required,datetime=15:04"`
	Room         string `json:"room"`
	MeetingLink  string `json:"meetingLink" validate:"omitempty,url"`
	Comments     string `json:"comments"`
	Status       string `json:"status"`

	Title       string `json:"title"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

func (v *Values) Validate() error {
	v.ReviewNumber = core.CleanString(v.ReviewNumber)
	v.Date = core.CleanString(v.Date)
	v.StartTime = core.CleanString(v.StartTime)
	v.EndTime = core.CleanString(v.EndTime)
	v.Room = core.CleanString(v.Room)
	v.MeetingLink = core.CleanString(v.MeetingLink)
	return core.Validate.Struct(v)
}

// Project derives editable form values from a slot. A nil slot (the "create"
// case) projects to sensible defaults: today's date, available status, empty
// strings elsewhere.
func Project(s *Slot) Values {
	if s == nil {
		return Values{
			Date:   nowFunc().Format(dateLayout),
			Status: string(StatusAvailable),
		}
	}

	start, end := s.StartTime, s.EndTime
	if (start == "" || end == "") && s.TimeRange != "" {
		start, end = splitTimeRange(s.TimeRange)
	}

	return Values{
		ReviewNumber: strconv.Itoa(s.ReviewNumber),
		Date:         NormalizeDate(s.Date),
		StartTime:    start,
		EndTime:      end,
		Room:         strconv.Itoa(s.Room),
		MeetingLink:  s.MeetingLink,
		Comments:     s.Comments,
		Status:       string(s.Status),
	}
}

// dateLayouts are the formats the remote store has been seen using; first
// match wins.
var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// NormalizeDate converts a date as stored remotely (ISO timestamp, localized
// dd/mm/yyyy, or already canonical) to the form's canonical yyyy-mm-dd.
// Unparseable input is returned trimmed, for the validator to reject.
func NormalizeDate(date string) string {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format(dateLayout)
		}
	}
	return date
}

func splitTimeRange(timeRange string) (start, end string) {
	parts := strings.SplitN(timeRange, "-", 2)
	start = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		end = strings.TrimSpace(parts[1])
	}
	return
}
