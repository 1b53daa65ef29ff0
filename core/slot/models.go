package slot

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Status of a review appointment slot.
type Status string

const (
	StatusAvailable Status = "available"
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Slot is the canonical representation of a review appointment slot as
// returned by the remote panel store.
//
// Title, Module and Description are descriptive academic metadata that may be
// entirely absent on a slot depending on how it was created. They are kept as
// null.String so "absent" stays distinguishable from "present but blank";
// that distinction drives the merge rules in Reconcile.
type Slot struct {
	ID           string      `json:"id"`
	ReviewNumber int         `json:"reviewNumber"`
	Date         string      `json:"date"` // as sent by the store; normalized by Project
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	TimeRange    string      `json:"timeRange"`
	Room         int         `json:"sala"`
	MeetingLink  string      `json:"meetingLink"`
	Comments     string      `json:"comments"`
	Status       Status      `json:"estado"`
	RequestedBy  null.String `json:"requestedBy"` // set once the slot leaves "available"

	Title       null.String `json:"title"`
	Module      null.String `json:"modulo"`
	Description null.String `json:"description"`
}

// Window returns the scheduled interval as a pair of timestamps, derived from
// Date + StartTime/EndTime.
func (s Slot) Window() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(windowLayout, s.Date+" "+s.StartTime, time.UTC)
	if err != nil {
		return
	}
	end, err = time.ParseInLocation(windowLayout, s.Date+" "+s.EndTime, time.UTC)
	return
}

const (
	dateLayout   = "2006-01-02"
	timeLayout   = "15:04"
	windowLayout = dateLayout + " " + timeLayout
)

// Wire converts the slot into an outbound edit request body. The slot store
// expects a complete-looking object even for partial edits; estado is
// deliberately never part of it, state changes only travel through the
// dedicated transition endpoints.
func (s Slot) Wire() WireRequest {
	req := WireRequest{
		"reviewNumber": s.ReviewNumber,
		"date":         s.Date,
		"timeRange":    s.TimeRange,
		"sala":         s.Room,
		"meetingLink":  s.MeetingLink,
		"comments":     s.Comments,
		"requestedBy":  s.RequestedBy,
		"title":        s.Title,
		"modulo":       s.Module,
		"description":  s.Description,
	}
	if start, end, err := s.Window(); err == nil {
		req["startsAt"] = start.Format(time.RFC3339)
		req["endsAt"] = end.Format(time.RFC3339)
	}
	return req
}
