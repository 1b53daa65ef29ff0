package slot

import (
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tmukandila/ratiba/core"
)

// Defaults applied to a freshly created slot when the form leaves the
// academic fields blank. They exist only for creation: a new slot has no
// prior server state to fall back to.
const (
	DefaultTitle       = "Review session"
	DefaultDescription = "Review appointment slot"
	DefaultModule      = "General"
)

// Payload is the request body rebuilt from form values. Academic fields are
// tri-state: an invalid null.String means the key is omitted from the wire
// entirely, which the store reads as "leave it as it is".
type Payload struct {
	ReviewNumber int
	Date         string // yyyy-mm-dd
	StartTime    string // HH:MM
	EndTime      string
	StartsAt     time.Time
	EndsAt       time.Time
	TimeRange    string
	Room         int
	MeetingLink  string
	Comments     string
	Status       null.String // only set when creating
	CreatedBy    null.String

	Title       null.String
	Module      null.String
	Description null.String
}

// Build converts form values into a request payload. The behavior branches on
// creating:
//   - creation supplies academic defaults and an initial estado;
//   - editing omits title/description altogether (omitted, not blanked),
//     includes the module only when the form explicitly set it, and never
//     carries estado - state changes go through Apply and the transition
//     endpoints, a generic field edit must stay single-intent.
func Build(vals Values, creator string, creating bool) Payload {
	reviewNumber, _ := strconv.Atoi(core.CleanString(vals.ReviewNumber))

	p := Payload{
		ReviewNumber: reviewNumber,
		Date:         core.CleanString(vals.Date),
		StartTime:    core.CleanString(vals.StartTime),
		EndTime:      core.CleanString(vals.EndTime),
		Room:         parseRoom(vals.Room),
		MeetingLink:  core.CleanString(vals.MeetingLink),
		Comments:     core.CleanString(vals.Comments),
	}
	p.TimeRange = p.StartTime + " - " + p.EndTime
	if start, err := time.ParseInLocation(windowLayout, p.Date+" "+p.StartTime, time.UTC); err == nil {
		p.StartsAt = start
	}
	if end, err := time.ParseInLocation(windowLayout, p.Date+" "+p.EndTime, time.UTC); err == nil {
		p.EndsAt = end
	}

	if creating {
		p.Title = null.StringFrom(defaulted(vals.Title, DefaultTitle))
		p.Description = null.StringFrom(defaulted(vals.Description, DefaultDescription))
		p.Module = null.StringFrom(defaulted(vals.Module, DefaultModule))
		p.Status = null.StringFrom(defaulted(vals.Status, string(StatusAvailable)))
		if creator = core.CleanString(creator); creator != "" {
			p.CreatedBy = null.StringFrom(creator)
		}
		return p
	}

	// instructors may be allowed to change the module; anything blank is
	// simply not part of the payload
	if module := core.CleanString(vals.Module); module != "" {
		p.Module = null.StringFrom(module)
	}
	return p
}

// parseRoom falls back to a synthetic unique value when the form field does
// not hold a positive number, so the store never sees an invalid room.
func parseRoom(room string) int {
	if n, err := strconv.Atoi(core.CleanString(room)); err == nil && n > 0 {
		return n
	}
	return int(nowFunc().UnixNano() / int64(time.Millisecond))
}

func defaulted(val, def string) string {
	if val = core.CleanString(val); val != "" {
		return val
	}
	return def
}

// Wire converts the payload into an outbound creation request body; the
// create endpoint always receives title, description, modulo and estado,
// possibly defaulted.
func (p Payload) Wire() WireRequest {
	req := WireRequest{
		"reviewNumber": p.ReviewNumber,
		"date":         p.Date,
		"timeRange":    p.TimeRange,
		"sala":         p.Room,
		"meetingLink":  p.MeetingLink,
		"comments":     p.Comments,
		"estado":       p.Status,
		"createdBy":    p.CreatedBy,
		"title":        p.Title,
		"modulo":       p.Module,
		"description":  p.Description,
	}
	if !p.StartsAt.IsZero() {
		req["startsAt"] = p.StartsAt.Format(time.RFC3339)
	}
	if !p.EndsAt.IsZero() {
		req["endsAt"] = p.EndsAt.Format(time.RFC3339)
	}
	return req
}
