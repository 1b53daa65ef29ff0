package slot

import (
	"errors"
	"strings"

	"github.com/volatiletech/null/v8"
)

// ErrMissingPrior is returned when a merge is attempted without the last
// known server copy of the slot. Merging without it would make every omitted
// academic field look blank-and-therefore-cleared, which is exactly the
// regression the reconciler exists to prevent; fail loudly instead.
var ErrMissingPrior = errors.New("prior slot state unknown, refusing to merge")

// Reconcile merges an edit payload into the last known server copy of the
// slot and returns the full record to send over the wire.
//
// The merge is two-tier:
//   - academic fields (title, module, description) inherit the prior value
//     when the payload omits them OR carries only blanks; an explicit
//     non-blank value overwrites. Editing scheduling fields must never change
//     academic metadata as a side effect.
//   - every other field is owned by the edit form, so the payload value wins
//     unconditionally.
//
// Status never merges in: state changes go through Apply and the dedicated
// transition endpoints.
//
// There is no optimistic concurrency here: two editors of the same slot race,
// and the later submission reconciles against its own stale prior copy.
func Reconcile(prior *Slot, p Payload) (Slot, error) {
	if prior == nil || prior.ID == "" {
		return Slot{}, ErrMissingPrior
	}

	merged := *prior
	merged.ReviewNumber = p.ReviewNumber
	merged.Date = p.Date
	merged.StartTime = p.StartTime
	merged.EndTime = p.EndTime
	merged.TimeRange = p.TimeRange
	merged.Room = p.Room
	merged.MeetingLink = p.MeetingLink
	merged.Comments = p.Comments

	merged.Title = mergeAcademic(prior.Title, p.Title)
	merged.Module = mergeAcademic(prior.Module, p.Module)
	merged.Description = mergeAcademic(prior.Description, p.Description)
	return merged, nil
}

// mergeAcademic implements the inherit-on-blank rule for a single academic
// field: absent -> inherit, blank -> inherit, explicit non-blank -> overwrite
// (trimmed).
func mergeAcademic(prior, incoming null.String) null.String {
	if !incoming.Valid {
		return prior
	}
	if trimmed := strings.TrimSpace(incoming.String); trimmed != "" {
		return null.StringFrom(trimmed)
	}
	return prior
}
