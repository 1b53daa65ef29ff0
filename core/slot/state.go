package slot

import (
	"fmt"
	"strings"

	"github.com/tmukandila/ratiba/core/user"
)

// Transition names the explicit state changes a slot can go through.
type Transition string

const (
	TransitionRequest Transition = "request"
	TransitionCancel  Transition = "cancel"
	TransitionApprove Transition = "approve"
	TransitionReject  Transition = "reject"
)

type transitionRule struct {
	next  Status
	roles []string // role prefixes allowed to perform the transition
}

// transitionTable is the single source of truth for slot state changes and
// their role gating. A status with no row here is terminal; allowing e.g. a
// "reopen" path from approved/rejected is a matter of adding a row.
var transitionTable = map[Status]map[Transition]transitionRule{
	StatusAvailable: {
		TransitionRequest: {next: StatusRequested, roles: user.StudentRoles},
	},
	StatusRequested: {
		// requester-sameness for cancellation is enforced by the Service;
		// the table only knows about roles.
		TransitionCancel:  {next: StatusAvailable, roles: concatRoles(user.StudentRoles, user.AdminRoles)},
		TransitionApprove: {next: StatusApproved, roles: concatRoles(user.InstructorRoles, user.AdminRoles)},
		TransitionReject:  {next: StatusRejected, roles: concatRoles(user.InstructorRoles, user.AdminRoles)},
	},
}

// InvalidTransitionError reports a transition attempted from a status that
// does not permit it, or by roles that may not perform it.
type InvalidTransitionError struct {
	From       Status
	Transition Transition
	Roles      []string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a slot in status %q (acting roles: %s)",
		e.Transition, e.From, strings.Join(e.Roles, ","))
}

// Apply is a pure function: given the current status, a transition and the
// acting user's roles, it returns the resulting status or an
// *InvalidTransitionError. Every (status, transition, roles) triple not
// explicitly allowed by the table fails; there is no silent no-op.
func Apply(current Status, tr Transition, roles []string) (Status, error) {
	rules, ok := transitionTable[current]
	if ok {
		if rule, ok := rules[tr]; ok && hasAnyRole(roles, rule.roles) {
			return rule.next, nil
		}
	}
	return current, &InvalidTransitionError{From: current, Transition: tr, Roles: roles}
}

func concatRoles(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func hasAnyRole(actual, allowed []string) bool {
	for _, role := range actual {
		for _, prefix := range allowed {
			if strings.HasPrefix(role, prefix) {
				return true
			}
		}
	}
	return false
}
