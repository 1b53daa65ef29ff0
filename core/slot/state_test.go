package slot

import (
	"errors"
	"testing"

	"github.com/tmukandila/ratiba/core/user"
)

func TestApply(t *testing.T) {
	student := []string{user.RoleStudent}
	instructor := []string{user.RoleInstructor}
	admin := []string{user.RoleAdmin}
	super := []string{user.RoleAdminSuper}

	tests := []struct {
		name    string
		current Status
		tr      Transition
		roles   []string
		want    Status
		wantErr bool
	}{
		{name: "student requests available", current: StatusAvailable, tr: TransitionRequest, roles: student, want: StatusRequested},
		{name: "instructor cannot request", current: StatusAvailable, tr: TransitionRequest, roles: instructor, wantErr: true},
		{name: "admin cannot request", current: StatusAvailable, tr: TransitionRequest, roles: admin, wantErr: true},

		{name: "student cancels requested", current: StatusRequested, tr: TransitionCancel, roles: student, want: StatusAvailable},
		{name: "admin cancels requested", current: StatusRequested, tr: TransitionCancel, roles: admin, want: StatusAvailable},
		{name: "instructor cannot cancel", current: StatusRequested, tr: TransitionCancel, roles: instructor, wantErr: true},

		{name: "instructor approves requested", current: StatusRequested, tr: TransitionApprove, roles: instructor, want: StatusApproved},
		{name: "super admin approves requested", current: StatusRequested, tr: TransitionApprove, roles: super, want: StatusApproved},
		{name: "student cannot approve", current: StatusRequested, tr: TransitionApprove, roles: student, wantErr: true},
		{name: "instructor rejects requested", current: StatusRequested, tr: TransitionReject, roles: instructor, want: StatusRejected},

		{name: "cannot approve available", current: StatusAvailable, tr: TransitionApprove, roles: instructor, wantErr: true},
		{name: "cannot cancel available", current: StatusAvailable, tr: TransitionCancel, roles: admin, wantErr: true},
		{name: "no roles", current: StatusAvailable, tr: TransitionRequest, roles: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.current, tt.tr, tt.roles)
			if tt.wantErr {
				var invalidErr *InvalidTransitionError
				if !errors.As(err, &invalidErr) {
					t.Fatalf("Apply() error = %v; want *InvalidTransitionError", err)
				}
				if invalidErr.From != tt.current || invalidErr.Transition != tt.tr {
					t.Errorf("Apply() error = %v; want from=%q transition=%q", invalidErr, tt.current, tt.tr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %v; want %v", got, tt.want)
			}
		})
	}
}

// TestApplyTotality sweeps every (status, transition, role) triple: anything
// not explicitly allowed by the table must fail, never silently no-op.
func TestApplyTotality(t *testing.T) {
	statuses := []Status{StatusAvailable, StatusRequested, StatusApproved, StatusRejected}
	transitions := []Transition{TransitionRequest, TransitionCancel, TransitionApprove, TransitionReject}

	allowed := func(st Status, tr Transition, role string) bool {
		rules, ok := transitionTable[st]
		if !ok {
			return false
		}
		rule, ok := rules[tr]
		if !ok {
			return false
		}
		return hasAnyRole([]string{role}, rule.roles)
	}

	for _, st := range statuses {
		for _, tr := range transitions {
			for _, role := range user.AllRoles {
				got, err := Apply(st, tr, []string{role})
				if allowed(st, tr, role) {
					if err != nil {
						t.Errorf("Apply(%q, %q, %q) unexpected error: %v", st, tr, role, err)
					}
					continue
				}
				if err == nil {
					t.Errorf("Apply(%q, %q, %q) = %v; want InvalidTransition", st, tr, role, got)
				}
				if got != st {
					t.Errorf("Apply(%q, %q, %q) moved status to %q on error", st, tr, role, got)
				}
			}
		}
	}

	// terminal statuses have no outgoing rows at all
	for _, st := range []Status{StatusApproved, StatusRejected} {
		if _, ok := transitionTable[st]; ok {
			t.Errorf("status %q should be terminal", st)
		}
	}
}
