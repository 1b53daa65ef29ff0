package slot

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	pkgerrors "github.com/pkg/errors"

	"github.com/tmukandila/ratiba/core"
	"github.com/tmukandila/ratiba/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("slot not found")
	ErrNotRequester = errors.New("only the requester or an admin can cancel a request")
)

// RemoteError indicates the outbound call to the slot store failed before
// reaching its validator; retrying is at the caller's discretion.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("slot store unreachable (%s): %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

type (
	// Client issues the qualifying HTTP operations against the remote slot
	// store. Implementations map 400-class responses with field details to
	// *core.ValidationError, missing slots to ErrNotFound and transport
	// failures to *RemoteError.
	Client interface {
		QuerySlots(ctx context.Context) ([]Slot, error)
		GetSlot(ctx context.Context, id string) (Slot, error)
		CreateSlot(ctx context.Context, req WireRequest) (Slot, error)
		UpdateSlot(ctx context.Context, id string, req WireRequest) (Slot, error)
		// TransitionSlot hits the narrow per-transition endpoint; it takes
		// only the identifier, never an entity body.
		TransitionSlot(ctx context.Context, id string, tr Transition) (Slot, error)
	}

	Service struct {
		client  Client
		usrSvc  *user.Service
		mailSvc core.EmailService
	}
)

func NewService(client Client, usrSvc *user.Service, mailSvc core.EmailService) *Service {
	return &Service{client: client, usrSvc: usrSvc, mailSvc: mailSvc}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Slot, error) {
	return svc.client.QuerySlots(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Slot, error) {
	return svc.client.GetSlot(ctx, id)
}

// Create validates the form, builds a creation payload (academic defaults
// included) and posts the sanitized body to the store.
func (svc *Service) Create(ctx context.Context, vals Values, actor user.User) (Slot, error) {
	if err := vals.Validate(); err != nil {
		return Slot{}, err
	}
	p := Build(vals, actor.Name, true /* creating */)
	return svc.client.CreateSlot(ctx, Sanitize(p.Wire()))
}

// Edit fetches the slot's last known server copy, reconciles the edit payload
// against it and sends the sanitized merge. Fields the edit form does not own
// survive untouched; see Reconcile.
//
// Known limitation, kept on purpose: there is no version/ETag guard, so a
// concurrent edit of the same slot between our fetch and our update is
// silently overwritten.
func (svc *Service) Edit(ctx context.Context, id string, vals Values, actor user.User) (Slot, error) {
	if err := vals.Validate(); err != nil {
		return Slot{}, err
	}

	prior, err := svc.client.GetSlot(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Slot{}, ErrMissingPrior
		}
		return Slot{}, pkgerrors.Wrap(err, "fetching slot before edit")
	}

	merged, err := Reconcile(&prior, Build(vals, actor.Name, false))
	if err != nil {
		return Slot{}, err
	}
	return svc.client.UpdateSlot(ctx, id, Sanitize(merged.Wire()))
}

// Request books an available slot for the acting student.
func (svc *Service) Request(ctx context.Context, id string, actor user.User) (Slot, error) {
	return svc.transition(ctx, id, TransitionRequest, actor)
}

// CancelRequest releases a requested slot back to available. Only the
// original requester or an admin may cancel.
func (svc *Service) CancelRequest(ctx context.Context, id string, actor user.User) (Slot, error) {
	s, err := svc.client.GetSlot(ctx, id)
	if err != nil {
		return Slot{}, err
	}
	if !actor.IsAdmin() && s.RequestedBy.String != actor.Username {
		return Slot{}, ErrNotRequester
	}
	if _, err := Apply(s.Status, TransitionCancel, actor.Roles); err != nil {
		return Slot{}, err
	}
	return svc.client.TransitionSlot(ctx, id, TransitionCancel)
}

// Approve confirms a requested slot and notifies the requester.
func (svc *Service) Approve(ctx context.Context, id string, actor user.User) (Slot, error) {
	s, err := svc.transition(ctx, id, TransitionApprove, actor)
	if err == nil {
		svc.notifyRequester(s, "approved")
	}
	return s, err
}

// Reject declines a requested slot and notifies the requester. The requester
// reference is retained on the slot for audit purposes.
func (svc *Service) Reject(ctx context.Context, id string, actor user.User) (Slot, error) {
	s, err := svc.transition(ctx, id, TransitionReject, actor)
	if err == nil {
		svc.notifyRequester(s, "rejected")
	}
	return s, err
}

func (svc *Service) transition(ctx context.Context, id string, tr Transition, actor user.User) (Slot, error) {
	s, err := svc.client.GetSlot(ctx, id)
	if err != nil {
		return Slot{}, err
	}
	if _, err := Apply(s.Status, tr, actor.Roles); err != nil {
		return Slot{}, err
	}
	return svc.client.TransitionSlot(ctx, id, tr)
}

func (svc *Service) notifyRequester(s Slot, outcome string) {
	if svc.usrSvc == nil || svc.mailSvc == nil || !s.RequestedBy.Valid {
		return
	}
	usr, err := svc.usrSvc.GetByUsername(s.RequestedBy.String)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Review appointment " + outcome,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour review appointment on %s (%s, room %d) has been %s.\n",
			usr.Name, NormalizeDate(s.Date), s.TimeRange, s.Room, outcome,
		),
	})
}
