package slot

import (
	"context"
	"errors"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/tmukandila/ratiba/core/user"
)

// fakeClient records outbound requests and replays canned slots.
type fakeClient struct {
	slots map[string]Slot

	lastCreate     WireRequest
	lastUpdate     WireRequest
	lastUpdateID   string
	lastTransition Transition
}

var _ Client = (*fakeClient)(nil)

func (c *fakeClient) QuerySlots(ctx context.Context) ([]Slot, error) {
	out := make([]Slot, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, s)
	}
	return out, nil
}

func (c *fakeClient) GetSlot(ctx context.Context, id string) (Slot, error) {
	s, ok := c.slots[id]
	if !ok {
		return Slot{}, ErrNotFound
	}
	return s, nil
}

func (c *fakeClient) CreateSlot(ctx context.Context, req WireRequest) (Slot, error) {
	c.lastCreate = req
	return Slot{ID: "new"}, nil
}

func (c *fakeClient) UpdateSlot(ctx context.Context, id string, req WireRequest) (Slot, error) {
	c.lastUpdateID = id
	c.lastUpdate = req
	return c.slots[id], nil
}

func (c *fakeClient) TransitionSlot(ctx context.Context, id string, tr Transition) (Slot, error) {
	c.lastTransition = tr
	s := c.slots[id]
	next, _ := Apply(s.Status, tr, user.AllRoles)
	s.Status = next
	c.slots[id] = s
	return s, nil
}

var (
	student = user.User{Name: "Mosi", Username: "mosi", Roles: []string{user.RoleStudent}}
	instructor = user.User{Name: "Prof. Kanku", Username: "kanku", Roles: []string{user.RoleInstructor}}
	admin   = user.User{Name: "Root", Username: "root", Roles: []string{user.RoleAdminSuper}}
)

func editValues() Values {
	return Values{
		ReviewNumber: "3",
		Date:         "2025-12-16",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Room:         "202",
		MeetingLink:  "https://zoom.us/j/456",
		Comments:     "new",
	}
}

// An edit of a slot with no academic fields at all: the wire request must
// carry the changed fields and must not contain academic keys.
func TestServiceEditNoAcademics(t *testing.T) {
	client := &fakeClient{slots: map[string]Slot{
		"456": {
			ID: "456", ReviewNumber: 3, Date: "2025-12-16",
			StartTime: "10:00", EndTime: "11:00", TimeRange: "10:00 - 11:00",
			Room: 202, MeetingLink: "https://zoom.us/j/456", Comments: "old",
			Status: StatusAvailable,
		},
	}}
	svc := NewService(client, nil, nil)

	if _, err := svc.Edit(context.Background(), "456", editValues(), instructor); err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}

	req := client.lastUpdate
	if req["comments"] != "new" {
		t.Errorf("wire comments = %v; want new", req["comments"])
	}
	if req["sala"] != 202 {
		t.Errorf("wire sala = %v; want 202", req["sala"])
	}
	for _, key := range []string{"title", "modulo", "description", "estado"} {
		if _, ok := req[key]; ok {
			t.Errorf("wire request must not contain %q, got %v", key, req[key])
		}
	}
}

// The historical regression scenario: the user cleared the title field in a
// form that still rendered it; the stored title must survive.
func TestServiceEditClearedTitleSurvives(t *testing.T) {
	client := &fakeClient{slots: map[string]Slot{
		"456": {
			ID: "456", ReviewNumber: 3, Date: "2025-12-16",
			StartTime: "10:00", EndTime: "11:00", TimeRange: "10:00 - 11:00",
			Room: 202, Comments: "old", Status: StatusAvailable,
			Title: null.StringFrom("Sprint Review"),
		},
	}}
	svc := NewService(client, nil, nil)

	vals := editValues()
	vals.Title = "" // cleared by mistake
	if _, err := svc.Edit(context.Background(), "456", vals, instructor); err != nil {
		t.Fatalf("Edit() failed: %v", err)
	}
	if got := client.lastUpdate["title"]; got != "Sprint Review" {
		t.Errorf("wire title = %v; want Sprint Review", got)
	}
}

func TestServiceEditMissingPrior(t *testing.T) {
	svc := NewService(&fakeClient{slots: map[string]Slot{}}, nil, nil)

	if _, err := svc.Edit(context.Background(), "ghost", editValues(), instructor); err != ErrMissingPrior {
		t.Errorf("Edit() error = %v; want ErrMissingPrior", err)
	}
}

func TestServiceEditInvalidForm(t *testing.T) {
	svc := NewService(&fakeClient{}, nil, nil)

	vals := editValues()
	vals.EndTime = "09:00"
	if _, err := svc.Edit(context.Background(), "456", vals, instructor); err == nil {
		t.Error("Edit() with end before start should fail validation")
	}
}

func TestServiceCreate(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil, nil)

	vals := editValues()
	if _, err := svc.Create(context.Background(), vals, instructor); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	req := client.lastCreate
	// creation always carries academic defaults and the initial estado
	if req["title"] != DefaultTitle || req["modulo"] != DefaultModule || req["description"] != DefaultDescription {
		t.Errorf("create wire academics = %v, %v, %v", req["title"], req["modulo"], req["description"])
	}
	if req["estado"] != string(StatusAvailable) {
		t.Errorf("create wire estado = %v; want available", req["estado"])
	}
	if req["createdBy"] != "Prof. Kanku" {
		t.Errorf("create wire createdBy = %v", req["createdBy"])
	}
}

func TestServiceRequestLifecycle(t *testing.T) {
	newClient := func(status Status, requestedBy string) *fakeClient {
		s := Slot{ID: "456", Status: status}
		if requestedBy != "" {
			s.RequestedBy = null.StringFrom(requestedBy)
		}
		return &fakeClient{slots: map[string]Slot{"456": s}}
	}
	ctx := context.Background()

	t.Run("student requests available slot", func(t *testing.T) {
		svc := NewService(newClient(StatusAvailable, ""), nil, nil)
		s, err := svc.Request(ctx, "456", student)
		if err != nil {
			t.Fatalf("Request() failed: %v", err)
		}
		if s.Status != StatusRequested {
			t.Errorf("Request() status = %v", s.Status)
		}
	})

	t.Run("instructor cannot request", func(t *testing.T) {
		svc := NewService(newClient(StatusAvailable, ""), nil, nil)
		_, err := svc.Request(ctx, "456", instructor)
		var invalidErr *InvalidTransitionError
		if !errors.As(err, &invalidErr) {
			t.Errorf("Request() error = %v; want *InvalidTransitionError", err)
		}
	})

	t.Run("requester cancels", func(t *testing.T) {
		svc := NewService(newClient(StatusRequested, "mosi"), nil, nil)
		s, err := svc.CancelRequest(ctx, "456", student)
		if err != nil {
			t.Fatalf("CancelRequest() failed: %v", err)
		}
		if s.Status != StatusAvailable {
			t.Errorf("CancelRequest() status = %v", s.Status)
		}
	})

	t.Run("another student cannot cancel", func(t *testing.T) {
		svc := NewService(newClient(StatusRequested, "someone-else"), nil, nil)
		if _, err := svc.CancelRequest(ctx, "456", student); err != ErrNotRequester {
			t.Errorf("CancelRequest() error = %v; want ErrNotRequester", err)
		}
	})

	t.Run("admin cancels on behalf", func(t *testing.T) {
		svc := NewService(newClient(StatusRequested, "mosi"), nil, nil)
		if _, err := svc.CancelRequest(ctx, "456", admin); err != nil {
			t.Errorf("CancelRequest() failed: %v", err)
		}
	})

	t.Run("instructor approves", func(t *testing.T) {
		client := newClient(StatusRequested, "mosi")
		svc := NewService(client, nil, nil)
		s, err := svc.Approve(ctx, "456", instructor)
		if err != nil {
			t.Fatalf("Approve() failed: %v", err)
		}
		if s.Status != StatusApproved {
			t.Errorf("Approve() status = %v", s.Status)
		}
		// requester reference is retained for audit
		if s.RequestedBy.String != "mosi" {
			t.Errorf("Approve() requestedBy = %v; want mosi", s.RequestedBy)
		}
	})

	t.Run("approved slot is terminal", func(t *testing.T) {
		svc := NewService(newClient(StatusApproved, "mosi"), nil, nil)
		if _, err := svc.Request(ctx, "456", student); err == nil {
			t.Error("Request() on approved slot should fail")
		}
	})

	t.Run("student cannot approve", func(t *testing.T) {
		svc := NewService(newClient(StatusRequested, "mosi"), nil, nil)
		if _, err := svc.Approve(ctx, "456", student); err == nil {
			t.Error("Approve() by student should fail")
		}
	})
}
