package slotstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tmukandila/ratiba/core"
	"github.com/tmukandila/ratiba/core/slot"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(core.SlotStoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return client, srv
}

func TestGetSlotAliasDecoding(t *testing.T) {
	tests := []struct {
		name string
		body string
		want slot.Slot
	}{
		{
			name: "legacy keys",
			body: `{"id":"11","reviewNumber":3,"fecha":"2026-09-01","horario":"10:00 - 11:00",` +
				`"sala":"305","estado":"solicitado","solicitante":"mwamba","titulo":"Sprint Review","modulo":"Databases"}`,
			want: slot.Slot{
				ID: "11", ReviewNumber: 3, Date: "2026-09-01", TimeRange: "10:00 - 11:00",
				Room: 305, Status: slot.StatusRequested,
				RequestedBy: nullStr("mwamba"), Title: nullStr("Sprint Review"), Module: nullStr("Databases"),
			},
		},
		{
			name: "english keys",
			body: `{"id":"12","reviewNumber":"4","date":"2026-09-02","startTime":"14:00","endTime":"15:00",` +
				`"room":210,"status":"Available","title":"","description":null}`,
			want: slot.Slot{
				ID: "12", ReviewNumber: 4, Date: "2026-09-02", StartTime: "14:00", EndTime: "15:00",
				Room: 210, Status: slot.StatusAvailable,
				Title: nullStr(""), // present but blank stays set
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/slots/"+tt.want.ID {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.GetSlot(context.Background(), tt.want.ID)
			if err != nil {
				t.Fatalf("GetSlot() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetSlot() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestGetSlotAbsentAcademicsStayUnset(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"9","estado":"available"}`))
	})

	got, err := client.GetSlot(context.Background(), "9")
	if err != nil {
		t.Fatalf("GetSlot() error = %v", err)
	}
	if got.Title.Valid || got.Module.Valid || got.Description.Valid {
		t.Errorf("absent academic fields decoded as set: %+v", got)
	}
}

func TestCreateSlotSendsBody(t *testing.T) {
	var received map[string]interface{}
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/slots" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"42","estado":"available"}`))
	})

	got, err := client.CreateSlot(context.Background(), slot.WireRequest{"sala": 101, "estado": "available"})
	if err != nil {
		t.Fatalf("CreateSlot() error = %v", err)
	}
	if got.ID != "42" {
		t.Errorf("ID = %q; want 42", got.ID)
	}
	if received["sala"] != float64(101) || received["estado"] != "available" {
		t.Errorf("request body = %v", received)
	}
}

func TestTransitionSlotPath(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/slots/7/approve" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"7","estado":"aprobado"}`))
	})

	got, err := client.TransitionSlot(context.Background(), "7", slot.TransitionApprove)
	if err != nil {
		t.Fatalf("TransitionSlot() error = %v", err)
	}
	if got.Status != slot.StatusApproved {
		t.Errorf("Status = %q; want approved", got.Status)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.GetSlot(context.Background(), "missing")
		if errors.Cause(err) != slot.ErrNotFound {
			t.Errorf("error = %v; want ErrNotFound", err)
		}
	})

	t.Run("field validation", func(t *testing.T) {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"invalid slot","errors":{"sala":"room is taken"}}`))
		})
		_, err := client.UpdateSlot(context.Background(), "1", slot.WireRequest{"sala": 1})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v; want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "sala" {
			t.Errorf("Fields = %+v", vErr.Fields)
		}
	})

	t.Run("server failure", func(t *testing.T) {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.QuerySlots(context.Background())
		var rErr *slot.RemoteError
		if !errors.As(err, &rErr) {
			t.Fatalf("error = %v; want *slot.RemoteError", err)
		}
	})

	t.Run("unreachable store", func(t *testing.T) {
		client, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()
		_, err := client.QuerySlots(context.Background())
		var rErr *slot.RemoteError
		if !errors.As(err, &rErr) {
			t.Fatalf("error = %v; want *slot.RemoteError", err)
		}
	})
}

func nullStr(s string) null.String { return null.StringFrom(s) }
