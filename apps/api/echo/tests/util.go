package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/tmukandila/ratiba/apps/api/echo"
	"github.com/tmukandila/ratiba/core/slot"
	"github.com/tmukandila/ratiba/core/user"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeSlotClient is an in-memory slot.Client; transitions flip statuses the
// way the real store does so handler tests can walk the whole lifecycle.
type fakeSlotClient struct {
	mu      sync.Mutex
	pk      int
	slots   map[string]slot.Slot
	updates map[string]slot.WireRequest
}

var _ slot.Client = (*fakeSlotClient)(nil)

func newFakeSlotClient() *fakeSlotClient {
	return &fakeSlotClient{
		slots:   make(map[string]slot.Slot),
		updates: make(map[string]slot.WireRequest),
	}
}

func (c *fakeSlotClient) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = make(map[string]slot.Slot)
	c.updates = make(map[string]slot.WireRequest)
}

func (c *fakeSlotClient) add(s slot.Slot) slot.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.ID == "" {
		c.pk++
		s.ID = strconv.Itoa(c.pk)
	}
	c.slots[s.ID] = s
	return s
}

func (c *fakeSlotClient) lastUpdate(id string) slot.WireRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[id]
}

func (c *fakeSlotClient) QuerySlots(context.Context) ([]slot.Slot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots := make([]slot.Slot, 0, len(c.slots))
	for _, s := range c.slots {
		slots = append(slots, s)
	}
	return slots, nil
}

func (c *fakeSlotClient) GetSlot(_ context.Context, id string) (slot.Slot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[id]
	if !ok {
		return slot.Slot{}, slot.ErrNotFound
	}
	return s, nil
}

func (c *fakeSlotClient) CreateSlot(_ context.Context, req slot.WireRequest) (slot.Slot, error) {
	s := decodeWire(req)
	return c.add(s), nil
}

func (c *fakeSlotClient) UpdateSlot(_ context.Context, id string, req slot.WireRequest) (slot.Slot, error) {
	c.mu.Lock()
	s, ok := c.slots[id]
	c.mu.Unlock()
	if !ok {
		return slot.Slot{}, slot.ErrNotFound
	}

	upd := decodeWire(req)
	upd.ID = s.ID
	upd.Status = s.Status
	upd.RequestedBy = s.RequestedBy
	if !upd.Title.Valid {
		upd.Title = s.Title
	}
	if !upd.Module.Valid {
		upd.Module = s.Module
	}
	if !upd.Description.Valid {
		upd.Description = s.Description
	}

	c.mu.Lock()
	c.slots[id] = upd
	c.updates[id] = req
	c.mu.Unlock()
	return upd, nil
}

func (c *fakeSlotClient) TransitionSlot(_ context.Context, id string, tr slot.Transition) (slot.Slot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[id]
	if !ok {
		return slot.Slot{}, slot.ErrNotFound
	}
	switch tr {
	case slot.TransitionRequest:
		s.Status = slot.StatusRequested
	case slot.TransitionCancel:
		s.Status = slot.StatusAvailable
		s.RequestedBy.Valid = false
		s.RequestedBy.String = ""
	case slot.TransitionApprove:
		s.Status = slot.StatusApproved
	case slot.TransitionReject:
		s.Status = slot.StatusRejected
	}
	c.slots[id] = s
	return s, nil
}

func decodeWire(req slot.WireRequest) slot.Slot {
	var s slot.Slot
	data, _ := json.Marshal(req)
	_ = json.Unmarshal(data, &s)
	return s
}
