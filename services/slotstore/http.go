package slotstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tmukandila/ratiba/core"
	"github.com/tmukandila/ratiba/core/slot"
)

// Client talks to the remote panel API holding the slots. The API is a legacy
// service with partially localized JSON keys (estado/status, sala/room,
// modulo/module...); decoding tolerates both spellings.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ slot.Client = (*Client)(nil)

func NewClient(conf core.SlotStoreConfig, httpClient ...*http.Client) *Client {
	hc := &http.Client{Timeout: conf.Timeout}
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &Client{
		baseURL:    strings.TrimRight(conf.BaseURL, "/"),
		httpClient: hc,
	}
}

func (c *Client) QuerySlots(ctx context.Context) ([]slot.Slot, error) {
	var raw []map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/slots", nil, &raw); err != nil {
		return nil, err
	}
	slots := make([]slot.Slot, 0, len(raw))
	for _, r := range raw {
		slots = append(slots, decodeSlot(r))
	}
	return slots, nil
}

func (c *Client) GetSlot(ctx context.Context, id string) (slot.Slot, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/slots/"+id, nil, &raw); err != nil {
		return slot.Slot{}, err
	}
	return decodeSlot(raw), nil
}

func (c *Client) CreateSlot(ctx context.Context, req slot.WireRequest) (slot.Slot, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/slots", req, &raw); err != nil {
		return slot.Slot{}, err
	}
	return decodeSlot(raw), nil
}

func (c *Client) UpdateSlot(ctx context.Context, id string, req slot.WireRequest) (slot.Slot, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, http.MethodPut, "/slots/"+id, req, &raw); err != nil {
		return slot.Slot{}, err
	}
	return decodeSlot(raw), nil
}

func (c *Client) TransitionSlot(ctx context.Context, id string, tr slot.Transition) (slot.Slot, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/slots/%s/%s", id, tr), nil, &raw); err != nil {
		return slot.Slot{}, err
	}
	return decodeSlot(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, body slot.WireRequest, out interface{}) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &slot.RemoteError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &slot.RemoteError{Op: method + " " + path, Err: errors.Wrap(err, "decoding response")}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return slot.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return decodeValidationError(resp)
	default:
		return &slot.RemoteError{
			Op:  method + " " + path,
			Err: fmt.Errorf("unexpected status: %d", resp.StatusCode),
		}
	}
}

// decodeValidationError surfaces the store's per-field rejections so the edit
// form can highlight the exact offending inputs.
func decodeValidationError(resp *http.Response) error {
	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.NewValidationError(errors.New(http.StatusText(resp.StatusCode)))
	}

	flds := make([]core.FieldError, 0, len(body.Errors))
	for field, msg := range body.Errors {
		flds = append(flds, core.FieldError{Field: field, Error: msg})
	}
	if body.Error == "" {
		body.Error = "the slot store rejected the request"
	}
	return core.NewValidationError(errors.New(body.Error), flds...)
}

// decodeSlot maps a raw store object - whatever key dialect it uses - to the
// canonical slot entity.
func decodeSlot(raw map[string]interface{}) slot.Slot {
	s := slot.Slot{
		ID:           pickString(raw, "id", "_id"),
		ReviewNumber: pickInt(raw, "reviewNumber", "revision"),
		Date:         pickString(raw, "date", "fecha"),
		StartTime:    pickString(raw, "startTime", "horaInicio"),
		EndTime:      pickString(raw, "endTime", "horaFin"),
		TimeRange:    pickString(raw, "timeRange", "horario"),
		Room:         pickInt(raw, "sala", "room"),
		MeetingLink:  pickString(raw, "meetingLink", "enlace"),
		Comments:     pickString(raw, "comments", "comentarios"),
		Status:       normalizeStatus(pickString(raw, "estado", "status", "state")),
		RequestedBy:  pickNull(raw, "requestedBy", "solicitante"),
		Title:        pickNull(raw, "title", "titulo"),
		Module:       pickNull(raw, "modulo", "moduleLabel", "module"),
		Description:  pickNull(raw, "description", "descripcion"),
	}
	return s
}

var statusAliases = map[string]slot.Status{
	"available":  slot.StatusAvailable,
	"disponible": slot.StatusAvailable,
	"requested":  slot.StatusRequested,
	"solicitado": slot.StatusRequested,
	"approved":   slot.StatusApproved,
	"aprobado":   slot.StatusApproved,
	"rejected":   slot.StatusRejected,
	"rechazado":  slot.StatusRejected,
}

func normalizeStatus(raw string) slot.Status {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return st
	}
	return slot.Status(strings.ToLower(strings.TrimSpace(raw)))
}

// first present key wins; numbers are stringified
func pickString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// rooms come back as numbers or numeric strings depending on the endpoint
func pickInt(raw map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// pickNull keeps the absent/blank distinction: a missing or null key decodes
// to an unset null.String, a present key - even an empty one - to a set one.
func pickNull(raw map[string]interface{}, keys ...string) null.String {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok || val == nil {
			continue
		}
		if v, ok := val.(string); ok {
			return null.StringFrom(v)
		}
	}
	return null.String{}
}
