package slot

import (
	"reflect"
	"testing"

	"github.com/volatiletech/null/v8"
)

func TestSanitize(t *testing.T) {
	req := WireRequest{
		"comments":    "new",
		"sala":        202,
		"meetingLink": "",
		"requestedBy": nil,
		"title":       null.String{},               // absent
		"modulo":      null.StringFrom(""),         // present but blank
		"description": null.StringFrom("second demo"), // kept, unwrapped
		"reviewNumber": 0,
	}

	got := Sanitize(req)
	want := WireRequest{
		"comments":     "new",
		"sala":         202,
		"description":  "second demo",
		"reviewNumber": 0, // numbers are never stripped, only empty strings and nulls
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize() = %v; want %v", got, want)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	req := WireRequest{
		"comments": "new",
		"sala":     202,
		"title":    null.StringFrom("Sprint Review"),
		"modulo":   null.String{},
		"date":     "",
	}
	once := Sanitize(req)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Sanitize() not idempotent: %v != %v", once, twice)
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	req := WireRequest{"comments": "", "sala": 202}
	_ = Sanitize(req)
	if _, ok := req["comments"]; !ok {
		t.Error("Sanitize() mutated its input")
	}
}
