package slot

import "github.com/volatiletech/null/v8"

// WireRequest is the JSON body of an outbound slot store request.
type WireRequest map[string]interface{}

// Sanitize strips every key whose value would serialize to empty: "", nil,
// or an unset/blank null.String. The store's validator treats an explicitly
// present-but-empty optional field as a failure distinct from an absent one;
// sending "absent" lets the store apply its own defaulting instead.
//
// Sanitize is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(req WireRequest) WireRequest {
	out := make(WireRequest, len(req))
	for key, val := range req {
		switch v := val.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case null.String:
			if !v.Valid || v.String == "" {
				continue
			}
			val = v.String
		}
		out[key] = val
	}
	return out
}
