package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// FlexString accepts either a JSON string or a JSON number and keeps its
// text. Numeric fields sent by form-driven clients arrive as strings.
type FlexString struct {
	Value string
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = FlexString{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString{Value: s, Set: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected number or string, got %s", data)
		}
		*f = FlexString{Value: n.String(), Set: true}
		return nil
	}
}

// String returns the raw text, empty when unset.
func (f FlexString) String() string {
	return f.Value
}

// Ptr returns nil when the value was absent or null.
func (f *FlexString) Ptr() *string {
	if f == nil || !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// Truthy reports whether a raw JSON value counts as supplied: anything other
// than absent, null, false, a numeric zero or an empty string.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if f, err := n.Float64(); err == nil && f == 0 {
				return false
			}
		}
	}
	return true
}

// Decode unmarshals a JSON request body into v and reports malformed input
// as a validation error.
func Decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.NewValidationError("request body is required", nil)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"error": err.Error()})
	}
	return nil
}

// decodePatch strips protected keys, rejects keys outside allowed and
// decodes the rest into v.
func decodePatch(body []byte, protected, allowed []string, v any) error {
	var raw map[string]json.RawMessage
	if err := Decode(body, &raw); err != nil {
		return err
	}
	for _, key := range protected {
		delete(raw, key)
	}

	allow := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		allow[key] = struct{}{}
	}
	var unknown []string
	for key := range raw {
		if _, ok := allow[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.NewValidationError("unknown fields: "+strings.Join(unknown, ", "),
			map[string]any{"fields": unknown, "allowed": allowed})
	}

	cleaned, err := json.Marshal(raw)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := json.Unmarshal(cleaned, v); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"error": err.Error()})
	}
	return nil
}
