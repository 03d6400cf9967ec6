// Package valyu is the Go client for the Valyu search and content
// extraction API. It translates typed method calls into authenticated HTTP
// requests and maps JSON responses back into typed result objects.
//
// Remote failures (network errors, timeouts, non-2xx statuses, API-level
// business errors) are never surfaced as Go errors: they come back as a
// response object with Success=false and a descriptive Error. Only local
// parameter validation fails with a Go error, before any network call.
package valyu

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchType selects the search scope.
type SearchType string

const (
	SearchTypeAll         SearchType = "all"
	SearchTypeWeb         SearchType = "web"
	SearchTypeProprietary SearchType = "proprietary"
)

// DataType tags a result's content as plain text or structured JSON.
type DataType string

const (
	DataTypeStructured   DataType = "structured"
	DataTypeUnstructured DataType = "unstructured"
)

// ExtractEffort is the requested thoroughness level for content extraction.
type ExtractEffort string

const (
	ExtractEffortNormal ExtractEffort = "normal"
	ExtractEffortHigh   ExtractEffort = "high"
	ExtractEffortAuto   ExtractEffort = "auto"
)

// ResponseLength controls how much content the API returns per result. It
// is either a keyword (short, medium, large, max) or an exact character
// count. The zero value means "not set" and is omitted from requests.
type ResponseLength struct {
	keyword string
	chars   int
}

var (
	ResponseLengthShort  = ResponseLength{keyword: "short"}
	ResponseLengthMedium = ResponseLength{keyword: "medium"}
	ResponseLengthLarge  = ResponseLength{keyword: "large"}
	ResponseLengthMax    = ResponseLength{keyword: "max"}
)

// ResponseLengthChars requests an exact character count per result.
func ResponseLengthChars(n int) ResponseLength {
	return ResponseLength{chars: n}
}

// IsZero reports whether the length was left unset.
func (l ResponseLength) IsZero() bool {
	return l.keyword == "" && l.chars == 0
}

// CharLimit returns the character budget the length maps to for the
// contents endpoint: short=25000, medium=50000, large=100000. The second
// return is false for "max" (unbounded) and for the zero value.
func (l ResponseLength) CharLimit() (int, bool) {
	switch l.keyword {
	case "short":
		return 25000, true
	case "medium":
		return 50000, true
	case "large":
		return 100000, true
	case "max", "":
		if l.chars > 0 {
			return l.chars, true
		}
		return 0, false
	}
	return 0, false
}

func (l ResponseLength) validate() error {
	if l.IsZero() {
		return nil
	}
	if l.keyword != "" {
		switch l.keyword {
		case "short", "medium", "large", "max":
			return nil
		}
		return newValidationError("response_length", "unknown keyword %q", l.keyword)
	}
	if l.chars <= 0 {
		return newValidationError("response_length", "character count must be positive, got %d", l.chars)
	}
	return nil
}

func (l ResponseLength) MarshalJSON() ([]byte, error) {
	if l.keyword != "" {
		return json.Marshal(l.keyword)
	}
	return json.Marshal(l.chars)
}

func (l *ResponseLength) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ResponseLength{keyword: s}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("response_length must be a string or integer: %w", err)
	}
	*l = ResponseLength{chars: n}
	return nil
}

func (l ResponseLength) String() string {
	if l.keyword != "" {
		return l.keyword
	}
	return fmt.Sprintf("%d", l.chars)
}

// Content holds a payload that the API returns either as plain text or as
// structured JSON (objects, arrays, numbers). Raw is non-nil only for the
// structured case.
type Content struct {
	Text string
	Raw  json.RawMessage
}

// IsStructured reports whether the payload was structured JSON rather than
// plain text.
func (c Content) IsStructured() bool {
	return c.Raw != nil
}

func (c Content) String() string {
	if c.Raw != nil {
		return string(c.Raw)
	}
	return c.Text
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &c.Text)
	}
	c.Raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Raw != nil {
		return c.Raw, nil
	}
	return json.Marshal(c.Text)
}

// Ptr returns a pointer to v. It keeps optional numeric and boolean fields
// in option structs terse to fill in.
func Ptr[T any](v T) *T {
	return &v
}
