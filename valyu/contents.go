package valyu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
)

const (
	maxContentsURLs          = 10
	maxSummaryInstructionLen = 500
)

// Summary is the closed set of ways the contents endpoint can post-process
// extracted pages: left nil it is absent; SummaryFlag toggles the default
// summary; SummaryInstruction passes free-text guidance; SummarySchema
// requests structured extraction against a JSON schema.
type Summary interface {
	summaryValue() (any, error)
}

// SummaryFlag enables or explicitly disables AI summarization.
type SummaryFlag bool

func (f SummaryFlag) summaryValue() (any, error) {
	return bool(f), nil
}

// SummaryInstruction is a free-text summarization instruction, at most 500
// characters.
type SummaryInstruction string

func (s SummaryInstruction) summaryValue() (any, error) {
	if utf8.RuneCountInString(string(s)) > maxSummaryInstructionLen {
		return nil, newValidationError("summary", "instruction exceeds %d characters", maxSummaryInstructionLen)
	}
	if s == "" {
		return nil, newValidationError("summary", "instruction must not be empty")
	}
	return string(s), nil
}

// SummarySchema is a JSON schema object for structured extraction.
type SummarySchema map[string]any

func (s SummarySchema) summaryValue() (any, error) {
	if len(s) == 0 {
		return nil, newValidationError("summary", "schema must not be empty")
	}
	return map[string]any(s), nil
}

// SummarySchemaFor reflects a JSON schema from the Go type T, so structured
// extraction targets can be declared as ordinary structs with jsonschema
// tags.
func SummarySchemaFor[T any]() (SummarySchema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(&v)
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("reflect summary schema: %w", err)
	}
	var out SummarySchema
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("reflect summary schema: %w", err)
	}
	return out, nil
}

// ContentsOptions is the optional configuration for Contents. The zero
// value of every field means "use the server default".
type ContentsOptions struct {
	// Summary selects the post-processing mode; nil requests none.
	Summary Summary
	// ExtractEffort is the requested extraction thoroughness.
	ExtractEffort ExtractEffort
	// ResponseLength bounds per-URL content length. Keywords map to fixed
	// character budgets: short=25000, medium=50000, large=100000, max is
	// unbounded.
	ResponseLength ResponseLength
	// MaxPriceDollars caps the total cost of the call, in dollars.
	MaxPriceDollars *float64
}

type contentsRequest struct {
	URLs            []string        `json:"urls" validate:"required,min=1,max=10,dive,http_url"`
	Summary         any             `json:"summary,omitempty"`
	ExtractEffort   ExtractEffort   `json:"extract_effort,omitempty" validate:"omitempty,oneof=normal high auto"`
	ResponseLength  *ResponseLength `json:"response_length,omitempty"`
	MaxPriceDollars *float64        `json:"max_price_dollars,omitempty" validate:"omitempty,gte=0"`
}

// ContentsResult is the extraction outcome for one URL.
type ContentsResult struct {
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Content        Content           `json:"content"`
	Length         int               `json:"length"`
	Source         string            `json:"source"`
	Summary        *Content          `json:"summary,omitempty"`
	SummarySuccess *bool             `json:"summary_success,omitempty"`
	DataType       DataType          `json:"data_type,omitempty"`
	ImageURL       map[string]string `json:"image_url,omitempty"`
	Citation       string            `json:"citation,omitempty"`
}

// ContentsResponse aggregates per-URL extraction results. Individual URL
// failures are reported through URLsFailed while Success stays true for
// the call as a whole.
type ContentsResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error,omitempty"`
	TxID             string           `json:"tx_id"`
	URLsRequested    int              `json:"urls_requested"`
	URLsProcessed    int              `json:"urls_processed"`
	URLsFailed       int              `json:"urls_failed"`
	Results          []ContentsResult `json:"results"`
	TotalCostDollars float64          `json:"total_cost_dollars"`
	TotalCharacters  int              `json:"total_characters"`
}

// Contents extracts content from up to 10 URLs in a single call. An 11th
// URL, a malformed URL or an oversized summary instruction fails locally
// with a *ValidationError before any network traffic; remote problems are
// reported through the returned ContentsResponse with Success=false.
func (c *Client) Contents(ctx context.Context, urls []string, opts *ContentsOptions) (*ContentsResponse, error) {
	req, err := c.buildContentsRequest(urls, opts)
	if err != nil {
		return nil, err
	}

	var resp ContentsResponse
	if err := c.postJSON(ctx, "/contents", req, &resp); err != nil {
		return failedContentsResponse(len(urls), err), nil
	}
	if !resp.Success && resp.Error == "" {
		resp.Error = "contents extraction failed without a server-reported reason"
	}
	return &resp, nil
}

func (c *Client) buildContentsRequest(urls []string, opts *ContentsOptions) (*contentsRequest, error) {
	if opts == nil {
		opts = &ContentsOptions{}
	}
	if len(urls) == 0 {
		return nil, newValidationError("urls", "must not be empty")
	}
	if len(urls) > maxContentsURLs {
		return nil, newValidationError("urls", "at most %d URLs per call, got %d", maxContentsURLs, len(urls))
	}

	req := &contentsRequest{
		URLs:            urls,
		ExtractEffort:   opts.ExtractEffort,
		MaxPriceDollars: opts.MaxPriceDollars,
	}
	if opts.Summary != nil {
		value, err := opts.Summary.summaryValue()
		if err != nil {
			return nil, err
		}
		req.Summary = value
	}
	if !opts.ResponseLength.IsZero() {
		if err := opts.ResponseLength.validate(); err != nil {
			return nil, err
		}
		length := opts.ResponseLength
		req.ResponseLength = &length
	}

	if err := c.validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func failedContentsResponse(requested int, err error) *ContentsResponse {
	resp := &ContentsResponse{
		Success:       false,
		Error:         err.Error(),
		URLsRequested: requested,
		Results:       []ContentsResult{},
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		resp.Error = apiErr.Message
		resp.TxID = apiErr.TxID
	}
	return resp
}
