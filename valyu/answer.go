package valyu

import (
	"context"
	"errors"
)

// AnswerOptions configures the answer endpoint, which runs a search and
// synthesizes an AI answer over the results server-side.
type AnswerOptions struct {
	// StructuredOutput is a JSON schema; when set, Contents in the
	// response is structured to it instead of free text.
	StructuredOutput map[string]any
	// SystemInstructions customizes the answering model, at most 2000
	// characters.
	SystemInstructions string
	// SearchType selects the scope: all, web or proprietary.
	SearchType SearchType
	// DataMaxPrice caps data retrieval spend in dollars, separate from AI
	// costs. Defaults to 30.
	DataMaxPrice *float64
	// FastMode trades completeness for latency.
	FastMode bool
	// CountryCode biases results to a 2-letter ISO country, or "ALL".
	CountryCode string
	// IncludedSources and ExcludedSources filter by domain or URL.
	IncludedSources []string
	ExcludedSources []string
	// StartDate and EndDate bound result publication dates, YYYY-MM-DD.
	StartDate string
	EndDate   string
}

type answerRequest struct {
	Query              string         `json:"query" validate:"required"`
	StructuredOutput   map[string]any `json:"structured_output,omitempty"`
	SystemInstructions string         `json:"system_instructions,omitempty" validate:"omitempty,max=2000"`
	SearchType         SearchType     `json:"search_type" validate:"oneof=all web proprietary"`
	DataMaxPrice       float64        `json:"data_max_price" validate:"gt=0"`
	FastMode           bool           `json:"fast_mode,omitempty"`
	CountryCode        string         `json:"country_code,omitempty" validate:"omitempty,country_code"`
	IncludedSources    []string       `json:"included_sources,omitempty" validate:"omitempty,dive,source_format"`
	ExcludedSources    []string       `json:"excluded_sources,omitempty" validate:"omitempty,dive,source_format"`
	StartDate          string         `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate            string         `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SearchMetadata summarizes the search operations behind an answer.
type SearchMetadata struct {
	TxIDs           []string `json:"tx_ids"`
	NumberOfResults int      `json:"number_of_results"`
	TotalCharacters int      `json:"total_characters"`
}

// AIUsage reports the token usage of the answering model.
type AIUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// CostBreakdown splits an answer's cost into data and AI components.
type CostBreakdown struct {
	TotalDeductionDollars  float64 `json:"total_deduction_dollars"`
	SearchDeductionDollars float64 `json:"search_deduction_dollars"`
	AIDeductionDollars     float64 `json:"ai_deduction_dollars"`
}

// AnswerResponse is the outcome of an Answer call. Contents is free text
// unless StructuredOutput was requested, in which case it is structured
// JSON.
type AnswerResponse struct {
	Success        bool           `json:"success"`
	Error          string         `json:"error,omitempty"`
	AITxID         string         `json:"ai_tx_id"`
	OriginalQuery  string         `json:"original_query"`
	Contents       Content        `json:"contents"`
	DataType       DataType       `json:"data_type"`
	SearchResults  []SearchResult `json:"search_results"`
	SearchMetadata SearchMetadata `json:"search_metadata"`
	AIUsage        AIUsage        `json:"ai_usage"`
	Cost           CostBreakdown  `json:"cost"`
}

// Answer runs a search and synthesizes an answer over the results in one
// call. Same two-tier error discipline as Search.
func (c *Client) Answer(ctx context.Context, query string, opts *AnswerOptions) (*AnswerResponse, error) {
	if opts == nil {
		opts = &AnswerOptions{}
	}
	if query == "" {
		return nil, newValidationError("query", "must not be empty")
	}

	req := &answerRequest{
		Query:              query,
		StructuredOutput:   opts.StructuredOutput,
		SystemInstructions: opts.SystemInstructions,
		SearchType:         opts.SearchType,
		DataMaxPrice:       30,
		FastMode:           opts.FastMode,
		CountryCode:        normalizeCountryCode(opts.CountryCode),
		IncludedSources:    opts.IncludedSources,
		ExcludedSources:    opts.ExcludedSources,
		StartDate:          opts.StartDate,
		EndDate:            opts.EndDate,
	}
	if req.SearchType == "" {
		req.SearchType = SearchTypeAll
	}
	if opts.DataMaxPrice != nil {
		req.DataMaxPrice = *opts.DataMaxPrice
	}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	var resp AnswerResponse
	if err := c.postJSON(ctx, "/answer", req, &resp); err != nil {
		return failedAnswerResponse(query, err), nil
	}
	return &resp, nil
}

func failedAnswerResponse(query string, err error) *AnswerResponse {
	resp := &AnswerResponse{
		Success:       false,
		Error:         err.Error(),
		OriginalQuery: query,
		SearchResults: []SearchResult{},
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		resp.Error = apiErr.Message
		resp.AITxID = apiErr.TxID
	}
	return resp
}
