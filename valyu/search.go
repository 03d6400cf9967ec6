package valyu

import (
	"context"
	"errors"
)

const (
	defaultMaxNumResults = 10

	maxResultsCeiling = 20
)

// SearchOptions is the optional filter bundle for Search. The zero value
// of every field means "use the server default".
type SearchOptions struct {
	// SearchType selects the scope: all, web or proprietary. Defaults to
	// all.
	SearchType SearchType
	// MaxNumResults caps the number of results, between 1 and 20.
	// Defaults to 10.
	MaxNumResults int
	// RelevanceThreshold drops results scoring below it, in [0,1].
	RelevanceThreshold *float64
	// MaxPrice is the spend ceiling in CPM (cost per thousand queries).
	MaxPrice *float64
	// IsToolCall marks the request as issued by an AI tool call rather
	// than a human.
	IsToolCall *bool
	// FastMode trades completeness for latency.
	FastMode bool
	// IncludedSources restricts the search to specific domains, URLs or
	// provider/dataset names.
	IncludedSources []string
	// ExcludedSources removes specific domains, URLs or provider/dataset
	// names from the search.
	ExcludedSources []string
	// CountryCode biases web results to a 2-letter ISO country, or "ALL".
	CountryCode string
	// StartDate and EndDate bound result publication dates, YYYY-MM-DD.
	StartDate string
	EndDate   string
	// Category is a natural-language guide phrase for the ranker. Opaque
	// to the client; the server defines the useful values.
	Category string
	// ResponseLength bounds per-result content length.
	ResponseLength ResponseLength
}

type searchRequest struct {
	Query              string          `json:"query" validate:"required"`
	SearchType         SearchType      `json:"search_type" validate:"oneof=all web proprietary"`
	MaxNumResults      int             `json:"max_num_results" validate:"gte=1,lte=20"`
	IsToolCall         *bool           `json:"is_tool_call,omitempty"`
	RelevanceThreshold *float64        `json:"relevance_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxPrice           *float64        `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	FastMode           bool            `json:"fast_mode,omitempty"`
	IncludedSources    []string        `json:"included_sources,omitempty" validate:"omitempty,dive,source_format"`
	ExcludedSources    []string        `json:"excluded_sources,omitempty" validate:"omitempty,dive,source_format"`
	CountryCode        string          `json:"country_code,omitempty" validate:"omitempty,country_code"`
	StartDate          string          `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate            string          `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category           string          `json:"category,omitempty"`
	ResponseLength     *ResponseLength `json:"response_length,omitempty"`
}

// SearchResult is a single item returned by Search. Results are produced
// by the remote service and never mutated by the client.
type SearchResult struct {
	Title          string            `json:"title"`
	URL            string            `json:"url"`
	Content        Content           `json:"content"`
	Description    string            `json:"description,omitempty"`
	Source         string            `json:"source"`
	Price          float64           `json:"price"`
	Length         int               `json:"length"`
	ImageURL       map[string]string `json:"image_url,omitempty"`
	RelevanceScore float64           `json:"relevance_score"`
	DataType       DataType          `json:"data_type,omitempty"`
}

// ResultsBySource breaks the result count down by search scope.
type ResultsBySource struct {
	Web         int `json:"web"`
	Proprietary int `json:"proprietary"`
}

// SearchResponse is the full search outcome. When Success is false,
// Results is empty and Error describes what went wrong; TxID is set
// whenever the server acknowledged the request.
type SearchResponse struct {
	Success               bool            `json:"success"`
	Error                 string          `json:"error,omitempty"`
	TxID                  string          `json:"tx_id"`
	Query                 string          `json:"query"`
	Results               []SearchResult  `json:"results"`
	ResultsBySource       ResultsBySource `json:"results_by_source"`
	TotalDeductionPCM     float64         `json:"total_deduction_pcm"`
	TotalDeductionDollars float64         `json:"total_deduction_dollars"`
	TotalCharacters       int             `json:"total_characters"`
}

// Search runs a single search against the Valyu API. A nil opts uses the
// defaults. Invalid parameters fail immediately with a *ValidationError
// before any network traffic; every remote-side problem is reported
// through the returned SearchResponse with Success=false.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	req, err := c.buildSearchRequest(query, opts)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := c.postJSON(ctx, "/deepsearch", req, &resp); err != nil {
		return failedSearchResponse(query, err), nil
	}
	if !resp.Success && resp.Error == "" {
		resp.Error = "search failed without a server-reported reason"
	}
	return &resp, nil
}

func (c *Client) buildSearchRequest(query string, opts *SearchOptions) (*searchRequest, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	if query == "" {
		return nil, newValidationError("query", "must not be empty")
	}
	if opts.MaxNumResults > maxResultsCeiling {
		return nil, newValidationError("max_num_results", "at most %d results per call, got %d", maxResultsCeiling, opts.MaxNumResults)
	}

	req := &searchRequest{
		Query:              query,
		SearchType:         opts.SearchType,
		MaxNumResults:      opts.MaxNumResults,
		IsToolCall:         opts.IsToolCall,
		RelevanceThreshold: opts.RelevanceThreshold,
		MaxPrice:           opts.MaxPrice,
		FastMode:           opts.FastMode,
		IncludedSources:    opts.IncludedSources,
		ExcludedSources:    opts.ExcludedSources,
		CountryCode:        normalizeCountryCode(opts.CountryCode),
		StartDate:          opts.StartDate,
		EndDate:            opts.EndDate,
		Category:           opts.Category,
	}
	if req.SearchType == "" {
		req.SearchType = SearchTypeAll
	}
	if req.MaxNumResults == 0 {
		req.MaxNumResults = defaultMaxNumResults
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
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	return req, nil
}

// failedSearchResponse folds a transport or server error into the
// response shape the caller expects.
func failedSearchResponse(query string, err error) *SearchResponse {
	resp := &SearchResponse{
		Success: false,
		Error:   err.Error(),
		Query:   query,
		Results: []SearchResult{},
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		resp.Error = apiErr.Message
		resp.TxID = apiErr.TxID
	}
	return resp
}
