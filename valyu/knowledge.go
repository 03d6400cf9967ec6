package valyu

import "context"

// ContextSearchType selects the scope for the legacy knowledge endpoint,
// which predates the unified all/web/proprietary scopes.
type ContextSearchType string

const (
	ContextSearchProprietary ContextSearchType = "proprietary"
	ContextSearchPublic      ContextSearchType = "public"
)

// ContextOptions configures the legacy Context call.
type ContextOptions struct {
	// SearchType is proprietary or public. Defaults to proprietary.
	SearchType ContextSearchType
	// NumQuery is the number of sub-queries to fan out. Defaults to 10.
	NumQuery int
	// NumResults is the number of results per sub-query. Defaults to 10.
	NumResults int
	// MaxPrice is the CPM spend ceiling. Defaults to 1.
	MaxPrice *float64
	// DataSources restricts retrieval to specific datasets.
	DataSources []string
}

type contextRequest struct {
	Query       string            `json:"query" validate:"required"`
	SearchType  ContextSearchType `json:"search_type" validate:"oneof=proprietary public"`
	NumQuery    int               `json:"num_query" validate:"gte=1"`
	NumResults  int               `json:"num_results" validate:"gte=1"`
	MaxPrice    float64           `json:"max_price" validate:"gte=0"`
	DataSources []string          `json:"data_sources,omitempty" validate:"omitempty,dive,source_format"`
}

// Context queries the legacy knowledge endpoint. It shares the search
// response shape and the same two-tier error discipline as Search.
func (c *Client) Context(ctx context.Context, query string, opts *ContextOptions) (*SearchResponse, error) {
	if opts == nil {
		opts = &ContextOptions{}
	}
	if query == "" {
		return nil, newValidationError("query", "must not be empty")
	}

	req := &contextRequest{
		Query:       query,
		SearchType:  opts.SearchType,
		NumQuery:    opts.NumQuery,
		NumResults:  opts.NumResults,
		MaxPrice:    1,
		DataSources: opts.DataSources,
	}
	if req.SearchType == "" {
		req.SearchType = ContextSearchProprietary
	}
	if req.NumQuery == 0 {
		req.NumQuery = 10
	}
	if req.NumResults == 0 {
		req.NumResults = 10
	}
	if opts.MaxPrice != nil {
		req.MaxPrice = *opts.MaxPrice
	}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := c.postJSON(ctx, "/knowledge", req, &resp); err != nil {
		return failedSearchResponse(query, err), nil
	}
	return &resp, nil
}
