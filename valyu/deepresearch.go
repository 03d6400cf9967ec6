package valyu

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	maxDeliverables      = 10
	maxPreviousReports   = 3
	defaultPollInterval  = 5 * time.Second
	defaultMaxWait       = 2 * time.Hour
	defaultListTaskLimit = 10
)

// DeepResearchService manages long-running research tasks. Tasks are
// created, polled and fetched through the parent client's transport;
// access it as client.DeepResearch.
type DeepResearchService struct {
	client *Client
}

// DeepResearchOptions is the optional configuration for Create.
type DeepResearchOptions struct {
	// Model selects the research tier. Defaults to lite.
	Model DeepResearchModel
	// OutputFormats lists requested outputs: "markdown", "pdf", or a JSON
	// schema object for structured output. A schema cannot be mixed with
	// markdown or pdf. Defaults to ["markdown"].
	OutputFormats []any
	// Strategy is a natural-language plan for the research.
	Strategy string
	// Search narrows the search scope used by the task.
	Search *DeepResearchSearchConfig
	// URLs lists pages to extract and analyze.
	URLs []string
	// Files attaches documents or images.
	Files []FileAttachment
	// Deliverables requests extra file outputs, at most 10.
	Deliverables []Deliverable
	// MCPServers wires external tool servers into the task.
	MCPServers []MCPServerConfig
	// CodeExecution toggles the task's code sandbox. Defaults to true.
	CodeExecution *bool
	// PreviousReports references up to 3 earlier task IDs for context.
	PreviousReports []string
	// WebhookURL is an HTTPS endpoint notified on completion.
	WebhookURL string
	// Metadata is caller-defined key-value context echoed back in
	// responses.
	Metadata map[string]any
}

type deepResearchCreateRequest struct {
	Input           string                    `json:"input"`
	Model           DeepResearchModel         `json:"model" validate:"oneof=fast standard lite heavy"`
	OutputFormats   []any                     `json:"output_formats"`
	CodeExecution   bool                      `json:"code_execution"`
	Strategy        string                    `json:"strategy,omitempty"`
	Search          *DeepResearchSearchConfig `json:"search,omitempty"`
	URLs            []string                  `json:"urls,omitempty" validate:"omitempty,dive,http_url"`
	Files           []FileAttachment          `json:"files,omitempty"`
	Deliverables    []Deliverable             `json:"deliverables,omitempty"`
	MCPServers      []MCPServerConfig         `json:"mcp_servers,omitempty"`
	PreviousReports []string                  `json:"previous_reports,omitempty"`
	WebhookURL      string                    `json:"webhook_url,omitempty"`
	Metadata        map[string]any            `json:"metadata,omitempty"`
}

// Create submits a new research task. The task runs asynchronously; use
// Status or Wait to follow it. Invalid parameters fail locally with a
// *ValidationError; remote problems come back with Success=false.
func (s *DeepResearchService) Create(ctx context.Context, input string, opts *DeepResearchOptions) (*DeepResearchCreateResponse, error) {
	if opts == nil {
		opts = &DeepResearchOptions{}
	}
	if strings.TrimSpace(input) == "" {
		return nil, newValidationError("input", "must not be empty")
	}
	if len(opts.Deliverables) > maxDeliverables {
		return nil, newValidationError("deliverables", "at most %d deliverables per task, got %d", maxDeliverables, len(opts.Deliverables))
	}
	if len(opts.PreviousReports) > maxPreviousReports {
		return nil, newValidationError("previous_reports", "at most %d previous reports, got %d", maxPreviousReports, len(opts.PreviousReports))
	}
	if opts.WebhookURL != "" && !strings.HasPrefix(opts.WebhookURL, "https://") {
		return nil, newValidationError("webhook_url", "must be an https URL")
	}

	req := &deepResearchCreateRequest{
		Input:           input,
		Model:           opts.Model,
		OutputFormats:   opts.OutputFormats,
		CodeExecution:   true,
		Strategy:        opts.Strategy,
		Search:          opts.Search,
		URLs:            opts.URLs,
		Files:           opts.Files,
		Deliverables:    opts.Deliverables,
		MCPServers:      opts.MCPServers,
		PreviousReports: opts.PreviousReports,
		WebhookURL:      opts.WebhookURL,
		Metadata:        opts.Metadata,
	}
	if req.Model == "" {
		req.Model = DeepResearchModelLite
	}
	if len(req.OutputFormats) == 0 {
		req.OutputFormats = []any{"markdown"}
	}
	if opts.CodeExecution != nil {
		req.CodeExecution = *opts.CodeExecution
	}
	if err := s.client.validateStruct(req); err != nil {
		return nil, err
	}

	var resp DeepResearchCreateResponse
	if err := s.client.postJSON(ctx, "/deepresearch/tasks", req, &resp); err != nil {
		return &DeepResearchCreateResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// Status fetches the current snapshot of a task.
func (s *DeepResearchService) Status(ctx context.Context, taskID string) (*DeepResearchStatusResponse, error) {
	if taskID == "" {
		return nil, newValidationError("task_id", "must not be empty")
	}
	var resp DeepResearchStatusResponse
	path := fmt.Sprintf("/deepresearch/tasks/%s/status", url.PathEscape(taskID))
	if err := s.client.getJSON(ctx, path, nil, &resp, true); err != nil {
		return &DeepResearchStatusResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// WaitOptions tunes Wait's polling loop.
type WaitOptions struct {
	// PollInterval is the delay between status checks. Defaults to 5s.
	PollInterval time.Duration
	// MaxWait bounds the total wait. Defaults to 2h.
	MaxWait time.Duration
	// OnProgress, when set, is called with every status snapshot.
	OnProgress func(*DeepResearchStatusResponse)
}

// Wait polls a task until it reaches a terminal state. It returns the
// final snapshot on completion; a failed or cancelled task, a status
// fetch failure, a cancelled context or an exceeded MaxWait all surface
// as errors.
func (s *DeepResearchService) Wait(ctx context.Context, taskID string, opts *WaitOptions) (*DeepResearchStatusResponse, error) {
	if opts == nil {
		opts = &WaitOptions{}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	deadline := time.Now().Add(maxWait)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := s.Status(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if !status.Success {
			return nil, fmt.Errorf("fetch task status: %s", status.Error)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(status)
		}

		switch status.Status {
		case DeepResearchCompleted:
			return status, nil
		case DeepResearchFailed:
			return nil, fmt.Errorf("task %s failed: %s", taskID, status.Error)
		case DeepResearchCancelled:
			return nil, fmt.Errorf("task %s was cancelled", taskID)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("task %s did not complete within %s", taskID, maxWait)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// List returns up to limit recent tasks for the given API key ID. A
// non-positive limit uses the default of 10.
func (s *DeepResearchService) List(ctx context.Context, apiKeyID string, limit int) (*DeepResearchListResponse, error) {
	if apiKeyID == "" {
		return nil, newValidationError("api_key_id", "must not be empty")
	}
	if limit <= 0 {
		limit = defaultListTaskLimit
	}
	query := url.Values{}
	query.Set("api_key_id", apiKeyID)
	query.Set("limit", strconv.Itoa(limit))

	var resp DeepResearchListResponse
	if err := s.client.getJSON(ctx, "/deepresearch/list", query, &resp, true); err != nil {
		return &DeepResearchListResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// Update sends a follow-up instruction to a running task.
func (s *DeepResearchService) Update(ctx context.Context, taskID, instruction string) (*DeepResearchUpdateResponse, error) {
	if taskID == "" {
		return nil, newValidationError("task_id", "must not be empty")
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, newValidationError("instruction", "must not be empty")
	}
	payload := map[string]string{"instruction": instruction}

	var resp DeepResearchUpdateResponse
	path := fmt.Sprintf("/deepresearch/tasks/%s/update", url.PathEscape(taskID))
	if err := s.client.postJSON(ctx, path, payload, &resp); err != nil {
		return &DeepResearchUpdateResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// Cancel stops a queued or running task.
func (s *DeepResearchService) Cancel(ctx context.Context, taskID string) (*DeepResearchCancelResponse, error) {
	if taskID == "" {
		return nil, newValidationError("task_id", "must not be empty")
	}
	var resp DeepResearchCancelResponse
	path := fmt.Sprintf("/deepresearch/tasks/%s/cancel", url.PathEscape(taskID))
	if err := s.client.postJSON(ctx, path, map[string]any{}, &resp); err != nil {
		return &DeepResearchCancelResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// Delete removes a task and its outputs.
func (s *DeepResearchService) Delete(ctx context.Context, taskID string) (*DeepResearchDeleteResponse, error) {
	if taskID == "" {
		return nil, newValidationError("task_id", "must not be empty")
	}
	var resp DeepResearchDeleteResponse
	path := fmt.Sprintf("/deepresearch/tasks/%s/delete", url.PathEscape(taskID))
	if err := s.client.deleteJSON(ctx, path, &resp); err != nil {
		return &DeepResearchDeleteResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// TogglePublic sets whether a task's report is publicly viewable.
func (s *DeepResearchService) TogglePublic(ctx context.Context, taskID string, public bool) (*DeepResearchTogglePublicResponse, error) {
	if taskID == "" {
		return nil, newValidationError("task_id", "must not be empty")
	}
	payload := map[string]bool{"public": public}

	var resp DeepResearchTogglePublicResponse
	path := fmt.Sprintf("/deepresearch/tasks/%s/public", url.PathEscape(taskID))
	if err := s.client.postJSON(ctx, path, payload, &resp); err != nil {
		return &DeepResearchTogglePublicResponse{Success: false, Error: remoteErrorMessage(err)}, nil
	}
	return &resp, nil
}

// remoteErrorMessage unwraps an API error's server-reported message,
// falling back to the error text for transport failures.
func remoteErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
