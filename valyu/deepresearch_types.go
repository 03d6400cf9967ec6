package valyu

import "encoding/json"

// DeepResearchModel selects the research model tier.
type DeepResearchModel string

const (
	DeepResearchModelFast     DeepResearchModel = "fast"
	DeepResearchModelStandard DeepResearchModel = "standard"
	// DeepResearchModelLite is a deprecated alias for the standard tier,
	// kept for backward compatibility.
	DeepResearchModelLite  DeepResearchModel = "lite"
	DeepResearchModelHeavy DeepResearchModel = "heavy"
)

// DeepResearchStatus is the lifecycle state of a research task.
type DeepResearchStatus string

const (
	DeepResearchQueued    DeepResearchStatus = "queued"
	DeepResearchRunning   DeepResearchStatus = "running"
	DeepResearchCompleted DeepResearchStatus = "completed"
	DeepResearchFailed    DeepResearchStatus = "failed"
	DeepResearchCancelled DeepResearchStatus = "cancelled"
)

// Terminal reports whether the task has finished, successfully or not.
func (s DeepResearchStatus) Terminal() bool {
	switch s {
	case DeepResearchCompleted, DeepResearchFailed, DeepResearchCancelled:
		return true
	}
	return false
}

// FileAttachment is a document or image attached to a research task. Data
// is a base64 data URL.
type FileAttachment struct {
	Data      string `json:"data"`
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Context   string `json:"context,omitempty"`
}

// MCPServerConfig wires an external MCP server into a research task as a
// source of custom tools.
type MCPServerConfig struct {
	URL          string         `json:"url"`
	Name         string         `json:"name,omitempty"`
	ToolPrefix   string         `json:"tool_prefix,omitempty"`
	Auth         map[string]any `json:"auth,omitempty"`
	AllowedTools []string       `json:"allowed_tools,omitempty"`
}

// Deliverable requests an additional file output from a research task,
// such as a spreadsheet or slide deck.
type Deliverable struct {
	// Type is one of csv, xlsx, pptx, docx or pdf.
	Type        string `json:"type"`
	Description string `json:"description"`
	// Columns suggests column names for csv and xlsx deliverables.
	Columns        []string `json:"columns,omitempty"`
	IncludeHeaders *bool    `json:"include_headers,omitempty"`
	// SheetName applies to xlsx only.
	SheetName string `json:"sheet_name,omitempty"`
	// Slides applies to pptx only.
	Slides   *int   `json:"slides,omitempty"`
	Template string `json:"template,omitempty"`
}

// DeliverableResult describes one generated deliverable file.
type DeliverableResult struct {
	ID          string `json:"id"`
	Request     string `json:"request"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// URL is a token-signed download link.
	URL         string `json:"url"`
	S3Key       string `json:"s3_key"`
	RowCount    *int   `json:"row_count,omitempty"`
	ColumnCount *int   `json:"column_count,omitempty"`
	Error       string `json:"error,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// DeepResearchSearchConfig narrows the search scope of a research task.
type DeepResearchSearchConfig struct {
	SearchType      SearchType `json:"search_type,omitempty"`
	IncludedSources []string   `json:"included_sources,omitempty"`
}

// Progress reports how far along a running task is.
type Progress struct {
	CurrentStep int `json:"current_step"`
	TotalSteps  int `json:"total_steps"`
}

// ChartDataPoint is one x/y point in a generated chart.
type ChartDataPoint struct {
	X any     `json:"x"`
	Y float64 `json:"y"`
}

// ChartDataSeries is one named series in a generated chart.
type ChartDataSeries struct {
	Name string           `json:"name"`
	Data []ChartDataPoint `json:"data"`
}

// ImageMetadata describes a chart or AI-generated image produced by a
// research task.
type ImageMetadata struct {
	ImageID        string            `json:"image_id"`
	ImageType      string            `json:"image_type"`
	DeepResearchID string            `json:"deepresearch_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	ImageURL       string            `json:"image_url"`
	S3Key          string            `json:"s3_key"`
	CreatedAt      int64             `json:"created_at"`
	ChartType      string            `json:"chart_type,omitempty"`
	XAxisLabel     string            `json:"x_axis_label,omitempty"`
	YAxisLabel     string            `json:"y_axis_label,omitempty"`
	DataSeries     []ChartDataSeries `json:"data_series,omitempty"`
}

// DeepResearchSource is one source cited by a research task.
type DeepResearchSource struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Snippet     string   `json:"snippet,omitempty"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source,omitempty"`
	OrgID       string   `json:"org_id,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ID          string   `json:"id,omitempty"`
	DocID       *int     `json:"doc_id,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	Category    string   `json:"category,omitempty"`
	SourceID    *int     `json:"source_id,omitempty"`
	WordCount   *int     `json:"word_count,omitempty"`
}

// DeepResearchUsage breaks a task's cost down by stage.
type DeepResearchUsage struct {
	SearchCost   float64 `json:"search_cost"`
	ContentsCost float64 `json:"contents_cost"`
	AICost       float64 `json:"ai_cost"`
	ComputeCost  float64 `json:"compute_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// DeepResearchCreateResponse acknowledges a newly created task.
type DeepResearchCreateResponse struct {
	Success        bool               `json:"success"`
	Error          string             `json:"error,omitempty"`
	DeepResearchID string             `json:"deepresearch_id"`
	Status         DeepResearchStatus `json:"status"`
	Model          DeepResearchModel  `json:"model"`
	CreatedAt      string             `json:"created_at"`
	Metadata       map[string]any     `json:"metadata,omitempty"`
	Public         bool               `json:"public"`
	WebhookSecret  string             `json:"webhook_secret,omitempty"`
	Message        string             `json:"message,omitempty"`
}

// DeepResearchStatusResponse is a snapshot of a task. Fields past Public
// are populated progressively as the task advances; Output is markdown
// text or structured JSON depending on OutputType.
type DeepResearchStatusResponse struct {
	Success        bool               `json:"success"`
	Error          string             `json:"error,omitempty"`
	DeepResearchID string             `json:"deepresearch_id"`
	Status         DeepResearchStatus `json:"status"`
	Query          string             `json:"query"`
	Mode           DeepResearchModel  `json:"mode"`
	OutputFormats  []json.RawMessage  `json:"output_formats,omitempty"`
	CreatedAt      int64              `json:"created_at"`
	Public         bool               `json:"public"`

	Progress     *Progress            `json:"progress,omitempty"`
	Messages     []json.RawMessage    `json:"messages,omitempty"`
	CompletedAt  int64                `json:"completed_at,omitempty"`
	Output       Content              `json:"output,omitempty"`
	OutputType   string               `json:"output_type,omitempty"`
	PDFURL       string               `json:"pdf_url,omitempty"`
	Images       []ImageMetadata      `json:"images,omitempty"`
	Deliverables []DeliverableResult  `json:"deliverables,omitempty"`
	Sources      []DeepResearchSource `json:"sources,omitempty"`
	Usage        *DeepResearchUsage   `json:"usage,omitempty"`
}

// DeepResearchTaskListItem is the minimal task info returned by List.
type DeepResearchTaskListItem struct {
	DeepResearchID string             `json:"deepresearch_id"`
	Query          string             `json:"query"`
	Status         DeepResearchStatus `json:"status"`
	CreatedAt      int64              `json:"created_at"`
	Public         bool               `json:"public"`
}

// DeepResearchListResponse is the outcome of List.
type DeepResearchListResponse struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error,omitempty"`
	Data    []DeepResearchTaskListItem `json:"data,omitempty"`
}

// DeepResearchUpdateResponse is the outcome of Update.
type DeepResearchUpdateResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message,omitempty"`
	DeepResearchID string `json:"deepresearch_id"`
}

// DeepResearchCancelResponse is the outcome of Cancel.
type DeepResearchCancelResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message,omitempty"`
	DeepResearchID string `json:"deepresearch_id"`
}

// DeepResearchDeleteResponse is the outcome of Delete.
type DeepResearchDeleteResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message,omitempty"`
	DeepResearchID string `json:"deepresearch_id"`
}

// DeepResearchTogglePublicResponse is the outcome of TogglePublic.
type DeepResearchTogglePublicResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message,omitempty"`
	DeepResearchID string `json:"deepresearch_id"`
	Public         bool   `json:"public"`
}
