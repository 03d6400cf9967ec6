package valyu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentsSuccess(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contents", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{
			"success": true,
			"tx_id": "tx-c1",
			"urls_requested": 2,
			"urls_processed": 1,
			"urls_failed": 1,
			"results": [
				{"url": "https://example.com/a", "title": "Page A", "content": "body text", "length": 9, "source": "example.com", "summary": "a summary", "summary_success": true}
			],
			"total_cost_dollars": 0.002,
			"total_characters": 9
		}`))
	}))

	resp, err := client.Contents(context.Background(),
		[]string{"https://example.com/a", "https://example.com/b"},
		&ContentsOptions{Summary: SummaryFlag(true)})
	require.NoError(t, err)

	require.True(t, resp.Success)
	assert.Equal(t, 2, resp.URLsRequested)
	assert.Equal(t, 1, resp.URLsProcessed)
	assert.Equal(t, 1, resp.URLsFailed)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "body text", resp.Results[0].Content.String())
	require.NotNil(t, resp.Results[0].Summary)
	assert.Equal(t, "a summary", resp.Results[0].Summary.String())
	require.NotNil(t, resp.Results[0].SummarySuccess)
	assert.True(t, *resp.Results[0].SummarySuccess)

	assert.Equal(t, true, gotBody["summary"])
}

func TestContentsValidation(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success": true, "results": []}`))
	}))

	elevenURLs := make([]string, 11)
	for i := range elevenURLs {
		elevenURLs[i] = fmt.Sprintf("https://example.com/%d", i)
	}

	tests := []struct {
		name  string
		urls  []string
		opts  *ContentsOptions
		field string
	}{
		{
			name:  "no urls",
			urls:  nil,
			field: "urls",
		},
		{
			name:  "eleven urls",
			urls:  elevenURLs,
			field: "urls",
		},
		{
			name:  "malformed url",
			urls:  []string{"not-a-url"},
			field: "urls",
		},
		{
			name:  "ftp url",
			urls:  []string{"ftp://example.com/file"},
			field: "urls",
		},
		{
			name:  "oversized summary instruction",
			urls:  []string{"https://example.com"},
			opts:  &ContentsOptions{Summary: SummaryInstruction(strings.Repeat("x", 501))},
			field: "summary",
		},
		{
			name:  "oversized multibyte summary instruction",
			urls:  []string{"https://example.com"},
			opts:  &ContentsOptions{Summary: SummaryInstruction(strings.Repeat("日", 501))},
			field: "summary",
		},
		{
			name:  "empty summary schema",
			urls:  []string{"https://example.com"},
			opts:  &ContentsOptions{Summary: SummarySchema{}},
			field: "summary",
		},
		{
			name:  "bad extract effort",
			urls:  []string{"https://example.com"},
			opts:  &ContentsOptions{ExtractEffort: "maximum"},
			field: "extract_effort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Contents(context.Background(), tt.urls, tt.opts)
			require.Error(t, err)
			assert.Nil(t, resp)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Field, tt.field)
		})
	}

	assert.Zero(t, calls)
}

func TestContentsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": "insufficient balance", "tx_id": "tx-pay"}`))
	}))

	resp, err := client.Contents(context.Background(), []string{"https://example.com"}, nil)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient balance", resp.Error)
	assert.Equal(t, "tx-pay", resp.TxID)
	assert.Equal(t, 1, resp.URLsRequested)
}

func TestSummaryWireForms(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success": true, "results": []}`))
	}))
	urls := []string{"https://example.com"}

	tests := []struct {
		name    string
		summary Summary
		check   func(t *testing.T, value any, present bool)
	}{
		{
			name:    "absent",
			summary: nil,
			check: func(t *testing.T, value any, present bool) {
				assert.False(t, present)
			},
		},
		{
			name:    "flag true",
			summary: SummaryFlag(true),
			check: func(t *testing.T, value any, present bool) {
				require.True(t, present)
				assert.Equal(t, true, value)
			},
		},
		{
			name:    "flag false",
			summary: SummaryFlag(false),
			check: func(t *testing.T, value any, present bool) {
				require.True(t, present)
				assert.Equal(t, false, value)
			},
		},
		{
			name:    "instruction",
			summary: SummaryInstruction("key points only"),
			check: func(t *testing.T, value any, present bool) {
				require.True(t, present)
				assert.Equal(t, "key points only", value)
			},
		},
		{
			// 400 characters but 1200 bytes; the cap counts characters
			name:    "multibyte instruction under the cap",
			summary: SummaryInstruction(strings.Repeat("日", 400)),
			check: func(t *testing.T, value any, present bool) {
				require.True(t, present)
				assert.Equal(t, strings.Repeat("日", 400), value)
			},
		},
		{
			name:    "schema",
			summary: SummarySchema{"type": "object", "properties": map[string]any{"name": map[string]any{"type": "string"}}},
			check: func(t *testing.T, value any, present bool) {
				require.True(t, present)
				obj, ok := value.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "object", obj["type"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotBody = nil
			_, err := client.Contents(context.Background(), urls, &ContentsOptions{Summary: tt.summary})
			require.NoError(t, err)
			value, present := gotBody["summary"]
			tt.check(t, value, present)
		})
	}
}

func TestSummarySchemaFor(t *testing.T) {
	type paper struct {
		Title   string   `json:"title" jsonschema:"required,description=Paper title"`
		Authors []string `json:"authors" jsonschema:"description=Author names"`
	}

	schema, err := SummarySchemaFor[paper]()
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "title")
	assert.Contains(t, props, "authors")
	required, ok := schema["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "title")
}
