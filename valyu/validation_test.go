package valyu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSource(t *testing.T) {
	tests := []struct {
		source string
		valid  bool
	}{
		// Domains
		{"example.com", true},
		{"news.ycombinator.com", true},
		{"sub-domain.example.co.uk", true},
		{"paperswithcode.com", true},
		// URLs
		{"https://arxiv.org/abs/1706.03762", true},
		{"http://example.com/path?query=1", true},
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", true},
		// Dataset names
		{"valyu/valyu-arxiv", true},
		{"wiley/wiley-finance-books", true},
		{"org_name/data_set", true},
		// Invalid
		{"", false},
		{"not a source", false},
		{"ftp://example.com/file", false},
		{"too/many/slashes", false},
		{"-leadinghyphen.com", false},
		{"no spaces/in datasets", false},
		{"justaword", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidSource(tt.source))
		})
	}
}

func TestInvalidSources(t *testing.T) {
	bad := invalidSources([]string{"example.com", "nope!", "valyu/valyu-arxiv", "also bad"})
	assert.Equal(t, []string{"nope!", "also bad"}, bad)

	assert.Nil(t, invalidSources([]string{"example.com"}))
	assert.Nil(t, invalidSources(nil))
}

func TestIsValidHTTPURL(t *testing.T) {
	assert.True(t, isValidHTTPURL("https://example.com"))
	assert.True(t, isValidHTTPURL("http://example.com/a/b"))
	assert.False(t, isValidHTTPURL("example.com"))
	assert.False(t, isValidHTTPURL("ftp://example.com"))
	assert.False(t, isValidHTTPURL("https://"))
}

func TestIsValidDatasetName(t *testing.T) {
	assert.True(t, isValidDatasetName("valyu/valyu-arxiv"))
	assert.True(t, isValidDatasetName("a_b/c-d"))
	assert.False(t, isValidDatasetName("valyu"))
	assert.False(t, isValidDatasetName("valyu/"))
	assert.False(t, isValidDatasetName("valyu/data/extra"))
	assert.False(t, isValidDatasetName("valyu/data set"))
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, validateDateRange("", ""))
	assert.NoError(t, validateDateRange("2024-01-01", ""))
	assert.NoError(t, validateDateRange("", "2024-12-31"))
	assert.NoError(t, validateDateRange("2024-01-01", "2024-12-31"))
	assert.NoError(t, validateDateRange("2024-06-15", "2024-06-15"))

	assert.Error(t, validateDateRange("2024-12-31", "2024-01-01"))
	assert.Error(t, validateDateRange("01/01/2024", ""))
	assert.Error(t, validateDateRange("", "2024-13-01"))
}

func TestNormalizeCountryCode(t *testing.T) {
	assert.Equal(t, "US", normalizeCountryCode(" us "))
	assert.Equal(t, "ALL", normalizeCountryCode("all"))
	assert.Equal(t, "", normalizeCountryCode(""))
}
