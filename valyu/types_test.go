package valyu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseLengthCharLimit(t *testing.T) {
	tests := []struct {
		name      string
		length    ResponseLength
		wantChars int
		wantOK    bool
	}{
		{name: "short", length: ResponseLengthShort, wantChars: 25000, wantOK: true},
		{name: "medium", length: ResponseLengthMedium, wantChars: 50000, wantOK: true},
		{name: "large", length: ResponseLengthLarge, wantChars: 100000, wantOK: true},
		{name: "max is unbounded", length: ResponseLengthMax, wantOK: false},
		{name: "zero is unbounded", length: ResponseLength{}, wantOK: false},
		{name: "explicit chars", length: ResponseLengthChars(42000), wantChars: 42000, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chars, ok := tt.length.CharLimit()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantChars, chars)
			}
		})
	}
}

func TestResponseLengthJSON(t *testing.T) {
	t.Run("keyword round trip", func(t *testing.T) {
		encoded, err := json.Marshal(ResponseLengthMedium)
		require.NoError(t, err)
		assert.Equal(t, `"medium"`, string(encoded))

		var decoded ResponseLength
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, ResponseLengthMedium, decoded)
	})

	t.Run("char count round trip", func(t *testing.T) {
		encoded, err := json.Marshal(ResponseLengthChars(30000))
		require.NoError(t, err)
		assert.Equal(t, `30000`, string(encoded))

		var decoded ResponseLength
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		chars, ok := decoded.CharLimit()
		require.True(t, ok)
		assert.Equal(t, 30000, chars)
	})

	t.Run("unknown keyword rejected", func(t *testing.T) {
		bad := ResponseLength{keyword: "tiny"}
		assert.Error(t, bad.validate())
	})
}

func TestContentUnion(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		var c Content
		require.NoError(t, json.Unmarshal([]byte(`"hello world"`), &c))
		assert.False(t, c.IsStructured())
		assert.Equal(t, "hello world", c.String())
	})

	t.Run("structured object", func(t *testing.T) {
		var c Content
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Acme", "founded": 1999}`), &c))
		assert.True(t, c.IsStructured())
		assert.JSONEq(t, `{"name": "Acme", "founded": 1999}`, c.String())
	})

	t.Run("text marshals back as string", func(t *testing.T) {
		c := Content{Text: "plain"}
		encoded, err := json.Marshal(c)
		require.NoError(t, err)
		assert.Equal(t, `"plain"`, string(encoded))
	})
}
