package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{
			name:  "string value",
			input: json.RawMessage(`"hello"`),
			want:  "hello",
		},
		{
			name:  "integer value",
			input: json.RawMessage(`42`),
			want:  "42",
		},
		{
			name:  "float value",
			input: json.RawMessage(`3.14`),
			want:  "3.14",
		},
		{
			name:  "boolean true",
			input: json.RawMessage(`true`),
			want:  "true",
		},
		{
			name:  "boolean false",
			input: json.RawMessage(`false`),
			want:  "false",
		},
		{
			name:  "null value",
			input: json.RawMessage(`null`),
			want:  "",
		},
		{
			name:  "empty raw message",
			input: json.RawMessage{},
			want:  "",
		},
		{
			name:  "nil raw message",
			input: nil,
			want:  "",
		},
		{
			name:  "large integer preserves precision",
			input: json.RawMessage(`9007199254740992`),
			want:  "9007199254740992",
		},
		{
			name:  "nested object falls back to raw string",
			input: json.RawMessage(`{"key":"value"}`),
			want:  `{"key":"value"}`,
		},
		{
			name:  "array falls back to raw string",
			input: json.RawMessage(`[1,2,3]`),
			want:  `[1,2,3]`,
		},
		{
			name:  "negative integer",
			input: json.RawMessage(`-7`),
			want:  "-7",
		},
		{
			name:  "zero",
			input: json.RawMessage(`0`),
			want:  "0",
		},
		{
			name:  "empty string",
			input: json.RawMessage(`""`),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleStringValue(tt.input)
			if got != tt.want {
				t.Errorf("FlexibleStringValue(%s) = %q, want %q", string(tt.input), got, tt.want)
			}
		})
	}
}

func TestReferenceID(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{name: "bare string", input: json.RawMessage(`"4f6c-paper"`), want: "4f6c-paper"},
		{name: "object with uuid", input: json.RawMessage(`{"uuid":"abc","title":"Paper"}`), want: "abc"},
		{name: "object with id only", input: json.RawMessage(`{"id":"xyz"}`), want: "xyz"},
		{name: "null", input: json.RawMessage(`null`), want: ""},
		{name: "missing", input: nil, want: ""},
		{name: "padded string", input: json.RawMessage(`"  abc  "`), want: "abc"},
		{name: "object without identifier", input: json.RawMessage(`{"title":"Inline paper"}`), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReferenceID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReferenceID_RejectsUnsupportedShapes(t *testing.T) {
	_, err := ReferenceID(json.RawMessage(`42`))
	assert.Error(t, err)

	_, err = ReferenceID(json.RawMessage(`["a"]`))
	assert.Error(t, err)

	_, err = ReferenceID(json.RawMessage(`{"uuid":`))
	assert.Error(t, err)
}

func TestTruncateRaw(t *testing.T) {
	assert.Equal(t, `[1,2]`, TruncateRaw(json.RawMessage(`[1,2]`), 10))
	assert.Equal(t, `[1,2...`, TruncateRaw(json.RawMessage(`[1,2,3,4]`), 4))
}
