package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/tierconf/pkg/value"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Reference
	}{
		{
			name:     "no references",
			input:    "plain text",
			expected: []Reference{},
		},
		{
			name:     "document and path",
			input:    "http://${config:network.api.host}:80",
			expected: []Reference{{Raw: "${config:network.api.host}", Document: "network", Path: "api.host"}},
		},
		{
			name:     "whole document",
			input:    "${config:network}",
			expected: []Reference{{Raw: "${config:network}", Document: "network"}},
		},
		{
			name:  "several references",
			input: "${config:a.x}-${config:b.y}",
			expected: []Reference{
				{Raw: "${config:a.x}", Document: "a", Path: "x"},
				{Raw: "${config:b.y}", Document: "b", Path: "y"},
			},
		},
		{
			name:     "malformed",
			input:    "${config:} ${other:a.b} ${config:a.b",
			expected: []Reference{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.input))
		})
	}
}

func TestReferencedDocuments(t *testing.T) {
	content := value.MustFrom(map[string]any{
		"url":   "${config:network.host}",
		"hosts": []any{"${config:dns.primary}", "${config:network.port}"},
		"n":     1,
	})

	assert.Equal(t, []string{"dns", "network"}, ReferencedDocuments(content))
	assert.Empty(t, ReferencedDocuments(value.Int(1)))
}
