package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/certsend/certsend/internal/batch"
	"github.com/certsend/certsend/internal/roster"
	"github.com/certsend/certsend/pkg/match"
)

func matchedRow(email string, needsReview bool) batch.RowResult {
	return batch.RowResult{
		Recipient: roster.Recipient{Name: "John Doe", Email: email},
		Result: &match.Result{
			Candidate:   match.Candidate{Filename: "JohnDoe.pdf", Ref: "/certs/JohnDoe.pdf"},
			Tier:        match.TierExact,
			NeedsReview: needsReview,
		},
	}
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		name  string
		row   batch.RowResult
		force bool
		want  string
	}{
		{"sendable", matchedRow("john@example.org", false), false, ""},
		{"no match", batch.RowResult{Recipient: roster.Recipient{Name: "X Y", Email: "x@example.org"}}, false, "no match"},
		{"no email", matchedRow("", false), false, "no email address"},
		{"needs review", matchedRow("john@example.org", true), false, "needs review"},
		{"forced review", matchedRow("john@example.org", true), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, skipReason(tt.row, tt.force))
		})
	}
}

func TestRenderBody(t *testing.T) {
	assert.Equal(t, "Hi John Doe!", renderBody("Hi {name}!", "John Doe"))
	assert.Contains(t, renderBody("", "John Doe"), "Hello John Doe,")
}
