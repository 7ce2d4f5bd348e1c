package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/pricing"
)

func TestViewMarkdown(t *testing.T) {
	v := &domain.View{
		Step:       1,
		TotalSteps: 9,
		Title:      "Basic Information",
		Fields: []domain.FieldView{
			{Path: "name", Kind: "text", Label: "Project name", Value: "Acme", Required: true},
			{Path: "goal", Kind: "choice", Label: "Goal", Options: []string{"sell", "inform"}},
		},
		CanNext: true,
		Missing: []string{"description"},
	}

	md := ViewMarkdown(v)
	assert.Contains(t, md, "## 1/9 · Basic Information")
	assert.Contains(t, md, "**Project name *** `name` (text): Acme")
	assert.Contains(t, md, "`goal` (choice): _empty_")
	assert.Contains(t, md, "options: sell, inform")
	assert.Contains(t, md, "Required before submit: description")
	assert.Contains(t, md, "Available: `next`")
	assert.NotContains(t, md, "`back`")
}

func TestViewMarkdown_SubmissionStates(t *testing.T) {
	failed := ViewMarkdown(&domain.View{Step: 9, TotalSteps: 9, Submission: domain.SubmissionFailed, LastError: "db down", CanSubmit: true})
	assert.Contains(t, failed, "Submission failed: db down")
	assert.Contains(t, failed, "`submit`")

	done := ViewMarkdown(&domain.View{Step: 9, TotalSteps: 9, Submission: domain.SubmissionSucceeded, ProjectID: "p-1"})
	assert.Contains(t, done, "Project `p-1` created.")
}

func TestEstimateMarkdown(t *testing.T) {
	md := EstimateMarkdown(pricing.Estimate{Currency: "SAR", Base: 5000, Pages: 1000, Total: 6000})
	assert.Contains(t, md, "| Base | 5000.00 SAR |")
	assert.Contains(t, md, "| **Total** | **6000.00 SAR** |")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "project intake 1.2.3")
}

func TestPlain(t *testing.T) {
	out, err := Plain("# hi")
	assert.NoError(t, err)
	assert.Equal(t, "# hi", out)
}
