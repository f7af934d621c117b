package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safetylens/safetylens/internal/domain/analysis"
)

func TestSummarizePartitionsByLevel(t *testing.T) {
	res := &analysis.Result{Risks: []analysis.Risk{
		{Title: "a", Level: analysis.SeverityHigh, Recommendation: "x"},
		{Title: "b", Level: analysis.SeverityHigh, Recommendation: "x"},
		{Title: "c", Level: analysis.SeverityMedium, Recommendation: "x"},
		{Title: "d", Level: analysis.SeverityLow, Recommendation: "x"},
	}}

	s := Summarize(res)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.High)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 1, s.Low)
	assert.False(t, s.NoRisks)
}

func TestSummarizeEmptyIsAffirmative(t *testing.T) {
	s := Summarize(&analysis.Result{Risks: []analysis.Risk{}})
	assert.True(t, s.NoRisks)
	assert.Zero(t, s.Total)

	s = Summarize(nil)
	assert.True(t, s.NoRisks)
}

func TestTextNoRisks(t *testing.T) {
	out := Text(&analysis.Result{})
	assert.Contains(t, out, "No risks detected. Everything looks safe!")
	assert.NotContains(t, out, "Found 0")
}

func TestTextSingularNoun(t *testing.T) {
	res := &analysis.Result{Risks: []analysis.Risk{
		{Title: "Missing hard hat", Level: analysis.SeverityHigh, Recommendation: "Provide PPE"},
	}}
	out := Text(res)
	assert.Contains(t, out, "Found 1 potential safety risk ")
	assert.Contains(t, out, "[HIGH] Missing hard hat")
	assert.Contains(t, out, "Recommendation: Provide PPE")
}

func TestTextListsRisksInOrder(t *testing.T) {
	res := &analysis.Result{Risks: []analysis.Risk{
		{Title: "first", Level: analysis.SeverityLow, Recommendation: "r1"},
		{Title: "second", Level: analysis.SeverityMedium, Recommendation: "r2"},
	}}
	out := Text(res)
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestCounts(t *testing.T) {
	c := Counts(Summary{Total: 3, High: 1, Medium: 1, Low: 1})
	assert.Equal(t, analysis.SeverityCounts{High: 1, Medium: 1, Low: 1, Total: 3}, c)
}
