package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetylens/safetylens/internal/domain/analysis"
)

func TestNormalizeWellFormedPassthrough(t *testing.T) {
	raw := `{"risks":[
		{"title":"Blocked fire exit","level":"high","recommendation":"Clear the exit route"},
		{"title":"Loose cable","level":"medium","recommendation":"Tape down the cable"},
		{"title":"Cluttered desk","level":"low","recommendation":"Tidy the workspace"}
	]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 3)

	// Order preserved, entries unchanged
	assert.Equal(t, "Blocked fire exit", res.Risks[0].Title)
	assert.Equal(t, analysis.SeverityHigh, res.Risks[0].Level)
	assert.Equal(t, analysis.SeverityMedium, res.Risks[1].Level)
	assert.Equal(t, "Tidy the workspace", res.Risks[2].Recommendation)
}

func TestNormalizeExtractsFromProse(t *testing.T) {
	raw := `Sure! Here is the analysis: {"risks":[{"title":"Missing hard hat","level":"high","recommendation":"Provide PPE"}]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "Missing hard hat", res.Risks[0].Title)
	assert.Equal(t, analysis.SeverityHigh, res.Risks[0].Level)
}

func TestNormalizeExtractsFromCodeFence(t *testing.T) {
	raw := "```json\n{\"risks\":[{\"title\":\"Wet floor\",\"level\":\"medium\",\"recommendation\":\"Place warning signs\"}]}\n```"

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "Wet floor", res.Risks[0].Title)
}

func TestNormalizeDropsInvalidEntries(t *testing.T) {
	raw := `{"risks":[
		{"title":"","level":"high","recommendation":"x"},
		{"title":"t","level":"extreme","recommendation":"y"},
		{"title":"ok","level":"low","recommendation":"fine"}
	]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "ok", res.Risks[0].Title)
	assert.Equal(t, analysis.SeverityLow, res.Risks[0].Level)
}

func TestNormalizeDropsWhitespaceOnlyFields(t *testing.T) {
	raw := `{"risks":[
		{"title":"   ","level":"high","recommendation":"real"},
		{"title":"real","level":"high","recommendation":"   "},
		{"title":"  kept  ","level":"high","recommendation":"  trimmed  "}
	]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "kept", res.Risks[0].Title)
	assert.Equal(t, "trimmed", res.Risks[0].Recommendation)
}

func TestNormalizeDropsNonObjectAndMissingFields(t *testing.T) {
	raw := `{"risks":[
		"not an object",
		{"title":"no level","recommendation":"x"},
		{"level":"low","recommendation":"no title"},
		{"title":"no recommendation","level":"low"},
		{"title":"good","level":"medium","recommendation":"keep"}
	]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "good", res.Risks[0].Title)
}

func TestNormalizeEmptyRisks(t *testing.T) {
	res, err := Normalize(`{"risks":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, res.Risks)
	assert.Empty(t, res.Risks)
}

func TestNormalizeRepairsTruncatedJSON(t *testing.T) {
	// Token-capped completions commonly cut off mid-object.
	raw := `{"risks":[{"title":"Exposed wiring","level":"high","recommendation":"De-energize and repair"`

	res, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Risks, 1)
	assert.Equal(t, "Exposed wiring", res.Risks[0].Title)
}

func TestNormalizeUnparsableText(t *testing.T) {
	_, err := Normalize("the model refused to answer")
	assert.True(t, errors.Is(err, analysis.ErrUnparsableResponse))
}

func TestNormalizeBadShape(t *testing.T) {
	for _, raw := range []string{
		`{"findings":[]}`,
		`{"risks":"not an array"}`,
		`{"risks":{"title":"x"}}`,
	} {
		_, err := Normalize(raw)
		assert.True(t, errors.Is(err, analysis.ErrBadResponseShape), "raw=%s", raw)
	}
}

func TestExtractJSONSpan(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON(`noise {"a":1} trailing`))
	assert.Equal(t, `{"a":{"b":2}}`, ExtractJSON(`{"a":{"b":2}}`))
	// No braces at all: returned unchanged
	assert.Equal(t, "plain text", ExtractJSON("plain text"))
}
