package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{
	"contacts": [
		{"id": "a", "name": "Ada", "company": "Acme"},
		{"id": "b", "name": "Bo", "company": "Globex"},
		{"id": "c", "name": "Cy", "company": "Globex"},
		{"id": "d", "name": "Di"}
	],
	"connections": [
		{"id": "ab", "source_contact_id": "a", "target_contact_id": "b", "connection_type": "knows", "strength": 4, "bidirectional": true},
		{"id": "ac", "source_contact_id": "a", "target_contact_id": "c", "connection_type": "knows", "strength": 3, "bidirectional": true}
	],
	"interactions": [{"id": "i", "contact_id": "a", "date": "2026-02-01T00:00:00Z", "type": "coffee"}]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-snapshot", "s.json", "-hubs", "3", "-as-of", "2026-03-01T00:00:00Z"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "s.json", opts.snapshot)
	assert.Equal(t, 3, opts.hubs)
	assert.Equal(t, 2026, opts.asOf.Year())

	_, err = parseFlags(nil, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: kinship")

	_, err = parseFlags([]string{"-snapshot", "s.json", "-format", "yaml"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-snapshot", "s.json", "-as-of", "last week"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-snapshot", "-", "-watch"}, &stderr)
	assert.Error(t, err)

	// The full report is the default; there is no flag for it.
	_, err = parseFlags([]string{"-snapshot", "s.json", "-report"}, &stderr)
	assert.Error(t, err)
}

func TestRun_Report(t *testing.T) {
	opts, err := parseFlags([]string{"-snapshot", writeSnapshot(t), "-as-of", "2026-03-01T00:00:00Z"}, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(opts, nil, &out))

	var report model.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Metrics.TotalConnections)
	require.NotEmpty(t, report.Hubs)
	assert.Equal(t, "a", report.Hubs[0].Contact.ID)
	require.Len(t, report.Isolated, 1)
	assert.Equal(t, "d", report.Isolated[0].ID)
}

func TestRun_HubsFromStdin(t *testing.T) {
	opts, err := parseFlags([]string{"-snapshot", "-", "-hubs", "1"}, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(opts, strings.NewReader(snapshot), &out))

	var hubs []model.Hub
	require.NoError(t, json.Unmarshal(out.Bytes(), &hubs))
	require.Len(t, hubs, 1)
	assert.Equal(t, 2, hubs[0].Degree)
}

func TestRun_Introductions(t *testing.T) {
	opts, err := parseFlags([]string{"-snapshot", writeSnapshot(t), "-introductions", "5"}, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(opts, nil, &out))

	var intros []model.IntroductionSuggestion
	require.NoError(t, json.Unmarshal(out.Bytes(), &intros))
	require.Len(t, intros, 1)
	assert.Equal(t, "b", intros[0].ContactA.ID)
	assert.Equal(t, "c", intros[0].ContactB.ID)
}

func TestRun_SummaryText(t *testing.T) {
	opts, err := parseFlags([]string{"-snapshot", writeSnapshot(t), "-summary", "-format", "text"}, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(opts, nil, &out))

	assert.Contains(t, out.String(), "Summary")
	assert.Contains(t, out.String(), "Actionable items")
}

func TestRun_BadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contacts": [`), 0o600))

	err := run(options{snapshot: path, format: "json"}, nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to parse snapshot")

	err = run(options{snapshot: filepath.Join(t.TempDir(), "missing.json"), format: "json"}, nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to read snapshot")
}
