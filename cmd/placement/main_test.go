package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Placement/internal/config"
	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const offers = `
criteria:
  - {name: price, weight: -1}
  - {name: quality, weight: 2}
alternatives:
  - {name: mid, values: [10, 3]}
  - {name: cheap-good, values: [5, 8]}
  - {values: [20, 1]}
`

func TestRankCommandJSON(t *testing.T) {
	out, err := run(t, "rank", "--file", writeInput(t, offers), "--format", "json", "--explain")
	require.NoError(t, err)

	var got rankOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Ranking, 3)
	assert.Equal(t, "cheap-good", got.Ranking[0].Name)
	assert.Equal(t, 1, got.Ranking[0].Rank)
	assert.Equal(t, "mid", got.Ranking[1].Name)
	assert.Equal(t, "#2", got.Ranking[2].Name)
	assert.Equal(t, 2, got.Ranking[2].Index)

	require.NotNil(t, got.Explanation)
	assert.Equal(t, []string{"price", "quality"}, got.Explanation.Criteria)
	assert.Equal(t, []string{"cheap-good"}, got.ParetoFront)
}

func TestRankCommandTable(t *testing.T) {
	out, err := run(t, "rank", "-f", writeInput(t, offers))
	require.NoError(t, err)
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "cheap-good")
}

func TestRankCommandErrors(t *testing.T) {
	_, err := run(t, "rank")
	assert.Error(t, err)

	_, err = run(t, "rank", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "rank", "--file", writeInput(t, offers), "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "rank", "--file", writeInput(t, "criteria: [{name: a, weight: 0}]\nalternatives: [{values: [1]}]\n"))
	assert.ErrorIs(t, err, topsis.ErrInvalidCriterion)

	_, err = run(t, "rank", "--file", writeInput(t, "criteria: [{name: a, weight: 1}]\nalternatives: [{values: [1, 2]}]\n"))
	assert.ErrorIs(t, err, topsis.ErrDimensionMismatch)
}

const cluster = `
service: {maxcpu: 2, maxmem: 2147483648}
nodes:
  - {name: node1, cpu: 2, maxcpu: 8, mem: 4294967296, maxmem: 17179869184}
  - {name: node2, cpu: 6, maxcpu: 8, mem: 12884901888, maxmem: 17179869184}
  - {name: node3, cpu: 1, maxcpu: 4, mem: 2147483648, maxmem: 8589934592}
`

func TestPlaceCommand(t *testing.T) {
	t.Setenv("PLACEMENT_LOG_LEVEL", "error")

	out, err := run(t, "place", "--file", writeInput(t, cluster), "-o", "json")
	require.NoError(t, err)

	var got placeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "node1", got.Best)
	require.Len(t, got.Scores, 3)
	assert.Equal(t, "node2", got.Scores[1].Name)
}

func TestPlaceCommandInvalidNode(t *testing.T) {
	_, err := run(t, "place", "--file", writeInput(t, "service: {maxcpu: 1}\nnodes: [{name: n, maxcpu: 0, maxmem: 1}]\n"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger, err = newLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)
	logger.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")

	_, err = newLogger(config.LoggingConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(config.LoggingConfig{Level: "info", Format: "xml"}, &buf)
	assert.Error(t, err)
}
