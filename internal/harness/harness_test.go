package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

func TestRun_Scenarios(t *testing.T) {
	matches, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ExpectIsCompared(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_expectation
description: "An add that actually succeeds is expected to be rejected"
flow:
  - action: submit
    fields: {first_name: Ann, last_name: Lee, address: "1 Main St"}
    expect:
      status: rejected
      reason: "address required"
assertions:
  - type: record_count
    count: 1
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `expected status "rejected", got "added"`)
	assert.Contains(t, result.Errors[1], `expected reason "address required", got ""`)
}

func TestRun_AssertionFailureIsReported(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_count
description: "Counts one record too many"
flow:
  - action: refresh
assertions:
  - type: record_count
    count: 1
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: record_count")
	assert.Contains(t, result.Errors[0], "[1] refresh -> replaced")
}

func TestRun_FaultsAreScopedToTheirStep(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: scoped_fault
description: "A fetch fault applies to one step only"
store: fake
seed:
  - {first_name: Ann, last_name: Lee, address: "1 Main St"}
flow:
  - action: refresh
    inject: fetch_fault
  - action: refresh
assertions:
  - type: record_count
    count: 1
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	require.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "unchanged", result.Trace[0].Status)
	assert.Equal(t, 0, result.Trace[0].Records)
	assert.Equal(t, "replaced", result.Trace[1].Status)
	assert.Equal(t, []taxpayer.Record{
		{TID: 1, FirstName: "Ann", LastName: "Lee", Address: "1 Main St"},
	}, result.Records)
}

func TestRun_SeedRejected(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_seed
description: "Seeds go through store validation"
seed:
  - {first_name: Ann, last_name: "", address: "1 Main St"}
flow:
  - action: refresh
assertions:
  - type: record_count
    count: 0
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lastName required")
}
