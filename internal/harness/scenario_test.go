package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "Mount the session"
flow:
  - action: refresh
assertions:
  - type: record_count
    count: 0
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "minimal", scenario.Name)
	assert.Equal(t, StoreSQLite, scenario.Store, "store defaults to sqlite")
	assert.Len(t, scenario.Flow, 1)
	assert.Equal(t, ActionRefresh, scenario.Flow[0].Action)
	assert.Len(t, scenario.Assertions, 1)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Checked(t *testing.T) {
	matches, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			assert.NoError(t, err)
		})
	}
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `
description: d
flow: [{action: refresh}]
assertions: [{type: record_count}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: n
flow: [{action: refresh}]
assertions: [{type: record_count}]
`,
			wantErr: "description is required",
		},
		{
			name: "unknown store",
			yaml: `
name: n
description: d
store: postgres
flow: [{action: refresh}]
assertions: [{type: record_count}]
`,
			wantErr: `store "postgres"`,
		},
		{
			name: "empty flow",
			yaml: `
name: n
description: d
flow: []
assertions: [{type: record_count}]
`,
			wantErr: "flow list is required",
		},
		{
			name: "no assertions",
			yaml: `
name: n
description: d
flow: [{action: refresh}]
`,
			wantErr: "assertions list is required",
		},
		{
			name: "unknown action",
			yaml: `
name: n
description: d
flow: [{action: delete}]
assertions: [{type: record_count}]
`,
			wantErr: `flow[0]: unknown action "delete"`,
		},
		{
			name: "submit without fields",
			yaml: `
name: n
description: d
flow: [{action: submit}]
assertions: [{type: record_count}]
`,
			wantErr: "fields are required for submit",
		},
		{
			name: "inject on sqlite",
			yaml: `
name: n
description: d
flow: [{action: refresh, inject: fetch_fault}]
assertions: [{type: record_count}]
`,
			wantErr: "inject requires store: fake",
		},
		{
			name: "reject without reason",
			yaml: `
name: n
description: d
store: fake
flow: [{action: submit, inject: reject, fields: {first_name: a, last_name: b, address: c}}]
assertions: [{type: record_count}]
`,
			wantErr: "reason is required",
		},
		{
			name: "expect without status",
			yaml: `
name: n
description: d
flow: [{action: refresh, expect: {tid: 3}}]
assertions: [{type: record_count}]
`,
			wantErr: "flow[0].expect: status is required",
		},
		{
			name: "unknown assertion",
			yaml: `
name: n
description: d
flow: [{action: refresh}]
assertions: [{type: trace_order}]
`,
			wantErr: `unknown assertion type "trace_order"`,
		},
		{
			name: "unknown record field",
			yaml: `
name: n
description: d
flow: [{action: refresh}]
assertions: [{type: record_present, expect: {ssn: 1}}]
`,
			wantErr: `unknown record field "ssn"`,
		},
		{
			name: "busy trail step out of range",
			yaml: `
name: n
description: d
flow: [{action: refresh}]
assertions: [{type: busy_trail, step: 2, trail: [true]}]
`,
			wantErr: "step must be between 1 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
