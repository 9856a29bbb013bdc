package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// Scenario defines a session scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Store selects the backend: "sqlite" (default) or "fake".
	// Injected faults require the fake store.
	Store string `yaml:"store,omitempty"`

	// Seed lists records added to the store before the flow runs.
	Seed []Person `yaml:"seed,omitempty"`

	// Flow contains the controller operations to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace and the final record list.
	Assertions []Assertion `yaml:"assertions"`
}

// Person is the YAML form of the three record inputs.
type Person struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Address   string `yaml:"address"`
}

// Fields converts p to the domain type.
func (p Person) Fields() taxpayer.Fields {
	return taxpayer.Fields{FirstName: p.FirstName, LastName: p.LastName, Address: p.Address}
}

// FlowStep is one controller operation.
type FlowStep struct {
	// Action is "refresh" or "submit".
	Action string `yaml:"action"`

	// Fields are the submitted values (submit only).
	Fields *Person `yaml:"fields,omitempty"`

	// Inject scripts the fake store for this step only:
	// "fetch_fault", "add_fault" or "reject".
	Inject string `yaml:"inject,omitempty"`

	// Reason is the rejection description for inject: reject.
	Reason string `yaml:"reason,omitempty"`

	// Expect is compared against what the controller returned.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected step outcome.
type ExpectClause struct {
	// Status is "replaced" or "unchanged" for refresh, and "added",
	// "rejected" or "fault" for submit.
	Status string `yaml:"status"`

	// TID is the expected assigned identifier (added only).
	TID taxpayer.TID `yaml:"tid,omitempty"`

	// Reason is the expected rejection description (rejected only).
	Reason string `yaml:"reason,omitempty"`
}

// Assertion validates the trace or the final record list.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected record count (record_count) or number of
	// matching steps (status_count).
	Count int `yaml:"count,omitempty"`

	// Expect holds record fields to match (record_present).
	// Keys: tid, first_name, last_name, address. Subset match.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Step is the 1-based flow step (busy_trail).
	Step int `yaml:"step,omitempty"`

	// Trail is the expected busy flag of each notification (busy_trail).
	Trail []bool `yaml:"trail,omitempty"`

	// Action and Status select steps (status_count).
	Action string `yaml:"action,omitempty"`
	Status string `yaml:"status,omitempty"`
}

// Step actions.
const (
	ActionRefresh = "refresh"
	ActionSubmit  = "submit"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFake   = "fake"
)

// Fault injections.
const (
	InjectFetchFault = "fetch_fault"
	InjectAddFault   = "add_fault"
	InjectReject     = "reject"
)

// Assertion type constants.
const (
	AssertRecordCount   = "record_count"
	AssertRecordPresent = "record_present"
	AssertRecordAbsent  = "record_absent"
	AssertBusyTrail     = "busy_trail"
	AssertStatusCount   = "status_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Store == "" {
		scenario.Store = StoreSQLite
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Store != StoreSQLite && s.Store != StoreFake {
		return fmt.Errorf("store %q: must be %q or %q", s.Store, StoreSQLite, StoreFake)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, s.Store, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, len(s.Flow), &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(i int, store string, step *FlowStep) error {
	switch step.Action {
	case ActionRefresh:
		if step.Fields != nil {
			return fmt.Errorf("flow[%d]: fields are only allowed on submit", i)
		}
	case ActionSubmit:
		if step.Fields == nil {
			return fmt.Errorf("flow[%d]: fields are required for submit", i)
		}
	case "":
		return fmt.Errorf("flow[%d]: action is required", i)
	default:
		return fmt.Errorf("flow[%d]: unknown action %q", i, step.Action)
	}

	if step.Inject != "" {
		if store != StoreFake {
			return fmt.Errorf("flow[%d]: inject requires store: fake", i)
		}
		switch step.Inject {
		case InjectFetchFault, InjectAddFault:
		case InjectReject:
			if step.Reason == "" {
				return fmt.Errorf("flow[%d]: reason is required for inject: reject", i)
			}
		default:
			return fmt.Errorf("flow[%d]: unknown inject %q", i, step.Inject)
		}
	}

	if step.Expect != nil && step.Expect.Status == "" {
		return fmt.Errorf("flow[%d].expect: status is required", i)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index, steps int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRecordCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for record_count", index)
		}
	case AssertRecordPresent, AssertRecordAbsent:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
		for key := range a.Expect {
			if _, ok := recordKeys[key]; !ok {
				return fmt.Errorf("assertions[%d]: unknown record field %q", index, key)
			}
		}
	case AssertBusyTrail:
		if a.Step < 1 || a.Step > steps {
			return fmt.Errorf("assertions[%d]: step must be between 1 and %d", index, steps)
		}
		if len(a.Trail) == 0 {
			return fmt.Errorf("assertions[%d]: trail is required for busy_trail", index)
		}
	case AssertStatusCount:
		if a.Action == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: action and status are required for status_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
