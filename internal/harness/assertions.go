package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// recordKeys maps assertion keys to record values.
var recordKeys = map[string]func(taxpayer.Record) string{
	"tid":        func(r taxpayer.Record) string { return fmt.Sprint(int64(r.TID)) },
	"first_name": func(r taxpayer.Record) string { return r.FirstName },
	"last_name":  func(r taxpayer.Record) string { return r.LastName },
	"address":    func(r taxpayer.Record) string { return r.Address },
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s -> %s\n", event.Seq, event.Action, event.Status)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. An empty slice means all assertions passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertRecordCount:
		return assertRecordCount(result, a)
	case AssertRecordPresent:
		return assertRecordPresent(result, a, true)
	case AssertRecordAbsent:
		return assertRecordPresent(result, a, false)
	case AssertBusyTrail:
		return assertBusyTrail(result, a)
	case AssertStatusCount:
		return assertStatusCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRecordCount(result *Result, a Assertion) error {
	if len(result.Records) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRecordCount,
		Expected: fmt.Sprintf("%d records", a.Count),
		Actual:   fmt.Sprintf("%d records", len(result.Records)),
		Trace:    result.Trace,
	}
}

// assertRecordPresent checks whether some record matches every expected
// field. want selects record_present (true) or record_absent (false).
func assertRecordPresent(result *Result, a Assertion, want bool) error {
	found := false
	for _, r := range result.Records {
		if matchRecord(r, a.Expect) {
			found = true
			break
		}
	}
	if found == want {
		return nil
	}

	typ, actual := AssertRecordPresent, "no matching record"
	if !want {
		typ, actual = AssertRecordAbsent, "matching record found"
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("record %v", a.Expect),
		Actual:   actual,
		Trace:    result.Trace,
	}
}

// matchRecord compares as text so YAML ints match numeric TIDs.
func matchRecord(r taxpayer.Record, expect map[string]interface{}) bool {
	for key, want := range expect {
		get, ok := recordKeys[key]
		if !ok || get(r) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func assertBusyTrail(result *Result, a Assertion) error {
	if a.Step < 1 || a.Step > len(result.Trace) {
		return fmt.Errorf("step %d out of range", a.Step)
	}
	got := result.Trace[a.Step-1].Busy
	if reflect.DeepEqual(got, a.Trail) {
		return nil
	}
	return &AssertionError{
		Type:     AssertBusyTrail,
		Expected: fmt.Sprintf("step %d busy trail %v", a.Step, a.Trail),
		Actual:   fmt.Sprintf("%v", got),
		Trace:    result.Trace,
	}
}

func assertStatusCount(result *Result, a Assertion) error {
	count := 0
	for _, event := range result.Trace {
		if event.Action == a.Action && event.Status == a.Status {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertStatusCount,
		Expected: fmt.Sprintf("%s %s x%d", a.Action, a.Status, a.Count),
		Actual:   fmt.Sprintf("x%d", count),
		Trace:    result.Trace,
	}
}
