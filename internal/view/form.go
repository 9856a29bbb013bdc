package view

import (
	"fmt"
	"sync"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// Form holds the three values of the add-taxpayer form.
// It implements session.Form; the controller resets it after a
// successful add.
type Form struct {
	mu     sync.Mutex
	values taxpayer.Fields
}

// Set stores value for the given input.
func (f *Form) Set(c taxpayer.Column, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch c {
	case taxpayer.ColumnFirstName:
		f.values.FirstName = value
	case taxpayer.ColumnLastName:
		f.values.LastName = value
	case taxpayer.ColumnAddress:
		f.values.Address = value
	default:
		return fmt.Errorf("%s is not a form input", c.Title())
	}
	return nil
}

// Fields returns the held values.
func (f *Form) Fields() taxpayer.Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Missing returns the required inputs that are blank. Submission should
// not be attempted while it is non-empty.
func (f *Form) Missing() []taxpayer.Violation {
	return taxpayer.Validate(f.Fields())
}

// Reset clears every input.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = taxpayer.Fields{}
}

// SubmitLabel is the submit trigger's caption for the given busy state.
func SubmitLabel(busy bool) string {
	if busy {
		return "Adding..."
	}
	return "Add TaxPayer"
}
