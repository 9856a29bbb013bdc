package taxpayer

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaCUE string

// requiredFields lists the schema fields in form order.
var requiredFields = []string{"firstName", "lastName", "address"}

// Violation describes one field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + " " + v.Message
}

// schema holds the compiled CUE definition. cue.Context is not safe for
// concurrent use, so every unification runs under mu.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

func loadSchema() error {
	schema.once.Do(func() {
		schema.ctx = cuecontext.New()
		v := schema.ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schema.err = fmt.Errorf("compile taxpayer schema: %w", err)
			return
		}
		schema.def = v.LookupPath(cue.ParsePath("#TaxPayer"))
		if err := schema.def.Err(); err != nil {
			schema.err = fmt.Errorf("lookup #TaxPayer: %w", err)
		}
	})
	return schema.err
}

// Normalize trims surrounding whitespace and converts each field to NFC,
// matching how values are stored and compared.
func Normalize(f Fields) Fields {
	return Fields{
		FirstName: normalizeText(f.FirstName),
		LastName:  normalizeText(f.LastName),
		Address:   normalizeText(f.Address),
	}
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Validate checks f against the taxpayer schema and returns one violation
// per missing field, in form order. A nil result means f is admissible.
//
// Validate normalizes f first; callers do not need to.
func Validate(f Fields) []Violation {
	if err := loadSchema(); err != nil {
		// The schema is embedded; failing to compile it is a programming error.
		panic(err)
	}

	schema.mu.Lock()
	defer schema.mu.Unlock()

	unified := schema.def.Unify(schema.ctx.Encode(Normalize(f)))

	var violations []Violation
	for _, name := range requiredFields {
		fv := unified.LookupPath(cue.ParsePath(name))
		if err := fv.Validate(cue.Concrete(true)); err != nil {
			violations = append(violations, Violation{Field: name, Message: "required"})
		}
	}
	return violations
}

// Describe joins violations into a single rejection description,
// e.g. "address required" or "firstName required, address required".
func Describe(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
