package taxpayer

import "fmt"

// TID is the store-assigned taxpayer identifier.
type TID int64

// Record is a persisted taxpayer.
type Record struct {
	TID       TID    `json:"tid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

// Fields are the user-supplied values for a new record.
// The JSON names double as the field names in the validation schema.
type Fields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

// Outcome is the result of asking a store to add a record.
//
// An Outcome is either ok, carrying the new TID, or err, carrying a
// human-readable rejection. Build one with Ok or Err; the zero value is an
// err outcome with an empty reason and should not be produced by stores.
type Outcome struct {
	ok     bool
	tid    TID
	reason string
}

// Ok returns a success outcome for the given TID.
func Ok(tid TID) Outcome {
	return Outcome{ok: true, tid: tid}
}

// Err returns a rejection outcome with the given description.
func Err(reason string) Outcome {
	return Outcome{reason: reason}
}

// IsOk reports whether the store accepted the record.
func (o Outcome) IsOk() bool {
	return o.ok
}

// TID returns the assigned identifier. It is zero for err outcomes.
func (o Outcome) TID() TID {
	return o.tid
}

// Reason returns the rejection description. It is empty for ok outcomes.
func (o Outcome) Reason() string {
	return o.reason
}

func (o Outcome) String() string {
	if o.ok {
		return fmt.Sprintf("ok(%d)", o.tid)
	}
	return fmt.Sprintf("err(%q)", o.reason)
}
