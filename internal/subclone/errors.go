package subclone

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEnzyme is returned for recognition sequences that can't be parsed
	ErrInvalidEnzyme = errors.New("invalid enzyme")

	// ErrUnknownEnzyme is returned when an enzyme isn't in the built-in table
	ErrUnknownEnzyme = errors.New("unknown enzyme")

	// ErrBudgetExceeded is returned when a bin has more cycles or fragment
	// combinations than the configured limits allow
	ErrBudgetExceeded = errors.New("work budget exceeded")
)

// BinError is the failure of a single bin of records
type BinError struct {
	// Bin is the index of the bin in its design
	Bin int

	// Err is the reason the bin failed
	Err error
}

func (e *BinError) Error() string {
	return fmt.Sprintf("bin %d: %v", e.Bin, e.Err)
}

func (e *BinError) Unwrap() error {
	return e.Err
}
