package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientInput = errors.New("insufficient input")
	ErrUnresolvedDrug    = errors.New("unresolved drug")
)

// InsufficientInputError is returned when fewer than two entries carry a
// drug id. The caller should ask for more input; retrying will not help.
type InsufficientInputError struct {
	Resolved int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("at least two drugs with a catalog id are required, got %d", e.Resolved)
}

func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// UnresolvedDrugError is returned when an entry names a drug id the catalog
// does not know. Entries with an empty id are filtered instead.
type UnresolvedDrugError struct {
	Index  int
	DrugID string
}

func (e *UnresolvedDrugError) Error() string {
	return fmt.Sprintf("drug %d: id %q is not in the catalog", e.Index, e.DrugID)
}

func (e *UnresolvedDrugError) Is(target error) bool {
	return target == ErrUnresolvedDrug
}
