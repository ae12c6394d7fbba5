package helpers

import (
	"errors"

	"github.com/gookit/validate"

	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Validate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

// StatusFor maps the ledger's error taxonomy onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrEntryNotFound),
		errors.Is(err, types.ErrAccountNotFound),
		errors.Is(err, types.ErrProductNotFound):
		return 404
	case errors.Is(err, types.ErrUnbalancedEntry),
		errors.Is(err, types.ErrEmptyEntry),
		errors.Is(err, types.ErrInvalidAccount),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrInsufficientStock),
		errors.Is(err, types.ErrAlreadyCancelled):
		return 422
	case errors.Is(err, types.ErrConcurrencyConflict):
		return 409
	default:
		return 500
	}
}
