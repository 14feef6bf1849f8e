package filter

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the structural constraints of a filter state
func (s State) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid filter state: %w", err)
	}
	return nil
}
