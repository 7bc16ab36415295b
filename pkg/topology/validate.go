package topology

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/topoviz/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field-level constraints such as non-negative connection
// counts.
//
// Empty ids and edges that reference missing nodes are not errors here: they
// are dropped with a diagnostic when the simulation is built, and the rest of
// the graph is still laid out.
func Validate(t *Topology) error {
	if t == nil {
		return errors.New(errors.ErrCodeInvalidInput, "topology is nil")
	}
	return errors.FromValidator(errors.ErrCodeInvalidInput, validate.Struct(t), "invalid topology")
}
