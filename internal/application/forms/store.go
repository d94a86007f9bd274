package forms

import (
	"fmt"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/validation"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

// Store holds the current values and error map of one form. It is not safe
// for concurrent use; the Controller serialises access.
type Store struct {
	schema *validation.Schema
	values entities.FormValues
	errors entities.FieldErrors
}

// NewStore creates a store with every field of schema empty
func NewStore(schema *validation.Schema) *Store {
	return &Store{
		schema: schema,
		values: schema.Empty(),
		errors: entities.FieldErrors{},
	}
}

// Change sets one field and clears its error, if any. Validation is not re-run.
func (s *Store) Change(name, value string) error {
	if !s.schema.HasField(name) {
		return s.unknownField(name)
	}
	s.values[name] = value
	delete(s.errors, name)
	return nil
}

// ChangeAll sets several fields at once. An unknown name aborts before
// anything is written.
func (s *Store) ChangeAll(values entities.FormValues) error {
	for name := range values {
		if !s.schema.HasField(name) {
			return s.unknownField(name)
		}
	}
	for name, value := range values {
		s.values[name] = value
		delete(s.errors, name)
	}
	return nil
}

func (s *Store) unknownField(name string) error {
	return apperrors.NewValidationError(fmt.Sprintf("unknown field %q for %s form", name, s.schema.Kind))
}

// Values returns a copy of the current values
func (s *Store) Values() entities.FormValues {
	return s.values.Clone()
}

// Errors returns a copy of the current error map
func (s *Store) Errors() entities.FieldErrors {
	return s.errors.Clone()
}

// ReplaceErrors swaps in the error map of the latest validation
func (s *Store) ReplaceErrors(errs entities.FieldErrors) {
	s.errors = errs.Clone()
}

// ClearErrors empties the error map
func (s *Store) ClearErrors() {
	s.errors = entities.FieldErrors{}
}

// Reset empties every value and error
func (s *Store) Reset() {
	s.values = s.schema.Empty()
	s.errors = entities.FieldErrors{}
}
