package validation

import (
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// InputKind is the HTML input a field renders as
type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputTel      InputKind = "tel"
	InputDate     InputKind = "date"
	InputTime     InputKind = "time"
	InputSelect   InputKind = "select"
	InputTextArea InputKind = "textarea"
)

// Field describes one input of a form
type Field struct {
	Name    string
	Input   InputKind
	Options []string
}

// Context is what a rule may look at besides the value itself
type Context struct {
	Values entities.FormValues
	Now    time.Time
}

// Rule writes at most one message per field into errs
type Rule interface {
	Apply(ctx Context, errs entities.FieldErrors)
}

type fieldRule struct {
	field  string
	checks []Check
}

// FieldRule runs checks in order against one field; the first failing check
// supplies the field's message.
func FieldRule(field string, checks ...Check) Rule {
	return fieldRule{field: field, checks: checks}
}

func (r fieldRule) Apply(ctx Context, errs entities.FieldErrors) {
	if _, taken := errs[r.field]; taken {
		return
	}
	value := ctx.Values[r.field]
	for _, check := range r.checks {
		if key, failed := check(value, ctx); failed {
			errs[r.field] = Message(key)
			return
		}
	}
}

type oneOfFieldsRule struct {
	fields []string
	key    MessageKey
}

// RequireAny flags every listed field when all of them are blank
func RequireAny(key MessageKey, fields ...string) Rule {
	return oneOfFieldsRule{fields: fields, key: key}
}

func (r oneOfFieldsRule) Apply(ctx Context, errs entities.FieldErrors) {
	for _, f := range r.fields {
		if !isBlank(ctx.Values[f]) {
			return
		}
	}
	for _, f := range r.fields {
		if _, taken := errs[f]; !taken {
			errs[f] = Message(r.key)
		}
	}
}

// Schema is a field list plus the rules that judge it
type Schema struct {
	Kind   entities.FormKind
	Fields []Field
	Rules  []Rule
}

// Validate runs every rule; violations on different fields are all reported.
func (s *Schema) Validate(values entities.FormValues, now time.Time) entities.ValidationResult {
	errs := entities.FieldErrors{}
	ctx := Context{Values: values, Now: now}
	for _, rule := range s.Rules {
		rule.Apply(ctx, errs)
	}
	return entities.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// HasField reports whether name is one of the schema's fields
func (s *Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Field returns the field descriptor by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Empty returns a value map with every field set to ""
func (s *Schema) Empty() entities.FormValues {
	values := make(entities.FormValues, len(s.Fields))
	for _, f := range s.Fields {
		values[f.Name] = ""
	}
	return values
}
