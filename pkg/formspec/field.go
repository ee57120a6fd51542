// Package formspec loads the contract of the prediction endpoint and turns
// its request schema into the list of fields a front end should collect.
//
// The contract only decides what is asked for and how it is labelled. How
// values are typed on the wire is fixed by package snapshot.
package formspec

import "github.com/goliatone/go-priceform/pkg/snapshot"

// Kind is the input style of a field.
type Kind string

const (
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindChoice  Kind = "choice"
	KindText    Kind = "text"
)

// Choice is one allowed value of a choice field.
type Choice struct {
	Value string
	Label string
}

// FieldSpec describes one form field.
type FieldSpec struct {
	Name        string
	Label       string
	Description string
	Kind        Kind
	Choices     []Choice
	Default     string
	Required    bool
	Order       int
}

// Coercion reports how the field's value will be typed when submitted.
func (f FieldSpec) Coercion() snapshot.Coercion {
	return snapshot.CoercionFor(f.Name)
}

// ChoiceIndex returns the position of value among the choices, or -1.
func (f FieldSpec) ChoiceIndex(value string) int {
	for i, choice := range f.Choices {
		if choice.Value == value {
			return i
		}
	}
	return -1
}

// Contract is the parsed description of the prediction operation.
type Contract struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
	Fields      []FieldSpec
}

// Field looks up a field by name.
func (c Contract) Field(name string) (FieldSpec, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Names lists field names in display order.
func (c Contract) Names() []string {
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Defaults returns one snapshot.Field per contract field carrying its default.
func (c Contract) Defaults() []snapshot.Field {
	fields := make([]snapshot.Field, 0, len(c.Fields))
	for _, field := range c.Fields {
		fields = append(fields, snapshot.Field{Name: field.Name, Value: field.Default})
	}
	return fields
}
