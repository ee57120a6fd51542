package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

// Collector asks for every contract field that was not supplied up front.
// Answers are not validated: whatever is typed is forwarded.
type Collector struct {
	driver Driver
}

// Option configures a Collector.
type Option func(*Collector)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// NewCollector constructs a Collector backed by survey by default.
func NewCollector(options ...Option) *Collector {
	c := &Collector{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Collect returns the form fields in contract order. Values in preset are used
// as given; preset names the contract does not know are appended at the end.
func (c *Collector) Collect(ctx context.Context, contract formspec.Contract, preset []snapshot.Field) ([]snapshot.Field, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}

	given := make(map[string]string, len(preset))
	for _, field := range preset {
		given[field.Name] = field.Value
	}

	fields := make([]snapshot.Field, 0, len(contract.Fields)+len(preset))
	known := make(map[string]struct{}, len(contract.Fields))
	for _, spec := range contract.Fields {
		known[spec.Name] = struct{}{}
		if value, ok := given[spec.Name]; ok {
			fields = append(fields, snapshot.Field{Name: spec.Name, Value: value})
			continue
		}
		value, err := c.ask(ctx, spec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, snapshot.Field{Name: spec.Name, Value: value})
	}

	for _, field := range preset {
		if _, ok := known[field.Name]; ok {
			continue
		}
		if err := c.driver.Info(ctx, fmt.Sprintf("Forwarding %s as given", field.Name)); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (c *Collector) ask(ctx context.Context, spec formspec.FieldSpec) (string, error) {
	if spec.Kind == formspec.KindChoice && len(spec.Choices) > 0 {
		options := make([]string, len(spec.Choices))
		for i, choice := range spec.Choices {
			options[i] = choice.Label
		}
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      spec.Label,
			Options:      options,
			DefaultIndex: spec.ChoiceIndex(spec.Default),
			Help:         spec.Description,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(spec.Choices) {
			return "", fmt.Errorf("prompt: invalid selection for %s", spec.Name)
		}
		return spec.Choices[idx].Value, nil
	}

	answer, err := c.driver.Input(ctx, InputConfig{
		Message: spec.Label,
		Default: spec.Default,
		Help:    spec.Description,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
