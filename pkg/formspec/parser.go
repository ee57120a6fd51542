package formspec

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultOperationID names the prediction operation in the embedded contract.
const DefaultOperationID = "predictPrice"

const (
	orderExtensionKey        = "x-order"
	choiceLabelsExtensionKey = "x-choice-labels"
)

// ParseOptions tunes Parse.
type ParseOptions struct {
	// OperationID selects the operation; empty picks the first POST operation
	// by path.
	OperationID string
	// SkipValidation disables document validation.
	SkipValidation bool
}

// Parse reads an OpenAPI document and extracts the request fields of the
// prediction operation.
func Parse(ctx context.Context, raw []byte, opts ParseOptions) (Contract, error) {
	target, err := resolve(ctx, raw, opts)
	if err != nil {
		return Contract{}, err
	}

	required := make(map[string]struct{}, len(target.schema.Required))
	for _, name := range target.schema.Required {
		required[name] = struct{}{}
	}

	fields := make([]FieldSpec, 0, len(target.schema.Properties))
	for name, ref := range target.schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		field := convertField(name, flatten(ref.Value))
		_, field.Required = required[name]
		fields = append(fields, field)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Name < fields[j].Name
	})

	return Contract{
		OperationID: target.op.OperationID,
		Method:      target.method,
		Path:        target.path,
		Summary:     plainText(target.op.Summary),
		Fields:      fields,
	}, nil
}

// operationTarget is the operation selected from a document together with
// its flattened request schema.
type operationTarget struct {
	path   string
	method string
	op     *openapi3.Operation
	schema *openapi3.Schema
}

func resolve(ctx context.Context, raw []byte, opts ParseOptions) (operationTarget, error) {
	if err := ctx.Err(); err != nil {
		return operationTarget{}, err
	}
	if len(raw) == 0 {
		return operationTarget{}, errors.New("formspec parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return operationTarget{}, fmt.Errorf("formspec parser: load document: %w", err)
	}
	if !opts.SkipValidation {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return operationTarget{}, fmt.Errorf("formspec parser: validate: %w", err)
		}
	}

	path, method, op := findOperation(doc, opts.OperationID)
	if op == nil {
		if opts.OperationID != "" {
			return operationTarget{}, fmt.Errorf("formspec parser: operation %q not found", opts.OperationID)
		}
		return operationTarget{}, errors.New("formspec parser: no POST operation found")
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return operationTarget{}, fmt.Errorf("formspec parser: operation %q has no JSON request schema", op.OperationID)
	}
	return operationTarget{path: path, method: method, op: op, schema: schema}, nil
}

func findOperation(doc *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	if doc.Paths == nil {
		return "", "", nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			if operationID != "" && op.OperationID == operationID {
				return path, method, op
			}
			if operationID == "" && method == "POST" {
				return path, method, op
			}
		}
	}
	return "", "", nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return flatten(mt.Schema.Value)
		}
	}
	return nil
}

// flatten folds allOf members into a single schema. Properties set on the
// outer schema win over the members.
func flatten(schema *openapi3.Schema) *openapi3.Schema {
	if len(schema.AllOf) == 0 {
		return schema
	}

	merged := &openapi3.Schema{Extensions: map[string]any{}}
	for _, member := range schema.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		overlay(merged, flatten(member.Value))
	}
	overlay(merged, schema)
	merged.AllOf = nil
	return merged
}

func overlay(dst, src *openapi3.Schema) {
	if src.Type != nil && len(src.Type.Slice()) > 0 {
		dst.Type = src.Type
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if len(src.Enum) > 0 {
		dst.Enum = src.Enum
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if len(src.Properties) > 0 {
		if dst.Properties == nil {
			dst.Properties = openapi3.Schemas{}
		}
		for name, prop := range src.Properties {
			dst.Properties[name] = prop
		}
	}
	dst.Required = append(dst.Required, src.Required...)
	for key, value := range src.Extensions {
		if dst.Extensions == nil {
			dst.Extensions = map[string]any{}
		}
		dst.Extensions[key] = value
	}
}

func convertField(name string, schema *openapi3.Schema) FieldSpec {
	field := FieldSpec{
		Name:        name,
		Label:       plainText(schema.Title),
		Description: plainText(schema.Description),
		Order:       math.MaxInt32,
	}
	if field.Label == "" {
		field.Label = name
	}
	if order, ok := intExtension(schema.Extensions[orderExtensionKey]); ok {
		field.Order = order
	}
	if schema.Default != nil {
		field.Default = stringify(schema.Default)
	}

	switch {
	case len(schema.Enum) > 0:
		field.Kind = KindChoice
		labels, _ := schema.Extensions[choiceLabelsExtensionKey].(map[string]any)
		for _, value := range schema.Enum {
			choice := Choice{Value: stringify(value)}
			if label, ok := labels[choice.Value].(string); ok && plainText(label) != "" {
				choice.Label = plainText(label)
			} else {
				choice.Label = choice.Value
			}
			field.Choices = append(field.Choices, choice)
		}
	case hasType(schema, "integer"):
		field.Kind = KindInteger
	case hasType(schema, "number"):
		field.Kind = KindNumber
	default:
		field.Kind = KindText
	}
	return field
}

func hasType(schema *openapi3.Schema, want string) bool {
	if schema.Type == nil {
		return false
	}
	for _, typ := range schema.Type.Slice() {
		if typ == want {
			return true
		}
	}
	return false
}

func intExtension(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	}
	return 0, false
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
