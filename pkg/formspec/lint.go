package formspec

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-priceform/pkg/snapshot"
)

var supportedExtensions = []string{choiceLabelsExtensionKey, orderExtensionKey}

// Violation is a problem Lint found in a contract.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint checks the request schema of the selected operation for extensions
// the parser ignores and for declared types that disagree with how the
// snapshot coerces each field. Load or validation failures are returned as
// errors, not violations.
func Lint(ctx context.Context, raw []byte, opts ParseOptions) ([]Violation, error) {
	target, err := resolve(ctx, raw, opts)
	if err != nil {
		return nil, err
	}

	base := []string{"operation", target.op.OperationID, "requestBody"}
	names := make([]string, 0, len(target.schema.Properties))
	for name := range target.schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []Violation
	for _, name := range names {
		ref := target.schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		path := appendPath(base, "properties."+name)
		schema := flatten(ref.Value)
		result = append(result, lintExtensions(path, schema)...)
		result = append(result, lintCoercion(path, convertField(name, schema))...)
	}

	for _, name := range snapshot.CoercedFields() {
		if _, ok := target.schema.Properties[name]; ok {
			continue
		}
		result = append(result, Violation{
			Location: formatLocation(base),
			Message:  fmt.Sprintf("field %q has a coercion rule but is not declared", name),
		})
	}
	return result, nil
}

func lintExtensions(path []string, schema *openapi3.Schema) []Violation {
	keys := make([]string, 0, len(schema.Extensions))
	for key := range schema.Extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		value := schema.Extensions[key]
		switch key {
		case orderExtensionKey:
			if _, ok := intExtension(value); !ok {
				result = append(result, Violation{
					Location: formatLocation(path),
					Message:  fmt.Sprintf("%s must be an integer (got %T)", key, value),
				})
			}
		case choiceLabelsExtensionKey:
			result = append(result, lintChoiceLabels(path, schema, value)...)
		default:
			result = append(result, Violation{
				Location: formatLocation(path),
				Message:  fmt.Sprintf("unsupported extension key %q (supported: %s)", key, strings.Join(supportedExtensions, ", ")),
			})
		}
	}
	return result
}

func lintChoiceLabels(path []string, schema *openapi3.Schema, value any) []Violation {
	labels, ok := value.(map[string]any)
	if !ok {
		return []Violation{{
			Location: formatLocation(path),
			Message:  fmt.Sprintf("%s must be an object (got %T)", choiceLabelsExtensionKey, value),
		}}
	}

	allowed := make(map[string]struct{}, len(schema.Enum))
	for _, v := range schema.Enum {
		allowed[stringify(v)] = struct{}{}
	}

	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		location := formatLocation(appendPath(path, choiceLabelsExtensionKey+"."+key))
		if _, ok := allowed[key]; !ok {
			result = append(result, Violation{Location: location, Message: "label for a value outside the enum"})
			continue
		}
		if _, ok := labels[key].(string); !ok {
			result = append(result, Violation{
				Location: location,
				Message:  fmt.Sprintf("label must be a string (got %T)", labels[key]),
			})
		}
	}
	return result
}

func lintCoercion(path []string, field FieldSpec) []Violation {
	var message string
	switch field.Coercion() {
	case snapshot.CoerceFloat:
		if field.Kind != KindNumber && field.Kind != KindInteger {
			message = fmt.Sprintf("sent as a number but declared %s", field.Kind)
		}
	case snapshot.CoerceInt:
		if field.Kind != KindInteger {
			message = fmt.Sprintf("sent as an integer but declared %s", field.Kind)
		}
	case snapshot.CoerceFlag:
		if !isFlagChoice(field) {
			message = "sent unchanged; expected an enum of '1' and '0'"
		}
	default:
		if field.Kind == KindNumber || field.Kind == KindInteger {
			message = fmt.Sprintf("declared %s but sent as a string", field.Kind)
		}
	}
	if message == "" {
		return nil
	}
	return []Violation{{Location: formatLocation(path), Message: message}}
}

func isFlagChoice(field FieldSpec) bool {
	if field.Kind != KindChoice {
		return false
	}
	for _, choice := range field.Choices {
		if choice.Value != "1" && choice.Value != "0" {
			return false
		}
	}
	return true
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
