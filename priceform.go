// Package priceform is the quick entry point to the price form adapter. It
// re-exports the pieces most callers need and wires the default prediction
// client, so a front end only has to supply its UI handles.
package priceform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-priceform/pkg/adapter"
	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/predict"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

// Field is one submitted form entry.
type Field = snapshot.Field

// Handles aliases adapter.Handles for callers wiring their own front end.
type Handles = adapter.Handles

// Contract aliases formspec.Contract.
type Contract = formspec.Contract

// Outcome aliases adapter.Outcome.
type Outcome = adapter.Outcome

// NewClient exposes the prediction client constructor from the top-level
// module.
func NewClient(options ...predict.Option) *predict.Client {
	return predict.NewClient(options...)
}

// NewAdapter builds an adapter submitting to endpoint. An empty endpoint
// selects predict.DefaultEndpoint.
func NewAdapter(endpoint string, handles Handles, options ...adapter.Option) (*adapter.Adapter, error) {
	client := predict.NewClient(predict.WithEndpoint(endpoint))
	return adapter.New(client, handles, options...)
}

// Predict coerces fields and sends a single prediction request without any UI
// side effects.
func Predict(ctx context.Context, endpoint string, fields []Field, options ...predict.Option) (predict.Result, error) {
	client := predict.NewClient(append([]predict.Option{predict.WithEndpoint(endpoint)}, options...)...)
	return client.Predict(ctx, snapshot.Build(fields))
}

// LoadFields loads the field contract named by source: a file path, an
// http(s) URL, or empty for the embedded contract.
func LoadFields(ctx context.Context, source string, options ...formspec.LoaderOption) (Contract, error) {
	src, err := formspec.ParseSource(source)
	if err != nil {
		return Contract{}, fmt.Errorf("priceform: %w", err)
	}
	return formspec.LoadContract(ctx, formspec.NewLoader(options...), src, formspec.ParseOptions{})
}
