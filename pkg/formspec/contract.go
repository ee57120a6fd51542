package formspec

import (
	"context"
	"errors"
	"fmt"
)

// LoadContract reads src with loader and parses the operation named by
// opts.OperationID, falling back to DefaultOperationID for the embedded
// contract.
func LoadContract(ctx context.Context, loader *Loader, src Source, opts ParseOptions) (Contract, error) {
	if src == nil {
		return Contract{}, errors.New("formspec: source is nil")
	}
	if loader == nil {
		loader = NewLoader()
	}
	raw, err := loader.Load(ctx, src)
	if err != nil {
		return Contract{}, fmt.Errorf("formspec: load %s: %w", src.Location(), err)
	}
	if opts.OperationID == "" && src.Kind() == SourceKindEmbedded {
		opts.OperationID = DefaultOperationID
	}
	return Parse(ctx, raw, opts)
}

// Default parses the embedded contract.
func Default(ctx context.Context) (Contract, error) {
	return LoadContract(ctx, NewLoader(), EmbeddedSource(), ParseOptions{})
}
