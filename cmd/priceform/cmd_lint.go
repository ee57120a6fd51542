package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-priceform/pkg/formspec"
)

// errLintFailed is returned once violations have been printed.
var errLintFailed = errors.New("priceform: contract has violations")

func newLintCmd(a *app) *cobra.Command {
	var operationID string
	cmd := &cobra.Command{
		Use:   "lint [contract...]",
		Short: "Check field contracts against the submission coercion rules",
		Long: `Reports extensions the form ignores and fields whose declared type
disagrees with how the form sends them. Without arguments the configured
contract (or the embedded one) is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := args
			if len(locations) == 0 {
				locations = []string{a.cfg.Contract}
			}
			return a.runLint(cmd, locations, operationID)
		},
	}
	cmd.Flags().StringVar(&operationID, "operation", "", "operation ID to check (default: first POST operation)")
	return cmd
}

func (a *app) runLint(cmd *cobra.Command, locations []string, operationID string) error {
	ctx := cmd.Context()
	loader := formspec.NewLoader(formspec.WithRequestTimeout(a.cfg.Timeout))

	failed := false
	for _, location := range locations {
		src, err := formspec.ParseSource(location)
		if err != nil {
			return err
		}
		raw, err := loader.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("lint %s: %w", src.Location(), err)
		}

		opts := formspec.ParseOptions{OperationID: operationID}
		if opts.OperationID == "" && src.Kind() == formspec.SourceKindEmbedded {
			opts.OperationID = formspec.DefaultOperationID
		}
		violations, err := formspec.Lint(ctx, raw, opts)
		if err != nil {
			return fmt.Errorf("lint %s: %w", src.Location(), err)
		}

		a.logger.Debug("contract linted", zap.String("source", src.Location()), zap.Int("violations", len(violations)))
		for _, v := range violations {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", src.Location(), v)
		}
		if len(violations) > 0 {
			failed = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", src.Location())
	}

	if failed {
		return errLintFailed
	}
	return nil
}
