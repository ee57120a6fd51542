package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-priceform"
	"github.com/goliatone/go-priceform/internal/console"
	"github.com/goliatone/go-priceform/internal/prompt"
	"github.com/goliatone/go-priceform/pkg/adapter"
	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

type predictOptions struct {
	sets     []string
	noPrompt bool
	dryRun   bool
}

func newPredictCmd(a *app) *cobra.Command {
	opts := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Submit the form once and print the predicted price",
		Long: `Submits one prediction request. Fields come from --set name=value pairs;
contract fields left out are asked for when stdin is a terminal, otherwise
their contract defaults are sent.

Example:
  priceform predict --set area=7420 --set bedrooms=4 --set mainroad=1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPredict(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.sets, "set", "s", nil, "field value as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "never prompt for missing fields")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the request body instead of sending it")
	return cmd
}

func (a *app) runPredict(cmd *cobra.Command, opts *predictOptions) error {
	ctx := cmd.Context()

	preset, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	contract, err := priceform.LoadFields(ctx, a.cfg.Contract, formspec.WithRequestTimeout(a.cfg.Timeout))
	if err != nil {
		return err
	}

	var fields []snapshot.Field
	if !opts.noPrompt && stdinIsTerminal(cmd) {
		fields, err = prompt.NewCollector().Collect(ctx, contract, preset)
		if err != nil {
			return err
		}
	} else {
		fields = withDefaults(contract, preset)
	}

	if opts.dryRun {
		body, err := snapshot.Build(fields).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return err
	}

	surface := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.cfg.SubmitLabel)
	form, err := adapter.New(a.client(), adapter.Handles{
		Submit:   surface,
		Output:   surface,
		Notifier: surface,
	}, adapter.WithBusyLabel(a.cfg.BusyLabel), adapter.WithLogger(a.logger))
	if err != nil {
		return err
	}

	outcome := form.Submit(ctx, fields)
	if err := surface.Print(); err != nil {
		return err
	}
	if outcome.Err != nil {
		a.logger.Debug("submission failed", zap.Error(outcome.Err))
		return errSubmissionFailed
	}
	return nil
}

// parseSets turns name=value flags into fields, keeping their order. The value
// may be empty or contain further '=' characters.
func parseSets(sets []string) ([]snapshot.Field, error) {
	fields := make([]snapshot.Field, 0, len(sets))
	for _, raw := range sets {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("priceform: invalid --set %q, want name=value", raw)
		}
		fields = append(fields, snapshot.Field{Name: name, Value: value})
	}
	return fields, nil
}

// withDefaults fills contract fields missing from preset with their defaults.
// Contract order comes first; unknown preset names follow in the order given.
func withDefaults(contract formspec.Contract, preset []snapshot.Field) []snapshot.Field {
	given := make(map[string]string, len(preset))
	for _, field := range preset {
		given[field.Name] = field.Value
	}

	fields := make([]snapshot.Field, 0, len(contract.Fields)+len(preset))
	for _, spec := range contract.Fields {
		value, ok := given[spec.Name]
		if !ok {
			value = spec.Default
		}
		fields = append(fields, snapshot.Field{Name: spec.Name, Value: value})
	}
	for _, field := range preset {
		if _, ok := contract.Field(field.Name); !ok {
			fields = append(fields, field)
		}
	}
	return fields
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
