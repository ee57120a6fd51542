package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-priceform"
	"github.com/goliatone/go-priceform/internal/tui"
	"github.com/goliatone/go-priceform/pkg/adapter"
	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/notify"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive price form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI(cmd)
		},
	}
}

func (a *app) runUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	contract, err := priceform.LoadFields(ctx, a.cfg.Contract, formspec.WithRequestTimeout(a.cfg.Timeout))
	if err != nil {
		return err
	}

	model, err := tui.New(contract, a.client(),
		tui.WithContext(ctx),
		tui.WithSubmitLabel(a.cfg.SubmitLabel),
		tui.WithLogger(a.logger),
		tui.WithAdapterOptions(adapter.WithBusyLabel(a.cfg.BusyLabel)),
		tui.WithCenterOptions(notify.WithTiming(a.cfg.Notifications.Timing())),
	)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("priceform: ui: %w", err)
	}
	return nil
}
