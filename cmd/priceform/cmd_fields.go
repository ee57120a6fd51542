package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-priceform"
	"github.com/goliatone/go-priceform/pkg/formspec"
)

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the form fields from the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := priceform.LoadFields(cmd.Context(), a.cfg.Contract, formspec.WithRequestTimeout(a.cfg.Timeout))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fieldsTable(contract))
			return err
		},
	}
}

func fieldsTable(contract formspec.Contract) string {
	rows := make([][]string, 0, len(contract.Fields))
	for _, field := range contract.Fields {
		rows = append(rows, []string{
			field.Name,
			field.Label,
			string(field.Kind),
			field.Coercion().String(),
			field.Default,
			choiceList(field.Choices),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "LABEL", "KIND", "SENT AS", "DEFAULT", "CHOICES").
		Rows(rows...).
		String()
}

func choiceList(choices []formspec.Choice) string {
	if len(choices) == 0 {
		return ""
	}
	parts := make([]string, len(choices))
	for i, choice := range choices {
		if choice.Label == "" || choice.Label == choice.Value {
			parts[i] = choice.Value
			continue
		}
		parts[i] = choice.Value + "=" + choice.Label
	}
	return strings.Join(parts, ", ")
}
