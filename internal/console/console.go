// Package console implements the adapter's UI handles as plain terminal
// output for one-shot commands.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-priceform/pkg/adapter"
	"github.com/goliatone/go-priceform/pkg/notify"
)

var (
	successColor = lipgloss.Color("#4caf50")
	errorColor   = lipgloss.Color("#f44336")
)

// Styles controls how lines are decorated.
type Styles struct {
	Busy    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Price   lipgloss.Style
}

// DefaultStyles returns the green/red notification palette.
func DefaultStyles() Styles {
	return Styles{
		Busy:    lipgloss.NewStyle().Faint(true),
		Success: lipgloss.NewStyle().Foreground(successColor).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Price:   lipgloss.NewStyle().Bold(true),
	}
}

// Surface holds the three UI regions. Status lines go to status; the price
// goes to out when Print is called.
type Surface struct {
	mu       sync.Mutex
	out      io.Writer
	status   io.Writer
	styles   Styles
	label    string
	disabled bool
	price    string
	hasValue bool
}

var (
	_ adapter.SubmitControl = (*Surface)(nil)
	_ adapter.PriceOutput   = (*Surface)(nil)
	_ adapter.Notifier      = (*Surface)(nil)
)

// New constructs a Surface with the given submit label.
func New(out, status io.Writer, label string) *Surface {
	return &Surface{
		out:    out,
		status: status,
		styles: DefaultStyles(),
		label:  label,
		price:  adapter.Placeholder,
	}
}

// WithStyles replaces the styles.
func (s *Surface) WithStyles(styles Styles) *Surface {
	s.styles = styles
	return s
}

func (s *Surface) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *Surface) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

// SetDisabled prints the busy label when the control becomes disabled.
func (s *Surface) SetDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if disabled && !s.disabled {
		fmt.Fprintln(s.status, s.styles.Busy.Render(s.label))
	}
	s.disabled = disabled
}

// Disabled reports the submit control state.
func (s *Surface) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

func (s *Surface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = text
}

func (s *Surface) SetHasValue(has bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasValue = has
}

// Price returns the price output text and its has-value flag.
func (s *Surface) Price() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price, s.hasValue
}

// Notify prints the message immediately; a one-shot command has no time to
// let notifications linger.
func (s *Surface) Notify(kind notify.Kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	style := s.styles.Success
	marker := "✔"
	if kind == notify.KindError {
		style = s.styles.Error
		marker = "✖"
	}
	fmt.Fprintln(s.status, style.Render(marker+" "+notify.PlainText(message)))
}

// Print writes the price output region.
func (s *Surface) Print() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.price
	if s.hasValue {
		text = s.styles.Price.Render(text)
	}
	_, err := fmt.Fprintf(s.out, "Predicted price: %s\n", text)
	return err
}
