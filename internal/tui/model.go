// Package tui renders the price form as an interactive terminal program. The
// bubbletea update loop plays the role of the page's event loop: busy state
// and rendering happen in Update, the prediction request runs in a command.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/goliatone/go-priceform/pkg/adapter"
	"github.com/goliatone/go-priceform/pkg/formspec"
	"github.com/goliatone/go-priceform/pkg/notify"
	"github.com/goliatone/go-priceform/pkg/predict"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

// DefaultSubmitLabel is the resting label of the submit row.
const DefaultSubmitLabel = "Predict Price"

const minTick = 10 * time.Millisecond

// settledMsg carries the result of a submission's request back to Update.
type settledMsg struct {
	sub    *adapter.Submission
	result predict.Result
	err    error
}

// toastTickMsg asks Update to advance the notification lifecycle. Ticks from
// a timer that was re-armed since carry an old generation and are dropped.
type toastTickMsg struct {
	gen int
}

type field struct {
	spec   formspec.FieldSpec
	input  textinput.Model
	choice int
}

func (f field) isChoice() bool {
	return f.spec.Kind == formspec.KindChoice && len(f.spec.Choices) > 0
}

func (f field) value() string {
	if f.isChoice() {
		return f.spec.Choices[f.choice].Value
	}
	return f.input.Value()
}

// Model is the bubbletea model for the form.
type Model struct {
	ctx      context.Context
	contract formspec.Contract
	fields   []field
	focus    int

	control *control
	output  *output
	center  *notify.Center
	adapter *adapter.Adapter
	pending *adapter.Submission
	last    adapter.Outcome

	spinner spinner.Model
	styles  Styles
	width   int
	logger  *zap.Logger

	ticking bool
	tickGen int
	tickDue time.Time

	adapterOpts []adapter.Option
	centerOpts  []notify.Option
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to every prediction request.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithSubmitLabel overrides the resting submit label.
func WithSubmitLabel(label string) Option {
	return func(m *Model) {
		if label != "" {
			m.control.label = label
		}
	}
}

// WithStyles replaces the view styles.
func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithLogger attaches a logger, shared with the adapter.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAdapterOptions forwards options to the underlying adapter.
func WithAdapterOptions(options ...adapter.Option) Option {
	return func(m *Model) {
		m.adapterOpts = append(m.adapterOpts, options...)
	}
}

// WithCenterOptions forwards options to the notification center.
func WithCenterOptions(options ...notify.Option) Option {
	return func(m *Model) {
		m.centerOpts = append(m.centerOpts, options...)
	}
}

// New builds the form for contract, submitting through predictor.
func New(contract formspec.Contract, predictor adapter.Predictor, options ...Option) (*Model, error) {
	if len(contract.Fields) == 0 {
		return nil, errors.New("tui: contract has no fields")
	}

	m := &Model{
		ctx:      context.Background(),
		contract: contract,
		control:  &control{label: DefaultSubmitLabel},
		output:   &output{text: adapter.Placeholder},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   DefaultStyles(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}

	m.center = notify.NewCenter(m.centerOpts...)
	adapterOpts := append([]adapter.Option{adapter.WithLogger(m.logger)}, m.adapterOpts...)
	a, err := adapter.New(predictor, adapter.Handles{
		Submit:   m.control,
		Output:   m.output,
		Notifier: adapter.CenterNotifier{Center: m.center},
	}, adapterOpts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m.adapter = a

	m.fields = make([]field, len(contract.Fields))
	for i, spec := range contract.Fields {
		m.fields[i] = newField(spec)
	}
	if first := &m.fields[0]; !first.isChoice() {
		first.input.Focus()
	}
	return m, nil
}

func newField(spec formspec.FieldSpec) field {
	f := field{spec: spec}
	if f.isChoice() {
		if idx := spec.ChoiceIndex(spec.Default); idx >= 0 {
			f.choice = idx
		}
		return f
	}
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = spec.Description
	input.CharLimit = 64
	input.SetValue(spec.Default)
	f.input = input
	return f
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case settledMsg:
		return m, m.settle(msg)

	case toastTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		m.ticking = false
		m.center.Advance()
		return m, m.scheduleTick()

	case spinner.TickMsg:
		if !m.control.disabled {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.updateInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		return m.reset()
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "enter":
		switch m.focus {
		case m.submitRow():
			return m.submit()
		case m.resetRow():
			return m.reset()
		}
		return m.moveFocus(1)
	}

	if f := m.focusedField(); f != nil && f.isChoice() {
		switch msg.String() {
		case " ", "right", "l":
			f.choice = (f.choice + 1) % len(f.spec.Choices)
		case "left", "h":
			f.choice = (f.choice - 1 + len(f.spec.Choices)) % len(f.spec.Choices)
		}
		return nil
	}
	return m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	f := m.focusedField()
	if f == nil || f.isChoice() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// submit starts a submission unless one is already pending.
func (m *Model) submit() tea.Cmd {
	if m.control.disabled {
		m.logger.Debug("submit ignored while busy")
		return nil
	}

	sub := m.adapter.Begin(m.Values())
	m.pending = sub
	ctx := m.ctx
	run := func() tea.Msg {
		result, err := sub.Run(ctx)
		return settledMsg{sub: sub, result: result, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) settle(msg settledMsg) tea.Cmd {
	if msg.sub == nil {
		return nil
	}
	m.last = msg.sub.Settle(msg.result, msg.err)
	if m.pending == msg.sub {
		m.pending = nil
	}
	return m.scheduleTick()
}

// reset puts every field back to its default and clears the price output.
func (m *Model) reset() tea.Cmd {
	for i := range m.fields {
		f := &m.fields[i]
		if f.isChoice() {
			f.choice = 0
			if idx := f.spec.ChoiceIndex(f.spec.Default); idx >= 0 {
				f.choice = idx
			}
			continue
		}
		f.input.SetValue(f.spec.Default)
	}
	m.adapter.Reset()
	return nil
}

// scheduleTick arms a timer for the next notification phase change. An armed
// timer is replaced when a newer notification is due before it.
func (m *Model) scheduleTick() tea.Cmd {
	if m.center.Len() == 0 {
		return nil
	}
	deadline, ok := m.center.NextDeadline()
	if !ok {
		return nil
	}
	if m.ticking && !deadline.Before(m.tickDue) {
		return nil
	}
	wait := time.Until(deadline)
	if wait < minTick {
		wait = minTick
	}
	m.tickGen++
	m.ticking = true
	m.tickDue = deadline
	gen := m.tickGen
	return tea.Tick(wait, func(time.Time) tea.Msg { return toastTickMsg{gen: gen} })
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	rows := len(m.fields) + 2
	if f := m.focusedField(); f != nil && !f.isChoice() {
		f.input.Blur()
	}
	m.focus = (m.focus + delta + rows) % rows
	if f := m.focusedField(); f != nil && !f.isChoice() {
		return f.input.Focus()
	}
	return nil
}

func (m *Model) focusedField() *field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focus]
}

func (m *Model) submitRow() int { return len(m.fields) }
func (m *Model) resetRow() int  { return len(m.fields) + 1 }

// Values returns the current form fields in display order.
func (m *Model) Values() []snapshot.Field {
	values := make([]snapshot.Field, len(m.fields))
	for i, f := range m.fields {
		values[i] = snapshot.Field{Name: f.spec.Name, Value: f.value()}
	}
	return values
}

// Busy reports whether a submission is pending.
func (m *Model) Busy() bool {
	return m.control.disabled
}

// Price returns the price output text and its has-value flag.
func (m *Model) Price() (string, bool) {
	return m.output.text, m.output.hasValue
}

// SubmitLabel returns the label currently shown on the submit row.
func (m *Model) SubmitLabel() string {
	return m.control.label
}

// Notifications returns the notifications currently tracked.
func (m *Model) Notifications() []notify.Notification {
	return m.center.Active()
}

// LastOutcome returns the outcome of the most recently settled submission.
func (m *Model) LastOutcome() adapter.Outcome {
	return m.last
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	if toasts := m.viewToasts(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	title := "Price prediction"
	if m.contract.Summary != "" {
		title = m.contract.Summary
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	for i, f := range m.fields {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.FocusedLabel
		}
		b.WriteString(label.Render(f.spec.Label))
		if f.isChoice() {
			b.WriteString(m.styles.Choice.Render("‹ " + f.spec.Choices[f.choice].Label + " ›"))
		} else {
			b.WriteString(f.input.View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.viewSubmit(),
		" ",
		m.button("Reset", m.focus == m.resetRow()),
	))
	b.WriteString("\n")

	price := m.styles.Price
	if m.output.hasValue {
		price = m.styles.PriceFilled
	}
	b.WriteString(price.Render(m.output.text))
	b.WriteString("\n")

	b.WriteString(m.styles.Help.Render("tab/shift+tab move • space cycles • enter/ctrl+s predict • ctrl+r reset • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewSubmit() string {
	if m.control.disabled {
		return m.styles.BusyButton.Render(m.spinner.View() + " " + m.control.label)
	}
	return m.button(m.control.label, m.focus == m.submitRow())
}

func (m *Model) button(label string, focused bool) string {
	if focused {
		return m.styles.FocusButton.Render(label)
	}
	return m.styles.Button.Render(label)
}

// viewToasts stacks visible notifications, newest last, against the right
// edge when the width is known.
func (m *Model) viewToasts() string {
	var lines []string
	for _, n := range m.center.Active() {
		if n.Phase != notify.PhaseVisible && n.Phase != notify.PhaseLeaving {
			continue
		}
		style := m.styles.ToastSuccess
		if n.Kind == notify.KindError {
			style = m.styles.ToastError
		}
		if n.Phase == notify.PhaseLeaving {
			style = style.Faint(true)
		}
		line := style.Render(n.Message)
		if m.width > 0 {
			line = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// control is the submit row handle.
type control struct {
	label    string
	disabled bool
}

func (c *control) Label() string             { return c.label }
func (c *control) SetLabel(label string)     { c.label = label }
func (c *control) SetDisabled(disabled bool) { c.disabled = disabled }

// output is the price region handle.
type output struct {
	text     string
	hasValue bool
}

func (o *output) SetText(text string)  { o.text = text }
func (o *output) SetHasValue(has bool) { o.hasValue = has }
