package tui

import "github.com/charmbracelet/lipgloss"

// Palette for the form. Success and Failure match the console notifications.
var (
	Success   = lipgloss.Color("#4caf50")
	Failure   = lipgloss.Color("#f44336")
	Accent    = lipgloss.Color("#2196F3")
	Muted     = lipgloss.Color("#8a8f98")
	Highlight = lipgloss.Color("#ffffff")
)

// Styles groups every style the view uses.
type Styles struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Choice       lipgloss.Style
	Button       lipgloss.Style
	FocusButton  lipgloss.Style
	BusyButton   lipgloss.Style
	Price        lipgloss.Style
	PriceFilled  lipgloss.Style
	Toast        lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the stock look.
func DefaultStyles() Styles {
	button := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(Muted)
	price := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()).BorderForeground(Muted).Width(28)
	toast := lipgloss.NewStyle().Padding(0, 2).Foreground(Highlight).Bold(true)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(Accent).MarginBottom(1),
		Label:        lipgloss.NewStyle().Width(22),
		FocusedLabel: lipgloss.NewStyle().Width(22).Foreground(Accent).Bold(true),
		Choice:       lipgloss.NewStyle().Foreground(Accent),
		Button:       button,
		FocusButton:  button.BorderForeground(Accent).Bold(true),
		BusyButton:   button.Faint(true),
		Price:        price,
		PriceFilled:  price.BorderForeground(Success).Bold(true),
		Toast:        toast,
		ToastSuccess: toast.Background(Success),
		ToastError:   toast.Background(Failure),
		Help:         lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
	}
}
