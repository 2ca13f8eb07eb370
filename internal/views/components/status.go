package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the row-count summary and the loaded file.
type StatusBar struct {
	container    *fyne.Container
	summaryLabel *widget.Label
	sourceLabel  *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.summaryLabel = widget.NewLabelWithStyle("No file loaded", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	sb.sourceLabel = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.summaryLabel,
		widget.NewSeparator(),
		sb.sourceLabel,
	)
}

func (sb *StatusBar) SetStatus(status string) {
	sb.summaryLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.summaryLabel.Text
}

func (sb *StatusBar) SetSource(source string) {
	sb.sourceLabel.SetText(source)
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.summaryLabel.SetText("No file loaded")
	sb.sourceLabel.SetText("")
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}
