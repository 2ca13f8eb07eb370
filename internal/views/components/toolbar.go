package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the file selector row and the filter action buttons.
type Toolbar struct {
	fileContainer   *fyne.Container
	actionContainer *fyne.Container

	pathEntry    *widget.Entry
	browseButton *widget.Button
	loadButton   *widget.Button
	applyButton  *widget.Button
	resetButton  *widget.Button
	exportButton *widget.Button

	browseHandler func()
	loadHandler   func()
	applyHandler  func()
	resetHandler  func()
	exportHandler func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.pathEntry = widget.NewEntry()
	t.pathEntry.SetPlaceHolder("Path to an .xlsx or .xls file")

	t.browseButton = widget.NewButton("Browse", func() { call(t.browseHandler) })
	t.loadButton = widget.NewButton("Load File", func() { call(t.loadHandler) })
	t.loadButton.Importance = widget.HighImportance

	t.applyButton = widget.NewButton("Apply Filters", func() { call(t.applyHandler) })
	t.applyButton.Importance = widget.HighImportance
	t.resetButton = widget.NewButton("Reset Filters", func() { call(t.resetHandler) })
	t.exportButton = widget.NewButton("Export Results", func() { call(t.exportHandler) })
}

func (t *Toolbar) buildLayout() {
	buttons := container.NewHBox(t.browseButton, t.loadButton)
	t.fileContainer = container.NewBorder(nil, nil, nil, buttons, t.pathEntry)

	t.actionContainer = container.NewHBox(
		t.applyButton,
		t.resetButton,
		widget.NewSeparator(),
		t.exportButton,
	)
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}

func (t *Toolbar) SetBrowseHandler(handler func()) { t.browseHandler = handler }
func (t *Toolbar) SetLoadHandler(handler func()) { t.loadHandler = handler }
func (t *Toolbar) SetApplyHandler(handler func()) { t.applyHandler = handler }
func (t *Toolbar) SetResetHandler(handler func()) { t.resetHandler = handler }
func (t *Toolbar) SetExportHandler(handler func()) { t.exportHandler = handler }

// Path returns the trimmed file path typed or browsed into the entry.
func (t *Toolbar) Path() string {
	return trimSpace(t.pathEntry.Text)
}

func (t *Toolbar) SetPath(path string) {
	t.pathEntry.SetText(path)
}

// EnableDataOperations toggles the buttons that need a loaded dataset.
func (t *Toolbar) EnableDataOperations(enabled bool) {
	for _, b := range []*widget.Button{t.applyButton, t.resetButton, t.exportButton} {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (t *Toolbar) GetFileContainer() *fyne.Container {
	return t.fileContainer
}

func (t *Toolbar) GetActionContainer() *fyne.Container {
	return t.actionContainer
}
