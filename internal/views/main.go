package views

import (
	"sheet-sifter/internal/controllers"
	"sheet-sifter/internal/models"
	"sheet-sifter/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

var _ controllers.View = (*MainView)(nil)

// MainView is the single application window: file row, filters, actions,
// summary and the results preview.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	filterPanel   *components.FilterPanel
	resultsTable  *components.ResultsTable
	statusBar     *components.StatusBar
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window, previewRows int) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(previewRows)
	view.buildLayout()

	return view
}

func (mv *MainView) initializeComponents(previewRows int) {
	mv.toolbar = components.NewToolbar()
	mv.filterPanel = components.NewFilterPanel()
	mv.resultsTable = components.NewResultsTable(previewRows)
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	fileCard := widget.NewCard("Select Excel File", "", mv.toolbar.GetFileContainer())

	top := container.NewVBox(fileCard)
	middle := container.NewVBox(mv.statusBar.GetContainer(), mv.toolbar.GetActionContainer())

	split := container.NewVSplit(
		mv.filterPanel.GetContainer(),
		container.NewBorder(middle, nil, nil, nil, mv.resultsTable.GetContainer()),
	)
	split.SetOffset(0.4)

	mv.mainContainer = container.NewBorder(top, nil, nil, nil, split)
	mv.window.SetContent(mv.mainContainer)
}

// Event handler setters - called by controller

func (mv *MainView) SetBrowseHandler(handler func()) {
	mv.toolbar.SetBrowseHandler(handler)
}

func (mv *MainView) SetLoadHandler(handler func()) {
	mv.toolbar.SetLoadHandler(handler)
}

func (mv *MainView) SetApplyHandler(handler func()) {
	mv.toolbar.SetApplyHandler(handler)
}

func (mv *MainView) SetResetHandler(handler func()) {
	mv.toolbar.SetResetHandler(handler)
}

func (mv *MainView) SetExportHandler(handler func()) {
	mv.toolbar.SetExportHandler(handler)
}

func (mv *MainView) SetFilterEditHandler(handler func(models.FilterEdit)) {
	mv.filterPanel.SetEditHandler(handler)
}

// UI update methods - called by controller

func (mv *MainView) FilePath() string {
	return mv.toolbar.Path()
}

func (mv *MainView) SetFilePath(path string) {
	fyne.Do(func() {
		mv.toolbar.SetPath(path)
		mv.statusBar.SetSource(path)
	})
}

func (mv *MainView) ShowFilters(filters *models.FilterSet) {
	fyne.Do(func() {
		mv.filterPanel.Show(filters)
	})
}

func (mv *MainView) ShowPreview(preview models.Preview) {
	fyne.Do(func() {
		mv.resultsTable.Show(preview)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

func (mv *MainView) EnableDataOperations(enabled bool) {
	fyne.Do(func() {
		mv.toolbar.EnableDataOperations(enabled)
	})
}

// ShowOpenDialog asks for a spreadsheet; callback gets "" on cancel.
func (mv *MainView) ShowOpenDialog(extensions []string, callback func(path string)) {
	fyne.Do(func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				mv.ShowError("File selection error", err)
				return
			}
			if reader == nil {
				callback("")
				return
			}
			path := reader.URI().Path()
			_ = reader.Close()
			callback(path)
		}, mv.window)
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		d.Show()
	})
}

// ShowSaveDialog asks for an export destination; callback gets "" on cancel.
func (mv *MainView) ShowSaveDialog(defaultName string, extensions []string, callback func(path string)) {
	fyne.Do(func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				mv.ShowError("File save error", err)
				return
			}
			if writer == nil {
				callback("")
				return
			}
			path := writer.URI().Path()
			_ = writer.Close()
			callback(path)
		}, mv.window)
		d.SetFileName(defaultName)
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		d.Show()
	})
}

// ShowError displays an error dialog. fyne's error dialog supplies its own
// title, so title is unused here.
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// Show displays the window. It is called once, before the app runs.
func (mv *MainView) Show() {
	mv.window.Show()
}
