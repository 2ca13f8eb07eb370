package controllers

import (
	"context"
	"fmt"
	"os"
	"time"

	"sheet-sifter/internal/logger"
	"sheet-sifter/internal/models"
	"sheet-sifter/internal/services"
	"sheet-sifter/internal/timing"
)

// View is the surface the controller drives. The fyne MainView implements it;
// tests substitute a recorder.
type View interface {
	SetBrowseHandler(handler func())
	SetLoadHandler(handler func())
	SetApplyHandler(handler func())
	SetResetHandler(handler func())
	SetExportHandler(handler func())
	SetFilterEditHandler(handler func(models.FilterEdit))

	FilePath() string
	SetFilePath(path string)

	// ShowFilters receives a copy; edits come back through the edit handler.
	ShowFilters(filters *models.FilterSet)
	ShowPreview(preview models.Preview)
	UpdateStatus(status string)
	EnableDataOperations(enabled bool)

	ShowOpenDialog(extensions []string, callback func(path string))
	ShowSaveDialog(defaultName string, extensions []string, callback func(path string))
	ShowError(title string, err error)
	ShowInfo(title, message string)
}

// MainController wires view events to the session and services. All methods
// run on the UI event thread and complete synchronously.
type MainController struct {
	session     *models.Session
	workbooks   *services.WorkbookService
	filters     *services.FilterService
	logger      logger.Logger
	previewRows int
	timings     *timing.Tracker

	view View
}

func NewMainController(
	session *models.Session,
	workbooks *services.WorkbookService,
	filters *services.FilterService,
	log logger.Logger,
	previewRows int,
) *MainController {
	return &MainController{
		session:     session,
		workbooks:   workbooks,
		filters:     filters,
		logger:      log,
		previewRows: previewRows,
		timings:     timing.NewTracker(),
	}
}

// SetMainView attaches the view and registers the controller's handlers.
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	view.SetBrowseHandler(mc.Browse)
	view.SetLoadHandler(mc.LoadSelected)
	view.SetApplyHandler(mc.ApplyFilters)
	view.SetResetHandler(mc.ResetFilters)
	view.SetExportHandler(mc.Export)
	view.SetFilterEditHandler(mc.EditFilter)

	view.EnableDataOperations(false)
	view.UpdateStatus(mc.session.Summary())
}

// Session exposes the owned state for inspection.
func (mc *MainController) Session() *models.Session {
	return mc.session
}

// Timings exposes the per-operation durations recorded so far.
func (mc *MainController) Timings() *timing.Tracker {
	return mc.timings
}

// Browse opens the file picker and stores the chosen path.
func (mc *MainController) Browse() {
	mc.view.ShowOpenDialog(services.LoadExtensions, func(path string) {
		if path == "" {
			return
		}
		mc.view.SetFilePath(path)
	})
}

// LoadSelected loads the path currently entered in the view.
func (mc *MainController) LoadSelected() {
	path := mc.view.FilePath()
	if path == "" {
		return
	}
	mc.Load(path)
}

// Load replaces the session dataset. On failure the previous state is kept.
func (mc *MainController) Load(path string) {
	stop := mc.timings.Start("load")
	ds, err := mc.workbooks.Load(context.Background(), path)
	stop()
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{"path": path})
		mc.view.ShowError("Error", fmt.Errorf("failed to load file: %w", err))
		return
	}

	mc.session.Load(ds)
	mc.logger.Info("MainController", "dataset loaded", map[string]interface{}{
		"path":    path,
		"rows":    ds.Len(),
		"filters": mc.session.Filters().Len(),
	})

	mc.view.SetFilePath(path)
	mc.view.ShowFilters(mc.session.Filters().Clone())
	mc.view.EnableDataOperations(true)
	mc.refresh()
}

// EditFilter records a widget change; the view is recomputed on apply.
func (mc *MainController) EditFilter(edit models.FilterEdit) {
	if err := mc.session.Edit(edit); err != nil {
		mc.logger.Warning("MainController", "filter edit rejected", map[string]interface{}{
			"column": edit.Column,
			"error":  err.Error(),
		})
	}
}

// ApplyFilters recomputes the filtered view from scratch.
func (mc *MainController) ApplyFilters() {
	ds := mc.session.Dataset()
	if ds == nil {
		return
	}

	stop := mc.timings.Start("apply")
	view, report := mc.filters.Apply(ds, mc.session.Filters())
	stop()
	if err := mc.session.SetView(view); err != nil {
		mc.logger.Error("MainController", err, nil)
		return
	}
	if len(report.Skipped) > 0 {
		mc.logger.Warning("MainController", "some column filters were skipped", map[string]interface{}{
			"skipped": len(report.Skipped),
		})
	}
	mc.refresh()
}

// ResetFilters clears every filter and shows the full dataset again.
func (mc *MainController) ResetFilters() {
	if err := mc.session.Reset(); err != nil {
		return
	}
	mc.view.ShowFilters(mc.session.Filters().Clone())
	mc.refresh()
}

// Export asks for a destination and writes the current view there.
func (mc *MainController) Export() {
	view := mc.session.View()
	if view == nil {
		mc.view.ShowInfo("Export", "No data to export.")
		return
	}

	name := fmt.Sprintf("results-%s.xlsx", time.Now().Format("20060102-150405"))
	mc.view.ShowSaveDialog(name, services.ExportExtensions, mc.ExportTo)
}

// ExportTo writes the current view to path. An empty path is a cancelled
// dialog and does nothing.
func (mc *MainController) ExportTo(path string) {
	stop := mc.timings.Start("export")
	written, err := mc.workbooks.Export(context.Background(), mc.session.View(), path)
	stop()
	if written != path {
		mc.removePlaceholder(path)
	}
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{"path": path})
		mc.view.ShowError("Export Error", fmt.Errorf("failed to export data: %w", err))
		return
	}
	if written == "" {
		return
	}
	mc.view.ShowInfo("Export", fmt.Sprintf("Data successfully exported to %s", written))
}

// removePlaceholder deletes the empty file the save dialog creates at the
// chosen path when the export went elsewhere or failed. Non-empty files are
// left alone.
func (mc *MainController) removePlaceholder(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		mc.logger.Warning("MainController", "could not remove empty save target", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func (mc *MainController) refresh() {
	preview := mc.session.Preview(mc.previewRows)
	mc.view.ShowPreview(preview)
	mc.view.UpdateStatus(preview.Summary)
}

// Shutdown logs the final session state and the operation timings.
func (mc *MainController) Shutdown() {
	fields := map[string]interface{}{"state": mc.session.State().String()}
	if ds := mc.session.Dataset(); ds != nil {
		fields["source"] = ds.Source
		fields["loaded_at"] = mc.session.LoadedAt().Format(time.RFC3339)
	}
	for _, s := range mc.timings.Snapshot() {
		fields[s.Operation+"_count"] = s.Count
		fields[s.Operation+"_avg"] = s.Average().String()
	}
	mc.logger.Info("MainController", "controller shutdown", fields)
}
