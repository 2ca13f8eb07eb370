package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sheet-sifter/internal/logger"
	"sheet-sifter/internal/models"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoWorksheet       = errors.New("workbook has no worksheets")
)

// Extensions accepted by Load.
var LoadExtensions = []string{".xlsx", ".xlsm", ".xls"}

// Extensions accepted by Export.
var ExportExtensions = []string{".xlsx", ".csv"}

// LoadError reports a file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExportError reports a failed write of the filtered view.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// WorkbookService reads spreadsheets into Datasets and writes views back out.
type WorkbookService struct {
	logger    logger.Logger
	sheetName string
}

func NewWorkbookService(log logger.Logger, exportSheet string) *WorkbookService {
	if exportSheet == "" {
		exportSheet = "Results"
	}
	return &WorkbookService{logger: log, sheetName: exportSheet}
}

// Load reads the first worksheet of an .xlsx/.xlsm/.xls file.
func (ws *WorkbookService) Load(ctx context.Context, path string) (*models.Dataset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	var (
		sheet string
		rows  [][]models.Cell
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		sheet, rows, err = readXLSX(path)
	case ".xls":
		sheet, rows, err = readXLS(path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	ds, err := models.FromCells(path, sheet, rows)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	ws.logger.Info("WorkbookService", "workbook loaded", map[string]interface{}{
		"path":     path,
		"sheet":    sheet,
		"rows":     ds.Len(),
		"columns":  len(ds.Columns()),
		"duration": time.Since(start).String(),
	})

	return ds, nil
}

func readXLSX(path string) (string, [][]models.Cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, ErrNoWorksheet
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	cells := make([][]models.Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]models.Cell, len(row))
		for c, value := range row {
			cells[r][c] = models.Cell{Value: value}
			// Only numeric-looking text needs the stored type to tell
			// "02134" the string from 2134 the number.
			if _, ok := models.ParseNumber(value); !ok {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return "", nil, err
			}
			typ, err := f.GetCellType(sheet, ref)
			if err != nil {
				return "", nil, fmt.Errorf("reading cell %s: %w", ref, err)
			}
			cells[r][c].Text = storedAsText(typ)
		}
	}
	return sheet, cells, nil
}

// storedAsText reports cell types whose value is a string in the workbook,
// including string formula results.
func storedAsText(typ excelize.CellType) bool {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true
	default:
		return false
	}
}

func readXLS(path string) (string, [][]models.Cell, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", nil, err
	}
	if wb.NumSheets() == 0 {
		return "", nil, ErrNoWorksheet
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "", nil, ErrNoWorksheet
	}

	// ReadAllCells walks sheets in order, so capping it at the first sheet's
	// row count reads that sheet alone. Rows without cells come back nil.
	rows := wb.ReadAllCells(int(sheet.MaxRow) + 1)
	cells := make([][]models.Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]models.Cell, len(row))
		for c, value := range row {
			cells[r][c] = models.Cell{Value: value}
		}
	}
	return sheet.Name, cells, nil
}

// ResolveExportPath applies the default .xlsx extension and validates the
// format. An empty path means the user cancelled and is returned unchanged.
func ResolveExportPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		return path + ".xlsx", nil
	case ".xlsx", ".csv":
		return path, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Export writes view to path, choosing CSV or XLSX by extension. An empty
// path is a cancelled save and does nothing. It returns the path written.
func (ws *WorkbookService) Export(ctx context.Context, view *models.Dataset, path string) (string, error) {
	if path == "" {
		ws.logger.Debug("WorkbookService", "export cancelled", nil)
		return "", nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	resolved, err := ResolveExportPath(path)
	if err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	if view == nil {
		return "", &ExportError{Path: resolved, Err: models.ErrNoDataset}
	}

	if strings.EqualFold(filepath.Ext(resolved), ".csv") {
		err = writeCSV(view, resolved)
	} else {
		err = ws.writeXLSX(view, resolved)
	}
	if err != nil {
		return "", &ExportError{Path: resolved, Err: err}
	}

	ws.logger.Info("WorkbookService", "view exported", map[string]interface{}{
		"path": resolved,
		"rows": view.Len(),
	})
	return resolved, nil
}

func writeCSV(view *models.Dataset, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(view.ColumnNames()); err != nil {
		return err
	}
	for r := 0; r < view.Len(); r++ {
		if err := w.Write(view.Row(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (ws *WorkbookService) writeXLSX(view *models.Dataset, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, ws.sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(ws.sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(view.Columns()))
	for _, name := range view.ColumnNames() {
		header = append(header, name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	cols := view.Columns()
	for r := 0; r < view.Len(); r++ {
		values := make([]interface{}, len(cols))
		for c, col := range cols {
			values[c] = cellValue(col.Kind, view.Value(r, c))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// cellValue writes a number cell only when the number prints back as exactly
// the same text; anything else is written as the string it displayed as.
func cellValue(kind models.ColumnKind, v *string) interface{} {
	if v == nil {
		return ""
	}
	if kind == models.KindNumber {
		if n, ok := models.ParseNumber(*v); ok && strconv.FormatFloat(n, 'f', -1, 64) == *v {
			return n
		}
	}
	return *v
}
