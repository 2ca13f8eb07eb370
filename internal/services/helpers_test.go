package services

import (
	"context"
	"path/filepath"
	"testing"

	"sheet-sifter/internal/logger"
	"sheet-sifter/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func inventory(t *testing.T) *models.Dataset {
	t.Helper()
	ds, err := models.FromRows("inventory.xlsx", "Sheet1", [][]string{
		{"Name", "Colour", "Qty", "Notes"},
		{"Apple", "red", "3", "crisp"},
		{"banana", "yellow", "12", ""},
		{"Cherry", "red", "40", "Sour, small"},
		{"Damson", "", "7.5", "jam"},
		{"elder", "purple", "1", "cordial"},
	})
	require.NoError(t, err)
	return ds
}

func names(ds *models.Dataset) []string {
	out := make([]string, 0, ds.Len())
	for r := 0; r < ds.Len(); r++ {
		out = append(out, ds.Row(r)[0])
	}
	return out
}

// writeWorkbook saves rows to a fresh .xlsx file on Sheet1.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newWorkbookService() *WorkbookService {
	return NewWorkbookService(logger.Nop{}, "Results")
}

func loadPath(t *testing.T, path string) *models.Dataset {
	t.Helper()
	ds, err := newWorkbookService().Load(context.Background(), path)
	require.NoError(t, err)
	return ds
}
