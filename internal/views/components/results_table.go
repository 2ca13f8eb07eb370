package components

import (
	"fmt"

	"sheet-sifter/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

const columnWidth = 120

// ResultsTable renders a Preview; row 0 is the header.
type ResultsTable struct {
	card    *widget.Card
	table   *widget.Table
	preview models.Preview
}

func NewResultsTable(limit int) *ResultsTable {
	rt := &ResultsTable{}
	rt.table = widget.NewTable(rt.size, rt.create, rt.update)
	rt.card = widget.NewCard(fmt.Sprintf("Results Preview (First %d rows)", limit), "", rt.table)
	return rt
}

func (rt *ResultsTable) size() (int, int) {
	if len(rt.preview.Header) == 0 {
		return 0, 0
	}
	return len(rt.preview.Rows) + 1, len(rt.preview.Header)
}

func (rt *ResultsTable) create() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	return label
}

func (rt *ResultsTable) update(id widget.TableCellID, obj fyne.CanvasObject) {
	label := obj.(*widget.Label)
	label.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
	label.SetText(rt.CellText(id.Row, id.Col))
}

// CellText returns what the table shows at (row, col), header included.
func (rt *ResultsTable) CellText(row, col int) string {
	if row == 0 {
		if col < len(rt.preview.Header) {
			return rt.preview.Header[col]
		}
		return ""
	}
	if row-1 < len(rt.preview.Rows) && col < len(rt.preview.Rows[row-1]) {
		return rt.preview.Rows[row-1][col]
	}
	return ""
}

func (rt *ResultsTable) Show(preview models.Preview) {
	rt.preview = preview
	for c := range preview.Header {
		rt.table.SetColumnWidth(c, columnWidth)
	}
	rt.table.Refresh()
	rt.table.ScrollToTop()
}

// Dimensions reports the rendered row and column counts.
func (rt *ResultsTable) Dimensions() (int, int) {
	return rt.size()
}

func (rt *ResultsTable) GetContainer() fyne.CanvasObject {
	return rt.card
}
