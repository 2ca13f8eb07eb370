package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tobgu/qframe"
	"github.com/tobgu/qframe/config/newqf"
)

var (
	ErrNoDataset     = errors.New("no dataset loaded")
	ErrUnknownColumn = errors.New("unknown column")
)

// ColumnKind is the single value type inferred for a column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindDate
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// ColumnInfo describes one dataset column.
type ColumnInfo struct {
	Name     string
	Kind     ColumnKind
	Distinct int
}

// Dataset is an immutable table of display strings. Missing cells are nil.
// Filtering produces a new Dataset sharing the column descriptors.
type Dataset struct {
	Source  string
	Sheet   string
	columns []ColumnInfo
	frame   qframe.QFrame
	views   []qframe.StringView
}

// Cell is one worksheet cell as read from a workbook. Text marks cells the
// workbook stores as strings; they never make a column numeric.
type Cell struct {
	Value string
	Text  bool
}

// NewDataset builds a Dataset from a header and column-major cell values.
// Every column must have the same length.
func NewDataset(source, sheet string, names []string, columns [][]*string) (*Dataset, error) {
	return newTypedDataset(source, sheet, names, columns, nil)
}

// newTypedDataset is NewDataset with an optional per-cell text mask in the
// same column-major shape as columns.
func newTypedDataset(source, sheet string, names []string, columns [][]*string, text [][]bool) (*Dataset, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("dataset has %d names for %d columns", len(names), len(columns))
	}

	rows := -1
	data := make(map[string]interface{}, len(names))
	infos := make([]ColumnInfo, len(names))
	for i, name := range names {
		if _, dup := data[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		if rows >= 0 && len(columns[i]) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(columns[i]), rows)
		}
		rows = len(columns[i])

		values := make([]*string, len(columns[i]))
		copy(values, columns[i])
		data[name] = values

		var mask []bool
		if text != nil {
			mask = text[i]
		}
		infos[i] = ColumnInfo{
			Name:     name,
			Kind:     inferKind(values, mask),
			Distinct: len(distinct(values)),
		}
	}

	frame := qframe.New(data, newqf.ColumnOrder(names...))
	if frame.Err != nil {
		return nil, fmt.Errorf("building frame: %w", frame.Err)
	}

	return newDataset(source, sheet, infos, frame)
}

func newDataset(source, sheet string, infos []ColumnInfo, frame qframe.QFrame) (*Dataset, error) {
	views := make([]qframe.StringView, len(infos))
	for i, info := range infos {
		view, err := frame.StringView(info.Name)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", info.Name, err)
		}
		views[i] = view
	}

	return &Dataset{
		Source:  source,
		Sheet:   sheet,
		columns: infos,
		frame:   frame,
		views:   views,
	}, nil
}

// WithFrame returns a Dataset over a row subset of d's frame.
func (d *Dataset) WithFrame(frame qframe.QFrame) (*Dataset, error) {
	if frame.Err != nil {
		return nil, frame.Err
	}
	return newDataset(d.Source, d.Sheet, d.columns, frame)
}

// Frame exposes the backing frame. QFrame values are immutable.
func (d *Dataset) Frame() qframe.QFrame {
	return d.frame
}

func (d *Dataset) Columns() []ColumnInfo {
	out := make([]ColumnInfo, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Len returns the row count.
func (d *Dataset) Len() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.frame.Len()
}

// Value returns the cell at (row, col) or nil when missing.
func (d *Dataset) Value(row, col int) *string {
	return d.views[col].ItemAt(row)
}

// Row returns one row as display strings with missing cells rendered empty.
func (d *Dataset) Row(row int) []string {
	out := make([]string, len(d.columns))
	for c := range d.columns {
		if v := d.Value(row, c); v != nil {
			out[c] = *v
		}
	}
	return out
}

// Rows returns up to limit rows; limit < 0 means all rows.
func (d *Dataset) Rows(limit int) [][]string {
	n := d.Len()
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		out[r] = d.Row(r)
	}
	return out
}

// Distinct returns the sorted distinct non-missing values of a column.
func (d *Dataset) Distinct(name string) ([]string, error) {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return distinct(d.views[idx].Slice()), nil
}

func distinct(values []*string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		out = append(out, *v)
	}
	sort.Strings(out)
	return out
}

// Date layouts accepted when inferring date columns.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"01/02/2006",
	"02.01.2006",
	"2-Jan-06",
	"02-Jan-2006",
	"1/2/06 15:04",
}

// InferKind classifies a column by its non-missing values.
func InferKind(values []*string) ColumnKind {
	return inferKind(values, nil)
}

// inferKind is InferKind where text[i] marks a value stored as a string in
// the source workbook. text may be nil.
func inferKind(values []*string, text []bool) ColumnKind {
	seen := 0
	number, date := true, true
	for i, v := range values {
		if v == nil {
			continue
		}
		seen++
		s := strings.TrimSpace(*v)
		if number {
			if i < len(text) && text[i] {
				number = false
			} else if _, ok := ParseNumber(s); !ok {
				number = false
			}
		}
		if date && !isDate(s) {
			date = false
		}
		if !number && !date {
			return KindText
		}
	}

	switch {
	case seen == 0:
		return KindText
	case number:
		return KindNumber
	case date:
		return KindDate
	default:
		return KindText
	}
}

// ParseNumber parses a display string as a finite decimal number. NaN,
// infinities, hex floats and integers with leading zeros ("02134") are
// rejected so names and identifiers stay text.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || strings.ContainsAny(digits, "xXpP_") {
		return 0, false
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// NormalizeHeader names blank headers "Unnamed: <i>" and suffixes repeats
// with ".1", ".2", ... so every column name is unique.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// FromRows builds a Dataset from row-major display strings whose first
// non-blank row is the header.
func FromRows(source, sheet string, rows [][]string) (*Dataset, error) {
	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, v := range row {
			cells[r][c] = Cell{Value: v}
		}
	}
	return FromCells(source, sheet, cells)
}

// FromCells builds a Dataset from row-major cells whose first non-blank row
// is the header. Blank cells become missing; fully blank rows are dropped;
// short rows are padded.
func FromCells(source, sheet string, rows [][]Cell) (*Dataset, error) {
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, ErrEmptySheet
	}

	header := trimTrailingBlanks(rows[start])
	width := len(header)
	body := make([][]Cell, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if blankRow(row) {
			continue
		}
		if w := len(trimTrailingBlanks(row)); w > width {
			width = w
		}
		body = append(body, row)
	}

	padded := make([]string, width)
	for i, cell := range header {
		padded[i] = cell.Value
	}
	names := NormalizeHeader(padded)

	columns := make([][]*string, width)
	text := make([][]bool, width)
	for c := range columns {
		columns[c] = make([]*string, len(body))
		text[c] = make([]bool, len(body))
	}
	for r, row := range body {
		for c := 0; c < width && c < len(row); c++ {
			if strings.TrimSpace(row[c].Value) == "" {
				continue
			}
			value := row[c].Value
			columns[c][r] = &value
			text[c][r] = row[c].Text
		}
	}

	return newTypedDataset(source, sheet, names, columns, text)
}

// ErrEmptySheet is returned when a worksheet has no header row.
var ErrEmptySheet = errors.New("worksheet is empty")

func blankRow(row []Cell) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell.Value) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlanks(row []Cell) []Cell {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1].Value) == "" {
		end--
	}
	return row[:end]
}
