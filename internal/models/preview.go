package models

// Preview is the bounded slice of a view that the results table renders.
type Preview struct {
	Header  []string
	Rows    [][]string
	Shown   int
	Total   int
	Summary string
}

// NewPreview takes at most limit rows from view.
func NewPreview(view *Dataset, total, limit int) Preview {
	if view == nil {
		return Preview{Summary: "No file loaded"}
	}
	rows := view.Rows(limit)
	return Preview{
		Header:  view.ColumnNames(),
		Rows:    rows,
		Shown:   view.Len(),
		Total:   total,
		Summary: summaryLine(view.Len(), total),
	}
}

// Truncated reports whether the preview holds fewer rows than the view.
func (p Preview) Truncated() bool {
	return len(p.Rows) < p.Shown
}
