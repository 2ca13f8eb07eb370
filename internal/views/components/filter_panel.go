package components

import (
	"fmt"

	"sheet-sifter/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const searchHint = "Enter search terms separated by commas"

// FilterPanel renders one filter control per column and reports edits.
// Widgets are regenerated from the FilterSet on every load and reset.
type FilterPanel struct {
	card    *widget.Card
	rows    *fyne.Container
	scroll  *container.Scroll
	onEdit  func(models.FilterEdit)
	columns map[string]fyne.CanvasObject

	// syncing suppresses edit events while the panel itself flips checks.
	syncing bool
}

func NewFilterPanel() *FilterPanel {
	fp := &FilterPanel{columns: make(map[string]fyne.CanvasObject)}
	fp.rows = container.NewVBox(widget.NewLabel("Load a file to build filters"))
	fp.scroll = container.NewVScroll(fp.rows)
	fp.card = widget.NewCard("Search Filters", "", fp.scroll)
	return fp
}

func (fp *FilterPanel) SetEditHandler(handler func(models.FilterEdit)) {
	fp.onEdit = handler
}

// Show rebuilds the controls to mirror fs.
func (fp *FilterPanel) Show(fs *models.FilterSet) {
	fp.columns = make(map[string]fyne.CanvasObject, fs.Len())
	objects := make([]fyne.CanvasObject, 0, fs.Len())
	for _, spec := range fs.Specs() {
		var control fyne.CanvasObject
		switch spec.Kind {
		case models.MembershipFilter:
			control = fp.membershipControl(spec)
		case models.ExactFilter:
			control = fp.exactControl(spec)
		default:
			control = fp.substringControl(spec)
		}
		fp.columns[spec.Column] = control

		label := widget.NewLabelWithStyle(fmt.Sprintf("%s:", spec.Column), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		objects = append(objects, container.NewBorder(nil, nil, label, nil, control))
	}

	fp.rows.Objects = objects
	fp.rows.Refresh()
	fp.scroll.ScrollToTop()
}

// Control returns the widget built for a column, for tests and focus handling.
func (fp *FilterPanel) Control(column string) (fyne.CanvasObject, bool) {
	c, ok := fp.columns[column]
	return c, ok
}

func (fp *FilterPanel) membershipControl(spec *models.FilterSpec) fyne.CanvasObject {
	column := spec.Column
	selectAll := widget.NewCheck("Select All / None", nil)
	selectAll.SetChecked(spec.AllSelected())

	checks := make([]*widget.Check, 0, len(spec.Options))
	for _, opt := range spec.Options {
		value := opt
		check := widget.NewCheck(value, nil)
		check.SetChecked(spec.Selected[value])
		check.OnChanged = func(checked bool) {
			if fp.syncing {
				return
			}
			fp.emit(models.FilterEdit{Column: column, Kind: models.EditToggle, Value: value, Checked: checked})

			all := true
			for _, c := range checks {
				all = all && c.Checked
			}
			fp.syncing = true
			selectAll.SetChecked(all)
			fp.syncing = false
		}
		checks = append(checks, check)
	}

	selectAll.OnChanged = func(checked bool) {
		if fp.syncing {
			return
		}
		fp.syncing = true
		for _, c := range checks {
			c.SetChecked(checked)
		}
		fp.syncing = false
		fp.emit(models.FilterEdit{Column: column, Kind: models.EditSelectAll, Checked: checked})
	}

	objects := make([]fyne.CanvasObject, 0, len(checks)+1)
	objects = append(objects, selectAll)
	for _, c := range checks {
		objects = append(objects, c)
	}
	return container.NewVBox(objects...)
}

func (fp *FilterPanel) substringControl(spec *models.FilterSpec) fyne.CanvasObject {
	column := spec.Column
	entry := widget.NewEntry()
	entry.SetPlaceHolder(searchHint)
	entry.SetText(spec.Text)
	entry.OnChanged = func(text string) {
		fp.emit(models.FilterEdit{Column: column, Kind: models.EditText, Value: text})
	}

	hint := widget.NewLabelWithStyle(searchHint, fyne.TextAlignLeading, fyne.TextStyle{Italic: true})
	return container.NewVBox(entry, hint)
}

func (fp *FilterPanel) exactControl(spec *models.FilterSpec) fyne.CanvasObject {
	column := spec.Column
	sel := widget.NewSelect(spec.Options, nil)
	sel.SetSelected(spec.Choice)
	sel.OnChanged = func(value string) {
		fp.emit(models.FilterEdit{Column: column, Kind: models.EditChoose, Value: value})
	}
	return sel
}

func (fp *FilterPanel) emit(edit models.FilterEdit) {
	if fp.onEdit != nil {
		fp.onEdit(edit)
	}
}

func (fp *FilterPanel) GetContainer() fyne.CanvasObject {
	return fp.card
}
