package services

import (
	"fmt"
	"time"

	"sheet-sifter/internal/logger"
	"sheet-sifter/internal/models"

	"github.com/tobgu/qframe"
)

// EvaluationReport records which column constraints took part in a pass.
type EvaluationReport struct {
	Applied  []string
	Skipped  map[string]error
	Rows     int
	Duration time.Duration
}

// FilterService evaluates a FilterSet against a Dataset.
type FilterService struct {
	logger logger.Logger
}

func NewFilterService(log logger.Logger) *FilterService {
	return &FilterService{logger: log}
}

// Apply returns the rows of ds satisfying every active spec in fs, in their
// original order. ds is never modified. A column whose constraint cannot be
// evaluated is logged and left out of the conjunction rather than failing
// the whole pass.
func (fsvc *FilterService) Apply(ds *models.Dataset, fs *models.FilterSet) (*models.Dataset, EvaluationReport) {
	start := time.Now()
	report := EvaluationReport{Skipped: make(map[string]error)}

	frame := ds.Frame()
	for _, spec := range fs.Active() {
		next, err := filterColumn(ds, frame, spec)
		if err != nil {
			report.Skipped[spec.Column] = err
			fsvc.logger.Warning("FilterService", "column filter skipped", map[string]interface{}{
				"column": spec.Column,
				"kind":   spec.Kind.String(),
				"error":  err.Error(),
			})
			continue
		}
		frame = next
		report.Applied = append(report.Applied, spec.Column)
	}

	view, err := ds.WithFrame(frame)
	if err != nil {
		// The frame only ever shrinks from a valid one, so this is unexpected;
		// fall back to the unfiltered dataset.
		fsvc.logger.Error("FilterService", err, nil)
		view = ds
	}

	report.Rows = view.Len()
	report.Duration = time.Since(start)

	fsvc.logger.Debug("FilterService", "filters applied", map[string]interface{}{
		"applied":  report.Applied,
		"skipped":  len(report.Skipped),
		"rows":     report.Rows,
		"total":    ds.Len(),
		"duration": report.Duration.String(),
	})

	return view, report
}

func filterColumn(ds *models.Dataset, frame qframe.QFrame, spec *models.FilterSpec) (qframe.QFrame, error) {
	if _, ok := ds.ColumnIndex(spec.Column); !ok {
		return frame, fmt.Errorf("%w: %q", models.ErrUnknownColumn, spec.Column)
	}

	next := frame.Filter(qframe.Filter{
		Column:     spec.Column,
		Comparator: spec.Predicate(),
	})
	if next.Err != nil {
		return frame, next.Err
	}
	return next, nil
}
