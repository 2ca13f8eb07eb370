package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"sheet-sifter/internal/config"
	"sheet-sifter/internal/models"
	"sheet-sifter/internal/services"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	contains []string
	in       []string
	equals   []string
	output   string
	preview  bool
	maxWidth int
}

func newFilterCommand() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Filter rows and print a preview or export them",
		Example: `  sheet-sifter-cli filter stock.xlsx --contains "Name=apple, pear" --in Colour=red,green
  sheet-sifter-cli filter stock.xls --equals Region=North --output north.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.contains, "contains", nil, "COLUMN=TERMS: keep rows containing any comma separated term (case-insensitive)")
	f.StringArrayVar(&opts.in, "in", nil, "COLUMN=V1,V2: keep rows whose value is one of the listed values")
	f.StringArrayVar(&opts.equals, "equals", nil, "COLUMN=VALUE: keep rows equal to VALUE")
	f.StringVarP(&opts.output, "output", "o", "", "write matching rows to an .xlsx or .csv file instead of printing")
	f.BoolVar(&opts.preview, "preview", false, "print the preview table as well when --output is set")
	f.Int("preview-rows", 100, "maximum rows to print")
	f.IntVar(&opts.maxWidth, "max-width", 40, "truncate printed cells wider than this many columns (0 disables)")

	return cmd
}

func runFilter(cmd *cobra.Command, path string, opts *filterOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	log := loggerFrom(ctx)

	workbooks := services.NewWorkbookService(log, cfg.ExportSheet)
	ds, err := workbooks.Load(ctx, path)
	if err != nil {
		return err
	}

	fs := models.BuildFilterSet(ds, cfg.RegistryOptions())
	if err := applyFlags(ds, fs, opts); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	view, report := services.NewFilterService(log).Apply(ds, fs)
	for column, skipErr := range report.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: filter on %q skipped: %v\n", column, skipErr)
	}

	if opts.output != "" {
		written, err := workbooks.Export(ctx, view, opts.output)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d rows to %s\n", view.Len(), ds.Len(), written); err != nil {
			return err
		}
		if !opts.preview {
			return nil
		}
	}

	return printPreview(cmd, models.NewPreview(view, ds.Len(), cfg.PreviewRows), opts.maxWidth)
}

// applyFlags turns --contains/--in/--equals into filter edits, switching the
// column's spec kind where the flag asks for a different match rule. A column
// holds one spec, so each column may be named by one flag only.
func applyFlags(ds *models.Dataset, fs *models.FilterSet, opts *filterOptions) error {
	claimed := make(map[string]string)
	split := func(flag, raw string) (string, string, error) {
		column, value, err := splitAssignment(flag, raw)
		if err != nil {
			return "", "", err
		}
		if prev, ok := claimed[column]; ok {
			return "", "", fmt.Errorf("--%s %q: column %q is already filtered by --%s; use one flag per column", flag, raw, column, prev)
		}
		claimed[column] = flag
		return column, value, nil
	}

	for _, raw := range opts.contains {
		column, terms, err := split("contains", raw)
		if err != nil {
			return err
		}
		if err := ensureKind(ds, fs, column, models.SubstringFilter); err != nil {
			return err
		}
		if err := fs.Apply(models.FilterEdit{Column: column, Kind: models.EditText, Value: terms}); err != nil {
			return err
		}
	}

	for _, raw := range opts.in {
		column, values, err := split("in", raw)
		if err != nil {
			return err
		}
		if err := ensureKind(ds, fs, column, models.MembershipFilter); err != nil {
			return err
		}
		for _, v := range strings.Split(values, ",") {
			edit := models.FilterEdit{Column: column, Kind: models.EditToggle, Value: strings.TrimSpace(v), Checked: true}
			if err := fs.Apply(edit); err != nil {
				return err
			}
		}
	}

	for _, raw := range opts.equals {
		column, value, err := split("equals", raw)
		if err != nil {
			return err
		}
		if err := ensureKind(ds, fs, column, models.ExactFilter); err != nil {
			return err
		}
		if err := fs.Apply(models.FilterEdit{Column: column, Kind: models.EditChoose, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

func splitAssignment(flag, raw string) (string, string, error) {
	column, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return "", "", fmt.Errorf("--%s %q: expected COLUMN=VALUE", flag, raw)
	}
	return strings.TrimSpace(column), value, nil
}

// ensureKind replaces the column's spec with an unconstrained one of kind
// unless it already has that kind.
func ensureKind(ds *models.Dataset, fs *models.FilterSet, column string, kind models.FilterKind) error {
	spec, ok := fs.Get(column)
	if !ok {
		return fmt.Errorf("%w: %q (columns: %s)", models.ErrUnknownColumn, column, strings.Join(ds.ColumnNames(), ", "))
	}
	if spec.Kind == kind {
		return nil
	}

	values, err := ds.Distinct(column)
	if err != nil {
		return err
	}
	switch kind {
	case models.MembershipFilter:
		return fs.Replace(models.NewMembershipSpec(column, values))
	case models.ExactFilter:
		return fs.Replace(models.NewExactSpec(column, values))
	default:
		return fs.Replace(models.NewSubstringSpec(column))
	}
}

func printPreview(cmd *cobra.Command, preview models.Preview, maxWidth int) error {
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeRow := func(cells []string) {
		fitted := make([]string, len(cells))
		for i, c := range cells {
			fitted[i] = truncateCell(c, maxWidth)
		}
		fmt.Fprintln(tw, strings.Join(fitted, "\t"))
	}
	writeRow(preview.Header)
	for _, row := range preview.Rows {
		writeRow(row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := preview.Summary
	if preview.Truncated() {
		summary += fmt.Sprintf(" (first %d printed)", len(preview.Rows))
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}

// truncateCell shortens s to maxWidth display columns. Tabs and newlines
// would break the table, so they are flattened to spaces first.
func truncateCell(s string, maxWidth int) string {
	s = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ").Replace(s)
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 4 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
