package cli

import (
	"fmt"
	"text/tabwriter"

	"sheet-sifter/internal/config"
	"sheet-sifter/internal/models"
	"sheet-sifter/internal/services"

	"github.com/spf13/cobra"
)

func newColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "List columns with their inferred kind and filter type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			log := loggerFrom(cmd.Context())

			ds, err := services.NewWorkbookService(log, cfg.ExportSheet).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fs := models.BuildFilterSet(ds, cfg.RegistryOptions())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tKIND\tDISTINCT\tFILTER")
			for _, col := range ds.Columns() {
				spec, _ := fs.Get(col.Name)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", col.Name, col.Kind, col.Distinct, spec.Kind)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d rows in sheet %q\n", ds.Len(), ds.Sheet)
			return err
		},
	}
}
