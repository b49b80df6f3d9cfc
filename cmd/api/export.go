package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/report"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		filter filterFlags
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected parcels to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger := newLogger(opts.verbose)
			manager, _, err := opts.loadManager(logger, false)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			f, err := filter.resolve(cmd, manager.Dataset())
			if err != nil {
				return err
			}
			view := manager.View(f)

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", out, err)
			}
			defer logging.HandleDeferredError(&err, file.Close, logger, "export_file")

			if err := report.WriteXLSX(file, view.Parcels()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d talhões exportados para %s\n", view.Len(), out)
			return err
		},
	}

	filter.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "talhoes.xlsx", "Output spreadsheet")
	return cmd
}
