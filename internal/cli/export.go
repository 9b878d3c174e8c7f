package cli

import (
	"github.com/spf13/cobra"

	"gold-silver-alerts/internal/app"
)

var (
	exportMetal    string
	exportCurrency string
	exportPNGPath  string
	exportCSVPath  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current price series as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Metal:    exportMetal,
			Currency: exportCurrency,
			PNGPath:  exportPNGPath,
			CSVPath:  exportCSVPath,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMetal, "metal", "gold", "Metal to export (gold or silver)")
	exportCmd.Flags().StringVar(&exportCurrency, "currency", "USD", "Currency (USD or INR)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
}
