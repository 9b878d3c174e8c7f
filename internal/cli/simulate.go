package cli

import (
	"github.com/spf13/cobra"
)

var (
	simulateMetal  string
	simulateChange float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Drive the alert pipeline with a synthetic price change",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SimulateAlert(cmd.Context(), simulateMetal, simulateChange)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateMetal, "metal", "gold", "Metal to simulate (gold or silver)")
	simulateCmd.Flags().Float64Var(&simulateChange, "change", 0, "Percent change over the window, e.g. -6.5")
}
