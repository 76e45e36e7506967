package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Supplier quality memory and invoice risk scoring",
	Long:  "Vigil keeps a time-decaying memory of supplier quality issues and scores incoming invoices for procurement risk. Single Go binary backed by SQLite.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(sweepCmd)
}
