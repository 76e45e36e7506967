package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vigil/internal/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo fixture (wipes existing data)",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	invoice, err := db.Seed(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Printf("seeded demo data\n")
	fmt.Printf("  supplier: %s\n", invoice.SupplierID)
	fmt.Printf("  invoice:  %s\n", invoice.ID)
	return nil
}
