package cli

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"vigil/internal/config"
	"vigil/internal/engine"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a lifecycle sweep, retiring issues past the retention window",
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	eng := engine.New(db, clockwork.NewRealClock(), cfg)
	n, err := eng.ApplyLifecycle()
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Printf("%d issues went dormant\n", n)
	return nil
}
