package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"vigil/internal/config"
	"vigil/internal/engine"
)

var scoreSupplierFlag bool

var scoreCmd = &cobra.Command{
	Use:   "score <invoice-id>",
	Short: "Score an invoice (or supplier, with --supplier) against supplier memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreSupplierFlag, "supplier", false, "treat the argument as a supplier ID")
}

func runScore(cmd *cobra.Command, args []string) error {
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

	var assessment *engine.Assessment
	if scoreSupplierFlag {
		assessment, err = eng.ScoreSupplier(args[0])
	} else {
		assessment, err = eng.ProcessInvoice(args[0])
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(assessment)
}
