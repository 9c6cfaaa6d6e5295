package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/repository"
	"github.com/spf13/cobra"
)

// Reconciler recomputes one account's balance from its transactions.
type Reconciler interface {
	Reconcile(ctx context.Context, accountID string) (*ledger.Reconciliation, error)
}

func newReconcileCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [accountId...]",
		Short: "Check stored balances against initial balance plus posted transactions",
		Long: "Recomputes each account's balance under its row lock and reports any drift.\n" +
			"Without arguments every account is checked. Exits non-zero when drift is found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			db, err := repository.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			ids := args
			if len(ids) == 0 {
				if ids, err = repository.NewAccountWriteRepository(db).ListIDs(cmd.Context()); err != nil {
					return err
				}
			}
			book := ledger.New(repository.NewLedgerRepository(db))
			return reconcile(cmd.Context(), cmd.OutOrStdout(), book, ids)
		},
	}
}

// reconcile prints one line per account and fails if any balance drifted.
func reconcile(ctx context.Context, out io.Writer, r Reconciler, ids []string) error {
	drifted := 0
	for _, id := range ids {
		rec, err := r.Reconcile(ctx, id)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", id, err)
		}
		if rec.Consistent() {
			fmt.Fprintf(out, "ok     %s balance=%s\n", rec.AccountID, rec.Stored.StringFixed(2))
			continue
		}
		drifted++
		fmt.Fprintf(out, "DRIFT  %s stored=%s expected=%s diff=%s\n",
			rec.AccountID,
			rec.Stored.StringFixed(2),
			rec.Expected.StringFixed(2),
			rec.Stored.Sub(rec.Expected).StringFixed(2),
		)
	}
	fmt.Fprintf(out, "%d accounts checked, %d drifted\n", len(ids), drifted)
	if drifted > 0 {
		return fmt.Errorf("%d accounts have drifted balances", drifted)
	}
	return nil
}
