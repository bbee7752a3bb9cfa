// Package cli wires the engine's commands: the long-running server and
// one-shot runs of each periodic job. Every job is safe to run from a
// one-shot command while a server instance is live, since all of them are
// idempotent and re-entrant.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lendqube/lendqube/internal/config"
	"github.com/lendqube/lendqube/internal/database"
	"github.com/lendqube/lendqube/internal/disbursement"
	disbursementStore "github.com/lendqube/lendqube/internal/disbursement/store"
	lendqubeHttp "github.com/lendqube/lendqube/internal/http"
	"github.com/lendqube/lendqube/internal/http/auth"
	checkoutHandler "github.com/lendqube/lendqube/internal/http/checkout"
	disbursementHandler "github.com/lendqube/lendqube/internal/http/disbursement"
	ledgerHandler "github.com/lendqube/lendqube/internal/http/ledger"
	providerhookHandler "github.com/lendqube/lendqube/internal/http/providerhook"
	repaymentHandler "github.com/lendqube/lendqube/internal/http/repayment"
	"github.com/lendqube/lendqube/internal/ledger"
	ledgerStore "github.com/lendqube/lendqube/internal/ledger/store"
	"github.com/lendqube/lendqube/internal/loan"
	loanStore "github.com/lendqube/lendqube/internal/loan/store"
	"github.com/lendqube/lendqube/internal/merchant"
	merchantStore "github.com/lendqube/lendqube/internal/merchant/store"
	"github.com/lendqube/lendqube/internal/paystack"
	"github.com/lendqube/lendqube/internal/repayment"
	repaymentStore "github.com/lendqube/lendqube/internal/repayment/store"
	"github.com/lendqube/lendqube/internal/reservation"
	reservationStore "github.com/lendqube/lendqube/internal/reservation/store"
	"github.com/lendqube/lendqube/internal/webhook"
)

type app struct {
	cfg *config.Config
	db  *sql.DB

	merchants     *merchant.Service
	reservations  *reservation.Service
	sweeper       *reservation.Sweeper
	loans         *loan.Service
	disbursements *disbursement.Service
	repayments    *repayment.Service
	collector     *repayment.Collector
	trails        *ledger.Service

	router http.Handler
}

func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	provider := paystack.NewClient(paystack.Config{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
	})

	var (
		merchants    = merchant.NewService(merchantStore.New(db))
		reservations = reservation.NewService(reservationStore.New(db), merchants, cfg.Reservation.TTL)
		sweeper      = reservation.NewSweeper(reservationStore.New(db), cfg.Jobs.SweepInterval)
		loans        = loan.NewService(loanStore.New(db))
		publisher    = webhook.NewPublisher(merchants)
	)

	disbursements := disbursement.NewService(
		disbursementStore.New(db), reservations, merchants, provider, loans,
	)

	var (
		repayments = repayment.NewService(repaymentStore.New(db))
		collector  = repayment.NewCollector(repaymentStore.New(db), provider, publisher)
		trails     = ledger.NewService(ledgerStore.New(db))
	)

	authenticator := auth.NewAuthenticator(merchants, []byte(cfg.Auth.JWTSecret))

	router := lendqubeHttp.New(
		authenticator,
		checkoutHandler.NewHandler(reservations),
		disbursementHandler.NewHandler(disbursements),
		providerhookHandler.NewHandler(disbursements, provider),
		repaymentHandler.NewHandler(loans, repayments),
		ledgerHandler.NewHandler(trails),
	)

	return &app{
		cfg:           cfg,
		db:            db,
		merchants:     merchants,
		reservations:  reservations,
		sweeper:       sweeper,
		loans:         loans,
		disbursements: disbursements,
		repayments:    repayments,
		collector:     collector,
		trails:        trails,
		router:        router,
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

// Execute runs the root command.
func Execute() {
	root := &cobra.Command{
		Use:          "lendqube",
		Short:        "Allocation reservation and disbursement ledger engine",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), sweepCmd(), collectCmd(), retryCmd(), verifyCmd(), trailCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the periodic jobs in-process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go a.sweeper.Run(ctx)
			go a.collector.Run(ctx, a.cfg.Jobs.CollectInterval, a.cfg.Jobs.RetryInterval)

			addr := fmt.Sprintf(":%d", a.cfg.App.Port)
			slog.Info("starting server", "addr", addr)

			return http.ListenAndServe(addr, a.router)
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reservation expiry sweep and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}

			slog.Info("sweep complete", "expired", n)

			return nil
		},
	}
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Run one auto-debit collection pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.collector.CollectOnce(cmd.Context())
			if err != nil {
				return err
			}

			slog.Info("collection complete", "charged", n)

			return nil
		},
	}
}

func retryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Run one auto-debit retry dispatch and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.collector.RetryOnce(cmd.Context())
			if err != nil {
				return err
			}

			slog.Info("retry dispatch complete", "charged", n)

			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Reconcile stale initiated disbursements against the provider and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.disbursements.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			slog.Info("reconciliation complete", "finalized", n)

			return nil
		},
	}
}

func trailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trail <mapping-id>",
		Short: "Print the ledger trail of one allocation mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappingID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid mapping id: %w", err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.trails.MappingTrail(cmd.Context(), mappingID)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-8s %12d %s  %s\n",
					e.CreatedAt.Format(time.RFC3339), e.Type, e.Status, e.Amount, e.Currency, e.Reason)
			}

			return nil
		},
	}
}
