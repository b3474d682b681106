package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/awakzdev/stockfeed/internal/adapter/driven/github"
	sqliteadapter "github.com/awakzdev/stockfeed/internal/adapter/driven/sqlite"
	"github.com/awakzdev/stockfeed/internal/adapter/driven/yahoo"
	"github.com/awakzdev/stockfeed/internal/application"
	"github.com/awakzdev/stockfeed/internal/config"
	"github.com/awakzdev/stockfeed/internal/domain/model"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockfeed",
		Short: "Fetches stock history and pushes CSV snapshots to a GitHub repository",
		Long: `stockfeed maintains a symbol watchlist, fetches daily OHLCV history for
every watched symbol, and pushes the resulting CSV files to a GitHub
repository. One run performs exactly one operation: adding a symbol to the
watchlist (when --symbol is given) or the default full update.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(symbolsCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies one invocation needs.
type app struct {
	cfg        *config.Config
	db         *sqliteadapter.DB
	publisher  *githubadapter.Client
	dispatcher *application.Dispatcher
	symbols    *sqliteadapter.SymbolRepo
	runs       *sqliteadapter.RunRepo
	updater    *application.UpdateService
}

// buildApp loads configuration (failing fast on the missing credential,
// before anything else happens), opens the database, runs migrations, and
// wires the adapters. Callers must Close the returned app.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.Info("config loaded",
		"repo", cfg.Repo,
		"branch", cfg.Branch,
		"db_path", cfg.DBPath,
		"output_dir", cfg.OutputDir,
	)

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		db.Close()
		return nil, err
	}

	publisher, err := githubadapter.NewClient(cfg.GitHubToken, cfg.Repo, cfg.Branch)
	if err != nil {
		db.Close()
		return nil, err
	}

	symbolRepo := sqliteadapter.NewSymbolRepo(db)
	runRepo := sqliteadapter.NewRunRepo(db)
	market := yahoo.NewClient()

	adder := application.NewAddService(symbolRepo)
	updater := application.NewUpdateService(
		market,
		publisher,
		symbolRepo,
		cfg.OutputDir,
		cfg.StartDate,
		cfg.MergeSymbol,
	)
	dispatcher := application.NewDispatcher(adder, updater, runRepo)

	return &app{
		cfg:        cfg,
		db:         db,
		publisher:  publisher,
		dispatcher: dispatcher,
		symbols:    symbolRepo,
		runs:       runRepo,
		updater:    updater,
	}, nil
}

// verifyToken checks the GitHub token before any operation that pushes to the
// repository, so a revoked credential fails the run up front instead of
// halfway through an update cycle.
func (a *app) verifyToken(ctx context.Context) error {
	login, err := a.publisher.ValidateToken(ctx)
	if err != nil {
		return fmt.Errorf("github token validation failed: %w", err)
	}
	slog.Info("github token validated", "login", login)
	return nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCmd() *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one manual invocation",
		Long: `Run one manual invocation. With --symbol the run adds that symbol to the
watchlist; without it the run performs the default full update.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.verifyToken(ctx); err != nil {
				return err
			}
			return a.dispatcher.Dispatch(ctx, model.TriggerManual, symbol)
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "symbol to add to the watchlist (omit for a full update)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily update schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.verifyToken(ctx); err != nil {
				return err
			}
			scheduler := application.NewScheduler(a.dispatcher, a.cfg.RunAt)
			slog.Info("stockfeed serving", "run_at", a.cfg.RunAt, "repo", a.cfg.Repo)
			return scheduler.Start(ctx)
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh SYMBOL",
		Short: "Fetch and push a single symbol without touching the rest of the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.verifyToken(ctx); err != nil {
				return err
			}
			return a.updater.UpdateSymbol(ctx, args[0])
		},
	}
}

func symbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Manage the watchlist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			symbols, err := a.symbols.List(ctx)
			if err != nil {
				return err
			}
			for _, sym := range symbols {
				fmt.Fprintln(cmd.OutOrStdout(), sym.Ticker)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Remove a symbol from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ticker := model.NormalizeTicker(args[0])
			if err := a.symbols.Remove(ctx, ticker); err != nil {
				return err
			}
			slog.Info("symbol removed", "symbol", ticker)
			return nil
		},
	})

	return cmd
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent invocations from the run ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.runs.ListRecent(ctx, limit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				line := fmt.Sprintf("%s  %-9s %-7s %-8s %s",
					run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Trigger, run.Operation, run.Status, run.Symbol)
				if run.Error != "" {
					line += "  " + run.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")
	return cmd
}
