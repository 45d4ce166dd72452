// Package cli provides the command-line interface for laudos.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/api"
	"github.com/sistema-laudos/laudos-go/internal/auth"
	"github.com/sistema-laudos/laudos-go/internal/config"
	"github.com/sistema-laudos/laudos-go/internal/metrics"
	"github.com/sistema-laudos/laudos-go/internal/storage"
	"github.com/sistema-laudos/laudos-go/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and wiring, built in PersistentPreRunE
	cfg            config.Config
	logger         *slog.Logger
	logCleanup     func() error
	stateStore     *storage.FileStore
	session        *auth.Session
	authenticator  *auth.Authenticator
	notifications  *store.Notifications
	requestMetrics *metrics.Collector
	apiClient      *api.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "laudos",
	Short: "Cliente do Sistema de Laudos",
	Long: `Laudos is the command-line client for the Sistema de Laudos backend:
contract PDF upload and analysis, legal opinions (pareceres), signature
geolocation and credit bureau data.

Authentication uses the OAuth2 authorization-code flow; run 'laudos login'
first. Tokens are stored locally and refreshed automatically.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch the backend skip the wiring
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		var cleanup func() error
		logger, cleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		logCleanup = cleanup

		var err error
		stateStore, err = storage.OpenFileStore(cfg.StorageFile())
		if err != nil {
			return fmt.Errorf("open local state: %w", err)
		}

		session = auth.NewSession(stateStore)
		authenticator = auth.NewAuthenticator(auth.Endpoints{
			AuthURL:     cfg.AuthURL,
			TokenURL:    cfg.TokenURL,
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
		}, stateStore)

		notifications = store.NewNotifications()
		notifications.Subscribe(printNotifications())

		requestMetrics = metrics.NewCollector()

		apiClient = api.New(api.Options{
			ServerURL: cfg.ServerURL,
			Timeout:   cfg.RequestTimeout,
			Store:     stateStore,
			Refresher: authenticator,
			Metrics:   requestMetrics,
			OnUnauthorized: func(message string) {
				notifications.Warning(message)
				session.CheckAuth()
			},
			Logger: logger,
		})

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if requestMetrics != nil && logger != nil {
			snap := requestMetrics.Snapshot()
			for op, stats := range snap.Operations {
				logger.Debug("api requests", "operation", op, "count", stats.Count,
					"errors", stats.Errors, "avg_ms", stats.AvgTimeMs)
			}
		}
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// printNotifications renders each newly raised toast on stderr. The listener
// receives the full list; the id high-water mark keeps reprints out.
func printNotifications() store.Listener {
	var lastPrinted int64
	return func(items []store.Notification) {
		for _, item := range items {
			if item.ID <= lastPrinted {
				continue
			}
			lastPrinted = item.ID
			prefix := map[string]string{
				store.TypeSuccess: "✓",
				store.TypeError:   "✗",
				store.TypeWarning: "!",
				store.TypeInfo:    "i",
			}[item.Type]
			fmt.Fprintf(os.Stderr, "%s %s\n", prefix, item.Message)
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(contratoCmd)
	rootCmd.AddCommand(parecerCmd)
	rootCmd.AddCommand(geoCmd)
	rootCmd.AddCommand(bureauCmd)
	rootCmd.AddCommand(configCmd)
}
