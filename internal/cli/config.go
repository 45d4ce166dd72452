package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Config prints the effective configuration after merging defaults, the
config file (LAUDOS_CONFIG or <user-config-dir>/laudos/config.yaml) and
LAUDOS_* environment variables.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	fmt.Printf("server_url:      %s\n", cfg.ServerURL)
	fmt.Printf("request_timeout: %s\n", cfg.RequestTimeout)
	fmt.Printf("auth_url:        %s\n", cfg.AuthURL)
	fmt.Printf("token_url:       %s\n", cfg.TokenURL)
	fmt.Printf("client_id:       %s\n", cfg.ClientID)
	fmt.Printf("redirect_url:    %s\n", cfg.RedirectURL)
	fmt.Printf("storage_dir:     %s\n", cfg.StorageDir)
	fmt.Printf("search_debounce: %s\n", cfg.SearchDebounce)
	fmt.Printf("log_file:        %s\n", cfg.LogFile)
	fmt.Printf("log_level:       %s\n", cfg.LogLevel)
	return nil
}
