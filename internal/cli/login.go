package cli

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/storage"
)

var loginCode string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the identity provider",
	Long: `Login starts the OAuth2 authorization-code flow: it prints the provider
URL, you complete it in a browser and paste the authorization code back.

Examples:
  laudos login
  laudos login --code <authorization-code>`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginCode, "code", "", "authorization code from the provider redirect")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	code := loginCode
	if code == "" {
		state := randomState()
		fmt.Printf("Open this URL in a browser and authorize the client:\n\n  %s\n\n", authenticator.LoginURL(state))
		fmt.Print("Paste the authorization code: ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read authorization code: %w", err)
		}
		code = strings.TrimSpace(line)
	}
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	profile, err := authenticator.HandleCallback(ctx, code)
	if err != nil {
		return err
	}

	// HandleCallback already stored the token pair; mirror it into the
	// session so the derived state flips to authenticated.
	access, _ := stateStore.Get(storage.KeyAccessToken)
	refresh, _ := stateStore.Get(storage.KeyRefreshToken)
	if err := session.SetUser(*profile, access, refresh); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	fmt.Printf("Logged in as %s <%s>\n", profile.Name, profile.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	session.Logout()
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	state := session.State()
	if !state.IsAuthenticated || state.User == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("%s <%s>\n", state.User.Name, state.User.Email)
	if verbose {
		fmt.Printf("  ID:    %s\n", state.User.ID)
		if len(state.User.Roles) > 0 {
			fmt.Printf("  Roles: %s\n", strings.Join(state.User.Roles, ", "))
		}
	}
	return nil
}

// randomState generates the anti-CSRF state for the authorization URL.
func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "laudos-cli"
	}
	return hex.EncodeToString(b)
}
