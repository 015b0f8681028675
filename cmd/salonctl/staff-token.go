package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/beauteq/salon-assistant/pkg/config"
	"github.com/beauteq/salon-assistant/pkg/server/middleware"
)

// staffTokenCmd represents the staff-token command
var staffTokenCmd = &cobra.Command{
	Use:   "staff-token <login>",
	Short: "Mint a staff API token",
	Long: `Mint a signed token for the staff HTTP API.

The token is signed with BEAUTEQ_STAFF_TOKEN_SECRET and expires after
the configured TTL. Pass it as a Bearer token:

  curl -H "Authorization: Bearer <token>" http://localhost:8000/api/appointments?user_id=1

Example:
  salonctl staff-token admin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if cfg.StaffTokenSecret == "" {
			fmt.Fprintln(os.Stderr, "BEAUTEQ_STAFF_TOKEN_SECRET environment variable is required")
			os.Exit(1)
		}

		auth := middleware.NewStaffAuthenticator([]byte(cfg.StaffTokenSecret))
		ttl := time.Duration(cfg.StaffTokenTTL) * time.Second
		token, err := auth.IssueToken(args[0], ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to mint token: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(staffTokenCmd)
}
