package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	email    string
	password string
	rootCmd  *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "bookingctl",
		Short: "bookingctl - drive the venue booking API from a terminal",
		Long: `bookingctl talks to the booking API through the same authenticated client the gateway uses.

Configuration comes from the gateway's environment variables (UPSTREAM_BASE_URL,
CREDENTIAL_BACKEND, ...). With a durable credential backend a login is remembered between
runs; otherwise pass --email and --password to log in before each command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("BOOKINGCTL_EMAIL"), "Log in as this account before running the command")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("BOOKINGCTL_PASSWORD"), "Password for --email")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(bookingCmd)
	rootCmd.AddCommand(payCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
