package cli

import (
	"fmt"

	reqdto "venue-booking-gateway/internal/handler/dto/request"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the credential in the configured backend",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored credential",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if email == "" || password == "" {
		return fmt.Errorf("--email and --password are required")
	}
	// newRuntime logs in itself when --email is set
	loginEmail := email
	email = ""

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	result, err := rt.auth.Login(cmd.Context(), reqdto.LoginRequest{Email: loginEmail, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Logged in as %s <%s>\n", result.Account.Name, result.Account.Email)
	if rt.cfg.CredentialStore.Backend == "" || rt.cfg.CredentialStore.Backend == "memory" {
		fmt.Fprintln(out(cmd), "Note: the memory backend forgets this login when bookingctl exits.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.auth.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), "Logged out")
	return nil
}
