package cli

import (
	"fmt"
	"os"

	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"

	"github.com/spf13/cobra"
)

var (
	payRetry      bool
	paySigningKey string
)

var payCmd = &cobra.Command{
	Use:   "pay [booking-id]",
	Short: "Pay for a booking, answering the checkout on stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runPay,
}

func init() {
	payCmd.Flags().BoolVar(&payRetry, "retry", false, "Retry a failed payment (counts against the retry limit)")
	payCmd.Flags().StringVar(&paySigningKey, "signing-key", os.Getenv("SANDBOX_PAYMENT_SIGNING_KEY"), "Sign successful checkouts with this sandbox key")
}

func runPay(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	b, err := rt.queries.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if payRetry {
		if err := payment.CheckRetryAllowed(b, rt.cfg.Payment.MaxRetries); err != nil {
			return errs.Wrapf(err, "no payment retries left for booking %s", b.ID())
		}
	}

	pay := rt.paymentCommands(cmd.InOrStdin(), out(cmd), paySigningKey)
	result, err := pay.Pay(cmd.Context(), b, commands.PayOptions{IsRetry: payRetry})
	if err != nil {
		var failure *payment.Failure
		if errs.As(err, &failure) {
			fmt.Fprintf(out(cmd), "\nPayment failed [%s]: %s\n", failure.Code, failure.HumanReason())
			return failure
		}
		return err
	}

	fmt.Fprintf(out(cmd), "\nPayment %s verified for booking %s (order %s)\n", result.PaymentID, result.BookingID, result.OrderID)
	return nil
}
