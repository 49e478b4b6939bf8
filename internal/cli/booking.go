package cli

import (
	"fmt"
	"strings"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/queries"

	"github.com/spf13/cobra"
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Inspect and update bookings",
}

var bookingShowCmd = &cobra.Command{
	Use:   "show [booking-id]",
	Short: "Show a booking with its payment state and allowed actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookingShow,
}

var bookingStatusCmd = &cobra.Command{
	Use:   "status [booking-id] [accept|reject|complete]",
	Short: "Move a booking through its lifecycle",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookingStatus,
}

func init() {
	bookingCmd.AddCommand(bookingShowCmd)
	bookingCmd.AddCommand(bookingStatusCmd)
}

func runBookingShow(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	view, err := rt.queries.GetView(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printBooking(cmd, view)
	return nil
}

func printBooking(cmd *cobra.Command, v *queries.BookingView) {
	w := out(cmd)
	fmt.Fprintf(w, "Booking %s\n", v.ID)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  Venue:     %s\n", v.VenueName)
	fmt.Fprintf(w, "  Guest:     %s <%s>\n", v.GuestName, v.GuestEmail)
	fmt.Fprintf(w, "  Total:     %s\n", v.TotalFormatted)
	fmt.Fprintf(w, "  Status:    %s\n", v.Status)
	fmt.Fprintf(w, "  Payment:   %s (retries used: %d)\n", v.PaymentStatus, v.RetryCount)
	if v.CanRetryPayment {
		fmt.Fprintln(w, "  Retry:     available")
	}
	if len(v.AllowedActions) > 0 {
		fmt.Fprintf(w, "  Actions:   %s\n", strings.Join(v.AllowedActions, ", "))
	}
}

func runBookingStatus(cmd *cobra.Command, args []string) error {
	action, ok := booking.ParseAction(args[1])
	if !ok {
		return fmt.Errorf("unknown action %q (want accept, reject or complete)", args[1])
	}

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	cached, err := rt.queries.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	change, err := rt.bookings.ChangeStatus(cmd.Context(), cached, action)
	if err != nil {
		if errs.Is(err, errs.ErrTransitionRejected) {
			return fmt.Errorf("%s", errs.HumanReason(err))
		}
		return err
	}

	fmt.Fprintf(out(cmd), "Booking %s is now %s\n", change.BookingID, change.Reported)
	if change.Corrected {
		fmt.Fprintf(out(cmd), "  (requested %s, the server decided otherwise)\n", change.Requested)
	}
	return nil
}
