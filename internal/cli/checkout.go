package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/sandbox"

	"github.com/google/uuid"
)

// StdinCheckout plays the checkout widget in a terminal. It answers exactly one callback
// per order; end of input counts as the user closing checkout.
type StdinCheckout struct {
	in         *bufio.Reader
	out        io.Writer
	signingKey string
}

// With a signing key, a success answer is signed the way the sandbox expects, so no
// payment id or signature has to be typed.
func NewStdinCheckout(in io.Reader, out io.Writer, signingKey string) *StdinCheckout {
	return &StdinCheckout{in: bufio.NewReader(in), out: out, signingKey: signingKey}
}

func (s *StdinCheckout) Open(_ context.Context, d payment.OrderDescriptor, cb payment.Callbacks) error {
	total, err := booking.NewMoney(d.Amount, d.Currency)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Checkout for order %s: %s\n", d.OrderID, total.String())
	if d.Prefill.Name != "" {
		fmt.Fprintf(s.out, "  Paying as %s <%s>\n", d.Prefill.Name, d.Prefill.Email)
	}
	fmt.Fprint(s.out, "[s]ucceed, [c]ancel or [f]ail? ")

	go s.answer(d, cb)
	return nil
}

func (s *StdinCheckout) answer(d payment.OrderDescriptor, cb payment.Callbacks) {
	choice, err := s.readLine()
	if err != nil {
		cb.OnUserCancelledOrFailed(nil)
		return
	}

	switch strings.ToLower(choice) {
	case "s", "succeed", "success":
		p, err := s.successPayload(d.OrderID)
		if err != nil {
			cb.OnUserCancelledOrFailed(nil)
			return
		}
		cb.OnUserSuccess(p)
	case "f", "fail":
		cb.OnGatewayFailure(payment.GatewayErrorPayload{
			Code:        "BAD_REQUEST_ERROR",
			Description: "Payment was declined at the terminal",
			Source:      "customer",
			Step:        "payment_authorization",
			Reason:      "payment_failed",
		})
	default:
		cb.OnUserCancelledOrFailed(nil)
	}
}

func (s *StdinCheckout) successPayload(orderID string) (payment.SuccessPayload, error) {
	if s.signingKey != "" {
		paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
		return payment.SuccessPayload{
			PaymentID: paymentID,
			OrderID:   orderID,
			Signature: sandbox.Sign(s.signingKey, orderID, paymentID),
		}, nil
	}

	fmt.Fprint(s.out, "payment id and signature: ")
	line, err := s.readLine()
	if err != nil {
		return payment.SuccessPayload{}, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return payment.SuccessPayload{}, errs.Newf("expected payment id and signature, got %d fields", len(fields))
	}
	return payment.SuccessPayload{PaymentID: fields[0], OrderID: orderID, Signature: fields[1]}, nil
}

func (s *StdinCheckout) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
