package request

import (
	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/errs"
)

type StartPaymentRequest struct {
	IsRetry bool `json:"isRetry"`
}

type SuccessPayload struct {
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type GatewayErrorPayload struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Step        string `json:"step"`
	Reason      string `json:"reason"`
}

// OutcomeRequest is what the browser-side checkout reports back.
type OutcomeRequest struct {
	Kind    string               `json:"kind" binding:"required,oneof=success user_cancelled gateway_error"`
	Success *SuccessPayload      `json:"success"`
	Error   *GatewayErrorPayload `json:"error"`
}

func (r *OutcomeRequest) ToDomain() (payment.Outcome, error) {
	switch r.Kind {
	case payment.OutcomeSuccess.String():
		if r.Success == nil {
			return payment.Outcome{}, errs.New("success outcome requires a success payload")
		}
		return payment.Succeeded(payment.SuccessPayload(*r.Success)), nil
	case payment.OutcomeUserCancelled.String():
		if r.Error == nil {
			return payment.Cancelled(nil), nil
		}
		p := payment.GatewayErrorPayload(*r.Error)
		return payment.Cancelled(&p), nil
	case payment.OutcomeGatewayError.String():
		if r.Error == nil {
			return payment.Outcome{}, errs.New("gateway error outcome requires an error payload")
		}
		return payment.GatewayFailed(payment.GatewayErrorPayload(*r.Error)), nil
	default:
		return payment.Outcome{}, errs.New("unknown outcome kind " + r.Kind)
	}
}
