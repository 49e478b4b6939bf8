package payment

const (
	CodePaymentCancelled   = "PAYMENT_CANCELLED"
	CodeVerificationFailed = "VERIFICATION_FAILED"
	CodeGatewayError       = "GATEWAY_ERROR"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeUserCancelled
	OutcomeGatewayError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUserCancelled:
		return "user_cancelled"
	case OutcomeGatewayError:
		return "gateway_error"
	default:
		return "unknown"
	}
}

type SuccessPayload struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

// BelongsTo reports whether the payload is for orderID. A payload without an
// order id is taken to belong to the order it settles.
func (p SuccessPayload) BelongsTo(orderID string) bool {
	return p.OrderID == "" || p.OrderID == orderID
}

type GatewayErrorPayload struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Step        string `json:"step"`
	Reason      string `json:"reason"`
}

// Outcome is the checkout collaborator's single answer for one order.
type Outcome struct {
	kind    OutcomeKind
	success SuccessPayload
	failure GatewayErrorPayload
}

func Succeeded(p SuccessPayload) Outcome {
	return Outcome{kind: OutcomeSuccess, success: p}
}

// Cancelled accepts the optional payload a collaborator sends when the user closes or
// abandons checkout. A missing code is reported as PAYMENT_CANCELLED.
func Cancelled(p *GatewayErrorPayload) Outcome {
	var payload GatewayErrorPayload
	if p != nil {
		payload = *p
	}
	if payload.Code == "" {
		payload.Code = CodePaymentCancelled
	}
	if payload.Description == "" {
		payload.Description = "Payment was cancelled by the user"
	}
	return Outcome{kind: OutcomeUserCancelled, failure: payload}
}

func GatewayFailed(p GatewayErrorPayload) Outcome {
	if p.Code == "" {
		p.Code = CodeGatewayError
	}
	return Outcome{kind: OutcomeGatewayError, failure: p}
}

func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

func (o Outcome) Success() (SuccessPayload, bool) {
	return o.success, o.kind == OutcomeSuccess
}

func (o Outcome) Failure() (GatewayErrorPayload, bool) {
	return o.failure, o.kind == OutcomeUserCancelled || o.kind == OutcomeGatewayError
}
