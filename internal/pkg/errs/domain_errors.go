package errs

// Failure taxonomy shared by the API client, the payment flow and the booking lifecycle.
// Attach with Mark and classify with errors.Is.
var (
	// Credential errors
	ErrExpiredCredential = New("credential expired")
	ErrRenewalFailed     = New("credential renewal failed")
	ErrReplayFailed      = New("replayed request failed")
	ErrNotAuthenticated  = New("not authenticated")

	// Payment errors
	ErrPaymentCancelled    = New("payment cancelled")
	ErrPaymentGatewayError = New("payment gateway error")
	ErrVerificationFailed  = New("payment verification failed")
	ErrRetryLimitExceeded  = New("payment retry limit exceeded")
	ErrOrderCreationFailed = New("payment order creation failed")

	// Booking errors
	ErrTransitionRejected = New("booking status transition rejected")
	ErrBookingNotFound    = New("booking not found")

	// Upstream errors
	ErrUpstreamUnavailable = New("upstream unavailable")
	ErrMalformedEnvelope   = New("malformed response envelope")
)
