package upstream

import (
	"context"
	"net/http"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/pkg/errs"
)

// JSONDoer is the slice of apiclient.Client the adapters need.
type JSONDoer interface {
	DoJSON(ctx context.Context, method, path string, in, out any) error
}

var _ JSONDoer = (*apiclient.Client)(nil)

func markNotFound(err error, sentinel error) error {
	if apiclient.HasStatus(err, http.StatusNotFound) {
		return errs.Mark(err, sentinel)
	}
	return err
}
