package callback

import (
	"context"
	"net/http"

	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// Unconfigured stands in for a provider when no API key is set. Every call is
// reported as not placed so callers fall back to the published number.
type Unconfigured struct {
	Logger *logging.Logger
}

func (u Unconfigured) PlaceCall(_ context.Context, req Request) (Result, error) {
	logger := u.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Warn("callback: no calling provider configured", "to", logging.MaskPhone(req.PhoneNumber))
	return Result{OK: false, StatusCode: http.StatusServiceUnavailable}, nil
}
