package httpclient

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/kbukum/fgakit/errors"
)

// ClassifyStatus returns nil for a 2xx status and a TRANSPORT_ERROR
// *errors.AppError carrying the status and body otherwise.
func ClassifyStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return errors.Transport(statusCode, body)
}

// ClassifyFailure maps a request that produced no response to CONNECTION_FAILED
// or TIMEOUT. Cancellation is reported as a non-retryable CONNECTION_FAILED.
func ClassifyFailure(ctx context.Context, service string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled) {
		e := errors.ConnectionFailed(service, err)
		e.Message = "request to " + service + " was canceled"
		e.Retryable = false
		return e
	}
	if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return errors.Timeout("request to "+service, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout("request to "+service, err)
	}
	return errors.ConnectionFailed(service, err)
}
