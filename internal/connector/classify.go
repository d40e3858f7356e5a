package connector

import (
	"context"
	"errors"
	"net"

	"google.golang.org/genai"
)

// retryableStatusCodes are the backend status codes worth retrying: rate
// limiting and transient server-side failures.
var retryableStatusCodes = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// IsRetryable classifies a backend error as transient or terminal. It is
// pure and side-effect free; every retrying operation consults it.
//
// Rate-limit and transient server errors (429, 500, 502, 503, 504) are
// retryable, as are network and timeout failures. Any other status code or
// error type is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatusCodes[apiErr.Code]
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
