package worker

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"

	"github.com/sevalink/marketplace_server/internal/pkg/email"
)

// SendError wraps a delivery failure with whether another attempt may succeed.
type SendError struct {
	Transient bool
	Err       error
}

func (e *SendError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s send failure: %v", kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// classifySendError decides whether a failed send is worth retrying. SMTP
// 5xx replies and malformed jobs are final; network trouble and 4xx replies
// are not.
func classifySendError(err error) *SendError {
	if errors.Is(err, email.ErrInvalidJob) || errors.Is(err, context.Canceled) {
		return &SendError{Transient: false, Err: err}
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return &SendError{Transient: protoErr.Code < 500, Err: err}
	}

	return &SendError{Transient: true, Err: err}
}
