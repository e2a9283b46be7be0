package providers

import (
	"errors"

	"nathanbeddoewebdev/ec2kit/internal/domain"

	"github.com/aws/smithy-go"
)

// errorKinds maps EC2 API error codes to domain error kinds.
var errorKinds = map[string]error{
	"InvalidKeyPair.NotFound":     domain.ErrNotFound,
	"InvalidGroup.NotFound":       domain.ErrNotFound,
	"InvalidInstanceID.NotFound":  domain.ErrNotFound,
	"InvalidInstanceID.Malformed": domain.ErrNotFound,
	"InvalidAMIID.NotFound":       domain.ErrNotFound,

	"InvalidKeyPair.Duplicate":    domain.ErrConflict,
	"InvalidGroup.Duplicate":      domain.ErrConflict,
	"InvalidPermission.Duplicate": domain.ErrConflict,

	"UnauthorizedOperation": domain.ErrUnauthorized,
	"AuthFailure":           domain.ErrUnauthorized,
	"InvalidClientTokenId":  domain.ErrUnauthorized,
	"ExpiredToken":          domain.ErrUnauthorized,

	"RequestLimitExceeded": domain.ErrRateLimited,
	"Throttling":           domain.ErrRateLimited,
	"ThrottlingException":  domain.ErrRateLimited,
}

// kindError attaches a domain error kind to an SDK error while keeping the
// SDK error (and its message) in the chain.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string   { return e.err.Error() }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.err} }

// classifyError tags err with a domain kind based on its API error code.
// Errors without a recognised code are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	kind, ok := errorKinds[apiErr.ErrorCode()]
	if !ok {
		return err
	}
	return &kindError{kind: kind, err: err}
}
