package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the root of every submission failure that did not
	// produce a usable reply.
	ErrTransport = errors.New("transport error")

	// ErrNonTextResponse is returned when the endpoint replied with a body
	// that is not plain text.
	ErrNonTextResponse = fmt.Errorf("%w: non-text response", ErrTransport)

	// ErrUnexpectedStatus is returned for replies outside the 2xx range.
	ErrUnexpectedStatus = fmt.Errorf("%w: unexpected status", ErrTransport)

	// ErrEncodingPayload is returned when the record cannot be serialized.
	ErrEncodingPayload = errors.New("error encoding backup payload")
)
