package adapter

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a non-2xx reply into [ErrUnexpectedStatus].
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, resp.StatusCode(), body)
}

// checkTextResponse rejects replies whose declared media type is not text/*
// or whose body is not valid UTF-8. A missing Content-Type is accepted.
func checkTextResponse(resp *resty.Response) error {
	if ct := resp.Header().Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !strings.HasPrefix(mediaType, "text/") {
			return fmt.Errorf("%w: content type %q", ErrNonTextResponse, ct)
		}
	}
	if !utf8.Valid(resp.Body()) {
		return fmt.Errorf("%w: body is not valid utf-8", ErrNonTextResponse)
	}
	return nil
}
