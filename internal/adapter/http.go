package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-climate-keeper/internal/config"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/utils"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// FormField is the form field carrying the JSON-encoded record.
const FormField = "data"

type httpBackupAdapter struct {
	client    *utils.HTTPClient
	backupURL string

	logger *logger.Logger
}

// NewHTTPBackupAdapter constructs an HTTP implementation of [BackupAdapter]
// that posts to adapterCfg.BackupURL. Every request is bounded by
// adapterCfg.RequestTimeout in addition to the caller's context.
//
// Returns an error if the backup URL is empty or not an absolute http(s) URL.
func NewHTTPBackupAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (BackupAdapter, error) {
	backupURL, err := normalizeBackupURL(adapterCfg.BackupURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter backup url: %w", err)
	}

	client := utils.NewHTTPClient().WithTimeout(adapterCfg.RequestTimeout)

	return &httpBackupAdapter{client: client, backupURL: backupURL, logger: logger}, nil
}

func normalizeBackupURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("address must include host and http(s) scheme")
	}

	return u.String(), nil
}

// Submit implements [BackupAdapter]. The record is encoded as the positional
// JSON array and sent as the "data" field of an
// application/x-www-form-urlencoded POST.
func (h *httpBackupAdapter) Submit(ctx context.Context, p models.BackupPayload) (string, error) {
	log := logger.FromContext(ctx)

	encoded, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	req := h.client.R()
	if traceID, ok := utils.GetTraceIDFromContext(ctx); ok {
		req.SetHeader(utils.TraceIDHeader, traceID)
	}

	resp, err := req.
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		SetFormData(map[string]string{FormField: string(encoded)}).
		Post(h.backupURL)
	if err != nil {
		log.Err(err).Str("func", "*httpBackupAdapter.Submit").Str("record_id", p.ID).Msg("backup request failed")
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Err(err).Str("func", "*httpBackupAdapter.Submit").Str("record_id", p.ID).Msg("backup endpoint returned an error status")
		return "", err
	}
	if err = checkTextResponse(resp); err != nil {
		log.Warn().Err(err).Str("func", "*httpBackupAdapter.Submit").Str("record_id", p.ID).Msg("backup endpoint returned a non-text reply")
		return "", err
	}

	return string(resp.Body()), nil
}
