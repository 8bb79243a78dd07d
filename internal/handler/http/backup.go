// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-climate-keeper/internal/adapter"
	"github.com/MKhiriev/go-climate-keeper/internal/app"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/service"
	"github.com/MKhiriev/go-climate-keeper/internal/utils"
	"github.com/MKhiriev/go-climate-keeper/models"
)

// Plain-text replies of the backup route.
const (
	ReplyAccepted = "1"
	ReplyRejected = service.RejectedReply
)

// maxFormBytes bounds the size of a submission body.
const maxFormBytes = 64 << 10

// receiveBackup accepts one record submitted as the "data" form field.
// Malformed or invalid submissions get the rejection reply with status 200,
// so the client keeps the record pending. Storage failures are reported with
// a 5xx status, which the client treats as a transport failure.
func (h *Handler) receiveBackup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	payload, err := decodeBackupForm(r)
	if err != nil {
		log.Info().Err(err).Str("func", "*Handler.receiveBackup").Msg(app.MsgSubmissionRejected)
		utils.WriteText(w, ReplyRejected, http.StatusOK)
		return
	}

	err = h.services.BackupService.Store(r.Context(), payload)
	switch {
	case err == nil:
		utils.WriteText(w, ReplyAccepted, http.StatusOK)
	case errors.Is(err, service.ErrInvalidDataProvided):
		utils.WriteText(w, ReplyRejected, http.StatusOK)
	default:
		log.Err(err).Str("func", "*Handler.receiveBackup").Str("record_id", payload.ID).Msg(app.MsgErrorStoringSubmission)
		status := statusFromError(err)
		http.Error(w, messageForStatus(status), status)
	}
}

func decodeBackupForm(r *http.Request) (models.BackupPayload, error) {
	if err := r.ParseForm(); err != nil {
		return models.BackupPayload{}, fmt.Errorf("%w: %w", ErrMissingFormField, err)
	}

	raw := r.PostFormValue(adapter.FormField)
	if strings.TrimSpace(raw) == "" {
		return models.BackupPayload{}, ErrMissingFormField
	}

	var payload models.BackupPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.BackupPayload{}, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
	}
	return payload, nil
}
