// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/MKhiriev/go-climate-keeper/internal/app"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validPayloadJSON = `["30user0042001337","Gazipur","dailyTemp","2025-07-14 10:00:00",null,24.5,33.1,28.8,null,"DEV-01",23.81,90.41,"2025-07-14T08:00:00.000000000Z","user0042"]`

func TestReceiveBackup_Accepted(t *testing.T) {
	svcs, backups := newTestServices(t)
	router := NewHandler(svcs, "", logger.Nop()).Init()

	backups.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.BackupPayload) error {
			assert.Equal(t, "30user0042001337", p.ID)
			assert.Equal(t, "user0042", p.UserID)
			assert.Equal(t, "Gazipur", p.StudySite)
			assert.Empty(t, p.Month)
			require.NotNil(t, p.Max)
			assert.Equal(t, 33.1, *p.Max)
			assert.Nil(t, p.Total)
			return nil
		})

	rr := postForm(t, router, DefaultBackupPath, url.Values{"data": {validPayloadJSON}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ReplyAccepted, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
}

func TestReceiveBackup_CustomPath(t *testing.T) {
	svcs, backups := newTestServices(t)
	router := NewHandler(svcs, "/v2/backup", logger.Nop()).Init()

	backups.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	rr := postForm(t, router, "/v2/backup", url.Values{"data": {validPayloadJSON}})
	assert.Equal(t, ReplyAccepted, rr.Body.String())
}

func TestReceiveBackup_Rejected(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "no data field", form: url.Values{"other": {validPayloadJSON}}},
		{name: "blank data field", form: url.Values{"data": {"  "}}},
		{name: "not json", form: url.Values{"data": {"id=1&type=dailyTemp"}}},
		{name: "object instead of array", form: url.Values{"data": {`{"id":"r-1"}`}}},
		{name: "wrong arity", form: url.Values{"data": {`["r-1","Gazipur","dailyTemp"]`}}},
		{name: "missing id", form: url.Values{"data": {strings.Replace(validPayloadJSON, `"30user0042001337"`, `""`, 1)}}},
		{name: "unknown type", form: url.Values{"data": {strings.Replace(validPayloadJSON, `"dailyTemp"`, `"hourlyTemp"`, 1)}}},
		{name: "bad entry time", form: url.Values{"data": {strings.Replace(validPayloadJSON, `"2025-07-14T08:00:00.000000000Z"`, `"today"`, 1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs, backups := newTestServices(t)
			router := NewHandler(svcs, "", logger.Nop()).Init()

			backups.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(0)

			rr := postForm(t, router, DefaultBackupPath, tt.form)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, ReplyRejected, rr.Body.String())
		})
	}
}

func TestReceiveBackup_StorageFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "retryable", err: fmt.Errorf("%w: connection refused", store.ErrStorageUnavailable), wantStatus: http.StatusServiceUnavailable},
		{name: "not saved", err: store.ErrBackupNotSaved, wantStatus: http.StatusInternalServerError},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs, backups := newTestServices(t)
			router := NewHandler(svcs, "", logger.Nop()).Init()

			backups.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(tt.err)

			rr := postForm(t, router, DefaultBackupPath, url.Values{"data": {validPayloadJSON}})
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEqual(t, ReplyAccepted, strings.TrimSpace(rr.Body.String()))
			assert.NotEqual(t, ReplyRejected, strings.TrimSpace(rr.Body.String()))
		})
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFromError(store.ErrStorageUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(store.ErrBackupNotSaved))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("other")))
}

func TestReceiveBackup_ErrorBodies(t *testing.T) {
	svcs, backups := newTestServices(t)
	router := NewHandler(svcs, "", logger.Nop()).Init()

	backups.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(store.ErrStorageUnavailable)

	rr := postForm(t, router, DefaultBackupPath, url.Values{"data": {validPayloadJSON}})
	assert.Equal(t, app.MsgStorageUnavailable, strings.TrimSpace(rr.Body.String()))
}
