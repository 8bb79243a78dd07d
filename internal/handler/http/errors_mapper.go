package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-climate-keeper/internal/app"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
)

// errorStatusMap lists storage failures with a status other than 500.
// Rejections never reach it: they are answered with a 200 reply.
var errorStatusMap = map[error]int{
	store.ErrStorageUnavailable: http.StatusServiceUnavailable,

	store.ErrBackupNotSaved:       http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageForStatus(status int) string {
	if status == http.StatusServiceUnavailable {
		return app.MsgStorageUnavailable
	}
	return app.MsgInternalServerError
}
