// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BackupFieldCount is the number of positional fields in a backup payload.
const BackupFieldCount = 14

// ErrMalformedPayload is returned by [BackupPayload.UnmarshalJSON] when the
// input is not a positional array of the expected shape.
var ErrMalformedPayload = errors.New("malformed backup payload")

// BackupPayload is the wire form of a record submitted to the remote backup
// endpoint. It is encoded as a positional JSON array in this order:
//
//	[id, study_site, type, date, month, min, max, mean, total,
//	 device_code, latitude, longitude, entry_time, userId]
//
// Empty Date and Month are sent as null.
type BackupPayload struct {
	ID         string
	StudySite  string
	Type       string
	Date       string
	Month      string
	Min        *float64
	Max        *float64
	Mean       *float64
	Total      *float64
	DeviceCode string
	Latitude   *float64
	Longitude  *float64
	EntryTime  string
	UserID     string
}

// NewBackupPayload builds the wire form of r.
func NewBackupPayload(r ClimateRecord) BackupPayload {
	return BackupPayload{
		ID:         r.ID,
		StudySite:  r.StudySite,
		Type:       r.Type.String(),
		Date:       r.Date,
		Month:      r.Month,
		Min:        r.Min(),
		Max:        r.Max(),
		Mean:       r.Mean(),
		Total:      r.Total(),
		DeviceCode: r.DeviceCode,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		EntryTime:  r.EntryTimeText(),
		UserID:     r.UserID,
	}
}

// MarshalJSON implements json.Marshaler.
func (p BackupPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		p.ID,
		p.StudySite,
		p.Type,
		nullableText(p.Date),
		nullableText(p.Month),
		p.Min,
		p.Max,
		p.Mean,
		p.Total,
		p.DeviceCode,
		p.Latitude,
		p.Longitude,
		p.EntryTime,
		p.UserID,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Text fields accept JSON strings,
// numbers or null; numeric fields accept numbers, numeric strings or null.
func (p *BackupPayload) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(fields) != BackupFieldCount {
		return fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedPayload, BackupFieldCount, len(fields))
	}

	var out BackupPayload
	texts := []struct {
		idx int
		dst *string
	}{
		{0, &out.ID}, {1, &out.StudySite}, {2, &out.Type}, {3, &out.Date},
		{4, &out.Month}, {9, &out.DeviceCode}, {12, &out.EntryTime}, {13, &out.UserID},
	}
	for _, f := range texts {
		v, err := decodeText(fields[f.idx])
		if err != nil {
			return fmt.Errorf("%w: field %d: %v", ErrMalformedPayload, f.idx, err)
		}
		*f.dst = v
	}

	numbers := []struct {
		idx int
		dst **float64
	}{
		{5, &out.Min}, {6, &out.Max}, {7, &out.Mean}, {8, &out.Total},
		{10, &out.Latitude}, {11, &out.Longitude},
	}
	for _, f := range numbers {
		v, err := decodeNumber(fields[f.idx])
		if err != nil {
			return fmt.Errorf("%w: field %d: %v", ErrMalformedPayload, f.idx, err)
		}
		*f.dst = v
	}

	*p = out
	return nil
}

// EntryTimeValue parses EntryTime. Both the canonical layout and RFC 3339
// are accepted.
func (p BackupPayload) EntryTimeValue() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, p.EntryTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry_time %q: %w", p.EntryTime, err)
	}
	return t.UTC(), nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var jsonNull = []byte("null")

func decodeText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

func decodeNumber(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("expected numeric string, got %q", s)
		}
		return &v, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("expected number, got %s", raw)
	}
	return &v, nil
}
