// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"
)

const (
	// CalendarLayout is the canonical persisted layout of the date and month
	// columns, expressed in device local time.
	CalendarLayout = "2006-01-02 15:04:05"

	// EntryTimeLayout is the canonical persisted layout of entry_time. Values
	// are always UTC and fixed width so that text ordering equals time ordering.
	EntryTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

	// DayLayout is the calendar-day input layout without a time component.
	DayLayout = "2006-01-02"

	// MonthLayout is the year-month input layout for monthly records.
	MonthLayout = "2006-01"
)

// Reading is the measured payload of a record. Exactly one family applies to
// each RecordType: RangeReading for temperature and humidity, RainfallReading
// for rainfall.
type Reading interface {
	isReading()
}

// RangeReading carries min/max/mean values of a temperature or humidity
// observation. Absent values are nil, never zero.
type RangeReading struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Mean *float64 `json:"mean"`
}

func (RangeReading) isReading() {}

// RainfallReading carries the rainfall total of an observation.
type RainfallReading struct {
	Total *float64 `json:"total"`
}

func (RainfallReading) isReading() {}

// ClimateRecord is a persisted observation.
//
// Date and Month hold canonical [CalendarLayout] strings, or are empty when
// the column is NULL. EntryTime is set once at insert and never changes.
type ClimateRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Type       RecordType `json:"type"`
	Date       string     `json:"date,omitempty"`
	Month      string     `json:"month,omitempty"`
	Reading    Reading    `json:"-"`
	DeviceCode string     `json:"device_code"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	SyncState  SyncState  `json:"sync_state"`
	EntryTime  time.Time  `json:"entry_time"`
	StudySite  string     `json:"study_site"`

	// Seq is the storage insertion sequence used to break entry_time ties.
	Seq int64 `json:"-"`
}

// TableName returns the name of the database table
// associated with the ClimateRecord model.
func (r ClimateRecord) TableName() string {
	return "climate_records"
}

// Min returns the minimum reading, or nil when the record carries none.
func (r ClimateRecord) Min() *float64 { return rangeOf(r.Reading).Min }

// Max returns the maximum reading, or nil when the record carries none.
func (r ClimateRecord) Max() *float64 { return rangeOf(r.Reading).Max }

// Mean returns the mean reading, or nil when the record carries none.
func (r ClimateRecord) Mean() *float64 { return rangeOf(r.Reading).Mean }

// Total returns the rainfall total, or nil when the record carries none.
func (r ClimateRecord) Total() *float64 {
	switch v := r.Reading.(type) {
	case RainfallReading:
		return v.Total
	case *RainfallReading:
		if v != nil {
			return v.Total
		}
	}
	return nil
}

// EntryTimeText returns EntryTime in the canonical persisted layout.
func (r ClimateRecord) EntryTimeText() string {
	return r.EntryTime.UTC().Format(EntryTimeLayout)
}

// Draft converts a stored record back into an editable draft. Monthly
// records expose their month in [MonthLayout] so that a round trip through
// the record service is accepted by month validation.
func (r ClimateRecord) Draft() RecordDraft {
	d := RecordDraft{
		ID:         r.ID,
		UserID:     r.UserID,
		Type:       r.Type,
		Date:       r.Date,
		Month:      r.Month,
		Reading:    r.Reading,
		DeviceCode: r.DeviceCode,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		StudySite:  r.StudySite,
	}
	if len(d.Month) >= len(MonthLayout) {
		d.Month = d.Month[:len(MonthLayout)]
	}
	return d
}

// RecordDraft is the caller-supplied shape of a record before normalization.
//
// Date accepts [DayLayout], [CalendarLayout] or RFC 3339. Month accepts
// [MonthLayout] only. ID may be empty, in which case one is allocated.
type RecordDraft struct {
	ID         string
	UserID     string
	Type       RecordType
	Date       string
	Month      string
	Reading    Reading
	DeviceCode string
	Latitude   *float64
	Longitude  *float64
	StudySite  string
}

// RecordFilter narrows dashboard listings. Zero-valued fields do not filter.
type RecordFilter struct {
	Type      RecordType
	StudySite string
	// Month matches as a literal substring of the persisted month column,
	// e.g. "2025-07". "%" and "_" carry no wildcard meaning.
	Month string
	State *SyncState
	// PageSize bounds the number of rows fetched per page by lazy sequences.
	PageSize int
}

// Float returns a pointer to v. It is a convenience for building readings.
func Float(v float64) *float64 {
	return &v
}

func rangeOf(r Reading) RangeReading {
	switch v := r.(type) {
	case RangeReading:
		return v
	case *RangeReading:
		if v != nil {
			return *v
		}
	}
	return RangeReading{}
}
