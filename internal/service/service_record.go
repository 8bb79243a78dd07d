// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/idgen"
	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/store"
	"github.com/MKhiriev/go-climate-keeper/internal/validators"
	"github.com/MKhiriev/go-climate-keeper/models"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// exportPather exposes the location of the device database.
type exportPather interface {
	ExportPath() (string, error)
}

// RecordOption customizes the record service.
type RecordOption func(*recordService)

// WithClock overrides the time source used for entry_time and injected
// times of day.
func WithClock(now func() time.Time) RecordOption {
	return func(s *recordService) {
		s.now = now
	}
}

// WithLocation overrides the zone canonical date and month text is rendered
// in. It defaults to the device's local zone.
func WithLocation(loc *time.Location) RecordOption {
	return func(s *recordService) {
		s.loc = loc
	}
}

type recordService struct {
	records   store.RecordRepository
	users     store.UserRepository
	allocator idgen.Allocator
	exporter  exportPather
	validator validators.Validator

	now func() time.Time
	loc *time.Location

	logger *logger.Logger
}

// NewRecordService wires the record service to its repositories and
// identifier allocator.
func NewRecordService(
	records store.RecordRepository,
	users store.UserRepository,
	allocator idgen.Allocator,
	exporter exportPather,
	logger *logger.Logger,
	opts ...RecordOption,
) RecordService {
	s := &recordService{
		records:   records,
		users:     users,
		allocator: allocator,
		exporter:  exporter,
		validator: validators.NewClimateRecordValidator(),
		now:       time.Now,
		loc:       time.Local,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *recordService) Insert(ctx context.Context, draft models.RecordDraft) (string, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	if err := s.validator.Validate(ctx, draft); err != nil {
		return "", fmt.Errorf("%w: %w", store.ErrValidation, err)
	}

	record, err := s.normalize(draft, now)
	if err != nil {
		return "", err
	}

	if record.ID == "" {
		if record.ID, err = s.allocate(ctx, record.UserID); err != nil {
			log.Err(err).Str("func", "*recordService.Insert").Str("user_id", record.UserID).Msg("error allocating record id")
			return "", err
		}
	}

	record.SyncState = models.SyncStatePending
	record.EntryTime = now.UTC()

	if err = s.records.Insert(ctx, record); err != nil {
		return "", err
	}

	log.Debug().Str("func", "*recordService.Insert").Str("record_id", record.ID).Str("type", record.Type.String()).Msg("climate record stored")
	return record.ID, nil
}

func (s *recordService) Update(ctx context.Context, draft models.RecordDraft, state *models.SyncState) error {
	if err := s.validator.Validate(ctx, draft, validators.FieldID, validators.FieldUserID, validators.FieldType, validators.FieldCoordinates); err != nil {
		return fmt.Errorf("%w: %w", store.ErrValidation, err)
	}

	record, err := s.normalize(draft, s.now())
	if err != nil {
		return err
	}

	target := models.SyncStatePending
	if state != nil {
		target = state.Normalize()
	}

	return s.records.Update(ctx, record, target)
}

func (s *recordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}

func (s *recordService) Get(ctx context.Context, id string) (models.ClimateRecord, error) {
	return s.records.Get(ctx, id)
}

func (s *recordService) ListAll(ctx context.Context) ([]models.ClimateRecord, error) {
	return s.records.ListAll(ctx)
}

func (s *recordService) ListPending(ctx context.Context) ([]models.ClimateRecord, error) {
	return s.records.ListPending(ctx)
}

func (s *recordService) List(ctx context.Context, filter models.RecordFilter) ([]models.ClimateRecord, error) {
	return s.records.List(ctx, filter)
}

func (s *recordService) Records(ctx context.Context, filter models.RecordFilter) iter.Seq2[models.ClimateRecord, error] {
	return s.records.Records(ctx, filter)
}

func (s *recordService) ExportPath() (string, error) {
	return s.exporter.ExportPath()
}

// allocate draws a record identifier for userID using the user's region.
// An unknown user is a reference error, matching what the insert would
// report.
func (s *recordService) allocate(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return "", fmt.Errorf("%w: %s", store.ErrReference, userID)
	}
	if err != nil {
		return "", err
	}

	return s.allocator.NewRecordID(ctx, userID, user.RegionName())
}

// normalize converts draft into the persisted shape. entry_time and the
// sync state are left to the caller.
func (s *recordService) normalize(draft models.RecordDraft, now time.Time) (models.ClimateRecord, error) {
	date, err := normalizeDate(draft.Date, now, s.loc)
	if err != nil {
		return models.ClimateRecord{}, err
	}
	month, err := normalizeMonth(draft.Month, now, s.loc)
	if err != nil {
		return models.ClimateRecord{}, err
	}

	reading := draft.Reading
	if reading == nil {
		if draft.Type.IsRainfall() {
			reading = models.RainfallReading{}
		} else {
			reading = models.RangeReading{}
		}
	}

	return models.ClimateRecord{
		ID:         strings.TrimSpace(draft.ID),
		UserID:     strings.TrimSpace(draft.UserID),
		Type:       draft.Type,
		Date:       date,
		Month:      month,
		Reading:    reading,
		DeviceCode: draft.DeviceCode,
		Latitude:   draft.Latitude,
		Longitude:  draft.Longitude,
		StudySite:  draft.StudySite,
	}, nil
}

// normalizeDate renders raw in [models.CalendarLayout]. A bare calendar day
// gets the current time of day. Empty input stays empty.
func normalizeDate(raw string, now time.Time, loc *time.Location) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	if day, err := time.ParseInLocation(models.DayLayout, raw, loc); err == nil {
		clock := now.In(loc)
		withTime := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
		return withTime.Format(models.CalendarLayout), nil
	}
	if t, err := time.ParseInLocation(models.CalendarLayout, raw, loc); err == nil {
		return t.Format(models.CalendarLayout), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc).Format(models.CalendarLayout), nil
	}

	return "", fmt.Errorf("%w: date %q", store.ErrFormat, raw)
}

// normalizeMonth renders a YYYY-MM month as the first day of that month at
// the current time of day. Empty input stays empty.
func normalizeMonth(raw string, now time.Time, loc *time.Location) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !monthPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: month %q must be YYYY-MM with month 01-12", store.ErrFormat, raw)
	}

	first, err := time.ParseInLocation(models.MonthLayout, raw, loc)
	if err != nil {
		return "", fmt.Errorf("%w: month %q: %w", store.ErrFormat, raw, err)
	}
	clock := now.In(loc)
	withTime := time.Date(first.Year(), first.Month(), 1, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	return withTime.Format(models.CalendarLayout), nil
}
