// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RecordType defines the kind of observation stored in a ClimateRecord.
// The value determines which reading family applies and whether the record
// is keyed by a calendar day or by a calendar month.
type RecordType string

const (
	// DailyTemperature is a min/max/mean temperature reading for one day.
	DailyTemperature RecordType = "dailyTemp"

	// MonthlyTemperature is a min/max/mean temperature reading for one month.
	MonthlyTemperature RecordType = "monthlyTemp"

	// DailyHumidity is a min/max/mean relative humidity reading for one day.
	DailyHumidity RecordType = "dailyHumidity"

	// MonthlyHumidity is a min/max/mean relative humidity reading for one month.
	MonthlyHumidity RecordType = "monthlyHumidity"

	// DailyRainfall is a rainfall total for one day.
	DailyRainfall RecordType = "dailyRain"

	// MonthlyRainfall is a rainfall total for one month.
	MonthlyRainfall RecordType = "monthlyRain"
)

// RecordTypes lists every supported record type in display order.
var RecordTypes = []RecordType{
	DailyTemperature,
	MonthlyTemperature,
	DailyHumidity,
	MonthlyHumidity,
	DailyRainfall,
	MonthlyRainfall,
}

// Valid reports whether t is one of the supported record types.
func (t RecordType) Valid() bool {
	for _, known := range RecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsMonthly reports whether records of this type are keyed by month.
func (t RecordType) IsMonthly() bool {
	switch t {
	case MonthlyTemperature, MonthlyHumidity, MonthlyRainfall:
		return true
	default:
		return false
	}
}

// IsRainfall reports whether records of this type carry a rainfall total
// instead of a min/max/mean range.
func (t RecordType) IsRainfall() bool {
	return t == DailyRainfall || t == MonthlyRainfall
}

func (t RecordType) String() string {
	return string(t)
}
