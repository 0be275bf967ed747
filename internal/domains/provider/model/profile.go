package model

import "quickserve/shared/model"

const (
	WorkingHoursTable  = "working_hours"
	WorkingHoursEntity = "working_hours"

	FieldProviderID = "provider_id"

	FieldDayOfWeek = "day_of_week"
	FieldOpenTime  = "open_time"
	FieldCloseTime = "close_time"
	FieldIsOpen    = "is_open"

	CertificationTable  = "certifications"
	CertificationEntity = "certification"

	FieldName   = "name"
	FieldIssuer = "issuer"
	FieldYear   = "year"

	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "18:00"
)

// DaysOfWeek lists the canonical day tokens in schedule order.
var DaysOfWeek = []string{
	"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
}

func IsValidDay(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}

	return false
}

// WorkingHours holds one provider's schedule for a single day. Times are
// "15:04" strings; a day without a row is treated as closed with the
// default window.
type WorkingHours struct {
	ID         string `db:"id"`
	ProviderID string `db:"provider_id"`
	DayOfWeek  string `db:"day_of_week"`
	OpenTime   string `db:"open_time"`
	CloseTime  string `db:"close_time"`
	IsOpen     bool   `db:"is_open"`
	model.Metadata
}

type Certification struct {
	ID         string  `db:"id"`
	ProviderID string  `db:"provider_id"`
	Name       string  `db:"name"`
	Issuer     string  `db:"issuer"`
	Year       *string `db:"year"`
	model.Metadata
}
