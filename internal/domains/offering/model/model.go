package model

import "quickserve/shared/model"

const (
	TableName  = "provider_services"
	EntityName = "offering"

	FieldID              = "id"
	FieldProviderID      = "provider_id"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldPrice           = "price"
	FieldDuration        = "duration"
	FieldDurationMinutes = "duration_minutes"
	FieldActive          = "active"
)

type Offering struct {
	ID              string  `db:"id"`
	ProviderID      string  `db:"provider_id"`
	Name            string  `db:"name"`
	Description     *string `db:"description"`
	Price           float64 `db:"price"`
	Duration        *string `db:"duration"`
	DurationMinutes *int    `db:"duration_minutes"`
	Active          bool    `db:"active"`
	model.Metadata
}
