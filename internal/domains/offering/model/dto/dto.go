package dto

import (
	"github.com/google/uuid"

	offModel "quickserve/internal/domains/offering/model"
	gDto "quickserve/shared/dto"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

type CreateOfferingRequest struct {
	Name            string  `json:"name"  validate:"required"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Duration        *string `json:"duration,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

// ToModel builds a new offering. A freshly created offering is active and
// immediately bookable.
func (r *CreateOfferingRequest) ToModel(providerID string) offModel.Offering {
	return offModel.Offering{
		ID:              uuid.NewString(),
		ProviderID:      providerID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Duration:        r.Duration,
		DurationMinutes: r.DurationMinutes,
		Active:          true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  providerID,
			ModifiedBy: providerID,
		},
	}
}

type UpdateOfferingRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"            validate:"omitempty,gt=0"`
	Duration        *string  `json:"duration,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Active          *bool    `json:"active,omitempty"`
}

type UpdateFields struct {
	Name            *string  `db:"name"`
	Description     *string  `db:"description"`
	Price           *float64 `db:"price"`
	Duration        *string  `db:"duration"`
	DurationMinutes *int     `db:"duration_minutes"`
	Active          *bool    `db:"active"`
}

func (r *UpdateOfferingRequest) ToFields() UpdateFields {
	return UpdateFields{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Duration:        r.Duration,
		DurationMinutes: r.DurationMinutes,
		Active:          r.Active,
	}
}

type OfferingResponse struct {
	ID              string        `json:"id"`
	ProviderID      string        `json:"provider_id"`
	Name            string        `json:"name"`
	Description     *string       `json:"description,omitempty"`
	Price           float64       `json:"price"`
	Duration        *string       `json:"duration,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	Active          bool          `json:"active"`
	Metadata        gDto.Metadata `json:"metadata"`
}

func (o *OfferingResponse) FromModel(offering offModel.Offering) {
	o.ID = offering.ID
	o.ProviderID = offering.ProviderID
	o.Name = offering.Name
	o.Description = offering.Description
	o.Price = offering.Price
	o.Duration = offering.Duration
	o.DurationMinutes = offering.DurationMinutes
	o.Active = offering.Active
	o.Metadata.FromModel(offering.Metadata)
}

type OfferingsResponse struct {
	Offerings []OfferingResponse `json:"offerings"`
}

func (o *OfferingsResponse) FromModels(offerings []offModel.Offering) {
	o.Offerings = make([]OfferingResponse, 0, len(offerings))
	for _, offering := range offerings {
		var res OfferingResponse
		res.FromModel(offering)
		o.Offerings = append(o.Offerings, res)
	}
}
