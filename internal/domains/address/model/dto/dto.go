package dto

import (
	"github.com/google/uuid"

	addrModel "quickserve/internal/domains/address/model"
	gDto "quickserve/shared/dto"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

type SavedAddressRequest struct {
	Label     string `json:"label"   validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city"    validate:"required"`
	State     string `json:"state"   validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

func (r *SavedAddressRequest) ToModel(customerID string, isDefault bool) addrModel.SavedAddress {
	return addrModel.SavedAddress{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Label:      r.Label,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Pincode:    r.Pincode,
		IsDefault:  isDefault,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

type UpdateSavedAddressRequest struct {
	Label   *string `json:"label,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// UpdateFields mirrors the columns an address update may touch.
type UpdateFields struct {
	Label   *string `db:"label"`
	Address *string `db:"address"`
	City    *string `db:"city"`
	State   *string `db:"state"`
	Pincode *string `db:"pincode"`
}

func (r *UpdateSavedAddressRequest) ToFields() UpdateFields {
	return UpdateFields{
		Label:   r.Label,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Pincode: r.Pincode,
	}
}

type SavedAddressResponse struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	Address   string        `json:"address"`
	City      string        `json:"city"`
	State     string        `json:"state"`
	Pincode   string        `json:"pincode"`
	IsDefault bool          `json:"is_default"`
	Metadata  gDto.Metadata `json:"metadata"`
}

func (s *SavedAddressResponse) FromModel(address addrModel.SavedAddress) {
	s.ID = address.ID
	s.Label = address.Label
	s.Address = address.Address
	s.City = address.City
	s.State = address.State
	s.Pincode = address.Pincode
	s.IsDefault = address.IsDefault
	s.Metadata.FromModel(address.Metadata)
}

type SavedAddressesResponse struct {
	Addresses []SavedAddressResponse `json:"addresses"`
}

func (s *SavedAddressesResponse) FromModels(addresses []addrModel.SavedAddress) {
	s.Addresses = make([]SavedAddressResponse, 0, len(addresses))
	for _, address := range addresses {
		var res SavedAddressResponse
		res.FromModel(address)
		s.Addresses = append(s.Addresses, res)
	}
}
