package dto

import (
	custModel "quickserve/internal/domains/customer/model"
	gDto "quickserve/shared/dto"
)

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	Phone        *string `json:"phone,omitempty"     validate:"omitempty,min=10"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
}

// UserFields carries the slice of the update that lands on the users table.
type UserFields struct {
	FullName     *string `db:"full_name"`
	Phone        *string `db:"phone"`
	ProfilePhoto *string `db:"profile_photo"`
}

// CustomerFields carries the slice of the update that lands on the customers
// table.
type CustomerFields struct {
	Address *string `db:"address"`
	City    *string `db:"city"`
	State   *string `db:"state"`
	Pincode *string `db:"pincode"`
}

func (r *UpdateProfileRequest) Split() (UserFields, CustomerFields) {
	return UserFields{
			FullName:     r.FullName,
			Phone:        r.Phone,
			ProfilePhoto: r.ProfilePhoto,
		}, CustomerFields{
			Address: r.Address,
			City:    r.City,
			State:   r.State,
			Pincode: r.Pincode,
		}
}

type ProfileResponse struct {
	ID                string  `json:"id"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	ProfilePhoto      *string `json:"profile_photo,omitempty"`
	Address           *string `json:"address,omitempty"`
	City              *string `json:"city,omitempty"`
	State             *string `json:"state,omitempty"`
	Pincode           *string `json:"pincode,omitempty"`
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	Metadata          gDto.Metadata `json:"metadata"`
}

func (p *ProfileResponse) FromModel(customer custModel.Customer) {
	p.ID = customer.ID
	p.FullName = customer.FullName
	p.Email = customer.Email
	p.Phone = customer.Phone
	p.ProfilePhoto = customer.ProfilePhoto
	p.Address = customer.Address
	p.City = customer.City
	p.State = customer.State
	p.Pincode = customer.Pincode
	p.TotalBookings = customer.TotalBookings
	p.CompletedBookings = customer.CompletedBookings
	p.CancelledBookings = customer.CancelledBookings
	p.Metadata.FromModel(customer.Metadata)
}
