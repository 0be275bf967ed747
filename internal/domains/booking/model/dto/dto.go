package dto

import (
	"time"

	"github.com/google/uuid"

	bookingModel "quickserve/internal/domains/booking/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

type CreateBookingRequest struct {
	ProviderID     string  `json:"provider_id"  validate:"required"`
	ServiceID      string  `json:"service_id"   validate:"required"`
	BookingDate    string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime    string  `json:"booking_time" validate:"required,datetime=15:04"`
	Address        *string `json:"address,omitempty"`
	SavedAddressID *string `json:"saved_address_id,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ToModel snapshots the offering price and address into the booking row. The
// booking always starts in PENDING.
func (r *CreateBookingRequest) ToModel(customerID, address string, price float64, bookingDate time.Time) bookingModel.Booking {
	return bookingModel.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProviderID:  r.ProviderID,
		ServiceID:   r.ServiceID,
		BookingDate: bookingDate,
		BookingTime: r.BookingTime,
		Address:     address,
		Price:       price,
		Notes:       r.Notes,
		Status:      bookingModel.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type UpdateStatusRequest struct {
	Status             string  `json:"status" validate:"required"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

type BookingResponse struct {
	ID                 string        `json:"id"`
	CustomerID         string        `json:"customer_id"`
	ProviderID         string        `json:"provider_id"`
	ServiceID          string        `json:"service_id"`
	CustomerName       string        `json:"customer_name,omitempty"`
	CustomerPhone      string        `json:"customer_phone,omitempty"`
	ProviderName       string        `json:"provider_name,omitempty"`
	ServiceName        string        `json:"service_name,omitempty"`
	ProviderCategory   string        `json:"provider_category,omitempty"`
	BookingDate        string        `json:"booking_date"`
	BookingTime        string        `json:"booking_time"`
	Address            string        `json:"address"`
	Price              float64       `json:"price"`
	Notes              *string       `json:"notes,omitempty"`
	Status             string        `json:"status"`
	CancellationReason *string       `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *string       `json:"confirmed_at,omitempty"`
	CompletedAt        *string       `json:"completed_at,omitempty"`
	CancelledAt        *string       `json:"cancelled_at,omitempty"`
	Metadata           gDto.Metadata `json:"metadata"`
}

func (b *BookingResponse) FromModel(booking bookingModel.Booking) {
	b.ID = booking.ID
	b.CustomerID = booking.CustomerID
	b.ProviderID = booking.ProviderID
	b.ServiceID = booking.ServiceID
	b.CustomerName = booking.CustomerName
	b.CustomerPhone = booking.CustomerPhone
	b.ProviderName = booking.ProviderName
	b.ServiceName = booking.ServiceName
	b.ProviderCategory = booking.ProviderCategory
	b.BookingDate = timezone.Format(booking.BookingDate, constant.BookingDateFormat)
	b.BookingTime = booking.BookingTime
	b.Address = booking.Address
	b.Price = booking.Price
	b.Notes = booking.Notes
	b.Status = booking.Status
	b.CancellationReason = booking.CancellationReason
	b.ConfirmedAt = formatTimestamp(booking.ConfirmedAt)
	b.CompletedAt = formatTimestamp(booking.CompletedAt)
	b.CancelledAt = formatTimestamp(booking.CancelledAt)
	b.Metadata.FromModel(booking.Metadata)
}

type BookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	Total     int               `json:"total"`
	TotalPage int               `json:"total_page"`
}

func (b *BookingsResponse) FromModels(bookings []bookingModel.Booking, total, totalPage int) {
	b.Bookings = make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		var res BookingResponse
		res.FromModel(booking)
		b.Bookings = append(b.Bookings, res)
	}

	b.Total = total
	b.TotalPage = totalPage
}

// BookingEvent is the payload published to the booking lifecycle topic.
type BookingEvent struct {
	Event      string  `json:"event"`
	BookingID  string  `json:"booking_id"`
	CustomerID string  `json:"customer_id"`
	ProviderID string  `json:"provider_id"`
	Status     string  `json:"status"`
	Price      float64 `json:"price"`
	OccurredAt string  `json:"occurred_at"`
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

func NewBookingEvent(event string, booking bookingModel.Booking) BookingEvent {
	return BookingEvent{
		Event:      event,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Status:     booking.Status,
		Price:      booking.Price,
		OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
