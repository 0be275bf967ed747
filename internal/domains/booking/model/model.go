package model

import (
	"fmt"
	"time"

	"quickserve/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldCustomerID         = "customer_id"
	FieldProviderID         = "provider_id"
	FieldServiceID          = "service_id"
	FieldBookingDate        = "booking_date"
	FieldBookingTime        = "booking_time"
	FieldAddress            = "address"
	FieldPrice              = "price"
	FieldNotes              = "notes"
	FieldStatus             = "status"
	FieldCancellationReason = "cancellation_reason"
	FieldConfirmedAt        = "confirmed_at"
	FieldCompletedAt        = "completed_at"
	FieldCancelledAt        = "cancelled_at"
)

type Booking struct {
	ID                 string     `db:"id"`
	CustomerID         string     `db:"customer_id"`
	ProviderID         string     `db:"provider_id"`
	ServiceID          string     `db:"service_id"`
	BookingDate        time.Time  `db:"booking_date"`
	BookingTime        string     `db:"booking_time"`
	Address            string     `db:"address"`
	Price              float64    `db:"price"`
	Notes              *string    `db:"notes"`
	Status             string     `db:"status"`
	CancellationReason *string    `db:"cancellation_reason"`
	ConfirmedAt        *time.Time `db:"confirmed_at"`
	CompletedAt        *time.Time `db:"completed_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	model.Metadata

	CustomerName     string `db:"customer_name"     table:"cu" column:"full_name"`
	CustomerPhone    string `db:"customer_phone"    table:"cu" column:"phone"`
	ProviderName     string `db:"provider_name"     table:"pu" column:"full_name"`
	ServiceName      string `db:"service_name"      table:"ps" column:"name"`
	ProviderCategory string `db:"provider_category" table:"sp" column:"primary_service"`
}

func (Booking) GetJoinQuery() string {
	return fmt.Sprintf(
		"JOIN customers c ON c.id = %[1]s.customer_id "+
			"JOIN users cu ON cu.id = c.user_id "+
			"JOIN service_providers sp ON sp.id = %[1]s.provider_id "+
			"JOIN users pu ON pu.id = sp.user_id "+
			"JOIN provider_services ps ON ps.id = %[1]s.service_id",
		TableName,
	)
}
