package model

import (
	"fmt"
	"time"

	"quickserve/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID                  = "id"
	FieldBookingID           = "booking_id"
	FieldCustomerID          = "customer_id"
	FieldProviderID          = "provider_id"
	FieldRating              = "rating"
	FieldComment             = "comment"
	FieldProviderResponse    = "provider_response"
	FieldProviderRespondedAt = "provider_responded_at"
)

type Review struct {
	ID                  string     `db:"id"`
	BookingID           string     `db:"booking_id"`
	CustomerID          string     `db:"customer_id"`
	ProviderID          string     `db:"provider_id"`
	Rating              int        `db:"rating"`
	Comment             *string    `db:"comment"`
	ProviderResponse    *string    `db:"provider_response"`
	ProviderRespondedAt *time.Time `db:"provider_responded_at"`
	model.Metadata

	CustomerName  string  `db:"customer_name"  table:"cu" column:"full_name"`
	CustomerPhoto *string `db:"customer_photo" table:"cu" column:"profile_photo"`
	ServiceName   string  `db:"service_name"   table:"ps" column:"name"`
	ProviderName  string  `db:"provider_name"  table:"pu" column:"full_name"`
}

func (Review) GetJoinQuery() string {
	return fmt.Sprintf(
		"JOIN customers c ON c.id = %[1]s.customer_id "+
			"JOIN users cu ON cu.id = c.user_id "+
			"JOIN bookings b ON b.id = %[1]s.booking_id "+
			"JOIN provider_services ps ON ps.id = b.service_id "+
			"JOIN service_providers sp ON sp.id = %[1]s.provider_id "+
			"JOIN users pu ON pu.id = sp.user_id",
		TableName,
	)
}
