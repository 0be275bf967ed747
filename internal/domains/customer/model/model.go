package model

import (
	"fmt"

	"quickserve/shared/model"
)

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldState             = "state"
	FieldPincode           = "pincode"
	FieldTotalBookings     = "total_bookings"
	FieldCompletedBookings = "completed_bookings"
	FieldCancelledBookings = "cancelled_bookings"
)

type Customer struct {
	ID                string  `db:"id"`
	UserID            string  `db:"user_id"`
	Address           *string `db:"address"`
	City              *string `db:"city"`
	State             *string `db:"state"`
	Pincode           *string `db:"pincode"`
	TotalBookings     int     `db:"total_bookings"`
	CompletedBookings int     `db:"completed_bookings"`
	CancelledBookings int     `db:"cancelled_bookings"`
	model.Metadata

	FullName      string  `db:"full_name"     table:"users"`
	Email         string  `db:"email"         table:"users"`
	Phone         string  `db:"phone"         table:"users"`
	ProfilePhoto  *string `db:"profile_photo" table:"users"`
	AccountStatus string  `db:"account_status" table:"users" column:"status"`
}

func (Customer) GetJoinQuery() string {
	return fmt.Sprintf("JOIN users ON users.id = %s.user_id", TableName)
}
