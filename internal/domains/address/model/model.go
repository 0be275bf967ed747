package model

import "quickserve/shared/model"

const (
	TableName  = "saved_addresses"
	EntityName = "saved_address"

	FieldID         = "id"
	FieldCustomerID = "customer_id"
	FieldLabel      = "label"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldState      = "state"
	FieldPincode    = "pincode"
	FieldIsDefault  = "is_default"
)

type SavedAddress struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	Label      string `db:"label"`
	Address    string `db:"address"`
	City       string `db:"city"`
	State      string `db:"state"`
	Pincode    string `db:"pincode"`
	IsDefault  bool   `db:"is_default"`
	model.Metadata
}
