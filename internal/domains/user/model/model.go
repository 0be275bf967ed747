package model

import "quickserve/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldPhone        = "phone"
	FieldRole         = "role"
	FieldStatus       = "status"
	FieldFullName     = "full_name"
	FieldProfilePhoto = "profile_photo"
	FieldLastLogin    = "last_login"
)

type User struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	Password     string  `db:"password"`
	Phone        string  `db:"phone"`
	Role         string  `db:"role"`
	Status       string  `db:"status"`
	FullName     string  `db:"full_name"`
	ProfilePhoto *string `db:"profile_photo"`
	LastLogin    *string `db:"last_login"`
	model.Metadata
}
