package model

import (
	"fmt"

	"github.com/lib/pq"

	"quickserve/shared/model"
)

const (
	TableName  = "service_providers"
	EntityName = "provider"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldBio               = "bio"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldState             = "state"
	FieldPincode           = "pincode"
	FieldPrimaryService    = "primary_service"
	FieldSecondaryServices = "secondary_services"
	FieldExperienceYears   = "experience_years"
	FieldHourlyRate        = "hourly_rate"
	FieldServiceRadiusKm   = "service_radius_km"
	FieldLanguages         = "languages"
	FieldSkills            = "skills"
	FieldIsAvailable       = "is_available"
	FieldIsVerified        = "is_verified"
	FieldAverageRating     = "average_rating"
	FieldTotalReviews      = "total_reviews"
	FieldCompletedJobs     = "completed_jobs"
	FieldProfileViews      = "profile_views"
)

type Provider struct {
	ID                string         `db:"id"`
	UserID            string         `db:"user_id"`
	Bio               *string        `db:"bio"`
	Address           *string        `db:"address"`
	City              *string        `db:"city"`
	State             *string        `db:"state"`
	Pincode           *string        `db:"pincode"`
	PrimaryService    string         `db:"primary_service"`
	SecondaryServices pq.StringArray `db:"secondary_services"`
	ExperienceYears   int            `db:"experience_years"`
	HourlyRate        *float64       `db:"hourly_rate"`
	ServiceRadiusKm   int            `db:"service_radius_km"`
	Languages         pq.StringArray `db:"languages"`
	Skills            pq.StringArray `db:"skills"`
	IsAvailable       bool           `db:"is_available"`
	IsVerified        bool           `db:"is_verified"`
	AverageRating     *float64       `db:"average_rating"`
	TotalReviews      int            `db:"total_reviews"`
	CompletedJobs     int            `db:"completed_jobs"`
	ProfileViews      int            `db:"profile_views"`
	model.Metadata

	FullName      string  `db:"full_name"     table:"users"`
	Email         string  `db:"email"         table:"users"`
	Phone         string  `db:"phone"         table:"users"`
	ProfilePhoto  *string `db:"profile_photo" table:"users"`
	AccountStatus string  `db:"account_status" table:"users" column:"status"`
}

func (Provider) GetJoinQuery() string {
	return fmt.Sprintf("JOIN users ON users.id = %s.user_id", TableName)
}
