package dto

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"quickserve/infras/jwt"
	custModel "quickserve/internal/domains/customer/model"
	provModel "quickserve/internal/domains/provider/model"
	userModel "quickserve/internal/domains/user/model"
	"quickserve/shared/constant"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

type CustomerSignupRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email"     validate:"required,email"`
	Phone    string  `json:"phone"     validate:"required,min=10"`
	Password string  `json:"password"  validate:"required,min=8"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Pincode  *string `json:"pincode,omitempty"`
}

// ToModels builds the user row and its customer profile. Customers are active
// immediately, unlike providers which wait for verification.
func (r *CustomerSignupRequest) ToModels(hashedPassword string) (userModel.User, custModel.Customer) {
	metadata := gModel.Metadata{
		CreatedAt:  timezone.Now(),
		ModifiedAt: timezone.Now(),
		CreatedBy:  r.Email,
		ModifiedBy: r.Email,
	}

	user := userModel.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Phone:    r.Phone,
		Role:     constant.RoleCustomer,
		Status:   constant.AccountStatusActive,
		FullName: r.FullName,
		Metadata: metadata,
	}

	customer := custModel.Customer{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Pincode:  r.Pincode,
		Metadata: metadata,
	}

	return user, customer
}

type ProviderSignupRequest struct {
	FullName          string   `json:"full_name"       validate:"required"`
	Email             string   `json:"email"           validate:"required,email"`
	Phone             string   `json:"phone"           validate:"required,min=10"`
	Password          string   `json:"password"        validate:"required,min=8"`
	PrimaryService    string   `json:"primary_service" validate:"required"`
	SecondaryServices []string `json:"secondary_services,omitempty"`
	ExperienceYears   int      `json:"experience_years" validate:"gte=0"`
	HourlyRate        *float64 `json:"hourly_rate,omitempty"`
	ServiceRadiusKm   *int     `json:"service_radius_km,omitempty"`
	Bio               *string  `json:"bio,omitempty"`
	Address           *string  `json:"address,omitempty"`
	City              *string  `json:"city,omitempty"`
	State             *string  `json:"state,omitempty"`
	Pincode           *string  `json:"pincode,omitempty"`
}

// ToModels builds the user row and its provider profile. The account starts
// in PENDING_VERIFICATION until an admin verifies it. Secondary services are
// passed in already canonicalised by the service layer.
func (r *ProviderSignupRequest) ToModels(hashedPassword, primaryService string, secondaryServices []string) (userModel.User, provModel.Provider) {
	metadata := gModel.Metadata{
		CreatedAt:  timezone.Now(),
		ModifiedAt: timezone.Now(),
		CreatedBy:  r.Email,
		ModifiedBy: r.Email,
	}

	user := userModel.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Phone:    r.Phone,
		Role:     constant.RoleProvider,
		Status:   constant.AccountStatusPendingVerification,
		FullName: r.FullName,
		Metadata: metadata,
	}

	serviceRadius := 5
	if r.ServiceRadiusKm != nil {
		serviceRadius = *r.ServiceRadiusKm
	}

	provider := provModel.Provider{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		Bio:               r.Bio,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		Pincode:           r.Pincode,
		PrimaryService:    primaryService,
		SecondaryServices: pq.StringArray(secondaryServices),
		ExperienceYears:   r.ExperienceYears,
		HourlyRate:        r.HourlyRate,
		ServiceRadiusKm:   serviceRadius,
		Metadata:          metadata,
	}

	return user, provider
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin string `db:"last_login" json:"last_login" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserInfo struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Role         string  `json:"role"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
	CustomerID   *string `json:"customer_id,omitempty"`
	ProviderID   *string `json:"provider_id,omitempty"`
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserInfo `json:"user"`
}

func (a *AuthResponse) FromTokenPair(tokenPair *jwt.TokenPair, user userModel.User) {
	a.AccessToken = tokenPair.AccessToken
	a.RefreshToken = tokenPair.RefreshToken
	a.TokenType = tokenPair.TokenType
	a.ExpiresIn = tokenPair.ExpiresIn
	a.User = UserInfo{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		ProfilePhoto: user.ProfilePhoto,
	}
}
