package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"quickserve/internal/domains/category"
	offDto "quickserve/internal/domains/offering/model/dto"
	provModel "quickserve/internal/domains/provider/model"
	reviewDto "quickserve/internal/domains/review/model/dto"
	gDto "quickserve/shared/dto"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

// SearchRequest carries the public provider search filters. All filters are
// optional and conjunctive.
type SearchRequest struct {
	Category  string   `json:"category"`
	City      string   `json:"city"`
	Search    string   `json:"search"`
	MinPrice  *float64 `json:"min_price,omitempty"  validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"max_price,omitempty"  validate:"omitempty,gte=0"`
	MinRating *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	SortBy    string   `json:"sort_by"`
	Page      int      `json:"page"  validate:"omitempty,gte=1"`
	Size      int      `json:"size"  validate:"omitempty,gte=1,lte=100"`
}

// ProviderSummary is the search result card.
type ProviderSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ProfilePhoto    *string  `json:"profile_photo,omitempty"`
	PrimaryService  string   `json:"primary_service"`
	Services        []string `json:"services"`
	AverageRating   *float64 `json:"average_rating,omitempty"`
	TotalReviews    int      `json:"total_reviews"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	Location        string   `json:"location"`
	Verified        bool     `json:"verified"`
	IsAvailable     bool     `json:"is_available"`
	CompletedJobs   int      `json:"completed_jobs"`
	ExperienceYears int      `json:"experience_years"`
}

func (p *ProviderSummary) FromModel(provider provModel.Provider, serviceNames []string) {
	p.ID = provider.ID
	p.Name = provider.FullName
	p.ProfilePhoto = provider.ProfilePhoto
	p.PrimaryService = category.DisplayName(provider.PrimaryService)
	p.Services = serviceNames
	p.AverageRating = provider.AverageRating
	p.TotalReviews = provider.TotalReviews
	p.HourlyRate = provider.HourlyRate
	p.Location = formatLocation(provider)
	p.Verified = provider.IsVerified
	p.IsAvailable = provider.IsAvailable
	p.CompletedJobs = provider.CompletedJobs
	p.ExperienceYears = provider.ExperienceYears
}

type SearchResponse struct {
	Providers []ProviderSummary `json:"providers"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Size      int               `json:"size"`
}

// ProviderDetailResponse is the full public profile.
type ProviderDetailResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Email              string                    `json:"email"`
	Phone              string                    `json:"phone"`
	ProfilePhoto       *string                   `json:"profile_photo,omitempty"`
	Bio                *string                   `json:"bio,omitempty"`
	Address            *string                   `json:"address,omitempty"`
	City               *string                   `json:"city,omitempty"`
	State              *string                   `json:"state,omitempty"`
	Pincode            *string                   `json:"pincode,omitempty"`
	ServiceRadiusKm    int                       `json:"service_radius_km"`
	PrimaryService     string                    `json:"primary_service"`
	SecondaryServices  []string                  `json:"secondary_services"`
	ExperienceYears    int                       `json:"experience_years"`
	AverageRating      *float64                  `json:"average_rating,omitempty"`
	TotalReviews       int                       `json:"total_reviews"`
	CompletedJobs      int                       `json:"completed_jobs"`
	ProfileViews       int                       `json:"profile_views"`
	Verified           bool                       `json:"verified"`
	IsAvailable        bool                       `json:"is_available"`
	Services           []offDto.OfferingResponse  `json:"services"`
	RecentReviews      []reviewDto.ReviewResponse `json:"recent_reviews"`
	RatingDistribution map[int]int                `json:"rating_distribution"`
	Metadata           gDto.Metadata              `json:"metadata"`
}

func (p *ProviderDetailResponse) FromModel(provider provModel.Provider) {
	p.ID = provider.ID
	p.Name = provider.FullName
	p.Email = provider.Email
	p.Phone = provider.Phone
	p.ProfilePhoto = provider.ProfilePhoto
	p.Bio = provider.Bio
	p.Address = provider.Address
	p.City = provider.City
	p.State = provider.State
	p.Pincode = provider.Pincode
	p.ServiceRadiusKm = provider.ServiceRadiusKm
	p.PrimaryService = category.DisplayName(provider.PrimaryService)
	p.SecondaryServices = displayNames(provider.SecondaryServices)
	p.ExperienceYears = provider.ExperienceYears
	p.AverageRating = provider.AverageRating
	p.TotalReviews = provider.TotalReviews
	p.CompletedJobs = provider.CompletedJobs
	p.ProfileViews = provider.ProfileViews
	p.Verified = provider.IsVerified
	p.IsAvailable = provider.IsAvailable
	p.Metadata.FromModel(provider.Metadata)
}

type CategoryResponse struct {
	Value         string `json:"value"`
	DisplayName   string `json:"display_name"`
	Icon          string `json:"icon"`
	ProviderCount int    `json:"provider_count"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// WorkingHoursEntry is one day of the provider's schedule, keyed in the
// profile payloads by lowercase day name.
type WorkingHoursEntry struct {
	Open   string `json:"open"  validate:"required,datetime=15:04"`
	Close  string `json:"close" validate:"required,datetime=15:04"`
	IsOpen bool   `json:"is_open"`
}

type CertificationEntry struct {
	Name   string  `json:"name"   validate:"required"`
	Issuer string  `json:"issuer" validate:"required"`
	Year   *string `json:"year,omitempty"`
}

func (e CertificationEntry) ToModel(providerID, actor string) provModel.Certification {
	return provModel.Certification{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		Name:       e.Name,
		Issuer:     e.Issuer,
		Year:       e.Year,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

// UpdateProfileRequest updates the provider's own profile. Nil fields are left
// untouched; a non-nil empty list clears its collection. Certifications are
// replaced wholesale, working hours are upserted per day.
type UpdateProfileRequest struct {
	FullName          *string                      `json:"full_name,omitempty"`
	Phone             *string                      `json:"phone,omitempty"`
	ProfilePhoto      *string                      `json:"profile_photo,omitempty"`
	Bio               *string                      `json:"bio,omitempty"`
	Address           *string                      `json:"address,omitempty"`
	City              *string                      `json:"city,omitempty"`
	State             *string                      `json:"state,omitempty"`
	Pincode           *string                      `json:"pincode,omitempty"`
	ExperienceYears   *int                         `json:"experience_years,omitempty"  validate:"omitempty,gte=0"`
	HourlyRate        *float64                     `json:"hourly_rate,omitempty"       validate:"omitempty,gt=0"`
	ServiceRadiusKm   *int                         `json:"service_radius_km,omitempty" validate:"omitempty,gt=0"`
	SecondaryServices []string                     `json:"secondary_services,omitempty"`
	Languages         []string                     `json:"languages,omitempty"`
	Skills            []string                     `json:"skills,omitempty"`
	Certifications    []CertificationEntry         `json:"certifications,omitempty" validate:"omitempty,dive"`
	WorkingHours      map[string]WorkingHoursEntry `json:"working_hours,omitempty"  validate:"omitempty,dive"`
}

type UserFields struct {
	FullName     *string `db:"full_name"`
	Phone        *string `db:"phone"`
	ProfilePhoto *string `db:"profile_photo"`
}

type ProviderFields struct {
	Bio               *string        `db:"bio"`
	Address           *string        `db:"address"`
	City              *string        `db:"city"`
	State             *string        `db:"state"`
	Pincode           *string        `db:"pincode"`
	ExperienceYears   *int           `db:"experience_years"`
	HourlyRate        *float64       `db:"hourly_rate"`
	ServiceRadiusKm   *int           `db:"service_radius_km"`
	SecondaryServices pq.StringArray `db:"secondary_services"`
	Languages         pq.StringArray `db:"languages"`
	Skills            pq.StringArray `db:"skills"`
}

// Split separates the request into the users-table part and the
// service_providers-table part. Secondary services are canonicalised and
// unknown categories silently dropped.
func (r *UpdateProfileRequest) Split() (UserFields, ProviderFields) {
	userFields := UserFields{
		FullName:     r.FullName,
		Phone:        r.Phone,
		ProfilePhoto: r.ProfilePhoto,
	}

	providerFields := ProviderFields{
		Bio:             r.Bio,
		Address:         r.Address,
		City:            r.City,
		State:           r.State,
		Pincode:         r.Pincode,
		ExperienceYears: r.ExperienceYears,
		HourlyRate:      r.HourlyRate,
		ServiceRadiusKm: r.ServiceRadiusKm,
	}

	if r.SecondaryServices != nil {
		canonical := make([]string, 0, len(r.SecondaryServices))
		for _, svc := range r.SecondaryServices {
			if category.IsValid(svc) {
				canonical = append(canonical, category.Canonical(svc))
			}
		}

		providerFields.SecondaryServices = pq.StringArray(canonical)
	}

	if r.Languages != nil {
		providerFields.Languages = pq.StringArray(r.Languages)
	}

	if r.Skills != nil {
		providerFields.Skills = pq.StringArray(r.Skills)
	}

	return userFields, providerFields
}

type ProfileResponse struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	FullName          string        `json:"full_name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	ProfilePhoto      *string       `json:"profile_photo,omitempty"`
	Bio               *string       `json:"bio,omitempty"`
	Address           *string       `json:"address,omitempty"`
	City              *string       `json:"city,omitempty"`
	State             *string       `json:"state,omitempty"`
	Pincode           *string       `json:"pincode,omitempty"`
	PrimaryService    string                       `json:"primary_service"`
	SecondaryServices []string                     `json:"secondary_services"`
	ExperienceYears   int                          `json:"experience_years"`
	HourlyRate        *float64                     `json:"hourly_rate,omitempty"`
	ServiceRadiusKm   int                          `json:"service_radius_km"`
	Languages         []string                     `json:"languages"`
	Skills            []string                     `json:"skills"`
	Certifications    []CertificationEntry         `json:"certifications"`
	WorkingHours      map[string]WorkingHoursEntry `json:"working_hours,omitempty"`
	IsAvailable       bool                         `json:"is_available"`
	IsVerified        bool                         `json:"is_verified"`
	AverageRating     *float64                     `json:"average_rating,omitempty"`
	TotalReviews      int                          `json:"total_reviews"`
	CompletedJobs     int                          `json:"completed_jobs"`
	ProfileViews      int                          `json:"profile_views"`
	AccountStatus     string                       `json:"account_status,omitempty"`
	Metadata          gDto.Metadata                `json:"metadata"`
}

func (p *ProfileResponse) FromModel(provider provModel.Provider) {
	p.ID = provider.ID
	p.UserID = provider.UserID
	p.FullName = provider.FullName
	p.Email = provider.Email
	p.Phone = provider.Phone
	p.ProfilePhoto = provider.ProfilePhoto
	p.Bio = provider.Bio
	p.Address = provider.Address
	p.City = provider.City
	p.State = provider.State
	p.Pincode = provider.Pincode
	p.PrimaryService = provider.PrimaryService
	p.SecondaryServices = provider.SecondaryServices
	p.ExperienceYears = provider.ExperienceYears
	p.HourlyRate = provider.HourlyRate
	p.ServiceRadiusKm = provider.ServiceRadiusKm
	p.Languages = provider.Languages
	p.Skills = provider.Skills
	p.IsAvailable = provider.IsAvailable
	p.IsVerified = provider.IsVerified
	p.AverageRating = provider.AverageRating
	p.TotalReviews = provider.TotalReviews
	p.CompletedJobs = provider.CompletedJobs
	p.ProfileViews = provider.ProfileViews
	p.AccountStatus = provider.AccountStatus
	p.Metadata.FromModel(provider.Metadata)
}

// AttachSchedule fills the working-hours map and certification list. Every
// day of the week gets an entry; days without a stored row come back closed
// with the default window.
func (p *ProfileResponse) AttachSchedule(hours []provModel.WorkingHours, certifications []provModel.Certification) {
	stored := make(map[string]provModel.WorkingHours, len(hours))
	for _, h := range hours {
		stored[h.DayOfWeek] = h
	}

	p.WorkingHours = make(map[string]WorkingHoursEntry, len(provModel.DaysOfWeek))

	for _, day := range provModel.DaysOfWeek {
		entry := WorkingHoursEntry{
			Open:  provModel.DefaultOpenTime,
			Close: provModel.DefaultCloseTime,
		}

		if h, ok := stored[day]; ok {
			entry = WorkingHoursEntry{Open: h.OpenTime, Close: h.CloseTime, IsOpen: h.IsOpen}
		}

		p.WorkingHours[strings.ToLower(day)] = entry
	}

	p.Certifications = make([]CertificationEntry, 0, len(certifications))
	for _, cert := range certifications {
		p.Certifications = append(p.Certifications, CertificationEntry{
			Name:   cert.Name,
			Issuer: cert.Issuer,
			Year:   cert.Year,
		})
	}
}

type ProvidersResponse struct {
	Providers []ProfileResponse `json:"providers"`
	Total     int               `json:"total"`
	TotalPage int               `json:"total_page"`
}

func (p *ProvidersResponse) FromModels(providers []provModel.Provider, total, totalPage int) {
	p.Providers = make([]ProfileResponse, 0, len(providers))
	for _, provider := range providers {
		var res ProfileResponse
		res.FromModel(provider)
		p.Providers = append(p.Providers, res)
	}

	p.Total = total
	p.TotalPage = totalPage
}

type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// DashboardStatsResponse is the provider home screen rollup. Earnings cover
// completed bookings only.
type DashboardStatsResponse struct {
	TotalEarnings     float64 `json:"total_earnings"`
	WeeklyEarnings    float64 `json:"weekly_earnings"`
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	TodayBookings     int     `json:"today_bookings"`
	AverageRating     float64 `json:"average_rating"`
	TotalReviews      int     `json:"total_reviews"`
	ProfileViews      int     `json:"profile_views"`
	ActiveServices    int     `json:"active_services"`
	EarningsTrend     string  `json:"earnings_trend"`
	BookingsTrend     string  `json:"bookings_trend"`
	RatingStatus      string  `json:"rating_status"`
}

func formatLocation(provider provModel.Provider) string {
	switch {
	case provider.City != nil && provider.State != nil:
		return *provider.City + ", " + *provider.State
	case provider.City != nil:
		return *provider.City
	case provider.State != nil:
		return *provider.State
	default:
		return ""
	}
}

func displayNames(tokens []string) []string {
	names := make([]string, 0, len(tokens))
	for _, token := range tokens {
		names = append(names, category.DisplayName(token))
	}

	return names
}
