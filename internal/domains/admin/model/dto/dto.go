package dto

import (
	bookingModel "quickserve/internal/domains/booking/model"
	"quickserve/internal/domains/category"
	userModel "quickserve/internal/domains/user/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/timezone"
)

type DashboardResponse struct {
	TotalUsers         int                     `json:"total_users"`
	TotalCustomers     int                     `json:"total_customers"`
	TotalProviders     int                     `json:"total_providers"`
	ActiveProviders    int                     `json:"active_providers"`
	PendingProviders   int                     `json:"pending_providers"`
	SuspendedProviders int                     `json:"suspended_providers"`
	TotalBookings      int                     `json:"total_bookings"`
	PendingBookings    int                     `json:"pending_bookings"`
	ConfirmedBookings  int                     `json:"confirmed_bookings"`
	InProgressBookings int                     `json:"in_progress_bookings"`
	CompletedBookings  int                     `json:"completed_bookings"`
	CancelledBookings  int                     `json:"cancelled_bookings"`
	TotalRevenue       float64                 `json:"total_revenue"`
	BookingsByCategory map[string]int          `json:"bookings_by_category"`
	RevenueByCategory  map[string]float64      `json:"revenue_by_category"`
	RecentBookings     []RecentBookingResponse `json:"recent_bookings"`
	RecentUsers        []RecentUserResponse    `json:"recent_users"`
}

type RecentBookingResponse struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customer_name"`
	ProviderName string  `json:"provider_name"`
	ServiceName  string  `json:"service_name"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	BookingDate  string  `json:"booking_date"`
}

func (r *RecentBookingResponse) FromModel(booking bookingModel.Booking) {
	r.ID = booking.ID
	r.CustomerName = booking.CustomerName
	r.ProviderName = booking.ProviderName
	r.ServiceName = booking.ServiceName
	r.Category = category.DisplayName(booking.ProviderCategory)
	r.Status = booking.Status
	r.Price = booking.Price
	r.BookingDate = timezone.Format(booking.BookingDate, constant.BookingDateFormat)
}

type RecentUserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	JoinedAt string `json:"joined_at"`
}

func (r *RecentUserResponse) FromModel(user userModel.User) {
	r.ID = user.ID
	r.FullName = user.FullName
	r.Email = user.Email
	r.Role = user.Role
	r.Status = user.Status
	r.JoinedAt = timezone.Format(user.CreatedAt, constant.DateFormat)
}

type ListUsersRequest struct {
	Search string `json:"search" validate:"omitempty"`
	Role   string `json:"role"   validate:"omitempty,oneof=CUSTOMER PROVIDER ADMIN"`
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE PENDING_VERIFICATION SUSPENDED DEACTIVATED"`
}

type UserResponse struct {
	ID           string        `json:"id"`
	FullName     string        `json:"full_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Role         string        `json:"role"`
	Status       string        `json:"status"`
	ProfilePhoto *string       `json:"profile_photo"`
	LastLogin    *string       `json:"last_login"`
	Metadata     gDto.Metadata `json:"metadata"`
}

func (u *UserResponse) FromModel(user userModel.User) {
	u.ID = user.ID
	u.FullName = user.FullName
	u.Email = user.Email
	u.Phone = user.Phone
	u.Role = user.Role
	u.Status = user.Status
	u.ProfilePhoto = user.ProfilePhoto
	u.LastLogin = user.LastLogin
	u.Metadata.FromModel(user.Metadata)
}

type UsersResponse struct {
	Users     []UserResponse `json:"users"`
	Total     int            `json:"total"`
	TotalPage int            `json:"total_page"`
}

func (u *UsersResponse) FromModels(users []userModel.User, total, totalPage int) {
	u.Users = make([]UserResponse, len(users))
	u.Total = total
	u.TotalPage = totalPage

	for i, user := range users {
		u.Users[i].FromModel(user)
	}
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PENDING_VERIFICATION SUSPENDED DEACTIVATED"`
}

type VerifyProviderRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type UpdateProviderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PENDING_VERIFICATION SUSPENDED DEACTIVATED"`
}

type RevenueAnalyticsResponse struct {
	Period        string  `json:"period"`
	TotalRevenue  float64 `json:"total_revenue"`
	PeriodRevenue float64 `json:"period_revenue"`
}

type BookingAnalyticsResponse struct {
	Period            string `json:"period"`
	TotalBookings     int    `json:"total_bookings"`
	CompletedBookings int    `json:"completed_bookings"`
	CancelledBookings int    `json:"cancelled_bookings"`
	PeriodBookings    int    `json:"period_bookings"`
}

type UserAnalyticsResponse struct {
	Period         string `json:"period"`
	TotalUsers     int    `json:"total_users"`
	TotalCustomers int    `json:"total_customers"`
	TotalProviders int    `json:"total_providers"`
	PeriodSignups  int    `json:"period_signups"`
}
