package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	"quickserve/internal/domains/admin/model/dto"
	"quickserve/internal/domains/admin/service"
	bookingModel "quickserve/internal/domains/booking/model"
	bookingDto "quickserve/internal/domains/booking/model/dto"
	bookingService "quickserve/internal/domains/booking/service"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/validator"
	"quickserve/transport/http/response"
)

const (
	requestParamSearch      = "search"
	requestParamRole        = "role"
	requestParamStatus      = "status"
	requestParamBookingDate = "booking_date"
	requestParamType        = "type"
	requestParamPeriod      = "period"

	analyticsTypeRevenue  = "revenue"
	analyticsTypeBookings = "bookings"
	analyticsTypeUsers    = "users"
)

type Handler struct {
	service        service.Admin
	bookingService bookingService.Booking
	otel           otel.Otel
}

func New(service service.Admin, bookingService bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		bookingService: bookingService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Get("/dashboard", handler.GetDashboard)

		routerGroup.Get("/users", handler.GetUsers)
		routerGroup.Get("/users/{id}", handler.GetUser)
		routerGroup.Patch("/users/{id}/status", handler.UpdateUserStatus)
		routerGroup.Delete("/users/{id}", handler.DeleteUser)

		routerGroup.Get("/providers", handler.GetProviders)
		routerGroup.Patch("/providers/{id}/verify", handler.VerifyProvider)
		routerGroup.Patch("/providers/{id}/status", handler.UpdateProviderStatus)

		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Get("/bookings/{id}", handler.GetBooking)
		routerGroup.Patch("/bookings/{id}/status", handler.UpdateBookingStatus)

		routerGroup.Get("/analytics", handler.GetAnalytics)
	})
}

// GetDashboard returns platform-wide statistics.
// @Summary Admin dashboard
// @Description Retrieve platform-wide user, booking and revenue statistics.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard statistics"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/admin/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdminDashboard")
	defer scope.End()

	res, err := handler.service.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admin dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin dashboard retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUsers lists user accounts with optional role, status and search filters.
// @Summary List users
// @Tags Admin
// @Produce json
// @Param search query string false "Search over name, email and phone"
// @Param role query string false "Role filter (CUSTOMER, PROVIDER, ADMIN)"
// @Param status query string false "Status filter"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.UsersResponse] "Users"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/admin/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	req := dto.ListUsersRequest{
		Search: query.Get(requestParamSearch),
		Role:   query.Get(requestParamRole),
		Status: query.Get(requestParamStatus),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate user filters")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ListUsers(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list users")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Users retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUser retrieves a single user account.
// @Summary Get user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse] "User"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUser")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.GetUser(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateUserStatus changes a user's account status.
// @Summary Update user status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "Update User Status Request"
// @Success 200 {object} response.Data[dto.UserResponse] "Updated user"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/users/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUserStatus")
	defer scope.End()

	adminID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateUserStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateUserStatus(ctx, adminID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update user status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User status updated by admin " + adminID)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteUser soft-deletes a user account.
// @Summary Delete user
// @Description Deactivate a user account. Admin accounts cannot be deleted.
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message "User deleted"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteUser")
	defer scope.End()

	adminID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteUser(ctx, adminID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User deleted by admin " + adminID)

	response.WithMessage(w, http.StatusOK, "User deleted successfully")
}

// GetProviders lists provider profiles with an optional account status filter.
// @Summary List providers
// @Tags Admin
// @Produce json
// @Param status query string false "Account status filter"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[provDto.ProvidersResponse] "Providers"
// @Failure 403 {object} response.Error
// @Router /v1/admin/providers [get]
// @Security BearerAuth
func (handler *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(requestParamStatus)

	res, err := handler.service.ListProviders(ctx, queryParams, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list providers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Providers retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// VerifyProvider sets a provider's verification flag.
// @Summary Verify provider
// @Description Mark a provider as verified. Verifying a pending provider activates the account.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Provider ID"
// @Param request body dto.VerifyProviderRequest true "Verify Provider Request"
// @Success 200 {object} response.Data[provDto.ProfileResponse] "Updated provider"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/providers/{id}/verify [patch]
// @Security BearerAuth
func (handler *Handler) VerifyProvider(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyProvider")
	defer scope.End()

	adminID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.VerifyProviderRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.VerifyProvider(ctx, adminID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify provider")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider verification updated by admin " + adminID)

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateProviderStatus changes a provider's account status.
// @Summary Update provider status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Provider ID"
// @Param request body dto.UpdateProviderStatusRequest true "Update Provider Status Request"
// @Success 200 {object} response.Data[provDto.ProfileResponse] "Updated provider"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/providers/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProviderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProviderStatus")
	defer scope.End()

	adminID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateProviderStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateProviderStatus(ctx, adminID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update provider status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider status updated by admin " + adminID)

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookings lists all bookings with optional status and date filters.
// @Summary List bookings
// @Tags Admin
// @Produce json
// @Param status query string false "Status filter"
// @Param booking_date query string false "Booking date filter (YYYY-MM-DD)"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Bookings"
// @Failure 403 {object} response.Error
// @Router /v1/admin/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.bookingService.ListAll(ctx, queryParams, bookingFilterFromQuery(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetBooking retrieves a single booking.
// @Summary Get booking
// @Tags Admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[bookingDto.BookingResponse] "Booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.bookingService.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateBookingStatus overrides a booking's status.
// @Summary Update booking status
// @Description Move any booking along the lifecycle, bypassing actor restrictions.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[bookingDto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatusAdmin")
	defer scope.End()

	adminID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := bookingDto.UpdateStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.bookingService.UpdateStatusByAdmin(ctx, adminID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking status updated by admin " + adminID)

	response.WithJSON(w, http.StatusOK, res)
}

// GetAnalytics returns period-scoped platform analytics.
// @Summary Platform analytics
// @Description Retrieve revenue, booking or user analytics for a period (week, month, year).
// @Tags Admin
// @Produce json
// @Param type query string true "Analytics type (revenue, bookings, users)"
// @Param period query string false "Period (week, month, year)"
// @Success 200 {object} response.Data[any] "Analytics"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/admin/analytics [get]
// @Security BearerAuth
func (handler *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAnalytics")
	defer scope.End()

	query := r.URL.Query()
	period := query.Get(requestParamPeriod)

	var (
		res any
		err error
	)

	switch query.Get(requestParamType) {
	case analyticsTypeRevenue:
		res, err = handler.service.RevenueAnalytics(ctx, period)
	case analyticsTypeBookings:
		res, err = handler.service.BookingAnalytics(ctx, period)
	case analyticsTypeUsers:
		res, err = handler.service.UserAnalytics(ctx, period)
	default:
		err = failure.BadRequestFromString("invalid analytics type")
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get analytics")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Analytics retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

func bookingFilterFromQuery(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	filters := []any{}

	if status := query.Get(requestParamStatus); status != "" {
		filters = append(filters, gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Value:    status,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		})
	}

	if date := query.Get(requestParamBookingDate); date != "" {
		filters = append(filters, gDto.Filter{
			Field:    bookingModel.FieldBookingDate,
			Value:    date,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		})
	}

	filter := gDto.FilterGroup{Filters: filters}
	if len(filters) > 1 {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	return filter
}

func userFromContext(ctx context.Context, w http.ResponseWriter) (string, bool) {
	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")

		response.WithError(w, failure.Unauthorized("unauthorized"))

		return "", false
	}

	return userID, true
}
