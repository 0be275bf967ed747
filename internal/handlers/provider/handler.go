package provider

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	bookingDto "quickserve/internal/domains/booking/model/dto"
	bookingService "quickserve/internal/domains/booking/service"
	offDto "quickserve/internal/domains/offering/model/dto"
	offService "quickserve/internal/domains/offering/service"
	"quickserve/internal/domains/provider/model/dto"
	"quickserve/internal/domains/provider/service"
	reviewDto "quickserve/internal/domains/review/model/dto"
	reviewService "quickserve/internal/domains/review/service"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/validator"
	"quickserve/transport/http/response"
)

type Handler struct {
	service         service.Provider
	offeringService offService.Offering
	bookingService  bookingService.Booking
	reviewService   reviewService.Review
	otel            otel.Otel
}

func New(
	service service.Provider,
	offeringService offService.Offering,
	bookingService bookingService.Booking,
	reviewService reviewService.Review,
	otel otel.Otel,
) Handler {
	return Handler{
		service:         service,
		offeringService: offeringService,
		bookingService:  bookingService,
		reviewService:   reviewService,
		otel:            otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/provider", func(routerGroup chi.Router) {
		routerGroup.Get("/dashboard", handler.GetDashboard)
		routerGroup.Get("/profile", handler.GetProfile)
		routerGroup.Patch("/profile", handler.UpdateProfile)
		routerGroup.Patch("/availability", handler.SetAvailability)

		routerGroup.Get("/services", handler.GetServices)
		routerGroup.Post("/services", handler.CreateService)
		routerGroup.Patch("/services/{id}", handler.UpdateService)
		routerGroup.Delete("/services/{id}", handler.DeleteService)
		routerGroup.Patch("/services/{id}/toggle", handler.ToggleService)

		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Get("/bookings/upcoming", handler.GetUpcomingBookings)
		routerGroup.Patch("/bookings/{id}/status", handler.UpdateBookingStatus)

		routerGroup.Post("/reviews/{id}/response", handler.RespondToReview)
	})
}

// GetDashboard returns the provider's dashboard statistics.
// @Summary Provider dashboard
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardStatsResponse] "Dashboard statistics"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderDashboard")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.service.Dashboard(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider dashboard retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetProfile retrieves the authenticated provider's profile.
// @Summary Get provider profile
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Data[dto.ProfileResponse] "Provider profile"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/profile [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderProfile")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.service.GetProfile(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider profile retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateProfile updates the authenticated provider's profile.
// @Summary Update provider profile
// @Tags Provider
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Data[dto.ProfileResponse] "Updated profile"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/provider/profile [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProviderProfile")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	req := dto.UpdateProfileRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateProfile(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update provider profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider profile updated by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// SetAvailability toggles whether the provider appears in search.
// @Summary Set availability
// @Tags Provider
// @Accept json
// @Produce json
// @Param request body dto.UpdateAvailabilityRequest true "Update Availability Request"
// @Success 200 {object} response.Message "Availability updated"
// @Failure 400 {object} response.Error
// @Router /v1/provider/availability [patch]
// @Security BearerAuth
func (handler *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetAvailability")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	req := dto.UpdateAvailabilityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetAvailability(ctx, userID, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability updated by user " + userID)

	response.WithMessage(w, http.StatusOK, "Availability updated successfully")
}

// GetServices lists the provider's offerings.
// @Summary List my services
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Data[offDto.OfferingsResponse] "Services"
// @Failure 401 {object} response.Error
// @Router /v1/provider/services [get]
// @Security BearerAuth
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.offeringService.List(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list services")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Services retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// CreateService adds a new offering to the provider's catalogue.
// @Summary Create service
// @Tags Provider
// @Accept json
// @Produce json
// @Param request body offDto.CreateOfferingRequest true "Create Offering Request"
// @Success 201 {object} response.Data[offDto.OfferingResponse] "Service created"
// @Failure 400 {object} response.Error
// @Router /v1/provider/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	req := offDto.CreateOfferingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.offeringService.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service created by user " + userID)

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateService edits one of the provider's offerings.
// @Summary Update service
// @Tags Provider
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body offDto.UpdateOfferingRequest true "Update Offering Request"
// @Success 200 {object} response.Data[offDto.OfferingResponse] "Updated service"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := offDto.UpdateOfferingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.offeringService.Update(ctx, userID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service updated by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteService removes one of the provider's offerings.
// @Summary Delete service
// @Tags Provider
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Message "Service deleted"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.offeringService.Delete(ctx, userID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service deleted by user " + userID)

	response.WithMessage(w, http.StatusOK, "Service deleted successfully")
}

// ToggleService flips an offering between active and inactive.
// @Summary Toggle service
// @Tags Provider
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Data[offDto.OfferingResponse] "Toggled service"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/services/{id}/toggle [patch]
// @Security BearerAuth
func (handler *Handler) ToggleService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleService")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.offeringService.ToggleActive(ctx, userID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service toggled by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookings lists the provider's bookings.
// @Summary List provider bookings
// @Tags Provider
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Bookings"
// @Failure 401 {object} response.Error
// @Router /v1/provider/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderBookings")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.bookingService.ListForProvider(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUpcomingBookings lists the provider's pending and confirmed bookings from today on.
// @Summary List upcoming provider bookings
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Upcoming bookings"
// @Failure 401 {object} response.Error
// @Router /v1/provider/bookings/upcoming [get]
// @Security BearerAuth
func (handler *Handler) GetUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUpcomingProviderBookings")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.bookingService.ListUpcomingForProvider(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get upcoming provider bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Upcoming provider bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateBookingStatus moves one of the provider's bookings along the lifecycle.
// @Summary Update booking status
// @Tags Provider
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[bookingDto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/provider/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
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

	res, err := handler.bookingService.UpdateStatusByProvider(ctx, userID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking status updated by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// RespondToReview attaches the provider's reply to a review.
// @Summary Respond to review
// @Tags Provider
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body reviewDto.RespondReviewRequest true "Respond Review Request"
// @Success 200 {object} response.Data[reviewDto.ReviewResponse] "Review with response"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/provider/reviews/{id}/response [post]
// @Security BearerAuth
func (handler *Handler) RespondToReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RespondToReview")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := reviewDto.RespondReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.reviewService.Respond(ctx, userID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to respond to review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review responded by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
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
