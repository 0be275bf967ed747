package customer

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	addrDto "quickserve/internal/domains/address/model/dto"
	addrService "quickserve/internal/domains/address/service"
	bookingDto "quickserve/internal/domains/booking/model/dto"
	bookingService "quickserve/internal/domains/booking/service"
	"quickserve/internal/domains/customer/model/dto"
	"quickserve/internal/domains/customer/service"
	reviewDto "quickserve/internal/domains/review/model/dto"
	reviewService "quickserve/internal/domains/review/service"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/validator"
	"quickserve/transport/http/response"
)

type Handler struct {
	service        service.Customer
	bookingService bookingService.Booking
	reviewService  reviewService.Review
	addressService addrService.SavedAddress
	otel           otel.Otel
}

func New(
	service service.Customer,
	bookingService bookingService.Booking,
	reviewService reviewService.Review,
	addressService addrService.SavedAddress,
	otel otel.Otel,
) Handler {
	return Handler{
		service:        service,
		bookingService: bookingService,
		reviewService:  reviewService,
		addressService: addressService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customer", func(routerGroup chi.Router) {
		routerGroup.Get("/profile", handler.GetProfile)
		routerGroup.Patch("/profile", handler.UpdateProfile)

		routerGroup.Post("/bookings", handler.CreateBooking)
		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Get("/bookings/upcoming", handler.GetUpcomingBookings)
		routerGroup.Get("/bookings/past", handler.GetPastBookings)
		routerGroup.Get("/bookings/{id}", handler.GetBookingByID)
		routerGroup.Patch("/bookings/{id}/cancel", handler.CancelBooking)

		routerGroup.Post("/reviews", handler.SubmitReview)
		routerGroup.Get("/reviews", handler.GetMyReviews)

		routerGroup.Get("/addresses", handler.GetAddresses)
		routerGroup.Post("/addresses", handler.CreateAddress)
		routerGroup.Patch("/addresses/{id}", handler.UpdateAddress)
		routerGroup.Delete("/addresses/{id}", handler.DeleteAddress)
		routerGroup.Patch("/addresses/{id}/default", handler.SetDefaultAddress)
	})
}

// GetProfile retrieves the authenticated customer's profile.
// @Summary Get customer profile
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[dto.ProfileResponse] "Customer profile"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customer/profile [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerProfile")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.service.GetProfile(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer profile retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateProfile updates the authenticated customer's profile.
// @Summary Update customer profile
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Data[dto.ProfileResponse] "Updated profile"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/customer/profile [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCustomerProfile")
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
		log.Error().Err(err).Msg("failed to update customer profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer profile updated by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// CreateBooking books a provider service for the authenticated customer.
// @Summary Create booking
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body bookingDto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[bookingDto.BookingResponse] "Booking created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customer/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	req := bookingDto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.bookingService.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created by user " + userID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings lists the authenticated customer's bookings.
// @Summary List my bookings
// @Tags Customer
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Bookings"
// @Failure 401 {object} response.Error
// @Router /v1/customer/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerBookings")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.bookingService.ListForCustomer(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUpcomingBookings lists the customer's pending and confirmed bookings from today on.
// @Summary List upcoming bookings
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Upcoming bookings"
// @Failure 401 {object} response.Error
// @Router /v1/customer/bookings/upcoming [get]
// @Security BearerAuth
func (handler *Handler) GetUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUpcomingBookings")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.bookingService.ListUpcomingForCustomer(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get upcoming bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Upcoming bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetPastBookings lists the customer's finished bookings.
// @Summary List past bookings
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[bookingDto.BookingsResponse] "Past bookings"
// @Failure 401 {object} response.Error
// @Router /v1/customer/bookings/past [get]
// @Security BearerAuth
func (handler *Handler) GetPastBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPastBookings")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.bookingService.ListPastForCustomer(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get past bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Past bookings retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookingByID retrieves one of the customer's bookings.
// @Summary Get booking detail
// @Tags Customer
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[bookingDto.BookingResponse] "Booking detail"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customer/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.bookingService.GetForCustomer(ctx, userID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// CancelBooking cancels one of the customer's bookings.
// @Summary Cancel booking
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} response.Data[bookingDto.BookingResponse] "Cancelled booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customer/bookings/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := bookingDto.CancelBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.bookingService.CancelByCustomer(ctx, userID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled by user " + userID)

	response.WithJSON(w, http.StatusOK, res)
}

// SubmitReview reviews a completed booking.
// @Summary Submit review
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body reviewDto.SubmitReviewRequest true "Submit Review Request"
// @Success 201 {object} response.Data[reviewDto.ReviewResponse] "Review created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/customer/reviews [post]
// @Security BearerAuth
func (handler *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitReview")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	req := reviewDto.SubmitReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.reviewService.Submit(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review submitted by user " + userID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyReviews lists the customer's submitted reviews.
// @Summary List my reviews
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[reviewDto.ReviewsResponse] "Reviews"
// @Failure 401 {object} response.Error
// @Router /v1/customer/reviews [get]
// @Security BearerAuth
func (handler *Handler) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReviews")
	defer scope.End()

	userID, ok := userFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := handler.reviewService.MyReviews(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer reviews retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetAddresses lists the customer's saved addresses, default first.
// @Summary List saved addresses
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[addrDto.SavedAddressesResponse] "Saved addresses"
// @Failure 401 {object} response.Error
// @Router /v1/customer/addresses [get]
// @Security BearerAuth
func (handler *Handler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAddresses")
	defer scope.End()

	customerID, ok := handler.resolveCustomerID(ctx, w)
	if !ok {
		return
	}

	res, err := handler.addressService.List(ctx, customerID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list saved addresses")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Saved addresses retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// CreateAddress saves a new address for the customer.
// @Summary Create saved address
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body addrDto.SavedAddressRequest true "Saved Address Request"
// @Success 201 {object} response.Data[addrDto.SavedAddressResponse] "Address created"
// @Failure 400 {object} response.Error
// @Router /v1/customer/addresses [post]
// @Security BearerAuth
func (handler *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAddress")
	defer scope.End()

	customerID, ok := handler.resolveCustomerID(ctx, w)
	if !ok {
		return
	}

	req := addrDto.SavedAddressRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.addressService.Create(ctx, customerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create saved address")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Saved address created")

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateAddress updates one of the customer's saved addresses.
// @Summary Update saved address
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param request body addrDto.UpdateSavedAddressRequest true "Update Saved Address Request"
// @Success 200 {object} response.Data[addrDto.SavedAddressResponse] "Updated address"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customer/addresses/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAddress")
	defer scope.End()

	customerID, ok := handler.resolveCustomerID(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := addrDto.UpdateSavedAddressRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.addressService.Update(ctx, customerID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update saved address")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Saved address updated")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteAddress removes one of the customer's saved addresses.
// @Summary Delete saved address
// @Tags Customer
// @Produce json
// @Param id path string true "Address ID"
// @Success 200 {object} response.Message "Address deleted"
// @Failure 404 {object} response.Error
// @Router /v1/customer/addresses/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAddress")
	defer scope.End()

	customerID, ok := handler.resolveCustomerID(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.addressService.Delete(ctx, customerID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete saved address")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Saved address deleted")

	response.WithMessage(w, http.StatusOK, "Address deleted successfully")
}

// SetDefaultAddress marks one of the customer's saved addresses as default.
// @Summary Set default address
// @Tags Customer
// @Produce json
// @Param id path string true "Address ID"
// @Success 200 {object} response.Message "Default address set"
// @Failure 404 {object} response.Error
// @Router /v1/customer/addresses/{id}/default [patch]
// @Security BearerAuth
func (handler *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetDefaultAddress")
	defer scope.End()

	customerID, ok := handler.resolveCustomerID(ctx, w)
	if !ok {
		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.addressService.SetDefault(ctx, customerID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set default address")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Default address set")

	response.WithMessage(w, http.StatusOK, "Default address set successfully")
}

// resolveCustomerID maps the authenticated user to their customer profile id,
// which keys the saved address operations.
func (handler *Handler) resolveCustomerID(ctx context.Context, w http.ResponseWriter) (string, bool) {
	userID, ok := userFromContext(ctx, w)
	if !ok {
		return "", false
	}

	profile, err := handler.service.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve customer profile")

		response.WithError(w, err)

		return "", false
	}

	return profile.ID, true
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
