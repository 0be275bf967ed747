package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/kafka"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	addrModel "quickserve/internal/domains/address/model"
	addrRepo "quickserve/internal/domains/address/repository"
	"quickserve/internal/domains/booking/ledger"
	"quickserve/internal/domains/booking/model"
	"quickserve/internal/domains/booking/model/dto"
	"quickserve/internal/domains/booking/repository"
	custModel "quickserve/internal/domains/customer/model"
	custRepo "quickserve/internal/domains/customer/repository"
	offModel "quickserve/internal/domains/offering/model"
	offRepo "quickserve/internal/domains/offering/repository"
	provModel "quickserve/internal/domains/provider/model"
	provRepo "quickserve/internal/domains/provider/repository"
	"quickserve/shared"
	"quickserve/shared/cache"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	defaultCustomerCancelReason = "Cancelled by customer"
	defaultProviderCancelReason = "Cancelled by provider"
	defaultAdminCancelReason    = "Cancelled by admin"
)

type Booking interface {
	Create(ctx context.Context, userID string, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetForCustomer(ctx context.Context, userID, bookingID string) (dto.BookingResponse, error)
	ListForCustomer(ctx context.Context, userID string, params gDto.QueryParams) (dto.BookingsResponse, error)
	ListUpcomingForCustomer(ctx context.Context, userID string) (dto.BookingsResponse, error)
	ListPastForCustomer(ctx context.Context, userID string) (dto.BookingsResponse, error)
	CancelByCustomer(ctx context.Context, userID, bookingID string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	ListForProvider(ctx context.Context, userID string, params gDto.QueryParams) (dto.BookingsResponse, error)
	ListUpcomingForProvider(ctx context.Context, userID string) (dto.BookingsResponse, error)
	UpdateStatusByProvider(ctx context.Context, userID, bookingID string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	ListAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.BookingsResponse, error)
	Get(ctx context.Context, bookingID string) (dto.BookingResponse, error)
	UpdateStatusByAdmin(ctx context.Context, adminID, bookingID string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	customerRepo custRepo.Customer
	providerRepo provRepo.Provider
	offeringRepo offRepo.Offering
	addressRepo  addrRepo.SavedAddress
	ledger       ledger.Ledger
	transactor   postgres.Transactor
	kafkaClient  kafka.Client
	cache        cache.RedisCache
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	customerRepo custRepo.Customer,
	providerRepo provRepo.Provider,
	offeringRepo offRepo.Offering,
	addressRepo addrRepo.SavedAddress,
	ledger ledger.Ledger,
	transactor postgres.Transactor,
	kafkaClient kafka.Client,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		customerRepo: customerRepo,
		providerRepo: providerRepo,
		offeringRepo: offeringRepo,
		addressRepo:  addressRepo,
		ledger:       ledger,
		transactor:   transactor,
		kafkaClient:  kafkaClient,
		cache:        cache,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, userID string, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(req.ProviderID, provModel.FieldID, provModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return res, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	if !provider.IsAvailable {
		return res, failure.BadRequestFromString("provider is not available at the moment") // nolint:wrapcheck
	}

	offering, err := s.offeringRepo.Get(ctx, shared.FilterByID(req.ServiceID, offModel.FieldID, offModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service offering")

		return res, fmt.Errorf("failed to get service offering: %w", err)
	}

	if offering.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	if !offering.Active {
		return res, failure.BadRequestFromString("this service is not currently available") // nolint:wrapcheck
	}

	if offering.ProviderID != provider.ID {
		return res, failure.BadRequestFromString("service does not belong to this provider") // nolint:wrapcheck
	}

	address, err := s.resolveAddress(ctx, customer.ID, req)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	bookingDate, err := timezone.Parse(constant.BookingDateFormat, req.BookingDate)
	if err != nil {
		return res, failure.BadRequestFromString("invalid booking date") // nolint:wrapcheck
	}

	booking := req.ToModel(customer.ID, address, offering.Price, bookingDate)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertTx(ctx, tx, booking); txErr != nil {
			return fmt.Errorf("failed to insert booking: %w", txErr)
		}

		return s.ledger.BookingCreated(ctx, tx, customer.ID)
	})
	if err != nil {
		log.Error().Err(err).Str("customerID", customer.ID).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishEvent(ctx, dto.EventBookingCreated, booking)
	s.invalidateBookingCaches(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetForCustomer(ctx context.Context, userID, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCustomerBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	booking, err := s.getOwnedBooking(ctx, bookingID, model.FieldCustomerID, customer.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ListForCustomer(ctx context.Context, userID string, params gDto.QueryParams) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListCustomerBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	return s.list(ctx, params, s.scopedFilter(model.FieldCustomerID, customer.ID))
}

func (s *serviceImpl) ListUpcomingForCustomer(ctx context.Context, userID string) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListUpcomingCustomerBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	today := timezone.Format(timezone.Now(), constant.BookingDateFormat)

	filter := s.scopedFilter(model.FieldCustomerID, customer.ID)
	filter.Filters = append(filter.Filters,
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    []string{model.StatusPending, model.StatusConfirmed},
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBookingDate,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    today,
			Table:    model.TableName,
		},
	)

	return s.list(ctx, s.dateSortedParams(), filter)
}

func (s *serviceImpl) ListPastForCustomer(ctx context.Context, userID string) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListPastCustomerBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	today := timezone.Format(timezone.Now(), constant.BookingDateFormat)

	filter := s.scopedFilter(model.FieldCustomerID, customer.ID)
	filter.Filters = append(filter.Filters, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value:    fmt.Sprintf("%s.%s < '%s'", model.TableName, model.FieldBookingDate, today),
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{model.StatusCompleted, model.StatusCancelled},
				Table:    model.TableName,
			},
		},
	})

	return s.list(ctx, s.dateSortedParams(), filter)
}

func (s *serviceImpl) CancelByCustomer(ctx context.Context, userID, bookingID string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	booking, err := s.getOwnedBooking(ctx, bookingID, model.FieldCustomerID, customer.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return res, failure.InvalidTransition(booking.Status, model.StatusCancelled) // nolint:wrapcheck
	}

	reason := defaultCustomerCancelReason
	if req.Reason != nil && *req.Reason != constant.Empty {
		reason = *req.Reason
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		model.FieldStatus:             model.StatusCancelled,
		model.FieldCancelledAt:        now,
		model.FieldCancellationReason: reason,
		constant.FieldModifiedAt:      now,
		constant.FieldModifiedBy:      userID,
	}

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.UpdateTx(ctx, tx, updatedFields,
			shared.FilterByID(booking.ID, model.FieldID, model.TableName)); txErr != nil {
			return fmt.Errorf("failed to update booking: %w", txErr)
		}

		return s.ledger.BookingCancelledByCustomer(ctx, tx, customer.ID)
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = model.StatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = &reason

	s.publishEvent(ctx, dto.EventBookingStatusChanged, booking)
	s.invalidateBookingCaches(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ListForProvider(ctx context.Context, userID string, params gDto.QueryParams) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListProviderBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	return s.list(ctx, params, s.scopedFilter(model.FieldProviderID, provider.ID))
}

func (s *serviceImpl) ListUpcomingForProvider(ctx context.Context, userID string) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListUpcomingProviderBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	today := timezone.Format(timezone.Now(), constant.BookingDateFormat)

	filter := s.scopedFilter(model.FieldProviderID, provider.ID)
	filter.Filters = append(filter.Filters,
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    []string{model.StatusPending, model.StatusConfirmed, model.StatusInProgress},
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBookingDate,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    today,
			Table:    model.TableName,
		},
	)

	return s.list(ctx, s.dateSortedParams(), filter)
}

func (s *serviceImpl) UpdateStatusByProvider(ctx context.Context, userID, bookingID string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBookingStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	booking, err := s.getOwnedBooking(ctx, bookingID, model.FieldProviderID, provider.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	return s.applyTransition(ctx, booking, req, userID, defaultProviderCancelReason)
}

func (s *serviceImpl) ListAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	res, err = s.list(ctx, params, filter)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, bookingID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateStatusByAdmin(ctx context.Context, adminID, bookingID string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBookingStatusAdmin")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return s.applyTransition(ctx, booking, req, adminID, defaultAdminCancelReason)
}

// applyTransition runs the lifecycle guard and applies the side effects of the
// target status. COMPLETED feeds both provider and customer counters; a
// CANCELLED reached through this path deliberately leaves the customer's
// cancelled counter alone, only the customer-facing cancel counts there.
func (s *serviceImpl) applyTransition(ctx context.Context, booking model.Booking, req dto.UpdateStatusRequest, actor, defaultCancelReason string) (res dto.BookingResponse, err error) {
	target := strings.ToUpper(strings.TrimSpace(req.Status))

	if !model.IsValidStatus(target) {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid status: %s", req.Status)) // nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, target) {
		return res, failure.InvalidTransition(booking.Status, target) // nolint:wrapcheck
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	switch target {
	case model.StatusConfirmed:
		updatedFields[model.FieldConfirmedAt] = now
		booking.ConfirmedAt = &now
	case model.StatusCompleted:
		updatedFields[model.FieldCompletedAt] = now
		booking.CompletedAt = &now
	case model.StatusCancelled:
		updatedFields[model.FieldCancelledAt] = now
		booking.CancelledAt = &now

		reason := defaultCancelReason
		if req.CancellationReason != nil && *req.CancellationReason != constant.Empty {
			reason = *req.CancellationReason
		}

		updatedFields[model.FieldCancellationReason] = reason
		booking.CancellationReason = &reason
	}

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.UpdateTx(ctx, tx, updatedFields,
			shared.FilterByID(booking.ID, model.FieldID, model.TableName)); txErr != nil {
			return fmt.Errorf("failed to update booking: %w", txErr)
		}

		if target == model.StatusCompleted {
			return s.ledger.BookingCompleted(ctx, tx, booking.CustomerID, booking.ProviderID)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Str("target", target).Msg("failed to transition booking")

		return res, fmt.Errorf("failed to transition booking: %w", err)
	}

	booking.Status = target

	s.publishEvent(ctx, dto.EventBookingStatusChanged, booking)
	s.invalidateBookingCaches(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.BookingsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, shared.CalculateTotalPage(total, params.Limit))

	return res, nil
}

func (s *serviceImpl) getOwnedBooking(ctx context.Context, bookingID, ownerField, ownerID string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	owner := booking.CustomerID
	if ownerField == model.FieldProviderID {
		owner = booking.ProviderID
	}

	if owner != ownerID {
		return booking, failure.Forbidden("booking does not belong to you") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) resolveCustomer(ctx context.Context, userID string) (custModel.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    custModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    custModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to get customer profile")

		return customer, fmt.Errorf("failed to get customer profile: %w", err)
	}

	if customer.ID == constant.Empty {
		return customer, failure.NotFound("customer profile not found") // nolint:wrapcheck
	}

	return customer, nil
}

func (s *serviceImpl) resolveProvider(ctx context.Context, userID string) (provModel.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    provModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    provModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to get provider profile")

		return provider, fmt.Errorf("failed to get provider profile: %w", err)
	}

	if provider.ID == constant.Empty {
		return provider, failure.NotFound("provider profile not found") // nolint:wrapcheck
	}

	return provider, nil
}

func (s *serviceImpl) resolveAddress(ctx context.Context, customerID string, req dto.CreateBookingRequest) (string, error) {
	if req.SavedAddressID != nil {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    addrModel.FieldID,
					Operator: gDto.FilterOperatorEq,
					Value:    *req.SavedAddressID,
					Table:    addrModel.TableName,
				},
				gDto.Filter{
					Field:    addrModel.FieldCustomerID,
					Operator: gDto.FilterOperatorEq,
					Value:    customerID,
					Table:    addrModel.TableName,
				},
			},
		}

		savedAddress, err := s.addressRepo.Get(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get saved address")

			return constant.Empty, fmt.Errorf("failed to get saved address: %w", err)
		}

		if savedAddress.ID == constant.Empty {
			return constant.Empty, failure.NotFound("saved address not found") // nolint:wrapcheck
		}

		return fmt.Sprintf("%s, %s, %s - %s", savedAddress.Address, savedAddress.City, savedAddress.State, savedAddress.Pincode), nil
	}

	if req.Address == nil || *req.Address == constant.Empty {
		return constant.Empty, failure.BadRequestFromString("address is required") // nolint:wrapcheck
	}

	return *req.Address, nil
}

func (s *serviceImpl) scopedFilter(field, id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) dateSortedParams() gDto.QueryParams {
	return gDto.QueryParams{
		SortBy:  model.FieldBookingDate,
		SortDir: gDto.SortDirDesc,
	}
}

// publishEvent emits a lifecycle event after the transaction has committed.
// Delivery is best effort, a broker outage never fails the request.
func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key:   booking.ID,
			Value: dto.NewBookingEvent(event, booking),
		}

		if err := s.kafkaClient.SendMessages(c, s.cfg.Kafka.BookingTopic, message); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
