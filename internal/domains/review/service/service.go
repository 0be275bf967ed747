package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	bookingModel "quickserve/internal/domains/booking/model"
	bookingRepo "quickserve/internal/domains/booking/repository"
	custModel "quickserve/internal/domains/customer/model"
	custRepo "quickserve/internal/domains/customer/repository"
	provModel "quickserve/internal/domains/provider/model"
	provRepo "quickserve/internal/domains/provider/repository"
	"quickserve/internal/domains/review/model"
	"quickserve/internal/domains/review/model/dto"
	"quickserve/internal/domains/review/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/timezone"
)

type Review interface {
	Submit(ctx context.Context, userID string, req dto.SubmitReviewRequest) (dto.ReviewResponse, error)
	MyReviews(ctx context.Context, userID string) (dto.ReviewsResponse, error)
	Respond(ctx context.Context, userID, reviewID string, req dto.RespondReviewRequest) (dto.ReviewResponse, error)
	ListForProvider(ctx context.Context, providerID string, params gDto.QueryParams) (dto.ReviewsResponse, error)
}

type serviceImpl struct {
	repo         repository.Review
	bookingRepo  bookingRepo.Booking
	customerRepo custRepo.Customer
	providerRepo provRepo.Provider
	transactor   postgres.Transactor
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Review,
	bookingRepo bookingRepo.Booking,
	customerRepo custRepo.Customer,
	providerRepo provRepo.Provider,
	transactor postgres.Transactor,
	cfg *config.Config,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		providerRepo: providerRepo,
		transactor:   transactor,
		cfg:          cfg,
		otel:         otel,
	}
}

// Submit inserts the review and recomputes the provider's rating aggregate on
// the same transaction, so the stored average always reflects every review row.
func (s *serviceImpl) Submit(ctx context.Context, userID string, req dto.SubmitReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SubmitReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.CustomerID != customer.ID {
		return res, failure.Forbidden("booking does not belong to you") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusCompleted {
		return res, failure.BadRequestFromString("can only review completed bookings") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, s.bookingFilter(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check review existence")

		return res, fmt.Errorf("failed to check review existence: %w", err)
	}

	if exist {
		return res, failure.Conflict("you have already reviewed this booking") // nolint:wrapcheck
	}

	review := req.ToModel(customer.ID, booking.ProviderID)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertTx(ctx, tx, review); txErr != nil {
			return fmt.Errorf("failed to insert review: %w", txErr)
		}

		summary, txErr := s.repo.RatingSummaryTx(ctx, tx, booking.ProviderID)
		if txErr != nil {
			return txErr
		}

		updatedFields := map[string]any{
			provModel.FieldAverageRating: shared.Round2(summary.Average),
			provModel.FieldTotalReviews:  summary.Count,
			constant.FieldModifiedAt:     timezone.Now(),
			constant.FieldModifiedBy:     userID,
		}

		return s.providerRepo.UpdateTx(ctx, tx, updatedFields,
			shared.FilterByID(booking.ProviderID, provModel.FieldID, provModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to submit review")

		return res, fmt.Errorf("failed to submit review: %w", err)
	}

	review.ServiceName = booking.ServiceName
	review.ProviderName = booking.ProviderName

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) MyReviews(ctx context.Context, userID string) (res dto.ReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListCustomerReviews")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.resolveCustomer(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCustomerID,
				Operator: gDto.FilterOperatorEq,
				Value:    customer.ID,
				Table:    model.TableName,
			},
		},
	}

	return s.list(ctx, s.recentFirstParams(), filter)
}

// Respond attaches the provider's reply to a review. A review can be answered
// once, only by the provider it rates.
func (s *serviceImpl) Respond(ctx context.Context, userID, reviewID string, req dto.RespondReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RespondToReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	review, err := s.repo.Get(ctx, shared.FilterByID(reviewID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("reviewID", reviewID).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	if review.ProviderID != provider.ID {
		return res, failure.Forbidden("review does not belong to you") // nolint:wrapcheck
	}

	if review.ProviderResponse != nil {
		return res, failure.Conflict("you have already responded to this review") // nolint:wrapcheck
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		model.FieldProviderResponse:    req.Response,
		model.FieldProviderRespondedAt: now,
		constant.FieldModifiedAt:       now,
		constant.FieldModifiedBy:       userID,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(reviewID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("reviewID", reviewID).Msg("failed to respond to review")

		return res, fmt.Errorf("failed to respond to review: %w", err)
	}

	review.ProviderResponse = &req.Response
	review.ProviderRespondedAt = &now

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) ListForProvider(ctx context.Context, providerID string, params gDto.QueryParams) (res dto.ReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListProviderReviews")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(providerID, provModel.FieldID, provModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return res, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	if params.SortBy == constant.Empty {
		params.SortBy = constant.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    provider.ID,
				Table:    model.TableName,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.ReviewsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews, total, shared.CalculateTotalPage(total, params.Limit))

	return res, nil
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

func (s *serviceImpl) bookingFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) recentFirstParams() gDto.QueryParams {
	return gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}
}
