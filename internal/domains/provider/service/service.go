package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	bookingModel "quickserve/internal/domains/booking/model"
	bookingRepo "quickserve/internal/domains/booking/repository"
	"quickserve/internal/domains/category"
	offModel "quickserve/internal/domains/offering/model"
	offDto "quickserve/internal/domains/offering/model/dto"
	offRepo "quickserve/internal/domains/offering/repository"
	"quickserve/internal/domains/provider/model"
	"quickserve/internal/domains/provider/model/dto"
	"quickserve/internal/domains/provider/repository"
	reviewModel "quickserve/internal/domains/review/model"
	reviewDto "quickserve/internal/domains/review/model/dto"
	reviewRepo "quickserve/internal/domains/review/repository"
	userModel "quickserve/internal/domains/user/model"
	userRepo "quickserve/internal/domains/user/repository"
	"quickserve/shared"
	"quickserve/shared/cache"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

const (
	cacheGetCategories = "category:gets"

	defaultSearchSize = 10
	recentReviewCount = 5
	summaryServiceMax = 3
)

type Provider interface {
	Search(ctx context.Context, req dto.SearchRequest) (dto.SearchResponse, error)
	Detail(ctx context.Context, providerID string) (dto.ProviderDetailResponse, error)
	Categories(ctx context.Context) (dto.CategoriesResponse, error)
	Dashboard(ctx context.Context, userID string) (dto.DashboardStatsResponse, error)
	GetProfile(ctx context.Context, userID string) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (dto.ProfileResponse, error)
	SetAvailability(ctx context.Context, userID string, req dto.UpdateAvailabilityRequest) error
}

type serviceImpl struct {
	repo             repository.Provider
	workingHoursRepo repository.WorkingHours
	certRepo         repository.Certification
	offeringRepo     offRepo.Offering
	bookingRepo      bookingRepo.Booking
	reviewRepo       reviewRepo.Review
	userRepo         userRepo.User
	transactor       postgres.Transactor
	cache            cache.RedisCache
	cfg              *config.Config
	otel             otel.Otel
}

func New(
	repo repository.Provider,
	workingHoursRepo repository.WorkingHours,
	certRepo repository.Certification,
	offeringRepo offRepo.Offering,
	bookingRepo bookingRepo.Booking,
	reviewRepo reviewRepo.Review,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Provider {
	return &serviceImpl{
		repo:             repo,
		workingHoursRepo: workingHoursRepo,
		certRepo:         certRepo,
		offeringRepo:     offeringRepo,
		bookingRepo:      bookingRepo,
		reviewRepo:       reviewRepo,
		userRepo:         userRepo,
		transactor:       transactor,
		cache:            cache,
		cfg:              cfg,
		otel:             otel,
	}
}

// Search runs the public provider search: every filter narrows the set of
// available providers, then the result is sorted and paged in memory.
func (s *serviceImpl) Search(ctx context.Context, req dto.SearchRequest) (res dto.SearchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SearchProviders")
	defer scope.End()
	defer scope.TraceIfError(err)

	providers, err := s.repo.GetAll(ctx, gDto.QueryParams{}, s.availableFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get available providers")

		return res, fmt.Errorf("failed to get available providers: %w", err)
	}

	offerings, err := s.activeOfferingsByProvider(ctx)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	providers = filterByCategory(providers, req.Category)
	providers = filterByCity(providers, req.City)
	providers = filterBySearch(providers, offerings, req.Search)
	providers = filterByPrice(providers, req.MinPrice, req.MaxPrice)
	providers = filterByRating(providers, req.MinRating)

	sortProviders(providers, req.SortBy)

	page, size := req.Page, req.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSearchSize
	}

	total := len(providers)
	paged := paginate(providers, page, size)

	res.Providers = make([]dto.ProviderSummary, 0, len(paged))
	for _, provider := range paged {
		var summary dto.ProviderSummary
		summary.FromModel(provider, summaryServiceNames(offerings[provider.ID]))
		res.Providers = append(res.Providers, summary)
	}

	res.Total = total
	res.Page = page
	res.Size = size

	return res, nil
}

// Detail returns the public profile and bumps the view counter. The bump is a
// single SQL increment, concurrent views never lose updates.
func (s *serviceImpl) Detail(ctx context.Context, providerID string) (res dto.ProviderDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProviderDetail")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(providerID, model.FieldID, model.TableName)

	provider, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to get provider")

		return res, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return res, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	if err = s.repo.Increment(ctx, map[string]int{model.FieldProfileViews: 1}, filter); err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to increment profile views")

		return res, fmt.Errorf("failed to increment profile views: %w", err)
	}

	provider.ProfileViews++

	offerings, err := s.offeringRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, s.activeProviderOfferingsFilter(provider.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider offerings")

		return res, fmt.Errorf("failed to get provider offerings: %w", err)
	}

	distribution, err := s.reviewRepo.RatingDistribution(ctx, provider.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	recentReviews, err := s.reviewRepo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   recentReviewCount,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, s.providerReviewsFilter(provider.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent reviews")

		return res, fmt.Errorf("failed to get recent reviews: %w", err)
	}

	res.FromModel(provider)

	res.Services = make([]offDto.OfferingResponse, 0, len(offerings))
	for _, offering := range offerings {
		var svc offDto.OfferingResponse
		svc.FromModel(offering)
		res.Services = append(res.Services, svc)
	}

	res.RecentReviews = make([]reviewDto.ReviewResponse, 0, len(recentReviews))
	for _, review := range recentReviews {
		var rev reviewDto.ReviewResponse
		rev.FromModel(review)
		res.RecentReviews = append(res.RecentReviews, rev)
	}

	res.RatingDistribution = distribution

	return res, nil
}

func (s *serviceImpl) Categories(ctx context.Context) (res dto.CategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheGetCategories, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheGetCategories).Msg("cache hit for categories")

		return res, nil
	}

	res.Categories = make([]dto.CategoryResponse, 0, len(category.All()))

	for _, cat := range category.All() {
		count, err := s.repo.Count(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldPrimaryService,
					Operator: gDto.FilterOperatorEq,
					Value:    cat.Token,
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			log.Error().Err(err).Str("category", cat.Token).Msg("failed to count providers for category")

			return res, fmt.Errorf("failed to count providers for category: %w", err)
		}

		res.Categories = append(res.Categories, dto.CategoryResponse{
			Value:         cat.Token,
			DisplayName:   cat.Name,
			Icon:          cat.Icon,
			ProviderCount: count,
		})
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetCategories, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Dashboard(ctx context.Context, userID string) (res dto.DashboardStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProviderDashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	now := timezone.Now()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	totalEarnings, err := s.bookingRepo.SumPrice(ctx, s.completedFilter(provider.ID, nil))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	weeklyEarnings, err := s.bookingRepo.SumPrice(ctx, s.completedFilter(provider.ID, &weekAgo))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	fortnightEarnings, err := s.bookingRepo.SumPrice(ctx, s.completedFilter(provider.ID, &twoWeeksAgo))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	statusCounts := make(map[string]int, 4)
	for _, status := range []string{
		bookingModel.StatusPending, bookingModel.StatusConfirmed,
		bookingModel.StatusCompleted, bookingModel.StatusCancelled,
	} {
		count, err := s.bookingRepo.Count(ctx, s.statusFilter(provider.ID, status))
		if err != nil {
			return res, err // nolint:wrapcheck
		}

		statusCounts[status] = count
	}

	today := timezone.Format(now, constant.BookingDateFormat)

	todayFilter := s.providerBookingsFilter(provider.ID)
	todayFilter.Filters = append(todayFilter.Filters,
		gDto.Filter{
			Field:    bookingModel.FieldBookingDate,
			Operator: gDto.FilterOperatorEq,
			Value:    today,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    []string{bookingModel.StatusPending, bookingModel.StatusConfirmed},
			Table:    bookingModel.TableName,
		},
	)

	todayBookings, err := s.bookingRepo.Count(ctx, todayFilter)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	weekCompleted, err := s.bookingRepo.Count(ctx, s.completedFilter(provider.ID, &weekAgo))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	activeServices, err := s.offeringRepo.Count(ctx, s.activeProviderOfferingsFilter(provider.ID))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	avgRating := 0.0
	if provider.AverageRating != nil {
		avgRating = *provider.AverageRating
	}

	ratingStatus := "Good Rating"
	if avgRating >= 4.5 {
		ratingStatus = "Top Rated Provider"
	}

	res = dto.DashboardStatsResponse{
		TotalEarnings:     totalEarnings,
		WeeklyEarnings:    weeklyEarnings,
		TotalBookings:     statusCounts[bookingModel.StatusPending] + statusCounts[bookingModel.StatusConfirmed] + statusCounts[bookingModel.StatusCompleted] + statusCounts[bookingModel.StatusCancelled],
		CompletedBookings: statusCounts[bookingModel.StatusCompleted],
		PendingBookings:   statusCounts[bookingModel.StatusPending],
		TodayBookings:     todayBookings,
		AverageRating:     avgRating,
		TotalReviews:      provider.TotalReviews,
		ProfileViews:      provider.ProfileViews,
		ActiveServices:    activeServices,
		EarningsTrend:     earningsTrend(weeklyEarnings, fortnightEarnings-weeklyEarnings),
		BookingsTrend:     fmt.Sprintf("+%d new this week", weekCompleted),
		RatingStatus:      ratingStatus,
	}

	return res, nil
}

func (s *serviceImpl) GetProfile(ctx context.Context, userID string) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProviderProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	hours, certifications, err := s.loadSchedule(ctx, provider.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(provider)
	res.AttachSchedule(hours, certifications)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProviderProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if req.Phone != nil && *req.Phone != provider.Phone {
		exist, err := s.userRepo.Exist(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    userModel.FieldPhone,
					Operator: gDto.FilterOperatorEq,
					Value:    *req.Phone,
					Table:    userModel.TableName,
				},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to check phone uniqueness")

			return res, fmt.Errorf("failed to check phone uniqueness: %w", err)
		}

		if exist {
			return res, failure.Conflict("phone number is already in use") // nolint:wrapcheck
		}
	}

	for day := range req.WorkingHours {
		if !model.IsValidDay(strings.ToUpper(day)) {
			return res, failure.BadRequestFromString("unknown day of week: " + day) // nolint:wrapcheck
		}
	}

	existingHours, _, err := s.loadSchedule(ctx, provider.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	hoursByDay := make(map[string]model.WorkingHours, len(existingHours))
	for _, h := range existingHours {
		hoursByDay[h.DayOfWeek] = h
	}

	userFields, providerFields := req.Split()

	updatedUserFields := shared.TransformFields(userFields, userID)
	updatedProviderFields := shared.TransformFields(providerFields, userID)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.userRepo.UpdateTx(ctx, tx, updatedUserFields,
			shared.FilterByID(provider.UserID, userModel.FieldID, userModel.TableName)); txErr != nil {
			return fmt.Errorf("failed to update user: %w", txErr)
		}

		if txErr := s.repo.UpdateTx(ctx, tx, updatedProviderFields,
			shared.FilterByID(provider.ID, model.FieldID, model.TableName)); txErr != nil {
			return fmt.Errorf("failed to update provider: %w", txErr)
		}

		if txErr := s.upsertWorkingHours(ctx, tx, provider.ID, userID, req.WorkingHours, hoursByDay); txErr != nil {
			return txErr
		}

		return s.replaceCertifications(ctx, tx, provider.ID, userID, req.Certifications)
	})
	if err != nil {
		log.Error().Err(err).Str("providerID", provider.ID).Msg("failed to update provider profile")

		return res, fmt.Errorf("failed to update provider profile: %w", err)
	}

	updated, err := s.repo.Get(ctx, shared.FilterByID(provider.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to reload provider profile")

		return res, fmt.Errorf("failed to reload provider profile: %w", err)
	}

	hours, certifications, err := s.loadSchedule(ctx, provider.ID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(updated)
	res.AttachSchedule(hours, certifications)

	return res, nil
}

// upsertWorkingHours writes one row per submitted day, updating the existing
// row when the day already has one.
func (s *serviceImpl) upsertWorkingHours(
	ctx context.Context,
	tx *sqlx.Tx,
	providerID, userID string,
	entries map[string]dto.WorkingHoursEntry,
	existing map[string]model.WorkingHours,
) error {
	for day, entry := range entries {
		token := strings.ToUpper(day)

		if current, ok := existing[token]; ok {
			fields := map[string]any{
				model.FieldOpenTime:      entry.Open,
				model.FieldCloseTime:     entry.Close,
				model.FieldIsOpen:        entry.IsOpen,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: userID,
			}

			if err := s.workingHoursRepo.UpdateTx(ctx, tx, fields,
				shared.FilterByID(current.ID, model.FieldID, model.WorkingHoursTable)); err != nil {
				return fmt.Errorf("failed to update working hours: %w", err)
			}

			continue
		}

		row := model.WorkingHours{
			ID:         uuid.NewString(),
			ProviderID: providerID,
			DayOfWeek:  token,
			OpenTime:   entry.Open,
			CloseTime:  entry.Close,
			IsOpen:     entry.IsOpen,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  userID,
				ModifiedBy: userID,
			},
		}

		if err := s.workingHoursRepo.InsertTx(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to insert working hours: %w", err)
		}
	}

	return nil
}

// replaceCertifications swaps the provider's certification list wholesale. A
// nil list leaves the stored set untouched.
func (s *serviceImpl) replaceCertifications(
	ctx context.Context,
	tx *sqlx.Tx,
	providerID, userID string,
	entries []dto.CertificationEntry,
) error {
	if entries == nil {
		return nil
	}

	if err := s.certRepo.DeleteTx(ctx, tx, s.providerScheduleFilter(providerID, model.CertificationTable)); err != nil {
		return fmt.Errorf("failed to clear certifications: %w", err)
	}

	for _, entry := range entries {
		if err := s.certRepo.InsertTx(ctx, tx, entry.ToModel(providerID, userID)); err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	return nil
}

func (s *serviceImpl) loadSchedule(ctx context.Context, providerID string) ([]model.WorkingHours, []model.Certification, error) {
	hours, err := s.workingHoursRepo.GetAll(ctx, gDto.QueryParams{},
		s.providerScheduleFilter(providerID, model.WorkingHoursTable))
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to get working hours")

		return nil, nil, fmt.Errorf("failed to get working hours: %w", err)
	}

	certifications, err := s.certRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}, s.providerScheduleFilter(providerID, model.CertificationTable))
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to get certifications")

		return nil, nil, fmt.Errorf("failed to get certifications: %w", err)
	}

	return hours, certifications, nil
}

func (s *serviceImpl) providerScheduleFilter(providerID, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    providerID,
				Table:    table,
			},
		},
	}
}

func (s *serviceImpl) SetAvailability(ctx context.Context, userID string, req dto.UpdateAvailabilityRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetProviderAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return err // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldIsAvailable:   *req.IsAvailable,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: userID,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(provider.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("providerID", provider.ID).Msg("failed to update availability")

		return fmt.Errorf("failed to update availability: %w", err)
	}

	return nil
}

func (s *serviceImpl) activeOfferingsByProvider(ctx context.Context) (map[string][]offModel.Offering, error) {
	offerings, err := s.offeringRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    offModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    offModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get active offerings")

		return nil, fmt.Errorf("failed to get active offerings: %w", err)
	}

	grouped := make(map[string][]offModel.Offering, len(offerings))
	for _, offering := range offerings {
		grouped[offering.ProviderID] = append(grouped[offering.ProviderID], offering)
	}

	return grouped, nil
}

func (s *serviceImpl) resolveProvider(ctx context.Context, userID string) (model.Provider, error) {
	provider, err := s.repo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
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

func (s *serviceImpl) availableFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsAvailable,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) activeProviderOfferingsFilter(providerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    offModel.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    providerID,
				Table:    offModel.TableName,
			},
			gDto.Filter{
				Field:    offModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    offModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) providerReviewsFilter(providerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    reviewModel.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    providerID,
				Table:    reviewModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) providerBookingsFilter(providerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    providerID,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) statusFilter(providerID, status string) gDto.FilterGroup {
	filter := s.providerBookingsFilter(providerID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    bookingModel.FieldStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    status,
		Table:    bookingModel.TableName,
	})

	return filter
}

// completedFilter matches completed bookings for the provider, optionally
// restricted to completions at or after `since`.
func (s *serviceImpl) completedFilter(providerID string, since *time.Time) gDto.FilterGroup {
	filter := s.statusFilter(providerID, bookingModel.StatusCompleted)

	if since != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldCompletedAt,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *since,
			Table:    bookingModel.TableName,
		})
	}

	return filter
}

func filterByCategory(providers []model.Provider, input string) []model.Provider {
	if input == "" || strings.EqualFold(input, "all") || !category.IsValid(input) {
		return providers
	}

	token := category.Canonical(input)

	out := providers[:0]
	for _, p := range providers {
		if p.PrimaryService == token || contains(p.SecondaryServices, token) {
			out = append(out, p)
		}
	}

	return out
}

func filterByCity(providers []model.Provider, city string) []model.Provider {
	if city == "" {
		return providers
	}

	needle := strings.ToLower(city)

	out := providers[:0]
	for _, p := range providers {
		if p.City != nil && strings.Contains(strings.ToLower(*p.City), needle) {
			out = append(out, p)
		}
	}

	return out
}

func filterBySearch(providers []model.Provider, offerings map[string][]offModel.Offering, search string) []model.Provider {
	if search == "" {
		return providers
	}

	needle := strings.ToLower(search)

	out := providers[:0]
	for _, p := range providers {
		if strings.Contains(strings.ToLower(p.FullName), needle) ||
			strings.Contains(strings.ToLower(category.DisplayName(p.PrimaryService)), needle) ||
			offeringNameMatches(offerings[p.ID], needle) {
			out = append(out, p)
		}
	}

	return out
}

func filterByPrice(providers []model.Provider, minPrice, maxPrice *float64) []model.Provider {
	if minPrice == nil && maxPrice == nil {
		return providers
	}

	out := providers[:0]
	for _, p := range providers {
		// Providers without a published rate pass the price band.
		if p.HourlyRate == nil {
			out = append(out, p)

			continue
		}

		if minPrice != nil && *p.HourlyRate < *minPrice {
			continue
		}

		if maxPrice != nil && *p.HourlyRate > *maxPrice {
			continue
		}

		out = append(out, p)
	}

	return out
}

func filterByRating(providers []model.Provider, minRating *float64) []model.Provider {
	if minRating == nil {
		return providers
	}

	out := providers[:0]
	for _, p := range providers {
		if p.AverageRating != nil && *p.AverageRating >= *minRating {
			out = append(out, p)
		}
	}

	return out
}

// sortProviders orders the result set by the requested key. Unrated and
// unpriced providers sort last regardless of direction.
func sortProviders(providers []model.Provider, sortBy string) {
	var less func(a, b model.Provider) bool

	switch strings.ToLower(sortBy) {
	case "reviews":
		less = func(a, b model.Provider) bool { return a.TotalReviews > b.TotalReviews }
	case "price-low":
		less = func(a, b model.Provider) bool { return lessFloatPtr(a.HourlyRate, b.HourlyRate, true) }
	case "price-high":
		less = func(a, b model.Provider) bool { return lessFloatPtr(a.HourlyRate, b.HourlyRate, false) }
	case "experience":
		less = func(a, b model.Provider) bool { return a.ExperienceYears > b.ExperienceYears }
	default:
		less = func(a, b model.Provider) bool { return lessFloatPtr(a.AverageRating, b.AverageRating, false) }
	}

	sort.SliceStable(providers, func(i, j int) bool {
		return less(providers[i], providers[j])
	})
}

func paginate(providers []model.Provider, page, size int) []model.Provider {
	start := (page - 1) * size
	if start >= len(providers) {
		return nil
	}

	end := start + size
	if end > len(providers) {
		end = len(providers)
	}

	return providers[start:end]
}

func summaryServiceNames(offerings []offModel.Offering) []string {
	names := make([]string, 0, summaryServiceMax)
	for _, offering := range offerings {
		if len(names) == summaryServiceMax {
			break
		}

		names = append(names, offering.Name)
	}

	return names
}

func offeringNameMatches(offerings []offModel.Offering, needle string) bool {
	for _, offering := range offerings {
		if strings.Contains(strings.ToLower(offering.Name), needle) {
			return true
		}
	}

	return false
}

func earningsTrend(current, previous float64) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}

		return "0%"
	}

	pct := int((current - previous) / previous * 100)

	sign := ""
	if pct >= 0 {
		sign = "+"
	}

	return fmt.Sprintf("%s%d%% from last week", sign, pct)
}

func lessFloatPtr(a, b *float64, ascending bool) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case ascending:
		return *a < *b
	default:
		return *a > *b
	}
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}

	return false
}
