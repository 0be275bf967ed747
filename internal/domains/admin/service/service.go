package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/admin/model/dto"
	bookingModel "quickserve/internal/domains/booking/model"
	bookingRepo "quickserve/internal/domains/booking/repository"
	"quickserve/internal/domains/category"
	provModel "quickserve/internal/domains/provider/model"
	provDto "quickserve/internal/domains/provider/model/dto"
	provRepo "quickserve/internal/domains/provider/repository"
	userModel "quickserve/internal/domains/user/model"
	userRepo "quickserve/internal/domains/user/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/timezone"
)

const (
	recentRowCount = 10

	periodWeek  = "week"
	periodMonth = "month"
	periodYear  = "year"
)

type Admin interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	ListUsers(ctx context.Context, params gDto.QueryParams, req dto.ListUsersRequest) (dto.UsersResponse, error)
	GetUser(ctx context.Context, userID string) (dto.UserResponse, error)
	UpdateUserStatus(ctx context.Context, adminID, userID string, req dto.UpdateUserStatusRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
	ListProviders(ctx context.Context, params gDto.QueryParams, status string) (provDto.ProvidersResponse, error)
	VerifyProvider(ctx context.Context, adminID, providerID string, req dto.VerifyProviderRequest) (provDto.ProfileResponse, error)
	UpdateProviderStatus(ctx context.Context, adminID, providerID string, req dto.UpdateProviderStatusRequest) (provDto.ProfileResponse, error)
	RevenueAnalytics(ctx context.Context, period string) (dto.RevenueAnalyticsResponse, error)
	BookingAnalytics(ctx context.Context, period string) (dto.BookingAnalyticsResponse, error)
	UserAnalytics(ctx context.Context, period string) (dto.UserAnalyticsResponse, error)
}

type serviceImpl struct {
	userRepo     userRepo.User
	providerRepo provRepo.Provider
	bookingRepo  bookingRepo.Booking
	transactor   postgres.Transactor
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	userRepo userRepo.User,
	providerRepo provRepo.Provider,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	otel otel.Otel,
) Admin {
	return &serviceImpl{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		transactor:   transactor,
		cfg:          cfg,
		otel:         otel,
	}
}

// Dashboard assembles the platform rollup on demand. Booking totals, revenue
// and the per-category maps come from a single fold over the booking rows.
func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminDashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.TotalUsers, err = s.userRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return res, s.countErr(err, "users")
	}

	res.TotalCustomers, err = s.userRepo.Count(ctx, s.roleFilter(constant.RoleCustomer))
	if err != nil {
		return res, s.countErr(err, "customers")
	}

	res.TotalProviders, err = s.userRepo.Count(ctx, s.roleFilter(constant.RoleProvider))
	if err != nil {
		return res, s.countErr(err, "providers")
	}

	res.ActiveProviders, err = s.userRepo.Count(ctx, s.roleStatusFilter(constant.RoleProvider, constant.AccountStatusActive))
	if err != nil {
		return res, s.countErr(err, "active providers")
	}

	res.PendingProviders, err = s.userRepo.Count(ctx, s.roleStatusFilter(constant.RoleProvider, constant.AccountStatusPendingVerification))
	if err != nil {
		return res, s.countErr(err, "pending providers")
	}

	res.SuspendedProviders, err = s.userRepo.Count(ctx, s.roleStatusFilter(constant.RoleProvider, constant.AccountStatusSuspended))
	if err != nil {
		return res, s.countErr(err, "suspended providers")
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	rollup := rollupBookings(bookings)
	res.TotalBookings = rollup.total
	res.PendingBookings = rollup.pending
	res.ConfirmedBookings = rollup.confirmed
	res.InProgressBookings = rollup.inProgress
	res.CompletedBookings = rollup.completed
	res.CancelledBookings = rollup.cancelled
	res.TotalRevenue = shared.Round2(rollup.revenue)
	res.BookingsByCategory = rollup.bookingsByCategory
	res.RevenueByCategory = rollup.revenueByCategory

	recentBookings, err := s.bookingRepo.GetAll(ctx, s.recentParams(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent bookings")

		return res, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	res.RecentBookings = make([]dto.RecentBookingResponse, len(recentBookings))
	for i, booking := range recentBookings {
		res.RecentBookings[i].FromModel(booking)
	}

	recentUsers, err := s.userRepo.GetAll(ctx, s.recentParams(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent users")

		return res, fmt.Errorf("failed to get recent users: %w", err)
	}

	res.RecentUsers = make([]dto.RecentUserResponse, len(recentUsers))
	for i, user := range recentUsers {
		res.RecentUsers[i].FromModel(user)
	}

	return res, nil
}

func (s *serviceImpl) ListUsers(ctx context.Context, params gDto.QueryParams, req dto.ListUsersRequest) (res dto.UsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListUsers")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := s.userListFilter(req)

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return res, s.countErr(err, "users")
	}

	if params.SortBy == constant.Empty {
		params.SortBy = constant.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	users, err := s.userRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(users, total, shared.CalculateTotalPage(total, params.Limit))

	return res, nil
}

func (s *serviceImpl) GetUser(ctx context.Context, userID string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(user)

	return res, nil
}

// UpdateUserStatus moves a user account between statuses. Admin accounts are
// immutable through this path.
func (s *serviceImpl) UpdateUserStatus(ctx context.Context, adminID, userID string, req dto.UpdateUserStatusRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateUserStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if user.Role == constant.RoleAdmin {
		return res, failure.BadRequestFromString("cannot change status of admin users") // nolint:wrapcheck
	}

	if err = s.setUserStatus(ctx, adminID, userID, req.Status); err != nil {
		return res, err
	}

	user.Status = req.Status

	res.FromModel(user)

	return res, nil
}

// DeleteUser soft-deletes by deactivating the account so booking and review
// history keeps resolving.
func (s *serviceImpl) DeleteUser(ctx context.Context, adminID, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if user.Role == constant.RoleAdmin {
		return failure.BadRequestFromString("cannot delete admin users") // nolint:wrapcheck
	}

	return s.setUserStatus(ctx, adminID, userID, constant.AccountStatusDeactivated)
}

func (s *serviceImpl) ListProviders(ctx context.Context, params gDto.QueryParams, status string) (res provDto.ProvidersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListProviders")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{}
	if status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    userModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    strings.ToUpper(status),
			Table:    userModel.TableName,
		})
	}

	total, err := s.providerRepo.Count(ctx, filter)
	if err != nil {
		return res, s.countErr(err, "providers")
	}

	if params.SortBy == constant.Empty {
		params.SortBy = constant.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	providers, err := s.providerRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get providers")

		return res, fmt.Errorf("failed to get providers: %w", err)
	}

	res.FromModels(providers, total, shared.CalculateTotalPage(total, params.Limit))

	return res, nil
}

// VerifyProvider flips the verification flag. Granting verification to an
// account still pending verification also activates it, on the same
// transaction.
func (s *serviceImpl) VerifyProvider(ctx context.Context, adminID, providerID string, req dto.VerifyProviderRequest) (res provDto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyProvider")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	verified := *req.Verified
	now := timezone.Now()

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		providerFields := map[string]any{
			provModel.FieldIsVerified: verified,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  adminID,
		}

		if txErr := s.providerRepo.UpdateTx(ctx, tx, providerFields,
			shared.FilterByID(provider.ID, provModel.FieldID, provModel.TableName)); txErr != nil {
			return fmt.Errorf("failed to update provider verification: %w", txErr)
		}

		if !verified || provider.AccountStatus != constant.AccountStatusPendingVerification {
			return nil
		}

		userFields := map[string]any{
			userModel.FieldStatus:    constant.AccountStatusActive,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: adminID,
		}

		return s.userRepo.UpdateTx(ctx, tx, userFields,
			shared.FilterByID(provider.UserID, userModel.FieldID, userModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to verify provider")

		return res, fmt.Errorf("failed to verify provider: %w", err)
	}

	provider.IsVerified = verified
	if verified && provider.AccountStatus == constant.AccountStatusPendingVerification {
		provider.AccountStatus = constant.AccountStatusActive
	}

	res.FromModel(provider)

	return res, nil
}

func (s *serviceImpl) UpdateProviderStatus(ctx context.Context, adminID, providerID string, req dto.UpdateProviderStatusRequest) (res provDto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProviderStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if err = s.setUserStatus(ctx, adminID, provider.UserID, req.Status); err != nil {
		return res, err
	}

	provider.AccountStatus = req.Status

	res.FromModel(provider)

	return res, nil
}

func (s *serviceImpl) RevenueAnalytics(ctx context.Context, period string) (res dto.RevenueAnalyticsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RevenueAnalytics")
	defer scope.End()
	defer scope.TraceIfError(err)

	var since time.Time
	res.Period, since = normalizePeriod(period)

	res.TotalRevenue, err = s.bookingRepo.SumPrice(ctx, s.completedFilter(nil))
	if err != nil {
		log.Error().Err(err).Msg("failed to sum total revenue")

		return res, fmt.Errorf("failed to sum total revenue: %w", err)
	}

	res.PeriodRevenue, err = s.bookingRepo.SumPrice(ctx, s.completedFilter(&since))
	if err != nil {
		log.Error().Err(err).Msg("failed to sum period revenue")

		return res, fmt.Errorf("failed to sum period revenue: %w", err)
	}

	res.TotalRevenue = shared.Round2(res.TotalRevenue)
	res.PeriodRevenue = shared.Round2(res.PeriodRevenue)

	return res, nil
}

func (s *serviceImpl) BookingAnalytics(ctx context.Context, period string) (res dto.BookingAnalyticsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookingAnalytics")
	defer scope.End()
	defer scope.TraceIfError(err)

	var since time.Time
	res.Period, since = normalizePeriod(period)

	res.TotalBookings, err = s.bookingRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return res, s.countErr(err, "bookings")
	}

	res.CompletedBookings, err = s.bookingRepo.Count(ctx, s.statusFilter(bookingModel.StatusCompleted))
	if err != nil {
		return res, s.countErr(err, "completed bookings")
	}

	res.CancelledBookings, err = s.bookingRepo.Count(ctx, s.statusFilter(bookingModel.StatusCancelled))
	if err != nil {
		return res, s.countErr(err, "cancelled bookings")
	}

	res.PeriodBookings, err = s.bookingRepo.Count(ctx, s.createdSinceFilter(bookingModel.TableName, since))
	if err != nil {
		return res, s.countErr(err, "period bookings")
	}

	return res, nil
}

func (s *serviceImpl) UserAnalytics(ctx context.Context, period string) (res dto.UserAnalyticsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UserAnalytics")
	defer scope.End()
	defer scope.TraceIfError(err)

	var since time.Time
	res.Period, since = normalizePeriod(period)

	res.TotalUsers, err = s.userRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return res, s.countErr(err, "users")
	}

	res.TotalCustomers, err = s.userRepo.Count(ctx, s.roleFilter(constant.RoleCustomer))
	if err != nil {
		return res, s.countErr(err, "customers")
	}

	res.TotalProviders, err = s.userRepo.Count(ctx, s.roleFilter(constant.RoleProvider))
	if err != nil {
		return res, s.countErr(err, "providers")
	}

	res.PeriodSignups, err = s.userRepo.Count(ctx, s.createdSinceFilter(userModel.TableName, since))
	if err != nil {
		return res, s.countErr(err, "period signups")
	}

	return res, nil
}

func (s *serviceImpl) getUser(ctx context.Context, userID string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) getProvider(ctx context.Context, providerID string) (provModel.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(providerID, provModel.FieldID, provModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to get provider")

		return provider, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty {
		return provider, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	return provider, nil
}

func (s *serviceImpl) setUserStatus(ctx context.Context, adminID, userID, status string) error {
	updatedFields := map[string]any{
		userModel.FieldStatus:    status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: adminID,
	}

	if err := s.userRepo.Update(ctx, updatedFields, shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to update user status")

		return fmt.Errorf("failed to update user status: %w", err)
	}

	return nil
}

func (s *serviceImpl) userListFilter(req dto.ListUsersRequest) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if req.Role != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    userModel.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    strings.ToUpper(req.Role),
			Table:    userModel.TableName,
		})
	}

	if req.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    userModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    strings.ToUpper(req.Status),
			Table:    userModel.TableName,
		})
	}

	if req.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					Field:    userModel.FieldFullName,
					Operator: gDto.FilterOperatorLike,
					Value:    req.Search,
					Table:    userModel.TableName,
				},
				gDto.Filter{
					Field:    userModel.FieldEmail,
					Operator: gDto.FilterOperatorLike,
					Value:    req.Search,
					Table:    userModel.TableName,
				},
				gDto.Filter{
					Field:    userModel.FieldPhone,
					Operator: gDto.FilterOperatorLike,
					Value:    req.Search,
					Table:    userModel.TableName,
				},
			},
		})
	}

	return filter
}

func (s *serviceImpl) roleFilter(role string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorEq,
				Value:    role,
				Table:    userModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) roleStatusFilter(role, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorEq,
				Value:    role,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    userModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) statusFilter(status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) completedFilter(since *time.Time) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingModel.StatusCompleted,
				Table:    bookingModel.TableName,
			},
		},
	}

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

func (s *serviceImpl) createdSinceFilter(table string, since time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    constant.FieldCreatedAt,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    since,
				Table:    table,
			},
		},
	}
}

func (s *serviceImpl) recentParams() gDto.QueryParams {
	return gDto.QueryParams{
		Page:    1,
		Limit:   recentRowCount,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}
}

func (s *serviceImpl) countErr(err error, what string) error {
	log.Error().Err(err).Msgf("failed to count %s", what)

	return fmt.Errorf("failed to count %s: %w", what, err)
}

// normalizePeriod maps the requested window to its start. Unknown values fall
// back to a month.
func normalizePeriod(period string) (string, time.Time) {
	now := timezone.Now()

	switch strings.ToLower(period) {
	case periodWeek:
		return periodWeek, now.AddDate(0, 0, -7)
	case periodYear:
		return periodYear, now.AddDate(-1, 0, 0)
	default:
		return periodMonth, now.AddDate(0, -1, 0)
	}
}

type bookingRollup struct {
	total              int
	pending            int
	confirmed          int
	inProgress         int
	completed          int
	cancelled          int
	revenue            float64
	bookingsByCategory map[string]int
	revenueByCategory  map[string]float64
}

// rollupBookings folds the booking rows into the dashboard aggregates. Revenue
// only counts completed bookings; category attribution follows the provider's
// primary service.
func rollupBookings(bookings []bookingModel.Booking) bookingRollup {
	rollup := bookingRollup{
		total:              len(bookings),
		bookingsByCategory: map[string]int{},
		revenueByCategory:  map[string]float64{},
	}

	for _, booking := range bookings {
		switch booking.Status {
		case bookingModel.StatusPending:
			rollup.pending++
		case bookingModel.StatusConfirmed:
			rollup.confirmed++
		case bookingModel.StatusInProgress:
			rollup.inProgress++
		case bookingModel.StatusCompleted:
			rollup.completed++
		case bookingModel.StatusCancelled:
			rollup.cancelled++
		}

		label := category.DisplayName(booking.ProviderCategory)
		rollup.bookingsByCategory[label]++

		if booking.Status == bookingModel.StatusCompleted {
			rollup.revenue += booking.Price
			rollup.revenueByCategory[label] = shared.Round2(rollup.revenueByCategory[label] + booking.Price)
		}
	}

	return rollup
}
