package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"quickserve/config"
	"quickserve/infras/otel/mocks"
	pgMocks "quickserve/infras/postgres/mocks"
	"quickserve/internal/domains/admin/model/dto"
	"quickserve/internal/domains/admin/service"
	bookingMocks "quickserve/internal/domains/booking/mocks"
	bookingModel "quickserve/internal/domains/booking/model"
	provMocks "quickserve/internal/domains/provider/mocks"
	provModel "quickserve/internal/domains/provider/model"
	userMocks "quickserve/internal/domains/user/mocks"
	userModel "quickserve/internal/domains/user/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
)

type adminMockSet struct {
	user       *userMocks.MockUser
	provider   *provMocks.MockProvider
	booking    *bookingMocks.MockBooking
	transactor *pgMocks.MockTransactor
}

func newAdminService(ctrl *gomock.Controller) (service.Admin, adminMockSet) {
	m := adminMockSet{
		user:       userMocks.NewMockUser(ctrl),
		provider:   provMocks.NewMockProvider(ctrl),
		booking:    bookingMocks.NewMockBooking(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
	}

	cfg := &config.Config{}

	svc := service.New(m.user, m.provider, m.booking, m.transactor, cfg, mocks.NewOtel())

	return svc, m
}

func (m adminMockSet) runInTx() {
	m.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func recentParams() gDto.QueryParams {
	return gDto.QueryParams{
		Page:    1,
		Limit:   10,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}
}

func TestAdminService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	bookings := []bookingModel.Booking{
		{ID: "booking-1", Status: bookingModel.StatusCompleted, Price: 100, ProviderCategory: "PLUMBING"},
		{ID: "booking-2", Status: bookingModel.StatusCompleted, Price: 50, ProviderCategory: "PLUMBING"},
		{ID: "booking-3", Status: bookingModel.StatusPending, Price: 80, ProviderCategory: "CLEANING"},
		{ID: "booking-4", Status: bookingModel.StatusCancelled, Price: 60, ProviderCategory: "ELECTRICAL"},
	}

	gomock.InOrder(
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(100, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(70, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(25, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(18, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil),
	)

	m.booking.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any()).
		Return(bookings, nil)

	m.booking.EXPECT().
		GetAll(gomock.Any(), recentParams(), gomock.Any()).
		Return(bookings[:2], nil)

	m.user.EXPECT().
		GetAll(gomock.Any(), recentParams(), gomock.Any()).
		Return([]userModel.User{{ID: "user-1", FullName: "Asha Rao", Role: constant.RoleCustomer}}, nil)

	res, err := svc.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 100, res.TotalUsers)
	assert.Equal(t, 70, res.TotalCustomers)
	assert.Equal(t, 25, res.TotalProviders)
	assert.Equal(t, 18, res.ActiveProviders)
	assert.Equal(t, 5, res.PendingProviders)
	assert.Equal(t, 2, res.SuspendedProviders)
	assert.Equal(t, 4, res.TotalBookings)
	assert.Equal(t, 1, res.PendingBookings)
	assert.Equal(t, 2, res.CompletedBookings)
	assert.Equal(t, 1, res.CancelledBookings)
	assert.Equal(t, 150.0, res.TotalRevenue)
	assert.Equal(t, 2, res.BookingsByCategory["Plumbing"])
	assert.Equal(t, 1, res.BookingsByCategory["Cleaning"])
	assert.Equal(t, 150.0, res.RevenueByCategory["Plumbing"])
	assert.NotContains(t, res.RevenueByCategory, "Electrical")
	assert.Len(t, res.RecentBookings, 2)
	assert.Len(t, res.RecentUsers, 1)
	assert.Equal(t, "Asha Rao", res.RecentUsers[0].FullName)
}

func TestAdminService_Dashboard_CountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	m.user.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, errors.New("db down"))

	_, err := svc.Dashboard(context.Background())

	assert.Error(t, err)
}

func TestAdminService_ListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	users := []userModel.User{
		{ID: "user-1", FullName: "Asha Rao", Role: constant.RoleCustomer, Status: constant.AccountStatusActive},
		{ID: "user-2", FullName: "Ravi Shankar", Role: constant.RoleProvider, Status: constant.AccountStatusActive},
	}

	m.user.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	wantParams := gDto.QueryParams{
		Page:    1,
		Limit:   10,
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	m.user.EXPECT().
		GetAll(gomock.Any(), wantParams, gomock.Any()).
		Return(users, nil)

	res, err := svc.ListUsers(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListUsersRequest{Search: "rao"})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Users, 2)
	assert.Equal(t, "Asha Rao", res.Users[0].FullName)
}

func TestAdminService_UpdateUserStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	customer := userModel.User{ID: "user-1", Role: constant.RoleCustomer, Status: constant.AccountStatusActive}
	admin := userModel.User{ID: "user-9", Role: constant.RoleAdmin, Status: constant.AccountStatusActive}

	tests := []struct {
		name      string
		userID    string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "suspends a customer account",
			userID: "user-1",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.user.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.AccountStatusSuspended, fields[userModel.FieldStatus])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:   "admin accounts are immutable",
			userID: "user-9",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(admin, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:   "unknown user",
			userID: "user-404",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.UpdateUserStatus(context.Background(), "admin-1", tt.userID,
				dto.UpdateUserStatusRequest{Status: constant.AccountStatusSuspended})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, constant.AccountStatusSuspended, res.Status)
		})
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	m.user.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(userModel.User{ID: "user-1", Role: constant.RoleCustomer}, nil)

	m.user.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.AccountStatusDeactivated, fields[userModel.FieldStatus])

			return nil
		})

	err := svc.DeleteUser(context.Background(), "admin-1", "user-1")

	assert.NoError(t, err)
}

func TestAdminService_DeleteUser_Admin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	m.user.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(userModel.User{ID: "user-9", Role: constant.RoleAdmin}, nil)

	err := svc.DeleteUser(context.Background(), "admin-1", "user-9")

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestAdminService_VerifyProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	verified := true

	t.Run("verifying a pending provider activates the account", func(t *testing.T) {
		m.provider.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provModel.Provider{
				ID:            "provider-1",
				UserID:        "user-2",
				AccountStatus: constant.AccountStatusPendingVerification,
			}, nil)

		m.runInTx()

		m.provider.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[provModel.FieldIsVerified])

				return nil
			})

		m.user.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, constant.AccountStatusActive, fields[userModel.FieldStatus])

				return nil
			})

		res, err := svc.VerifyProvider(context.Background(), "admin-1", "provider-1",
			dto.VerifyProviderRequest{Verified: &verified})

		assert.NoError(t, err)
		assert.True(t, res.IsVerified)
		assert.Equal(t, constant.AccountStatusActive, res.AccountStatus)
	})

	t.Run("verifying an active provider leaves the account status alone", func(t *testing.T) {
		m.provider.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provModel.Provider{
				ID:            "provider-1",
				UserID:        "user-2",
				AccountStatus: constant.AccountStatusActive,
			}, nil)

		m.runInTx()

		m.provider.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.VerifyProvider(context.Background(), "admin-1", "provider-1",
			dto.VerifyProviderRequest{Verified: &verified})

		assert.NoError(t, err)
		assert.True(t, res.IsVerified)
		assert.Equal(t, constant.AccountStatusActive, res.AccountStatus)
	})

	t.Run("unknown provider", func(t *testing.T) {
		m.provider.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provModel.Provider{}, nil)

		_, err := svc.VerifyProvider(context.Background(), "admin-1", "provider-404",
			dto.VerifyProviderRequest{Verified: &verified})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestAdminService_UpdateProviderStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	m.provider.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(provModel.Provider{ID: "provider-1", UserID: "user-2", AccountStatus: constant.AccountStatusActive}, nil)

	m.user.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.AccountStatusSuspended, fields[userModel.FieldStatus])

			return nil
		})

	res, err := svc.UpdateProviderStatus(context.Background(), "admin-1", "provider-1",
		dto.UpdateProviderStatusRequest{Status: constant.AccountStatusSuspended})

	assert.NoError(t, err)
	assert.Equal(t, constant.AccountStatusSuspended, res.AccountStatus)
}

func TestAdminService_RevenueAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	gomock.InOrder(
		m.booking.EXPECT().SumPrice(gomock.Any(), gomock.Any()).Return(5000.0, nil),
		m.booking.EXPECT().SumPrice(gomock.Any(), gomock.Any()).Return(1200.005, nil),
	)

	res, err := svc.RevenueAnalytics(context.Background(), "week")

	assert.NoError(t, err)
	assert.Equal(t, "week", res.Period)
	assert.Equal(t, 5000.0, res.TotalRevenue)
	assert.Equal(t, 1200.01, res.PeriodRevenue)
}

func TestAdminService_BookingAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	gomock.InOrder(
		m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(40, nil),
		m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(25, nil),
		m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil),
		m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil),
	)

	res, err := svc.BookingAnalytics(context.Background(), "MONTH")

	assert.NoError(t, err)
	assert.Equal(t, "month", res.Period)
	assert.Equal(t, 40, res.TotalBookings)
	assert.Equal(t, 25, res.CompletedBookings)
	assert.Equal(t, 5, res.CancelledBookings)
	assert.Equal(t, 12, res.PeriodBookings)
}

func TestAdminService_UserAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newAdminService(ctrl)

	gomock.InOrder(
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(100, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(70, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(25, nil),
		m.user.EXPECT().Count(gomock.Any(), gomock.Any()).Return(9, nil),
	)

	res, err := svc.UserAnalytics(context.Background(), "quarterly")

	assert.NoError(t, err)
	assert.Equal(t, "month", res.Period)
	assert.Equal(t, 100, res.TotalUsers)
	assert.Equal(t, 70, res.TotalCustomers)
	assert.Equal(t, 25, res.TotalProviders)
	assert.Equal(t, 9, res.PeriodSignups)
}
