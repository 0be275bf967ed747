package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"quickserve/config"
	"quickserve/infras/kafka"
	kafkaMocks "quickserve/infras/kafka/mocks"
	"quickserve/infras/otel/mocks"
	pgMocks "quickserve/infras/postgres/mocks"
	addrMocks "quickserve/internal/domains/address/mocks"
	addrModel "quickserve/internal/domains/address/model"
	ledgerMocks "quickserve/internal/domains/booking/ledger/mocks"
	bookingMocks "quickserve/internal/domains/booking/mocks"
	"quickserve/internal/domains/booking/model"
	"quickserve/internal/domains/booking/model/dto"
	"quickserve/internal/domains/booking/service"
	custMocks "quickserve/internal/domains/customer/mocks"
	custModel "quickserve/internal/domains/customer/model"
	offMocks "quickserve/internal/domains/offering/mocks"
	offModel "quickserve/internal/domains/offering/model"
	provMocks "quickserve/internal/domains/provider/mocks"
	provModel "quickserve/internal/domains/provider/model"
	cacheMocks "quickserve/shared/cache/mocks"
	"quickserve/shared/failure"
)

type bookingMockSet struct {
	repo       *bookingMocks.MockBooking
	customer   *custMocks.MockCustomer
	provider   *provMocks.MockProvider
	offering   *offMocks.MockOffering
	address    *addrMocks.MockSavedAddress
	ledger     *ledgerMocks.MockLedger
	transactor *pgMocks.MockTransactor
	kafka      *kafkaMocks.MockClient
	cache      *cacheMocks.MockRedisCache
}

func newBookingService(ctrl *gomock.Controller) (service.Booking, bookingMockSet) {
	m := bookingMockSet{
		repo:       bookingMocks.NewMockBooking(ctrl),
		customer:   custMocks.NewMockCustomer(ctrl),
		provider:   provMocks.NewMockProvider(ctrl),
		offering:   offMocks.NewMockOffering(ctrl),
		address:    addrMocks.NewMockSavedAddress(ctrl),
		ledger:     ledgerMocks.NewMockLedger(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.BookingTopic = "quickserve.bookings"

	svc := service.New(
		m.repo, m.customer, m.provider, m.offering, m.address,
		m.ledger, m.transactor, m.kafka, m.cache, cfg, mocks.NewOtel(),
	)

	return svc, m
}

// allowAsync expects the post-commit event publish and cache invalidation
// goroutines and returns a wait function that blocks until both have run.
func (m bookingMockSet) allowAsync() func() {
	published := make(chan struct{})
	invalidated := make(chan struct{})

	m.kafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, ...kafka.Message) error {
			close(published)

			return nil
		})

	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil)

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil)

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			close(invalidated)

			return nil
		})

	return func() {
		<-published
		<-invalidated
	}
}

func (m bookingMockSet) runInTx() {
	m.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func stringPtr(s string) *string {
	return &s
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	customer := custModel.Customer{ID: "customer-1", UserID: "user-1"}
	provider := provModel.Provider{ID: "provider-1", UserID: "user-2", IsAvailable: true}
	offering := offModel.Offering{ID: "service-1", ProviderID: "provider-1", Price: 50.00, Active: true}

	validReq := dto.CreateBookingRequest{
		ProviderID:  "provider-1",
		ServiceID:   "service-1",
		BookingDate: "2026-09-15",
		BookingTime: "10:30",
		Address:     stringPtr("12 MG Road, Bengaluru"),
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func() func()
		wantErr   bool
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "successful creation snapshots price and starts pending",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				m.offering.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(offering, nil)

				m.runInTx()

				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, 50.00, booking.Price)

						return nil
					})

				m.ledger.EXPECT().
					BookingCreated(gomock.Any(), gomock.Any(), customer.ID).
					Return(nil)

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, 50.00, res.Price)
				assert.Equal(t, "2026-09-15", res.BookingDate)
			},
		},
		{
			name: "saved address resolves to formatted snapshot",
			req: dto.CreateBookingRequest{
				ProviderID:     "provider-1",
				ServiceID:      "service-1",
				BookingDate:    "2026-09-15",
				BookingTime:    "10:30",
				SavedAddressID: stringPtr("address-1"),
			},
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				m.offering.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(offering, nil)

				m.address.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(addrModel.SavedAddress{
						ID:         "address-1",
						CustomerID: "customer-1",
						Address:    "12 MG Road",
						City:       "Bengaluru",
						State:      "Karnataka",
						Pincode:    "560001",
					}, nil)

				m.runInTx()

				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.ledger.EXPECT().
					BookingCreated(gomock.Any(), gomock.Any(), customer.ID).
					Return(nil)

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, "12 MG Road, Bengaluru, Karnataka - 560001", res.Address)
			},
		},
		{
			name: "unavailable provider",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				unavailable := provider
				unavailable.IsAvailable = false

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unavailable, nil)

				return nil
			},
			wantErr: true,
		},
		{
			name: "inactive service",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				inactive := offering
				inactive.Active = false

				m.offering.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactive, nil)

				return nil
			},
			wantErr: true,
		},
		{
			name: "service belongs to another provider",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				foreign := offering
				foreign.ProviderID = "provider-2"

				m.offering.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)

				return nil
			},
			wantErr: true,
		},
		{
			name: "provider not found",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provModel.Provider{}, nil)

				return nil
			},
			wantErr: true,
		},
		{
			name: "transaction error",
			req:  validReq,
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				m.offering.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(offering, nil)

				m.transactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("insert failed"))

				return nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait := tt.setupMock()

			ctx := context.Background()
			result, err := svc.Create(ctx, "user-1", tt.req)

			if wait != nil {
				wait()
			}

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, result)
				}
			}
		})
	}
}

func TestBookingService_CancelByCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	customer := custModel.Customer{ID: "customer-1", UserID: "user-1"}

	pendingBooking := model.Booking{
		ID:         "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		Status:     model.StatusPending,
	}

	tests := []struct {
		name      string
		req       dto.CancelBookingRequest
		setupMock func() func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "cancel without reason uses the default",
			req:  dto.CancelBookingRequest{},
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingBooking, nil)

				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
						assert.Equal(t, "Cancelled by customer", fields[model.FieldCancellationReason])
						assert.NotNil(t, fields[model.FieldCancelledAt])

						return nil
					})

				m.ledger.EXPECT().
					BookingCancelledByCustomer(gomock.Any(), gomock.Any(), customer.ID).
					Return(nil)

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusCancelled, res.Status)
				assert.NotNil(t, res.CancelledAt)
			},
		},
		{
			name: "completed booking cannot be cancelled",
			req:  dto.CancelBookingRequest{},
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				completed := pendingBooking
				completed.Status = model.StatusCompleted

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(completed, nil)

				return nil
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "foreign booking is rejected",
			req:  dto.CancelBookingRequest{},
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				foreign := pendingBooking
				foreign.CustomerID = "customer-2"

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)

				return nil
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "booking not found",
			req:  dto.CancelBookingRequest{},
			setupMock: func() func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				return nil
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait := tt.setupMock()

			ctx := context.Background()
			result, err := svc.CancelByCustomer(ctx, "user-1", "booking-1", tt.req)

			if wait != nil {
				wait()
			}

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, result)
				}
			}
		})
	}
}

func TestBookingService_UpdateStatusByProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	provider := provModel.Provider{ID: "provider-1", UserID: "user-2"}

	tests := []struct {
		name      string
		current   string
		target    string
		reason    *string
		setupMock func(booking model.Booking) func()
		wantErr   bool
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name:    "pending to confirmed stamps confirmed_at",
			current: model.StatusPending,
			target:  "CONFIRMED",
			setupMock: func(booking model.Booking) func() {
				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
						assert.NotNil(t, fields[model.FieldConfirmedAt])
						assert.Nil(t, fields[model.FieldCompletedAt])

						return nil
					})

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusConfirmed, res.Status)
				assert.NotNil(t, res.ConfirmedAt)
			},
		},
		{
			name:    "in progress to completed feeds both counters",
			current: model.StatusInProgress,
			target:  "COMPLETED",
			setupMock: func(booking model.Booking) func() {
				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.ledger.EXPECT().
					BookingCompleted(gomock.Any(), gomock.Any(), booking.CustomerID, booking.ProviderID).
					Return(nil)

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusCompleted, res.Status)
				assert.NotNil(t, res.CompletedAt)
			},
		},
		{
			name:    "cancellation without reason stores the provider default",
			current: model.StatusPending,
			target:  "CANCELLED",
			setupMock: func(booking model.Booking) func() {
				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
						assert.Equal(t, "Cancelled by provider", fields[model.FieldCancellationReason])
						assert.NotNil(t, fields[model.FieldCancelledAt])

						return nil
					})

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				if assert.NotNil(t, res.CancellationReason) {
					assert.Equal(t, "Cancelled by provider", *res.CancellationReason)
				}
			},
		},
		{
			name:    "explicit cancellation reason wins over the default",
			current: model.StatusConfirmed,
			target:  "CANCELLED",
			reason:  stringPtr("customer unreachable"),
			setupMock: func(booking model.Booking) func() {
				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
						assert.Equal(t, "customer unreachable", fields[model.FieldCancellationReason])

						return nil
					})

				return m.allowAsync()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				if assert.NotNil(t, res.CancellationReason) {
					assert.Equal(t, "customer unreachable", *res.CancellationReason)
				}
			},
		},
		{
			name:      "pending straight to completed is rejected",
			current:   model.StatusPending,
			target:    "COMPLETED",
			setupMock: func(model.Booking) func() { return nil },
			wantErr:   true,
		},
		{
			name:      "terminal state rejects every transition",
			current:   model.StatusCancelled,
			target:    "CONFIRMED",
			setupMock: func(model.Booking) func() { return nil },
			wantErr:   true,
		},
		{
			name:      "unknown status is rejected",
			current:   model.StatusPending,
			target:    "SHIPPED",
			setupMock: func(model.Booking) func() { return nil },
			wantErr:   true,
		},
		{
			name:    "lowercase target is canonicalised",
			current: model.StatusPending,
			target:  "confirmed",
			setupMock: func(booking model.Booking) func() {
				m.runInTx()

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				return m.allowAsync()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{
				ID:         "booking-1",
				CustomerID: "customer-1",
				ProviderID: "provider-1",
				Status:     tt.current,
			}

			m.provider.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(provider, nil)

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(booking, nil)

			wait := tt.setupMock(booking)

			ctx := context.Background()
			result, err := svc.UpdateStatusByProvider(ctx, "user-2", "booking-1", dto.UpdateStatusRequest{Status: tt.target, CancellationReason: tt.reason})

			if wait != nil {
				wait()
			}

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, result)
				}
			}
		})
	}
}

func TestBookingService_UpdateStatusByAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	booking := model.Booking{
		ID:         "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		Status:     model.StatusConfirmed,
	}

	t.Run("admin cancellation leaves customer counters untouched", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.runInTx()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
				assert.Equal(t, "Cancelled by admin", fields[model.FieldCancellationReason])

				return nil
			})

		// No ledger expectation: the admin path must not touch the
		// customer's cancelled counter.
		wait := m.allowAsync()

		ctx := context.Background()
		result, err := svc.UpdateStatusByAdmin(ctx, "admin-1", "booking-1", dto.UpdateStatusRequest{Status: "CANCELLED"})

		wait()

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, result.Status)

		if assert.NotNil(t, result.CancellationReason) {
			assert.Equal(t, "Cancelled by admin", *result.CancellationReason)
		}
	})

	t.Run("admin completion still feeds provider and customer counters", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.runInTx()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.ledger.EXPECT().
			BookingCompleted(gomock.Any(), gomock.Any(), booking.CustomerID, booking.ProviderID).
			Return(nil)

		wait := m.allowAsync()

		ctx := context.Background()
		result, err := svc.UpdateStatusByAdmin(ctx, "admin-1", "booking-1", dto.UpdateStatusRequest{Status: "COMPLETED"})

		wait()

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, result.Status)
	})
}
