package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"quickserve/config"
	"quickserve/infras/otel/mocks"
	pgMocks "quickserve/infras/postgres/mocks"
	bookingMocks "quickserve/internal/domains/booking/mocks"
	bookingModel "quickserve/internal/domains/booking/model"
	custMocks "quickserve/internal/domains/customer/mocks"
	custModel "quickserve/internal/domains/customer/model"
	provMocks "quickserve/internal/domains/provider/mocks"
	provModel "quickserve/internal/domains/provider/model"
	reviewMocks "quickserve/internal/domains/review/mocks"
	"quickserve/internal/domains/review/model"
	"quickserve/internal/domains/review/model/dto"
	"quickserve/internal/domains/review/repository"
	"quickserve/internal/domains/review/service"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
)

type reviewMockSet struct {
	repo       *reviewMocks.MockReview
	booking    *bookingMocks.MockBooking
	customer   *custMocks.MockCustomer
	provider   *provMocks.MockProvider
	transactor *pgMocks.MockTransactor
}

func newReviewService(ctrl *gomock.Controller) (service.Review, reviewMockSet) {
	m := reviewMockSet{
		repo:       reviewMocks.NewMockReview(ctrl),
		booking:    bookingMocks.NewMockBooking(ctrl),
		customer:   custMocks.NewMockCustomer(ctrl),
		provider:   provMocks.NewMockProvider(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
	}

	cfg := &config.Config{}

	svc := service.New(m.repo, m.booking, m.customer, m.provider, m.transactor, cfg, mocks.NewOtel())

	return svc, m
}

func (m reviewMockSet) runInTx() {
	m.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func stringPtr(s string) *string {
	return &s
}

func TestReviewService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReviewService(ctrl)

	customer := custModel.Customer{ID: "customer-1", UserID: "user-1"}

	completedBooking := bookingModel.Booking{
		ID:         "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		Status:     bookingModel.StatusCompleted,
	}

	req := dto.SubmitReviewRequest{
		BookingID: "booking-1",
		Rating:    4,
		Comment:   stringPtr("quick and tidy work"),
	}

	tests := []struct {
		name      string
		req       dto.SubmitReviewRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.ReviewResponse)
	}{
		{
			name: "submit recomputes the provider aggregate in the same transaction",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(completedBooking, nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.runInTx()

				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, review model.Review) error {
						assert.Equal(t, 4, review.Rating)
						assert.Equal(t, "provider-1", review.ProviderID)

						return nil
					})

				m.repo.EXPECT().
					RatingSummaryTx(gomock.Any(), gomock.Any(), "provider-1").
					Return(repository.RatingSummary{Average: 4.333333, Count: 3}, nil)

				m.provider.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
						assert.Equal(t, 4.33, fields[provModel.FieldAverageRating])
						assert.Equal(t, 3, fields[provModel.FieldTotalReviews])

						return nil
					})
			},
			wantErr: false,
			check: func(t *testing.T, res dto.ReviewResponse) {
				assert.Equal(t, 4, res.Rating)
				assert.Equal(t, "booking-1", res.BookingID)
			},
		},
		{
			name: "pending booking cannot be reviewed",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				pending := completedBooking
				pending.Status = bookingModel.StatusPending

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "double review is rejected",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(completedBooking, nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "foreign booking is rejected",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				foreign := completedBooking
				foreign.CustomerID = "customer-2"

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "booking not found",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "transaction error",
			req:  req,
			setupMock: func() {
				m.customer.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(customer, nil)

				m.booking.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(completedBooking, nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.transactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("insert failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.Submit(ctx, "user-1", tt.req)

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

func TestReviewService_Respond(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReviewService(ctrl)

	provider := provModel.Provider{ID: "provider-1", UserID: "user-2"}

	review := model.Review{
		ID:         "review-1",
		BookingID:  "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		Rating:     5,
	}

	req := dto.RespondReviewRequest{Response: "thank you for the kind words"}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful response",
			setupMock: func() {
				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(review, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
						assert.Equal(t, req.Response, fields[model.FieldProviderResponse])
						assert.NotNil(t, fields[model.FieldProviderRespondedAt])

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "second response is rejected",
			setupMock: func() {
				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				answered := review
				answered.ProviderResponse = stringPtr("already answered")
				answered.ProviderRespondedAt = timePtr(time.Now())

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(answered, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "foreign review is rejected",
			setupMock: func() {
				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				foreign := review
				foreign.ProviderID = "provider-2"

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(foreign, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "review not found",
			setupMock: func() {
				m.provider.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provider, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Review{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.Respond(ctx, "user-2", "review-1", req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, req.Response, *result.ProviderResponse)
				assert.NotNil(t, result.ProviderRespondedAt)
			}
		})
	}
}

func TestReviewService_ListForProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReviewService(ctrl)

	provider := provModel.Provider{ID: "provider-1", UserID: "user-2"}

	t.Run("lists reviews newest first", func(t *testing.T) {
		m.provider.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Review{
				{ID: "review-2", ProviderID: "provider-1", Rating: 5},
				{ID: "review-1", ProviderID: "provider-1", Rating: 3},
			}, nil)

		ctx := context.Background()
		result, err := svc.ListForProvider(ctx, "provider-1", gDtoParams())

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Len(t, result.Reviews, 2)
	})

	t.Run("unknown provider", func(t *testing.T) {
		m.provider.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provModel.Provider{}, nil)

		ctx := context.Background()
		_, err := svc.ListForProvider(ctx, "provider-404", gDtoParams())

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func gDtoParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10}
}
