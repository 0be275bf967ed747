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
	custMocks "quickserve/internal/domains/customer/mocks"
	"quickserve/internal/domains/customer/model"
	"quickserve/internal/domains/customer/model/dto"
	"quickserve/internal/domains/customer/service"
	userMocks "quickserve/internal/domains/user/mocks"
	"quickserve/shared/failure"
)

func stringPtr(s string) *string {
	return &s
}

func TestCustomerService_GetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := custMocks.NewMockCustomer(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockUserRepo, mockTransactor, cfg, mockOtel)

	validCustomer := model.Customer{
		ID:            "customer-id-123",
		UserID:        "user-id-123",
		FullName:      "Test Customer",
		Email:         "customer@example.com",
		Phone:         "9876543210",
		TotalBookings: 3,
	}

	tests := []struct {
		name      string
		userID    string
		setupMock func()
		wantErr   bool
	}{
		{
			name:   "successful profile fetch",
			userID: "user-id-123",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)
			},
			wantErr: false,
		},
		{
			name:   "profile not found",
			userID: "missing-user",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Customer{}, nil)
			},
			wantErr: true,
		},
		{
			name:   "repository error",
			userID: "user-id-123",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Customer{}, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.GetProfile(ctx, tt.userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, validCustomer.ID, result.ID)
				assert.Equal(t, validCustomer.TotalBookings, result.TotalBookings)
			}
		})
	}
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := custMocks.NewMockCustomer(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockUserRepo, mockTransactor, cfg, mockOtel)

	validCustomer := model.Customer{
		ID:       "customer-id-123",
		UserID:   "user-id-123",
		FullName: "Test Customer",
		Email:    "customer@example.com",
		Phone:    "9876543210",
	}

	tests := []struct {
		name      string
		req       dto.UpdateProfileRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			req: dto.UpdateProfileRequest{
				FullName: stringPtr("Renamed Customer"),
				City:     stringPtr("Pune"),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)

				mockTransactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockUserRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)
			},
			wantErr: false,
		},
		{
			name: "phone already in use",
			req: dto.UpdateProfileRequest{
				Phone: stringPtr("1112223334"),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)

				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "unchanged phone skips uniqueness check",
			req: dto.UpdateProfileRequest{
				Phone: stringPtr("9876543210"),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)

				mockTransactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockUserRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)
			},
			wantErr: false,
		},
		{
			name: "transaction error",
			req: dto.UpdateProfileRequest{
				FullName: stringPtr("Renamed Customer"),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validCustomer, nil)

				mockTransactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("update failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			_, err := svc.UpdateProfile(ctx, "user-id-123", tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
