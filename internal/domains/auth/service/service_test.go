package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"quickserve/config"
	"quickserve/infras/jwt"
	jwtMocks "quickserve/infras/jwt/mocks"
	"quickserve/infras/otel/mocks"
	pgMocks "quickserve/infras/postgres/mocks"
	"quickserve/internal/domains/auth/model/dto"
	"quickserve/internal/domains/auth/service"
	custMocks "quickserve/internal/domains/customer/mocks"
	custModel "quickserve/internal/domains/customer/model"
	provMocks "quickserve/internal/domains/provider/mocks"
	provModel "quickserve/internal/domains/provider/model"
	userMocks "quickserve/internal/domains/user/mocks"
	userModel "quickserve/internal/domains/user/model"
	"quickserve/shared/constant"
	"quickserve/shared/failure"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

func TestAuthService_SignupCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCustomerRepo := custMocks.NewMockCustomer(ctrl)
	mockProviderRepo := provMocks.NewMockProvider(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, mockCustomerRepo, mockProviderRepo, mockTransactor, cfg, mockOtel, mockJWT)

	validReq := dto.CustomerSignupRequest{
		FullName: "Test Customer",
		Email:    "customer@example.com",
		Phone:    "9876543210",
		Password: "password123",
	}

	tests := []struct {
		name      string
		req       dto.CustomerSignupRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful signup",
			req:  validReq,
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil).
					Times(2)

				mockTransactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockUserRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCustomerRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validReq.Email, constant.RoleCustomer).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			req:  validReq,
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "duplicate phone",
			req:  validReq,
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "transaction error",
			req:  validReq,
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil).
					Times(2)

				mockTransactor.EXPECT().
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
			result, err := svc.SignupCustomer(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.Equal(t, constant.RoleCustomer, result.User.Role)
				assert.NotNil(t, result.User.CustomerID)
			}
		})
	}
}

func TestAuthService_SignupProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCustomerRepo := custMocks.NewMockCustomer(ctrl)
	mockProviderRepo := provMocks.NewMockProvider(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, mockCustomerRepo, mockProviderRepo, mockTransactor, cfg, mockOtel, mockJWT)

	validReq := dto.ProviderSignupRequest{
		FullName:          "Test Provider",
		Email:             "provider@example.com",
		Phone:             "9876543211",
		Password:          "password123",
		PrimaryService:    "plumbing",
		SecondaryServices: []string{"Electrical", "not-a-category"},
		ExperienceYears:   5,
	}

	tests := []struct {
		name      string
		req       dto.ProviderSignupRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful signup with canonicalised categories",
			req:  validReq,
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil).
					Times(2)

				mockTransactor.EXPECT().
					WithinTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockUserRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, user userModel.User) error {
						assert.Equal(t, constant.AccountStatusPendingVerification, user.Status)

						return nil
					})

				mockProviderRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validReq.Email, constant.RoleProvider).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)
			},
			wantErr: false,
		},
		{
			name: "invalid primary service",
			req: dto.ProviderSignupRequest{
				FullName:       "Test Provider",
				Email:          "provider@example.com",
				Phone:          "9876543211",
				Password:       "password123",
				PrimaryService: "astrology",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil).
					Times(2)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.SignupProvider(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.Equal(t, constant.RoleProvider, result.User.Role)
				assert.NotNil(t, result.User.ProviderID)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCustomerRepo := custMocks.NewMockCustomer(ctrl)
	mockProviderRepo := provMocks.NewMockProvider(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, mockCustomerRepo, mockProviderRepo, mockTransactor, cfg, mockOtel, mockJWT)

	validUser := userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi", // "password" hashed
		Phone:    "9876543210",
		Role:     constant.RoleCustomer,
		Status:   constant.AccountStatusActive,
		FullName: "Test User",
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCustomerRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(custModel.Customer{ID: "customer-id-123", UserID: validUser.ID}, nil)
			},
			wantErr: false,
		},
		{
			name: "user not found",
			req: dto.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, errors.New("user not found"))
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)
			},
			wantErr: true,
		},
		{
			name: "suspended account",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				suspendedUser := validUser
				suspendedUser.Status = constant.AccountStatusSuspended

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(suspendedUser, nil)
			},
			wantErr: true,
		},
		{
			name: "deactivated account",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				deactivatedUser := validUser
				deactivatedUser.Status = constant.AccountStatusDeactivated

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(deactivatedUser, nil)
			},
			wantErr: true,
		},
		{
			name: "token generation error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(validUser.ID, validUser.Email, validUser.Role).
					Return(nil, errors.New("token generation failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.Login(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.NotNil(t, result.User.CustomerID)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCustomerRepo := custMocks.NewMockCustomer(ctrl)
	mockProviderRepo := provMocks.NewMockProvider(ctrl)
	mockTransactor := pgMocks.NewMockTransactor(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, mockCustomerRepo, mockProviderRepo, mockTransactor, cfg, mockOtel, mockJWT)

	validUser := userModel.User{
		ID:     "user-id-123",
		Email:  "test@example.com",
		Role:   constant.RoleProvider,
		Status: constant.AccountStatusActive,
	}

	tests := []struct {
		name      string
		req       dto.RefreshTokenRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful token refresh",
			req: dto.RefreshTokenRequest{
				RefreshToken: "valid-refresh-token",
			},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{
						AccessToken:  "new-access-token",
						RefreshToken: "new-refresh-token",
					}, nil)

				mockJWT.EXPECT().
					ValidateToken("new-access-token", jwt.AccessToken).
					Return(&jwt.Claims{UserID: validUser.ID}, nil)

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(validUser, nil)

				mockProviderRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(provModel.Provider{ID: "provider-id-123", UserID: validUser.ID}, nil)
			},
			wantErr: false,
		},
		{
			name: "invalid refresh token",
			req: dto.RefreshTokenRequest{
				RefreshToken: "invalid-refresh-token",
			},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens("invalid-refresh-token").
					Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.RefreshToken(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}
		})
	}
}
