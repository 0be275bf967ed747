package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/jwt"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/auth/model/dto"
	"quickserve/internal/domains/category"
	custModel "quickserve/internal/domains/customer/model"
	custRepo "quickserve/internal/domains/customer/repository"
	provModel "quickserve/internal/domains/provider/model"
	provRepo "quickserve/internal/domains/provider/repository"
	userModel "quickserve/internal/domains/user/model"
	userRepo "quickserve/internal/domains/user/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/password"
	"quickserve/shared/timezone"
)

type Auth interface {
	SignupCustomer(ctx context.Context, req dto.CustomerSignupRequest) (dto.AuthResponse, error)
	SignupProvider(ctx context.Context, req dto.ProviderSignupRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.AuthResponse, error)
}

type serviceImpl struct {
	userRepo     userRepo.User
	customerRepo custRepo.Customer
	providerRepo provRepo.Provider
	transactor   postgres.Transactor
	cfg          *config.Config
	otel         otel.Otel
	jwtService   jwt.JWT
}

func New(
	userRepo userRepo.User,
	customerRepo custRepo.Customer,
	providerRepo provRepo.Provider,
	transactor postgres.Transactor,
	cfg *config.Config,
	otel otel.Otel,
	jwt jwt.JWT,
) Auth {
	return &serviceImpl{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		providerRepo: providerRepo,
		transactor:   transactor,
		cfg:          cfg,
		otel:         otel,
		jwtService:   jwt,
	}
}

func (s *serviceImpl) SignupCustomer(ctx context.Context, req dto.CustomerSignupRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SignupCustomer")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.checkUniqueIdentity(ctx, req.Email, req.Phone); err != nil {
		return res, err // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user, customer := req.ToModels(hashedPassword)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.userRepo.InsertTx(ctx, tx, user); txErr != nil {
			return fmt.Errorf("failed to create user: %w", txErr)
		}

		if txErr := s.customerRepo.InsertTx(ctx, tx, customer); txErr != nil {
			return fmt.Errorf("failed to create customer profile: %w", txErr)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register customer")

		return res, fmt.Errorf("failed to register customer: %w", err)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair, user)
	res.User.CustomerID = &customer.ID

	return res, nil
}

func (s *serviceImpl) SignupProvider(ctx context.Context, req dto.ProviderSignupRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SignupProvider")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.checkUniqueIdentity(ctx, req.Email, req.Phone); err != nil {
		return res, err // nolint:wrapcheck
	}

	if !category.IsValid(req.PrimaryService) {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid service category: %s", req.PrimaryService))
	}

	primaryService := category.Canonical(req.PrimaryService)

	// Unknown secondary categories are skipped rather than rejected.
	secondaryServices := make([]string, 0, len(req.SecondaryServices))
	for _, svc := range req.SecondaryServices {
		if category.IsValid(svc) {
			secondaryServices = append(secondaryServices, category.Canonical(svc))
		}
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user, provider := req.ToModels(hashedPassword, primaryService, secondaryServices)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.userRepo.InsertTx(ctx, tx, user); txErr != nil {
			return fmt.Errorf("failed to create user: %w", txErr)
		}

		if txErr := s.providerRepo.InsertTx(ctx, tx, provider); txErr != nil {
			return fmt.Errorf("failed to create provider profile: %w", txErr)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register provider")

		return res, fmt.Errorf("failed to register provider: %w", err)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair, user)
	res.User.ProviderID = &provider.ID

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    userModel.TableName,
			},
		},
	}

	user, err := s.userRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	switch user.Status {
	case constant.AccountStatusSuspended:
		return res, failure.BadRequestFromString("your account has been suspended, please contact support")
	case constant.AccountStatusDeactivated:
		return res, failure.BadRequestFromString("your account has been deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Format(timezone.Now(), constant.DateFormat)}
	updatedFields := shared.TransformFields(lastLogin, user.Email)

	if err := s.userRepo.Update(ctx, updatedFields, emailFilter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.FromTokenPair(tokenPair, user)
	s.attachProfileID(ctx, &res, user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	claims, err := s.jwtService.ValidateToken(tokenPair.AccessToken, jwt.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refreshed token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to get user for refreshed token")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	res.FromTokenPair(tokenPair, user)
	s.attachProfileID(ctx, &res, user)

	return res, nil
}

// checkUniqueIdentity rejects signups reusing an email or phone already on a
// user row.
func (s *serviceImpl) checkUniqueIdentity(ctx context.Context, email, phone string) error {
	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}

	exists, err := s.userRepo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check email uniqueness")

		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	if exists {
		return failure.Conflict("email is already registered")
	}

	phoneFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldPhone,
				Operator: gDto.FilterOperatorEq,
				Value:    phone,
				Table:    userModel.TableName,
			},
		},
	}

	exists, err = s.userRepo.Exist(ctx, phoneFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check phone uniqueness")

		return fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	if exists {
		return failure.Conflict("phone number is already registered")
	}

	return nil
}

// attachProfileID resolves the caller's customer or provider profile id so
// clients don't have to look it up separately. Missing profiles are not fatal.
func (s *serviceImpl) attachProfileID(ctx context.Context, res *dto.AuthResponse, user userModel.User) {
	userFilter := func(table, field string) gDto.FilterGroup {
		return gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    field,
					Operator: gDto.FilterOperatorEq,
					Value:    user.ID,
					Table:    table,
				},
			},
		}
	}

	switch user.Role {
	case constant.RoleCustomer:
		customer, err := s.customerRepo.Get(ctx, userFilter(custModel.TableName, custModel.FieldUserID))
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to resolve customer profile")

			return
		}

		res.User.CustomerID = &customer.ID
	case constant.RoleProvider:
		provider, err := s.providerRepo.Get(ctx, userFilter(provModel.TableName, provModel.FieldUserID))
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to resolve provider profile")

			return
		}

		res.User.ProviderID = &provider.ID
	}
}
