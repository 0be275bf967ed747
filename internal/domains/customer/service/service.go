package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/customer/model"
	"quickserve/internal/domains/customer/model/dto"
	"quickserve/internal/domains/customer/repository"
	userModel "quickserve/internal/domains/user/model"
	userRepo "quickserve/internal/domains/user/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
)

type Customer interface {
	GetProfile(ctx context.Context, userID string) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (dto.ProfileResponse, error)
}

type serviceImpl struct {
	repo       repository.Customer
	userRepo   userRepo.User
	transactor postgres.Transactor
	cfg        *config.Config
	otel       otel.Otel
}

func New(repo repository.Customer, userRepo userRepo.User, transactor postgres.Transactor, cfg *config.Config, otel otel.Otel) Customer {
	return &serviceImpl{
		repo:       repo,
		userRepo:   userRepo,
		transactor: transactor,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) GetProfile(ctx context.Context, userID string) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.getByUserID(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(customer)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := s.getByUserID(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if req.Phone != nil && *req.Phone != customer.Phone {
		taken, err := s.userRepo.Exist(ctx, gDto.FilterGroup{
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

		if taken {
			return res, failure.Conflict("phone number is already in use") // nolint:wrapcheck
		}
	}

	userFields, customerFields := req.Split()
	updatedUserFields := shared.TransformFields(userFields, userID)
	updatedCustomerFields := shared.TransformFields(customerFields, userID)

	err = s.transactor.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.userRepo.UpdateTx(ctx, tx, updatedUserFields,
			shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); txErr != nil {
			return fmt.Errorf("failed to update user fields: %w", txErr)
		}

		if txErr := s.repo.UpdateTx(ctx, tx, updatedCustomerFields,
			shared.FilterByID(customer.ID, model.FieldID, model.TableName)); txErr != nil {
			return fmt.Errorf("failed to update customer fields: %w", txErr)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("customerID", customer.ID).Msg("failed to update customer profile")

		return res, fmt.Errorf("failed to update customer profile: %w", err)
	}

	updated, err := s.getByUserID(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) getByUserID(ctx context.Context, userID string) (model.Customer, error) {
	customer, err := s.repo.Get(ctx, gDto.FilterGroup{
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
		log.Error().Err(err).Str("userID", userID).Msg("failed to get customer profile")

		return customer, fmt.Errorf("failed to get customer profile: %w", err)
	}

	if customer.ID == constant.Empty {
		return customer, failure.NotFound("customer profile not found") // nolint:wrapcheck
	}

	return customer, nil
}
