package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/internal/domains/address/model"
	"quickserve/internal/domains/address/model/dto"
	"quickserve/internal/domains/address/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
)

type SavedAddress interface {
	List(ctx context.Context, customerID string) (dto.SavedAddressesResponse, error)
	Create(ctx context.Context, customerID string, req dto.SavedAddressRequest) (dto.SavedAddressResponse, error)
	Update(ctx context.Context, customerID, addressID string, req dto.UpdateSavedAddressRequest) (dto.SavedAddressResponse, error)
	Delete(ctx context.Context, customerID, addressID string) error
	SetDefault(ctx context.Context, customerID, addressID string) error
}

type serviceImpl struct {
	repo repository.SavedAddress
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.SavedAddress, cfg *config.Config, otel otel.Otel) SavedAddress {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) List(ctx context.Context, customerID string) (res dto.SavedAddressesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAddresses")
	defer scope.End()
	defer scope.TraceIfError(err)

	addresses, err := s.listByCustomer(ctx, customerID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModels(addresses)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, customerID string, req dto.SavedAddressRequest) (res dto.SavedAddressResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateAddress")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err := s.repo.Count(ctx, s.customerFilter(customerID))
	if err != nil {
		log.Error().Err(err).Msg("failed to count saved addresses")

		return res, fmt.Errorf("failed to count saved addresses: %w", err)
	}

	// The first address always becomes the default.
	isDefault := count == 0 || req.IsDefault

	if req.IsDefault && count > 0 {
		if err = s.unsetDefault(ctx, customerID); err != nil {
			return res, err // nolint:wrapcheck
		}
	}

	address := req.ToModel(customerID, isDefault)

	if err = s.repo.Insert(ctx, address); err != nil {
		log.Error().Err(err).Msg("failed to create saved address")

		return res, fmt.Errorf("failed to create saved address: %w", err)
	}

	res.FromModel(address)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, customerID, addressID string, req dto.UpdateSavedAddressRequest) (res dto.SavedAddressResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateAddress")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := s.ownedFilter(customerID, addressID)

	address, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get saved address")

		return res, fmt.Errorf("failed to get saved address: %w", err)
	}

	if address.ID == constant.Empty {
		return res, failure.NotFound("address not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req.ToFields(), customerID)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update saved address")

		return res, fmt.Errorf("failed to update saved address: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload saved address")

		return res, fmt.Errorf("failed to reload saved address: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, customerID, addressID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAddress")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := s.ownedFilter(customerID, addressID)

	address, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get saved address")

		return fmt.Errorf("failed to get saved address: %w", err)
	}

	if address.ID == constant.Empty {
		return failure.NotFound("address not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete saved address")

		return fmt.Errorf("failed to delete saved address: %w", err)
	}

	// Deleting the default promotes the most recent remaining address.
	if address.IsDefault {
		remaining, err := s.listByCustomer(ctx, customerID)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if len(remaining) > 0 {
			promoted := shared.TransformFields(struct {
				IsDefault bool `db:"is_default"`
			}{IsDefault: true}, customerID)

			if err = s.repo.Update(ctx, promoted, s.ownedFilter(customerID, remaining[0].ID)); err != nil {
				log.Error().Err(err).Msg("failed to promote replacement default address")

				return fmt.Errorf("failed to promote replacement default address: %w", err)
			}
		}
	}

	return nil
}

func (s *serviceImpl) SetDefault(ctx context.Context, customerID, addressID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetDefaultAddress")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := s.ownedFilter(customerID, addressID)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check saved address existence")

		return fmt.Errorf("failed to check saved address existence: %w", err)
	}

	if !exist {
		return failure.NotFound("address not found") // nolint:wrapcheck
	}

	if err = s.unsetDefault(ctx, customerID); err != nil {
		return err // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct {
		IsDefault bool `db:"is_default"`
	}{IsDefault: true}, customerID)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to set default address")

		return fmt.Errorf("failed to set default address: %w", err)
	}

	return nil
}

func (s *serviceImpl) listByCustomer(ctx context.Context, customerID string) ([]model.SavedAddress, error) {
	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	addresses, err := s.repo.GetAll(ctx, params, s.customerFilter(customerID))
	if err != nil {
		log.Error().Err(err).Msg("failed to list saved addresses")

		return nil, fmt.Errorf("failed to list saved addresses: %w", err)
	}

	// Default first, then newest first.
	sort.SliceStable(addresses, func(i, j int) bool {
		return addresses[i].IsDefault && !addresses[j].IsDefault
	})

	return addresses, nil
}

func (s *serviceImpl) unsetDefault(ctx context.Context, customerID string) error {
	updatedFields := shared.TransformFields(struct {
		IsDefault bool `db:"is_default"`
	}{}, customerID)
	updatedFields[model.FieldIsDefault] = false

	defaultFilter := s.customerFilter(customerID)
	defaultFilter.Filters = append(defaultFilter.Filters, gDto.Filter{
		Field:    model.FieldIsDefault,
		Operator: gDto.FilterOperatorEq,
		Value:    true,
		Table:    model.TableName,
	})

	if err := s.repo.Update(ctx, updatedFields, defaultFilter); err != nil {
		log.Error().Err(err).Msg("failed to unset default address")

		return fmt.Errorf("failed to unset default address: %w", err)
	}

	return nil
}

func (s *serviceImpl) customerFilter(customerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCustomerID,
				Operator: gDto.FilterOperatorEq,
				Value:    customerID,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) ownedFilter(customerID, addressID string) gDto.FilterGroup {
	filter := s.customerFilter(customerID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldID,
		Operator: gDto.FilterOperatorEq,
		Value:    addressID,
		Table:    model.TableName,
	})

	return filter
}
