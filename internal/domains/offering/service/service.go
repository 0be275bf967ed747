package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"quickserve/config"
	"quickserve/infras/otel"
	"quickserve/internal/domains/offering/model"
	"quickserve/internal/domains/offering/model/dto"
	"quickserve/internal/domains/offering/repository"
	provModel "quickserve/internal/domains/provider/model"
	provRepo "quickserve/internal/domains/provider/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/failure"
	"quickserve/shared/timezone"
)

type Offering interface {
	List(ctx context.Context, userID string) (dto.OfferingsResponse, error)
	Create(ctx context.Context, userID string, req dto.CreateOfferingRequest) (dto.OfferingResponse, error)
	Update(ctx context.Context, userID, offeringID string, req dto.UpdateOfferingRequest) (dto.OfferingResponse, error)
	Delete(ctx context.Context, userID, offeringID string) error
	ToggleActive(ctx context.Context, userID, offeringID string) (dto.OfferingResponse, error)
}

type serviceImpl struct {
	repo         repository.Offering
	providerRepo provRepo.Provider
	cfg          *config.Config
	otel         otel.Otel
}

func New(repo repository.Offering, providerRepo provRepo.Provider, cfg *config.Config, otel otel.Otel) Offering {
	return &serviceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) List(ctx context.Context, userID string) (res dto.OfferingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOfferings")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	offerings, err := s.repo.GetAll(ctx, params, s.providerFilter(provider.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to list offerings")

		return res, fmt.Errorf("failed to list offerings: %w", err)
	}

	res.FromModels(offerings)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, userID string, req dto.CreateOfferingRequest) (res dto.OfferingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateOffering")
	defer scope.End()
	defer scope.TraceIfError(err)

	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	offering := req.ToModel(provider.ID)

	if err = s.repo.Insert(ctx, offering); err != nil {
		log.Error().Err(err).Str("providerID", provider.ID).Msg("failed to create offering")

		return res, fmt.Errorf("failed to create offering: %w", err)
	}

	res.FromModel(offering)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, userID, offeringID string, req dto.UpdateOfferingRequest) (res dto.OfferingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateOffering")
	defer scope.End()
	defer scope.TraceIfError(err)

	offering, err := s.getOwnedOffering(ctx, userID, offeringID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req.ToFields(), userID)

	filter := shared.FilterByID(offering.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("offeringID", offering.ID).Msg("failed to update offering")

		return res, fmt.Errorf("failed to update offering: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("offeringID", offering.ID).Msg("failed to reload offering")

		return res, fmt.Errorf("failed to reload offering: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, offeringID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteOffering")
	defer scope.End()
	defer scope.TraceIfError(err)

	offering, err := s.getOwnedOffering(ctx, userID, offeringID)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(offering.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("offeringID", offering.ID).Msg("failed to delete offering")

		return fmt.Errorf("failed to delete offering: %w", err)
	}

	return nil
}

func (s *serviceImpl) ToggleActive(ctx context.Context, userID, offeringID string) (res dto.OfferingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleOffering")
	defer scope.End()
	defer scope.TraceIfError(err)

	offering, err := s.getOwnedOffering(ctx, userID, offeringID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldActive:        !offering.Active,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: userID,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(offering.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("offeringID", offering.ID).Msg("failed to toggle offering")

		return res, fmt.Errorf("failed to toggle offering: %w", err)
	}

	offering.Active = !offering.Active

	res.FromModel(offering)

	return res, nil
}

func (s *serviceImpl) getOwnedOffering(ctx context.Context, userID, offeringID string) (model.Offering, error) {
	provider, err := s.resolveProvider(ctx, userID)
	if err != nil {
		return model.Offering{}, err
	}

	offering, err := s.repo.Get(ctx, shared.FilterByID(offeringID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("offeringID", offeringID).Msg("failed to get offering")

		return offering, fmt.Errorf("failed to get offering: %w", err)
	}

	if offering.ID == constant.Empty {
		return offering, failure.NotFound("service not found") // nolint:wrapcheck
	}

	if offering.ProviderID != provider.ID {
		return offering, failure.Forbidden("you can only manage your own services") // nolint:wrapcheck
	}

	return offering, nil
}

func (s *serviceImpl) resolveProvider(ctx context.Context, userID string) (provModel.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    provModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    provModel.TableName,
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

func (s *serviceImpl) providerFilter(providerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldProviderID,
				Operator: gDto.FilterOperatorEq,
				Value:    providerID,
				Table:    model.TableName,
			},
		},
	}
}
