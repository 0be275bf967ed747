package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/address/model"
	gDto "quickserve/shared/dto"
	gRepo "quickserve/shared/repository"
)

type SavedAddress interface {
	Insert(ctx context.Context, model model.SavedAddress) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.SavedAddress, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.SavedAddress, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.SavedAddress]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) SavedAddress {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.SavedAddress](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
