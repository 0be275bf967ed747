package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/provider/model"
	gDto "quickserve/shared/dto"
	gRepo "quickserve/shared/repository"
)

type Provider interface {
	Insert(ctx context.Context, model model.Provider) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Provider) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Provider, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Provider, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Increment(ctx context.Context, deltas map[string]int, filter gDto.FilterGroup) error
	IncrementTx(ctx context.Context, sqltx *sqlx.Tx, deltas map[string]int, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Provider]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Provider {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Provider](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
