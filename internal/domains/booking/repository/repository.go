package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/booking/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	gRepo "quickserve/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	SumPrice(ctx context.Context, filter gDto.FilterGroup) (float64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumPrice totals the booking price snapshots matching the filter. Earnings
// and revenue figures are derived from this, never stored.
func (repo *repositoryImpl) SumPrice(ctx context.Context, filter gDto.FilterGroup) (res float64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SumPrice")
	defer scope.End()
	defer scope.TraceIfError(err)

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(%[1]s.%[2]s), 0) FROM %[1]s %[3]s %[4]s",
		model.TableName, model.FieldPrice, model.Booking{}.GetJoinQuery(), where,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare price sum statement")

		return 0, fmt.Errorf("failed to prepare price sum statement: %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &res, args); err != nil {
		log.Error().Err(err).Msg("failed to sum booking prices")

		return 0, fmt.Errorf("failed to sum booking prices: %w", err)
	}

	return res, nil
}
