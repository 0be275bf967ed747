package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/review/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	gRepo "quickserve/shared/repository"
)

// RatingSummary is the aggregate a review write folds back onto the provider.
type RatingSummary struct {
	Average float64 `db:"average"`
	Count   int     `db:"count"`
}

type Review interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	RatingSummaryTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) (RatingSummary, error)
	RatingDistribution(ctx context.Context, providerID string) (map[int]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// RatingSummaryTx recomputes the provider's rating aggregate from every review
// row. It runs on the write transaction so the fold sees the review just
// inserted.
func (repo *repositoryImpl) RatingSummaryTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) (res RatingSummary, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.RatingSummaryTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count FROM %s WHERE provider_id = $1",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqltx.GetContext(ctx, &res, query, providerID); err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to compute rating summary")

		return res, fmt.Errorf("failed to compute rating summary: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) RatingDistribution(ctx context.Context, providerID string) (res map[int]int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.RatingDistribution")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT rating, COUNT(*) AS count FROM %s WHERE provider_id = $1 GROUP BY rating",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}{}

	if err = repo.db.Read.SelectContext(ctx, &rows, query, providerID); err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to compute rating distribution")

		return nil, fmt.Errorf("failed to compute rating distribution: %w", err)
	}

	res = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		res[row.Rating] = row.Count
	}

	return res, nil
}
