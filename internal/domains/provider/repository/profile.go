package repository

//go:generate go run go.uber.org/mock/mockgen -source=./profile.go -destination=../mocks/profile_repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/internal/domains/provider/model"
	gDto "quickserve/shared/dto"
	gRepo "quickserve/shared/repository"
)

type WorkingHours interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.WorkingHours) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WorkingHours, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type workingHoursImpl struct {
	gRepo.Repository[model.WorkingHours]
	db   *postgres.Connection
	otel otel.Otel
}

func NewWorkingHours(db *postgres.Connection, otel otel.Otel) WorkingHours {
	return &workingHoursImpl{
		Repository: gRepo.NewRepository[model.WorkingHours](model.WorkingHoursEntity, model.WorkingHoursTable, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Certification interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Certification) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Certification, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type certificationImpl struct {
	gRepo.Repository[model.Certification]
	db   *postgres.Connection
	otel otel.Otel
}

func NewCertification(db *postgres.Connection, otel otel.Otel) Certification {
	return &certificationImpl{
		Repository: gRepo.NewRepository[model.Certification](model.CertificationEntity, model.CertificationTable, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
