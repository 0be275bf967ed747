package ledger

//go:generate go run go.uber.org/mock/mockgen -source=./ledger.go -destination=./mocks/ledger_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	custModel "quickserve/internal/domains/customer/model"
	custRepo "quickserve/internal/domains/customer/repository"
	provModel "quickserve/internal/domains/provider/model"
	provRepo "quickserve/internal/domains/provider/repository"
	"quickserve/shared"
	"quickserve/shared/constant"
)

// Ledger applies the counter side effects of booking lifecycle events. Every
// method takes the transaction carrying the status write so the counters and
// the booking row commit together.
type Ledger interface {
	BookingCreated(ctx context.Context, sqltx *sqlx.Tx, customerID string) error
	BookingCompleted(ctx context.Context, sqltx *sqlx.Tx, customerID, providerID string) error
	BookingCancelledByCustomer(ctx context.Context, sqltx *sqlx.Tx, customerID string) error
}

type ledgerImpl struct {
	customerRepo custRepo.Customer
	providerRepo provRepo.Provider
	otel         otel.Otel
}

func New(customerRepo custRepo.Customer, providerRepo provRepo.Provider, otel otel.Otel) Ledger {
	return &ledgerImpl{
		customerRepo: customerRepo,
		providerRepo: providerRepo,
		otel:         otel,
	}
}

func (l *ledgerImpl) BookingCreated(ctx context.Context, sqltx *sqlx.Tx, customerID string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.BookingCreated")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = l.customerRepo.IncrementTx(ctx, sqltx,
		map[string]int{custModel.FieldTotalBookings: 1},
		shared.FilterByID(customerID, custModel.FieldID, custModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("customerID", customerID).Msg("failed to increment total bookings")

		return fmt.Errorf("failed to increment total bookings: %w", err)
	}

	return nil
}

func (l *ledgerImpl) BookingCompleted(ctx context.Context, sqltx *sqlx.Tx, customerID, providerID string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.BookingCompleted")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = l.providerRepo.IncrementTx(ctx, sqltx,
		map[string]int{provModel.FieldCompletedJobs: 1},
		shared.FilterByID(providerID, provModel.FieldID, provModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("failed to increment completed jobs")

		return fmt.Errorf("failed to increment completed jobs: %w", err)
	}

	err = l.customerRepo.IncrementTx(ctx, sqltx,
		map[string]int{custModel.FieldCompletedBookings: 1},
		shared.FilterByID(customerID, custModel.FieldID, custModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("customerID", customerID).Msg("failed to increment completed bookings")

		return fmt.Errorf("failed to increment completed bookings: %w", err)
	}

	return nil
}

// BookingCancelledByCustomer bumps the customer's cancelled counter. Provider
// or admin cancellations leave the counter untouched.
func (l *ledgerImpl) BookingCancelledByCustomer(ctx context.Context, sqltx *sqlx.Tx, customerID string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.BookingCancelledByCustomer")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = l.customerRepo.IncrementTx(ctx, sqltx,
		map[string]int{custModel.FieldCancelledBookings: 1},
		shared.FilterByID(customerID, custModel.FieldID, custModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("customerID", customerID).Msg("failed to increment cancelled bookings")

		return fmt.Errorf("failed to increment cancelled bookings: %w", err)
	}

	return nil
}
