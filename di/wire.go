//go:build wireinject
// +build wireinject

package di

import (
	"quickserve/config"
	"quickserve/infras/jwt"
	"quickserve/infras/kafka"
	"quickserve/infras/otel"
	"quickserve/infras/postgres"
	"quickserve/infras/redis"
	"quickserve/permissions"
	"quickserve/shared/cache"
	"quickserve/transport/http"
	"quickserve/transport/http/middleware"
	"quickserve/transport/http/router"

	"github.com/google/wire"

	addressRepository "quickserve/internal/domains/address/repository"
	addressService "quickserve/internal/domains/address/service"
	adminService "quickserve/internal/domains/admin/service"
	authService "quickserve/internal/domains/auth/service"
	bookingLedger "quickserve/internal/domains/booking/ledger"
	bookingRepository "quickserve/internal/domains/booking/repository"
	bookingService "quickserve/internal/domains/booking/service"
	customerRepository "quickserve/internal/domains/customer/repository"
	customerService "quickserve/internal/domains/customer/service"
	offeringRepository "quickserve/internal/domains/offering/repository"
	offeringService "quickserve/internal/domains/offering/service"
	providerRepository "quickserve/internal/domains/provider/repository"
	providerService "quickserve/internal/domains/provider/service"
	reviewRepository "quickserve/internal/domains/review/repository"
	reviewService "quickserve/internal/domains/review/service"
	userRepository "quickserve/internal/domains/user/repository"

	adminHandler "quickserve/internal/handlers/admin"
	authHandler "quickserve/internal/handlers/auth"
	customerHandler "quickserve/internal/handlers/customer"
	providerHandler "quickserve/internal/handlers/provider"
	publicHandler "quickserve/internal/handlers/public"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var providerDomain = wire.NewSet(
	providerRepository.New,
	providerRepository.NewWorkingHours,
	providerRepository.NewCertification,
	providerService.New,
)

var offeringDomain = wire.NewSet(
	offeringRepository.New,
	offeringService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingLedger.New,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var addressDomain = wire.NewSet(
	addressRepository.New,
	addressService.New,
)

var adminDomain = wire.NewSet(
	adminService.New,
)

var domains = wire.NewSet(
	authDomain,
	customerDomain,
	providerDomain,
	offeringDomain,
	bookingDomain,
	reviewDomain,
	addressDomain,
	adminDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	publicHandler.New,
	customerHandler.New,
	providerHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
