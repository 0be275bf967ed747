package router

import (
	"quickserve/internal/handlers/admin"
	"quickserve/internal/handlers/auth"
	"quickserve/internal/handlers/customer"
	"quickserve/internal/handlers/provider"
	"quickserve/internal/handlers/public"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Public   public.Handler
	Customer customer.Handler
	Provider provider.Handler
	Admin    admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Public.Router(routerGroup)
		r.DomainHandlers.Customer.Router(routerGroup)
		r.DomainHandlers.Provider.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
