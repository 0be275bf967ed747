package public

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"quickserve/infras/otel"
	provDto "quickserve/internal/domains/provider/model/dto"
	provService "quickserve/internal/domains/provider/service"
	reviewService "quickserve/internal/domains/review/service"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	"quickserve/shared/validator"
	"quickserve/transport/http/response"
)

const (
	requestParamCategory  = "category"
	requestParamCity      = "city"
	requestParamSearch    = "search"
	requestParamMinPrice  = "min_price"
	requestParamMaxPrice  = "max_price"
	requestParamMinRating = "min_rating"
	requestParamSize      = "size"
)

type Handler struct {
	providerService provService.Provider
	reviewService   reviewService.Review
	otel            otel.Otel
}

func New(providerService provService.Provider, reviewService reviewService.Review, otel otel.Otel) Handler {
	return Handler{
		providerService: providerService,
		reviewService:   reviewService,
		otel:            otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/public", func(routerGroup chi.Router) {
		routerGroup.Get("/categories", handler.GetCategories)
		routerGroup.Get("/providers", handler.SearchProviders)
		routerGroup.Get("/providers/{id}", handler.GetProviderDetail)
		routerGroup.Get("/providers/{id}/reviews", handler.GetProviderReviews)
	})
}

// GetCategories lists the service categories with provider counts.
// @Summary List categories
// @Description Retrieve the closed set of service categories with the number of providers per category.
// @Tags Public
// @Produce json
// @Success 200 {object} response.Data[dto.CategoriesResponse] "Categories"
// @Failure 500 {object} response.Error
// @Router /v1/public/categories [get]
func (handler *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	res, err := handler.providerService.Categories(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get categories")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Categories retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// SearchProviders searches available providers.
// @Summary Search providers
// @Description Search available providers with conjunctive filters, sorting and pagination.
// @Tags Public
// @Produce json
// @Param category query string false "Category token or display name"
// @Param city query string false "City substring"
// @Param search query string false "Free-text search over names and services"
// @Param min_price query number false "Minimum hourly rate"
// @Param max_price query number false "Maximum hourly rate"
// @Param min_rating query number false "Minimum average rating"
// @Param sort_by query string false "Sort key (rating, reviews, price-low, price-high, experience)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} response.Data[dto.SearchResponse] "Search results"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/public/providers [get]
func (handler *Handler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchProviders")
	defer scope.End()

	req, err := searchRequestFromQuery(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse search query")

		response.WithError(w, err)

		return
	}

	res, err := handler.providerService.Search(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search providers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Providers searched")

	response.WithJSON(w, http.StatusOK, res)
}

// GetProviderDetail retrieves a provider's public detail page.
// @Summary Get provider detail
// @Description Retrieve a provider's public profile with services, rating distribution and recent reviews.
// @Tags Public
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Data[dto.ProviderDetailResponse] "Provider detail"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/public/providers/{id} [get]
func (handler *Handler) GetProviderDetail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderDetail")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.providerService.Detail(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider detail")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider detail retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetProviderReviews lists a provider's reviews.
// @Summary List provider reviews
// @Description Retrieve a provider's reviews, newest first, with pagination.
// @Tags Public
// @Produce json
// @Param id path string true "Provider ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.ReviewsResponse] "Reviews"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/public/providers/{id}/reviews [get]
func (handler *Handler) GetProviderReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviderReviews")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.reviewService.ListForProvider(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get provider reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Provider reviews retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

func searchRequestFromQuery(r *http.Request) (provDto.SearchRequest, error) {
	query := r.URL.Query()

	req := provDto.SearchRequest{
		Category: query.Get(requestParamCategory),
		City:     query.Get(requestParamCity),
		Search:   query.Get(requestParamSearch),
		SortBy:   query.Get(constant.RequestParamSortBy),
	}

	if raw := query.Get(requestParamMinPrice); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			req.MinPrice = &value
		}
	}

	if raw := query.Get(requestParamMaxPrice); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			req.MaxPrice = &value
		}
	}

	if raw := query.Get(requestParamMinRating); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			req.MinRating = &value
		}
	}

	if raw := query.Get(constant.RequestParamPage); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			req.Page = value
		}
	}

	if raw := query.Get(requestParamSize); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			req.Size = value
		}
	}

	if err := validator.ValidateStruct(&req); err != nil {
		return req, err // nolint:wrapcheck
	}

	return req, nil
}
