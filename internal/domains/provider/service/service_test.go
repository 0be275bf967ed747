package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"quickserve/config"
	"quickserve/infras/otel/mocks"
	pgMocks "quickserve/infras/postgres/mocks"
	bookingMocks "quickserve/internal/domains/booking/mocks"
	offMocks "quickserve/internal/domains/offering/mocks"
	offModel "quickserve/internal/domains/offering/model"
	provMocks "quickserve/internal/domains/provider/mocks"
	provModel "quickserve/internal/domains/provider/model"
	"quickserve/internal/domains/provider/model/dto"
	"quickserve/internal/domains/provider/service"
	reviewMocks "quickserve/internal/domains/review/mocks"
	reviewModel "quickserve/internal/domains/review/model"
	userMocks "quickserve/internal/domains/user/mocks"
	cacheMocks "quickserve/shared/cache/mocks"
	"quickserve/shared/failure"
)

type providerMockSet struct {
	repo          *provMocks.MockProvider
	workingHours  *provMocks.MockWorkingHours
	certification *provMocks.MockCertification
	offering      *offMocks.MockOffering
	booking       *bookingMocks.MockBooking
	review        *reviewMocks.MockReview
	user          *userMocks.MockUser
	transactor    *pgMocks.MockTransactor
	cache         *cacheMocks.MockRedisCache
}

func newProviderService(ctrl *gomock.Controller) (service.Provider, providerMockSet) {
	m := providerMockSet{
		repo:          provMocks.NewMockProvider(ctrl),
		workingHours:  provMocks.NewMockWorkingHours(ctrl),
		certification: provMocks.NewMockCertification(ctrl),
		offering:      offMocks.NewMockOffering(ctrl),
		booking:       bookingMocks.NewMockBooking(ctrl),
		review:        reviewMocks.NewMockReview(ctrl),
		user:          userMocks.NewMockUser(ctrl),
		transactor:    pgMocks.NewMockTransactor(ctrl),
		cache:         cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(
		m.repo, m.workingHours, m.certification, m.offering, m.booking,
		m.review, m.user, m.transactor, m.cache, cfg, mocks.NewOtel(),
	)

	return svc, m
}

func (m providerMockSet) runInTx() {
	m.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func floatPtr(f float64) *float64 {
	return &f
}

func stringPtr(s string) *string {
	return &s
}

func searchFixtures() ([]provModel.Provider, []offModel.Offering) {
	providers := []provModel.Provider{
		{
			ID:              "provider-1",
			PrimaryService:  "PLUMBING",
			City:            stringPtr("Bengaluru"),
			FullName:        "Arun Pipes",
			HourlyRate:      floatPtr(40),
			AverageRating:   floatPtr(4.8),
			TotalReviews:    120,
			ExperienceYears: 8,
			IsAvailable:     true,
		},
		{
			ID:                "provider-2",
			PrimaryService:    "ELECTRICAL",
			SecondaryServices: []string{"PLUMBING"},
			City:              stringPtr("Mumbai"),
			FullName:          "Bela Wires",
			HourlyRate:        floatPtr(80),
			AverageRating:     floatPtr(4.1),
			TotalReviews:      45,
			ExperienceYears:   12,
			IsAvailable:       true,
		},
		{
			ID:              "provider-3",
			PrimaryService:  "CLEANING",
			City:            stringPtr("Bengaluru"),
			FullName:        "Chitra Cleaners",
			HourlyRate:      nil,
			AverageRating:   nil,
			TotalReviews:    0,
			ExperienceYears: 2,
			IsAvailable:     true,
		},
	}

	offerings := []offModel.Offering{
		{ID: "service-1", ProviderID: "provider-1", Name: "Pipe repair", Active: true},
		{ID: "service-2", ProviderID: "provider-3", Name: "Sofa shampoo", Active: true},
	}

	return providers, offerings
}

func TestProviderService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	providers, offerings := searchFixtures()

	tests := []struct {
		name    string
		req     dto.SearchRequest
		wantIDs []string
	}{
		{
			name:    "no filters returns everyone sorted by rating with unrated last",
			req:     dto.SearchRequest{},
			wantIDs: []string{"provider-1", "provider-2", "provider-3"},
		},
		{
			name:    "category matches primary and secondary services",
			req:     dto.SearchRequest{Category: "plumbing"},
			wantIDs: []string{"provider-1", "provider-2"},
		},
		{
			name:    "unknown category is ignored",
			req:     dto.SearchRequest{Category: "astrology"},
			wantIDs: []string{"provider-1", "provider-2", "provider-3"},
		},
		{
			name:    "city is a substring match",
			req:     dto.SearchRequest{City: "bengal"},
			wantIDs: []string{"provider-1", "provider-3"},
		},
		{
			name:    "free text matches active offering names",
			req:     dto.SearchRequest{Search: "sofa"},
			wantIDs: []string{"provider-3"},
		},
		{
			name:    "price band keeps providers without a published rate",
			req:     dto.SearchRequest{MaxPrice: floatPtr(50)},
			wantIDs: []string{"provider-1", "provider-3"},
		},
		{
			name:    "minimum rating excludes unrated providers",
			req:     dto.SearchRequest{MinRating: floatPtr(4.0)},
			wantIDs: []string{"provider-1", "provider-2"},
		},
		{
			name:    "price-low sorts ascending with unpriced last",
			req:     dto.SearchRequest{SortBy: "price-low"},
			wantIDs: []string{"provider-1", "provider-2", "provider-3"},
		},
		{
			name:    "experience sorts descending",
			req:     dto.SearchRequest{SortBy: "experience"},
			wantIDs: []string{"provider-2", "provider-1", "provider-3"},
		},
		{
			name:    "second page",
			req:     dto.SearchRequest{Page: 2, Size: 2},
			wantIDs: []string{"provider-3"},
		},
		{
			name:    "out of range page is empty",
			req:     dto.SearchRequest{Page: 9, Size: 10},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixtureProviders := make([]provModel.Provider, len(providers))
			copy(fixtureProviders, providers)

			m.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(fixtureProviders, nil)

			m.offering.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(offerings, nil)

			ctx := context.Background()
			result, err := svc.Search(ctx, tt.req)

			assert.NoError(t, err)

			gotIDs := make([]string, 0, len(result.Providers))
			for _, p := range result.Providers {
				gotIDs = append(gotIDs, p.ID)
			}

			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestProviderService_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	provider := provModel.Provider{
		ID:             "provider-1",
		UserID:         "user-2",
		FullName:       "Arun Pipes",
		PrimaryService: "PLUMBING",
		ProfileViews:   10,
	}

	t.Run("detail bumps the view counter and attaches reviews", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.repo.EXPECT().
			Increment(gomock.Any(), map[string]int{provModel.FieldProfileViews: 1}, gomock.Any()).
			Return(nil)

		m.offering.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]offModel.Offering{
				{ID: "service-1", ProviderID: "provider-1", Name: "Pipe repair", Active: true},
			}, nil)

		m.review.EXPECT().
			RatingDistribution(gomock.Any(), "provider-1").
			Return(map[int]int{1: 0, 2: 0, 3: 1, 4: 2, 5: 7}, nil)

		m.review.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]reviewModel.Review{
				{ID: "review-1", ProviderID: "provider-1", Rating: 5},
			}, nil)

		ctx := context.Background()
		result, err := svc.Detail(ctx, "provider-1")

		assert.NoError(t, err)
		assert.Equal(t, 11, result.ProfileViews)
		assert.Equal(t, "Plumbing", result.PrimaryService)
		assert.Len(t, result.Services, 1)
		assert.Len(t, result.RecentReviews, 1)
		assert.Equal(t, 7, result.RatingDistribution[5])
	})

	t.Run("unknown provider", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provModel.Provider{}, nil)

		ctx := context.Background()
		_, err := svc.Detail(ctx, "provider-404")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestProviderService_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	t.Run("cache miss counts providers per category", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(3, nil).
			Times(12)

		saved := make(chan struct{})

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, any, int) error {
				close(saved)

				return nil
			})

		ctx := context.Background()
		result, err := svc.Categories(ctx)

		<-saved

		assert.NoError(t, err)
		assert.Len(t, result.Categories, 12)
		assert.Equal(t, 3, result.Categories[0].ProviderCount)
	})
}

func TestProviderService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	provider := provModel.Provider{
		ID:            "provider-1",
		UserID:        "user-2",
		AverageRating: floatPtr(4.7),
		TotalReviews:  80,
		ProfileViews:  500,
	}

	t.Run("dashboard folds earnings and counts", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		// Total, weekly, and fortnight earnings.
		gomock.InOrder(
			m.booking.EXPECT().SumPrice(gomock.Any(), gomock.Any()).Return(1200.0, nil),
			m.booking.EXPECT().SumPrice(gomock.Any(), gomock.Any()).Return(300.0, nil),
			m.booking.EXPECT().SumPrice(gomock.Any(), gomock.Any()).Return(500.0, nil),
		)

		// PENDING, CONFIRMED, COMPLETED, CANCELLED, today, completed this week.
		gomock.InOrder(
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil),
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil),
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(20, nil),
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil),
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil),
			m.booking.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil),
		)

		m.offering.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(6, nil)

		ctx := context.Background()
		result, err := svc.Dashboard(ctx, "user-2")

		assert.NoError(t, err)
		assert.Equal(t, 1200.0, result.TotalEarnings)
		assert.Equal(t, 300.0, result.WeeklyEarnings)
		assert.Equal(t, 26, result.TotalBookings)
		assert.Equal(t, 20, result.CompletedBookings)
		assert.Equal(t, 2, result.PendingBookings)
		assert.Equal(t, 4, result.TodayBookings)
		assert.Equal(t, 6, result.ActiveServices)
		assert.Equal(t, 4.7, result.AverageRating)
		assert.Equal(t, "Top Rated Provider", result.RatingStatus)
		assert.Equal(t, "+5 new this week", result.BookingsTrend)
		// 300 this week vs 200 the week before.
		assert.Equal(t, "+50% from last week", result.EarningsTrend)
	})
}

func TestProviderService_GetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	provider := provModel.Provider{
		ID:        "provider-1",
		UserID:    "user-2",
		FullName:  "Arun Pipes",
		Languages: []string{"English", "Kannada"},
		Skills:    []string{"Leak detection"},
	}

	t.Run("profile carries schedule with defaults for missing days", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.workingHours.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]provModel.WorkingHours{
				{ID: "hours-1", ProviderID: "provider-1", DayOfWeek: "MONDAY", OpenTime: "08:00", CloseTime: "17:00", IsOpen: true},
			}, nil)

		m.certification.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]provModel.Certification{
				{ID: "cert-1", ProviderID: "provider-1", Name: "Certified Plumber", Issuer: "ITI", Year: stringPtr("2019")},
			}, nil)

		ctx := context.Background()
		result, err := svc.GetProfile(ctx, "user-2")

		assert.NoError(t, err)
		assert.Equal(t, []string{"English", "Kannada"}, result.Languages)
		assert.Equal(t, []string{"Leak detection"}, result.Skills)
		assert.Len(t, result.WorkingHours, 7)
		assert.Equal(t, dto.WorkingHoursEntry{Open: "08:00", Close: "17:00", IsOpen: true}, result.WorkingHours["monday"])
		assert.Equal(t, dto.WorkingHoursEntry{Open: "09:00", Close: "18:00", IsOpen: false}, result.WorkingHours["tuesday"])

		if assert.Len(t, result.Certifications, 1) {
			assert.Equal(t, "Certified Plumber", result.Certifications[0].Name)
			assert.Equal(t, "ITI", result.Certifications[0].Issuer)
		}
	})
}

func TestProviderService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	provider := provModel.Provider{ID: "provider-1", UserID: "user-2", Phone: "9000000001"}

	t.Run("working hours are upserted and certifications replaced", func(t *testing.T) {
		mondayRow := provModel.WorkingHours{
			ID: "hours-1", ProviderID: "provider-1", DayOfWeek: "MONDAY",
			OpenTime: "09:00", CloseTime: "18:00", IsOpen: false,
		}

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.workingHours.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]provModel.WorkingHours{mondayRow}, nil)

		m.certification.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		m.runInTx()

		m.user.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
				assert.Contains(t, fields, provModel.FieldLanguages)
				assert.Contains(t, fields, provModel.FieldSkills)

				return nil
			})

		// Monday already has a row, Tuesday does not.
		m.workingHours.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ interface{}) error {
				assert.Equal(t, "08:00", fields[provModel.FieldOpenTime])
				assert.Equal(t, true, fields[provModel.FieldIsOpen])

				return nil
			})

		m.workingHours.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, row provModel.WorkingHours) error {
				assert.Equal(t, "TUESDAY", row.DayOfWeek)
				assert.Equal(t, "provider-1", row.ProviderID)
				assert.Equal(t, "10:00", row.OpenTime)

				return nil
			})

		m.certification.EXPECT().
			DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.certification.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, cert provModel.Certification) error {
				assert.Equal(t, "Certified Plumber", cert.Name)
				assert.Equal(t, "provider-1", cert.ProviderID)

				return nil
			})

		// Reload after the write.
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.workingHours.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]provModel.WorkingHours{
				{ID: "hours-1", ProviderID: "provider-1", DayOfWeek: "MONDAY", OpenTime: "08:00", CloseTime: "17:00", IsOpen: true},
				{ID: "hours-2", ProviderID: "provider-1", DayOfWeek: "TUESDAY", OpenTime: "10:00", CloseTime: "16:00", IsOpen: true},
			}, nil)

		m.certification.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]provModel.Certification{
				{ID: "cert-1", ProviderID: "provider-1", Name: "Certified Plumber", Issuer: "ITI"},
			}, nil)

		ctx := context.Background()
		result, err := svc.UpdateProfile(ctx, "user-2", dto.UpdateProfileRequest{
			Languages: []string{"English", "Hindi"},
			Skills:    []string{"Leak detection"},
			WorkingHours: map[string]dto.WorkingHoursEntry{
				"monday":  {Open: "08:00", Close: "17:00", IsOpen: true},
				"tuesday": {Open: "10:00", Close: "16:00", IsOpen: true},
			},
			Certifications: []dto.CertificationEntry{
				{Name: "Certified Plumber", Issuer: "ITI"},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, dto.WorkingHoursEntry{Open: "10:00", Close: "16:00", IsOpen: true}, result.WorkingHours["tuesday"])
		assert.Len(t, result.Certifications, 1)
	})

	t.Run("unknown day of week is rejected", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		ctx := context.Background()
		_, err := svc.UpdateProfile(ctx, "user-2", dto.UpdateProfileRequest{
			WorkingHours: map[string]dto.WorkingHoursEntry{
				"funday": {Open: "08:00", Close: "17:00"},
			},
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestProviderService_SetAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newProviderService(ctrl)

	provider := provModel.Provider{ID: "provider-1", UserID: "user-2", IsAvailable: true}

	available := false

	t.Run("availability is written through", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(provider, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
				assert.Equal(t, false, fields[provModel.FieldIsAvailable])

				return nil
			})

		ctx := context.Background()
		err := svc.SetAvailability(ctx, "user-2", dto.UpdateAvailabilityRequest{IsAvailable: &available})

		assert.NoError(t, err)
	})
}
