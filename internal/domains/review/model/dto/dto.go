package dto

import (
	"time"

	"github.com/google/uuid"

	reviewModel "quickserve/internal/domains/review/model"
	"quickserve/shared/constant"
	gDto "quickserve/shared/dto"
	gModel "quickserve/shared/model"
	"quickserve/shared/timezone"
)

type SubmitReviewRequest struct {
	BookingID string  `json:"booking_id" validate:"required"`
	Rating    int     `json:"rating"     validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty"`
}

func (r *SubmitReviewRequest) ToModel(customerID, providerID string) reviewModel.Review {
	return reviewModel.Review{
		ID:         uuid.NewString(),
		BookingID:  r.BookingID,
		CustomerID: customerID,
		ProviderID: providerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

type RespondReviewRequest struct {
	Response string `json:"response" validate:"required"`
}

type ReviewResponse struct {
	ID                  string        `json:"id"`
	BookingID           string        `json:"booking_id"`
	ProviderID          string        `json:"provider_id"`
	ServiceName         string        `json:"service_name,omitempty"`
	ProviderName        string        `json:"provider_name,omitempty"`
	CustomerName        string        `json:"customer_name,omitempty"`
	CustomerPhoto       *string       `json:"customer_photo,omitempty"`
	Rating              int           `json:"rating"`
	Comment             *string       `json:"comment,omitempty"`
	ProviderResponse    *string       `json:"provider_response,omitempty"`
	ProviderRespondedAt *string       `json:"provider_responded_at,omitempty"`
	Metadata            gDto.Metadata `json:"metadata"`
}

func (r *ReviewResponse) FromModel(review reviewModel.Review) {
	r.ID = review.ID
	r.BookingID = review.BookingID
	r.ProviderID = review.ProviderID
	r.ServiceName = review.ServiceName
	r.ProviderName = review.ProviderName
	r.CustomerName = review.CustomerName
	r.CustomerPhoto = review.CustomerPhoto
	r.Rating = review.Rating
	r.Comment = review.Comment
	r.ProviderResponse = review.ProviderResponse
	r.ProviderRespondedAt = formatTimestamp(review.ProviderRespondedAt)
	r.Metadata.FromModel(review.Metadata)
}

type ReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	Total     int              `json:"total"`
	TotalPage int              `json:"total_page"`
}

func (r *ReviewsResponse) FromModels(reviews []reviewModel.Review, total, totalPage int) {
	r.Reviews = make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		var res ReviewResponse
		res.FromModel(review)
		r.Reviews = append(r.Reviews, res)
	}

	r.Total = total
	r.TotalPage = totalPage
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
