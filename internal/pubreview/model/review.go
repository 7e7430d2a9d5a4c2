package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStatus is either started (only visible to its owner and moderators)
// or completed (visible to everyone).
type ReviewStatus string

const (
	ReviewStarted   ReviewStatus = "started"
	ReviewCompleted ReviewStatus = "completed"
)

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Publication primitive.ObjectID `bson:"publication"`
	Owner       primitive.ObjectID `bson:"owner"`
	Status      ReviewStatus       `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// PopulatedReview is a review loaded with its owner and publication.
type PopulatedReview struct {
	Review
	OwnerUser   *User        `bson:"-"`
	Publication *Publication `bson:"-"`
}

type ReviewView struct {
	ID          string       `json:"id"`
	Publication string       `json:"publication"`
	Owner       UserView     `json:"owner"`
	Status      ReviewStatus `json:"status"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

func (r *Review) View(owner *User) ReviewView {
	view := ReviewView{
		ID:          r.ID.Hex(),
		Publication: r.Publication.Hex(),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
	if owner != nil {
		view.Owner = owner.View()
	}
	return view
}

// ReviewResponse is the payload of endpoints returning one review.
type ReviewResponse struct {
	Review ReviewView `json:"review"`
}

// ReviewListResponse is the payload of the per-user review listing.
type ReviewListResponse struct {
	Reviews []ReviewView `json:"reviews"`
}
