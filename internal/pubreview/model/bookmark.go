package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark marks a publication revision as saved by a user.
type Bookmark struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	Publication primitive.ObjectID `bson:"publication"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type BookmarkStatusResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type BookmarkersResponse struct {
	Bookmarkers []UserView `json:"bookmarkers"`
}

type BookmarksResponse struct {
	Bookmarks []PublicationView `json:"bookmarks"`
}
