package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow links a follower to the user they follow. Their activity makes up
// the follower's feed.
type Follow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Follower  primitive.ObjectID `bson:"follower"`
	Following primitive.ObjectID `bson:"following"`
	CreatedAt time.Time          `bson:"created_at"`
}

type FollowStatusResponse struct {
	Following bool `json:"following"`
}

type FollowersResponse struct {
	Followers []UserView `json:"followers"`
}

type FollowingResponse struct {
	Following []UserView `json:"following"`
}
