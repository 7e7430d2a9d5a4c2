package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityKind is the operation an activity records.
type ActivityKind string

const (
	ActivityCreate ActivityKind = "create"
	ActivityUpdate ActivityKind = "update"
	ActivityDelete ActivityKind = "delete"
	ActivityRevise ActivityKind = "revise"
)

// SubjectType is the kind of document an activity is about.
type SubjectType string

const (
	SubjectPublication SubjectType = "publication"
	SubjectReview      SubjectType = "review"
	SubjectComment     SubjectType = "comment"
	SubjectUser        SubjectType = "user"
)

// Activity is an audit entry for a user visible action. It is created with
// Live=false before the action runs and is either committed or removed once
// the action's outcome is known.
type Activity struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	Kind       ActivityKind        `bson:"kind"`
	Type       SubjectType         `bson:"type"`
	Owner      primitive.ObjectID  `bson:"owner"`
	Visibility Role                `bson:"visibility"`
	Live       bool                `bson:"live"`
	Metadata   *ActivityMetadata   `bson:"metadata,omitempty"`
	Document   *primitive.ObjectID `bson:"document,omitempty"`
	// CommittedAt is nil while the record is provisional.
	CommittedAt *time.Time `bson:"committed_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

// ActivityMetadata is the closed set of facts an activity may carry.
type ActivityMetadata struct {
	Name             string   `bson:"name,omitempty" json:"name,omitempty"`
	Revision         string   `bson:"revision,omitempty" json:"revision,omitempty"`
	PreviousRevision string   `bson:"previous_revision,omitempty" json:"previousRevision,omitempty"`
	Collaborators    int      `bson:"collaborators,omitempty" json:"collaborators,omitempty"`
	Username         string   `bson:"username,omitempty" json:"username,omitempty"`
	Publication      string   `bson:"publication,omitempty" json:"publication,omitempty"`
	Review           string   `bson:"review,omitempty" json:"review,omitempty"`
	Comments         int      `bson:"comments,omitempty" json:"comments,omitempty"`
	Fields           []string `bson:"fields,omitempty" json:"fields,omitempty"`
}

type ActivityView struct {
	ID         string            `json:"id"`
	Kind       ActivityKind      `json:"kind"`
	Type       SubjectType       `json:"type"`
	Owner      UserView          `json:"owner"`
	Visibility Role              `json:"permission"`
	Metadata   *ActivityMetadata `json:"metadata,omitempty"`
	Document   string            `json:"document,omitempty"`
	CreatedAt  int64             `json:"createdAt"`
	UpdatedAt  int64             `json:"updatedAt"`
}

func (a *Activity) View(owner *User) ActivityView {
	view := ActivityView{
		ID:         a.ID.Hex(),
		Kind:       a.Kind,
		Type:       a.Type,
		Visibility: a.Visibility,
		Metadata:   a.Metadata,
		CreatedAt:  a.CreatedAt.UnixMilli(),
		UpdatedAt:  a.UpdatedAt.UnixMilli(),
	}
	if a.Document != nil {
		view.Document = a.Document.Hex()
	}
	if owner != nil {
		view.Owner = owner.View()
	}
	return view
}

// PopulatedActivity is an activity loaded with its owner.
type PopulatedActivity struct {
	Activity
	OwnerUser *User `bson:"-"`
}

// ActivityFilter selects live activities for a feed.
type ActivityFilter struct {
	Owner *primitive.ObjectID
	// Owners selects activities by any of the listed users. Ignored when
	// Owner is set.
	Owners     []primitive.ObjectID
	Visibility []Role
	Skip       int64
	Take       int64
}

// ActivityResponse is the payload of the single activity endpoint.
type ActivityResponse struct {
	Activity ActivityView `json:"activity"`
}

// ActivityListResponse is a page of the activity feed.
type ActivityListResponse struct {
	Activities []ActivityView `json:"activities"`
	Total      int64          `json:"total"`
	Skip       int64          `json:"skip"`
	Take       int64          `json:"take"`
}
