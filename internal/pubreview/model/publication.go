package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication is one revision of a user's publication. Revisions of the same
// publication share Owner and Name; exactly one of them is Current.
type Publication struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Owner         primitive.ObjectID   `bson:"owner"`
	Name          string               `bson:"name"`
	Revision      string               `bson:"revision"`
	Title         string               `bson:"title"`
	Introduction  string               `bson:"introduction,omitempty"`
	Changelog     string               `bson:"changelog,omitempty"`
	About         string               `bson:"about,omitempty"`
	Draft         bool                 `bson:"draft"`
	Current       bool                 `bson:"current"`
	Pinned        bool                 `bson:"pinned"`
	Collaborators []primitive.ObjectID `bson:"collaborators"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// HasCollaborator reports whether id is listed as a collaborator.
func (p *Publication) HasCollaborator(id primitive.ObjectID) bool {
	for _, c := range p.Collaborators {
		if c == id {
			return true
		}
	}
	return false
}

// PopulatedPublication is a publication loaded together with its owner.
type PopulatedPublication struct {
	Publication
	OwnerUser *User `bson:"-"`
}

// PublicationView is the public projection of a publication.
type PublicationView struct {
	ID            string   `json:"id"`
	Owner         UserView `json:"owner"`
	Name          string   `json:"name"`
	Revision      string   `json:"revision"`
	Title         string   `json:"title"`
	Introduction  string   `json:"introduction,omitempty"`
	Changelog     string   `json:"changelog,omitempty"`
	About         string   `json:"about,omitempty"`
	Draft         bool     `json:"draft"`
	Current       bool     `json:"current"`
	Pinned        bool     `json:"pinned"`
	Collaborators []string `json:"collaborators"`
	Reviews       int64    `json:"reviews"`
	CreatedAt     int64    `json:"createdAt"`
	UpdatedAt     int64    `json:"updatedAt"`
}

func (p *Publication) View(owner *User, reviews int64) PublicationView {
	collaborators := make([]string, 0, len(p.Collaborators))
	for _, c := range p.Collaborators {
		collaborators = append(collaborators, c.Hex())
	}

	view := PublicationView{
		ID:            p.ID.Hex(),
		Name:          p.Name,
		Revision:      p.Revision,
		Title:         p.Title,
		Introduction:  p.Introduction,
		Changelog:     p.Changelog,
		About:         p.About,
		Draft:         p.Draft,
		Current:       p.Current,
		Pinned:        p.Pinned,
		Collaborators: collaborators,
		Reviews:       reviews,
		CreatedAt:     p.CreatedAt.UnixMilli(),
		UpdatedAt:     p.UpdatedAt.UnixMilli(),
	}
	if owner != nil {
		view.Owner = owner.View()
	}
	return view
}

// PublicationPatch lists the mutable publication fields. Nil means unchanged.
type PublicationPatch struct {
	Title         *string
	Introduction  *string
	About         *string
	Changelog     *string
	Pinned        *bool
	Collaborators *[]primitive.ObjectID
}

// PublicationResponse is the payload of endpoints returning one publication.
type PublicationResponse struct {
	Publication PublicationView `json:"publication"`
	// Set by revise to the revision that was current before.
	PreviousRevision string `json:"-"`
}

// PublicationListResponse is a page of publications.
type PublicationListResponse struct {
	Publications []PublicationView `json:"publications"`
	Total        int64             `json:"total"`
	Skip         int64             `json:"skip"`
	Take         int64             `json:"take"`
}

// RevisionListResponse lists every revision of a publication.
type RevisionListResponse struct {
	Revisions []PublicationView `json:"revisions"`
}

// PublicationDeletion is the payload returned when publications are removed.
type PublicationDeletion struct {
	Name     string `json:"name"`
	Revision string `json:"revision,omitempty"`
	Deleted  int64  `json:"deleted"`
	Document string `json:"-"`
}
