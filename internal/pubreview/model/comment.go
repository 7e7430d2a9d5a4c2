package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a remark left on a review. Comments without Replying start a
// thread; replies share the thread id of the comment they answer.
type Comment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Owner       primitive.ObjectID  `bson:"owner"`
	Review      primitive.ObjectID  `bson:"review"`
	Publication primitive.ObjectID  `bson:"publication"`
	Thread      primitive.ObjectID  `bson:"thread"`
	Replying    *primitive.ObjectID `bson:"replying,omitempty"`
	Filename    string              `bson:"filename,omitempty"`
	Anchor      *Anchor             `bson:"anchor,omitempty"`
	Contents    string              `bson:"contents"`
	Edited      bool                `bson:"edited"`
	Deleted     bool                `bson:"deleted"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

// Anchor pins a comment to a line range of a publication source file.
type Anchor struct {
	Start int `bson:"start" json:"start" validate:"min=1"`
	End   int `bson:"end" json:"end" validate:"gtefield=Start"`
}

// PopulatedComment is a comment loaded with its owner.
type PopulatedComment struct {
	Comment
	OwnerUser *User `bson:"-"`
}

type CommentView struct {
	ID        string   `json:"id"`
	Owner     UserView `json:"author"`
	Review    string   `json:"review"`
	Thread    string   `json:"thread"`
	Replying  string   `json:"replying,omitempty"`
	Filename  string   `json:"filename,omitempty"`
	Anchor    *Anchor  `json:"anchor,omitempty"`
	Contents  string   `json:"contents"`
	Edited    bool     `json:"edited"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

func (c *Comment) View(owner *User) CommentView {
	view := CommentView{
		ID:        c.ID.Hex(),
		Review:    c.Review.Hex(),
		Thread:    c.Thread.Hex(),
		Filename:  c.Filename,
		Anchor:    c.Anchor,
		Contents:  c.Contents,
		Edited:    c.Edited,
		CreatedAt: c.CreatedAt.UnixMilli(),
		UpdatedAt: c.UpdatedAt.UnixMilli(),
	}
	if c.Replying != nil {
		view.Replying = c.Replying.Hex()
	}
	if owner != nil {
		view.Owner = owner.View()
	}
	return view
}

// CommentResponse is the payload of endpoints returning one comment.
type CommentResponse struct {
	Comment CommentView `json:"comment"`
}

// CommentListResponse lists the comments of a review.
type CommentListResponse struct {
	Comments []CommentView `json:"comments"`
}
