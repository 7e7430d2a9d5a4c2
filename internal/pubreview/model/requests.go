package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// None is used for request parts an operation does not read.
type None struct{}

type IDParams struct {
	ID string `param:"id" validate:"required,mongodb"`
}

func (p *IDParams) Normalize() { p.ID = strings.TrimSpace(p.ID) }

// ObjectID returns the parsed id. The id has been validated by the time it is
// called, so a parse failure yields the zero id.
func (p IDParams) ObjectID() primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(p.ID)
	return id
}

type UsernameParams struct {
	Username string `param:"username" validate:"required,min=1,max=50"`
}

func (p *UsernameParams) Normalize() { p.Username = strings.TrimSpace(p.Username) }

func (p UsernameParams) UserKey() string { return p.Username }

// ModeQuery selects whether a :username path segment is a username or an id.
type ModeQuery struct {
	Mode string `query:"mode" validate:"omitempty,oneof=username id"`
}

func (q *ModeQuery) Normalize() { q.Mode = strings.ToLower(strings.TrimSpace(q.Mode)) }

func (q ModeQuery) LookupByID() bool { return q.Mode == "id" }

type PaginationQuery struct {
	Skip int64 `query:"skip" validate:"min=0"`
	Take int64 `query:"take" validate:"min=0,max=200"`
}

func (q *PaginationQuery) Normalize() {
	if q.Take == 0 {
		q.Take = 50
	}
}

type PublicationParams struct {
	Username string `param:"username" validate:"required,min=1,max=50"`
	Name     string `param:"name" validate:"required,min=1,max=50"`
}

func (p *PublicationParams) Normalize() {
	p.Username = strings.TrimSpace(p.Username)
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
}

func (p PublicationParams) UserKey() string { return p.Username }
func (p PublicationParams) PublicationName() string { return p.Name }

type PublicationQuery struct {
	Mode     string `query:"mode" validate:"omitempty,oneof=username id"`
	Revision string `query:"revision" validate:"omitempty,max=20"`
}

func (q *PublicationQuery) Normalize() {
	q.Mode = strings.ToLower(strings.TrimSpace(q.Mode))
	q.Revision = strings.TrimSpace(q.Revision)
}

func (q PublicationQuery) LookupByID() bool { return q.Mode == "id" }
func (q PublicationQuery) PublicationRevision() string { return q.Revision }

type PublicationListQuery struct {
	PaginationQuery
	Current string `query:"current" validate:"omitempty,oneof=true false"`
}

// CurrentOnly returns nil when no filter on current revisions was requested.
func (q PublicationListQuery) CurrentOnly() *bool {
	if q.Current == "" {
		return nil
	}
	v := q.Current == "true"
	return &v
}

type CreatePublicationReq struct {
	Name          string   `json:"name" validate:"required,min=1,max=50,excludesall=/\\ "`
	Revision      string   `json:"revision" validate:"required,min=1,max=20"`
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Introduction  string   `json:"introduction" validate:"max=5000"`
	About         string   `json:"about" validate:"max=500"`
	Collaborators []string `json:"collaborators" validate:"max=20,dive,required,max=50"`
}

func (r *CreatePublicationReq) Normalize() {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	r.Revision = strings.TrimSpace(r.Revision)
	r.Title = strings.TrimSpace(r.Title)
	r.Collaborators = trimAll(r.Collaborators)
}

type PatchPublicationReq struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Introduction  *string   `json:"introduction" validate:"omitempty,max=5000"`
	About         *string   `json:"about" validate:"omitempty,max=500"`
	Changelog     *string   `json:"changelog" validate:"omitempty,max=5000"`
	Pinned        *bool     `json:"pinned"`
	Collaborators *[]string `json:"collaborators" validate:"omitempty,max=20,dive,required,max=50"`
}

func (r *PatchPublicationReq) Normalize() {
	if r.Collaborators != nil {
		trimmed := trimAll(*r.Collaborators)
		r.Collaborators = &trimmed
	}
}

type RevisePublicationReq struct {
	Revision  string `json:"revision" validate:"required,min=1,max=20"`
	Changelog string `json:"changelog" validate:"max=5000"`
}

func (r *RevisePublicationReq) Normalize() {
	r.Revision = strings.TrimSpace(r.Revision)
}

type CreateCommentReq struct {
	Contents string  `json:"contents" validate:"required,min=1,max=10000"`
	Filename string  `json:"filename" validate:"max=260"`
	Anchor   *Anchor `json:"anchor" validate:"omitempty"`
	Replying string  `json:"replying" validate:"omitempty,mongodb"`
}

func (r *CreateCommentReq) Normalize() {
	r.Contents = strings.TrimSpace(r.Contents)
	r.Filename = strings.TrimSpace(r.Filename)
	r.Replying = strings.TrimSpace(r.Replying)
}

type PatchCommentReq struct {
	Contents string `json:"contents" validate:"required,min=1,max=10000"`
}

func (r *PatchCommentReq) Normalize() { r.Contents = strings.TrimSpace(r.Contents) }

type PatchUserReq struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username" validate:"omitempty,min=1,max=50,alphanum"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=32"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=32"`
	About     *string `json:"about" validate:"omitempty,max=500"`
	Status    *string `json:"status" validate:"omitempty,max=100"`
}

func (r PatchUserReq) Patch() UserPatch {
	return UserPatch{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		About:     r.About,
		Status:    r.Status,
	}
}

type PatchRoleReq struct {
	Role string `json:"role" validate:"required,role"`
}

func (r *PatchRoleReq) Normalize() { r.Role = strings.ToLower(strings.TrimSpace(r.Role)) }

type RegisterReq struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=1,max=50,alphanum"`
	Password  string `json:"password" validate:"required,min=12,max=72"`
	FirstName string `json:"firstName" validate:"required,min=1,max=32"`
	LastName  string `json:"lastName" validate:"required,min=1,max=32"`
}

func (r *RegisterReq) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type LoginReq struct {
	Username string `json:"username" validate:"required,min=1,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginReq) Normalize() { r.Username = strings.TrimSpace(r.Username) }

// UserFeedQuery pages through the feed of the user named in the path.
type UserFeedQuery struct {
	ModeQuery
	PaginationQuery
}

func (q *UserFeedQuery) Normalize() {
	q.ModeQuery.Normalize()
	q.PaginationQuery.Normalize()
}

type ActivityListQuery struct {
	PaginationQuery
	Owner string `query:"owner" validate:"omitempty,mongodb"`
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
