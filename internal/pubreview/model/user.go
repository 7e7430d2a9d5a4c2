package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored account document.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	Username          string             `bson:"username"`
	Password          string             `bson:"password"`
	FirstName         string             `bson:"first_name"`
	LastName          string             `bson:"last_name"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty"`
	About             string             `bson:"about,omitempty"`
	Status            string             `bson:"status,omitempty"`
	Role              Role               `bson:"role"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

// UserView is the public projection of a user.
type UserView struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	About             string `json:"about,omitempty"`
	Status            string `json:"status,omitempty"`
	Role              Role   `json:"role"`
	CreatedAt         int64  `json:"createdAt"`
}

func (u *User) View() UserView {
	return UserView{
		ID:                u.ID.Hex(),
		Email:             u.Email,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ProfilePictureURL: u.ProfilePictureURL,
		About:             u.About,
		Status:            u.Status,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt.UnixMilli(),
	}
}

// UserPatch lists the profile fields that may be changed. Nil means unchanged.
type UserPatch struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	About     *string
	Status    *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Username == nil && p.FirstName == nil &&
		p.LastName == nil && p.About == nil && p.Status == nil
}

// UserResponse is the payload of endpoints returning a single user.
type UserResponse struct {
	User UserView `json:"user"`
}

// RoleResponse is the payload of the role endpoints.
type RoleResponse struct {
	Role Role `json:"role"`
}

// SessionResponse is returned by login and registration.
type SessionResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}
