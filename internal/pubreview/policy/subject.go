package policy

import (
	"net/http"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject describes the resource a request targets, in the terms the
// ownership rules need.
type Subject struct {
	OwnerID       primitive.ObjectID
	OwnerRole     model.Role
	Collaborators []primitive.ObjectID
	// Floor is the lowest role a non-owner needs to see the resource at all.
	// Empty means no floor.
	Floor model.Role
	// Conceal answers requests below Floor with 404 instead of 401.
	Conceal bool
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Granted bool
	Code    int
	Message string
}

var (
	granted   = Decision{Granted: true}
	denied    = Decision{}
	concealed = Decision{Code: http.StatusNotFound, Message: model.MsgResourceNotFound}
)

// Evaluate applies the ownership rules. Checks run in this order: the
// destructive gate, ownership, collaboration, the visibility floor and
// finally the role requirement. When the requirement is above the default
// role the requester must also rank at least as high as the owner.
func Evaluate(requester *model.User, s Subject, pc Context) Decision {
	if pc.Destructive && !pc.Satisfied {
		return denied
	}

	if !s.OwnerID.IsZero() && requester.ID == s.OwnerID {
		return granted
	}

	if pc.Minimum != model.RoleAdministrator {
		for _, c := range s.Collaborators {
			if c == requester.ID {
				return granted
			}
		}
	}

	if s.Floor != "" && !model.MeetsOrExceeds(requester.Role, s.Floor) {
		if s.Conceal {
			return concealed
		}
		return denied
	}

	if !pc.Satisfied {
		return denied
	}
	if pc.Minimum.Rank() > model.RoleDefault.Rank() && !model.MeetsOrExceeds(requester.Role, s.OwnerRole) {
		return denied
	}
	return granted
}

// Apply turns a Decision into a Resolved value carrying data.
func Apply[T any](requester *model.User, d Decision, data T) Resolved[T] {
	if d.Granted {
		return Grant(requester, data)
	}
	return Resolved[T]{Code: d.Code, Message: d.Message}
}
