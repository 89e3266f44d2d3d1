// Package policy decides whether an actor may perform a request on a
// resource. Decisions are pure: callers resolve ownership beforehand.
package policy

import (
	"net/http"

	"github.com/GunarsK-portfolio/review-service/internal/models"
)

// Resource identifies a family of endpoints sharing one rule.
type Resource int

const (
	ResourceUsers Resource = iota
	ResourceMe
	ResourceCategory
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated means credentials are required (401).
	DenyUnauthenticated
	// DenyForbidden means the actor is known but not permitted (403).
	DenyForbidden
)

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool {
	return d == Allow
}

// Actor is the identity behind a request. The zero value is anonymous.
type Actor struct {
	Authenticated bool
	UserID        int64
	Role          models.Role
	IsSuperuser   bool
	IsStaff       bool
}

// ActorFromUser builds an authenticated actor. A nil user is anonymous.
func ActorFromUser(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{
		Authenticated: true,
		UserID:        u.ID,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		IsStaff:       u.IsStaff,
	}
}

// IsElevated is the single capability check for admin rights: the admin role
// or either operator flag.
func IsElevated(role models.Role, superuser, staff bool) bool {
	return role == models.RoleAdmin || superuser || staff
}

// Elevated reports whether the actor holds admin rights.
func (a Actor) Elevated() bool {
	return a.Authenticated && IsElevated(a.Role, a.IsSuperuser, a.IsStaff)
}

// Moderator reports whether the actor is a moderator.
func (a Actor) Moderator() bool {
	return a.Authenticated && a.Role == models.RoleModerator
}

// Request is the input to Decide. OwnerID is set for object-level checks on
// reviews and comments and left nil for collection-level checks.
type Request struct {
	Resource Resource
	Method   string
	Actor    Actor
	OwnerID  *int64
}

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Decide applies the access rules for r.
func Decide(r Request) Decision {
	safe := IsSafeMethod(r.Method)

	switch r.Resource {
	case ResourceUsers:
		return requireElevated(r.Actor)

	case ResourceMe:
		if !r.Actor.Authenticated {
			return DenyUnauthenticated
		}
		return Allow

	case ResourceCategory, ResourceGenre, ResourceTitle:
		if safe {
			return Allow
		}
		return requireElevated(r.Actor)

	case ResourceReview, ResourceComment:
		if safe {
			return Allow
		}
		if !r.Actor.Authenticated {
			return DenyUnauthenticated
		}
		if r.OwnerID == nil || *r.OwnerID == r.Actor.UserID || r.Actor.Moderator() || r.Actor.Elevated() {
			return Allow
		}
		return DenyForbidden
	}

	return DenyForbidden
}

func requireElevated(a Actor) Decision {
	if !a.Authenticated {
		return DenyUnauthenticated
	}
	if !a.Elevated() {
		return DenyForbidden
	}
	return Allow
}
