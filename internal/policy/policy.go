// Package policy holds the authorization decisions for seeds.
//
// Every read path and every mutation routes its ownership, role and status
// checks through these functions. They perform no I/O.
package policy

import "github.com/kwiens/seeds/internal/models"

// Actor is the resolved identity of a caller. A nil *Actor is anonymous.
type Actor struct {
	UserID string
	Role   models.Role
}

// IsAdmin reports whether the actor holds the admin role. Nil actors never do.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.UserID != "" && a.Role == models.RoleAdmin
}

// Authenticated reports whether the actor is signed in
func (a *Actor) Authenticated() bool {
	return a != nil && a.UserID != ""
}

// Subject is the part of a seed the policy decides on
type Subject interface {
	OwnerID() string
	LifecycleStatus() models.SeedStatus
}

// CanEdit reports whether actor may edit seed content: the creator or any admin.
func CanEdit(actor *Actor, seed Subject) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.UserID == seed.OwnerID() || actor.Role == models.RoleAdmin
}

// CanViewDetail reports whether actor may open the seed's detail page.
// Pending seeds are unlisted rather than private; only archived seeds are hidden.
func CanViewDetail(actor *Actor, seed Subject) bool {
	return seed.LifecycleStatus() != models.SeedStatusArchived || CanEdit(actor, seed)
}

// CanViewInListings reports whether seed belongs in actor's feed or map:
// approved seeds, plus the actor's own seeds that are not archived.
// Admins get no extra visibility here; review happens in the admin view.
func CanViewInListings(seed Subject, actor *Actor) bool {
	switch seed.LifecycleStatus() {
	case models.SeedStatusApproved:
		return true
	case models.SeedStatusArchived:
		return false
	}
	return actor.Authenticated() && actor.UserID == seed.OwnerID()
}

// SupporterEmailVisibility reports whether actor may see supporter email addresses
func SupporterEmailVisibility(actor *Actor, seed Subject) bool {
	return CanEdit(actor, seed)
}

// ListingViewerID returns the owner id listings should include non-approved
// seeds for, or "" when only approved seeds are visible.
func ListingViewerID(actor *Actor) string {
	if !actor.Authenticated() {
		return ""
	}
	return actor.UserID
}
