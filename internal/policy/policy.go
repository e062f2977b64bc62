// Package policy holds the ownership rule applied before every post or comment mutation.
//
// A denied request must be indistinguishable from a request for an id that does not
// exist. Stores look resources up scoped by {id, author} and callers map both a missing
// resource and a Deny decision onto the same not-found error.
package policy

import "github.com/google/uuid"

type Decision int

const (
	Deny Decision = iota
	Allow
)

type Owned interface {
	Owner() uuid.UUID
}

func Authorize(actorID uuid.UUID, resource Owned) Decision {
	if actorID == uuid.Nil || resource == nil {
		return Deny
	}
	if resource.Owner() != actorID {
		return Deny
	}
	return Allow
}
