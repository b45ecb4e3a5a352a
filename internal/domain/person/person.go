package person

import "fmt"

// Role is the part a person played in a film.
type Role string

const (
	// RoleActor plays in a film.
	RoleActor Role = "actor"
	// RoleDirector directs a film.
	RoleDirector Role = "director"
	// RoleWriter writes a film.
	RoleWriter Role = "writer"
)

// ParseRole validates a role name from the source.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleActor, RoleDirector, RoleWriter:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Ref is a person embedded in a film document.
type Ref struct {
	ID       string
	FullName string
}

// Person is the person search document.
type Person struct {
	ID       string
	FullName string
	Roles    []Role
	FilmIDs  []string
}
