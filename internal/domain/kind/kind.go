// Package kind enumerates the entity kinds tracked by the sync pipeline.
package kind

import (
	"fmt"
	"time"
)

// Kind is one of the source entity kinds. Each kind has its own watermark.
type Kind int

const (
	// Film is the primary kind: one search document per film.
	Film Kind = iota
	// Genre is a category kind; a change re-materializes every film in the genre.
	Genre
	// Person is a contributor kind; a change re-materializes every film the person worked on.
	Person
)

// MinWatermark is the watermark of a kind that has never been synchronized.
var MinWatermark = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// SyncOrder is the order kinds are processed within one pipeline run.
func SyncOrder() []Kind {
	return []Kind{Genre, Person, Film}
}

// String returns the persisted name of the kind.
func (k Kind) String() string {
	switch k {
	case Film:
		return "film_work"
	case Genre:
		return "genre"
	case Person:
		return "person"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Derived reports whether changes of this kind affect films indirectly.
func (k Kind) Derived() bool {
	return k == Genre || k == Person
}

// Parse maps a persisted name back to a Kind.
func Parse(s string) (Kind, error) {
	switch s {
	case "film_work", "film":
		return Film, nil
	case "genre":
		return Genre, nil
	case "person":
		return Person, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
