package etl

import (
	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
)

// Summary identifies a changed entity by value.
type Summary struct {
	Kind kind.Kind
	ID   string
	Name string
}

// SummaryOf returns the dedup key of r.
func SummaryOf(r row.Row) Summary {
	s := Summary{Kind: r.Kind(), ID: r.Key()}
	switch v := r.(type) {
	case row.FilmRow:
		s.Name = v.Title
	case row.GenreRow:
		s.Name = v.Name
	case row.PersonRow:
		s.Name = v.FullName
	}
	return s
}

// ChangeSet is the deduplicated outcome of expansion, in first-seen order.
type ChangeSet struct {
	// FilmKeys are the films whose documents must be re-materialized.
	FilmKeys []string
	// Entities are the changed genre or person rows, one per Summary.
	Entities []row.Row
}

// Expander accumulates detected rows into a ChangeSet.
type Expander struct {
	films      *keySet
	entitySeen map[Summary]struct{}
	entities   []row.Row
}

// NewExpander creates an empty expander.
func NewExpander() *Expander {
	return &Expander{
		films:      newKeySet(),
		entitySeen: make(map[Summary]struct{}),
	}
}

// Add folds rows into the change set. Film rows contribute their own key;
// genre and person rows contribute the films referencing them plus themselves.
// Adding the same rows again is a no-op.
func (e *Expander) Add(rows []row.Row) {
	for _, r := range rows {
		switch v := r.(type) {
		case row.FilmRow:
			e.films.add(v.ID)
		case row.GenreRow:
			e.addEntity(v)
			for _, id := range v.FilmIDs {
				e.films.add(id)
			}
		case row.PersonRow:
			e.addEntity(v)
			for _, id := range v.FilmIDs {
				e.films.add(id)
			}
		}
	}
}

// ChangeSet returns the accumulated change set.
func (e *Expander) ChangeSet() ChangeSet {
	return ChangeSet{FilmKeys: e.films.keys, Entities: e.entities}
}

func (e *Expander) addEntity(r row.Row) {
	s := SummaryOf(r)
	if _, ok := e.entitySeen[s]; ok {
		return
	}
	e.entitySeen[s] = struct{}{}
	e.entities = append(e.entities, r)
}

// keySet is an insertion-ordered set of source keys.
type keySet struct {
	seen map[string]struct{}
	keys []string
}

func newKeySet() *keySet {
	return &keySet{seen: make(map[string]struct{})}
}

func (s *keySet) add(key string) {
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.keys = append(s.keys, key)
}
