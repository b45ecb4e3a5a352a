// Package index maps film, genre and person documents onto Redis JSON keys
// and FT indexes.
package index

import (
	"fmt"
	"strings"
)

// Name identifies a search index and its document keyspace.
type Name string

const (
	// Movies holds film documents.
	Movies Name = "movies"
	// Genres holds genre documents.
	Genres Name = "genres"
	// Persons holds person documents.
	Persons Name = "persons"
)

// Names lists every index in creation order.
func Names() []Name {
	return []Name{Movies, Genres, Persons}
}

// Keyspace derives document keys and index names under a storage prefix.
type Keyspace struct {
	prefix string
}

// NewKeyspace creates a keyspace. prefix is expected to end with ':'.
func NewKeyspace(prefix string) Keyspace {
	return Keyspace{prefix: prefix}
}

// DocKey is the Redis key of a document: <prefix><index>:<id>.
func (k Keyspace) DocKey(n Name, id string) string {
	return fmt.Sprintf("%s%s:%s", k.prefix, n, id)
}

// DocPrefix is the key prefix an FT index covers.
func (k Keyspace) DocPrefix(n Name) string {
	return fmt.Sprintf("%s%s:", k.prefix, n)
}

// IndexName is the FT index name.
func (k Keyspace) IndexName(n Name) string {
	return fmt.Sprintf("%s%s:idx", k.prefix, n)
}

// DocID strips the keyspace prefix from a document key.
func (k Keyspace) DocID(n Name, key string) string {
	return strings.TrimPrefix(key, k.DocPrefix(n))
}

// Key builds arbitrary keys under the storage prefix.
func (k Keyspace) Key(parts ...string) string {
	return k.prefix + strings.Join(parts, ":")
}
