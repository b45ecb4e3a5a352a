package db

import "strings"

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// FieldOption tweaks a single schema field.
type FieldOption func(*IndexField)

// Sortable marks a TEXT or NUMERIC field as usable in SORTBY.
func Sortable() FieldOption {
	return func(f *IndexField) { f.Sortable = true }
}

// Separator overrides the TAG separator (default ",").
func Separator(sep string) FieldOption {
	return func(f *IndexField) { f.TagSeparator = sep }
}

// CaseSensitive keeps TAG values case-sensitive.
func CaseSensitive() FieldOption {
	return func(f *IndexField) { f.TagCaseSensitive = true }
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:        name,
			StorageType: StorageHash,
		},
	}
}

// OnJSON sets the index storage type to JSON.
func (b *IndexBuilder) OnJSON() *IndexBuilder {
	b.def.StorageType = StorageJSON
	return b
}

// OnHash sets the index storage type to HASH.
func (b *IndexBuilder) OnHash() *IndexBuilder {
	b.def.StorageType = StorageHash
	return b
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field to the index.
func (b *IndexBuilder) Numeric(name, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, alias, IndexFieldNumeric, opts)
}

// Tag adds a TAG field to the index.
func (b *IndexBuilder) Tag(name, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, alias, IndexFieldTag, opts)
}

// Text adds a TEXT field to the index.
func (b *IndexBuilder) Text(name, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(name, alias, IndexFieldText, opts)
}

func (b *IndexBuilder) field(name, alias string, typ IndexFieldType, opts []FieldOption) *IndexBuilder {
	f := IndexField{Name: name, Alias: alias, Type: typ}
	for _, opt := range opts {
		opt(&f)
	}
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name}
	if idx.StorageType != "" {
		parts = append(parts, "ON", string(idx.StorageType))
	}
	if len(idx.Prefixes) > 0 {
		parts = append(parts, "PREFIX")
		parts = append(parts, idx.Prefixes...)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name)
		if f.Alias != "" {
			parts = append(parts, "AS", f.Alias)
		}
		switch f.Type {
		case IndexFieldTag:
			parts = append(parts, "TAG")
		case IndexFieldNumeric:
			parts = append(parts, "NUMERIC")
		case IndexFieldText:
			parts = append(parts, "TEXT")
		}
		if f.Sortable {
			parts = append(parts, "SORTABLE")
		}
	}
	return strings.Join(parts, " ")
}
