package schema

import (
	"fmt"

	"clubmanager/application/ports"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Index describes a queryable key. Name is empty when the index is the table's primary key.
type Index struct {
	Name     string
	HashKey  string
	RangeKey string
}

// IsPrimary reports whether queries go against the table itself
func (i Index) IsPrimary() bool {
	return i.Name == ""
}

// Table describes where one entity kind is stored and how it is keyed
type Table struct {
	Kind     ports.EntityKind
	Name     string
	HashKey  string
	RangeKey string
	// Indexes are keyed by logical name
	Indexes map[string]Index
}

// ClubsTable keys clubs by id with visibility and manager indexes
func ClubsTable(name, visibilityIndex, managerIndex string) Table {
	return Table{
		Kind:    ports.KindClub,
		Name:    name,
		HashKey: "id",
		Indexes: map[string]Index{
			ports.IndexClubsByVisibility: {Name: visibilityIndex, HashKey: "visibility", RangeKey: "id"},
			ports.IndexClubsByManager:    {Name: managerIndex, HashKey: "managerId", RangeKey: "id"},
		},
	}
}

// MembersTable keys members by (clubId, userId) with a by-user index
func MembersTable(name, userIndex string) Table {
	return Table{
		Kind:     ports.KindMember,
		Name:     name,
		HashKey:  "clubId",
		RangeKey: "userId",
		Indexes: map[string]Index{
			ports.IndexMembersByClub: {HashKey: "clubId", RangeKey: "userId"},
			ports.IndexMembersByUser: {Name: userIndex, HashKey: "userId", RangeKey: "clubId"},
		},
	}
}

// ResolveIndex maps a logical index name to its definition
func (t Table) ResolveIndex(logical string) (Index, error) {
	idx, ok := t.Indexes[logical]
	if !ok {
		return Index{}, fmt.Errorf("table %s has no index %q", t.Name, logical)
	}
	return idx, nil
}

// KeyAttributes lists the primary key attribute names
func (t Table) KeyAttributes() []string {
	if t.RangeKey == "" {
		return []string{t.HashKey}
	}
	return []string{t.HashKey, t.RangeKey}
}

// KeyOf projects an item onto its primary key
func (t Table) KeyOf(item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	return project(item, t.KeyAttributes())
}

// CursorOf projects an item onto the attributes needed to resume a query on idx
func (t Table) CursorOf(item map[string]types.AttributeValue, idx Index) (map[string]types.AttributeValue, error) {
	names := t.KeyAttributes()
	for _, name := range []string{idx.HashKey, idx.RangeKey} {
		if name != "" && !contains(names, name) {
			names = append(names, name)
		}
	}
	return project(item, names)
}

func project(item map[string]types.AttributeValue, names []string) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, len(names))
	for _, name := range names {
		av, ok := item[name]
		if !ok {
			return nil, fmt.Errorf("item is missing key attribute %q", name)
		}
		key[name] = av
	}
	return key, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Registry resolves entity kinds to tables
type Registry struct {
	tables map[ports.EntityKind]Table
}

// NewRegistry creates a registry from table definitions
func NewRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[ports.EntityKind]Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Kind] = t
	}
	return r
}

// Table returns the table for an entity kind
func (r *Registry) Table(kind ports.EntityKind) (Table, error) {
	t, ok := r.tables[kind]
	if !ok {
		return Table{}, fmt.Errorf("no table registered for entity kind %q", kind)
	}
	return t, nil
}
