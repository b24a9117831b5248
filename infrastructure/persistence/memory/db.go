package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"clubmanager/infrastructure/persistence/schema"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// DB is an in-process stand-in for the DynamoDB tables. A single lock guards
// every table so a transaction spanning tables is applied atomically.
type DB struct {
	mu     sync.RWMutex
	tables map[string]map[string]item
}

// NewDB creates an empty database
func NewDB() *DB {
	return &DB{tables: make(map[string]map[string]item)}
}

// Len returns the number of items in a table
func (db *DB) Len(table string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.tables[table])
}

// caller holds the lock
func (db *DB) table(name string) map[string]item {
	t, ok := db.tables[name]
	if !ok {
		t = make(map[string]item)
		db.tables[name] = t
	}
	return t
}

// canonicalKey renders the primary key of an item as a map key
func canonicalKey(t schema.Table, av item) (string, error) {
	parts := make([]string, 0, 2)
	for _, name := range t.KeyAttributes() {
		s, ok := av[name].(*types.AttributeValueMemberS)
		if !ok || s.Value == "" {
			return "", fmt.Errorf("%s: key attribute %q must be a non-empty string", t.Name, name)
		}
		parts = append(parts, s.Value)
	}
	return strings.Join(parts, "\x00"), nil
}

// position orders items within an index: range key first, then primary key
type position struct {
	rangeKey string
	primary  string
}

func (p position) less(o position) bool {
	if p.rangeKey != o.rangeKey {
		return p.rangeKey < o.rangeKey
	}
	return p.primary < o.primary
}

func positionOf(t schema.Table, idx schema.Index, av item) position {
	primary, _ := canonicalKey(t, av)
	return position{rangeKey: schema.StringAttr(av, idx.RangeKey), primary: primary}
}

// query returns matching items in index order starting after the cursor key
func (db *DB) query(t schema.Table, idx schema.Index, value string, after item) []item {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var start *position
	if after != nil {
		p := positionOf(t, idx, after)
		start = &p
	}

	var matches []item
	for _, av := range db.tables[t.Name] {
		if schema.StringAttr(av, idx.HashKey) != value {
			continue
		}
		if start != nil && !start.less(positionOf(t, idx, av)) {
			continue
		}
		matches = append(matches, av)
	}

	sort.Slice(matches, func(i, j int) bool {
		return positionOf(t, idx, matches[i]).less(positionOf(t, idx, matches[j]))
	})
	return matches
}
