package memory

import (
	"context"
	"fmt"
	"maps"

	"clubmanager/application/ports"
	"clubmanager/infrastructure/persistence/schema"
	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Table is an EntityStore over one in-memory table
type Table[E any, K any] struct {
	db     *DB
	schema schema.Table
}

// NewTable creates an entity store backed by db
func NewTable[E any, K any](db *DB, t schema.Table) *Table[E, K] {
	return &Table[E, K]{db: db, schema: t}
}

func (t *Table[E, K]) canonical(key K) (string, error) {
	av, err := attributevalue.MarshalMap(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key: %w", err)
	}
	return canonicalKey(t.schema, av)
}

func (t *Table[E, K]) Get(ctx context.Context, key K) (E, error) {
	var entity E
	if err := ctx.Err(); err != nil {
		return entity, err
	}

	k, err := t.canonical(key)
	if err != nil {
		return entity, err
	}

	t.db.mu.RLock()
	av, ok := t.db.tables[t.schema.Name][k]
	t.db.mu.RUnlock()
	if !ok {
		return entity, apperrors.NewNotFoundError(string(t.schema.Kind))
	}

	if err := attributevalue.UnmarshalMap(av, &entity); err != nil {
		return entity, fmt.Errorf("failed to unmarshal %s: %w", t.schema.Kind, err)
	}
	return entity, nil
}

func (t *Table[E, K]) Put(ctx context.Context, entity E, cond ports.Precondition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", t.schema.Kind, err)
	}
	k, err := canonicalKey(t.schema, av)
	if err != nil {
		return err
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	items := t.db.table(t.schema.Name)
	if !satisfied(cond, items[k] != nil) {
		return apperrors.NewConditionFailedError(nil)
	}
	items[k] = av
	return nil
}

func (t *Table[E, K]) Update(ctx context.Context, key K, fields map[string]interface{}, cond ports.Precondition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}
	k, err := canonicalKey(t.schema, keyAV)
	if err != nil {
		return err
	}

	updates := make(item, len(fields))
	for name, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field %s: %w", name, err)
		}
		updates[name] = av
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	items := t.db.table(t.schema.Name)
	existing := items[k]
	if !satisfied(cond, existing != nil) {
		return apperrors.NewConditionFailedError(nil)
	}

	// Upsert like UpdateItem: a missing item starts from its key
	next := make(item, len(existing)+len(updates))
	maps.Copy(next, keyAV)
	maps.Copy(next, existing)
	maps.Copy(next, updates)
	items[k] = next
	return nil
}

func (t *Table[E, K]) QueryByIndex(ctx context.Context, index string, value string, opts ports.PageOptions) (ports.Page[E], error) {
	var page ports.Page[E]
	if err := ctx.Err(); err != nil {
		return page, err
	}

	idx, err := t.schema.ResolveIndex(index)
	if err != nil {
		return page, err
	}
	after, err := schema.DecodeCursor(opts.Cursor)
	if err != nil {
		return page, err
	}

	matches := t.db.query(t.schema, idx, value, after)
	if opts.Limit > 0 && len(matches) > int(opts.Limit) {
		matches = matches[:opts.Limit]
		last, err := t.schema.CursorOf(matches[len(matches)-1], idx)
		if err != nil {
			return page, err
		}
		if page.NextCursor, err = schema.EncodeCursor(last); err != nil {
			return page, err
		}
	}

	page.Items = make([]E, 0, len(matches))
	for _, av := range matches {
		var entity E
		if err := attributevalue.UnmarshalMap(av, &entity); err != nil {
			return ports.Page[E]{}, fmt.Errorf("failed to unmarshal %s: %w", t.schema.Kind, err)
		}
		page.Items = append(page.Items, entity)
	}
	return page, nil
}

func (t *Table[E, K]) Delete(ctx context.Context, key K) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k, err := t.canonical(key)
	if err != nil {
		return err
	}

	t.db.mu.Lock()
	delete(t.db.table(t.schema.Name), k)
	t.db.mu.Unlock()
	return nil
}

func satisfied(cond ports.Precondition, exists bool) bool {
	switch cond {
	case ports.PreconditionMustNotExist:
		return !exists
	case ports.PreconditionMustExist:
		return exists
	default:
		return true
	}
}
