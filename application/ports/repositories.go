package ports

import (
	"context"

	"clubmanager/domain/club"
)

// EntityKind names a stored entity type. Each kind is backed by its own table.
type EntityKind string

const (
	KindClub   EntityKind = "club"
	KindMember EntityKind = "member"
)

// Logical index names. Adapters map them to physical index names, or to the
// table's own key when the index is the primary key.
const (
	IndexClubsByVisibility = "ClubsByVisibility"
	IndexClubsByManager    = "ClubsByManager"
	IndexMembersByClub     = "MembersByClub"
	IndexMembersByUser     = "MembersByUser"
)

// Precondition guards a single write
type Precondition int

const (
	PreconditionNone Precondition = iota
	PreconditionMustNotExist
	PreconditionMustExist
)

func (p Precondition) String() string {
	switch p {
	case PreconditionMustNotExist:
		return "must-not-exist"
	case PreconditionMustExist:
		return "must-exist"
	default:
		return "none"
	}
}

// PageOptions bounds an index query. A zero Limit means no page size is requested.
type PageOptions struct {
	Limit  int32
	Cursor string
}

// Page is one page of an index query. NextCursor is opaque and empty on the last page.
type Page[E any] struct {
	Items      []E    `json:"items"`
	NextCursor string `json:"cursor,omitempty"`
}

// EntityStore is the key-value port over one entity kind.
// Provider errors are returned as-is; nothing is retried at this layer.
type EntityStore[E any, K any] interface {
	// Get returns a NotFound AppError when the key is absent
	Get(ctx context.Context, key K) (E, error)

	// Put writes the entity. A failed precondition returns an AtomicWriteError
	// with a single ConditionalCheckFailed reason.
	Put(ctx context.Context, entity E, cond Precondition) error

	// Update sets the given attributes on an existing item
	Update(ctx context.Context, key K, fields map[string]interface{}, cond Precondition) error

	// QueryByIndex returns entities whose index hash key equals value, in index order
	QueryByIndex(ctx context.Context, index string, value string, opts PageOptions) (Page[E], error)

	// Delete removes the item. Deleting an absent key is not an error.
	Delete(ctx context.Context, key K) error
}

// ClubStore stores clubs keyed by id
type ClubStore = EntityStore[club.Club, club.Key]

// MemberStore stores members keyed by (clubId, userId)
type MemberStore = EntityStore[club.Member, club.MemberKey]
