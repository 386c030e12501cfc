// Package store holds the client-side entity stores: one normalized
// collection per entity type plus the secondary indexes, derived views and
// locally persisted state the dashboard is built from.
//
// Store-wide consistency discipline: a mutation either replaces the local
// entry by id with the authoritative object the server returned, or
// invalidates the dependent index so the next read re-fetches. No state is
// synthesized locally from a request payload.
package store

import (
	"errors"

	"github.com/ClassPilot/ClassPilot/client"
)

// entity is anything stored in a normalized collection.
type entity interface {
	EntityID() uint
}

// collection is a normalized id→entity map that remembers insertion order,
// which approximates server order after a full replace.
type collection[T entity] struct {
	byID  map[uint]T
	order []uint
}

func newCollection[T entity]() collection[T] {
	return collection[T]{byID: map[uint]T{}}
}

// replaceAll drops the previous contents entirely; entries absent from items
// do not survive.
func (c *collection[T]) replaceAll(items []T) {
	c.byID = make(map[uint]T, len(items))
	c.order = c.order[:0]
	for _, it := range items {
		c.upsert(it)
	}
}

// upsert replaces the entry with a matching id or appends a new one. Updates
// never duplicate.
func (c *collection[T]) upsert(it T) {
	id := it.EntityID()
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = it
}

func (c *collection[T]) remove(id uint) {
	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *collection[T]) get(id uint) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) items() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *collection[T]) len() int { return len(c.byID) }

// errMsg prefers the server's message and falls back to a hardcoded one for
// transport failures.
func errMsg(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
