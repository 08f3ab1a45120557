// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/rinkside/internal/metrics"
	"github.com/tomtom215/rinkside/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	docKeyPrefix    = "doc/"
	uniqueKeyPrefix = "uniq/"
)

// UniqueIndex declares a unique secondary index. Key returns the indexed
// value for a document; an empty value is not indexed.
type UniqueIndex[T models.Document] struct {
	Name string
	Key  func(doc T) string
}

// Collection stores documents of one type. T is a pointer type such as *models.Club.
type Collection[T models.Document] struct {
	db      *DB
	name    string
	indexes []UniqueIndex[T]
	now     func() time.Time
}

// NewCollection creates a collection named name on db.
func NewCollection[T models.Document](db *DB, name string, indexes ...UniqueIndex[T]) *Collection[T] {
	return &Collection[T]{
		db:      db,
		name:    name,
		indexes: indexes,
		now:     time.Now,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) docKey(id string) []byte {
	return []byte(docKeyPrefix + c.name + "/" + id)
}

func (c *Collection[T]) docPrefix() []byte {
	return []byte(docKeyPrefix + c.name + "/")
}

func (c *Collection[T]) uniqueKey(index, value string) []byte {
	return []byte(uniqueKeyPrefix + c.name + "/" + index + "/" + normalize(value))
}

// normalize makes unique values case- and whitespace-insensitive.
func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOp(c.name, op, time.Since(start), errLabel(err))
}

// Insert stores a new document. An empty ID is replaced with a new UUID.
func (c *Collection[T]) Insert(ctx context.Context, doc T) (err error) {
	start := time.Now()
	defer func() { c.observe("insert", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return err
	}
	if doc.DocumentID() == "" {
		doc.SetDocumentID(uuid.New().String())
	}
	doc.Stamp(c.now())

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrInvalid, c.name, err)
	}

	id := doc.DocumentID()
	return c.db.update(c.name, func(txn *badger.Txn) error {
		if _, err := txn.Get(c.docKey(id)); err == nil {
			return fmt.Errorf("%w: %s %s already exists", ErrConflict, c.name, id)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get %s: %w", c.name, err)
		}

		for _, idx := range c.indexes {
			if err := c.claim(txn, idx, idx.Key(doc), id); err != nil {
				return err
			}
		}

		if err := txn.Set(c.docKey(id), data); err != nil {
			return fmt.Errorf("set %s: %w", c.name, err)
		}
		return nil
	})
}

// claim points an index value at id, failing if another document owns it.
func (c *Collection[T]) claim(txn *badger.Txn, idx UniqueIndex[T], value, id string) error {
	if normalize(value) == "" {
		return nil
	}
	key := c.uniqueKey(idx.Name, value)
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("get %s index %s: %w", c.name, idx.Name, err)
	default:
		var owner string
		if err := item.Value(func(val []byte) error {
			owner = string(val)
			return nil
		}); err != nil {
			return fmt.Errorf("read %s index %s: %w", c.name, idx.Name, err)
		}
		if owner != id {
			return fmt.Errorf("%w: %s %s %q is already taken", ErrConflict, c.name, idx.Name, value)
		}
	}
	if err := txn.Set(key, []byte(id)); err != nil {
		return fmt.Errorf("set %s index %s: %w", c.name, idx.Name, err)
	}
	return nil
}

func (c *Collection[T]) read(txn *badger.Txn, id string) (T, error) {
	var doc T
	item, err := txn.Get(c.docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return doc, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("get %s: %w", c.name, err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return doc, fmt.Errorf("decode %s %s: %w", c.name, id, err)
	}
	return doc, nil
}

// Get returns the document with id.
func (c *Collection[T]) Get(ctx context.Context, id string) (doc T, err error) {
	start := time.Now()
	defer func() { c.observe("get", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return doc, err
	}
	err = c.db.db.View(func(txn *badger.Txn) error {
		var rerr error
		doc, rerr = c.read(txn, id)
		return rerr
	})
	return doc, err
}

// Replace overwrites an existing document, keeping its CreatedAt and
// moving any changed unique index entries.
func (c *Collection[T]) Replace(ctx context.Context, doc T) (err error) {
	start := time.Now()
	defer func() { c.observe("replace", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return err
	}
	return c.db.update(c.name, func(txn *badger.Txn) error {
		return c.replaceIn(txn, doc)
	})
}

func (c *Collection[T]) replaceIn(txn *badger.Txn, doc T) error {
	id := doc.DocumentID()
	if id == "" {
		return fmt.Errorf("%w: %s replace without id", ErrInvalid, c.name)
	}
	old, err := c.read(txn, id)
	if err != nil {
		return err
	}
	doc.SetCreatedTime(old.CreatedTime())
	doc.Stamp(c.now())

	for _, idx := range c.indexes {
		oldVal, newVal := normalize(idx.Key(old)), normalize(idx.Key(doc))
		if oldVal == newVal {
			continue
		}
		if err := c.claim(txn, idx, newVal, id); err != nil {
			return err
		}
		if oldVal != "" {
			if err := txn.Delete(c.uniqueKey(idx.Name, oldVal)); err != nil {
				return fmt.Errorf("delete %s index %s: %w", c.name, idx.Name, err)
			}
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrInvalid, c.name, err)
	}
	if err := txn.Set(c.docKey(id), data); err != nil {
		return fmt.Errorf("set %s: %w", c.name, err)
	}
	return nil
}

// Delete removes the document with id and its index entries.
func (c *Collection[T]) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.observe("delete", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return err
	}
	return c.db.update(c.name, func(txn *badger.Txn) error {
		return c.deleteIn(txn, id)
	})
}

func (c *Collection[T]) deleteIn(txn *badger.Txn, id string) error {
	old, err := c.read(txn, id)
	if err != nil {
		return err
	}
	for _, idx := range c.indexes {
		if v := normalize(idx.Key(old)); v != "" {
			if err := txn.Delete(c.uniqueKey(idx.Name, v)); err != nil {
				return fmt.Errorf("delete %s index %s: %w", c.name, idx.Name, err)
			}
		}
	}
	if err := txn.Delete(c.docKey(id)); err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	return nil
}

// List returns all documents accepted by filter (nil accepts all), in key order.
func (c *Collection[T]) List(ctx context.Context, filter func(T) bool) (docs []T, err error) {
	start := time.Now()
	defer func() { c.observe("list", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return nil, err
	}
	docs = make([]T, 0)
	err = c.db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = c.docPrefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := c.docPrefix()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s %s: %w", c.name, it.Item().Key(), err)
			}
			if filter == nil || filter(doc) {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of documents accepted by filter.
func (c *Collection[T]) Count(ctx context.Context, filter func(T) bool) (int, error) {
	docs, err := c.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Exists reports whether any document matches filter.
func (c *Collection[T]) Exists(ctx context.Context, filter func(T) bool) (bool, error) {
	n, err := c.Count(ctx, filter)
	return n > 0, err
}

// FindUnique returns the document owning value in the named unique index.
func (c *Collection[T]) FindUnique(ctx context.Context, index, value string) (doc T, err error) {
	start := time.Now()
	defer func() { c.observe("find_unique", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return doc, err
	}
	if normalize(value) == "" {
		return doc, fmt.Errorf("%s %s %q: %w", c.name, index, value, ErrNotFound)
	}
	err = c.db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.uniqueKey(index, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s %s %q: %w", c.name, index, value, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get %s index %s: %w", c.name, index, err)
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		var rerr error
		doc, rerr = c.read(txn, id)
		return rerr
	})
	return doc, err
}

// Update reads the document with id, applies fn and writes the result in
// one transaction. fn may run more than once when the transaction conflicts
// with a concurrent write and is retried; each run gets a freshly read copy.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(doc T) error) (doc T, err error) {
	start := time.Now()
	defer func() { c.observe("update", start, err) }()

	if err := c.db.check(ctx); err != nil {
		return doc, err
	}
	err = c.db.update(c.name, func(txn *badger.Txn) error {
		cur, err := c.read(txn, id)
		if err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}
		cur.SetDocumentID(id)
		if err := c.replaceIn(txn, cur); err != nil {
			return err
		}
		doc = cur
		return nil
	})
	return doc, err
}

// GetTx reads a document inside tx.
func (c *Collection[T]) GetTx(tx *Tx, id string) (T, error) {
	return c.read(tx.txn, id)
}

// ReplaceTx overwrites an existing document inside tx.
func (c *Collection[T]) ReplaceTx(tx *Tx, doc T) error {
	return c.replaceIn(tx.txn, doc)
}

// DeleteTx removes a document and its index entries inside tx.
func (c *Collection[T]) DeleteTx(tx *Tx, id string) error {
	return c.deleteIn(tx.txn, id)
}
