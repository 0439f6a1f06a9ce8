// Package grammarstore disk-caches compiled (validated) grammars keyed by
// the SHA-256 of their YAML form, so a long-running host can fetch a
// grammar it stored earlier by its content key across restarts. Get
// re-parses and re-validates the stored YAML on every call. It sits
// strictly outside the parse hot path described in spec.md §5.
package grammarstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/parsanol/peg/pkg/grammar"
	"github.com/parsanol/peg/pkg/grammarfile"
)

var bucketName = []byte("grammars")

// Store is a bbolt-backed cache of grammar YAML documents. Put stores the
// grammarfile.Marshal YAML of the grammar it is given, keyed by the
// content hash of those bytes, and Get re-parses it: bbolt gives crash-
// safe persistence, not an in-memory index of live *grammar.Grammar
// values, so Get pays Unmarshal's validation cost on every call by
// design — a cached grammar is trusted to still be well-formed, but
// Validate is cheap enough relative to a database open that skipping it
// isn't worth the risk of serving a Grammar whose Atoms alias state the
// caller has since mutated.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) a Store backed by the bbolt file at
// path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("grammarstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("grammarstore: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Key returns the content-addressed key for a grammar's YAML form.
func Key(yamlDoc []byte) string {
	sum := sha256.Sum256(yamlDoc)
	return hex.EncodeToString(sum[:])
}

// Put stores g (marshaled to YAML) and returns its content key.
func (s *Store) Put(g *grammar.Grammar) (string, error) {
	doc, err := grammarfile.Marshal(g)
	if err != nil {
		return "", err
	}
	key := Key(doc)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), doc)
	})
	if err != nil {
		return "", fmt.Errorf("grammarstore: put %s: %w", key, err)
	}
	return key, nil
}

// Get loads and validates the grammar stored under key, or (nil, nil) if
// no such key exists.
func (s *Store) Get(key string) (*grammar.Grammar, error) {
	var doc []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			doc = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("grammarstore: get %s: %w", key, err)
	}
	if doc == nil {
		return nil, nil
	}
	return grammarfile.Unmarshal(doc)
}
