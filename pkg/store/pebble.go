package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"keepnote/pkg/logger"
	"keepnote/pkg/models"
)

// Sentinel errors for the two conditional primitives. ErrNotFound is a
// data-integrity signal: a transition targeted a thread whose record was
// never created, so retrying cannot succeed.
var (
	ErrNotFound = errors.New("issue record not found")
	ErrExists   = errors.New("issue record already exists")
)

var (
	db *pebble.DB

	// mu serializes conditional mutations so the existence check and the
	// dependent write commit as one unit.
	mu sync.Mutex
)

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package. cacheBytes > 0 sizes the
// block cache.
func Open(path string, cacheBytes int64) error {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		if err := db.Close(); err != nil {
			return err
		}
		db = nil
	}
	opts := &pebble.Options{}
	if cacheBytes > 0 {
		opts.Cache = pebble.NewCache(cacheBytes)
		defer opts.Cache.Unref()
	}
	logger.Info("opening_pebble_db", "path", path)
	d, err := pebble.Open(path, opts)
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	db = d
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	mu.Lock()
	defer mu.Unlock()
	return db != nil
}

func recordKey(pk string) []byte {
	return []byte("issue:" + pk)
}

// statusIdxKey builds the secondary-index key ordering issues of a given
// status by last-activity time. The zero-padded timestamp keeps byte order
// equal to numeric order.
func statusIdxKey(status string, lastMessageAt int64, pk string) []byte {
	return []byte(fmt.Sprintf("idx:status:%s:%020d:%s", status, lastMessageAt, pk))
}

// InsertIssue writes a new issue record and its index entry iff no record
// exists for the key. A conflicting insert returns ErrExists and leaves the
// stored record untouched.
func InsertIssue(iss models.Issue) error {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	key := recordKey(iss.PK)
	_, closer, err := db.Get(key)
	if err == nil {
		if closer != nil {
			_ = closer.Close()
		}
		return ErrExists
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}
	data, err := json.Marshal(iss)
	if err != nil {
		return fmt.Errorf("failed to marshal issue: %w", err)
	}
	b := db.NewBatch()
	defer b.Close()
	if err := b.Set(key, data, nil); err != nil {
		return err
	}
	if err := b.Set(statusIdxKey(iss.Status, iss.LastMessageAt, iss.PK), []byte(iss.PK), nil); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		logger.Error("insert_issue_failed", "pk", iss.PK, "error", err)
		return err
	}
	return nil
}

// UpdateIssue applies mutate to the stored record iff it exists, rewriting
// the index entry when status or activity time changed. A missing record
// returns ErrNotFound without creating anything.
func UpdateIssue(pk string, mutate func(*models.Issue)) error {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	key := recordKey(pk)
	v, closer, err := db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	val := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	var iss models.Issue
	if err := json.Unmarshal(val, &iss); err != nil {
		return fmt.Errorf("invalid issue record %s: %w", pk, err)
	}
	oldIdx := statusIdxKey(iss.Status, iss.LastMessageAt, iss.PK)
	mutate(&iss)
	data, err := json.Marshal(iss)
	if err != nil {
		return fmt.Errorf("failed to marshal issue: %w", err)
	}
	newIdx := statusIdxKey(iss.Status, iss.LastMessageAt, iss.PK)

	b := db.NewBatch()
	defer b.Close()
	if !bytes.Equal(oldIdx, newIdx) {
		if err := b.Delete(oldIdx, nil); err != nil {
			return err
		}
	}
	if err := b.Set(newIdx, []byte(iss.PK), nil); err != nil {
		return err
	}
	if err := b.Set(key, data, nil); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		logger.Error("update_issue_failed", "pk", pk, "error", err)
		return err
	}
	return nil
}

// GetIssue returns the stored record for a composite key.
func GetIssue(pk string) (models.Issue, error) {
	mu.Lock()
	defer mu.Unlock()
	var iss models.Issue
	if db == nil {
		return iss, fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get(recordKey(pk))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return iss, ErrNotFound
		}
		return iss, err
	}
	val := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	if err := json.Unmarshal(val, &iss); err != nil {
		return iss, fmt.Errorf("invalid issue record %s: %w", pk, err)
	}
	return iss, nil
}

// ListIssuesByStatus returns all records with the given status ordered by
// last-activity time ascending, via the secondary index.
func ListIssuesByStatus(status string) ([]models.Issue, error) {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	prefix := []byte("idx:status:" + status + ":")
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Issue
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		pk := append([]byte(nil), iter.Value()...)
		v, closer, gerr := db.Get(recordKey(string(pk)))
		if gerr != nil {
			if errors.Is(gerr, pebble.ErrNotFound) {
				// stale index entry; skip
				continue
			}
			return nil, gerr
		}
		val := append([]byte(nil), v...)
		if closer != nil {
			_ = closer.Close()
		}
		var iss models.Issue
		if uerr := json.Unmarshal(val, &iss); uerr != nil {
			return nil, fmt.Errorf("invalid issue record %s: %w", pk, uerr)
		}
		out = append(out, iss)
	}
	return out, iter.Error()
}

// CountIssues returns the number of stored issue records.
func CountIssues() (int, error) {
	mu.Lock()
	defer mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("pebble not opened; call store.Open first")
	}
	prefix := []byte("issue:")
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	n := 0
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		n++
	}
	return n, iter.Error()
}
