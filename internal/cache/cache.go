// Package cache persists a per-root map of processed files so re-running a
// batch skips inputs whose content and policy have not changed.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"
)

type DB struct {
	// Path relative to batch root -> xxhash of content and policy.
	Entries map[string]string `json:"entries"`
}

func defaultPath(root string) string {
	return filepath.Join(root, ".metastripcache.json")
}

// Key hashes file content together with the policy, so switching policy
// invalidates prior entries for the same bytes.
func Key(data []byte, policy string) string {
	h := xxhash.New()
	h.Write(data)
	h.WriteString(policy)
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], h.Sum64())
	return fmt.Sprintf("%x", sum)
}

func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(defaultPath(root), b, 0644)
}
