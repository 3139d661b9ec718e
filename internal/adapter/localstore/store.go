package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SchemaVersion is written into every blob envelope. The original device
// storage had no versioning; the explicit field is the migration hook it
// lacked.
const SchemaVersion = 1

// Storage keys, one JSON blob each.
const (
	KeyMenuItems            = "menu_items"
	KeyCategories           = "categories"
	KeyOrders               = "orders"
	KeyOrderCounter         = "order_counter"
	KeySubUsers             = "sub_users"
	KeyStoreSettings        = "store_settings"
	KeyLoyaltyCustomers     = "loyalty_customers"
	KeyLoyaltyTransactions  = "loyalty_transactions"
	KeyLoyaltySettings      = "loyalty_settings"
	KeyQuizQuestions        = "quiz_questions"
	KeyPromoCodes           = "promo_codes"
	KeyQuizAttempts         = "quiz_attempts"
	KeyNotificationSettings = "notification_settings"
)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// Store persists independently keyed JSON blobs under a directory, one file
// per key.
type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the blob at key into out. Returns false when the key is absent.
func (s *Store) Load(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if env.SchemaVersion > SchemaVersion {
		return false, fmt.Errorf("blob %s has schema version %d, newer than supported %d", key, env.SchemaVersion, SchemaVersion)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s data: %w", key, err)
	}
	return true, nil
}

// Save writes the blob atomically (temp file plus rename).
func (s *Store) Save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	blob, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
