// Package store persists the offence register in a durable key-value slot.
//
// The default backend is BoltDB: an embedded store keeping all data in a
// single file, so no external database process is required. Each slot is one
// key in one bucket holding a whole JSON value; every mutation replaces the
// value in a single Update transaction, which gives the read-modify-write
// atomicity the register needs without any partial-write handling.
package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/frscdev/offence-register/internal/models"
)

const bucketName = "register"

// BoltStore wraps a BoltDB database holding the register slots.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a BoltDB database at the given path and
// ensures the register bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *BoltStore) get(key string, out interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, out)
	})
}

func (s *BoltStore) put(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

// LoadOffences returns the persisted offence list.
// Returns ErrNotFound when the slot has never been written, which signals
// the caller to install the seed records.
func (s *BoltStore) LoadOffences(ctx context.Context) ([]models.Offence, error) {
	var offences []models.Offence
	if err := s.get(OffencesKey, &offences); err != nil {
		return nil, err
	}
	if offences == nil {
		offences = []models.Offence{}
	}
	return offences, nil
}

// SaveOffences replaces the whole persisted offence list.
func (s *BoltStore) SaveOffences(ctx context.Context, offences []models.Offence) error {
	return s.put(OffencesKey, offences)
}

// LoadSession returns the persisted identity, or ErrNotFound when logged out.
func (s *BoltStore) LoadSession(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	if err := s.get(SessionKey, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// SaveSession persists the logged-in identity.
func (s *BoltStore) SaveSession(ctx context.Context, identity models.Identity) error {
	return s.put(SessionKey, identity)
}

// ClearSession removes the persisted identity. Deleting an absent key is a
// no-op, so logout is safe to repeat.
func (s *BoltStore) ClearSession(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(SessionKey))
	})
}

// LoadSequence returns the persisted id counter, or ErrNotFound.
func (s *BoltStore) LoadSequence(ctx context.Context) (int, error) {
	var seq int
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(SequenceKey))
		if v == nil {
			return ErrNotFound
		}
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return err
		}
		seq = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// SaveSequence persists the id counter.
func (s *BoltStore) SaveSequence(ctx context.Context, seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(SequenceKey), []byte(strconv.Itoa(seq)))
	})
}
