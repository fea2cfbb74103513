// Copyright (C) 2024 Bookvault
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package io

import (
	"time"

	"github.com/gofrs/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bolt implements an IO Provider backed by the key/value database bbolt.
type Bolt struct {
	store       *bolt.DB
	entryBucket []byte
}

// NewBolt creates a new IO Provider that stores its data in the specified file.
func NewBolt(path string) (*Bolt, error) {
	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	entryBucket := []byte("custody")

	err = store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entryBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Bolt{store, entryBucket}, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.store.Close()
}

func (b *Bolt) Put(id uuid.UUID, dataType DataType, data []byte) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.entryBucket)
		if bucket.Get(key) != nil {
			return ErrAlreadyExists
		}
		return bucket.Put(key, data)
	})
}

func (b *Bolt) Get(id uuid.UUID, dataType DataType) ([]byte, error) {
	key := append(id.Bytes(), dataType.Bytes()...)
	var out []byte
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.entryBucket)
		out = append(out, bucket.Get(key)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (b *Bolt) Update(id uuid.UUID, dataType DataType, data []byte) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.entryBucket)
		if bucket.Get(key) == nil {
			return ErrNotFound
		}
		return bucket.Put(key, data)
	})
}

func (b *Bolt) Delete(id uuid.UUID, dataType DataType) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	return b.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.entryBucket).Delete(key)
	})
}
