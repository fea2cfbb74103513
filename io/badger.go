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
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/gofrs/uuid"
)

// Badger implements an IO Provider backed by the key/value database badger.
type Badger struct {
	store *badger.DB
}

// NewBadger creates a new IO Provider that stores its data in the specified directory.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	store, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{store}, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.store.Close()
}

func (b *Badger) Put(id uuid.UUID, dataType DataType, data []byte) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	return b.store.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return ErrAlreadyExists
		case errors.Is(err, badger.ErrKeyNotFound):
			return txn.Set(key, data)
		default:
			return err
		}
	})
}

func (b *Badger) Get(id uuid.UUID, dataType DataType) ([]byte, error) {
	key := append(id.Bytes(), dataType.Bytes()...)
	var out []byte
	err := b.store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Badger) Update(id uuid.UUID, dataType DataType, data []byte) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	err := b.store.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (b *Badger) Delete(id uuid.UUID, dataType DataType) error {
	key := append(id.Bytes(), dataType.Bytes()...)
	return b.store.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}
