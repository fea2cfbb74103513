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

// Package vault holds custody of each book's symmetric key. It is the single
// source of truth for whether a book has a key: exactly one entry exists per
// book, created at upload time and deleted with the book.
package vault

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"

	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/io"
)

// Error returned if a second entry is created for a book that already has one.
var ErrAlreadyExists = errors.New("key entry already exists")

// Error returned if no entry exists for the requested book.
var ErrNotFound = errors.New("key entry not found")

// Error returned if an entry has an invalid key length.
var ErrInvalidKeyLength = fmt.Errorf("invalid key length, accepted key length is %d bytes", crypto.KeyLength)

// MissingKeysError reports which books in a batch request have no key entry.
type MissingKeysError struct {
	BookIDs []uuid.UUID
}

func (e *MissingKeysError) Error() string {
	ids := make([]string, 0, len(e.BookIDs))
	for _, id := range e.BookIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("no key entry for books [%s]", strings.Join(ids, ", "))
}

// entry is the stored form of a key. The key material is kept in a
// recoverable encoding, not hashed: it must later decrypt the locator or be
// re-encrypted for a buyer.
type entry struct {
	Key string `json:"key"`
}

// Vault stores one symmetric key per book in the IO Provider.
type Vault struct {
	ioProvider io.Provider
}

// NewVault creates a Vault on top of the given IO Provider.
func NewVault(ioProvider io.Provider) Vault {
	return Vault{ioProvider}
}

// Create stores the key for the given book. At most one entry can ever exist
// per book; a concurrent or repeated Create returns ErrAlreadyExists.
func (v *Vault) Create(bookID uuid.UUID, key []byte) error {
	if len(key) != crypto.KeyLength {
		return ErrInvalidKeyLength
	}

	data, err := json.Marshal(entry{Key: base64.StdEncoding.EncodeToString(key)})
	if err != nil {
		return err
	}

	err = v.ioProvider.Put(bookID, io.DataTypeVaultEntry, data)
	if errors.Is(err, io.ErrAlreadyExists) {
		return ErrAlreadyExists
	}
	return err
}

// GetKey returns the raw key for the given book.
func (v *Vault) GetKey(bookID uuid.UUID) ([]byte, error) {
	data, err := v.ioProvider.Get(bookID, io.DataTypeVaultEntry)
	if errors.Is(err, io.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeEntry(data)
}

// GetKeys fetches the keys for every given book. If any book has no entry,
// a *MissingKeysError naming all missing ids is returned and no keys are
// handed out: the caller decides whether a partial batch is tolerable, and
// the purchase protocol never is.
func (v *Vault) GetKeys(bookIDs []uuid.UUID) (map[uuid.UUID][]byte, error) {
	keys := make(map[uuid.UUID][]byte, len(bookIDs))
	missing := []uuid.UUID{}

	for _, bookID := range bookIDs {
		key, err := v.GetKey(bookID)
		switch {
		case err == nil:
			keys[bookID] = key
		case errors.Is(err, ErrNotFound):
			missing = append(missing, bookID)
		default:
			return nil, err
		}
	}

	if len(missing) > 0 {
		return nil, &MissingKeysError{BookIDs: missing}
	}
	return keys, nil
}

// Delete removes the entry for the given book. Deleting an absent entry is
// not an error, so cleanup after a partial upload failure can be retried.
func (v *Vault) Delete(bookID uuid.UUID) error {
	return v.ioProvider.Delete(bookID, io.DataTypeVaultEntry)
}

func decodeEntry(data []byte) ([]byte, error) {
	plain := entry{}
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(plain.Key)
	if err != nil {
		return nil, err
	}
	if len(key) != crypto.KeyLength {
		return nil, ErrInvalidKeyLength
	}
	return key, nil
}
