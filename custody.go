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

/*
Custody is a library that keeps the content keys and encrypted storage
locators of an ebook marketplace, and hands keys to buyers by re-encrypting
them under buyer-supplied public keys.
*/
package custody

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"

	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/data"
	"github.com/bookvault/custody-lib/id"
	"github.com/bookvault/custody-lib/io"
	"github.com/bookvault/custody-lib/vault"
)

// Error returned if the caller cannot be authenticated by the Identity Provider.
var ErrNotAuthenticated = errors.New("not authenticated")

// Error returned if the caller tries to access data they are not authorized for.
var ErrNotAuthorized = errors.New("not authorized")

// Custody is the entry point to the library. All main functionality is exposed
// through methods on this struct.
type Custody struct {
	ioProvider io.Provider
	idProvider id.Provider

	vault         vault.Vault
	locatorCipher crypto.LocatorCipherInterface
	rewrapper     crypto.RewrapperInterface
	random        crypto.RandomInterface
}

// New creates a new instance of Custody configured with the given providers.
func New(ioProvider io.Provider, idProvider id.Provider) Custody {
	random := &crypto.NativeRandom{}
	locatorCipher := crypto.NewLocatorCipher(random)

	return Custody{
		ioProvider:    ioProvider,
		idProvider:    idProvider,
		vault:         vault.NewVault(ioProvider),
		locatorCipher: &locatorCipher,
		rewrapper:     &crypto.RSARewrapper{},
		random:        random,
	}
}

// Upload registers a new book for the caller. A fresh content key is
// generated, the plaintext locator is sealed under it, the key goes into the
// vault, and the book is appended to the caller's catalogue.
//
// The returned ID is the unique identifier of the book. It is needed for all
// subsequent operations on the book.
//
// Required scopes:
// - Upload
func (c *Custody) Upload(token, title, locator string) (uuid.UUID, error) {
	identity, err := c.idProvider.GetIdentity(token)
	if err != nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	if !identity.Scopes.Contains(id.ScopeUpload) {
		return uuid.Nil, ErrNotAuthorized
	}

	bid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	key, err := crypto.NewLocatorKey(c.random)
	if err != nil {
		return uuid.Nil, err
	}

	sealedLocator, err := c.locatorCipher.Encrypt(key, locator)
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.vault.Create(bid, key); err != nil {
		return uuid.Nil, err
	}

	record := data.BookRecord{
		ID:            bid,
		AuthorID:      identity.ID,
		Title:         title,
		SealedLocator: sealedLocator,
		CreatedAt:     time.Now(),
	}
	if err := c.putBookRecord(&record, false); err != nil {
		return uuid.Nil, err
	}

	catalogue, err := c.getCatalogue(identity.ID)
	if err != nil {
		return uuid.Nil, err
	}
	catalogue.Add(record.ID, record.CreatedAt)
	if err := c.saveCatalogue(&catalogue); err != nil {
		return uuid.Nil, err
	}

	return bid, nil
}

// GetLocator fetches a book record and recovers the plaintext storage
// locator. Only the book's author can read the locator.
//
// The plaintext locator is sensitive data.
//
// Required scopes:
// - Read
func (c *Custody) GetLocator(token string, bid uuid.UUID) (string, error) {
	identity, err := c.idProvider.GetIdentity(token)
	if err != nil {
		return "", ErrNotAuthenticated
	}
	if !identity.Scopes.Contains(id.ScopeRead) {
		return "", ErrNotAuthorized
	}

	record, err := c.getBookRecord(bid)
	if err != nil {
		return "", err
	}
	if record.AuthorID != identity.ID {
		return "", ErrNotAuthorized
	}

	key, err := c.vault.GetKey(bid)
	if err != nil {
		return "", err
	}
	return c.locatorCipher.Decrypt(key, record.SealedLocator)
}

// UpdateLocator replaces a book's storage locator. The stored locator is
// first decrypted and compared against the candidate; if they are equal no
// rewrite happens. Otherwise the candidate is sealed under the book's
// existing key with a fresh nonce. A stored blob that no longer decrypts
// surfaces as crypto.ErrDecryption rather than being overwritten.
//
// Required scopes:
// - Update
func (c *Custody) UpdateLocator(token string, bid uuid.UUID, locator string) error {
	identity, err := c.idProvider.GetIdentity(token)
	if err != nil {
		return ErrNotAuthenticated
	}
	if !identity.Scopes.Contains(id.ScopeUpdate) {
		return ErrNotAuthorized
	}

	record, err := c.getBookRecord(bid)
	if err != nil {
		return err
	}
	if record.AuthorID != identity.ID {
		return ErrNotAuthorized
	}

	key, err := c.vault.GetKey(bid)
	if err != nil {
		return err
	}

	current, err := c.locatorCipher.Decrypt(key, record.SealedLocator)
	if err != nil {
		return err
	}
	if current == locator {
		return nil
	}

	sealedLocator, err := c.locatorCipher.Encrypt(key, locator)
	if err != nil {
		return err
	}
	record.SealedLocator = sealedLocator
	return c.putBookRecord(&record, true)
}

// Delete removes a book. The catalogue entry goes first, while the record
// still names the author, then the record, and the vault entry last: after
// any partial failure a repeated Delete can finish the remaining steps, and
// a dangling key entry is the only thing that can ever be left behind. A
// keyless book record, by contrast, could never be recovered. Deleting a
// book that does not exist is not an error.
//
// Required scopes:
// - Delete
func (c *Custody) Delete(token string, bid uuid.UUID) error {
	identity, err := c.idProvider.GetIdentity(token)
	if err != nil {
		return ErrNotAuthenticated
	}
	if !identity.Scopes.Contains(id.ScopeDelete) {
		return ErrNotAuthorized
	}

	record, err := c.getBookRecord(bid)
	if errors.Is(err, io.ErrNotFound) {
		// The catalogue entry is removed before the record, so a missing
		// record means only the vault entry can be left over. Delete it to
		// finish any interrupted deletion.
		return c.vault.Delete(bid)
	}
	if err != nil {
		return err
	}
	if record.AuthorID != identity.ID {
		return ErrNotAuthorized
	}

	catalogue, err := c.getCatalogue(record.AuthorID)
	if err != nil {
		return err
	}
	catalogue.Remove(bid)
	if err := c.saveCatalogue(&catalogue); err != nil {
		return err
	}

	if err := c.deleteBookRecord(bid); err != nil {
		return err
	}

	return c.vault.Delete(bid)
}

// GetCatalogue returns the ids of an author's books, newest first. Buyers use
// it to size a purchase request, so any authenticated identity can call it.
func (c *Custody) GetCatalogue(token string, author uuid.UUID) ([]uuid.UUID, error) {
	if _, err := c.idProvider.GetIdentity(token); err != nil {
		return nil, ErrNotAuthenticated
	}

	catalogue, err := c.getCatalogue(author)
	if err != nil {
		return nil, err
	}
	return catalogue.BookIDs(), nil
}
