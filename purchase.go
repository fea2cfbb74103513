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

package custody

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/bookvault/custody-lib/data"
	"github.com/bookvault/custody-lib/id"
	"github.com/bookvault/custody-lib/vault"
)

// Error returned if the number of supplied public keys does not match the
// size of the author's catalogue.
var ErrCountMismatch = errors.New("public key count does not match catalogue size")

// Error returned if a catalogued book is missing its vault entry or record.
// This means stored state is internally inconsistent; the purchase is aborted
// with no partial output.
var ErrIntegrity = errors.New("inconsistent book data")

// Purchase buys an author's entire catalogue in one round trip. The buyer
// supplies one public key per book, in catalogue order (newest book first, as
// returned by GetCatalogue), and receives every content key wrapped under the
// matching public key together with the book's sealed locator.
//
// The protocol is all or nothing. The key count is checked before anything
// else, every public key must parse, and every catalogued book must have both
// its vault entry and its record; any failure aborts the whole purchase.
//
// Required scopes:
// - Purchase
func (c *Custody) Purchase(token string, author uuid.UUID, publicKeys []string) (data.PurchaseBundle, error) {
	identity, err := c.idProvider.GetIdentity(token)
	if err != nil {
		return data.PurchaseBundle{}, ErrNotAuthenticated
	}
	if !identity.Scopes.Contains(id.ScopePurchase) {
		return data.PurchaseBundle{}, ErrNotAuthorized
	}

	catalogue, err := c.getCatalogue(author)
	if err != nil {
		return data.PurchaseBundle{}, err
	}
	bookIDs := catalogue.BookIDs()

	if len(publicKeys) != len(bookIDs) {
		return data.PurchaseBundle{}, fmt.Errorf("%w: got %d keys for %d books",
			ErrCountMismatch, len(publicKeys), len(bookIDs))
	}

	// All keys are parsed up front so a bad key at any position fails the
	// purchase before the vault is touched.
	recipients := make([]*rsa.PublicKey, len(publicKeys))
	for i, encoded := range publicKeys {
		recipient, err := c.rewrapper.ParsePublicKey(encoded)
		if err != nil {
			return data.PurchaseBundle{}, err
		}
		recipients[i] = recipient
	}

	keys, err := c.vault.GetKeys(bookIDs)
	if err != nil {
		missing := &vault.MissingKeysError{}
		if errors.As(err, &missing) {
			return data.PurchaseBundle{}, fmt.Errorf("%w: %v", ErrIntegrity, missing)
		}
		return data.PurchaseBundle{}, err
	}

	bundle := data.PurchaseBundle{
		WrappedKeys:    make([]string, len(bookIDs)),
		SealedLocators: make([]string, len(bookIDs)),
	}
	for i, bid := range bookIDs {
		record, err := c.getBookRecord(bid)
		if err != nil {
			return data.PurchaseBundle{}, fmt.Errorf("%w: no record for book %s", ErrIntegrity, bid)
		}

		wrapped, err := c.rewrapper.Rewrap(recipients[i], keys[bid])
		if err != nil {
			return data.PurchaseBundle{}, err
		}

		bundle.WrappedKeys[i] = wrapped
		bundle.SealedLocators[i] = record.SealedLocator
	}

	return bundle, nil
}
