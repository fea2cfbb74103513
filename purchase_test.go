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
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/id"
)

func newBuyerKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	encoded := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return private, string(encoded)
}

// unwrapKey recovers the raw content key from a purchase bundle entry.
func unwrapKey(t *testing.T, private *rsa.PrivateKey, wrapped string) []byte {
	t.Helper()
	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		t.Fatalf("decoding wrapped key: %v", err)
	}
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, private, ciphertext, nil)
	if err != nil {
		t.Fatalf("DecryptOAEP: %v", err)
	}
	return key
}

func TestPurchaseFullCatalogue(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	author := newTestUser(t, &idProvider, id.ScopeAll)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	locators := map[uuid.UUID]string{}
	for i := 0; i < 3; i++ {
		locator := fmt.Sprintf("s3://bucket/book%d.pdf", i)
		bid, err := custody.Upload(author, fmt.Sprintf("Book %d", i), locator)
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		locators[bid] = locator
	}

	authorIdentity, err := idProvider.GetIdentity(author)
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}
	books, err := custody.GetCatalogue(buyer, authorIdentity.ID)
	if err != nil {
		t.Fatalf("GetCatalogue: %v", err)
	}

	privates := make([]*rsa.PrivateKey, len(books))
	publicKeys := make([]string, len(books))
	for i := range books {
		privates[i], publicKeys[i] = newBuyerKey(t)
	}

	bundle, err := custody.Purchase(buyer, authorIdentity.ID, publicKeys)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if len(bundle.WrappedKeys) != len(books) || len(bundle.SealedLocators) != len(books) {
		t.Fatalf("expected %d results but got %d keys and %d locators",
			len(books), len(bundle.WrappedKeys), len(bundle.SealedLocators))
	}

	// Each wrapped key must open with the private key at the same position,
	// and the recovered key must decrypt the sealed locator at that position
	// to the locator of the catalogue's book at that position.
	locatorCipher := crypto.NewLocatorCipher(&crypto.NativeRandom{})
	for i, bid := range books {
		key := unwrapKey(t, privates[i], bundle.WrappedKeys[i])
		locator, err := locatorCipher.Decrypt(key, bundle.SealedLocators[i])
		if err != nil {
			t.Fatalf("position %d: decrypting sealed locator: %v", i, err)
		}
		if locator != locators[bid] {
			t.Fatalf("position %d: expected locator %q but got %q", i, locators[bid], locator)
		}
	}
}

func TestPurchaseWrappedKeysAreBoundToPositions(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	author := newTestUser(t, &idProvider, id.ScopeAll)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	for i := 0; i < 2; i++ {
		if _, err := custody.Upload(author, fmt.Sprintf("Book %d", i), fmt.Sprintf("s3://bucket/book%d.pdf", i)); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	authorIdentity, err := idProvider.GetIdentity(author)
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}

	firstPrivate, firstPublic := newBuyerKey(t)
	_, secondPublic := newBuyerKey(t)

	bundle, err := custody.Purchase(buyer, authorIdentity.ID, []string{firstPublic, secondPublic})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	// The first private key opens its own slot but not the second one.
	unwrapKey(t, firstPrivate, bundle.WrappedKeys[0])

	ciphertext, err := base64.StdEncoding.DecodeString(bundle.WrappedKeys[1])
	if err != nil {
		t.Fatalf("decoding wrapped key: %v", err)
	}
	if _, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, firstPrivate, ciphertext, nil); err == nil {
		t.Fatal("wrapped key opened with the wrong private key")
	}
}

func TestPurchaseCountMismatch(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	author := newTestUser(t, &idProvider, id.ScopeAll)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	if _, err := custody.Upload(author, "Only Book", "s3://bucket/only.pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	authorIdentity, err := idProvider.GetIdentity(author)
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}

	_, first := newBuyerKey(t)
	_, second := newBuyerKey(t)

	for _, publicKeys := range [][]string{nil, {first, second}} {
		if _, err := custody.Purchase(buyer, authorIdentity.ID, publicKeys); !errors.Is(err, ErrCountMismatch) {
			t.Fatalf("%d keys: expected %v but got %v", len(publicKeys), ErrCountMismatch, err)
		}
	}
}

func TestPurchaseInvalidPublicKey(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	author := newTestUser(t, &idProvider, id.ScopeAll)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	for i := 0; i < 2; i++ {
		if _, err := custody.Upload(author, fmt.Sprintf("Book %d", i), fmt.Sprintf("s3://bucket/book%d.pdf", i)); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}
	authorIdentity, err := idProvider.GetIdentity(author)
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}

	_, valid := newBuyerKey(t)
	_, err = custody.Purchase(buyer, authorIdentity.ID, []string{valid, "not a pem key"})
	if !errors.Is(err, crypto.ErrInvalidPublicKey) {
		t.Fatalf("Expected %v but got %v", crypto.ErrInvalidPublicKey, err)
	}
}

func TestPurchaseMissingVaultEntryAbortsWhole(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	author := newTestUser(t, &idProvider, id.ScopeAll)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	var victim uuid.UUID
	for i := 0; i < 3; i++ {
		bid, err := custody.Upload(author, fmt.Sprintf("Book %d", i), fmt.Sprintf("s3://bucket/book%d.pdf", i))
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		if i == 1 {
			victim = bid
		}
	}
	authorIdentity, err := idProvider.GetIdentity(author)
	if err != nil {
		t.Fatalf("GetIdentity: %v", err)
	}

	// Remove one key entry behind the catalogue's back.
	if err := custody.vault.Delete(victim); err != nil {
		t.Fatalf("vault delete: %v", err)
	}

	publicKeys := make([]string, 3)
	for i := range publicKeys {
		_, publicKeys[i] = newBuyerKey(t)
	}

	bundle, err := custody.Purchase(buyer, authorIdentity.ID, publicKeys)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("Expected %v but got %v", ErrIntegrity, err)
	}
	if len(bundle.WrappedKeys) != 0 || len(bundle.SealedLocators) != 0 {
		t.Fatal("partial purchase result was returned")
	}
}

func TestPurchaseEmptyCatalogue(t *testing.T) {
	custody, idProvider := newTestCustody(t)
	buyer := newTestUser(t, &idProvider, id.ScopePurchase)

	bundle, err := custody.Purchase(buyer, uuid.Must(uuid.NewV4()), []string{})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if len(bundle.WrappedKeys) != 0 || len(bundle.SealedLocators) != 0 {
		t.Fatal("expected an empty bundle")
	}
}
