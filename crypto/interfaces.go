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

package crypto

import "crypto/rsa"

// LocatorCipherInterface protects a book's storage locator at rest with a
// per-book symmetric key.
type LocatorCipherInterface interface {
	// Encrypt encrypts the locator under the key and returns a transport-safe
	// blob. A fresh nonce is drawn for every call.
	Encrypt(key []byte, locator string) (string, error)

	// Decrypt recovers the locator from a blob produced by Encrypt. Returns
	// ErrDecryption if the blob is malformed or fails to authenticate.
	Decrypt(key []byte, blob string) (string, error)
}

// RewrapperInterface re-encrypts raw key material under a buyer-supplied
// public key for transport.
type RewrapperInterface interface {
	// ParsePublicKey validates and parses an encoded public key. Returns
	// ErrInvalidPublicKey if the input does not parse as a well-formed key
	// for the configured scheme.
	ParsePublicKey(encoded string) (*rsa.PublicKey, error)

	// Rewrap encrypts the raw key so that only the holder of the matching
	// private key can recover it. The output is encoded for transport.
	Rewrap(recipient *rsa.PublicKey, rawKey []byte) (string, error)
}

// AEADInterface represents an Authenticated Encryption scheme with Associated Data.
type AEADInterface interface {
	// Encrypt uses the key to encrypt and authenticate the plaintext and
	// authenticate the associated data.
	Encrypt(plaintext, data, key []byte) ([]byte, error)

	// Decrypt uses the key to verify the authenticity of the ciphertext and
	// associated data and decrypt the ciphertext.
	Decrypt(ciphertext, data, key []byte) ([]byte, error)
}

// RandomInterface provides an API for getting cryptographically secure random bytes.
type RandomInterface interface {
	// GetBytes generates the requested number of random bytes.
	GetBytes(n uint) ([]byte, error)
}

// PasswordHasherInterface provides an API for securely generating and checking passwords.
type PasswordHasherInterface interface {
	// GeneratePassword returns a random password and a salted hash of that password.
	GeneratePassword() (string, []byte, error)

	// Compare checks if the password matches the given hash.
	Compare(password string, saltAndHash []byte) bool
}
