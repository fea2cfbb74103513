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

import (
	"encoding/base64"
	"errors"
)

// Error returned if a locator blob is malformed, truncated, or fails to
// decrypt under the provided key.
var ErrDecryption = errors.New("unable to decrypt locator")

// LocatorCipher implements LocatorCipherInterface using AES-256 in GCM mode.
// The transport blob is the base64 encoding of nonce ‖ ciphertext ‖ tag.
type LocatorCipher struct {
	aead AEADInterface
}

// NewLocatorCipher creates a LocatorCipher drawing nonces from the given
// randomness source.
func NewLocatorCipher(random RandomInterface) LocatorCipher {
	return LocatorCipher{aead: &AES256GCM{random}}
}

func (c *LocatorCipher) Encrypt(key []byte, locator string) (string, error) {
	ciphertext, err := c.aead.Encrypt([]byte(locator), nil, key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *LocatorCipher) Decrypt(key []byte, blob string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecryption
	}
	if len(ciphertext) < Overhead {
		return "", ErrDecryption
	}
	plaintext, err := c.aead.Decrypt(ciphertext, nil, key)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

// NewLocatorKey generates a fresh symmetric key for a single book.
func NewLocatorKey(random RandomInterface) ([]byte, error) {
	return random.GetBytes(KeyLength)
}
