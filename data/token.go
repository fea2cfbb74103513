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

package data

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"errors"
	"time"

	"github.com/bookvault/custody-lib/crypto"
)

// Validity period of tokens minted by the standalone identity provider.
const TokenValidity = time.Hour

// Error returned if a sealed token is past its expiry time.
var ErrTokenExpired = errors.New("token expired")

// Token contains arbitrary data along with an expiry time.
type Token struct {
	// Arbitrary plaintext data.
	Plaintext []byte

	// Expiry time at which point the data is no longer valid.
	ExpiryTime time.Time
}

// SealedToken contains encrypted data which has an expiry time.
type SealedToken struct {
	// The token's expiry time. After this time, it can no longer be decrypted.
	ExpiryTime time.Time

	Ciphertext []byte
}

// NewToken creates a new token which contains the provided plaintext and has
// the given validity period.
func NewToken(plaintext []byte, validityPeriod time.Duration) Token {
	return Token{plaintext, time.Now().Add(validityPeriod)}
}

// Seal encrypts the token under the given key, binding the expiry time as
// associated data.
func (t *Token) Seal(aead crypto.AEADInterface, key []byte) (SealedToken, error) {
	associatedData, err := t.ExpiryTime.GobEncode()
	if err != nil {
		return SealedToken{}, err
	}

	ciphertext, err := aead.Encrypt(t.Plaintext, associatedData, key)
	if err != nil {
		return SealedToken{}, err
	}

	return SealedToken{ExpiryTime: t.ExpiryTime, Ciphertext: ciphertext}, nil
}

// Unseal decrypts the sealed token.
func (t *SealedToken) Unseal(aead crypto.AEADInterface, key []byte) (Token, error) {
	// The expiry time is checked before it has been authenticated through
	// decryption. If the value has been manipulated, the decrypt call below
	// fails anyway since the expiry is bound as associated data.
	if t.ExpiryTime.Before(time.Now()) {
		return Token{}, ErrTokenExpired
	}

	associatedData, err := t.ExpiryTime.GobEncode()
	if err != nil {
		return Token{}, err
	}

	plaintext, err := aead.Decrypt(t.Ciphertext, associatedData, key)
	if err != nil {
		return Token{}, err
	}

	return Token{plaintext, t.ExpiryTime}, nil
}

// String serializes the sealed token into a raw base 64 URL encoded format.
func (t *SealedToken) String() (string, error) {
	var buffer bytes.Buffer
	enc := gob.NewEncoder(&buffer)
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer.Bytes()), nil
}

// TokenFromString takes a raw base 64 URL encoded token and deserializes it.
func TokenFromString(tokenString string) (SealedToken, error) {
	tokenBytes, err := base64.RawURLEncoding.DecodeString(tokenString)
	if err != nil {
		return SealedToken{}, err
	}
	var token SealedToken
	dec := gob.NewDecoder(bytes.NewReader(tokenBytes))
	if err := dec.Decode(&token); err != nil {
		return SealedToken{}, err
	}
	return token, nil
}
