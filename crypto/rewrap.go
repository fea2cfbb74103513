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
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
)

// Error returned if a supplied public key does not parse as a well-formed RSA
// public key of sufficient size.
var ErrInvalidPublicKey = errors.New("invalid public key")

// Minimum accepted modulus size for buyer keys.
const minRSABits = 2048

// RSARewrapper implements RewrapperInterface using RSA-OAEP with SHA-256.
// It is stateless and holds no key material.
//
// Known limitation: beyond what the underlying primitive provides, no effort
// is made to keep parse or padding timing independent of the input.
type RSARewrapper struct {
}

// ParsePublicKey parses a PEM encoded RSA public key in either PKIX or
// PKCS#1 form.
func (r *RSARewrapper) ParsePublicKey(encoded string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil {
		return nil, ErrInvalidPublicKey
	}

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, ErrInvalidPublicKey
		}
		return checkKeySize(rsaKey)
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return checkKeySize(key)
	}

	return nil, ErrInvalidPublicKey
}

// Rewrap encrypts the raw key under the recipient's public key and returns
// the result base64 encoded.
func (r *RSARewrapper) Rewrap(recipient *rsa.PublicKey, rawKey []byte) (string, error) {
	if recipient == nil {
		return "", ErrInvalidPublicKey
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, recipient, rawKey, nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wrapped), nil
}

func checkKeySize(key *rsa.PublicKey) (*rsa.PublicKey, error) {
	if key.N.BitLen() < minRSABits {
		return nil, ErrInvalidPublicKey
	}
	return key, nil
}
