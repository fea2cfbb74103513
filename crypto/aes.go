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
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// KeyLength is the fixed length of all symmetric keys in the system. Callers
// never choose a key size per call.
const KeyLength = 32

// Error returned if a key with an invalid length is used.
var ErrInvalidKeyLength = errors.New("invalid key length")

const nonceLength = 12
const tagLength = 16

// Overhead is the number of bytes added to a plaintext when encrypting it.
const Overhead = int(nonceLength + tagLength)

// AES256GCM implements AEADInterface. Ciphertexts have the layout
// nonce ‖ ciphertext ‖ tag.
type AES256GCM struct {
	Random RandomInterface
}

func (a *AES256GCM) Encrypt(plaintext, data, key []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	nonce, err := a.Random.GetBytes(nonceLength)
	if err != nil {
		return nil, err
	}

	aesblock, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(aesblock)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(plaintext)+Overhead)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, data), nil
}

func (a *AES256GCM) Decrypt(ciphertext, data, key []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(ciphertext) < Overhead {
		return nil, errors.New("invalid ciphertext length")
	}

	nonce := ciphertext[:nonceLength]
	body := ciphertext[nonceLength:]

	aesblock, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(aesblock)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, body, data)
}
