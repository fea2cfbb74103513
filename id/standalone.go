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

package id

import (
	"errors"

	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"

	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/data"
	"github.com/bookvault/custody-lib/io"
	"github.com/bookvault/custody-lib/key"
)

// Error returned if a token cannot be resolved to an identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// Error returned if a user was not found.
var ErrUserNotFound = errors.New("user not found")

// Error returned if a user already exists.
var ErrUserAlreadyExists = errors.New("user already exists")

// Data stored by the Standalone provider in the IO Provider, continuing the
// data type sequence of the io package.
const (
	DataTypeSealedUser io.DataType = iota + io.DataTypeEnd + 1
)

// Standalone is an Identity Provider that manages its own users. User
// records are sealed under the user encryption key; bearer tokens are
// sealed under the token encryption key and expire after data.TokenValidity.
type Standalone struct {
	keys       key.Keys
	aead       crypto.AEADInterface
	hasher     crypto.PasswordHasherInterface
	ioProvider io.Provider
}

// user is the stored form of a Standalone user.
type user struct {
	SaltAndHash []byte `json:"salt_and_hash"`
	Scopes      Scope  `json:"scopes"`
}

// NewStandalone creates an Identity Provider that uses key material from the
// given Key Provider and stores user data in the given IO Provider.
func NewStandalone(keyProvider key.Provider, ioProvider io.Provider) (Standalone, error) {
	keys, err := keyProvider.GetKeys()
	if err != nil {
		return Standalone{}, err
	}
	if len(keys.UEK) != crypto.KeyLength || len(keys.TEK) != crypto.KeyLength {
		return Standalone{}, crypto.ErrInvalidKeyLength
	}

	return Standalone{
		keys:       keys,
		aead:       &crypto.AES256GCM{Random: &crypto.NativeRandom{}},
		hasher:     crypto.NewPasswordHasher(),
		ioProvider: ioProvider,
	}, nil
}

// NewUser creates a new user with the given scopes and returns its id along
// with a generated password.
func (s *Standalone) NewUser(scopes Scope) (uuid.UUID, string, error) {
	uid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, "", err
	}

	password, saltAndHash, err := s.hasher.GeneratePassword()
	if err != nil {
		return uuid.Nil, "", err
	}

	sealed, err := s.sealUser(uid, user{SaltAndHash: saltAndHash, Scopes: scopes})
	if err != nil {
		return uuid.Nil, "", err
	}

	err = s.ioProvider.Put(uid, DataTypeSealedUser, sealed)
	if errors.Is(err, io.ErrAlreadyExists) {
		return uuid.Nil, "", ErrUserAlreadyExists
	}
	if err != nil {
		return uuid.Nil, "", err
	}

	return uid, password, nil
}

// LoginUser checks the password and mints an expiring bearer token for the user.
func (s *Standalone) LoginUser(uid uuid.UUID, password string) (string, error) {
	plain, err := s.getUser(uid)
	if err != nil {
		return "", err
	}
	if !s.hasher.Compare(password, plain.SaltAndHash) {
		return "", ErrNotAuthenticated
	}

	token := data.NewToken(uid.Bytes(), data.TokenValidity)
	sealed, err := token.Seal(s.aead, s.keys.TEK)
	if err != nil {
		return "", err
	}
	return sealed.String()
}

// RemoveUser deletes a user. Tokens already minted for the user stop
// resolving once the record is gone.
func (s *Standalone) RemoveUser(uid uuid.UUID) error {
	return s.ioProvider.Delete(uid, DataTypeSealedUser)
}

// GetIdentity resolves a bearer token to the Identity it was minted for.
func (s *Standalone) GetIdentity(token string) (Identity, error) {
	sealedToken, err := data.TokenFromString(token)
	if err != nil {
		return Identity{}, ErrNotAuthenticated
	}
	plainToken, err := sealedToken.Unseal(s.aead, s.keys.TEK)
	if err != nil {
		return Identity{}, ErrNotAuthenticated
	}

	uid, err := uuid.FromBytes(plainToken.Plaintext)
	if err != nil {
		return Identity{}, ErrNotAuthenticated
	}

	plain, err := s.getUser(uid)
	if err != nil {
		return Identity{}, ErrNotAuthenticated
	}
	return Identity{ID: uid, Scopes: plain.Scopes}, nil
}

func (s *Standalone) sealUser(uid uuid.UUID, plain user) ([]byte, error) {
	plaintext, err := json.Marshal(plain)
	if err != nil {
		return nil, err
	}
	// The user id is bound as associated data so a sealed record cannot be
	// replayed under another id.
	return s.aead.Encrypt(plaintext, uid.Bytes(), s.keys.UEK)
}

func (s *Standalone) getUser(uid uuid.UUID) (user, error) {
	sealed, err := s.ioProvider.Get(uid, DataTypeSealedUser)
	if errors.Is(err, io.ErrNotFound) {
		return user{}, ErrUserNotFound
	}
	if err != nil {
		return user{}, err
	}

	plaintext, err := s.aead.Decrypt(sealed, uid.Bytes(), s.keys.UEK)
	if err != nil {
		return user{}, err
	}

	plain := user{}
	if err := json.Unmarshal(plaintext, &plain); err != nil {
		return user{}, err
	}
	return plain, nil
}
