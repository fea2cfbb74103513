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

// Package id contains the definition of the Identity Provider, as well as a
// standalone implementation of the concept. The capability check happens
// once at the request boundary: callers hand the library a token, the
// provider resolves it to a typed Identity, and all authorization decisions
// are made against that Identity's scopes and id.
package id

import (
	"github.com/gofrs/uuid"
)

// Identity represents data about the caller of the library.
type Identity struct {
	// Unique identity of the caller. Book ownership is checked against it.
	ID uuid.UUID

	// The capabilities the caller holds.
	Scopes Scope
}

// Provider is the interface an Identity Provider must implement to
// authenticate callers of the library.
type Provider interface {
	// GetIdentity resolves a bearer token to the Identity it was minted for.
	GetIdentity(token string) (Identity, error)
}
