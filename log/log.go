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

package log

import (
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// WithMethod adds a method field to the log.
func WithMethod(l *zerolog.Logger, method string) {
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("method", method)
	})
}

// WithBookID adds a book ID field to the log.
func WithBookID(l *zerolog.Logger, bid uuid.UUID) {
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Stringer("book", bid)
	})
}

// WithAuthorID adds an author ID field to the log.
func WithAuthorID(l *zerolog.Logger, aid uuid.UUID) {
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Stringer("author", aid)
	})
}

// WithUID adds a user ID field to the log.
func WithUID(l *zerolog.Logger, uid uuid.UUID) {
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Stringer("uid", uid)
	})
}
