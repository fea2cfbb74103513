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
	"sort"
	"time"

	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"
)

// Catalogue is the per-author index of book ids. It gives the purchase
// protocol its stable order: newest book first, position breaking ties.
type Catalogue struct {
	AuthorID uuid.UUID        `json:"author_id"`
	Entries  []CatalogueEntry `json:"entries"`
}

// CatalogueEntry is one book in a catalogue.
type CatalogueEntry struct {
	BookID    uuid.UUID `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCatalogue creates an empty catalogue for the given author.
func NewCatalogue(authorID uuid.UUID) Catalogue {
	return Catalogue{AuthorID: authorID}
}

// Add appends a book to the catalogue.
func (c *Catalogue) Add(bookID uuid.UUID, createdAt time.Time) {
	c.Entries = append(c.Entries, CatalogueEntry{BookID: bookID, CreatedAt: createdAt})
}

// Remove deletes a book from the catalogue. Removing an absent book is a no-op.
func (c *Catalogue) Remove(bookID uuid.UUID) {
	entries := c.Entries[:0]
	for _, entry := range c.Entries {
		if entry.BookID != bookID {
			entries = append(entries, entry)
		}
	}
	c.Entries = entries
}

// BookIDs returns the catalogue's book ids ordered by creation time
// descending. The order is stable: the caller maps purchase results back to
// books by position.
func (c *Catalogue) BookIDs() []uuid.UUID {
	entries := append([]CatalogueEntry(nil), c.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.BookID)
	}
	return ids
}

// Bytes serializes the catalogue for the IO Provider.
func (c *Catalogue) Bytes() ([]byte, error) {
	return json.Marshal(c)
}

// CatalogueFromBytes deserializes a catalogue fetched from the IO Provider.
func CatalogueFromBytes(raw []byte) (Catalogue, error) {
	catalogue := Catalogue{}
	if err := json.Unmarshal(raw, &catalogue); err != nil {
		return Catalogue{}, err
	}
	return catalogue, nil
}
