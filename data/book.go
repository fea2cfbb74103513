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
	"time"

	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"
)

// BookRecord represents a published or draft work. The storage locator is
// only ever held as ciphertext, produced under the book's vault key.
type BookRecord struct {
	// Unique identity of the book.
	ID uuid.UUID `json:"id"`

	// The author/seller identity that exclusively owns the record.
	AuthorID uuid.UUID `json:"author_id"`

	// Display title. Not sensitive.
	Title string `json:"title"`

	// Base64 blob of the encrypted storage locator. Never plaintext.
	SealedLocator string `json:"sealed_locator"`

	// Creation time, used to order an author's catalogue.
	CreatedAt time.Time `json:"created_at"`
}

// Bytes serializes the record for the IO Provider.
func (b *BookRecord) Bytes() ([]byte, error) {
	return json.Marshal(b)
}

// BookRecordFromBytes deserializes a record fetched from the IO Provider.
func BookRecordFromBytes(raw []byte) (BookRecord, error) {
	record := BookRecord{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return BookRecord{}, err
	}
	return record, nil
}
