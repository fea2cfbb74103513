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

package custody

import (
	"errors"

	"github.com/gofrs/uuid"

	"github.com/bookvault/custody-lib/data"
	"github.com/bookvault/custody-lib/io"
)

// putBookRecord stores a book record in the IO Provider. If update is true, the record must
// already exist, otherwise it must not.
func (c *Custody) putBookRecord(record *data.BookRecord, update bool) error {
	bytes, err := record.Bytes()
	if err != nil {
		return err
	}
	if update {
		return c.ioProvider.Update(record.ID, io.DataTypeBookRecord, bytes)
	}
	return c.ioProvider.Put(record.ID, io.DataTypeBookRecord, bytes)
}

// getBookRecord fetches a book record from the IO Provider.
func (c *Custody) getBookRecord(bid uuid.UUID) (data.BookRecord, error) {
	bytes, err := c.ioProvider.Get(bid, io.DataTypeBookRecord)
	if err != nil {
		return data.BookRecord{}, err
	}
	return data.BookRecordFromBytes(bytes)
}

// deleteBookRecord deletes a book record from the IO Provider.
func (c *Custody) deleteBookRecord(bid uuid.UUID) error {
	return c.ioProvider.Delete(bid, io.DataTypeBookRecord)
}

// getCatalogue fetches an author's catalogue from the IO Provider. An author without any
// uploads has an empty catalogue.
func (c *Custody) getCatalogue(aid uuid.UUID) (data.Catalogue, error) {
	bytes, err := c.ioProvider.Get(aid, io.DataTypeCatalogue)
	if errors.Is(err, io.ErrNotFound) {
		return data.NewCatalogue(aid), nil
	}
	if err != nil {
		return data.Catalogue{}, err
	}
	return data.CatalogueFromBytes(bytes)
}

// saveCatalogue writes an author's catalogue back to the IO Provider, creating it on first
// write.
func (c *Custody) saveCatalogue(catalogue *data.Catalogue) error {
	bytes, err := catalogue.Bytes()
	if err != nil {
		return err
	}
	err = c.ioProvider.Update(catalogue.AuthorID, io.DataTypeCatalogue, bytes)
	if errors.Is(err, io.ErrNotFound) {
		return c.ioProvider.Put(catalogue.AuthorID, io.DataTypeCatalogue, bytes)
	}
	return err
}
