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

package io

import "github.com/gofrs/uuid"

// Proxy is an IO Provider that wraps another IO Provider. By default it
// forwards calls directly to the implementation, but the individual
// functions can be swapped out, e.g. to inject faults in tests.
type Proxy struct {
	Implementation Provider
	PutFunc        func(id uuid.UUID, dataType DataType, data []byte) error
	GetFunc        func(id uuid.UUID, dataType DataType) ([]byte, error)
	UpdateFunc     func(id uuid.UUID, dataType DataType, data []byte) error
	DeleteFunc     func(id uuid.UUID, dataType DataType) error
}

func (o *Proxy) Put(id uuid.UUID, dataType DataType, data []byte) error {
	return o.PutFunc(id, dataType, data)
}

func (o *Proxy) Get(id uuid.UUID, dataType DataType) ([]byte, error) {
	return o.GetFunc(id, dataType)
}

func (o *Proxy) Update(id uuid.UUID, dataType DataType, data []byte) error {
	return o.UpdateFunc(id, dataType, data)
}

func (o *Proxy) Delete(id uuid.UUID, dataType DataType) error {
	return o.DeleteFunc(id, dataType)
}

// NewProxy returns a basic implementation of Proxy that can be used as a
// basis for tests.
func NewProxy(implementation Provider) Proxy {
	return Proxy{
		Implementation: implementation,
		PutFunc:        implementation.Put,
		GetFunc:        implementation.Get,
		UpdateFunc:     implementation.Update,
		DeleteFunc:     implementation.Delete,
	}
}
