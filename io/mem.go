package io

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
)

// Mem implements an in-memory version of an IO Provider.
type Mem struct {
	data  sync.Map
	mutex sync.Mutex
}

// NewMem creates a new in-memory IO Provider.
func NewMem() *Mem {
	return &Mem{}
}

func newKey(id uuid.UUID, dataType DataType) string {
	return fmt.Sprintf("%s:%s", id.String(), dataType.String())
}

func (m *Mem) Put(id uuid.UUID, dataType DataType, data []byte) error {
	// Serialized so that concurrent creates for the same identity cannot both succeed.
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := newKey(id, dataType)
	if _, ok := m.data.Load(key); ok {
		return ErrAlreadyExists
	}
	m.data.Store(key, data)
	return nil
}

func (m *Mem) Get(id uuid.UUID, dataType DataType) ([]byte, error) {
	out, ok := m.data.Load(newKey(id, dataType))
	if !ok {
		return nil, ErrNotFound
	}
	return out.([]byte), nil
}

func (m *Mem) Update(id uuid.UUID, dataType DataType, data []byte) error {
	key := newKey(id, dataType)
	if _, ok := m.data.Load(key); !ok {
		return ErrNotFound
	}
	m.data.Store(key, data)
	return nil
}

func (m *Mem) Delete(id uuid.UUID, dataType DataType) error {
	m.data.Delete(newKey(id, dataType))
	return nil
}
