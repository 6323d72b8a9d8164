// Copyright 2025 The evmbridge Authors
// This file is part of the evmbridge library.
//
// The evmbridge library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmbridge library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmbridge library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"math"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ledgerbridge/evmbridge/collection"
)

// Collection returns the metadata of a collection, or nil if there is none.
// The result is a copy and may be modified freely.
func (s *StateDB) Collection(id collection.ID) *collection.Collection {
	key := collectionKey(id)
	if _, dirty := s.pending[string(key)]; !dirty {
		if c, ok := s.collections.Get(id); ok {
			return &c
		}
	}
	var c collection.Collection
	if !s.readRLP(key, &c) {
		return nil
	}
	if _, dirty := s.pending[string(key)]; !dirty {
		s.collections.Add(id, c)
	}
	return &c
}

// CollectionExists reports whether a collection with the id exists.
func (s *StateDB) CollectionExists(id collection.ID) bool {
	return s.Collection(id) != nil
}

// CreateCollection stores a new collection under the next free id and
// returns that id. The ID field of c is overwritten.
func (s *StateDB) CreateCollection(c *collection.Collection) (collection.ID, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var last uint32
	s.readRLP(lastCollectionKey, &last)
	if last == math.MaxUint32 {
		return 0, ErrCollectionIDOverflow
	}
	c.ID = collection.ID(last + 1)
	s.writeRLP(lastCollectionKey, uint32(c.ID))
	s.writeRLP(collectionKey(c.ID), c)
	log.Debug("Created collection", "id", c.ID, "kind", c.Kind, "name", c.Name)
	return c.ID, nil
}

// UpdateCollection overwrites the metadata of an existing collection.
func (s *StateDB) UpdateCollection(c *collection.Collection) error {
	if !s.CollectionExists(c.ID) {
		return ErrCollectionNotFound
	}
	if err := c.Validate(); err != nil {
		return err
	}
	s.writeRLP(collectionKey(c.ID), c)
	return nil
}

// LastCollectionID returns the highest collection id created so far.
func (s *StateDB) LastCollectionID() collection.ID {
	var last uint32
	s.readRLP(lastCollectionKey, &last)
	return collection.ID(last)
}
