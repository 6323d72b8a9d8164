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

package abi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxIndexed is the number of topics available to indexed arguments.
const MaxIndexed = 3

// Argument is one field of an event.
type Argument struct {
	Name    string
	Type    Type
	Indexed bool
}

// Arg returns a plain event field.
func Arg(name, typ string) Argument {
	return Argument{Name: name, Type: MustNewType(typ)}
}

// Indexed returns an indexed event field.
func Indexed(name, typ string) Argument {
	return Argument{Name: name, Type: MustNewType(typ), Indexed: true}
}

// Event is an event declaration together with its cached signature hash.
type Event struct {
	Name   string
	Inputs []Argument

	// Sig is the canonical signature, e.g. Transfer(address,address,uint256).
	Sig string
	// ID is Keccak256(Sig), emitted as topic 0.
	ID common.Hash

	indexed int
}

// NewEvent declares an event. It fails if more than MaxIndexed arguments
// are indexed.
func NewEvent(name string, inputs ...Argument) (Event, error) {
	args := make([]Type, len(inputs))
	indexed := 0
	for i, in := range inputs {
		args[i] = in.Type
		if in.Indexed {
			indexed++
		}
	}
	if indexed > MaxIndexed {
		return Event{}, fmt.Errorf("%w: %s", errTooManyIndexed, name)
	}
	sig := Signature(name, args...)
	return Event{
		Name:    name,
		Inputs:  inputs,
		Sig:     sig,
		ID:      crypto.Keccak256Hash([]byte(sig)),
		indexed: indexed,
	}, nil
}

// MustNewEvent is like NewEvent but panics on error.
func MustNewEvent(name string, inputs ...Argument) Event {
	ev, err := NewEvent(name, inputs...)
	if err != nil {
		panic(err)
	}
	return ev
}

// NumTopics returns the number of topics every log of this event carries.
func (e Event) NumTopics() int { return 1 + e.indexed }

// Encode builds the log emitted by address for the given argument values,
// which must be supplied in declaration order.
func (e Event) Encode(address common.Address, values ...any) (*types.Log, error) {
	if len(values) != len(e.Inputs) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, have %d", errTypeMismatch, e.Name, len(e.Inputs), len(values))
	}
	topics := make([]common.Hash, 1, e.NumTopics())
	topics[0] = e.ID

	data := NewWriter()
	for i, in := range e.Inputs {
		if in.Indexed {
			topic, err := MakeTopic(in.Type, values[i])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", e.Name, in.Name, err)
			}
			topics = append(topics, topic)
			continue
		}
		if err := Pack(data, in.Type, values[i]); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", e.Name, in.Name, err)
		}
	}
	return &types.Log{
		Address: address,
		Topics:  topics,
		Data:    data.Finish(),
	}, nil
}

// DecodeData unpacks the non-indexed arguments of a log.
func (e Event) DecodeData(log *types.Log) ([]any, error) {
	if len(log.Topics) != e.NumTopics() || log.Topics[0] != e.ID {
		return nil, fmt.Errorf("abi: log is not a %s event", e.Name)
	}
	var plain []Type
	for _, in := range e.Inputs {
		if !in.Indexed {
			plain = append(plain, in.Type)
		}
	}
	return UnpackValues(NewReader(log.Data), plain)
}
