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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTransfer(t *testing.T) {
	transfer := MustNewEvent("Transfer",
		Indexed("from", "address"),
		Indexed("to", "address"),
		Arg("value", "uint256"),
	)
	assert.Equal(t, "Transfer(address,address,uint256)", transfer.Sig)
	assert.Equal(t, common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"), transfer.ID)

	var (
		contract = common.HexToAddress("0x17c4e6453cc49aaaaeaca894e6d9683e00000007")
		from     = common.HexToAddress("0x1111111111111111111111111111111111111111")
		to       = common.HexToAddress("0x2222222222222222222222222222222222222222")
	)
	log, err := transfer.Encode(contract, from, to, uint256.NewInt(500))
	require.NoError(t, err)
	require.Len(t, log.Topics, 3)
	assert.Equal(t, contract, log.Address)
	assert.Equal(t, transfer.ID, log.Topics[0])
	assert.Equal(t, common.BytesToHash(from[:]), log.Topics[1])
	assert.Equal(t, common.BytesToHash(to[:]), log.Topics[2])
	assert.Equal(t, words("00000000000000000000000000000000000000000000000000000000000001f4"), log.Data)

	data, err := transfer.DecodeData(log)
	require.NoError(t, err)
	assert.Equal(t, []any{uint256.NewInt(500)}, data)
}

func TestEventTopicCount(t *testing.T) {
	for k := 0; k <= MaxIndexed; k++ {
		var inputs []Argument
		for i := 0; i < MaxIndexed; i++ {
			if i < k {
				inputs = append(inputs, Indexed("", "uint64"))
			} else {
				inputs = append(inputs, Arg("", "uint64"))
			}
		}
		ev := MustNewEvent("E", inputs...)
		log, err := ev.Encode(common.Address{}, uint64(1), uint64(2), uint64(3))
		require.NoError(t, err)
		assert.Len(t, log.Topics, k+1, "indexed=%d", k)
		assert.Equal(t, ev.ID, log.Topics[0])
		assert.Len(t, log.Data, (MaxIndexed-k)*WordSize)
	}
}

func TestEventDynamicTopicIsHashed(t *testing.T) {
	ev := MustNewEvent("Named", Indexed("name", "string"), Arg("id", "uint256"))
	assert.Equal(t, common.HexToHash("0x1fc1ee74e64a4613da0ebad7aa1e41655ed6a50b1e27ec21849a5cd4db9381dd"), ev.ID)

	log, err := ev.Encode(common.Address{}, "hello", uint256.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"), log.Topics[1])
}

func TestEventTooManyIndexed(t *testing.T) {
	_, err := NewEvent("Bad",
		Indexed("a", "uint8"), Indexed("b", "uint8"),
		Indexed("c", "uint8"), Indexed("d", "uint8"),
	)
	if !errors.Is(err, errTooManyIndexed) {
		t.Fatalf("have %v, want %v", err, errTooManyIndexed)
	}
}

func TestEventArgumentMismatch(t *testing.T) {
	ev := MustNewEvent("Approval", Indexed("owner", "address"), Indexed("spender", "address"), Arg("value", "uint256"))
	_, err := ev.Encode(common.Address{}, common.Address{}, common.Address{})
	assert.Error(t, err)
	_, err = ev.Encode(common.Address{}, common.Address{}, "spender", uint256.NewInt(1))
	assert.Error(t, err)
}
