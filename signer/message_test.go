package signer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMessageBytes(t *testing.T) {
	tests := []struct {
		name    string
		message any
		want    []byte
	}{
		{name: "utf-8 string", message: "hello", want: []byte("hello")},
		{name: "hex string", message: "0x68656c6c6f", want: []byte("hello")},
		{name: "raw bytes", message: []byte("hello"), want: []byte("hello")},
		{name: "hexutil bytes", message: hexutil.Bytes{0x68, 0x65}, want: []byte{0x68, 0x65}},
		{name: "int", message: 7, want: []byte{7}},
		{name: "int64", message: int64(256), want: []byte{1, 0}},
		{name: "uint64", message: uint64(255), want: []byte{0xff}},
		{name: "big int", message: big.NewInt(65536), want: []byte{1, 0, 0}},
		{name: "zero int", message: 0, want: []byte{0}},
		{name: "empty string", message: "", want: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalMessageBytes(tt.message)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalMessageBytesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		message any
	}{
		{name: "float", message: 1.5},
		{name: "struct", message: struct{}{}},
		{name: "nil", message: nil},
		{name: "negative int", message: -1},
		{name: "negative big int", message: big.NewInt(-1)},
		{name: "nil big int", message: (*big.Int)(nil)},
		{name: "malformed hex", message: "0xzz"},
		{name: "odd-length hex", message: "0x123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CanonicalMessageBytes(tt.message)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
