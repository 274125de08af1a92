package signer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CanonicalMessageBytes converts a message in one of the accepted forms to
// its canonical byte sequence:
//
//   - a 0x-prefixed string is decoded as hex bytes; odd-length hex is
//     rejected rather than left-padded
//   - any other string is encoded as UTF-8
//   - []byte and hexutil.Bytes pass through unchanged
//   - a non-negative integer (int, int64, uint64, *big.Int) becomes its
//     minimal big-endian byte representation, with zero encoding as a
//     single zero byte
//
// Any other input type fails with ErrInvalidInput before a backend is
// touched.
func CanonicalMessageBytes(message any) ([]byte, error) {
	switch m := message.(type) {
	case string:
		if strings.HasPrefix(m, "0x") {
			data, err := hexutil.Decode(m)
			if err != nil {
				return nil, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput,
					"malformed hex message", err)
			}
			return data, nil
		}
		return []byte(m), nil
	case hexutil.Bytes:
		return m, nil
	case []byte:
		return m, nil
	case int:
		if m < 0 {
			return nil, negativeMessageErr()
		}
		return bigEndianBytes(new(big.Int).SetInt64(int64(m))), nil
	case int64:
		if m < 0 {
			return nil, negativeMessageErr()
		}
		return bigEndianBytes(new(big.Int).SetInt64(m)), nil
	case uint64:
		return bigEndianBytes(new(big.Int).SetUint64(m)), nil
	case *big.Int:
		if m == nil || m.Sign() < 0 {
			return nil, negativeMessageErr()
		}
		return bigEndianBytes(m), nil
	default:
		return nil, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput,
			fmt.Sprintf("unsupported message type %T", message), nil)
	}
}

func negativeMessageErr() error {
	return NewSignerError(ErrCodeInvalidInput, ErrInvalidInput,
		"integer message must be non-negative", nil)
}

// bigEndianBytes returns the minimal big-endian encoding of v. Zero is a
// single zero byte, matching web3's to_bytes.
func bigEndianBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	return v.Bytes()
}
