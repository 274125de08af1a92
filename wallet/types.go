package wallet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// TxRequest describes a transaction to sign or send. Optional fields are
// pointers; a nil Nonce means the wallet allocates one, a non-nil Nonce is
// honored verbatim.
type TxRequest struct {
	// From is the sender address. Optional; remote providers infer it.
	From *common.Address

	// To is the destination address. Nil deploys a contract.
	To *common.Address

	// Value is the amount transferred in wei.
	Value *big.Int

	// Gas is the gas limit.
	Gas uint64

	// GasPrice is the legacy gas price. Mutually exclusive with the
	// EIP-1559 fee caps below.
	GasPrice *big.Int

	// GasFeeCap is the EIP-1559 max fee per gas.
	GasFeeCap *big.Int

	// GasTipCap is the EIP-1559 max priority fee per gas.
	GasTipCap *big.Int

	// Data is the call data.
	Data []byte

	// Nonce is an explicit nonce. When set it overrides any wallet-side
	// allocation.
	Nonce *uint64

	// ChainID overrides the wallet's configured chain for signing.
	ChainID *big.Int
}

// Clone returns an independent deep copy of the request.
func (r *TxRequest) Clone() *TxRequest {
	c := &TxRequest{Gas: r.Gas}
	if r.From != nil {
		from := *r.From
		c.From = &from
	}
	if r.To != nil {
		to := *r.To
		c.To = &to
	}
	if r.Value != nil {
		c.Value = new(big.Int).Set(r.Value)
	}
	if r.GasPrice != nil {
		c.GasPrice = new(big.Int).Set(r.GasPrice)
	}
	if r.GasFeeCap != nil {
		c.GasFeeCap = new(big.Int).Set(r.GasFeeCap)
	}
	if r.GasTipCap != nil {
		c.GasTipCap = new(big.Int).Set(r.GasTipCap)
	}
	if r.Data != nil {
		c.Data = append([]byte(nil), r.Data...)
	}
	if r.Nonce != nil {
		nonce := *r.Nonce
		c.Nonce = &nonce
	}
	if r.ChainID != nil {
		c.ChainID = new(big.Int).Set(r.ChainID)
	}
	return c
}

// Validate rejects requests no backend could sign.
func (r *TxRequest) Validate() error {
	if r.Value != nil && r.Value.Sign() < 0 {
		return errors.New("wallet: negative transaction value")
	}
	if r.GasPrice != nil && (r.GasFeeCap != nil || r.GasTipCap != nil) {
		return errors.New("wallet: both legacy gas price and EIP-1559 fee caps set")
	}
	if r.GasFeeCap != nil && r.GasTipCap != nil && r.GasFeeCap.Cmp(r.GasTipCap) < 0 {
		return errors.New("wallet: max fee per gas below priority fee")
	}
	return nil
}

// assembleTransaction builds the unsigned transaction for the request with
// the given nonce. Requests carrying a legacy gas price become legacy
// transactions; everything else becomes a dynamic-fee transaction.
func assembleTransaction(r *TxRequest, nonce uint64, chainID *big.Int) *types.Transaction {
	if r.GasPrice != nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       r.To,
			Value:    r.Value,
			Gas:      r.Gas,
			GasPrice: r.GasPrice,
			Data:     r.Data,
		})
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        r.To,
		Value:     r.Value,
		Gas:       r.Gas,
		GasFeeCap: r.GasFeeCap,
		GasTipCap: r.GasTipCap,
		Data:      r.Data,
	})
}

// SignedTx is the canonical signed-transaction result every backend
// returns. Raw holds the network-ready RLP encoding.
type SignedTx struct {
	// Tx is the signed transaction.
	Tx *types.Transaction

	// Raw is the network-ready encoding submitted via
	// eth_sendRawTransaction.
	Raw hexutil.Bytes

	// Hash is the transaction hash.
	Hash common.Hash

	// Nonce is the nonce the transaction was signed with.
	Nonce uint64
}

// RawTransaction returns the canonical raw bytes, encoding the inner
// transaction when the backend did not populate Raw. A result with neither
// is a backend contract violation.
func (s *SignedTx) RawTransaction() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	if s.Tx != nil {
		raw, err := s.Tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("wallet: encoding signed transaction: %w", err)
		}
		return raw, nil
	}
	return nil, errors.New("wallet: signed transaction has no raw encoding")
}

// EtherToWei converts a human-unit ether amount to wei. Amounts with more
// than 18 decimal places or a negative sign are rejected.
func EtherToWei(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, errors.New("wallet: negative ether amount")
	}
	wei := amount.Shift(18)
	if !wei.IsInteger() {
		return nil, errors.New("wallet: ether amount below wei precision")
	}
	return wei.BigInt(), nil
}

// WeiToEther converts a wei amount to its human-unit decimal form.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -18)
}
