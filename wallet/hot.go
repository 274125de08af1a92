package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// HotWallet is a locally sequenced wallet: it holds a secp256k1 private key
// in memory and caches the account's next nonce. The cache starts
// uninitialized and must be synced from the chain before the wallet can
// allocate nonces.
//
// A HotWallet serves a single logical account and assumes at most one
// in-flight signing call; concurrent callers serialize externally.
type HotWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	nonce   NonceState
}

var (
	_ Wallet          = (*HotWallet)(nil)
	_ MessageSigner   = (*HotWallet)(nil)
	_ NonceAllocator  = (*HotWallet)(nil)
	_ NonceReconciler = (*HotWallet)(nil)
)

// NewHotWallet creates a hot wallet from a hex-encoded private key, with or
// without the 0x prefix.
func NewHotWallet(privateKeyHex string, chainID *big.Int) (*HotWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid private key: %w", err)
	}
	return NewHotWalletFromKey(key, chainID), nil
}

// NewHotWalletFromKey creates a hot wallet from an in-memory key.
func NewHotWalletFromKey(key *ecdsa.PrivateKey, chainID *big.Int) *HotWallet {
	return &HotWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}
}

// Address returns the account address derived from the key.
func (w *HotWallet) Address() common.Address { return w.address }

// ChainID returns the chain the wallet signs for.
func (w *HotWallet) ChainID() *big.Int { return w.chainID }

// MainAddress implements Wallet.
func (w *HotWallet) MainAddress() (common.Address, error) {
	return w.address, nil
}

// SyncNonce initializes the nonce cache from the chain's pending nonce.
func (w *HotWallet) SyncNonce(ctx context.Context, reader NonceReader) error {
	n, err := reader.PendingNonceAt(ctx, w.address)
	if err != nil {
		return fmt.Errorf("wallet: syncing nonce for %s: %w", w.address, err)
	}
	w.nonce.Reset(n)
	return nil
}

// CachedNonce returns the cached next nonce. ok is false while the cache is
// uninitialized.
func (w *HotWallet) CachedNonce() (n uint64, ok bool) {
	return w.nonce.Next()
}

// AllocateNonce implements NonceAllocator.
func (w *HotWallet) AllocateNonce() (uint64, error) {
	return w.nonce.Allocate()
}

// ReconcileNonce implements NonceReconciler. The cache advances to used+1
// when that exceeds the current value and never regresses.
func (w *HotWallet) ReconcileNonce(used uint64) {
	w.nonce.Reconcile(used)
}

// SignWithNewNonce implements Wallet. The request must not carry an
// explicit nonce and the cache must be synced.
func (w *HotWallet) SignWithNewNonce(req *TxRequest) (*SignedTx, error) {
	if req.Nonce != nil {
		return nil, errors.New("wallet: request already carries a nonce, use SignTransaction")
	}
	nonce, err := w.nonce.Allocate()
	if err != nil {
		return nil, err
	}
	return w.signWithNonce(req, nonce)
}

// SignTransaction signs a request that carries an explicit nonce. The nonce
// cache is left untouched; callers that need the cache kept in sync report
// the nonce via ReconcileNonce.
func (w *HotWallet) SignTransaction(req *TxRequest) (*SignedTx, error) {
	if req.Nonce == nil {
		return nil, errors.New("wallet: request carries no nonce, use SignWithNewNonce")
	}
	return w.signWithNonce(req, *req.Nonce)
}

func (w *HotWallet) signWithNonce(req *TxRequest, nonce uint64) (*SignedTx, error) {
	chainID := w.chainID
	if req.ChainID != nil {
		chainID = req.ChainID
	}
	tx := assembleTransaction(req, nonce, chainID)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("wallet: signing transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("wallet: encoding signed transaction: %w", err)
	}
	return &SignedTx{
		Tx:    signed,
		Raw:   raw,
		Hash:  signed.Hash(),
		Nonce: nonce,
	}, nil
}

// SignMessageRaw implements MessageSigner. digest is a 32-byte EIP-191
// personal-message hash; the returned signature is [R || S || V] with V in
// {27, 28}.
func (w *HotWallet) SignMessageRaw(digest []byte) ([]byte, error) {
	if len(digest) != common.HashLength {
		return nil, fmt.Errorf("wallet: message digest must be %d bytes, got %d", common.HashLength, len(digest))
	}
	sig, err := crypto.Sign(digest, w.key)
	if err != nil {
		return nil, fmt.Errorf("wallet: signing message: %w", err)
	}
	sig[64] += 27
	return sig, nil
}
