package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ProviderWallet is a remote-delegated wallet: the endpoint behind the
// connection holds the key and performs signing and broadcast, so the
// wallet itself only knows the account address and, after a sync, a local
// view of the next nonce it may hand out. It cannot sign anything locally.
type ProviderWallet struct {
	address common.Address
	nonce   NonceState
}

var (
	_ Wallet         = (*ProviderWallet)(nil)
	_ NonceAllocator = (*ProviderWallet)(nil)
)

// NewProviderWallet creates a provider wallet for the given account. Until
// SyncNonce is called the wallet exposes no usable nonce allocator and the
// remote provider remains the sole authority over sequencing.
func NewProviderWallet(address common.Address) *ProviderWallet {
	return &ProviderWallet{address: address}
}

// MainAddress implements Wallet.
func (w *ProviderWallet) MainAddress() (common.Address, error) {
	return w.address, nil
}

// SyncNonce initializes the local nonce view from the chain's pending
// nonce, enabling AllocateNonce.
func (w *ProviderWallet) SyncNonce(ctx context.Context, reader NonceReader) error {
	n, err := reader.PendingNonceAt(ctx, w.address)
	if err != nil {
		return fmt.Errorf("wallet: syncing nonce for %s: %w", w.address, err)
	}
	w.nonce.Reset(n)
	return nil
}

// CachedNonce returns the local next-nonce view. ok is false before the
// first sync.
func (w *ProviderWallet) CachedNonce() (n uint64, ok bool) {
	return w.nonce.Next()
}

// AllocateNonce implements NonceAllocator. It returns ErrNonceNotSynced
// before the first sync; callers treat that as "no allocator" and let the
// provider assign the nonce itself.
func (w *ProviderWallet) AllocateNonce() (uint64, error) {
	return w.nonce.Allocate()
}

// SignWithNewNonce implements Wallet. A provider wallet has no local key
// material; signing happens on the remote side as part of submission.
func (w *ProviderWallet) SignWithNewNonce(*TxRequest) (*SignedTx, error) {
	return nil, errors.New("wallet: provider wallet delegates signing to the remote provider")
}
