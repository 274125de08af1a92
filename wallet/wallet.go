// Package wallet provides the wallet backends consumed by the signer
// adapter: a local hot wallet that holds key material and tracks its own
// nonce cache, a provider wallet that delegates signing and broadcast to a
// remote endpoint, and the capability interfaces any other wallet
// implementation can satisfy.
package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNonceNotSynced indicates a wallet's nonce cache has never been
// initialized from the chain.
var ErrNonceNotSynced = errors.New("wallet: nonce not synced")

// Wallet is the contract every backend satisfies. Exactly one backend is
// active per adapter instance; the adapter never owns key material itself.
type Wallet interface {
	// MainAddress returns the account address the wallet signs for.
	MainAddress() (common.Address, error)

	// SignWithNewNonce signs the request with a freshly allocated nonce.
	// The request must not carry an explicit nonce; allocation and
	// bookkeeping are entirely the wallet's responsibility.
	SignWithNewNonce(req *TxRequest) (*SignedTx, error)
}

// MessageSigner is an optional wallet capability for signing a 32-byte
// EIP-191 personal-message digest. The signature is 65 bytes [R || S || V]
// with V in {27, 28}.
type MessageSigner interface {
	SignMessageRaw(digest []byte) ([]byte, error)
}

// NonceAllocator is an optional wallet capability that hands out the next
// nonce, advancing the wallet's cache.
type NonceAllocator interface {
	AllocateNonce() (uint64, error)
}

// NonceReconciler is an optional wallet capability that lets a caller report
// a nonce used outside the wallet's own allocation path. Implementations
// must never let the cache regress.
type NonceReconciler interface {
	ReconcileNonce(used uint64)
}

// NonceReader supplies the pending nonce for an address. chain.Client
// satisfies this.
type NonceReader interface {
	PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
}

// NonceState is the nonce cache of a locally sequenced wallet. The zero
// value is uninitialized: the wallet has not yet synced against the chain
// and cannot allocate. Once initialized the cached value only moves
// forward, through Allocate and Reconcile.
//
// NonceState is not safe for concurrent use; callers serialize signing per
// wallet instance.
type NonceState struct {
	synced bool
	next   uint64
}

// Synced reports whether the cache has been initialized.
func (s *NonceState) Synced() bool { return s.synced }

// Next returns the next nonce without consuming it. ok is false while the
// cache is uninitialized.
func (s *NonceState) Next() (n uint64, ok bool) {
	return s.next, s.synced
}

// Reset initializes the cache to next, typically from the chain's pending
// nonce.
func (s *NonceState) Reset(next uint64) {
	s.synced = true
	s.next = next
}

// Allocate consumes and returns the next nonce.
func (s *NonceState) Allocate() (uint64, error) {
	if !s.synced {
		return 0, ErrNonceNotSynced
	}
	n := s.next
	s.next++
	return n, nil
}

// Reconcile records that used was consumed by a signature produced outside
// Allocate. The cache advances to used+1 when that is the new high-water
// mark and is never moved backwards. Reconciling an uninitialized cache is
// a no-op: an unsynced wallet keeps no bookkeeping to correct.
func (s *NonceState) Reconcile(used uint64) {
	if !s.synced {
		return
	}
	if used+1 > s.next {
		s.next = used + 1
	}
}
