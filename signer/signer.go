// Package signer adapts structurally different wallet backends to one
// uniform signing and sending contract.
//
// The Adapter wraps exactly one wallet backend and one chain client and
// exposes GetAddress, SignMessage, SignTransaction and SendTransaction. It
// dispatches on the backend variant:
//
//   - wallet.HotWallet signs locally and keeps a cached next nonce the
//     adapter reconciles after explicit-nonce signs
//   - wallet.ProviderWallet delegates signing and broadcast to a remote
//     provider, which owns sequencing; direct signing is unsupported
//   - any other wallet.Wallet is driven through its
//     sign-with-new-nonce operation and optional capabilities
//
// The adapter itself is stateless; the only mutable state is the nonce
// cache inside the wallet it wraps. It assumes at most one in-flight call
// per wallet instance: concurrent callers sharing a wallet must serialize
// externally. Nothing is retried internally.
package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/leviathanch/web3-ethereum-defi/wallet"
)

// ChainClient submits transactions to the network. chain.Client satisfies
// this.
type ChainClient interface {
	// SendRawTransaction broadcasts a signed, network-ready encoding.
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)

	// SendTransaction submits transaction fields for the endpoint to sign
	// and broadcast on the sender's behalf.
	SendTransaction(ctx context.Context, req *wallet.TxRequest) (common.Hash, error)
}

// Adapter presents one signing/sending contract over a single wallet
// backend and chain client pair.
type Adapter struct {
	wallet   wallet.Wallet
	client   ChainClient
	log      zerolog.Logger
	callback Callback
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the structured logger. The adapter is silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// WithCallback registers a signing event callback.
func WithCallback(cb Callback) Option {
	return func(a *Adapter) { a.callback = cb }
}

// New creates an adapter over the given wallet backend and chain client.
func New(w wallet.Wallet, client ChainClient, opts ...Option) *Adapter {
	a := &Adapter{
		wallet: w,
		client: client,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetAddress returns the wallet's account address. common.Address renders
// EIP-55 checksummed via its Hex method.
func (a *Adapter) GetAddress() (common.Address, error) {
	addr, err := a.wallet.MainAddress()
	if err != nil {
		return common.Address{}, NewSignerError(ErrCodeWalletUnavailable, ErrWalletUnavailable,
			fmt.Sprintf("wallet %s cannot report an address", a.backend()), err)
	}
	return addr, nil
}

// backend names the active wallet backend for logs and error messages.
func (a *Adapter) backend() string {
	return fmt.Sprintf("%T", a.wallet)
}
