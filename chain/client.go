// Package chain provides the JSON-RPC chain client the signer adapter
// submits transactions through.
package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"github.com/leviathanch/web3-ethereum-defi/wallet"
)

// Client submits transactions and reads nonces over a JSON-RPC connection.
// It implements signer.ChainClient and wallet.NonceReader. Timeouts and
// retry are the caller's responsibility, through the context and around the
// call.
type Client struct {
	rpc *rpc.Client
	log zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. The client is silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rawurl string, opts ...Option) (*Client, error) {
	rc, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("chain: dialing %s: %w", rawurl, err)
	}
	return NewClient(rc, opts...), nil
}

// NewClient wraps an existing RPC connection.
func NewClient(rc *rpc.Client, opts ...Option) *Client {
	c := &Client{rpc: rc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close tears down the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// SendRawTransaction broadcasts a signed, network-ready transaction
// encoding and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, fmt.Errorf("chain: eth_sendRawTransaction: %w", err)
	}
	c.log.Debug().Stringer("hash", hash).Int("raw_len", len(raw)).Msg("sent raw transaction")
	return hash, nil
}

// SendTransaction submits transaction fields for the endpoint to sign and
// broadcast on the sender's behalf. Absent fields are omitted verbatim; in
// particular no sender or nonce is filled in client-side.
func (c *Client) SendTransaction(ctx context.Context, req *wallet.TxRequest) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", toTxArgs(req)); err != nil {
		return common.Hash{}, fmt.Errorf("chain: eth_sendTransaction: %w", err)
	}
	c.log.Debug().Stringer("hash", hash).Msg("sent transaction via endpoint")
	return hash, nil
}

// PendingNonceAt returns the account's pending nonce, the value wallets
// sync their caches from.
func (c *Client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &nonce, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, fmt.Errorf("chain: eth_getTransactionCount: %w", err)
	}
	return uint64(nonce), nil
}

// txArgs is the eth_sendTransaction wire form of a request. Every field is
// optional on the wire; omitempty keeps absent fields absent.
type txArgs struct {
	From                 *common.Address `json:"from,omitempty"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value,omitempty"`
	Nonce                *hexutil.Uint64 `json:"nonce,omitempty"`
	Data                 hexutil.Bytes   `json:"data,omitempty"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

func toTxArgs(req *wallet.TxRequest) *txArgs {
	args := &txArgs{
		From:     req.From,
		To:       req.To,
		Value:    (*hexutil.Big)(req.Value),
		GasPrice: (*hexutil.Big)(req.GasPrice),
		Data:     req.Data,
		ChainID:  (*hexutil.Big)(req.ChainID),
	}
	if req.Gas != 0 {
		gas := hexutil.Uint64(req.Gas)
		args.Gas = &gas
	}
	if req.GasFeeCap != nil {
		args.MaxFeePerGas = (*hexutil.Big)(req.GasFeeCap)
	}
	if req.GasTipCap != nil {
		args.MaxPriorityFeePerGas = (*hexutil.Big)(req.GasTipCap)
	}
	if req.Nonce != nil {
		nonce := hexutil.Uint64(*req.Nonce)
		args.Nonce = &nonce
	}
	return args
}
