package signer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/leviathanch/web3-ethereum-defi/wallet"
)

// SignMessage signs a message with the wallet. The message may be a UTF-8
// string, a 0x-prefixed hex string, raw bytes, or a non-negative integer;
// all forms are normalized to one canonical byte sequence and wrapped in
// the EIP-191 personal-message prefix before signing, so equivalent forms
// produce identical signatures.
func (a *Adapter) SignMessage(message any) (hexutil.Bytes, error) {
	start := time.Now()
	msg, err := CanonicalMessageBytes(message)
	if err != nil {
		return nil, err
	}
	a.emit(Event{Type: EventAttempt, Op: "sign_message"})
	digest := accounts.TextHash(msg)

	sig, err := a.signDigest(digest)
	if err != nil {
		a.emit(Event{Type: EventFailure, Op: "sign_message", Error: err, Duration: time.Since(start)})
		return nil, err
	}
	a.emit(Event{Type: EventSuccess, Op: "sign_message", Duration: time.Since(start)})
	a.log.Debug().Str("backend", a.backend()).Int("message_len", len(msg)).
		Msg("signed message")
	return sig, nil
}

func (a *Adapter) signDigest(digest []byte) ([]byte, error) {
	var (
		sig []byte
		err error
	)
	switch w := a.wallet.(type) {
	case *wallet.HotWallet:
		sig, err = w.SignMessageRaw(digest)
	case *wallet.ProviderWallet:
		return nil, a.unsupported("sign_message", "message signing")
	default:
		ms, ok := a.wallet.(wallet.MessageSigner)
		if !ok {
			return nil, a.unsupported("sign_message", "message signing")
		}
		sig, err = ms.SignMessageRaw(digest)
	}
	if err != nil {
		return nil, NewSignerError(ErrCodeSigningFailed, ErrSigningFailed,
			fmt.Sprintf("signing message with %s", a.backend()), err)
	}
	return sig, nil
}

// SignTransaction signs a transaction request.
//
// A request carrying an explicit nonce is signed with that nonce verbatim
// and the wallet's nonce cache is reconciled afterwards so it never
// regresses; the caller's request is observably unchanged on return. A
// request without a nonce is delegated entirely to the wallet's own
// allocation, with no adapter-side reconciliation.
func (a *Adapter) SignTransaction(req *wallet.TxRequest) (*wallet.SignedTx, error) {
	start := time.Now()
	if req == nil {
		return nil, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput, "nil transaction request", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput, "invalid transaction request", err)
	}
	a.emit(Event{Type: EventAttempt, Op: "sign_transaction", Nonce: req.Nonce})

	signed, err := a.signTransaction(req)
	if err != nil {
		a.emit(Event{Type: EventFailure, Op: "sign_transaction", Nonce: req.Nonce, Error: err, Duration: time.Since(start)})
		return nil, err
	}
	a.emit(Event{Type: EventSuccess, Op: "sign_transaction", Nonce: &signed.Nonce, TxHash: signed.Hash, Duration: time.Since(start)})
	a.log.Debug().Str("backend", a.backend()).Uint64("nonce", signed.Nonce).
		Stringer("hash", signed.Hash).Msg("signed transaction")
	return signed, nil
}

func (a *Adapter) signTransaction(req *wallet.TxRequest) (*wallet.SignedTx, error) {
	if req.Nonce == nil {
		// No explicit nonce: allocation and bookkeeping belong to the
		// wallet alone.
		if _, ok := a.wallet.(*wallet.ProviderWallet); ok {
			return nil, a.unsupported("sign_transaction", "local transaction signing")
		}
		signed, err := a.wallet.SignWithNewNonce(req)
		if err != nil {
			return nil, a.signingFailed(err)
		}
		return signed, nil
	}

	switch w := a.wallet.(type) {
	case *wallet.HotWallet:
		// Sign with the held key directly, bypassing the wallet's
		// no-explicit-nonce guard, then keep its cache in sync.
		signed, err := w.SignTransaction(req)
		if err != nil {
			return nil, a.signingFailed(err)
		}
		w.ReconcileNonce(*req.Nonce)
		return signed, nil
	case *wallet.ProviderWallet:
		// The remote provider is the sole authority over sequencing;
		// signing past it with a caller-chosen nonce would desync it.
		return nil, a.unsupported("sign_transaction", "signing with an explicit nonce")
	default:
		// Generic backends only sign with a nonce they allocate. Strip
		// the nonce for the call and restore the caller's request either
		// way.
		explicit := req.Nonce
		req.Nonce = nil
		signed, err := a.wallet.SignWithNewNonce(req)
		req.Nonce = explicit
		if err != nil {
			return nil, a.signingFailed(err)
		}
		if rec, ok := a.wallet.(wallet.NonceReconciler); ok {
			rec.ReconcileNonce(*explicit)
		}
		return signed, nil
	}
}

// SendTransaction signs and submits a transaction, returning its hash.
//
// For a provider wallet the fields are submitted to the endpoint directly,
// with the sender dropped (the provider infers and injects it) and a nonce
// allocated through the wallet when the request has none and the wallet's
// allocator is usable; signing happens remotely. Every other backend is
// signed through SignTransaction and broadcast as raw bytes.
//
// A failure after a successful local sign does not roll back the nonce
// already reconciled: the caller must treat it as "nonce consumed,
// broadcast unconfirmed" and handle idempotent retry itself.
func (a *Adapter) SendTransaction(ctx context.Context, req *wallet.TxRequest) (common.Hash, error) {
	start := time.Now()
	if req == nil {
		return common.Hash{}, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput, "nil transaction request", nil)
	}
	if err := req.Validate(); err != nil {
		return common.Hash{}, NewSignerError(ErrCodeInvalidInput, ErrInvalidInput, "invalid transaction request", err)
	}
	a.emit(Event{Type: EventAttempt, Op: "send_transaction", Nonce: req.Nonce})

	hash, err := a.sendTransaction(ctx, req)
	if err != nil {
		a.emit(Event{Type: EventFailure, Op: "send_transaction", Nonce: req.Nonce, Error: err, Duration: time.Since(start)})
		return common.Hash{}, err
	}
	a.emit(Event{Type: EventSuccess, Op: "send_transaction", Nonce: req.Nonce, TxHash: hash, Duration: time.Since(start)})
	a.log.Info().Str("backend", a.backend()).Stringer("hash", hash).
		Msg("sent transaction")
	return hash, nil
}

func (a *Adapter) sendTransaction(ctx context.Context, req *wallet.TxRequest) (common.Hash, error) {
	if w, ok := a.wallet.(*wallet.ProviderWallet); ok {
		tx := req.Clone()
		tx.From = nil
		if tx.Nonce == nil {
			n, err := w.AllocateNonce()
			switch {
			case err == nil:
				tx.Nonce = &n
			case errors.Is(err, wallet.ErrNonceNotSynced):
				// No usable allocator; the provider assigns the nonce.
			default:
				return common.Hash{}, a.sendFailed("allocating nonce", err)
			}
		}
		hash, err := a.client.SendTransaction(ctx, tx)
		if err != nil {
			return common.Hash{}, a.sendFailed("submitting via provider", err)
		}
		return hash, nil
	}

	signed, err := a.signTransaction(req)
	if err != nil {
		return common.Hash{}, a.sendFailed("signing", err)
	}
	raw, err := signed.RawTransaction()
	if err != nil {
		return common.Hash{}, NewSignerError(ErrCodeMalformedSignedTx, ErrMalformedSignedTx,
			fmt.Sprintf("signed result from %s", a.backend()), err)
	}
	hash, err := a.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, a.sendFailed("broadcasting raw transaction", err)
	}
	return hash, nil
}

func (a *Adapter) unsupported(op, what string) error {
	err := NewSignerError(ErrCodeUnsupportedOperation, ErrUnsupportedOperation,
		fmt.Sprintf("%s not supported by %s", what, a.backend()), nil)
	a.log.Debug().Str("backend", a.backend()).Str("op", op).Msg("unsupported operation")
	return err
}

func (a *Adapter) signingFailed(cause error) error {
	return NewSignerError(ErrCodeSigningFailed, ErrSigningFailed,
		fmt.Sprintf("signing with %s", a.backend()), cause)
}

func (a *Adapter) sendFailed(stage string, cause error) error {
	return NewSignerError(ErrCodeSendFailed, ErrSendFailed,
		fmt.Sprintf("%s with %s", stage, a.backend()), cause)
}

func (a *Adapter) emit(ev Event) {
	if a.callback == nil {
		return
	}
	ev.Timestamp = time.Now()
	ev.Backend = a.backend()
	a.callback(ev)
}
