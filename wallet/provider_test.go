package wallet

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestProviderWalletAllocateNonce(t *testing.T) {
	addr := common.HexToAddress(testAddress)
	w := NewProviderWallet(addr)

	got, err := w.MainAddress()
	require.NoError(t, err)
	require.Equal(t, addr, got)

	// Before the first sync there is no usable allocator.
	_, err = w.AllocateNonce()
	require.ErrorIs(t, err, ErrNonceNotSynced)
	_, ok := w.CachedNonce()
	require.False(t, ok)

	require.NoError(t, w.SyncNonce(context.Background(), fixedNonce(3)))

	n, err := w.AllocateNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	n, err = w.AllocateNonce()
	require.NoError(t, err)
	require.Equal(t, uint64(4), n)

	next, ok := w.CachedNonce()
	require.True(t, ok)
	require.Equal(t, uint64(5), next)
}

func TestProviderWalletCannotSignLocally(t *testing.T) {
	w := NewProviderWallet(common.HexToAddress(testAddress))
	_, err := w.SignWithNewNonce(newTestRequest())
	require.Error(t, err)
}
