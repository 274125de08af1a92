package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/leviathanch/web3-ethereum-defi/wallet"
)

type rpcCall struct {
	Method string
	Params []json.RawMessage
}

// newTestServer runs a single-method JSON-RPC endpoint that records calls
// and answers every request with result.
func newTestServer(t *testing.T, result string) (*Client, *[]rpcCall) {
	t.Helper()
	var calls []rpcCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls = append(calls, rpcCall{Method: req.Method, Params: req.Params})

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      json.RawMessage(req.ID),
			"result":  result,
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	client, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, &calls
}

func TestSendRawTransaction(t *testing.T) {
	want := common.HexToHash("0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b")
	client, calls := newTestServer(t, want.Hex())

	hash, err := client.SendRawTransaction(context.Background(), []byte{0x01, 0x02, 0xab})
	require.NoError(t, err)
	require.Equal(t, want, hash)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	require.Equal(t, "eth_sendRawTransaction", call.Method)
	require.JSONEq(t, `"0x0102ab"`, string(call.Params[0]))
}

func TestSendTransactionOmitsAbsentFields(t *testing.T) {
	client, calls := newTestServer(t, common.Hash{}.Hex())

	to := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	req := &wallet.TxRequest{
		To:    &to,
		Value: big.NewInt(4096),
		Gas:   21000,
	}
	_, err := client.SendTransaction(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	require.Equal(t, "eth_sendTransaction", call.Method)

	var args map[string]any
	require.NoError(t, json.Unmarshal(call.Params[0], &args))
	require.NotContains(t, args, "from")
	require.NotContains(t, args, "nonce")
	require.NotContains(t, args, "gasPrice")
	require.NotContains(t, args, "data")
	require.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", args["to"].(string))
	require.Equal(t, "0x1000", args["value"])
	require.Equal(t, "0x5208", args["gas"])
}

func TestSendTransactionForwardsNonceAndFees(t *testing.T) {
	client, calls := newTestServer(t, common.Hash{}.Hex())

	from := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	nonce := uint64(5)
	req := &wallet.TxRequest{
		From:      &from,
		Nonce:     &nonce,
		GasFeeCap: big.NewInt(32),
		GasTipCap: big.NewInt(2),
		Data:      []byte{0xca, 0xfe},
	}
	_, err := client.SendTransaction(context.Background(), req)
	require.NoError(t, err)

	var args map[string]any
	require.NoError(t, json.Unmarshal((*calls)[0].Params[0], &args))
	require.Equal(t, "0x5", args["nonce"])
	require.Equal(t, "0x20", args["maxFeePerGas"])
	require.Equal(t, "0x2", args["maxPriorityFeePerGas"])
	require.Equal(t, "0xcafe", args["data"])
	require.Contains(t, args, "from")
}

func TestPendingNonceAt(t *testing.T) {
	client, calls := newTestServer(t, "0x2a")

	nonce, err := client.PendingNonceAt(context.Background(), common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	require.NoError(t, err)
	require.Equal(t, uint64(42), nonce)

	call := (*calls)[0]
	require.Equal(t, "eth_getTransactionCount", call.Method)
	require.JSONEq(t, `"pending"`, string(call.Params[1]))
}
