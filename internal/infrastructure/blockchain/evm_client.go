package blockchain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.DialContext
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

var errNoClient = errors.New("evm client not connected")

// EVMClient provides read access to an EVM chain
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	// testBlockNumber allows deterministic unit tests without network sockets.
	testBlockNumber func(ctx context.Context) (uint64, error)
}

// NewEVMClient dials rpcURL and caches the chain id
func NewEVMClient(ctx context.Context, rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
	}, nil
}

// NewEVMClientWithBlockNumber creates a client backed by an injected head
// lookup. Intended for unit tests where RPC sockets are unavailable.
func NewEVMClientWithBlockNumber(chainID *big.Int, fn func(ctx context.Context) (uint64, error)) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{chainID: chainID, testBlockNumber: fn}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// GetBlockNumber gets the latest block number
func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	if c.testBlockNumber != nil {
		return c.testBlockNumber(ctx)
	}
	if c.client == nil {
		return 0, errNoClient
	}
	return c.client.BlockNumber(ctx)
}

// Close releases the RPC connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
