package blockchain

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	simulatedBaseBlock  = 18000000
	simulatedBlockRange = 1000000
)

// Receipt identifies where a digest was anchored.
type Receipt struct {
	TransactionHash string
	BlockNumber     int64
	Network         string
}

// Anchor records a digest on a ledger and reports where it landed.
type Anchor interface {
	Anchor(ctx context.Context, digest common.Hash) (*Receipt, error)
}

// Digest is the keccak256 hash of a canonical payload.
func Digest(payload []byte) common.Hash {
	return crypto.Keccak256Hash(payload)
}

var randRead = rand.Read

// SimulatedAnchor fabricates a plausible receipt without touching a chain.
type SimulatedAnchor struct {
	Network string
}

func NewSimulatedAnchor(network string) *SimulatedAnchor {
	return &SimulatedAnchor{Network: network}
}

func (a *SimulatedAnchor) Anchor(_ context.Context, _ common.Hash) (*Receipt, error) {
	var buf [32]byte
	if _, err := randRead(buf[:]); err != nil {
		return nil, fmt.Errorf("generate transaction hash: %w", err)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(simulatedBlockRange))
	if err != nil {
		return nil, fmt.Errorf("generate block number: %w", err)
	}
	return &Receipt{
		TransactionHash: hexutil.Encode(buf[:]),
		BlockNumber:     simulatedBaseBlock + n.Int64(),
		Network:         a.Network,
	}, nil
}

// BlockSource reports the current chain head.
type BlockSource interface {
	GetBlockNumber(ctx context.Context) (uint64, error)
}

// EVMAnchor binds a digest to the observed chain head. The transaction hash
// is keccak256(digest || blockNumber) so the pair can be recomputed.
type EVMAnchor struct {
	source  BlockSource
	network string
}

func NewEVMAnchor(source BlockSource, network string) *EVMAnchor {
	return &EVMAnchor{source: source, network: network}
}

func (a *EVMAnchor) Anchor(ctx context.Context, digest common.Hash) (*Receipt, error) {
	head, err := a.source.GetBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chain head: %w", err)
	}
	return &Receipt{
		TransactionHash: AnchorHash(digest, head).Hex(),
		BlockNumber:     int64(head),
		Network:         a.network,
	}, nil
}

// AnchorHash recomputes the transaction hash EVMAnchor assigns.
func AnchorHash(digest common.Hash, block uint64) common.Hash {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], block)
	return crypto.Keccak256Hash(digest.Bytes(), num[:])
}
