package evm

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// Artifact is a compiled contract: its ABI and creation bytecode.
type Artifact struct {
	ABI      abi.ABI
	Bytecode []byte
}

// artifactJSON matches the hardhat and foundry artifact layouts. Foundry nests the bytecode
// under an object field.
type artifactJSON struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
}

// LoadArtifact reads a compiled contract artifact from path.
func LoadArtifact(path string) (Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return ParseArtifact(raw)
}

// ParseArtifact parses a compiled contract artifact.
func ParseArtifact(raw []byte) (Artifact, error) {
	var doc artifactJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Artifact{}, fmt.Errorf("failed to parse artifact: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(string(doc.ABI)))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse artifact abi: %w", err)
	}

	var code string
	if err := json.Unmarshal(doc.Bytecode, &code); err != nil {
		var nested struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(doc.Bytecode, &nested); err != nil {
			return Artifact{}, fmt.Errorf("artifact bytecode is neither a string nor an object: %w", err)
		}
		code = nested.Object
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return Artifact{}, fmt.Errorf("invalid artifact bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return Artifact{}, fmt.Errorf("artifact has empty bytecode")
	}

	return Artifact{ABI: parsed, Bytecode: bytecode}, nil
}

// LocalDomainArgs returns constructor arguments for contracts that take nothing or only the
// local domain, such as the Mailbox.
func (a Artifact) LocalDomainArgs(domain protocol.Domain) ([]any, error) {
	inputs := a.ABI.Constructor.Inputs
	switch {
	case len(inputs) == 0:
		return nil, nil
	case len(inputs) == 1 && inputs[0].Type.T == abi.UintTy && inputs[0].Type.Size == 32:
		return []any{uint32(domain)}, nil
	default:
		return nil, fmt.Errorf("constructor takes %d arguments, only none or a uint32 domain is supported", len(inputs))
	}
}

// Deployer deploys registered contract artifacts with a single key.
type Deployer struct {
	lggr      logger.Logger
	backend   Backend
	receipts  *ReceiptReader
	pk        *ecdsa.PrivateKey
	chainID   *big.Int
	artifacts map[string]Artifact
	mu        sync.Mutex
}

var _ protocol.Deployer = (*Deployer)(nil)

func NewDeployer(lggr logger.Logger, backend Backend, pk *ecdsa.PrivateKey, chainID *big.Int, artifacts map[string]Artifact, readerOpts ...ReaderOption) *Deployer {
	return &Deployer{
		lggr:      logger.Named(lggr, "EVMDeployer"),
		backend:   backend,
		receipts:  NewReceiptReader(lggr, backend, readerOpts...),
		pk:        pk,
		chainID:   chainID,
		artifacts: artifacts,
	}
}

// NewDeployerFromRPC dials rpcURL and creates a Deployer signing with the hex encoded privateKey.
func NewDeployerFromRPC(ctx context.Context, lggr logger.Logger, rpcURL, privateKey string, artifacts map[string]Artifact, readerOpts ...ReaderOption) (*Deployer, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	pk, err := crypto.HexToECDSA(trimHexPrefix(privateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return NewDeployer(lggr, client, pk, chainID, artifacts, readerOpts...), nil
}

// Deploy deploys contract with constructorArgs and waits for the creation receipt.
func (d *Deployer) Deploy(ctx context.Context, contract string, constructorArgs ...any) (protocol.UnknownAddress, error) {
	artifact, ok := d.artifacts[contract]
	if !ok {
		return nil, fmt.Errorf("no artifact registered for contract %q", contract)
	}

	d.mu.Lock()
	opts, err := newTransactOpts(ctx, d.backend, d.pk, d.chainID, 0)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, d.backend, constructorArgs...)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", contract, err)
	}

	d.lggr.Infow("Deploying contract", "contract", contract, "address", address.Hex(), "txHash", tx.Hash().Hex(),
		"deployer", opts.From.Hex())

	receipt, err := d.receipts.WaitForReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: deployment of %s in %s", protocol.ErrTransactionReverted, contract, tx.Hash().Hex())
	}
	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}
	return protocol.UnknownAddress(address.Bytes()), nil
}
