package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/astraly-labs/hyperlane-starknet/chains/evm"
	"github.com/astraly-labs/hyperlane-starknet/chains/starknet"
	"github.com/astraly-labs/hyperlane-starknet/config"
	"github.com/astraly-labs/hyperlane-starknet/deployments"
	"github.com/astraly-labs/hyperlane-starknet/protocol"
	"github.com/astraly-labs/hyperlane-starknet/relay"
	"github.com/astraly-labs/hyperlane-starknet/validator"
)

func readerOptions(cfg *config.Config) []evm.ReaderOption {
	return []evm.ReaderOption{
		evm.WithPollInterval(cfg.GetPollInterval()),
		evm.WithReceiptTimeout(cfg.GetReceiptTimeout()),
	}
}

func starknetReaderOptions(cfg *config.Config) []starknet.ReaderOption {
	return []starknet.ReaderOption{
		starknet.WithPollInterval(cfg.GetPollInterval()),
		starknet.WithReceiptTimeout(cfg.GetReceiptTimeout()),
	}
}

// resolveMailbox returns the configured mailbox, falling back to the deployments directory.
func resolveMailbox(cfg *config.Config, name string, chain *config.ChainConfig) (protocol.Bytes32, error) {
	if chain.Mailbox != "" {
		return protocol.NewBytes32FromString(chain.Mailbox)
	}
	d, err := deployments.Load(cfg.DeploymentsDir, name)
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("chain %s has no mailbox configured: %w", name, err)
	}
	return d.Bytes32("mailbox")
}

func newSource(ctx context.Context, lggr logger.Logger, cfg *config.Config, name string) (relay.Source, error) {
	chain, err := cfg.Chain(name)
	if err != nil {
		return relay.Source{}, err
	}
	domain, err := chain.ParsedDomain()
	if err != nil {
		return relay.Source{}, err
	}
	hook, err := chain.GetMerkleTreeHook()
	if err != nil {
		return relay.Source{}, fmt.Errorf("merkle_tree_hook: %w", err)
	}
	keys, err := cfg.Validators.ResolveKeys()
	if err != nil {
		return relay.Source{}, err
	}
	set, err := validator.FromKeys(domain, keys, cfg.Validators.Threshold)
	if err != nil {
		return relay.Source{}, err
	}

	source := relay.Source{
		Domain:   domain,
		Metadata: validator.NewMetadataBuilder(lggr, set, hook),
	}
	switch chain.Layout {
	case config.LayoutEVM:
		client, err := ethclient.DialContext(ctx, chain.RPCURL)
		if err != nil {
			return relay.Source{}, fmt.Errorf("failed to dial %s: %w", chain.RPCURL, err)
		}
		source.Layout = protocol.EVMLayout
		source.Events = evm.NewReceiptReader(lggr, client, readerOptions(cfg)...)
		source.Selector = evm.DispatchTopic
		source.Decoder = evm.DispatchDecoder{}
	case config.LayoutStarknet:
		client, err := starknet.Dial(chain.RPCURL)
		if err != nil {
			return relay.Source{}, err
		}
		source.Layout = starknet.Layout()
		source.Events = starknet.NewReceiptReader(lggr, client, starknetReaderOptions(cfg)...)
		source.Selector = starknet.DispatchSelector
		source.Decoder = starknet.DispatchDecoder{}
	default:
		return relay.Source{}, fmt.Errorf("unsupported layout %q", chain.Layout)
	}
	return source, nil
}

func newEVMTransmitter(ctx context.Context, lggr logger.Logger, cfg *config.Config, name string) (*evm.MailboxTransmitter, error) {
	chain, err := cfg.Chain(name)
	if err != nil {
		return nil, err
	}
	if chain.Layout != config.LayoutEVM {
		return nil, fmt.Errorf("chain %s is not an EVM chain", name)
	}
	mailbox, err := resolveMailbox(cfg, name, chain)
	if err != nil {
		return nil, err
	}
	pk, err := chain.PrivateKey()
	if err != nil {
		return nil, err
	}
	gasLimit := chain.GasLimit
	if gasLimit == 0 {
		gasLimit = evm.DefaultGasLimit
	}
	return evm.NewMailboxTransmitterFromRPC(ctx, lggr, chain.RPCURL, pk, common.BytesToAddress(mailbox[:]), gasLimit, readerOptions(cfg)...)
}

// newStarknetSubmitter wires the account submitter for chain name. With dry_run set, process calls
// are written to out instead and the destination is marked as a dry run.
func newStarknetSubmitter(lggr logger.Logger, cfg *config.Config, name string, chain *config.ChainConfig, out io.Writer) (protocol.Submitter, bool, error) {
	mailbox, err := resolveMailbox(cfg, name, chain)
	if err != nil {
		return nil, false, err
	}
	if chain.DryRun {
		client, err := starknet.Dial(chain.RPCURL)
		if err != nil {
			return nil, false, err
		}
		return starknet.NewCalldataSubmitter(lggr, starknet.NewMailboxReader(client, mailbox), out), true, nil
	}

	pk, err := chain.PrivateKey()
	if err != nil {
		return nil, false, err
	}
	if chain.AccountAddress == "" {
		return nil, false, fmt.Errorf("chain %s has no account_address configured", name)
	}
	client, err := starknet.Dial(chain.RPCURL)
	if err != nil {
		return nil, false, err
	}
	acc, err := starknet.NewAccount(client, chain.AccountAddress, pk)
	if err != nil {
		return nil, false, err
	}
	submitter := starknet.NewAccountSubmitter(lggr, acc,
		starknet.NewMailboxReader(client, mailbox),
		starknet.NewReceiptReader(lggr, client, starknetReaderOptions(cfg)...),
	)
	return submitter, false, nil
}

// newDestination wires the submitter for chain name.
func newDestination(ctx context.Context, lggr logger.Logger, cfg *config.Config, name string, out io.Writer) (relay.Destination, error) {
	chain, err := cfg.Chain(name)
	if err != nil {
		return relay.Destination{}, err
	}
	domain, err := chain.ParsedDomain()
	if err != nil {
		return relay.Destination{}, err
	}

	switch chain.Layout {
	case config.LayoutEVM:
		transmitter, err := newEVMTransmitter(ctx, lggr, cfg, name)
		if err != nil {
			return relay.Destination{}, err
		}
		return relay.Destination{Domain: domain, Layout: protocol.EVMLayout, Submitter: transmitter}, nil
	case config.LayoutStarknet:
		submitter, dryRun, err := newStarknetSubmitter(lggr, cfg, name, chain, out)
		if err != nil {
			return relay.Destination{}, err
		}
		return relay.Destination{Domain: domain, Layout: starknet.Layout(), Submitter: submitter, DryRun: dryRun}, nil
	default:
		return relay.Destination{}, fmt.Errorf("unsupported layout %q", chain.Layout)
	}
}

// buildRelayer relays from chain from to every other configured chain.
func buildRelayer(ctx context.Context, lggr logger.Logger, cfg *config.Config, from string, metrics relay.MetricLabeler, out io.Writer) (*relay.Relayer, error) {
	source, err := newSource(ctx, lggr, cfg, from)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", from, err)
	}

	var destinations []relay.Destination
	for name := range cfg.Chains {
		if name == from {
			continue
		}
		dest, err := newDestination(ctx, lggr, cfg, name, out)
		if err != nil {
			return nil, fmt.Errorf("destination %s: %w", name, err)
		}
		destinations = append(destinations, dest)
	}

	codec := protocol.NewCodec(protocol.WithMaxBodySize(cfg.MaxBodySize))
	return relay.New(lggr, codec, source, destinations,
		relay.WithMetrics(metrics),
		relay.WithConcurrency(cfg.Concurrency),
	)
}
