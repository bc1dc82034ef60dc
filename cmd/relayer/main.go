package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/spf13/cobra"

	hyperlanestarknet "github.com/astraly-labs/hyperlane-starknet"
	"github.com/astraly-labs/hyperlane-starknet/chains/evm"
	"github.com/astraly-labs/hyperlane-starknet/common/logging"
	"github.com/astraly-labs/hyperlane-starknet/config"
	"github.com/astraly-labs/hyperlane-starknet/deployments"
	"github.com/astraly-labs/hyperlane-starknet/protocol"
	"github.com/astraly-labs/hyperlane-starknet/relay"
	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const (
	configPathEnvVar = "RELAYER_CONFIG_PATH"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func newLogger() (logger.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	cfgFn, err := logging.Config(logFormat, level)
	if err != nil {
		return nil, err
	}
	lggr, err := logger.NewWith(cfgFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Sugared(logger.Named(lggr, "relayer")), nil
}

// loadConfig reads the config from --config, then RELAYER_CONFIG_PATH, then the embedded devnet
// default.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(configPathEnvVar)
	}

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load(hyperlanestarknet.DefaultRelayerConfigTOML)
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupMonitoring(lggr logger.Logger, cfg *config.Config) (relay.MetricLabeler, error) {
	if cfg.PyroscopeURL != "" {
		if _, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "hyperlane-starknet-relayer",
			ServerAddress:   cfg.PyroscopeURL,
			Logger:          nil,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileGoroutines,
			},
		}); err != nil {
			lggr.Errorw("Failed to start pyroscope", "error", err)
		}
	}

	if !cfg.Monitoring.Enabled || cfg.Monitoring.Type != config.MonitoringTypeBeholder {
		lggr.Info("Using noop monitoring")
		return relay.NoopMetricLabeler{}, nil
	}
	b := cfg.Monitoring.Beholder
	return relay.InitMonitoring(beholder.Config{
		InsecureConnection:       b.InsecureConnection,
		CACertFile:               b.CACertFile,
		OtelExporterHTTPEndpoint: b.OtelExporterHTTPEndpoint,
		OtelExporterGRPCEndpoint: b.OtelExporterGRPCEndpoint,
		LogStreamingEnabled:      b.LogStreamingEnabled,
		MetricReaderInterval:     time.Second * time.Duration(b.MetricReaderInterval),
		TraceSampleRatio:         b.TraceSampleRatio,
		TraceBatchTimeout:        time.Second * time.Duration(b.TraceBatchTimeout),
	})
}

// parseTxHashes parses 0x-prefixed transaction hashes given on the command line.
func parseTxHashes(args []string) ([]protocol.Bytes32, error) {
	hashes := make([]protocol.Bytes32, len(args))
	for i, arg := range args {
		h, err := protocol.NewBytes32FromString(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction hash %q: %w", arg, err)
		}
		hashes[i] = h
	}
	return hashes, nil
}

var relayCmd = &cobra.Command{
	Use:   "relay <tx-hash>...",
	Short: "Relay the messages dispatched by origin transactions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lggr, err := newLogger()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")

		hashes, err := parseTxHashes(args)
		if err != nil {
			return err
		}

		monitoring, err := setupMonitoring(lggr, cfg)
		if err != nil {
			return err
		}
		relayer, err := buildRelayer(cmd.Context(), lggr, cfg, from, monitoring.With("source", from), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		results, relayErr := relayer.RelayAll(cmd.Context(), hashes)
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, result := range results {
			if result == nil {
				continue
			}
			if err := enc.Encode(result); err != nil {
				return err
			}
		}
		return relayErr
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Dispatch a message from an EVM mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		lggr, err := newLogger()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		chainName, _ := cmd.Flags().GetString("chain")
		destName, _ := cmd.Flags().GetString("destination")
		recipientHex, _ := cmd.Flags().GetString("recipient")
		body, _ := cmd.Flags().GetString("body")

		recipient, err := protocol.NewUnknownAddressFromHex(recipientHex)
		if err != nil {
			return fmt.Errorf("invalid recipient: %w", err)
		}
		dest, err := cfg.Chain(destName)
		if err != nil {
			return err
		}
		destDomain, err := dest.ParsedDomain()
		if err != nil {
			return err
		}
		destLayout, err := dest.ParsedLayout()
		if err != nil {
			return err
		}
		native, err := destLayout.NativeAddress(recipient)
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		word, err := native.Bytes32()
		if err != nil {
			return err
		}

		transmitter, err := newEVMTransmitter(cmd.Context(), lggr, cfg, chainName)
		if err != nil {
			return err
		}
		txHash, err := transmitter.Dispatch(cmd.Context(), destDomain, word, []byte(body))
		if err != nil {
			return err
		}
		lggr.Infow("Dispatched message", "txHash", txHash.String(), "destination", destDomain)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), txHash.String())
		return err
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy EVM contract artifacts and record them in the deployments directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		lggr, err := newLogger()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		chainName, _ := cmd.Flags().GetString("chain")
		paths, _ := cmd.Flags().GetStringToString("artifact")
		if len(paths) == 0 {
			return fmt.Errorf("at least one --artifact name=path is required")
		}

		chain, err := cfg.Chain(chainName)
		if err != nil {
			return err
		}
		if chain.Layout != config.LayoutEVM {
			return fmt.Errorf("chain %s is not an EVM chain", chainName)
		}
		domain, err := chain.ParsedDomain()
		if err != nil {
			return err
		}
		pk, err := chain.PrivateKey()
		if err != nil {
			return err
		}

		artifacts := make(map[string]evm.Artifact, len(paths))
		for name, path := range paths {
			if artifacts[name], err = evm.LoadArtifact(path); err != nil {
				return err
			}
		}
		deployer, err := evm.NewDeployerFromRPC(cmd.Context(), lggr, chain.RPCURL, pk, artifacts, readerOptions(cfg)...)
		if err != nil {
			return err
		}

		deployed := make(map[string]string, len(artifacts))
		for _, name := range slices.Sorted(maps.Keys(artifacts)) {
			ctorArgs, err := artifacts[name].LocalDomainArgs(domain)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			addr, err := deployer.Deploy(cmd.Context(), name, ctorArgs...)
			if err != nil {
				return err
			}
			lggr.Infow("✅ Deployed contract", "contract", name, "address", addr.String())
			deployed[name] = addr.String()
		}
		return deployments.Save(cfg.DeploymentsDir, chainName, deployed)
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "relayer",
		Short:        "Hyperlane message relayer between EVM and Starknet",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the relayer TOML config (defaults to $"+configPathEnvVar+" or the devnet config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	relayCmd.Flags().String("from", "", "origin chain name")
	_ = relayCmd.MarkFlagRequired("from")

	dispatchCmd.Flags().String("chain", "", "origin EVM chain name")
	dispatchCmd.Flags().String("destination", "", "destination chain name")
	dispatchCmd.Flags().String("recipient", "", "recipient address on the destination chain")
	dispatchCmd.Flags().String("body", "", "message body")
	_ = dispatchCmd.MarkFlagRequired("chain")
	_ = dispatchCmd.MarkFlagRequired("destination")
	_ = dispatchCmd.MarkFlagRequired("recipient")

	deployCmd.Flags().String("chain", "", "EVM chain name")
	deployCmd.Flags().StringToString("artifact", nil, "contract artifact as name=path, repeatable")
	_ = deployCmd.MarkFlagRequired("chain")

	rootCmd.AddCommand(relayCmd, dispatchCmd, deployCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
