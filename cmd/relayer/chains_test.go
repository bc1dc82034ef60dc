package main

import (
	"io"
	"testing"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/stretchr/testify/require"

	"github.com/astraly-labs/hyperlane-starknet/chains/starknet"
	"github.com/astraly-labs/hyperlane-starknet/config"
	"github.com/astraly-labs/hyperlane-starknet/deployments"
	"github.com/astraly-labs/hyperlane-starknet/protocol"
	"github.com/astraly-labs/hyperlane-starknet/relay"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	configPath = ""
	t.Setenv(configPathEnvVar, "")
	cfg, err := loadConfig()
	require.NoError(t, err)
	cfg.DeploymentsDir = t.TempDir()
	return cfg
}

func TestResolveMailbox(t *testing.T) {
	cfg := testConfig(t)
	katana, err := cfg.Chain("katana")
	require.NoError(t, err)

	_, err = resolveMailbox(cfg, "katana", katana)
	require.Error(t, err)

	require.NoError(t, deployments.Save(cfg.DeploymentsDir, "katana", map[string]string{"mailbox": "0x42"}))
	mailbox, err := resolveMailbox(cfg, "katana", katana)
	require.NoError(t, err)
	require.Equal(t, protocol.Bytes32{31: 0x42}, mailbox)

	katana.Mailbox = "0x43"
	mailbox, err = resolveMailbox(cfg, "katana", katana)
	require.NoError(t, err)
	require.Equal(t, protocol.Bytes32{31: 0x43}, mailbox)
}

func TestBuildRelayer_EVMToStarknet(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, deployments.Save(cfg.DeploymentsDir, "katana", map[string]string{"mailbox": "0x42"}))
	cfg.Chains["katana"].DryRun = true

	relayer, err := buildRelayer(t.Context(), logger.Test(t), cfg, "anvil", relay.NoopMetricLabeler{}, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, relayer)

	_, err = buildRelayer(t.Context(), logger.Test(t), cfg, "sepolia", relay.NoopMetricLabeler{}, io.Discard)
	require.Error(t, err)
}

func TestNewDestination_StarknetDryRun(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, deployments.Save(cfg.DeploymentsDir, "katana", map[string]string{"mailbox": "0x42"}))
	cfg.Chains["katana"].DryRun = true

	dest, err := newDestination(t.Context(), logger.Test(t), cfg, "katana", io.Discard)
	require.NoError(t, err)
	require.True(t, dest.DryRun)
	require.IsType(t, &starknet.CalldataSubmitter{}, dest.Submitter)
}

func TestNewDestination_StarknetAccountRequiresKey(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, deployments.Save(cfg.DeploymentsDir, "katana", map[string]string{"mailbox": "0x42"}))
	t.Setenv("STARKNET_PRIVATE_KEY", "")

	_, err := newDestination(t.Context(), logger.Test(t), cfg, "katana", io.Discard)
	require.ErrorContains(t, err, "STARKNET_PRIVATE_KEY")

	t.Setenv("STARKNET_PRIVATE_KEY", "0x1800000000300000180000000000030000000000003006001800006600")
	cfg.Chains["katana"].AccountAddress = ""
	_, err = newDestination(t.Context(), logger.Test(t), cfg, "katana", io.Discard)
	require.ErrorContains(t, err, "account_address")
}

func TestBuildRelayer_MissingMailbox(t *testing.T) {
	cfg := testConfig(t)
	_, err := buildRelayer(t.Context(), logger.Test(t), cfg, "anvil", relay.NoopMetricLabeler{}, io.Discard)
	require.Error(t, err)
}

func TestBuildRelayer_NotEnoughValidatorKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.Validators.Threshold = 4
	_, err := newSource(t.Context(), logger.Test(t), cfg, "katana")
	require.Error(t, err)
}

func TestNewEVMTransmitter_RequiresEVMChain(t *testing.T) {
	cfg := testConfig(t)
	_, err := newEVMTransmitter(t.Context(), logger.Test(t), cfg, "katana")
	require.Error(t, err)

	// anvil has no mailbox in the empty deployments directory
	_, err = newEVMTransmitter(t.Context(), logger.Test(t), cfg, "anvil")
	require.Error(t, err)
}

func TestSetupMonitoring_Noop(t *testing.T) {
	cfg := testConfig(t)
	m, err := setupMonitoring(logger.Test(t), cfg)
	require.NoError(t, err)
	require.IsType(t, relay.NoopMetricLabeler{}, m)
}

func TestParseTxHashes(t *testing.T) {
	hashes, err := parseTxHashes([]string{"0x1", "0x2a155aac0327e9a2e84052615577c62f4059245008efa4a7b07fa0dedfa1cb5"})
	require.NoError(t, err)
	require.Equal(t, protocol.Bytes32{31: 0x01}, hashes[0])
	require.Equal(t, byte(0x02), hashes[1][0])

	for _, bad := range []string{"0x", "1234", "0xzz"} {
		_, err := parseTxHashes([]string{"0x1", bad})
		require.Error(t, err, bad)
	}
}
