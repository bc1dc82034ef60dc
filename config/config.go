// Package config loads and validates the relayer configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const (
	LayoutEVM      = "evm"
	LayoutStarknet = "starknet"

	MonitoringTypeBeholder = "beholder"
	MonitoringTypeNoop     = "noop"
)

var hexWordRe = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// Config is the relayer configuration.
type Config struct {
	// Chains maps a network name, as used in the deployments directory, to its connection.
	Chains map[string]*ChainConfig `toml:"chains"`
	// Validators is the test validator set attesting to dispatched messages.
	Validators ValidatorConfig `toml:"validators"`

	DeploymentsDir string `toml:"deployments_dir"`
	// MaxBodySize bounds message bodies in bytes; zero disables the check.
	MaxBodySize    int    `toml:"max_body_size"`
	Concurrency    int    `toml:"concurrency"`
	PollInterval   string `toml:"poll_interval"`
	ReceiptTimeout string `toml:"receipt_timeout"`
	PyroscopeURL   string `toml:"pyroscope_url"`

	Monitoring MonitoringConfig `toml:"Monitoring"`
}

// ChainConfig describes one chain the relayer reads from or writes to.
type ChainConfig struct {
	Layout string `toml:"layout"`
	Domain uint64 `toml:"domain"`
	RPCURL string `toml:"rpc_url"`
	// Mailbox is the mailbox address. When empty it is looked up in the deployments directory.
	Mailbox        string `toml:"mailbox"`
	MerkleTreeHook string `toml:"merkle_tree_hook"`
	// PrivateKeyEnv names the environment variable holding the transmitter key.
	PrivateKeyEnv string `toml:"private_key_env"`
	// AccountAddress is the Starknet account submitting process transactions.
	AccountAddress string `toml:"account_address"`
	GasLimit       uint64 `toml:"gas_limit"`
	// DryRun prepares process calls without submitting them. Only Starknet destinations support it.
	DryRun bool `toml:"dry_run"`
}

// ValidatorConfig holds the secp256k1 keys of the validator set.
type ValidatorConfig struct {
	Keys []string `toml:"keys"`
	// KeysEnv names an environment variable with comma separated keys, appended to Keys.
	KeysEnv   string `toml:"keys_env"`
	Threshold int    `toml:"threshold"`
}

// Load parses a TOML configuration string.
func Load(raw string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadFile parses the TOML configuration at path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Chains, validation.Required, validation.Length(2, 0)),
		validation.Field(&c.Validators),
		validation.Field(&c.MaxBodySize, validation.Min(0)),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.PollInterval, validation.By(isDuration)),
		validation.Field(&c.ReceiptTimeout, validation.By(isDuration)),
		validation.Field(&c.PyroscopeURL, is.URL),
		validation.Field(&c.Monitoring),
	)
	if err != nil {
		return err
	}

	seen := make(map[uint64]string, len(c.Chains))
	for name, chain := range c.Chains {
		if other, ok := seen[chain.Domain]; ok {
			return fmt.Errorf("chains %q and %q share domain %d", other, name, chain.Domain)
		}
		seen[chain.Domain] = name
	}
	return nil
}

// Chain returns the chain configured under name.
func (c *Config) Chain(name string) (*ChainConfig, error) {
	chain, ok := c.Chains[name]
	if !ok {
		return nil, fmt.Errorf("chain %q is not configured", name)
	}
	return chain, nil
}

// ChainByDomain returns the name and configuration of the chain with the given domain.
func (c *Config) ChainByDomain(domain protocol.Domain) (string, *ChainConfig, error) {
	for name, chain := range c.Chains {
		if chain.Domain == uint64(domain) {
			return name, chain, nil
		}
	}
	return "", nil, fmt.Errorf("no chain configured for domain %d", domain)
}

func (c *Config) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return time.Second
	}
	return d
}

func (c *Config) GetReceiptTimeout() time.Duration {
	d, err := time.ParseDuration(c.ReceiptTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

func (c *ChainConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Layout, validation.Required, validation.In(LayoutEVM, LayoutStarknet)),
		validation.Field(&c.Domain, validation.Required, validation.Max(uint64(math.MaxUint32))),
		validation.Field(&c.RPCURL, validation.Required, is.URL),
		validation.Field(&c.Mailbox, validation.Match(hexWordRe)),
		validation.Field(&c.MerkleTreeHook, validation.Match(hexWordRe)),
		validation.Field(&c.AccountAddress, validation.Match(hexWordRe)),
		validation.Field(&c.DryRun, validation.When(c.Layout != LayoutStarknet, validation.Empty.Error("dry_run is only supported for starknet chains"))),
	)
}

// ParsedDomain returns the chain's Hyperlane domain.
func (c *ChainConfig) ParsedDomain() (protocol.Domain, error) {
	return protocol.ParseDomain(c.Domain)
}

// ParsedLayout returns the chain's message layout.
func (c *ChainConfig) ParsedLayout() (protocol.ChainLayout, error) {
	return protocol.LayoutByName(c.Layout)
}

// PrivateKey reads the transmitter key from the configured environment variable.
func (c *ChainConfig) PrivateKey() (string, error) {
	if c.PrivateKeyEnv == "" {
		return "", errors.New("private_key_env is not configured")
	}
	pk := os.Getenv(c.PrivateKeyEnv)
	if pk == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.PrivateKeyEnv)
	}
	return pk, nil
}

// GetMerkleTreeHook returns the merkle tree hook address, zero when unset.
func (c *ChainConfig) GetMerkleTreeHook() (protocol.Bytes32, error) {
	if c.MerkleTreeHook == "" {
		return protocol.Bytes32{}, nil
	}
	return protocol.NewBytes32FromString(c.MerkleTreeHook)
}

func (v ValidatorConfig) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Threshold, validation.Required, validation.Min(1)),
		validation.Field(&v.Keys, validation.Each(validation.Match(regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)))),
	)
}

// ResolveKeys returns the configured keys followed by those from KeysEnv.
func (v *ValidatorConfig) ResolveKeys() ([]string, error) {
	keys := append([]string{}, v.Keys...)
	if v.KeysEnv != "" {
		for _, k := range strings.Split(os.Getenv(v.KeysEnv), ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	if len(keys) < v.Threshold {
		return nil, fmt.Errorf("%d validator keys configured, threshold is %d", len(keys), v.Threshold)
	}
	return keys, nil
}

func isDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// MonitoringConfig provides monitoring configuration for the relayer.
type MonitoringConfig struct {
	// Enabled enables the monitoring system.
	Enabled bool `toml:"Enabled"`
	// Type is the type of monitoring system to use (beholder, noop).
	Type string `toml:"Type"`
	// Beholder is the configuration for the beholder client (not required if type is noop).
	Beholder BeholderConfig `toml:"Beholder"`
}

// BeholderConfig wraps OpenTelemetry configuration for the beholder client.
type BeholderConfig struct {
	InsecureConnection       bool   `toml:"InsecureConnection"`
	CACertFile               string `toml:"CACertFile"`
	OtelExporterGRPCEndpoint string `toml:"OtelExporterGRPCEndpoint"`
	OtelExporterHTTPEndpoint string `toml:"OtelExporterHTTPEndpoint"`
	LogStreamingEnabled      bool   `toml:"LogStreamingEnabled"`
	// MetricReaderInterval is the interval to scrape metrics (in seconds).
	MetricReaderInterval int64   `toml:"MetricReaderInterval"`
	TraceSampleRatio     float64 `toml:"TraceSampleRatio"`
	// TraceBatchTimeout is the timeout for a batch of traces (in seconds).
	TraceBatchTimeout int64 `toml:"TraceBatchTimeout"`
}

func (m MonitoringConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Type, validation.Required, validation.In(MonitoringTypeBeholder, MonitoringTypeNoop)),
	)
	if err != nil {
		return err
	}
	if m.Type == MonitoringTypeBeholder {
		if err := m.Beholder.Validate(); err != nil {
			return fmt.Errorf("beholder config validation failed: %w", err)
		}
	}
	return nil
}

func (b BeholderConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.MetricReaderInterval, validation.Required, validation.Min(int64(1))),
		validation.Field(&b.TraceSampleRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&b.TraceBatchTimeout, validation.Required, validation.Min(int64(1))),
	)
}
