package hyperlanestarknet

import _ "embed"

// Relayer configuration.
var (
	//go:embed cmd/relayer/testconfig/default/relayer.toml
	DefaultRelayerConfigTOML string
)
