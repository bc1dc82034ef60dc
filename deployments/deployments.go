// Package deployments reads and writes the per-network deployments.json files produced by the
// deploy tooling: <dir>/<network>/deployments.json, a JSON object of contract names to addresses
// that may nest further objects.
package deployments

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

const FileName = "deployments.json"

var ErrContractNotFound = errors.New("contract not found in deployments")

// Deployments is the parsed deployments file of one network.
type Deployments struct {
	Network string
	tree    map[string]any
}

// Path returns the deployments file of network under dir.
func Path(dir, network string) string {
	return filepath.Join(dir, network, FileName)
}

// Load reads the deployments file of network under dir.
func Load(dir, network string) (*Deployments, error) {
	raw, err := os.ReadFile(Path(dir, network))
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments for %s: %w", network, err)
	}
	return Parse(network, raw)
}

// Parse decodes a deployments document.
func Parse(network string, raw []byte) (*Deployments, error) {
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse deployments for %s: %w", network, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return &Deployments{Network: network, tree: tree}, nil
}

// Address returns the address stored under name. A string value directly under an object wins
// over its nested objects, which are searched depth first in key order.
func (d *Deployments) Address(name string) (string, error) {
	if addr, ok := findAddress(d.tree, name); ok {
		return addr, nil
	}
	return "", fmt.Errorf("%w: %q on %s", ErrContractNotFound, name, d.Network)
}

// Bytes32 returns the address stored under name as a left padded word.
func (d *Deployments) Bytes32(name string) (protocol.Bytes32, error) {
	addr, err := d.Address(name)
	if err != nil {
		return protocol.Bytes32{}, err
	}
	b, err := protocol.NewBytes32FromString(addr)
	if err != nil {
		return protocol.Bytes32{}, fmt.Errorf("contract %q on %s: %w", name, d.Network, err)
	}
	return b, nil
}

func findAddress(obj map[string]any, name string) (string, bool) {
	if v, ok := obj[name].(string); ok && v != "" {
		return v, true
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		child, ok := obj[k].(map[string]any)
		if !ok {
			continue
		}
		if addr, ok := findAddress(child, name); ok {
			return addr, true
		}
	}
	return "", false
}

// Save merges contracts into the deployments file of network under dir, creating it when
// missing. Entries already in the file that contracts does not name are preserved.
func Save(dir, network string, contracts map[string]string) error {
	path := Path(dir, network)
	base := []byte(`{}`)
	if existing, err := os.ReadFile(path); err == nil {
		base = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read deployments for %s: %w", network, err)
	}

	patch, err := json.Marshal(contracts)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(base, patch)
	if err != nil {
		return fmt.Errorf("failed to merge deployments for %s: %w", network, err)
	}

	var tree map[string]any
	if err := json.Unmarshal(merged, &tree); err != nil {
		return err
	}
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}
	return os.WriteFile(path, append(out, '\n'), 0o600)
}
