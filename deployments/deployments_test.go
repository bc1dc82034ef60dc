package deployments_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astraly-labs/hyperlane-starknet/deployments"
)

const sepolia = `{
  "mailbox": "0x04f8c2b4d9e8a7e8b2c3f5a1e0d9c8b7a6f5e4d3c2b1a09f8e7d6c5b4a3f2e1d",
  "hooks": {
    "merkle_tree_hook": "0x2a155aac0327e9a2e84052615577c62f4059245008efa4a7b07fa0dedfa1cb5",
    "protocol_fee": { "address": "0x1234" }
  },
  "isms": {
    "messageid_multisig": "0xabcdef"
  }
}`

func writeNetwork(t *testing.T, dir, network, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, network), 0o755))
	require.NoError(t, os.WriteFile(deployments.Path(dir, network), []byte(content), 0o600))
}

func TestLoad_Address(t *testing.T) {
	dir := t.TempDir()
	writeNetwork(t, dir, "sepolia", sepolia)

	d, err := deployments.Load(dir, "sepolia")
	require.NoError(t, err)

	tests := []struct {
		name string
		want string
	}{
		{name: "mailbox", want: "0x04f8c2b4d9e8a7e8b2c3f5a1e0d9c8b7a6f5e4d3c2b1a09f8e7d6c5b4a3f2e1d"},
		{name: "merkle_tree_hook", want: "0x2a155aac0327e9a2e84052615577c62f4059245008efa4a7b07fa0dedfa1cb5"},
		{name: "address", want: "0x1234"},
		{name: "messageid_multisig", want: "0xabcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Address(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// an object under the name is not an address
	_, err = d.Address("hooks")
	require.ErrorIs(t, err, deployments.ErrContractNotFound)
	_, err = d.Address("aggregation_hook")
	require.ErrorIs(t, err, deployments.ErrContractNotFound)

	hook, err := d.Bytes32("merkle_tree_hook")
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), hook[0])
}

func TestAddress_TopLevelWins(t *testing.T) {
	d, err := deployments.Parse("local", []byte(`{"a": {"mailbox": "0x02"}, "mailbox": "0x01"}`))
	require.NoError(t, err)
	got, err := d.Address("mailbox")
	require.NoError(t, err)
	assert.Equal(t, "0x01", got)

	d, err = deployments.Parse("local", []byte(`{"b": {"mailbox": "0x02"}, "a": {"x": {"mailbox": "0x03"}}}`))
	require.NoError(t, err)
	got, err = d.Address("mailbox")
	require.NoError(t, err)
	assert.Equal(t, "0x03", got)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := deployments.Load(dir, "missing")
	require.Error(t, err)

	writeNetwork(t, dir, "broken", "{")
	_, err = deployments.Load(dir, "broken")
	require.Error(t, err)

	d, err := deployments.Parse("local", []byte(`{"mailbox": "not hex"}`))
	require.NoError(t, err)
	_, err = d.Bytes32("mailbox")
	require.Error(t, err)
}

func TestSave_PreservesUnknownEntries(t *testing.T) {
	dir := t.TempDir()
	writeNetwork(t, dir, "sepolia", sepolia)

	require.NoError(t, deployments.Save(dir, "sepolia", map[string]string{
		"mailbox":        "0x01",
		"test_recipient": "0x02",
	}))

	raw, err := os.ReadFile(deployments.Path(dir, "sepolia"))
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(raw, &tree))
	assert.Contains(t, tree, "hooks")
	assert.Contains(t, tree, "isms")

	d, err := deployments.Load(dir, "sepolia")
	require.NoError(t, err)
	got, err := d.Address("mailbox")
	require.NoError(t, err)
	assert.Equal(t, "0x01", got)
	got, err = d.Address("test_recipient")
	require.NoError(t, err)
	assert.Equal(t, "0x02", got)
}

func TestSave_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, deployments.Save(dir, "anvil", map[string]string{"mailbox": "0x01"}))

	d, err := deployments.Load(dir, "anvil")
	require.NoError(t, err)
	got, err := d.Address("mailbox")
	require.NoError(t, err)
	assert.Equal(t, "0x01", got)
}
