package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/astraly-labs/hyperlane-starknet/protocol"
)

// MailboxABI is the subset of the Hyperlane v3 Mailbox interface the relayer talks to.
const MailboxABI = `[
	{"type":"event","name":"Dispatch","anonymous":false,"inputs":[
		{"name":"sender","type":"address","indexed":true},
		{"name":"destination","type":"uint32","indexed":true},
		{"name":"recipient","type":"bytes32","indexed":true},
		{"name":"message","type":"bytes","indexed":false}]},
	{"type":"event","name":"DispatchId","anonymous":false,"inputs":[
		{"name":"messageId","type":"bytes32","indexed":true}]},
	{"type":"event","name":"Process","anonymous":false,"inputs":[
		{"name":"origin","type":"uint32","indexed":true},
		{"name":"sender","type":"bytes32","indexed":true},
		{"name":"recipient","type":"address","indexed":true}]},
	{"type":"event","name":"ProcessId","anonymous":false,"inputs":[
		{"name":"messageId","type":"bytes32","indexed":true}]},
	{"type":"function","name":"dispatch","stateMutability":"payable","inputs":[
		{"name":"destinationDomain","type":"uint32"},
		{"name":"recipientAddress","type":"bytes32"},
		{"name":"messageBody","type":"bytes"}],
		"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"process","stateMutability":"payable","inputs":[
		{"name":"_metadata","type":"bytes"},
		{"name":"_message","type":"bytes"}],
		"outputs":[]},
	{"type":"function","name":"delivered","stateMutability":"view","inputs":[
		{"name":"_id","type":"bytes32"}],
		"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"localDomain","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"uint32"}]},
	{"type":"function","name":"nonce","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"uint32"}]}
]`

const (
	dispatchEvent  = "Dispatch"
	processMethod  = "process"
	dispatchMethod = "dispatch"
	deliveredCall  = "delivered"
)

var (
	mailboxABI = mustParseABI(MailboxABI)

	// DispatchTopic is topic0 of the Mailbox Dispatch event.
	DispatchTopic = protocol.Bytes32(mailboxABI.Events[dispatchEvent].ID)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("failed to parse Mailbox ABI: " + err.Error())
	}
	return parsed
}

// PackProcess returns the calldata of Mailbox.process(metadata, message).
func PackProcess(metadata, message []byte) ([]byte, error) {
	return mailboxABI.Pack(processMethod, metadata, message)
}
