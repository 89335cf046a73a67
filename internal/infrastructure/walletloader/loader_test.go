package walletloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestParseMixesKeysAndWatchAddresses(t *testing.T) {
	input := strings.Join([]string{
		"# signer",
		"0x" + testKey,
		"",
		"0x00000000000000000000000000000000000000aa",
		"not-a-key",
	}, "\n")

	accounts, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, accounts.Keys, 1)
	require.Len(t, accounts.Watch, 1)

	key, _ := crypto.HexToECDSA(testKey)
	addrs := accounts.Addresses()
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addrs[0])
	assert.Equal(t, common.HexToAddress("0xaa"), addrs[1])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte(testKey+"\n"), 0o600))

	accounts, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, accounts.Keys, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}
