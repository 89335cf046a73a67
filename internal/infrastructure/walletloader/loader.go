package walletloader

import (
	"bufio"
	"crypto/ecdsa"
	"fmt"
	"io"
	"os"
	"strings"

	"wrmb_dapp/internal/app/port"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Accounts is what a key file yields: signing keys and watch-only addresses, in file order.
type Accounts struct {
	Keys  []*ecdsa.PrivateKey
	Watch []common.Address
}

// Addresses returns the signing accounts followed by the watch-only ones.
func (a Accounts) Addresses() []common.Address {
	out := make([]common.Address, 0, len(a.Keys)+len(a.Watch))
	for _, k := range a.Keys {
		out = append(out, crypto.PubkeyToAddress(k.PublicKey))
	}
	return append(out, a.Watch...)
}

// LoadFile reads a key file. Each line is a hex private key or a 0x address; blank lines
// and # comments are skipped.
func LoadFile(path string, log port.Logger) (Accounts, error) {
	file, err := os.Open(path)
	if err != nil {
		return Accounts{}, fmt.Errorf("failed to open key file %s: %w", path, err)
	}
	defer file.Close()

	accounts, err := Parse(file, log)
	if err != nil {
		return Accounts{}, fmt.Errorf("key file %s: %w", path, err)
	}
	if log != nil {
		log.Info("Wallet accounts loaded", "path", path, "keys", len(accounts.Keys), "watch", len(accounts.Watch))
	}
	return accounts, nil
}

// Parse reads key material from r. Malformed lines are logged and skipped.
func Parse(r io.Reader, log port.Logger) (Accounts, error) {
	var accounts Accounts
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if common.IsHexAddress(line) && len(line) == 42 {
			accounts.Watch = append(accounts.Watch, common.HexToAddress(line))
			continue
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(line, "0x"))
		if err != nil {
			if log != nil {
				log.Warn("Skipping invalid key file entry", "line_number", lineNum)
			}
			continue
		}
		accounts.Keys = append(accounts.Keys, key)
	}
	if err := scanner.Err(); err != nil {
		return Accounts{}, fmt.Errorf("error scanning key file: %w", err)
	}
	return accounts, nil
}
