package entity

import "github.com/ethereum/go-ethereum/common"

// Session is a read-only view of the wallet session.
type Session struct {
	Connected     bool           `json:"connected"`
	Address       common.Address `json:"address"`
	ChainID       uint64         `json:"chainId"`
	HasSigner     bool           `json:"hasSigner"`
	NativeBalance string         `json:"nativeBalance"`
	Epoch         uint64         `json:"epoch"`
}

// SessionChange tells listeners what happened to the session.
type SessionChange int

const (
	SessionConnected SessionChange = iota
	SessionDisconnected
	SessionBalanceUpdated
)

func (c SessionChange) String() string {
	switch c {
	case SessionConnected:
		return "connected"
	case SessionDisconnected:
		return "disconnected"
	case SessionBalanceUpdated:
		return "balance_updated"
	}
	return "unknown"
}

// ProviderEventKind enumerates wallet provider notifications.
type ProviderEventKind int

const (
	AccountsChanged ProviderEventKind = iota
	ChainChanged
	ProviderDisconnect
)

// ProviderEvent is a notification pushed by the wallet provider.
type ProviderEvent struct {
	Kind     ProviderEventKind
	Accounts []common.Address
	ChainID  uint64
}
