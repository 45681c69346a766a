// Package solana holds small helpers for Solana addresses and
// transaction links.
package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// publicKeyLen is the byte length of an ed25519 public key.
const publicKeyLen = 32

// ValidAddress reports whether s decodes as a 32-byte base58 value.
// Wallet addresses are ed25519 public keys; off-curve program-derived
// addresses are still accepted since they own staking positions too.
func ValidAddress(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == publicKeyLen
}

// OnCurve reports whether the address is a valid ed25519 curve point,
// i.e. a keypair-backed wallet rather than a program-derived address.
func OnCurve(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != publicKeyLen {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// SolscanTxURL returns the Solscan explorer URL for a transaction.
func SolscanTxURL(signature string) string {
	return fmt.Sprintf("https://solscan.io/tx/%s", signature)
}
