// Package eth provides EIP-191 personal message signing.
package eth

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of an [R || S || V] signature.
const SignatureLength = crypto.SignatureLength

// Signer signs personal messages on behalf of one account.
type Signer interface {
	Address() common.Address
	SignText(msg []byte) ([]byte, error)
}

// LocalSigner signs with an in-memory private key.
type LocalSigner struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner wraps key.
func NewLocalSigner(key *ecdsa.PrivateKey) LocalSigner {
	return LocalSigner{key: key}
}

// GenerateSigner creates a signer for a fresh random key.
func GenerateSigner() (LocalSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return LocalSigner{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return LocalSigner{key: key}, nil
}

// SignerFromHex loads a signer from a hex private key, with or without 0x prefix.
func SignerFromHex(hexKey string) (LocalSigner, error) {
	if len(hexKey) >= 2 && (hexKey[:2] == "0x" || hexKey[:2] == "0X") {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return LocalSigner{}, fmt.Errorf("failed to parse private key: %w", err)
	}
	return LocalSigner{key: key}, nil
}

func (s LocalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SignText signs msg the way wallets implement personal_sign. V is 27 or 28.
func (s LocalSigner) SignText(msg []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(msg), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
