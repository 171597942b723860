package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSigner_SignText(t *testing.T) {
	signer, err := GenerateSigner()
	require.NoError(t, err)

	msg := []byte("hello web3 türkiye")
	sig, err := signer.SignText(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[64])

	sig[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash(msg), sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))

	pub, err = crypto.SigToPub(accounts.TextHash([]byte("other")), sig)
	if err == nil {
		assert.NotEqual(t, signer.Address(), crypto.PubkeyToAddress(*pub))
	}
}

func TestSignerFromHex(t *testing.T) {
	// well known hardhat account #0
	const key = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	signer, err := SignerFromHex(key)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), signer.Address())

	_, err = SignerFromHex("not-a-key")
	assert.Error(t, err)
}
