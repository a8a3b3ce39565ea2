package ethsig

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignAndRecover(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)

	msg := []byte("Sign this nonce to log in: 8c1f")
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, sig, crypto.SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])

	addr, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), addr)

	other, err := RecoverAddress([]byte("a different message"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, signer.Address(), other)
}

func TestRecoverRejectsMalformedSignature(t *testing.T) {
	_, err := RecoverAddress([]byte("m"), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewKeySignerRejectsGarbage(t *testing.T) {
	_, err := NewKeySigner("not-a-key")
	assert.Error(t, err)
}

func TestTransactOptsCarriesSender(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)
	ctx := context.Background()
	opts, err := signer.TransactOpts(ctx, big.NewInt(137))
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), opts.From)
	assert.Equal(t, ctx, opts.Context)
}
