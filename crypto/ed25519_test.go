package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)

	if bytes.Equal(sig.Ed25519, sig2.Ed25519) {
		t.Fatal("different messages produce the same signature")
	}

	assert.True(t, public.Verify(msg, sig))
	assert.True(t, public.Verify(msg2, sig2))
	assert.False(t, public.Verify(msg, sig2))
	assert.False(t, public.Verify(msg2, sig))
	assert.False(t, public.Verify(msg, &Signature{}))
	assert.False(t, public.Verify(msg, nil))
}

func TestEd25519Condition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()

	require.NoError(t, pub.Condition().Validate())
	require.NoError(t, pub.Validate())
	assert.False(t, pub.Condition().Equals(pub2.Condition()))
	assert.False(t, pub.Address().Equals(pub2.Address()))
	assert.Len(t, pub.Address(), custody.AddressLength)

	ext, typ, data, err := pub.Condition().Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)

	var empty *PublicKey
	assert.Nil(t, empty.Condition())
	assert.True(t, errors.ErrInput.Is(empty.Validate()))
}

func TestPrivKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.Ed25519, b.Ed25519)
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestDeriveKey(t *testing.T) {
	// SLIP-0010 ed25519 test vector 1.
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	key, err := DeriveKey(seed, "m/0'")
	require.NoError(t, err)
	assert.Equal(t,
		"8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c",
		hex.EncodeToString(key.PublicKey().Ed25519))

	other, err := DeriveKey(seed, DefaultDerivationPath)
	require.NoError(t, err)
	assert.NotEqual(t, key.Ed25519, other.Ed25519)

	_, err = DeriveKey(seed, "not a path")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPublicKeySerialization(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	raw, err := pub.Marshal()
	require.NoError(t, err)

	var got PublicKey
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, pub.Ed25519, got.Ed25519)
}

func TestSignatureSerialization(t *testing.T) {
	sig, err := GenPrivKeyEd25519().Sign([]byte("heartbeat"))
	require.NoError(t, err)
	raw, err := sig.Marshal()
	require.NoError(t, err)
	// Field 1, length delimited, 64 bytes.
	assert.Equal(t, []byte{0x0a, 0x40}, raw[:2])

	var got Signature
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, sig.Ed25519, got.Ed25519)

	assert.True(t, errors.ErrInput.Is(got.Unmarshal([]byte{0x0a, 0x40, 0x01})))
}
