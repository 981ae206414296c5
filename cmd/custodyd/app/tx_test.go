package custodyd

import (
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/custodytest"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxDecoder(t *testing.T) {
	tx := &Tx{Msg: &guardian.HeartbeatMsg{GuardianID: exampleID}}
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(owner, tx, "test-chain", 3)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	// Sign bytes do not depend on the signatures.
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signBytes)
	assert.Len(t, tx.Signatures, 1)

	raw, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	require.IsType(t, &guardian.HeartbeatMsg{}, msg)
	assert.Equal(t, exampleID, msg.(*guardian.HeartbeatMsg).GuardianID)
	assert.Len(t, decoded.(*Tx).GetSignatures(), 1)
	assert.Equal(t, int64(3), decoded.(*Tx).Signatures[0].Sequence)

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrInput.Is(err))

	_, err = TxDecoder([]byte{0xFF, 0xFF, 0xFF})
	assert.Error(t, err)
}

func TestTxMessages(t *testing.T) {
	ownerAddr := owner.PublicKey().Address()
	msgs := []custody.Msg{
		&cash.SendMsg{Source: ownerAddr, Destination: alice, Amount: coin.NewCoinp(1, "ETH")},
		&guardian.CreateMsg{Owner: ownerAddr, Beneficiaries: []guardian.Beneficiary{{Address: alice, Share: guardian.TotalShares}}, Window: 60},
		&guardian.HeartbeatMsg{GuardianID: exampleID},
		&guardian.ClaimMsg{GuardianID: exampleID, Beneficiary: alice},
		&guardian.WithdrawMsg{GuardianID: exampleID, Destination: ownerAddr, Amount: coin.NewCoinp(2, "DAI")},
		&guardian.UpdateConfigurationMsg{Patch: &guardian.Configuration{NativeTicker: "DAI"}},
	}
	for _, msg := range msgs {
		raw, err := (&Tx{Msg: msg}).Marshal()
		require.NoError(t, err)
		decoded, err := TxDecoder(raw)
		require.NoError(t, err)
		got, err := decoded.GetMsg()
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}

	_, err := (&Tx{Msg: &custodytest.Msg{RoutePath: "test/unknown"}}).Marshal()
	assert.True(t, errors.ErrType.Is(err))

	// Unknown fields are ignored, a transaction without a message is not.
	decoded, err := TxDecoder([]byte{0x08, 0x01})
	require.NoError(t, err)
	_, err = decoded.GetMsg()
	assert.True(t, errors.ErrInput.Is(err))
}

func TestExamples(t *testing.T) {
	for _, ex := range Examples() {
		raw, err := ex.Obj.Marshal()
		require.NoError(t, err, ex.Filename)
		assert.NotEmpty(t, raw, ex.Filename)
	}
}
