package guardian

import (
	"testing"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/custodytest"
	"github.com/crypto-guardian/custody/custodytest/assert"
	"github.com/crypto-guardian/custody/errors"
	"lukechampine.com/uint128"
)

func TestSerialization(t *testing.T) {
	a, b := newAddr(), newAddr()
	beneficiaries := []Beneficiary{{Address: a, Share: 6667}, {Address: b, Share: 3333}}
	id := custodytest.SequenceID(4)

	cases := map[string]struct {
		model custody.Persistent
		empty custody.Persistent
	}{
		"guardian": {
			model: &Guardian{
				Owner:         newAddr(),
				Beneficiaries: beneficiaries,
				Assets:        []string{"ETH", "DAI"},
				Window:        thirtyDays,
				LastActiveAt:  1772359200,
				Distributed:   true,
			},
			empty: &Guardian{},
		},
		"receipt with a failed leg": {
			model: &Receipt{
				Claimant:  a,
				ClaimedAt: 1772359200,
				Legs: []Leg{
					{Ticker: "ETH", Beneficiary: a, Amount: uint128.New(1, 2)},
					{Ticker: "ETH", Beneficiary: b, Amount: uint128.Max, Code: errors.ErrAmount.ABCICode(), Error: "insufficient"},
				},
			},
			empty: &Receipt{},
		},
		"configuration": {
			model: &Configuration{Owner: a, NativeTicker: "IOV", MaxBeneficiaries: 12},
			empty: &Configuration{},
		},
		"create": {
			model: &CreateMsg{Owner: a, Beneficiaries: beneficiaries, Window: day},
			empty: &CreateMsg{},
		},
		"heartbeat": {
			model: &HeartbeatMsg{GuardianID: id},
			empty: &HeartbeatMsg{},
		},
		"claim": {
			model: &ClaimMsg{GuardianID: id, Beneficiary: b},
			empty: &ClaimMsg{},
		},
		"withdraw": {
			model: &WithdrawMsg{GuardianID: id, Destination: a, Amount: coin.NewCoinp(3, "ETH")},
			empty: &WithdrawMsg{},
		},
		"update configuration": {
			model: &UpdateConfigurationMsg{Patch: &Configuration{NativeTicker: "DAI"}},
			empty: &UpdateConfigurationMsg{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := tc.model.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.empty.Unmarshal(raw))
			assert.Equal(t, tc.model, tc.empty)
		})
	}
}

func TestUnmarshalResetsModel(t *testing.T) {
	g := &Guardian{Owner: newAddr(), Assets: []string{"ETH"}, Distributed: true}
	raw, err := (&Guardian{Window: day}).Marshal()
	assert.Nil(t, err)
	assert.Nil(t, g.Unmarshal(raw))
	assert.Equal(t, &Guardian{Window: day}, g)

	if err := g.Unmarshal([]byte{0x12, 0x03, 0x0a}); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
