package custodyd

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/commands"
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/orm"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
)

// we fix the private keys here for deterministic output with the same
// encoding. These are not secure at all, the only point is to check the
// format, which is easier when everything is reproducible.
var (
	owner     = makePrivKey("1234567890")
	alice     = makePrivKey("F00BA411").PublicKey().Address()
	bob       = makePrivKey("00CAFE00F00D").PublicKey().Address()
	exampleID = orm.EncodeSequence(1)
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex. It uses this repeated string as a "random" seed for the
// private key.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples generates some example structs to dump out with testgen.
func Examples() []commands.Example {
	ownerAddr := owner.PublicKey().Address()
	beneficiaries := []guardian.Beneficiary{
		{Address: alice, Share: 7000},
		{Address: bob, Share: 3000},
	}

	wallet := &cash.Wallet{
		Coins: coin.Coins{coin.NewCoin(5000, "DAI"), coin.NewCoin(10000, "ETH")},
	}

	create := &guardian.CreateMsg{
		Owner:         ownerAddr,
		Beneficiaries: beneficiaries,
		Assets:        []string{"ETH", "DAI"},
		Window:        custody.AsUnixDuration(30 * 24 * time.Hour),
	}

	model := &guardian.Guardian{
		Owner:         ownerAddr,
		Beneficiaries: beneficiaries,
		Assets:        []string{"ETH", "DAI"},
		Window:        create.Window,
		LastActiveAt:  custody.UnixTime(1500000000),
	}

	receipt := &guardian.Receipt{
		Claimant:  alice,
		ClaimedAt: custody.UnixTime(1502592000),
		Legs: []guardian.Leg{
			{Ticker: "ETH", Beneficiary: alice, Amount: coin.NewAmount(7000)},
			{Ticker: "ETH", Beneficiary: bob, Amount: coin.NewAmount(3000)},
			{Ticker: "DAI", Beneficiary: alice, Amount: coin.NewAmount(3500)},
			{Ticker: "DAI", Beneficiary: bob, Amount: coin.NewAmount(1500)},
		},
	}

	send := &cash.SendMsg{
		Source:      ownerAddr,
		Destination: guardian.CustodyAddress(exampleID),
		Amount:      coin.NewCoinp(10000, "ETH"),
		Memo:        "fund custody",
	}

	tx := &Tx{Msg: &guardian.HeartbeatMsg{GuardianID: exampleID}}
	sig, err := sigs.SignTx(owner, tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "guardian", Obj: model},
		{Filename: "receipt", Obj: receipt},
		{Filename: "create_msg", Obj: create},
		{Filename: "heartbeat_msg", Obj: &guardian.HeartbeatMsg{GuardianID: exampleID}},
		{Filename: "claim_msg", Obj: &guardian.ClaimMsg{GuardianID: exampleID, Beneficiary: alice}},
		{Filename: "withdraw_msg", Obj: &guardian.WithdrawMsg{GuardianID: exampleID, Destination: ownerAddr, Amount: coin.NewCoinp(1, "DAI")}},
		{Filename: "send_msg", Obj: send},
		{Filename: "signed_tx", Obj: tx},
	}
}
