package custodyd

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
)

// Tx is the transaction format accepted by the custody chain. It carries a
// single message and the signatures of everyone authorizing it.
type Tx struct {
	Msg        custody.Msg          `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// Field numbers of the sum oneof, see codec.proto.
const (
	fieldSignatures = 2

	fieldSendMsg                        = 51
	fieldCreateGuardianMsg              = 52
	fieldHeartbeatMsg                   = 53
	fieldClaimMsg                       = 54
	fieldWithdrawMsg                    = 55
	fieldUpdateGuardianConfigurationMsg = 56
)

func msgField(msg custody.Msg) (int, error) {
	switch msg.(type) {
	case *cash.SendMsg:
		return fieldSendMsg, nil
	case *guardian.CreateMsg:
		return fieldCreateGuardianMsg, nil
	case *guardian.HeartbeatMsg:
		return fieldHeartbeatMsg, nil
	case *guardian.ClaimMsg:
		return fieldClaimMsg, nil
	case *guardian.WithdrawMsg:
		return fieldWithdrawMsg, nil
	case *guardian.UpdateConfigurationMsg:
		return fieldUpdateGuardianConfigurationMsg, nil
	default:
		return 0, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
}

func newMsg(field int) custody.Msg {
	switch field {
	case fieldSendMsg:
		return &cash.SendMsg{}
	case fieldCreateGuardianMsg:
		return &guardian.CreateMsg{}
	case fieldHeartbeatMsg:
		return &guardian.HeartbeatMsg{}
	case fieldClaimMsg:
		return &guardian.ClaimMsg{}
	case fieldWithdrawMsg:
		return &guardian.WithdrawMsg{}
	case fieldUpdateGuardianConfigurationMsg:
		return &guardian.UpdateConfigurationMsg{}
	default:
		return nil
	}
}

func (tx *Tx) Marshal() ([]byte, error) {
	var e custody.Encoder
	for _, s := range tx.Signatures {
		e.Message(fieldSignatures, s)
	}
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		e.Message(field, tx.Msg)
	}
	return e.Finish()
}

// Unmarshal decodes a transaction. When the sum carries more than one
// message the last one wins, as with any protobuf oneof.
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		if d.Field() == fieldSignatures {
			var s sigs.StdSignature
			d.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
			continue
		}
		msg := newMsg(d.Field())
		if msg == nil {
			d.Skip()
			continue
		}
		d.Message(msg)
		tx.Msg = msg
	}
	return d.Err()
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "transaction without message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}
