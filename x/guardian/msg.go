package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
)

// CreateMsg registers a new guardian. The owner must sign the transaction.
type CreateMsg struct {
	Owner         custody.Address      `json:"owner"`
	Beneficiaries []Beneficiary        `json:"beneficiaries"`
	Assets        []string             `json:"assets,omitempty"`
	Window        custody.UnixDuration `json:"window"`
}

var _ custody.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string { return "guardian/create" }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if m.Window <= 0 {
		errs = errors.AppendField(errs, "Window", ErrInvalidWindow)
	}
	if _, err := NewRegistry(m.Beneficiaries, m.Assets); err != nil {
		errs = errors.Append(errs, err)
	}
	return errs
}

// HeartbeatMsg proves the owner is still active.
type HeartbeatMsg struct {
	GuardianID []byte `json:"guardian_id"`
}

var _ custody.Msg = (*HeartbeatMsg)(nil)

func (HeartbeatMsg) Path() string { return "guardian/heartbeat" }

func (m *HeartbeatMsg) Validate() error {
	return validID("GuardianID", m.GuardianID)
}

// ClaimMsg requests the distribution of an inactive owner's assets. The
// beneficiary must sign the transaction.
type ClaimMsg struct {
	GuardianID  []byte          `json:"guardian_id"`
	Beneficiary custody.Address `json:"beneficiary"`
}

var _ custody.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string { return "guardian/claim" }

func (m *ClaimMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, validID("GuardianID", m.GuardianID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	return errs
}

// WithdrawMsg moves funds from the custody back under the owner control.
type WithdrawMsg struct {
	GuardianID  []byte          `json:"guardian_id"`
	Destination custody.Address `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
}

var _ custody.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string { return "guardian/withdraw" }

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, validID("GuardianID", m.GuardianID))
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == nil || m.Amount.IsZero() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

// UpdateConfigurationMsg patches the extension configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ custody.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "guardian/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	return nil
}

func validID(field string, id []byte) error {
	if len(id) != 8 {
		return errors.Field(field, errors.ErrInput, "must be 8 bytes long, got %d", len(id))
	}
	return nil
}
