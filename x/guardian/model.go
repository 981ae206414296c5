package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
)

// Guardian is the persisted state of a single custody.
type Guardian struct {
	Owner         custody.Address      `json:"owner"`
	Beneficiaries []Beneficiary        `json:"beneficiaries"`
	Assets        []string             `json:"assets"`
	Window        custody.UnixDuration `json:"window"`
	LastActiveAt  custody.UnixTime     `json:"last_active_at"`
	Distributed   bool                 `json:"distributed"`
}

var _ orm.Model = (*Guardian)(nil)

// Validate ensures the guardian can be loaded into a Controller.
func (g *Guardian) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", g.Owner.Validate())
	if _, err := NewRegistry(g.Beneficiaries, g.Assets); err != nil {
		errs = errors.Append(errs, err)
	}
	if g.Window <= 0 {
		errs = errors.AppendField(errs, "Window", ErrInvalidWindow)
	}
	errs = errors.AppendField(errs, "LastActiveAt", g.LastActiveAt.Validate())
	return errs
}

// Controller returns a controller holding the guardian state.
func (g *Guardian) Controller(native string) (*Controller, error) {
	c, err := NewController(g.Owner, g.Beneficiaries, g.Assets, g.Window, g.LastActiveAt, WithNativeTicker(native))
	if err != nil {
		return nil, err
	}
	c.distributed = g.Distributed
	return c, nil
}

// Update copies the controller state back into the model.
func (g *Guardian) Update(c *Controller) {
	g.LastActiveAt = c.LastActiveAt()
	g.Distributed = c.Distributed()
}

// CustodyCondition returns the condition that owns the funds of the guardian
// with given ID.
func CustodyCondition(id []byte) custody.Condition {
	return custody.NewCondition("guardian", "seq", id)
}

// CustodyAddress returns the address holding the funds of the guardian with
// given ID.
func CustodyAddress(id []byte) custody.Address {
	return CustodyCondition(id).Address()
}

// GuardianBucket stores guardians under a sequence key.
type GuardianBucket struct {
	orm.Bucket
}

// NewGuardianBucket returns a bucket indexing guardians by owner and by
// beneficiary.
func NewGuardianBucket() GuardianBucket {
	b := orm.NewBucket("guardian", func() orm.Model { return &Guardian{} }).
		WithIndex("owner", ownerIndex).
		WithIndex("beneficiary", beneficiaryIndex)
	return GuardianBucket{Bucket: b}
}

func ownerIndex(m orm.Model) ([][]byte, error) {
	g, ok := m.(*Guardian)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return [][]byte{g.Owner}, nil
}

func beneficiaryIndex(m orm.Model) ([][]byte, error) {
	g, ok := m.(*Guardian)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	res := make([][]byte, len(g.Beneficiaries))
	for i, b := range g.Beneficiaries {
		res[i] = b.Address
	}
	return res, nil
}

// Create stores a new guardian and returns its ID.
func (b GuardianBucket) Create(db custody.KVStore, g *Guardian) ([]byte, error) {
	return b.Put(db, nil, g)
}

// Get returns the guardian with given ID.
func (b GuardianBucket) Get(db custody.ReadOnlyKVStore, id []byte) (*Guardian, error) {
	var g Guardian
	if err := b.One(db, id, &g); err != nil {
		return nil, errors.Wrapf(err, "guardian %X", id)
	}
	return &g, nil
}

// Save overwrites the guardian with given ID.
func (b GuardianBucket) Save(db custody.KVStore, id []byte, g *Guardian) error {
	_, err := b.Put(db, id, g)
	return err
}

// Leg is a single transfer of a distribution.
type Leg struct {
	Ticker      string          `json:"ticker"`
	Beneficiary custody.Address `json:"beneficiary"`
	Amount      coin.Amount     `json:"amount"`
	// Code is the error code of a failed transfer, zero on success.
	Code  uint32 `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed returns true if the transfer did not happen.
func (l Leg) Failed() bool {
	return l.Code != 0
}

// Receipt is the result of a distribution.
type Receipt struct {
	Claimant  custody.Address  `json:"claimant"`
	ClaimedAt custody.UnixTime `json:"claimed_at"`
	Legs      []Leg            `json:"legs"`
}

var _ orm.Model = (*Receipt)(nil)

func (r *Receipt) Validate() error {
	return errors.Field("Claimant", r.Claimant.Validate(), "")
}

// Failed returns all legs that did not transfer.
func (r *Receipt) Failed() []Leg {
	var res []Leg
	for _, l := range r.Legs {
		if l.Failed() {
			res = append(res, l)
		}
	}
	return res
}

// Transferred returns the sum of successfully transferred ticker.
func (r *Receipt) Transferred(ticker string) coin.Amount {
	var sum coin.Amount
	for _, l := range r.Legs {
		if l.Ticker == ticker && !l.Failed() {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}

// ReceiptBucket stores receipts under the ID of the distributed guardian.
type ReceiptBucket struct {
	orm.Bucket
}

func NewReceiptBucket() ReceiptBucket {
	return ReceiptBucket{
		Bucket: orm.NewBucket("receipt", func() orm.Model { return &Receipt{} }),
	}
}
