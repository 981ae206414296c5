package app

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
)

// ResultSet is the serialized form of query results. A query response
// carries two sets, one of keys and one of values, of the same length.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	var e custody.Encoder
	e.RepeatedBytes(1, r.Results)
	return e.Finish()
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	d := custody.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			r.Results = append(r.Results, d.Bytes())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of
// models.
func ResultsFromValues(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes them a
// consistent whole again.
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	models := make([]custody.Model, len(kref))
	for i := range models {
		models[i] = custody.Pair(kref[i], vref[i])
	}
	return models, nil
}

// UnmarshalOneResult will parse a result set, and if it is not empty,
// unmarshal the first result into dest. Returns ErrNotFound for an empty
// set.
func UnmarshalOneResult(raw []byte, dest custody.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return dest.Unmarshal(res.Results[0])
}
