package terminal

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &Treasury{}, migration.NoModification)
}

const projectIDLength = 8

func validateProjectID(id []byte) error {
	if len(id) != projectIDLength {
		return errors.Wrapf(errors.ErrInput, "project ID must be %d bytes", projectIDLength)
	}
	return nil
}

var _ orm.CloneableData = (*Treasury)(nil)

func (t *Treasury) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if t.Balance < 0 {
		return errors.Wrap(errors.ErrModel, "negative balance")
	}
	if t.PreconfigureCount < 0 {
		return errors.Wrap(errors.ErrModel, "negative preconfigure count")
	}
	if t.WeightOverride < 0 {
		return errors.Wrap(errors.ErrModel, "negative weight override")
	}
	return nil
}

func (t *Treasury) Copy() orm.CloneableData {
	return &Treasury{
		Metadata:          t.Metadata.Copy(),
		Balance:           t.Balance,
		Tracker:           t.Tracker,
		PreconfigureCount: t.PreconfigureCount,
		WeightOverride:    t.WeightOverride,
	}
}

// TreasuryBucket stores one Treasury per project, keyed by project ID.
type TreasuryBucket struct {
	orm.ModelBucket
}

func NewTreasuryBucket() *TreasuryBucket {
	b := orm.NewModelBucket("treasury", &Treasury{})
	return &TreasuryBucket{
		ModelBucket: migration.NewModelBucket("terminal", b),
	}
}

// GetOrCreate returns the treasury of a project, falling back to an empty
// one when the project never received value through this terminal.
func (b *TreasuryBucket) GetOrCreate(db weave.ReadOnlyKVStore, project []byte) (*Treasury, error) {
	var t Treasury
	switch err := b.One(db, project, &t); {
	case err == nil:
		return &t, nil
	case errors.ErrNotFound.Is(err):
		return &Treasury{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "treasury")
	}
}

func (b *TreasuryBucket) Save(db weave.KVStore, project []byte, t *Treasury) error {
	_, err := b.Put(db, project, t)
	return err
}
