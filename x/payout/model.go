package payout

import (
	"encoding/binary"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &SplitGroup{}, migration.NoModification)
}

const projectIDLength = 8

func validateProjectID(id []byte) error {
	if len(id) != projectIDLength {
		return errors.Wrapf(errors.ErrInput, "project ID must be %d bytes", projectIDLength)
	}
	return nil
}

func (s *Split) Validate() error {
	if s.Percent == 0 || s.Percent > percentDenominator {
		return errors.Wrapf(errors.ErrMsg, "percent must be within 1..%d", percentDenominator)
	}
	if len(s.Project) != 0 {
		if err := validateProjectID(s.Project); err != nil {
			return err
		}
	}
	if len(s.Beneficiary) != 0 {
		if err := s.Beneficiary.Validate(); err != nil {
			return errors.Wrap(err, "beneficiary")
		}
	}
	if s.Allocator == "" && len(s.Project) == 0 && len(s.Beneficiary) == 0 {
		return errors.Wrap(errors.ErrMsg, "split requires a routing target")
	}
	return nil
}

// validateSplits checks every entry and the aggregate claimed fraction.
// Reserved group entries route tickets and accept only a plain beneficiary.
func validateSplits(group uint32, splits []Split) error {
	var total uint64
	for i, s := range splits {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "split #%d", i)
		}
		if group == GroupReserved && (s.Allocator != "" || len(s.Project) != 0) {
			return errors.Wrapf(errors.ErrMsg, "split #%d: reserved splits route to a beneficiary only", i)
		}
		total += uint64(s.Percent)
	}
	if total > percentDenominator {
		return errors.Wrapf(errors.ErrMsg, "splits claim %d/%d", total, percentDenominator)
	}
	return nil
}

var _ orm.CloneableData = (*SplitGroup)(nil)

func (g *SplitGroup) Validate() error {
	if err := g.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	var total uint64
	for i, s := range g.Splits {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "split #%d", i)
		}
		total += uint64(s.Percent)
	}
	if total > percentDenominator {
		return errors.Wrapf(errors.ErrModel, "splits claim %d/%d", total, percentDenominator)
	}
	return nil
}

func (g *SplitGroup) Copy() orm.CloneableData {
	splits := make([]Split, len(g.Splits))
	copy(splits, g.Splits)
	return &SplitGroup{
		Metadata: g.Metadata.Copy(),
		Splits:   splits,
	}
}

// SplitsBucket stores one SplitGroup per project and group.
type SplitsBucket struct {
	orm.ModelBucket
}

func NewSplitsBucket() *SplitsBucket {
	b := orm.NewModelBucket("splits", &SplitGroup{})
	return &SplitsBucket{
		ModelBucket: migration.NewModelBucket("payout", b),
	}
}

func splitsKey(project []byte, group uint32) []byte {
	key := make([]byte, len(project)+4)
	copy(key, project)
	binary.BigEndian.PutUint32(key[len(project):], group)
	return key
}

// Load returns the configured splits of a project group. A missing
// configuration is an empty list.
func (b *SplitsBucket) Load(db weave.ReadOnlyKVStore, project []byte, group uint32) ([]Split, error) {
	var g SplitGroup
	switch err := b.One(db, splitsKey(project, group), &g); {
	case err == nil:
		return g.Splits, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "splits")
	}
}

func (b *SplitsBucket) Save(db weave.KVStore, project []byte, group uint32, splits []Split) error {
	g := SplitGroup{
		Metadata: &weave.Metadata{Schema: 1},
		Splits:   splits,
	}
	_, err := b.Put(db, splitsKey(project, group), &g)
	return err
}
