package ticket

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &Token{}, migration.NoModification)
	migration.MustRegister(1, &Account{}, migration.NoModification)
	migration.MustRegister(1, &Grant{}, migration.NoModification)
	migration.MustRegister(1, &Supply{}, migration.NoModification)
}

// projectIDLength is the number of bytes of a project identifier. Project
// identifiers are sequence values issued by the project registry.
const projectIDLength = 8

func validateProjectID(id []byte) error {
	if len(id) != projectIDLength {
		return errors.Wrapf(errors.ErrInput, "project ID must be %d bytes", projectIDLength)
	}
	return nil
}

var _ orm.CloneableData = (*Token)(nil)

func (t *Token) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if !isTokenName(t.Name) {
		return errors.Wrapf(errors.ErrInput, "invalid token name %q", t.Name)
	}
	if !coin.IsCC(t.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", t.Ticker)
	}
	return nil
}

func (t *Token) Copy() orm.CloneableData {
	return &Token{
		Metadata: t.Metadata.Copy(),
		Name:     t.Name,
		Ticker:   t.Ticker,
	}
}

var _ orm.CloneableData = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if a.Staked < 0 {
		return errors.Wrap(errors.ErrModel, "negative staked amount")
	}
	if a.Locked < 0 {
		return errors.Wrap(errors.ErrModel, "negative locked amount")
	}
	if a.Locked > a.Staked {
		return errors.Wrap(errors.ErrModel, "locked amount exceeds staked amount")
	}
	return nil
}

func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Metadata: a.Metadata.Copy(),
		Staked:   a.Staked,
		Locked:   a.Locked,
	}
}

var _ orm.CloneableData = (*Grant)(nil)

func (g *Grant) Validate() error {
	if err := g.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if g.Amount < 0 {
		return errors.Wrap(errors.ErrModel, "negative grant amount")
	}
	return nil
}

func (g *Grant) Copy() orm.CloneableData {
	return &Grant{
		Metadata: g.Metadata.Copy(),
		Amount:   g.Amount,
	}
}

var _ orm.CloneableData = (*Supply)(nil)

func (s *Supply) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Staked < 0 || s.Unstaked < 0 {
		return errors.Wrap(errors.ErrModel, "negative supply")
	}
	return nil
}

func (s *Supply) Copy() orm.CloneableData {
	return &Supply{
		Metadata: s.Metadata.Copy(),
		Staked:   s.Staked,
		Unstaked: s.Unstaked,
	}
}

// TokenBucket stores at most one Token per project, keyed by project ID.
type TokenBucket struct {
	orm.ModelBucket
}

func NewTokenBucket() *TokenBucket {
	b := orm.NewModelBucket("token", &Token{})
	return &TokenBucket{
		ModelBucket: migration.NewModelBucket("ticket", b),
	}
}

// GetToken returns the issued token of a project or ErrNotFound.
func (b *TokenBucket) GetToken(db weave.ReadOnlyKVStore, project []byte) (*Token, error) {
	var t Token
	if err := b.One(db, project, &t); err != nil {
		return nil, errors.Wrapf(err, "project %x token", project)
	}
	return &t, nil
}

// AccountBucket stores staked ticket accounts keyed by project and holder.
type AccountBucket struct {
	orm.ModelBucket
}

func NewAccountBucket() *AccountBucket {
	b := orm.NewModelBucket("tickacc", &Account{})
	return &AccountBucket{
		ModelBucket: migration.NewModelBucket("ticket", b),
	}
}

func accountKey(project []byte, holder weave.Address) []byte {
	key := make([]byte, 0, len(project)+len(holder))
	key = append(key, project...)
	return append(key, holder...)
}

// GetOrCreate returns the account of a holder, falling back to an empty one
// when the holder never held staked tickets of this project.
func (b *AccountBucket) GetOrCreate(db weave.ReadOnlyKVStore, project []byte, holder weave.Address) (*Account, error) {
	var acc Account
	switch err := b.One(db, accountKey(project, holder), &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return &Account{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "account")
	}
}

func (b *AccountBucket) Save(db weave.KVStore, project []byte, holder weave.Address, acc *Account) error {
	_, err := b.Put(db, accountKey(project, holder), acc)
	return err
}

// GrantBucket stores lock grants keyed by project, holder and locker.
type GrantBucket struct {
	orm.ModelBucket
}

func NewGrantBucket() *GrantBucket {
	b := orm.NewModelBucket("grant", &Grant{})
	return &GrantBucket{
		ModelBucket: migration.NewModelBucket("ticket", b),
	}
}

func grantKey(project []byte, holder, locker weave.Address) []byte {
	key := make([]byte, 0, len(project)+len(holder)+len(locker))
	key = append(key, project...)
	key = append(key, holder...)
	return append(key, locker...)
}

func (b *GrantBucket) GetOrCreate(db weave.ReadOnlyKVStore, project []byte, holder, locker weave.Address) (*Grant, error) {
	var g Grant
	switch err := b.One(db, grantKey(project, holder, locker), &g); {
	case err == nil:
		return &g, nil
	case errors.ErrNotFound.Is(err):
		return &Grant{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "grant")
	}
}

func (b *GrantBucket) Save(db weave.KVStore, project []byte, holder, locker weave.Address, g *Grant) error {
	_, err := b.Put(db, grantKey(project, holder, locker), g)
	return err
}

// SupplyBucket stores per project supply bookkeeping keyed by project ID.
type SupplyBucket struct {
	orm.ModelBucket
}

func NewSupplyBucket() *SupplyBucket {
	b := orm.NewModelBucket("supply", &Supply{})
	return &SupplyBucket{
		ModelBucket: migration.NewModelBucket("ticket", b),
	}
}

func (b *SupplyBucket) GetOrCreate(db weave.ReadOnlyKVStore, project []byte) (*Supply, error) {
	var s Supply
	switch err := b.One(db, project, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &Supply{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "supply")
	}
}

func (b *SupplyBucket) Save(db weave.KVStore, project []byte, s *Supply) error {
	_, err := b.Put(db, project, s)
	return err
}
