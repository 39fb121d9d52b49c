package ticket

import (
	"encoding/json"

	"github.com/iov-one/weave"
)

// Token is the one time issuance record of a project. Once written it is
// never modified. The ticker is registered with the x/currency extension at
// issuance time and unstaked tickets are coins of that ticker.
type Token struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Name is the human readable token name.
	Name string `json:"name"`
	// Ticker is the currency symbol of the unstaked representation.
	Ticker string `json:"ticker"`
}

func (t *Token) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, t)
}

func (t *Token) GetMetadata() *weave.Metadata {
	return t.Metadata
}

// Account is the staked ticket state of a single holder within a single
// project. Locked is the portion of Staked that lockers reserved and that
// cannot be spent, unstaked or transferred.
type Account struct {
	Metadata *weave.Metadata `json:"metadata"`
	Staked   int64           `json:"staked"`
	Locked   int64           `json:"locked"`
}

func (a *Account) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, a)
}

func (a *Account) GetMetadata() *weave.Metadata {
	return a.Metadata
}

// Grant is the amount a single locker locked on a single holder account.
// Only the locker that created a grant can release it. The sum of all grants
// for a holder equals the Locked value of the holder account.
type Grant struct {
	Metadata *weave.Metadata `json:"metadata"`
	Amount   int64           `json:"amount"`
}

func (g *Grant) Marshal() ([]byte, error) {
	return json.Marshal(g)
}

func (g *Grant) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, g)
}

func (g *Grant) GetMetadata() *weave.Metadata {
	return g.Metadata
}

// Supply is the per project ticket supply bookkeeping. Staked is the sum of
// all staked account balances. Unstaked mirrors the amount of project ticker
// coins minted through this ledger and not yet burned.
type Supply struct {
	Metadata *weave.Metadata `json:"metadata"`
	Staked   int64           `json:"staked"`
	Unstaked int64           `json:"unstaked"`
}

func (s *Supply) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Supply) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

func (s *Supply) GetMetadata() *weave.Metadata {
	return s.Metadata
}

// IssueTokenMsg creates the one time transferable token of a project.
type IssueTokenMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Name     string          `json:"name"`
	Ticker   string          `json:"ticker"`
}

func (m *IssueTokenMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *IssueTokenMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *IssueTokenMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// StakeMsg converts unstaked tickets of the main signer into staked ones.
type StakeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Amount   int64           `json:"amount"`
}

func (m *StakeMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *StakeMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *StakeMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// UnstakeMsg converts unlocked staked tickets of the main signer into
// unstaked ones.
type UnstakeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Amount   int64           `json:"amount"`
}

func (m *UnstakeMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *UnstakeMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *UnstakeMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// LockMsg locks staked tickets of a holder. The main signer becomes the
// locker and is the only identity that can release the grant.
type LockMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Holder   weave.Address   `json:"holder"`
	Amount   int64           `json:"amount"`
}

func (m *LockMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *LockMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *LockMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// UnlockMsg releases a lock grant previously created by the main signer.
type UnlockMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Holder   weave.Address   `json:"holder"`
	Amount   int64           `json:"amount"`
}

func (m *UnlockMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *UnlockMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *UnlockMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// TransferMsg moves staked tickets from the main signer to the recipient.
type TransferMsg struct {
	Metadata  *weave.Metadata `json:"metadata"`
	Project   []byte          `json:"project"`
	Recipient weave.Address   `json:"recipient"`
	Amount    int64           `json:"amount"`
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *TransferMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}
