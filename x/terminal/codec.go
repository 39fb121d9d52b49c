package terminal

import (
	"encoding/json"

	"github.com/iov-one/weave"
)

// Treasury is the per project terminal state. Balance is denominated in
// settlement units, one coin of the configured ticker is priceUnit units.
// The coins themselves are custodied in the x/cash wallet of the project
// treasury address.
type Treasury struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Balance is the pooled value in settlement units.
	Balance int64 `json:"balance"`
	// Tracker is the signed processed ticket tracker. The total supply
	// minus the tracker is the amount of tickets not yet accounted for
	// reserved ticket printing.
	Tracker int64 `json:"tracker"`
	// PreconfigureCount is the amount of tickets printed before the first
	// funding cycle configuration.
	PreconfigureCount int64 `json:"preconfigure_count"`
	// WeightOverride replaces the cycle weight when positive.
	WeightOverride int64 `json:"weight_override,omitempty"`
}

func (t *Treasury) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

func (t *Treasury) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, t)
}

func (t *Treasury) GetMetadata() *weave.Metadata {
	return t.Metadata
}

// Configuration is the gconf singleton of the terminal package.
type Configuration struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Owner can update this configuration.
	Owner weave.Address `json:"owner"`
	// Ticker is the settlement currency all treasuries custody.
	Ticker string `json:"ticker"`
	// BaseWeight is the mint weight used before the first funding cycle
	// of a project is configured, fixed point in weightUnit scale.
	BaseWeight int64 `json:"base_weight"`
	// PlatformProject receives protocol fees as contributions.
	PlatformProject []byte `json:"platform_project"`
	// AllowedTerminals lists migration destinations.
	AllowedTerminals []weave.Address `json:"allowed_terminals"`
}

func (c *Configuration) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *Configuration) GetMetadata() *weave.Metadata {
	return c.Metadata
}

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

// ContributeMsg pays value into a project treasury, minting project tickets
// for the beneficiary.
type ContributeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	// Amount is in settlement units.
	Amount      int64         `json:"amount"`
	Beneficiary weave.Address `json:"beneficiary"`
	// MinTickets aborts the contribution when the minted unreserved
	// ticket amount is lower.
	MinTickets     int64  `json:"min_tickets"`
	PreferUnstaked bool   `json:"prefer_unstaked"`
	Memo           string `json:"memo,omitempty"`
}

func (m *ContributeMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *ContributeMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *ContributeMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// WithdrawMsg releases value up to the cycle spending target and routes it
// through the configured payout splits.
type WithdrawMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	// Amount is in the given currency, converted through the price feed.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	// MinValue aborts the withdrawal when the converted settlement value
	// is lower.
	MinValue int64 `json:"min_value"`
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *WithdrawMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// UseAllowanceMsg draws from the per configuration overflow allowance and
// sends the value directly to the beneficiary.
type UseAllowanceMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Project     []byte          `json:"project"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Beneficiary weave.Address   `json:"beneficiary"`
	MinValue    int64           `json:"min_value"`
}

func (m *UseAllowanceMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *UseAllowanceMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *UseAllowanceMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// RedeemMsg burns tickets of the main signer in exchange for a share of the
// project overflow.
type RedeemMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	// Count is the amount of tickets to redeem.
	Count int64 `json:"count"`
	// MinValue aborts the redemption when the claimable overflow share is
	// lower.
	MinValue       int64         `json:"min_value"`
	Beneficiary    weave.Address `json:"beneficiary"`
	PreferUnstaked bool          `json:"prefer_unstaked"`
}

func (m *RedeemMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *RedeemMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *RedeemMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// PrintReservedMsg mints all reserved tickets owed since the tracker was
// last synced and distributes them over the reserved splits.
type PrintReservedMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
}

func (m *PrintReservedMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *PrintReservedMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *PrintReservedMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// MigrateMsg moves the full pooled balance of a project to an allow listed
// destination terminal and updates the terminal of record.
type MigrateMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Project     []byte          `json:"project"`
	Destination weave.Address   `json:"destination"`
}

func (m *MigrateMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *MigrateMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *MigrateMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// AddBalanceMsg adds value to a project treasury without minting tickets.
type AddBalanceMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Amount   int64           `json:"amount"`
	Memo     string          `json:"memo,omitempty"`
}

func (m *AddBalanceMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *AddBalanceMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *AddBalanceMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// SetWeightMsg sets the per project mint weight override. A zero weight
// removes the override.
type SetWeightMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Weight   int64           `json:"weight"`
}

func (m *SetWeightMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *SetWeightMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *SetWeightMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}

// UpdateConfigurationMsg patches the terminal configuration. Zero valued
// patch fields keep the current value.
type UpdateConfigurationMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Patch    *Configuration  `json:"patch"`
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *UpdateConfigurationMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}
