package payout

import (
	"encoding/json"

	"github.com/iov-one/weave"
)

// Split groups. Splits are configured and distributed per group.
const (
	// GroupPayout splits route funds withdrawn from a project treasury.
	GroupPayout uint32 = 1
	// GroupReserved splits route reserved ticket prints.
	GroupReserved uint32 = 2
)

// percentDenominator is the resolution of a split fraction.
const percentDenominator = 10000

// Split is a single routing entry. Percent is the claimed fraction of the
// distributed amount in 1/10000 units. Exactly one routing target applies,
// in order of precedence: Allocator, Project, Beneficiary.
type Split struct {
	Percent        uint32        `json:"percent"`
	Beneficiary    weave.Address `json:"beneficiary,omitempty"`
	Project        []byte        `json:"project,omitempty"`
	Allocator      string        `json:"allocator,omitempty"`
	PreferUnstaked bool          `json:"prefer_unstaked,omitempty"`
}

// SplitGroup is the stored split configuration of a single project group.
type SplitGroup struct {
	Metadata *weave.Metadata `json:"metadata"`
	Splits   []Split         `json:"splits"`
}

func (g *SplitGroup) Marshal() ([]byte, error) {
	return json.Marshal(g)
}

func (g *SplitGroup) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, g)
}

func (g *SplitGroup) GetMetadata() *weave.Metadata {
	return g.Metadata
}

// SetSplitsMsg replaces the split configuration of a project group.
type SetSplitsMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Project  []byte          `json:"project"`
	Group    uint32          `json:"group"`
	Splits   []Split         `json:"splits"`
}

func (m *SetSplitsMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *SetSplitsMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

func (m *SetSplitsMsg) GetMetadata() *weave.Metadata {
	return m.Metadata
}
