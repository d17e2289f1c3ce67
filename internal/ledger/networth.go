package ledger

import (
	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// TotalKind tags the two aggregate figures computed per period.
type TotalKind string

const (
	TotalAssets   TotalKind = "assets"
	TotalNetWorth TotalKind = "netWorth"
)

// NetTotal is the aggregate figure of one kind for one period, with its
// variance versus the immediately preceding period. PercentDelta is zero
// when the prior total was zero.
type NetTotal struct {
	Kind         TotalKind
	Total        core.Money
	Delta        core.Money
	PercentDelta decimal.Decimal
}

// NetTotals bundles the two per-period aggregates. Records are fully
// recomputed whenever their inputs change, never patched incrementally.
type NetTotals struct {
	Assets   NetTotal
	NetWorth NetTotal
}

func (t NetTotals) equal(o NetTotals) bool {
	return netTotalEqual(t.Assets, o.Assets) && netTotalEqual(t.NetWorth, o.NetWorth)
}

func netTotalEqual(a, b NetTotal) bool {
	return a.Kind == b.Kind &&
		a.Total == b.Total &&
		a.Delta == b.Delta &&
		a.PercentDelta.Equal(b.PercentDelta)
}

// newNetTotal derives a total of the given kind against an optional prior
// total.
func newNetTotal(kind TotalKind, total core.Money, prev *core.Money) NetTotal {
	nt := NetTotal{Kind: kind, Total: total, PercentDelta: decimal.Zero}
	if prev != nil {
		nt.Delta = total.Sub(*prev)
		nt.PercentDelta = core.PercentChange(*prev, total)
	}
	return nt
}

// Resource is a tracked financial position: identity, display name, a
// type tag, optional links to provider account identifiers, and its
// balance series. Liability resources are expected to carry negative
// balances; this is not enforced.
type Resource struct {
	ID         string
	Name       string
	Type       core.ResourceType
	AccountIDs []string
	Balances   *Ledger
}

func NewResource(id, name string, typ core.ResourceType) *Resource {
	return &Resource{
		ID:       id,
		Name:     name,
		Type:     typ,
		Balances: New(),
	}
}

// LinkedTo reports whether the resource tracks the given provider account.
func (r *Resource) LinkedTo(accountID string) bool {
	for _, id := range r.AccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}
