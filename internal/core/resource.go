package core

import "fmt"

// ResourceType partitions financial resources into asset and liability
// groups, each split into cash, investment and long-term subtypes.
type ResourceType string

const (
	AssetCash           ResourceType = "assetCash"
	AssetInvestment     ResourceType = "assetInvestment"
	AssetLongTerm       ResourceType = "assetLongTerm"
	LiabilityCash       ResourceType = "liabilityCash"
	LiabilityInvestment ResourceType = "liabilityInvestment"
	LiabilityLongTerm   ResourceType = "liabilityLongTerm"
)

var resourceTypes = map[ResourceType]struct{}{
	AssetCash:           {},
	AssetInvestment:     {},
	AssetLongTerm:       {},
	LiabilityCash:       {},
	LiabilityInvestment: {},
	LiabilityLongTerm:   {},
}

func (t ResourceType) Valid() bool {
	_, ok := resourceTypes[t]
	return ok
}

func (t ResourceType) IsAsset() bool {
	switch t {
	case AssetCash, AssetInvestment, AssetLongTerm:
		return true
	}
	return false
}

func (t ResourceType) IsLiability() bool {
	switch t {
	case LiabilityCash, LiabilityInvestment, LiabilityLongTerm:
		return true
	}
	return false
}

// ParseResourceType validates a stored resource type tag.
func ParseResourceType(s string) (ResourceType, error) {
	t := ResourceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown resource type %q", s)
	}
	return t, nil
}

// BudgeterConfig identifies a tracked person: a display name plus the
// payee identifiers that mark this person's income among scheduled
// transactions. It is the first stage of the allocation pipeline; later
// stages are distinct types built from it, never mutations of it.
type BudgeterConfig struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	PayeeIDs []string `yaml:"payee_ids"`
}
