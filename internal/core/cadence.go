package core

import "fmt"

// Cadence is the named recurrence pattern of a scheduled transaction,
// using the budgeting provider's frequency identifiers.
type Cadence string

const (
	CadenceNever          Cadence = "never"
	CadenceDaily          Cadence = "daily"
	CadenceWeekly         Cadence = "weekly"
	CadenceEveryOtherWeek Cadence = "everyOtherWeek"
	CadenceTwiceAMonth    Cadence = "twiceAMonth"
	CadenceEvery4Weeks    Cadence = "every4Weeks"
	CadenceMonthly        Cadence = "monthly"
	CadenceEveryOtherMonth Cadence = "everyOtherMonth"
	CadenceEvery3Months   Cadence = "every3Months"
	CadenceEvery4Months   Cadence = "every4Months"
	CadenceTwiceAYear     Cadence = "twiceAYear"
	CadenceYearly         Cadence = "yearly"
	CadenceEveryOtherYear Cadence = "everyOtherYear"
)

var cadences = map[Cadence]struct{}{
	CadenceNever:           {},
	CadenceDaily:           {},
	CadenceWeekly:          {},
	CadenceEveryOtherWeek:  {},
	CadenceTwiceAMonth:     {},
	CadenceEvery4Weeks:     {},
	CadenceMonthly:         {},
	CadenceEveryOtherMonth: {},
	CadenceEvery3Months:    {},
	CadenceEvery4Months:    {},
	CadenceTwiceAYear:      {},
	CadenceYearly:          {},
	CadenceEveryOtherYear:  {},
}

func (c Cadence) Valid() bool {
	_, ok := cadences[c]
	return ok
}

// ParseCadence validates a provider frequency string. The empty string maps
// to CadenceNever: an absent cadence is a legitimate "does not repeat".
func ParseCadence(s string) (Cadence, error) {
	if s == "" {
		return CadenceNever, nil
	}
	c := Cadence(s)
	if !c.Valid() {
		return CadenceNever, fmt.Errorf("unknown cadence %q", s)
	}
	return c, nil
}
