package core

// ScheduledTransaction is a recurring transaction template from the
// budgeting provider: an anchor first occurrence, the provider-computed
// next occurrence, and a cadence.
type ScheduledTransaction struct {
	ID           string
	PayeeID      string
	PayeeName    string
	CategoryID   string
	Memo         string
	Amount       Money
	First        Date
	Next         Date
	Cadence      Cadence
	Deleted      bool
	Subparts     []SubTransaction
}

// SubTransaction is one split of a scheduled transaction. Splits carry
// their own payee, category and amount but inherit the parent's schedule.
type SubTransaction struct {
	ID         string
	PayeeID    string
	PayeeName  string
	CategoryID string
	Memo       string
	Amount     Money
	Deleted    bool
}

// HasSubparts reports whether the transaction is split.
func (t ScheduledTransaction) HasSubparts() bool {
	return len(t.Subparts) > 0
}

// Flatten expands split transactions into one synthetic transaction per
// non-deleted subpart, each inheriting the parent's schedule. Deleted
// transactions are dropped; unsplit ones pass through unchanged.
func Flatten(txns []ScheduledTransaction) []ScheduledTransaction {
	out := make([]ScheduledTransaction, 0, len(txns))
	for _, t := range txns {
		if t.Deleted {
			continue
		}
		if !t.HasSubparts() {
			out = append(out, t)
			continue
		}
		for _, sub := range t.Subparts {
			if sub.Deleted {
				continue
			}
			flat := ScheduledTransaction{
				ID:         t.ID + "/" + sub.ID,
				PayeeID:    sub.PayeeID,
				PayeeName:  sub.PayeeName,
				CategoryID: sub.CategoryID,
				Memo:       sub.Memo,
				Amount:     sub.Amount,
				First:      t.First,
				Next:       t.Next,
				Cadence:    t.Cadence,
			}
			if flat.PayeeID == "" {
				flat.PayeeID = t.PayeeID
			}
			if flat.PayeeName == "" {
				flat.PayeeName = t.PayeeName
			}
			out = append(out, flat)
		}
	}
	return out
}

// LinkedToCategory filters transactions by category.
func LinkedToCategory(txns []ScheduledTransaction, categoryID string) []ScheduledTransaction {
	var out []ScheduledTransaction
	for _, t := range txns {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// LinkedToPayees filters transactions whose payee is in the given set.
func LinkedToPayees(txns []ScheduledTransaction, payeeIDs []string) []ScheduledTransaction {
	set := make(map[string]struct{}, len(payeeIDs))
	for _, id := range payeeIDs {
		set[id] = struct{}{}
	}
	var out []ScheduledTransaction
	for _, t := range txns {
		if _, ok := set[t.PayeeID]; ok {
			out = append(out, t)
		}
	}
	return out
}
