package provider

import (
	"time"

	"bilancio/internal/core"
)

// Wire types for the provider API. Amounts arrive in milliunits (one
// thousandth of the currency unit) and dates as YYYY-MM-DD strings.

type accountsResponse struct {
	Data struct {
		Accounts []wireAccount `json:"accounts"`
	} `json:"data"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups []wireCategoryGroup `json:"category_groups"`
	} `json:"data"`
}

type scheduledResponse struct {
	Data struct {
		ScheduledTransactions []wireScheduled `json:"scheduled_transactions"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

type wireAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	Closed  bool   `json:"closed"`
	Deleted bool   `json:"deleted"`
}

type wireCategoryGroup struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories []wireCategory `json:"categories"`
}

type wireCategory struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Budgeted             int64  `json:"budgeted"`
	Balance              int64  `json:"balance"`
	GoalType             string `json:"goal_type"`
	GoalCadence          *int   `json:"goal_cadence"`
	GoalCadenceFrequency *int   `json:"goal_cadence_frequency"`
	GoalTarget           *int64 `json:"goal_target"`
	GoalCreationMonth    string `json:"goal_creation_month"`
	GoalUnderFunded      *int64 `json:"goal_under_funded"`
	GoalDay              *int   `json:"goal_day"`
	Hidden               bool   `json:"hidden"`
	Deleted              bool   `json:"deleted"`
}

type wireScheduled struct {
	ID              string              `json:"id"`
	PayeeID         string              `json:"payee_id"`
	PayeeName       string              `json:"payee_name"`
	CategoryID      string              `json:"category_id"`
	Memo            string              `json:"memo"`
	Amount          int64               `json:"amount"`
	DateFirst       string              `json:"date_first"`
	DateNext        string              `json:"date_next"`
	Frequency       string              `json:"frequency"`
	Deleted         bool                `json:"deleted"`
	Subtransactions []wireSubtransaction `json:"subtransactions"`
}

type wireSubtransaction struct {
	ID         string `json:"id"`
	PayeeID    string `json:"payee_id"`
	PayeeName  string `json:"payee_name"`
	CategoryID string `json:"category_id"`
	Memo       string `json:"memo"`
	Amount     int64  `json:"amount"`
	Deleted    bool   `json:"deleted"`
}

func moneyFromMilliunits(m int64) core.Money {
	return core.NewMoney(m / 10)
}

func moneyPtrFromMilliunits(m *int64) *core.Money {
	if m == nil {
		return nil
	}
	v := moneyFromMilliunits(*m)
	return &v
}

// dateFromWire parses a YYYY-MM-DD provider date; an absent or malformed
// date becomes the empty Date.
func dateFromWire(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func (wc wireCategory) toCore(groupID, groupName string) core.Category {
	cat := core.Category{
		ID:        wc.ID,
		Name:      wc.Name,
		GroupID:   groupID,
		GroupName: groupName,
		Budgeted:  moneyFromMilliunits(wc.Budgeted),
		Balance:   moneyFromMilliunits(wc.Balance),
		Deleted:   wc.Deleted,
		Hidden:    wc.Hidden,
	}

	if wc.GoalType != "" {
		goal := &core.Goal{
			Type:             core.GoalType(wc.GoalType),
			Cadence:          wc.GoalCadence,
			CadenceFrequency: wc.GoalCadenceFrequency,
			Target:           moneyPtrFromMilliunits(wc.GoalTarget),
			UnderFunded:      moneyPtrFromMilliunits(wc.GoalUnderFunded),
			Day:              wc.GoalDay,
			Budgeted:         cat.Budgeted,
			Balance:          cat.Balance,
		}
		if d := dateFromWire(wc.GoalCreationMonth); !d.IsEmpty() {
			goal.Creation = &d
		}
		cat.Goal = goal
	}

	return cat
}

func (wt wireScheduled) toCore() core.ScheduledTransaction {
	t := core.ScheduledTransaction{
		ID:         wt.ID,
		PayeeID:    wt.PayeeID,
		PayeeName:  wt.PayeeName,
		CategoryID: wt.CategoryID,
		Memo:       wt.Memo,
		Amount:     moneyFromMilliunits(wt.Amount),
		First:      dateFromWire(wt.DateFirst),
		Next:       dateFromWire(wt.DateNext),
		Cadence:    core.Cadence(wt.Frequency),
		Deleted:    wt.Deleted,
	}
	for _, ws := range wt.Subtransactions {
		t.Subparts = append(t.Subparts, core.SubTransaction{
			ID:         ws.ID,
			PayeeID:    ws.PayeeID,
			PayeeName:  ws.PayeeName,
			CategoryID: ws.CategoryID,
			Memo:       ws.Memo,
			Amount:     moneyFromMilliunits(ws.Amount),
			Deleted:    ws.Deleted,
		})
	}
	return t
}
