package dictionary

import "github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"

// CategoryDef describes a curated default category offered to every user
// alongside their own custom categories.
type CategoryDef struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var curated = map[finance.TransactionType][]CategoryDef{
	finance.TransactionExpense: {
		{Code: "groceries", Label: "Groceries"},
		{Code: "eating_out", Label: "Eating Out"},
		{Code: "transport", Label: "Transport"},
		{Code: "shopping", Label: "Shopping"},
		{Code: "entertainment", Label: "Entertainment"},
		{Code: "bills", Label: "Bills"},
		{Code: "travel", Label: "Travel"},
		{Code: "savings", Label: "Savings"},
		{Code: "charity", Label: "Charity"},
		{Code: "family", Label: "Family"},
		{Code: "gifts", Label: "Gifts"},
		{Code: "personal_care", Label: "Personal Care"},
		{Code: "general", Label: "General"},
	},
	finance.TransactionIncome: {
		{Code: "salary", Label: "Salary"},
		{Code: "interest", Label: "Interest"},
		{Code: "refund", Label: "Refund"},
		{Code: "business", Label: "Business"},
		{Code: "other_income", Label: "Other Income"},
	},
}

// Defaults returns the curated categories for a transaction type. The
// returned slice is a copy; callers may modify it.
func Defaults(t finance.TransactionType) []CategoryDef {
	defs := curated[t]
	out := make([]CategoryDef, len(defs))
	copy(out, defs)
	return out
}

// AllDefaults returns every curated category keyed by transaction type.
func AllDefaults() map[finance.TransactionType][]CategoryDef {
	out := make(map[finance.TransactionType][]CategoryDef, len(curated))
	for t := range curated {
		out[t] = Defaults(t)
	}
	return out
}

// LeagueDef labels a score tier for display.
type LeagueDef struct {
	Code     finance.League `json:"code"`
	Label    string         `json:"label"`
	MinScore float64        `json:"min_score"`
}

// Leagues returns the tier definitions ordered lowest first.
func Leagues() []LeagueDef {
	return []LeagueDef{
		{Code: finance.LeagueBronze, Label: "Bronze", MinScore: 0},
		{Code: finance.LeagueSilver, Label: "Silver", MinScore: 2500},
		{Code: finance.LeagueGold, Label: "Gold", MinScore: 5000},
		{Code: finance.LeaguePlatinum, Label: "Platinum", MinScore: 7500},
		{Code: finance.LeagueDiamond, Label: "Diamond", MinScore: 10000},
	}
}
