package calculator

import (
	"sort"

	"github.com/mmynk/lunchfund/internal/models"
)

// BuildBalances combines per-member deposit and usage sums into balances.
//
// Every member in roster gets an entry, even without any activity. Names that
// appear in the sums but not in the roster are ignored. The result is ordered
// by name.
func BuildBalances(roster []string, deposited, used map[string]int64) []models.MemberBalance {
	balances := make([]models.MemberBalance, 0, len(roster))
	for _, name := range roster {
		dep := deposited[name]
		use := used[name]
		balances = append(balances, models.MemberBalance{
			Name:      name,
			Deposited: dep,
			Used:      use,
			Balance:   dep - use,
		})
	}
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Name < balances[j].Name
	})
	return balances
}

// Negative returns the balances below zero, preserving order.
func Negative(balances []models.MemberBalance) []models.MemberBalance {
	var out []models.MemberBalance
	for _, b := range balances {
		if b.Balance < 0 {
			out = append(out, b)
		}
	}
	return out
}
