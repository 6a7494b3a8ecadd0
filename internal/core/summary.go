package core

import (
	"slices"
	"strings"
)

// SortBy selects the primary sort key for the expense list.
type SortBy string

// SortOrder flips the whole comparison, including the date tiebreak.
type SortOrder string

const (
	SortByDate     SortBy = "date"
	SortByCategory SortBy = "category"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Sort returns a sorted copy of expenses. Category sorting is lexicographic
// with dates breaking ties; both keys honor the order flag.
func Sort(expenses []Expense, by SortBy, order SortOrder) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	slices.SortStableFunc(out, func(a, b Expense) int {
		if by == SortByCategory {
			if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
				return applyOrder(c, order)
			}
		}
		return applyOrder(a.Date.Compare(b.Date.Time), order)
	})
	return out
}

func applyOrder(cmp int, order SortOrder) int {
	if order == Descending {
		return -cmp
	}
	return cmp
}

// Total sums the amounts of all expenses.
func Total(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// Breakdown sums amounts per category in canonical category order.
// Categories with no expenses are omitted.
func Breakdown(expenses []Expense) []CategoryAmount {
	sums := make(map[Category]Money)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	var out []CategoryAmount
	for _, c := range categories {
		if amount, ok := sums[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return out
}
