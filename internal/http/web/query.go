package web

import (
	"net/url"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// Filter reads the entry filter from query parameters.
func Filter(q url.Values) ledger.Filter {
	return ledger.Filter{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Category:   q.Get("category"),
		SearchText: q.Get("search"),
		Year:       q.Get("year"),
		Month:      q.Get("month"),
	}
}

// Sort reads the sort field and order from query parameters.
func Sort(q url.Values) (ledger.Sort, error) {
	return ledger.ParseSort(q.Get("sort"), q.Get("order"))
}
