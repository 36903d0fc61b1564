package application

import (
	"strings"

	"github.com/adhcode/estate-backend/internal/domain"
)

// DefaultPageSize is the fixed page size used by the logbook screens.
const DefaultPageSize = 10

// FilterAll is the sentinel value that skips a criterion.
const FilterAll = "all"

// VisitFilter holds the optional logbook filter criteria. Criteria are
// combined with logical AND; empty or "all" values match everything.
type VisitFilter struct {
	// Block is an exact match on blockNumber, or "all".
	Block string
	// Date is an exact calendar-day match on createdAt, formatted YYYY-MM-DD.
	Date string
	// Status is an exact match on the visit status, or "all".
	Status string
	// Search is a case-insensitive substring match against fullName,
	// guest code, hostName, blockNumber and flatNumber.
	Search string
}

// FilterVisits returns the visits matching every set criterion. It is a
// pure function: the input order is preserved and nothing is mutated.
func FilterVisits(visits []domain.Visit, filter VisitFilter) []domain.Visit {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]domain.Visit, 0, len(visits))
	for _, v := range visits {
		if filter.Block != "" && filter.Block != FilterAll && v.BlockNumber != filter.Block {
			continue
		}
		if filter.Date != "" && v.CreatedAt.Format("2006-01-02") != filter.Date {
			continue
		}
		if filter.Status != "" && filter.Status != FilterAll && string(v.Status) != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		result = append(result, v)
	}
	return result
}

func matchesSearch(v domain.Visit, search string) bool {
	for _, field := range []string{v.FullName, v.GuestCode, v.HostName, v.BlockNumber, v.FlatNumber} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Paginate returns the 1-based page slice of size entries. Out-of-range
// pages yield an empty slice; page and size are clamped to sane values.
func Paginate(visits []domain.Visit, page, size int) []domain.Visit {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	if start >= len(visits) {
		return []domain.Visit{}
	}
	end := start + size
	if end > len(visits) {
		end = len(visits)
	}
	return visits[start:end]
}

// StatusCounts tallies a collection by status display label for the
// dashboard tiles. The four tile keys are always present, even at zero;
// every visit in the collection is counted, so the totals sum to the
// collection's size.
func StatusCounts(visits []domain.Visit) map[string]int {
	counts := map[string]int{
		domain.VisitPending.Label():   0,
		domain.VisitActive.Label():    0,
		domain.VisitCompleted.Label(): 0,
		domain.VisitIssue.Label():     0,
	}
	for _, v := range visits {
		counts[v.Status.Label()]++
	}
	return counts
}
