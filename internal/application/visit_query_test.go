package application

import (
	"testing"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVisits() []domain.Visit {
	createdAt := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	make := func(code, name, host, block, flat string, status domain.VisitStatus, daysAgo int) domain.Visit {
		return domain.Visit{
			GuestCode:   code,
			FullName:    name,
			HostName:    host,
			BlockNumber: block,
			FlatNumber:  flat,
			Status:      status,
			CreatedAt:   createdAt.AddDate(0, 0, -daysAgo),
		}
	}

	return []domain.Visit{
		make("VIS-A1B2C3", "Ada Obi", "John Ekwueme", "A", "12", domain.VisitPending, 0),
		make("VIS-D4E5F6", "Bola Ade", "John Ekwueme", "A", "12", domain.VisitPending, 0),
		make("VIS-G7H8I9", "Chike Eze", "Mary Okafor", "B", "3", domain.VisitPending, 1),
		make("VIS-J1K2L3", "Dayo Musa", "Mary Okafor", "B", "3", domain.VisitActive, 1),
		make("VIS-M4N5O6", "Efe Ojo", "Mary Okafor", "B", "3", domain.VisitActive, 1),
		make("VIS-P7Q8R9", "Femi Balogun", "Sam Nwosu", "C", "7", domain.VisitActive, 2),
		make("VIS-S1T2U3", "Gozie Ibe", "Sam Nwosu", "C", "7", domain.VisitActive, 2),
		make("VIS-V4W5X6", "Hauwa Bello", "Sam Nwosu", "C", "7", domain.VisitCompleted, 3),
		make("VIS-Y7Z8A9", "Ifeoma Dike", "John Ekwueme", "A", "12", domain.VisitCompleted, 3),
		make("VIS-B1C2D3", "Jide Alabi", "Mary Okafor", "B", "3", domain.VisitIssue, 4),
	}
}

func TestFilterVisitsAllSentinelsReturnEverything(t *testing.T) {
	visits := sampleVisits()

	filtered := FilterVisits(visits, VisitFilter{Block: "all", Status: "all", Search: ""})

	assert.Len(t, filtered, len(visits))

	counts := StatusCounts(filtered)
	assert.Equal(t, 3, counts["expected"])
	assert.Equal(t, 4, counts["Checked In"])
	assert.Equal(t, 2, counts["Checked Out"])
	assert.Equal(t, 1, counts["issue"])
}

func TestFilterVisitsByBlock(t *testing.T) {
	filtered := FilterVisits(sampleVisits(), VisitFilter{Block: "B"})

	require.Len(t, filtered, 5)
	for _, v := range filtered {
		assert.Equal(t, "B", v.BlockNumber)
	}
}

func TestFilterVisitsByDate(t *testing.T) {
	filtered := FilterVisits(sampleVisits(), VisitFilter{Date: "2025-06-09"})

	require.Len(t, filtered, 3)
	for _, v := range filtered {
		assert.Equal(t, "2025-06-09", v.CreatedAt.Format("2006-01-02"))
	}
}

func TestFilterVisitsBySearch(t *testing.T) {
	visits := sampleVisits()

	// Case-insensitive match on visitor name.
	assert.Len(t, FilterVisits(visits, VisitFilter{Search: "ada"}), 1)

	// Host name matches too.
	assert.Len(t, FilterVisits(visits, VisitFilter{Search: "okafor"}), 4)

	// Guest code fragment.
	assert.Len(t, FilterVisits(visits, VisitFilter{Search: "vis-a1"}), 1)

	// Flat number.
	assert.Len(t, FilterVisits(visits, VisitFilter{Search: "12"}), 3)

	// Whitespace-only search matches all.
	assert.Len(t, FilterVisits(visits, VisitFilter{Search: "   "}), len(visits))
}

func TestFilterVisitsCriteriaCommute(t *testing.T) {
	visits := sampleVisits()

	byBlockThenStatus := FilterVisits(FilterVisits(visits, VisitFilter{Block: "B"}), VisitFilter{Status: "active"})
	byStatusThenBlock := FilterVisits(FilterVisits(visits, VisitFilter{Status: "active"}), VisitFilter{Block: "B"})
	combined := FilterVisits(visits, VisitFilter{Block: "B", Status: "active"})

	assert.Equal(t, byBlockThenStatus, byStatusThenBlock)
	assert.Equal(t, combined, byBlockThenStatus)
}

func TestFilterVisitsPreservesOrder(t *testing.T) {
	visits := sampleVisits()

	filtered := FilterVisits(visits, VisitFilter{Status: "active"})

	require.Len(t, filtered, 4)
	assert.Equal(t, "VIS-J1K2L3", filtered[0].GuestCode)
	assert.Equal(t, "VIS-M4N5O6", filtered[1].GuestCode)
	assert.Equal(t, "VIS-P7Q8R9", filtered[2].GuestCode)
	assert.Equal(t, "VIS-S1T2U3", filtered[3].GuestCode)
}

func TestStatusCountsSumToCollectionSize(t *testing.T) {
	visits := sampleVisits()
	visits = append(visits, domain.Visit{GuestCode: "VIS-E4F5G6", Status: domain.VisitCancelled})

	counts := StatusCounts(visits)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(visits), total)
}

func TestStatusCountsTileKeysAlwaysPresent(t *testing.T) {
	counts := StatusCounts(nil)

	assert.Equal(t, map[string]int{
		"expected":    0,
		"Checked In":  0,
		"Checked Out": 0,
		"issue":       0,
	}, counts)
}

func TestPaginate(t *testing.T) {
	visits := sampleVisits()

	page1 := Paginate(visits, 1, 4)
	require.Len(t, page1, 4)
	assert.Equal(t, visits[0].GuestCode, page1[0].GuestCode)

	page3 := Paginate(visits, 3, 4)
	require.Len(t, page3, 2)
	assert.Equal(t, visits[8].GuestCode, page3[0].GuestCode)

	assert.Empty(t, Paginate(visits, 4, 4))

	// Page and size are clamped to sane defaults.
	assert.Len(t, Paginate(visits, 0, 4), 4)
	assert.Len(t, Paginate(visits, 1, 0), len(visits))
}
