package view

import (
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"order-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func order(id, name string, status models.Status, total string, dayOffset int) models.Order {
	return models.Order{
		ID:           id,
		CustomerName: name,
		Status:       status,
		Total:        decimal.RequireFromString(total),
		OrderDate:    baseDate.AddDate(0, 0, dayOffset),
	}
}

func fixture() []models.Order {
	return []models.Order{
		order("ORD-2025-001", "Alice Moore", models.StatusPending, "45.00", 0),
		order("ORD-2025-002", "bob stone", models.StatusShipped, "120.50", 1),
		order("ORD-2025-003", "Carol King", models.StatusDelivered, "75.25", 2),
		order("ORD-2025-004", "Dave Alison", models.StatusCancelled, "210.00", 3),
		order("ORD-2025-005", "Eve Adams", models.StatusProcessing, "15.99", 4),
		order("ORD-2025-006", "Frank Bobson", models.StatusPending, "99.00", 5),
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrDec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestDeriveNoQueryReturnsFirstPage(t *testing.T) {
	res := Derive(fixture(), Query{PageSize: 10})

	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.Zero(t, res.ActiveFilters)
	assert.Equal(t, ids(fixture()), ids(res.Orders))
}

func TestSearchIsCaseInsensitiveOnNameOrID(t *testing.T) {
	res := Derive(fixture(), Query{Search: "BOB", PageSize: 10})
	assert.Equal(t, []string{"ORD-2025-002", "ORD-2025-006"}, ids(res.Orders))

	res = Derive(fixture(), Query{Search: "ord-2025-00", PageSize: 10})
	assert.Equal(t, 6, res.Total)

	res = Derive(fixture(), Query{Search: "003", PageSize: 10})
	assert.Equal(t, []string{"ORD-2025-003"}, ids(res.Orders))

	// status text is not a search field
	res = Derive(fixture(), Query{Search: "pending", PageSize: 10})
	assert.Zero(t, res.Total)
}

func TestStatusFilterIsOrWithinDimension(t *testing.T) {
	q := Query{
		Filter:   Filter{Statuses: []models.Status{models.StatusPending, models.StatusShipped}},
		PageSize: 10,
	}
	res := Derive(fixture(), q)

	assert.Equal(t, []string{"ORD-2025-001", "ORD-2025-002", "ORD-2025-006"}, ids(res.Orders))
	assert.Equal(t, 1, res.ActiveFilters)
}

func TestFiltersAreAndedAcrossDimensions(t *testing.T) {
	q := Query{
		Filter: Filter{
			Statuses:  []models.Status{models.StatusPending, models.StatusShipped, models.StatusCancelled},
			StartDate: ptrTime(baseDate.AddDate(0, 0, 1)),
			EndDate:   ptrTime(baseDate.AddDate(0, 0, 5)),
			MinAmount: ptrDec("100"),
		},
		PageSize: 10,
	}
	res := Derive(fixture(), q)

	assert.Equal(t, []string{"ORD-2025-002", "ORD-2025-004"}, ids(res.Orders))
	assert.Equal(t, 3, res.ActiveFilters)
}

func TestDateBoundsAreInclusive(t *testing.T) {
	q := Query{
		Filter: Filter{
			StartDate: ptrTime(baseDate.AddDate(0, 0, 2)),
			EndDate:   ptrTime(baseDate.AddDate(0, 0, 3)),
		},
		PageSize: 10,
	}
	res := Derive(fixture(), q)
	assert.Equal(t, []string{"ORD-2025-003", "ORD-2025-004"}, ids(res.Orders))
}

func TestZeroAmountBoundIsUnset(t *testing.T) {
	f := Filter{MinAmount: ptrDec("0"), MaxAmount: ptrDec("0")}
	assert.False(t, f.Active())

	res := Derive(fixture(), Query{Filter: f, PageSize: 10})
	assert.Equal(t, 6, res.Total)

	res = Derive(fixture(), Query{Filter: Filter{MaxAmount: ptrDec("50")}, PageSize: 10})
	assert.Equal(t, []string{"ORD-2025-001", "ORD-2025-005"}, ids(res.Orders))
}

func TestSearchAppliesAfterFilter(t *testing.T) {
	q := Query{
		Search:   "a",
		Filter:   Filter{Statuses: []models.Status{models.StatusPending}},
		PageSize: 10,
	}
	res := Derive(fixture(), q)

	// Alice and Frank Bobson are pending; both names contain "a"
	assert.Equal(t, []string{"ORD-2025-001", "ORD-2025-006"}, ids(res.Orders))
}

func TestSortByTotalRoundTrip(t *testing.T) {
	asc := Derive(fixture(), Query{Sort: Sort{Key: SortTotal, Direction: Asc}, PageSize: 10})
	desc := Derive(fixture(), Query{Sort: Sort{Key: SortTotal, Direction: Desc}, PageSize: 10})

	ascIDs := ids(asc.Orders)
	assert.Equal(t, "ORD-2025-005", ascIDs[0])
	assert.Equal(t, "ORD-2025-004", ascIDs[len(ascIDs)-1])

	reversed := slices.Clone(ascIDs)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, ids(desc.Orders))
}

func TestSortByCustomerNameIgnoresCase(t *testing.T) {
	res := Derive(fixture(), Query{Sort: Sort{Key: SortCustomerName, Direction: Asc}, PageSize: 10})

	names := make([]string, len(res.Orders))
	for i, o := range res.Orders {
		names[i] = o.CustomerName
	}
	assert.Equal(t, []string{"Alice Moore", "bob stone", "Carol King", "Dave Alison", "Eve Adams", "Frank Bobson"}, names)
}

func TestSortByDateDescending(t *testing.T) {
	res := Derive(fixture(), Query{Sort: Sort{Key: SortOrderDate, Direction: Desc}, PageSize: 3})
	assert.Equal(t, []string{"ORD-2025-006", "ORD-2025-005", "ORD-2025-004"}, ids(res.Orders))
}

func TestSortIsStableForTies(t *testing.T) {
	orders := []models.Order{
		order("X1", "a", models.StatusPending, "10", 0),
		order("X2", "b", models.StatusShipped, "10", 0),
		order("X3", "c", models.StatusPending, "10", 0),
	}
	res := Derive(orders, Query{Sort: Sort{Key: SortStatus, Direction: Asc}, PageSize: 10})
	assert.Equal(t, []string{"X1", "X3", "X2"}, ids(res.Orders))
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	orders := fixture()
	before := ids(orders)

	Derive(orders, Query{Sort: Sort{Key: SortTotal, Direction: Desc}, PageSize: 2})
	assert.Equal(t, before, ids(orders))
}

func TestDeriveIsDeterministic(t *testing.T) {
	q := Query{
		Search:   "o",
		Filter:   Filter{MaxAmount: ptrDec("150")},
		Sort:     Sort{Key: SortCustomerName, Direction: Desc},
		Page:     0,
		PageSize: 2,
	}
	first := Derive(fixture(), q)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Derive(fixture(), q))
	}
}

func TestPaginationCoversTotalExactly(t *testing.T) {
	var orders []models.Order
	for i := 0; i < 23; i++ {
		orders = append(orders, order(fmt.Sprintf("ORD-%03d", i), "n", models.StatusPending, "1", i))
	}

	for _, size := range []int{1, 5, 10, 25} {
		seen := 0
		first := Derive(orders, Query{PageSize: size})
		for page := 0; page < first.Pages; page++ {
			res := Derive(orders, Query{Page: page, PageSize: size})
			assert.LessOrEqual(t, len(res.Orders), size)
			seen += len(res.Orders)
		}
		assert.Equal(t, first.Total, seen, "page size %d", size)
	}
}

func TestOutOfRangePageIsEmpty(t *testing.T) {
	res := Derive(fixture(), Query{Page: 7, PageSize: 5})
	require.NotNil(t, res.Orders)
	assert.Empty(t, res.Orders)
	assert.Equal(t, 6, res.Total)

	assert.Empty(t, Paginate(fixture(), -1, 5))
	assert.Empty(t, Paginate(fixture(), 0, 0))
}

func TestHugePageValuesDoNotOverflow(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(fixture(), math.MaxInt/2+1, 2))
	})
	assert.Empty(t, Paginate(fixture(), math.MaxInt/4+1, 4))
	assert.Empty(t, Paginate(fixture(), math.MaxInt, math.MaxInt))
	assert.Empty(t, Paginate(nil, 0, 5))

	res := Derive(fixture(), Query{PageSize: math.MaxInt})
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, ids(fixture()), ids(res.Orders))

	res = Derive(fixture(), Query{Page: math.MaxInt, PageSize: math.MaxInt})
	assert.Empty(t, res.Orders)
	assert.Equal(t, 1, res.Pages)

	last := Paginate(fixture(), 1, 4)
	assert.Equal(t, []string{"ORD-2025-005", "ORD-2025-006"}, ids(last))
}

func TestSortKeyValidation(t *testing.T) {
	assert.True(t, SortTotal.Valid())
	assert.True(t, SortNone.Valid())
	assert.False(t, SortKey("email").Valid())
	assert.True(t, Desc.Valid())
	assert.False(t, Direction("up").Valid())
}
