package stats

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabrie-console/models"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func order(id, customer, product string, status models.OrderStatus, qty models.SizeQuantities) models.Order {
	return models.Order{
		ProductID:      id,
		CustomerName:   customer,
		ProductName:    product,
		Status:         status,
		SizeQuantities: qty,
	}
}

func TestTotalQuantity(t *testing.T) {
	o := order("FAB-1", "Asha", "Kurta", models.StatusPending,
		models.SizeQuantities{"S": 2, "M": 3, "XL": 5})
	assert.Equal(t, 10, TotalQuantity(o))

	assert.Equal(t, 0, TotalQuantity(models.Order{}))
}

func TestTotalQuantityUnreadableMap(t *testing.T) {
	// A backend row that stored its quantity map as a JSON string must
	// still decode, and count as zero pieces when the payload is junk.
	var o models.Order
	err := json.Unmarshal([]byte(`{"product_id":"FAB-2","size_quantities":"not json"}`), &o)
	require.NoError(t, err)
	assert.Equal(t, 0, TotalQuantity(o))

	var ok models.Order
	err = json.Unmarshal([]byte(`{"product_id":"FAB-3","size_quantities":"{\"M\":4}"}`), &ok)
	require.NoError(t, err)
	assert.Equal(t, 4, TotalQuantity(ok))
}

func TestFilterBlankQueryReturnsInput(t *testing.T) {
	orders := []models.Order{
		order("FAB-1", "Asha", "Kurta", models.StatusPending, nil),
		order("FAB-2", "Bina", "Saree", models.StatusCutting, nil),
	}

	got := Filter(orders, "")
	assert.Equal(t, orders, got)

	got = Filter(orders, "   ")
	assert.Equal(t, orders, got)
}

func TestFilterMatchesAcrossFields(t *testing.T) {
	orders := []models.Order{
		order("FAB-101", "Asha Mehta", "Silk Kurta", models.StatusPending, nil),
		order("FAB-202", "Bina Shah", "Cotton Saree", models.StatusCutting, nil),
		{ProductID: "FAB-303", CustomerName: "Chitra", ProductName: "Dupatta", FabricType: "Linen", FabricWeight: "180gsm"},
	}

	byProduct := Filter(orders, "silk")
	require.Len(t, byProduct, 1)
	assert.Equal(t, "FAB-101", byProduct[0].ProductID)

	byCustomer := Filter(orders, "BINA")
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "FAB-202", byCustomer[0].ProductID)

	byID := Filter(orders, "303")
	require.Len(t, byID, 1)
	assert.Equal(t, "FAB-303", byID[0].ProductID)

	byFabric := Filter(orders, "linen")
	require.Len(t, byFabric, 1)
	assert.Equal(t, "FAB-303", byFabric[0].ProductID)

	byWeight := Filter(orders, "180")
	require.Len(t, byWeight, 1)
	assert.Equal(t, "FAB-303", byWeight[0].ProductID)

	assert.Empty(t, Filter(orders, "wool"))
}

func TestCalculateBuckets(t *testing.T) {
	orders := []models.Order{
		order("1", "a", "p", models.StatusPending, models.SizeQuantities{"S": 1}),
		order("2", "b", "p", models.StatusCutting, models.SizeQuantities{"S": 2}),
		order("3", "c", "p", models.StatusStitching, models.SizeQuantities{"S": 3}),
		order("4", "d", "p", models.StatusFinishing, models.SizeQuantities{"S": 4}),
		order("5", "e", "p", models.StatusReady, models.SizeQuantities{"S": 5}),
		order("6", "f", "p", models.StatusDelivered, models.SizeQuantities{"S": 6}),
		order("7", "g", "p", models.StatusCancelled, models.SizeQuantities{"S": 100}),
	}

	s := Calculate(orders)
	assert.Equal(t, 7, s.TotalOrders)
	assert.Equal(t, 4, s.InProgress)
	assert.Equal(t, 1, s.ReadyForDelivery)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, s.TotalOrders, s.InProgress+s.ReadyForDelivery+s.Completed+s.Cancelled)
}

func TestCalculateTotalItemsExcludesCancelled(t *testing.T) {
	// A cancelled order's pieces were never produced; flipping an order
	// to cancelled must shrink the item total, not hold it steady.
	active := []models.Order{
		order("1", "a", "p", models.StatusPending, models.SizeQuantities{"M": 10}),
		order("2", "b", "p", models.StatusDelivered, models.SizeQuantities{"L": 5}),
	}
	assert.Equal(t, 15, Calculate(active).TotalItems)

	cancelled := append([]models.Order{}, active...)
	cancelled[0].Status = models.StatusCancelled
	assert.Equal(t, 5, Calculate(cancelled).TotalItems)
}

func TestCalculateEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Calculate(nil))
}

func TestSortByDateDefaultNewestFirst(t *testing.T) {
	orders := []models.Order{
		{ProductID: "old", OrderDate: date(t, "2026-01-05")},
		{ProductID: "new", OrderDate: date(t, "2026-03-01")},
		{ProductID: "mid", OrderDate: date(t, "2026-02-10")},
	}

	got := Sort(orders, SortByDate, false)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ProductID)
	assert.Equal(t, "mid", got[1].ProductID)
	assert.Equal(t, "old", got[2].ProductID)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].OrderDate.Before(got[i].OrderDate.Time))
	}

	asc := Sort(orders, SortByDate, true)
	assert.Equal(t, "old", asc[0].ProductID)
	assert.Equal(t, "new", asc[2].ProductID)
}

func TestSortByCustomerAndStatus(t *testing.T) {
	orders := []models.Order{
		order("1", "chitra", "p", models.StatusReady, nil),
		order("2", "Asha", "p", models.StatusCancelled, nil),
		order("3", "bina", "p", models.StatusDelivered, nil),
	}

	byCustomer := Sort(orders, SortByCustomer, true)
	assert.Equal(t, []string{"Asha", "bina", "chitra"}, []string{
		byCustomer[0].CustomerName, byCustomer[1].CustomerName, byCustomer[2].CustomerName,
	})

	byStatus := Sort(orders, SortByStatus, true)
	assert.Equal(t, models.StatusCancelled, byStatus[0].Status)
	assert.Equal(t, models.StatusDelivered, byStatus[1].Status)
	assert.Equal(t, models.StatusReady, byStatus[2].Status)
}

func TestSortIsStableAndDoesNotMutate(t *testing.T) {
	same := date(t, "2026-04-01")
	orders := []models.Order{
		{ProductID: "first", OrderDate: same},
		{ProductID: "second", OrderDate: same},
		{ProductID: "third", OrderDate: same},
	}
	input := append([]models.Order{}, orders...)

	for _, ascending := range []bool{true, false} {
		got := Sort(orders, SortByDate, ascending)
		assert.Equal(t, "first", got[0].ProductID)
		assert.Equal(t, "second", got[1].ProductID)
		assert.Equal(t, "third", got[2].ProductID)
	}
	assert.Equal(t, input, orders)

	shuffled := []models.Order{
		{ProductID: "z", OrderDate: date(t, "2026-05-01")},
		{ProductID: "a", OrderDate: date(t, "2026-04-01")},
	}
	before := append([]models.Order{}, shuffled...)
	Sort(shuffled, SortByDate, false)
	assert.Equal(t, before, shuffled)
}

func TestReserveCountsDeliveredOnly(t *testing.T) {
	orders := []models.Order{
		order("1", "a", "p", models.StatusDelivered, models.SizeQuantities{"S": 60, "M": 40}),
		order("2", "b", "p", models.StatusPending, models.SizeQuantities{"S": 999}),
		order("3", "c", "p", models.StatusCancelled, models.SizeQuantities{"S": 999}),
	}

	got := Reserve(orders, decimal.NewFromInt(15))
	assert.Equal(t, "1500.00", got.Display())

	none := Reserve(nil, decimal.NewFromInt(15))
	assert.Equal(t, "0.00", none.Display())
}
