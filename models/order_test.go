package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Helpers(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("Sewing").Valid())
	assert.False(t, OrderStatus("").Valid())

	// The workshop stages plus Pending count as in progress.
	assert.True(t, StatusPending.InProgress())
	assert.True(t, StatusCutting.InProgress())
	assert.True(t, StatusStitching.InProgress())
	assert.True(t, StatusFinishing.InProgress())
	assert.False(t, StatusReady.InProgress())
	assert.False(t, StatusDelivered.InProgress())

	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusReady.Terminal())
}

func TestSizeQuantities_DecodeIsForgiving(t *testing.T) {
	var q SizeQuantities

	// Plain object.
	require.NoError(t, json.Unmarshal([]byte(`{"M": 4, "L": 6}`), &q))
	assert.Equal(t, 4, q["M"])
	assert.Equal(t, 10, q.Sum())

	// The backend sometimes ships the object as a string.
	require.NoError(t, json.Unmarshal([]byte(`"{\"S\": 3, \"XL\": 2}"`), &q))
	assert.Equal(t, 3, q["S"])
	assert.Equal(t, 5, q.Sum())

	// Values may arrive as numeric strings or null.
	require.NoError(t, json.Unmarshal([]byte(`{"M": "7", "L": null, "S": "junk"}`), &q))
	assert.Equal(t, 7, q["M"])
	assert.Equal(t, 0, q["L"])
	assert.Equal(t, 0, q["S"])

	// null and garbage both decode to an empty map, never an error.
	require.NoError(t, json.Unmarshal([]byte(`null`), &q))
	assert.Empty(t, q)
	require.NoError(t, json.Unmarshal([]byte(`"not json at all"`), &q))
	assert.Empty(t, q)
}

func TestDate_WireFormat(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-21"`), &d))
	assert.Equal(t, "2026-08-21", d.Format(DateLayout))

	// null and the empty string both mean no date.
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"21/08/2026"`), &d))

	// A zero date marshals as null, not as the zero time.
	out, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	set, err := ParseDate("2026-08-21")
	require.NoError(t, err)
	out, err = json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-21"`, string(out))
}

func TestOrder_DecodesWirePayload(t *testing.T) {
	payload := `{
		"product_id": "AB12C",
		"customer_name": "Meera Textiles",
		"product_name": "Silk Kurta",
		"colours": ["red", "gold"],
		"size": ["M", "L"],
		"size_quantities": "{\"M\": 4, \"L\": 6}",
		"order_date": "2026-08-01",
		"delivery_date": null,
		"quantity": 10,
		"is_set": true,
		"set_multiplier": 3,
		"status": "Ready for Delivery"
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(payload), &o))
	assert.Equal(t, "AB12C", o.ProductID)
	assert.Equal(t, 10, o.SizeQuantities.Sum())
	assert.True(t, o.DeliveryDate.IsZero())
	assert.Equal(t, StatusReady, o.Status)
	assert.Equal(t, 3, o.SetMultiplier)
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize("M"))
	assert.True(t, ValidSize("3XL"))
	assert.False(t, ValidSize("XXL"))
	assert.False(t, ValidSize(""))
}
