package stats

import (
	"math"
	"sort"
	"time"

	"fabrie-console/models"
)

// DaysUntil counts the whole days from now until the delivery date,
// rounding partial days up. The delivery date sits at local midnight
// while now keeps its time-of-day, so an order due tomorrow reads as
// one day left for the whole of today and drops to zero exactly at
// midnight. Past dates come back negative.
func DaysUntil(delivery models.Date, now time.Time) int {
	diff := delivery.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// Overdue returns the orders whose delivery date has passed without the
// order reaching a terminal status. Orders with no delivery date are
// never late.
func Overdue(orders []models.Order, now time.Time) []models.Order {
	late := make([]models.Order, 0)
	for _, o := range orders {
		if o.Status.Terminal() || o.DeliveryDate.IsZero() {
			continue
		}
		if o.DeliveryDate.Before(now) {
			late = append(late, o)
		}
	}
	return late
}

// UrgentOrder pairs an order with its remaining days for the delivery
// alert panel.
type UrgentOrder struct {
	Order    models.Order `json:"order"`
	DaysLeft int          `json:"days_left"`
}

// Urgent returns the non-terminal orders due within windowDays of now,
// most pressing first, capped at limit. Already-late orders count as
// urgent too and sort ahead of everything else on their negative days
// left. A limit of zero or less means no cap.
func Urgent(orders []models.Order, now time.Time, windowDays, limit int) []UrgentOrder {
	urgent := make([]UrgentOrder, 0)
	for _, o := range orders {
		if o.Status.Terminal() || o.DeliveryDate.IsZero() {
			continue
		}
		days := DaysUntil(o.DeliveryDate, now)
		if days <= windowDays {
			urgent = append(urgent, UrgentOrder{Order: o, DaysLeft: days})
		}
	}

	sort.SliceStable(urgent, func(i, j int) bool {
		return urgent[i].DaysLeft < urgent[j].DaysLeft
	})

	if limit > 0 && len(urgent) > limit {
		urgent = urgent[:limit]
	}
	return urgent
}
