package storefront

import "emenu-backend/internal/models"

// Stok tüketen sipariş durumları. cancelled dahil diğer tüm durumlar
// toplam dışında tutulur; ürün sahipleriyle netleştirilmesi gereken bir
// politika, kod burada bilinçli olarak dar tutuldu.
var stockConsumingStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusCompleted: true,
}

// remainingQuantity: stok limiti olan ürünler için kalan adedi hesaplar.
// remaining = max(0, limit - pending/completed siparişlerdeki toplam adet)
// Limit yoksa (nil) sınırsız kabul edilir ve nil döner.
func remainingQuantity(item *models.MenuItem) *int {
	if item.Quantity == nil {
		return nil
	}

	used := 0
	for _, oi := range item.OrderItems {
		if oi.Order != nil && stockConsumingStatuses[oi.Order.Status] {
			used += oi.Quantity
		}
	}

	r := *item.Quantity - used
	if r < 0 {
		r = 0
	}
	return &r
}
