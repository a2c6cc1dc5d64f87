package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// AssembleLines — чистая сборка позиций заказа из зарезервированных товаров.
// Цена каждой позиции берётся из снапшота каталога на момент резервирования,
// порядок входа сохраняется. Сумма считается по тем же данным, что уходят
// в хранилище, чтобы total нельзя было рассинхронизировать с позициями.
func AssembleLines(reserved []ReservedItem, now time.Time) ([]domain.OrderLine, int64) {
	lines := make([]domain.OrderLine, 0, len(reserved))
	var total int64

	for _, item := range reserved {
		lines = append(lines, domain.OrderLine{
			ID:         uuid.NewString(),
			ProductID:  item.Snapshot.ID,
			Qty:        item.Qty,
			PriceMinor: item.Snapshot.PriceMinor,
			CreatedAt:  now,
		})
		total += int64(item.Qty) * item.Snapshot.PriceMinor
	}

	return lines, total
}
