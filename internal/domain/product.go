package domain

// ProductSnapshot — срез данных каталога о товаре на момент чтения.
// Используется только во время сборки заказа и не персистится:
// цена попадает в OrderLine, количество — в проверку стока.
type ProductSnapshot struct {
	ID         string
	Name       string
	PriceMinor int64
	Quantity   int32
}
