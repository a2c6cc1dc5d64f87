package domain

// OrderRepository описывает требования к хранилищу заказов.
// Валидации бизнес-правил здесь нет — только существование и версии.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByOwner возвращает заказы владельца с опциональным ограничением на количество.
	ListByOwner(ownerID string, limit int) ([]Order, error)
	// ListAll возвращает все заказы (админская выборка).
	ListAll(limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}
