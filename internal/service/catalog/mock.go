// Package catalog содержит in-process реализацию CatalogClient со стоком
// в памяти: подменяет удалённый каталог в тестах и при локальном запуске.
package catalog

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// MockClient — конфигурируемая заглушка CatalogClient.
// Ведёт реальный учёт остатков, поэтому тесты могут проверять
// «сток вернулся к исходному» после компенсации.
type MockClient struct {
	mu       sync.Mutex
	products map[string]domain.ProductSnapshot

	// Настраиваемые ошибки по товарам: вернуть ошибку на конкретном шаге.
	FetchErr   map[string]error
	ReserveErr map[string]error
	RestoreErr map[string]error

	FetchCalls   int
	ReserveCalls int
	RestoreCalls int
}

// NewMockClient возвращает пустой mock с успешным сценарием по умолчанию.
func NewMockClient() *MockClient {
	return &MockClient{
		products:   make(map[string]domain.ProductSnapshot),
		FetchErr:   make(map[string]error),
		ReserveErr: make(map[string]error),
		RestoreErr: make(map[string]error),
	}
}

// AddProduct кладёт товар в каталог.
func (m *MockClient) AddProduct(p domain.ProductSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// Stock возвращает текущий остаток товара (для проверок в тестах).
func (m *MockClient) Stock(productID string) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID].Quantity
}

// FetchProduct возвращает срез товара или настроенную ошибку.
func (m *MockClient) FetchProduct(_ context.Context, productID string) (domain.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls++
	if err := m.FetchErr[productID]; err != nil {
		return domain.ProductSnapshot{}, err
	}

	p, ok := m.products[productID]
	if !ok {
		return domain.ProductSnapshot{}, &domain.ProductNotFoundError{ProductID: productID}
	}
	return p, nil
}

// ReserveStock списывает остаток, если его хватает.
func (m *MockClient) ReserveStock(_ context.Context, productID string, qty int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReserveCalls++
	if err := m.ReserveErr[productID]; err != nil {
		return err
	}

	p, ok := m.products[productID]
	if !ok {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	if p.Quantity < qty {
		return &domain.InsufficientStockError{ProductID: productID, Available: p.Quantity, Requested: qty}
	}

	p.Quantity -= qty
	m.products[productID] = p
	return nil
}

// RestoreStock возвращает остаток (компенсация).
func (m *MockClient) RestoreStock(_ context.Context, productID string, qty int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RestoreCalls++
	if err := m.RestoreErr[productID]; err != nil {
		return err
	}

	p, ok := m.products[productID]
	if !ok {
		return &domain.ProductNotFoundError{ProductID: productID}
	}

	p.Quantity += qty
	m.products[productID] = p
	return nil
}

var _ domain.CatalogClient = (*MockClient)(nil)
