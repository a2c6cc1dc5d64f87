// Package auth реализует явный authorization gate: проверки ролей,
// которые в исходном сервисе были размазаны по декларативным аннотациям,
// собраны в одну точку и вызываются в начале каждой операции.
package auth

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Gate принимает решения allow/deny по CallerContext.
// Политика:
//
//	list all orders    — роль ADMIN
//	list/fetch own     — любой аутентифицированный,scope owner == caller
//	create order       — любой аутентифицированный (owner = caller)
//	patch order status — роль ADMIN
type Gate struct {
	logger *log.Entry
}

// NewGate создаёт gate с компонентным логгером.
func NewGate(logger *log.Entry) *Gate {
	if logger == nil {
		logger = log.WithField("component", "auth-gate")
	}
	return &Gate{logger: logger}
}

// RequireAuthenticated отклоняет запросы без валидной личности.
// Аутентификацию делает внешний коллаборатор, но gate обязан
// защититься от пустого UserID сам.
func (g *Gate) RequireAuthenticated(caller domain.CallerContext) error {
	if !caller.Authenticated() {
		g.logger.Warn("request without caller identity rejected")
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin пускает только вызывающих с ролью ADMIN.
func (g *Gate) RequireAdmin(caller domain.CallerContext) error {
	if err := g.RequireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		g.logger.WithField("user_id", caller.UserID).Warn("admin operation denied")
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeOrderRead разрешает чтение заказа владельцу и администратору.
func (g *Gate) AuthorizeOrderRead(caller domain.CallerContext, order domain.Order) error {
	if err := g.RequireAuthenticated(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || order.OwnerID == caller.UserID {
		return nil
	}
	g.logger.WithFields(log.Fields{
		"user_id":  caller.UserID,
		"order_id": order.ID,
	}).Warn("order read denied")
	return domain.ErrForbidden
}
