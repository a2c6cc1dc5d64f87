package domain

// RoleAdmin — роль, открывающая доступ к чужим заказам и смене статусов.
const RoleAdmin = "ADMIN"

// CallerContext — аутентифицированная личность входящего запроса.
// Собирается один раз на границе транспорта (из проверенного токена)
// и передаётся явно в каждую операцию; внутри ядра не пересоздаётся.
type CallerContext struct {
	UserID string
	Roles  []string
}

// Authenticated сообщает, есть ли у вызывающего валидная личность.
func (c CallerContext) Authenticated() bool {
	return c.UserID != ""
}

// HasRole проверяет наличие роли в наборе вызывающего.
func (c CallerContext) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin — сокращение для проверки административной роли.
func (c CallerContext) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}
