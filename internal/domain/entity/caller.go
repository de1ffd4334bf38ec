package entity

// CallerContext identidad explícita del llamador autenticado. Se pasa como argumento
// a cada caso de uso en lugar de leer una sesión global.
type CallerContext struct {
	UserID   int64
	TenantID int64
	Role     string
}

// Authenticated informa si el contexto corresponde a una sesión válida.
func (c *CallerContext) Authenticated() bool {
	return c != nil && c.UserID > 0 && c.TenantID > 0
}
