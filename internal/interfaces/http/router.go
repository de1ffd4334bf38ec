package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions  SessionService
	Products  ProductService
	Customers CustomerService
	Ledger    LedgerService
	Policy    access.Policy
	Cookie    CookieConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.Sessions)
	can := func(a access.Action) fiber.Handler { return RequireAction(deps.Policy, a) }

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.Sessions, deps.Cookie)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authn, authHandler.Logout)
	authGroup.Get("/me", authn, authHandler.Me)

	// Products
	products := api.Group("/products", authn)
	productHandler := NewProductHandler(deps.Products)
	products.Post("/", can(access.ProductsWrite), productHandler.Create)
	products.Get("/", can(access.ProductsRead), productHandler.List)
	products.Get("/:id", can(access.ProductsRead), productHandler.GetByID)
	products.Put("/:id", can(access.ProductsWrite), productHandler.Update)
	products.Delete("/:id", can(access.ProductsWrite), productHandler.Delete)

	// Inventory ledger
	inv := api.Group("/inventory", authn)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv.Post("/movements", can(access.InventoryWrite), inventoryHandler.RecordMovement)
	inv.Get("/products/:id/movements", can(access.InventoryRead), inventoryHandler.ListMovements)
	inv.Get("/products/:id/reconciliation", can(access.InventoryRead), inventoryHandler.Reconcile)
	inv.Get("/products/:id/kardex.pdf", can(access.InventoryRead), inventoryHandler.Kardex)

	// Customers
	customers := api.Group("/customers", authn)
	customerHandler := NewCustomerHandler(deps.Customers)
	customers.Post("/", can(access.CustomersWrite), customerHandler.Create)
	customers.Get("/", can(access.CustomersRead), customerHandler.List)
	customers.Get("/:id", can(access.CustomersRead), customerHandler.GetByID)
	customers.Put("/:id", can(access.CustomersWrite), customerHandler.Update)
	customers.Delete("/:id", can(access.CustomersWrite), customerHandler.Delete)
}
