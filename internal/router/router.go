package router

import (
	"time"

	"oficina/internal/config"
	"oficina/internal/handler"
	"oficina/internal/middleware"
	"oficina/internal/model"
	"oficina/internal/repository"
	"oficina/internal/service"
	"oficina/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	mechanicRepo := repository.NewMechanicRepository(db)
	catalogRepo := repository.NewCatalogServiceRepository(db)
	partRepo := repository.NewPartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo, customerRepo)
	mechanicSvc := service.NewMechanicService(mechanicRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)
	partSvc := service.NewPartService(partRepo)
	inventorySvc := service.NewInventoryService(partRepo)
	resolver := service.NewItemResolver(catalogRepo, partRepo)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, vehicleRepo, partRepo, resolver, dispatcher)
	budgetSvc := service.NewBudgetService(budgetRepo, orderRepo, customerRepo, orderSvc, dispatcher, cfg.PublicBaseURL)
	publicSvc := service.NewPublicService(budgetSvc, orderRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc, vehicleSvc)
	vehiclesH := handler.NewVehiclesHandler(vehicleSvc)
	mechanicsH := handler.NewMechanicsHandler(mechanicSvc)
	servicesH := handler.NewServicesHandler(catalogSvc)
	partsH := handler.NewPartsHandler(partSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc, budgetSvc)
	budgetsH := handler.NewBudgetsHandler(budgetSvc)
	publicH := handler.NewPublicHandler(publicSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public surface — no credentials. Customers land here from email links
	// or track their order with data printed on the service receipt.
	public := r.Group("/v1/public", middleware.RateLimiter(60, time.Minute))
	{
		public.GET("/budgets/:id", publicH.ViewBudget)
		public.GET("/budgets/:id/status", publicH.BudgetStatus)
		public.POST("/budgets/:id/approve", publicH.ApproveBudget)
		public.POST("/budgets/:id/reject", publicH.RejectBudget)
		public.GET("/orders/number/:number", publicH.OrderByNumber)
		public.GET("/orders/document/:document", publicH.OrdersByDocument)
		public.GET("/orders/plate/:plate", publicH.OrdersByPlate)
	}

	// Staff routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleEmployee)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		customers := v1.Group("/customers", staff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.GET("/:id/vehicles", customersH.Vehicles)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", adminOnly, customersH.Delete)
		}

		vehicles := v1.Group("/vehicles", staff)
		{
			vehicles.POST("", vehiclesH.Create)
			vehicles.GET("", vehiclesH.List)
			vehicles.GET("/:id", vehiclesH.Get)
			vehicles.PUT("/:id", vehiclesH.Update)
			vehicles.DELETE("/:id", adminOnly, vehiclesH.Delete)
		}

		mechanics := v1.Group("/mechanics", staff)
		{
			mechanics.POST("", adminOnly, mechanicsH.Create)
			mechanics.GET("", mechanicsH.List)
			mechanics.GET("/:id", mechanicsH.Get)
			mechanics.PUT("/:id", adminOnly, mechanicsH.Update)
			mechanics.DELETE("/:id", adminOnly, mechanicsH.Deactivate)
		}

		services := v1.Group("/services", staff)
		{
			services.GET("", servicesH.List)
			services.GET("/:id", servicesH.Get)
			services.POST("", adminOnly, servicesH.Create)
			services.PUT("/:id", adminOnly, servicesH.Update)
			services.DELETE("/:id", adminOnly, servicesH.Deactivate)
		}

		parts := v1.Group("/parts", staff)
		{
			parts.GET("", partsH.List)
			parts.GET("/:id", partsH.Get)
			parts.POST("", adminOnly, partsH.Create)
			parts.PUT("/:id", adminOnly, partsH.Update)
			parts.DELETE("/:id", adminOnly, partsH.Deactivate)
			// Inventory: manual adjustments need staff, the report and ledger too
			parts.PATCH("/:id/stock", inventoryH.Adjust)
		}

		inventory := v1.Group("/inventory", staff)
		{
			inventory.GET("/low-stock", inventoryH.LowStock)
			inventory.GET("/movements", inventoryH.Movements)
		}

		orders := v1.Group("/orders", staff)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/budgets", ordersH.Budgets)
			orders.PATCH("/:id/status", ordersH.Transition)
			orders.POST("/:id/approve", ordersH.Approve)
		}

		budgets := v1.Group("/budgets", staff)
		{
			budgets.POST("", budgetsH.Create)
			budgets.GET("/:id", budgetsH.Get)
			budgets.GET("/:id/status", budgetsH.Status)
			budgets.POST("/:id/send", budgetsH.Send)
			budgets.DELETE("/:id", budgetsH.Delete)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
