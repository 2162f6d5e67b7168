package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-fabshop/internal/handler"
	"go-fabshop/internal/middleware"
	"go-fabshop/internal/model"
	"go-fabshop/internal/repository"
	"go-fabshop/internal/service"
	"go-fabshop/internal/ws"
	"go-fabshop/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Tenant{},
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.StockItem{},
		&model.StockMovement{},
		&model.ServiceBOMTemplate{},
		&model.BOMLineItem{},
		&model.Lead{},
		&model.SiteVisit{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Order{},
		&model.WorkOrder{},
		&model.StockReservation{},
		&model.Warranty{},
	)

	// 3. Seed default privileges, roles, and demo tenant/admin
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	stockRepo := repository.NewStockItemRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	leadRepo := repository.NewLeadRepo(db)
	visitRepo := repository.NewVisitRepo(db)
	quoteRepo := repository.NewQuoteRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	workOrderRepo := repository.NewWorkOrderRepo(db)
	warrantyRepo := repository.NewWarrantyRepo(db)
	userRepo := repository.NewUserRepo(db)
	tenantRepo := repository.NewTenantRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	reservationService := service.NewReservationService(stockRepo, reservationRepo, workOrderRepo, orderRepo, warrantyRepo, db, wsHub)
	invService := service.NewInventoryService(stockRepo, movementRepo, db, wsHub)
	bomService := service.NewBOMService(templateRepo, stockRepo)
	pipelineService := service.NewPipelineService(leadRepo, visitRepo, quoteRepo, orderRepo, workOrderRepo, templateRepo, reservationService, db)
	workOrderService := service.NewWorkOrderService(workOrderRepo, orderRepo, warrantyRepo, reservationService, db)
	dashService := service.NewDashboardService(stockRepo, movementRepo, quoteRepo, orderRepo)
	authService := service.NewAuthService(userRepo, tenantRepo, roleRepo, privilegeRepo, db, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo, privilegeRepo)

	invHandler := handler.NewInventoryHandler(invService)
	bomHandler := handler.NewBOMHandler(bomService)
	pipelineHandler := handler.NewPipelineHandler(pipelineService)
	woHandler := handler.NewWorkOrderHandler(workOrderService, reservationService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "FabShop API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)
	protected.Get("/dashboard/finance", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetFinanceSummary)

	// Stock Routes
	protected.Get("/stock-items", middleware.RequirePrivilege("stock:view"), invHandler.GetItems)
	protected.Get("/stock-items/suggestions", middleware.RequirePrivilege("stock:view"), invHandler.GetPurchaseSuggestions)
	protected.Get("/stock-items/:id", middleware.RequirePrivilege("stock:view"), invHandler.GetItem)
	protected.Post("/stock-items", middleware.RequirePrivilege("stock:create"), invHandler.CreateItem)
	protected.Put("/stock-items/:id", middleware.RequirePrivilege("stock:update"), invHandler.UpdateItem)
	protected.Post("/stock-items/:id/movements", middleware.RequirePrivilege("stock:adjust"), invHandler.RecordMovement)
	protected.Get("/stock-items/:id/movements", middleware.RequirePrivilege("stock:view"), invHandler.GetMovements)

	// BOM Template Routes
	protected.Get("/bom-templates", middleware.RequirePrivilege("bom:view"), bomHandler.GetTemplates)
	protected.Get("/bom-templates/:id", middleware.RequirePrivilege("bom:view"), bomHandler.GetTemplate)
	protected.Post("/bom-templates", middleware.RequirePrivilege("bom:manage"), bomHandler.CreateTemplate)
	protected.Put("/bom-templates/:id", middleware.RequirePrivilege("bom:manage"), bomHandler.UpdateTemplate)
	protected.Delete("/bom-templates/:id", middleware.RequirePrivilege("bom:manage"), bomHandler.DeleteTemplate)
	protected.Post("/bom-templates/:id/preview", middleware.RequirePrivilege("bom:view"), bomHandler.Preview)

	// Sales Pipeline Routes
	protected.Get("/leads", middleware.RequirePrivilege("lead:view"), pipelineHandler.GetLeads)
	protected.Get("/leads/:id", middleware.RequirePrivilege("lead:view"), pipelineHandler.GetLead)
	protected.Post("/leads", middleware.RequirePrivilege("lead:manage"), pipelineHandler.CreateLead)
	protected.Put("/leads/:id", middleware.RequirePrivilege("lead:manage"), pipelineHandler.UpdateLead)

	protected.Get("/site-visits", middleware.RequirePrivilege("lead:view"), pipelineHandler.GetVisits)
	protected.Post("/site-visits", middleware.RequirePrivilege("visit:manage"), pipelineHandler.ScheduleVisit)
	protected.Put("/site-visits/:id/complete", middleware.RequirePrivilege("visit:manage"), pipelineHandler.CompleteVisit)
	protected.Put("/site-visits/:id/cancel", middleware.RequirePrivilege("visit:manage"), pipelineHandler.CancelVisit)

	protected.Get("/quotes", middleware.RequirePrivilege("lead:view"), pipelineHandler.GetQuotes)
	protected.Get("/quotes/:id", middleware.RequirePrivilege("lead:view"), pipelineHandler.GetQuote)
	protected.Post("/quotes", middleware.RequirePrivilege("quote:manage"), pipelineHandler.CreateQuote)
	protected.Put("/quotes/:id/send", middleware.RequirePrivilege("quote:manage"), pipelineHandler.SendQuote)
	protected.Put("/quotes/:id/reject", middleware.RequirePrivilege("quote:manage"), pipelineHandler.RejectQuote)
	protected.Post("/quotes/:id/convert", middleware.RequirePrivilege("quote:manage"), pipelineHandler.ConvertQuote)

	// Order and Work Order Routes
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), woHandler.GetOrders)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), woHandler.GetOrder)
	protected.Put("/orders/:id/cancel", middleware.RequirePrivilege("order:manage"), woHandler.CancelOrder)
	protected.Get("/orders/:id/warranties", middleware.RequirePrivilege("order:view"), woHandler.GetOrderWarranties)

	protected.Get("/work-orders", middleware.RequirePrivilege("order:view"), woHandler.GetWorkOrders)
	protected.Get("/work-orders/:id", middleware.RequirePrivilege("order:view"), woHandler.GetWorkOrder)
	protected.Put("/work-orders/:id/stage", middleware.RequirePrivilege("workorder:update"), woHandler.UpdateStage)
	protected.Put("/work-orders/:id/team", middleware.RequirePrivilege("workorder:update"), woHandler.AssignTeam)
	protected.Post("/work-orders/:id/complete", middleware.RequirePrivilege("workorder:complete"), woHandler.Complete)
	protected.Get("/work-orders/:id/reservations", middleware.RequirePrivilege("order:view"), woHandler.GetReservations)

	protected.Get("/warranties", middleware.RequirePrivilege("order:view"), woHandler.GetWarranties)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and a demo
// tenant with a MASTER_ADMIN user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	tenantRepo := repository.NewTenantRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// 4. Create demo tenant and admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		tenant, terr := tenantRepo.FindBySlug("demo")
		if terr != nil {
			tenant = &model.Tenant{Name: "Demo Metalworks", Slug: "demo", IsActive: true}
			tenant.CreatedBy = "system"
			tenant.UpdatedBy = "system"
			if err := tenantRepo.Create(db, tenant); err != nil {
				log.Printf("Warning: Failed to create demo tenant: %v", err)
				return
			}
		}

		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			TenantID:    tenant.ID,
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
