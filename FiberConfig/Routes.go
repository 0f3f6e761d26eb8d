package FiberConfig

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"DigiHaccp/Controllers"
	"DigiHaccp/Models"
	"DigiHaccp/Scrapper"
	"DigiHaccp/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	deliController := Controllers.NewDeliController(db)
	templateController := Controllers.NewTemplateController(db)
	definitionController := Controllers.NewDefinitionController(db)
	instanceController := Controllers.NewInstanceController(db)
	historyController := Controllers.NewHistoryController(db)
	attachmentController := Controllers.NewAttachmentController(db)

	// API group
	api := app.Group("/api")

	// Session endpoints
	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Post("/api/RegisterUser", Controllers.RegisterUser)
	app.Get("/api/User", middleware.Verify(Models.PermissionStaff), Controllers.User)

	// Account management, manager only
	app.Get("/api/FetchUsers", middleware.Verify(Models.PermissionManager), Controllers.FetchUsers)
	app.Patch("/api/UpdateUser/:id", middleware.Verify(Models.PermissionManager), Controllers.UpdateUser)
	app.Delete("/api/DeleteUser/:id", middleware.Verify(Models.PermissionManager), Controllers.DeleteUser)

	// Deli management
	delis := api.Group("/delis", middleware.Verify(Models.PermissionStaff))
	delis.Get("/", deliController.GetDelis)
	delis.Post("/:id/join", deliController.RequestJoin)
	delis.Get("/:id", middleware.Verify(Models.PermissionManager), deliController.GetDeli)
	delis.Post("/", middleware.Verify(Models.PermissionManager), deliController.CreateDeli)
	delis.Put("/:id", middleware.Verify(Models.PermissionManager), deliController.UpdateDeli)
	delis.Delete("/:id", middleware.Verify(Models.PermissionManager), deliController.DeleteDeli)

	// Membership review
	requests := api.Group("/join-requests", middleware.Verify(Models.PermissionManager))
	requests.Get("/", deliController.GetPendingRequests)
	requests.Post("/:id/approve", deliController.ApproveRequest)
	requests.Post("/:id/reject", deliController.RejectRequest)

	// Template authoring, manager only
	templates := api.Group("/templates", middleware.Verify(Models.PermissionManager))
	templates.Get("/", templateController.GetTemplates)
	templates.Post("/", templateController.CreateTemplate)
	templates.Get("/:id", templateController.GetTemplate)
	templates.Put("/:id", templateController.UpdateTemplate)
	templates.Get("/:id/fields", templateController.GetFields)
	templates.Post("/:id/fields", templateController.AddField)

	// Checklist definitions, manager only
	definitions := api.Group("/definitions", middleware.Verify(Models.PermissionManager))
	definitions.Get("/", definitionController.GetDefinitions)
	definitions.Post("/", definitionController.CreateDefinition)
	definitions.Get("/:id", definitionController.GetDefinition)
	definitions.Put("/:id", definitionController.UpdateDefinition)
	definitions.Delete("/:id", definitionController.DeleteDefinition)
	definitions.Post("/:id/items", definitionController.AddRowItem)
	definitions.Delete("/:id/items/:itemId", definitionController.DeleteRowItem)

	// Staff checklist surface. Opening the today listing generates the
	// day's instances.
	instances := api.Group("/instances", middleware.Verify(Models.PermissionStaff))
	instances.Get("/today", instanceController.GetTodayChecklists)
	instances.Get("/:id/grid", instanceController.GetGrid)
	instances.Post("/:id/answers", instanceController.SaveAnswer)
	instances.Post("/:id/evidence", attachmentController.UploadEvidence)
	instances.Get("/:id/evidence", attachmentController.GetEvidence)
	instances.Post("/:id/lock", middleware.Verify(Models.PermissionManager), instanceController.LockInstance)
	instances.Get("/:id/audit", middleware.Verify(Models.PermissionManager), instanceController.GetAudit)

	// History review, manager only
	history := api.Group("/history", middleware.Verify(Models.PermissionManager))
	history.Get("/deli/:deliId", historyController.GetHistory)
	history.Get("/deli/:deliId/export", historyController.ExportHistory)
	history.Get("/instance/:id", historyController.GetHistoryDetail)

	// Food safety alerts
	app.Get("/api/GetFoodAlerts", middleware.Verify(Models.PermissionStaff), Scrapper.ReturnAlerts)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	// Serve evidence photos
	app.Static("/Evidence", "./Evidence", fiber.Static{Compress: true})
	app.Static("/EvidenceThumbs", "./EvidenceThumbs", fiber.Static{Compress: true})

	app.Listen(":3001")
}
