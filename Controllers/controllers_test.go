package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"DigiHaccp/Models"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := Models.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func TestUpdateTemplatePersists(t *testing.T) {
	db := setupTestDB(t)
	tc := NewTemplateController(db)

	template := Models.ChecklistTemplate{Code: "hot_holding", Name: "Hot Holding", Active: true}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}

	app := fiber.New()
	app.Put("/templates/:id", tc.UpdateTemplate)

	status, _ := doJSON(t, app, "PUT", fmt.Sprintf("/templates/%d", template.ID), fiber.Map{
		"code":   template.Code,
		"name":   "Hot Holding Checks",
		"active": false,
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var stored Models.ChecklistTemplate
	if err := db.First(&stored, template.ID).Error; err != nil {
		t.Fatalf("reload template: %v", err)
	}
	if stored.Name != "Hot Holding Checks" || stored.Active {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestUpdateDefinitionPersists(t *testing.T) {
	db := setupTestDB(t)
	dc := NewDefinitionController(db)

	deli := Models.Deli{Name: "Main Street Deli"}
	template := Models.ChecklistTemplate{Code: "food_safety", Name: "Food Safety", Active: true}
	if err := db.Create(&deli).Error; err != nil {
		t.Fatalf("seed deli: %v", err)
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	definition := Models.ChecklistDefinition{
		TemplateID: template.ID, DeliID: deli.ID,
		Title: "Morning Food Safety", Frequency: Models.FrequencyDaily, Active: true,
	}
	if err := db.Create(&definition).Error; err != nil {
		t.Fatalf("seed definition: %v", err)
	}

	app := fiber.New()
	app.Put("/definitions/:id", dc.UpdateDefinition)

	status, _ := doJSON(t, app, "PUT", fmt.Sprintf("/definitions/%d", definition.ID), fiber.Map{
		"title":  "Evening Food Safety",
		"active": false,
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var stored Models.ChecklistDefinition
	if err := db.First(&stored, definition.ID).Error; err != nil {
		t.Fatalf("reload definition: %v", err)
	}
	if stored.Title != "Evening Food Safety" || stored.Active {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestDeleteRowItemRemoves(t *testing.T) {
	db := setupTestDB(t)
	dc := NewDefinitionController(db)

	deli := Models.Deli{Name: "Main Street Deli"}
	template := Models.ChecklistTemplate{Code: "food_safety", Name: "Food Safety", Active: true}
	if err := db.Create(&deli).Error; err != nil {
		t.Fatalf("seed deli: %v", err)
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	definition := Models.ChecklistDefinition{
		TemplateID: template.ID, DeliID: deli.ID,
		Title: "Morning Food Safety", Frequency: Models.FrequencyDaily, Active: true,
	}
	if err := db.Create(&definition).Error; err != nil {
		t.Fatalf("seed definition: %v", err)
	}
	item := Models.ChecklistRowItem{DefinitionID: definition.ID, Name: "Chicken Fillet", DisplayOrder: 1}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed row item: %v", err)
	}

	app := fiber.New()
	app.Delete("/definitions/:id/items/:itemId", dc.DeleteRowItem)

	status, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/definitions/%d/items/%d", definition.ID, item.ID), nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var count int64
	db.Model(&Models.ChecklistRowItem{}).Where("id = ?", item.ID).Count(&count)
	if count != 0 {
		t.Fatalf("row item still present after delete")
	}

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/definitions/%d/items/%d", definition.ID, item.ID), nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for a deleted item, got %d", status)
	}
}

func TestGetTodayChecklistsListsTitles(t *testing.T) {
	db := setupTestDB(t)
	ic := NewInstanceController(db)

	deli := Models.Deli{Name: "Main Street Deli"}
	template := Models.ChecklistTemplate{Code: "food_safety", Name: "Food Safety", Active: true}
	if err := db.Create(&deli).Error; err != nil {
		t.Fatalf("seed deli: %v", err)
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	definition := Models.ChecklistDefinition{
		TemplateID: template.ID, DeliID: deli.ID,
		Title: "Morning Food Safety", Frequency: Models.FrequencyDaily, Active: true,
	}
	if err := db.Create(&definition).Error; err != nil {
		t.Fatalf("seed definition: %v", err)
	}

	manager := Models.User{
		Name: "Morgan", Email: "morgan@deli.test",
		Permission: Models.PermissionManager, IsActive: true,
	}
	if err := db.Create(&manager).Error; err != nil {
		t.Fatalf("seed manager: %v", err)
	}

	app := fiber.New()
	app.Get("/instances/today", func(c *fiber.Ctx) error {
		c.Locals("user", manager)
		return ic.GetTodayChecklists(c)
	})

	status, body := doJSON(t, app, "GET", fmt.Sprintf("/instances/today?deli_id=%d", deli.ID), nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var entries []struct {
		InstanceID uint   `json:"instance_id"`
		Title      string `json:"title"`
		Date       string `json:"date"`
		Locked     bool   `json:"locked"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Title != definition.Title {
		t.Fatalf("listing must carry the definition title, got %q", entries[0].Title)
	}
	if entries[0].InstanceID == 0 || entries[0].Locked {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
