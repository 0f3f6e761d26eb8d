package Checklists

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"DigiHaccp/Models"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database per test. Connections
// are capped at one so concurrent engine calls serialize at the
// driver instead of tripping sqlite's table locks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:checklists_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
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

// fixture is a fully seeded deli with one daily food safety
// definition.
type fixture struct {
	deli       Models.Deli
	template   Models.ChecklistTemplate
	definition Models.ChecklistDefinition
	items      []Models.ChecklistRowItem
	fields     map[string]Models.TemplateField
	staff      Models.User
	manager    Models.User
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{fields: map[string]Models.TemplateField{}}

	f.deli = Models.Deli{Name: "Main Street Deli", Address: "1 Main St", PhoneNumber: "0851234567"}
	if err := db.Create(&f.deli).Error; err != nil {
		t.Fatalf("seed deli: %v", err)
	}

	f.staff = Models.User{Name: "Sam", Email: "sam@deli.test", Permission: Models.PermissionStaff, IsActive: true}
	f.manager = Models.User{Name: "Morgan", Email: "morgan@deli.test", Permission: Models.PermissionManager, IsActive: true}
	if err := db.Create(&f.staff).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	if err := db.Create(&f.manager).Error; err != nil {
		t.Fatalf("seed manager: %v", err)
	}

	f.template = Models.ChecklistTemplate{Code: "food_safety", Name: "Food Safety", Active: true}
	if err := db.Create(&f.template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}

	fields := []Models.TemplateField{
		{TemplateID: f.template.ID, Name: "substance", Label: "Substance", Kind: Models.KindText, DisplayOrder: 1},
		{TemplateID: f.template.ID, Name: "use_by", Label: "Use By", Kind: Models.KindDate, Role: Models.RoleUseByDate, DisplayOrder: 2},
		{TemplateID: f.template.ID, Name: "core_temp", Label: "Core Temp", Kind: Models.KindDecimal, Role: Models.RoleCoreTemperature, DisplayOrder: 3},
		{TemplateID: f.template.ID, Name: "probe_temp", Label: "Probe Temp", Kind: Models.KindInteger, Role: Models.RoleCoreTemperature, DisplayOrder: 4},
		{TemplateID: f.template.ID, Name: "check_time", Label: "Checked At", Kind: Models.KindTime, DisplayOrder: 5},
		{TemplateID: f.template.ID, Name: "delivered_at", Label: "Delivered", Kind: Models.KindDateTime, DisplayOrder: 6},
		{TemplateID: f.template.ID, Name: "passed", Label: "Passed", Kind: Models.KindBoolean, DisplayOrder: 7},
		{TemplateID: f.template.ID, Name: "note", Label: "Note", Kind: Models.KindText, DisplayOrder: 8},
	}
	for i := range fields {
		if err := db.Create(&fields[i]).Error; err != nil {
			t.Fatalf("seed field %s: %v", fields[i].Name, err)
		}
		f.fields[fields[i].Name] = fields[i]
	}

	f.definition = Models.ChecklistDefinition{
		TemplateID: f.template.ID,
		DeliID:     f.deli.ID,
		CreatedBy:  f.manager.ID,
		Title:      "Morning Food Safety",
		Frequency:  Models.FrequencyDaily,
		Active:     true,
	}
	if err := db.Create(&f.definition).Error; err != nil {
		t.Fatalf("seed definition: %v", err)
	}

	items := []Models.ChecklistRowItem{
		{DefinitionID: f.definition.ID, Name: "Chicken Fillet", Substance: "Chicken", DisplayOrder: 1},
		{DefinitionID: f.definition.ID, Name: "Baked Ham", Substance: "Pork", DisplayOrder: 2},
		{DefinitionID: f.definition.ID, Name: "Coleslaw", Substance: "Egg", DisplayOrder: 3},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("seed row item %s: %v", items[i].Name, err)
		}
	}
	f.items = items

	return f
}

func testDay() time.Time {
	return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
}

// mustEnsure generates the fixture's instance for the test day.
func mustEnsure(t *testing.T, db *gorm.DB, f fixture) Models.ChecklistInstance {
	t.Helper()
	instance, _, err := EnsureInstance(db, f.definition.ID, f.deli.ID, testDay())
	if err != nil {
		t.Fatalf("ensure instance: %v", err)
	}
	return instance
}
