package Controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"DigiHaccp/Checklists"
)

// HistoryController is the manager review surface over generated
// instances and their answers.
type HistoryController struct {
	DB *gorm.DB
}

// NewHistoryController creates a new HistoryController
func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{DB: db}
}

// GetHistory lists a deli's instances inside a date range, newest
// first. An empty range yields an empty list.
func (hc *HistoryController) GetHistory(ctx *fiber.Ctx) error {
	deliID, err := strconv.Atoi(ctx.Params("deliId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	summaries, err := Checklists.InstancesForDeli(hc.DB, uint(deliID), ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(summaries)
}

// GetHistoryDetail replays the grid projection read-only with opener
// and completion attribution.
func (hc *HistoryController) GetHistoryDetail(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	detail, err := Checklists.InstanceDetail(hc.DB, uint(id))
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(detail)
}

// ExportHistory writes a deli's history range into an Excel workbook,
// one sheet per instance.
func (hc *HistoryController) ExportHistory(ctx *fiber.Ctx) error {
	deliID, err := strconv.Atoi(ctx.Params("deliId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	summaries, err := Checklists.InstancesForDeli(hc.DB, uint(deliID), ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		return engineError(ctx, err)
	}

	file := excelize.NewFile()
	defer file.Close()

	for i, summary := range summaries {
		detail, err := Checklists.InstanceDetail(hc.DB, summary.InstanceID)
		if err != nil {
			return engineError(ctx, err)
		}

		// Sheet names are capped at 31 chars by the format
		sheet := fmt.Sprintf("%s #%d", summary.Date, summary.InstanceID)
		if i == 0 {
			file.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := file.NewSheet(sheet); err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
			}
		}

		file.SetCellValue(sheet, "A1", detail.Title)
		file.SetCellValue(sheet, "B1", summary.Date)
		file.SetCellValue(sheet, "C1", "Opened by: "+detail.OpenedBy)
		file.SetCellValue(sheet, "D1", "Completed: "+detail.CompletedAt)

		for col, column := range detail.Columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 2)
			file.SetCellValue(sheet, cell, column.Header)
		}
		for rowIdx, row := range detail.Rows {
			for col, column := range detail.Columns {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+3)
				file.SetCellValue(sheet, cell, row[column.Key])
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write workbook"})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="haccp-history-deli-%d.xlsx"`, deliID))
	return ctx.Send(buffer.Bytes())
}
