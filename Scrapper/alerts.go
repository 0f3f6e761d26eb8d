package Scrapper

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"

	"DigiHaccp/Models"
)

// FSAI food alerts listing page
const alertsURL = "https://www.fsai.ie/news-and-alerts/food-alerts"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// FetchFoodAlerts scrapes the FSAI alerts page and stores every listed
// allergen or recall notice. The unique link index keeps repeated
// scrapes idempotent.
func FetchFoodAlerts() error {
	resp, err := httpClient.Get(alertsURL)
	if err != nil {
		return fmt.Errorf("failed to fetch alerts page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alerts page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse alerts page: %w", err)
	}

	var alerts []Models.Alert
	doc.Find("article a, .search-result a, .listing-item a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		title := strings.TrimSpace(s.Text())
		if title == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = "https://www.fsai.ie" + href
		}

		category := "recall"
		if strings.Contains(strings.ToLower(title), "allergen") {
			category = "allergen"
		}
		details, _ := json.Marshal(map[string]string{
			"scraped_at": time.Now().Format("2006-01-02 15:04"),
			"source":     alertsURL,
		})
		alerts = append(alerts, Models.Alert{
			Title:    title,
			Link:     href,
			Category: category,
			Details:  details,
		})
	})

	if len(alerts) == 0 {
		log.Println("No food alerts found, page layout may have changed")
		return nil
	}

	result := Models.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&alerts)
	if result.Error != nil {
		return fmt.Errorf("failed to store alerts: %w", result.Error)
	}
	log.Printf("Food alert scrape done, %d new of %d listed", result.RowsAffected, len(alerts))
	return nil
}

// ReturnAlerts serves the most recent stored alerts.
func ReturnAlerts(c *fiber.Ctx) error {
	var alerts []Models.Alert
	query := Models.DB.Order("id desc").Limit(50)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve alerts"})
	}
	return c.JSON(alerts)
}
