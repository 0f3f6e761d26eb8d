package Checklists

import (
	"errors"

	"gorm.io/gorm"

	"DigiHaccp/Models"
)

// SessionAudit reports who opened a session and which workers have
// saved answers under it. Editors are deduplicated and derived from
// answer attribution at read time, there is no separate audit table.
type SessionAudit struct {
	SessionID uint     `json:"session_id"`
	OpenedBy  string   `json:"opened_by"`
	Editors   []string `json:"editors"`
}

// AuditSession scans the session's answers for distinct editors,
// ordered by name for stable output.
func AuditSession(db *gorm.DB, sessionID uint) (SessionAudit, error) {
	var session Models.ResponseSession
	if err := db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionAudit{}, ErrNotFound
		}
		return SessionAudit{}, err
	}

	var editors []string
	err := db.Model(&Models.Answer{}).
		Where("session_id = ? AND edited_by <> ''", sessionID).
		Distinct("edited_by").
		Order("edited_by asc").
		Pluck("edited_by", &editors).Error
	if err != nil {
		return SessionAudit{}, err
	}

	return SessionAudit{
		SessionID: session.ID,
		OpenedBy:  session.OpenedBy,
		Editors:   editors,
	}, nil
}
