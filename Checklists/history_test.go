package Checklists

import (
	"errors"
	"testing"
	"time"

	"DigiHaccp/Models"
)

func TestInstancesForDeliOrdering(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	days := []time.Time{
		testDay(),
		testDay().AddDate(0, 0, 2),
		testDay().AddDate(0, 0, 1),
	}
	for _, day := range days {
		if _, _, err := EnsureInstance(db, f.definition.ID, f.deli.ID, day); err != nil {
			t.Fatalf("ensure %v: %v", day, err)
		}
	}

	summaries, err := InstancesForDeli(db, f.deli.ID, "2025-03-10", "2025-03-12")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(summaries))
	}
	wantDates := []string{"2025-03-12", "2025-03-11", "2025-03-10"}
	for i, want := range wantDates {
		if summaries[i].Date != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, summaries[i].Date)
		}
	}

	// Range filters are inclusive.
	summaries, err = InstancesForDeli(db, f.deli.ID, "2025-03-11", "2025-03-11")
	if err != nil || len(summaries) != 1 {
		t.Fatalf("expected exactly the 11th, got %d (err=%v)", len(summaries), err)
	}
}

func TestInstancesForDeliEmptyRange(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	summaries, err := InstancesForDeli(db, f.deli.ID, "2030-01-01", "2030-12-31")
	if err != nil {
		t.Fatalf("empty range must not error, got %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty result, got %d", len(summaries))
	}
}

func TestInstanceDetailReadOnly(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	instance := mustEnsure(t, db, f)

	if err := SaveAnswer(db, instance.ID, f.items[0].ID, "note", "all good", f.staff, testDay()); err != nil {
		t.Fatalf("save: %v", err)
	}

	var answersBefore int64
	db.Model(&Models.Answer{}).Count(&answersBefore)

	detail, err := InstanceDetail(db, instance.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}

	if detail.OpenedBy != f.staff.Name {
		t.Fatalf("expected opener %s, got %s", f.staff.Name, detail.OpenedBy)
	}
	if detail.CompletedAt != testDay().Format(DateTimeLayout) {
		t.Fatalf("expected completion stamp %s, got %s", testDay().Format(DateTimeLayout), detail.CompletedAt)
	}
	if detail.Rows[0]["note"] != "all good" {
		t.Fatalf("expected saved value in detail, got %v", detail.Rows[0]["note"])
	}
	for _, column := range detail.Columns {
		if column.Editable {
			t.Fatalf("history columns must be read-only, %s is editable", column.Key)
		}
	}

	// Strictly read-only: no extra answers or sessions materialize.
	var answersAfter int64
	db.Model(&Models.Answer{}).Count(&answersAfter)
	if answersAfter != answersBefore {
		t.Fatalf("detail created answers: %d -> %d", answersBefore, answersAfter)
	}
}

func TestInstanceDetailWithoutSession(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	instance := mustEnsure(t, db, f)

	detail, err := InstanceDetail(db, instance.ID)
	if err != nil {
		t.Fatalf("detail without session must not fail, got %v", err)
	}
	if len(detail.Rows) != len(f.items) {
		t.Fatalf("expected %d rows, got %d", len(f.items), len(detail.Rows))
	}
	if detail.Rows[0]["note"] != "" {
		t.Fatalf("expected empty projection, got %v", detail.Rows[0]["note"])
	}
	if detail.OpenedBy != "" {
		t.Fatalf("expected no opener, got %s", detail.OpenedBy)
	}

	var sessions int64
	db.Model(&Models.ResponseSession{}).Count(&sessions)
	if sessions != 0 {
		t.Fatalf("read-only detail created a session")
	}
}

func TestInstanceDetailNotFound(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)

	if _, err := InstanceDetail(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditSessionDeduplicatesEditors(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	instance := mustEnsure(t, db, f)

	// Staff opens the session, both staff and manager edit, staff
	// edits twice.
	if err := SaveAnswer(db, instance.ID, f.items[0].ID, "note", "first", f.staff, testDay()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveAnswer(db, instance.ID, f.items[1].ID, "note", "second", f.manager, testDay()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveAnswer(db, instance.ID, f.items[2].ID, "note", "third", f.staff, testDay()); err != nil {
		t.Fatalf("save: %v", err)
	}

	var session Models.ResponseSession
	db.Where("instance_id = ?", instance.ID).First(&session)

	audit, err := AuditSession(db, session.ID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if audit.OpenedBy != f.staff.Name {
		t.Fatalf("expected opener %s, got %s", f.staff.Name, audit.OpenedBy)
	}
	if len(audit.Editors) != 2 {
		t.Fatalf("expected 2 distinct editors, got %v", audit.Editors)
	}
	if audit.Editors[0] != f.manager.Name || audit.Editors[1] != f.staff.Name {
		t.Fatalf("expected editors sorted by name, got %v", audit.Editors)
	}

	if _, err := AuditSession(db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown session, got %v", err)
	}
}
