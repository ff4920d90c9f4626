package inscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cozetik-backend/internal/shared/leadstatus"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO formation_inscriptions").
		WithArgs("i1", "Léa", "lea@example.com", "0612345678", "Bonjour à vous", "f1", "NEW", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = (&PGRepo{DB: db}).Create(context.Background(), Inscription{
		ID: "i1", Name: "Léa", Email: "lea@example.com", Phone: "0612345678",
		Message: "Bonjour à vous", FormationID: "f1", Status: leadstatus.New, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListJoinsFormation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery(`JOIN formations f ON f.id = i.formation_id\s+ORDER BY CASE i.status WHEN 'NEW' THEN 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "message", "status", "created_at", "fid", "title", "slug"}).
			AddRow("i1", "Léa", "lea@example.com", "0612345678", "Bonjour à vous", "TREATED", now, "f1", "Sophrologie", "sophrologie"))

	items, err := (&PGRepo{DB: db}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Status != leadstatus.Treated {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].FormationID != "f1" || items[0].Formation.Title != "Sophrologie" {
		t.Fatalf("formation not joined: %+v", items[0])
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`WHERE i.id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := (&PGRepo{DB: db}).GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateStatusIsConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	update := `UPDATE formation_inscriptions SET status = \$1 WHERE id = \$2 AND status = \$3`
	exists := `SELECT EXISTS \(SELECT 1 FROM formation_inscriptions WHERE id = \$1\)`

	mock.ExpectExec(update).WithArgs("TREATED", "i1", "NEW").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdateStatus(context.Background(), "i1", leadstatus.New, leadstatus.Treated); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	mock.ExpectExec(update).WithArgs("TREATED", "i1", "NEW").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(exists).WithArgs("i1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	if err := repo.UpdateStatus(context.Background(), "i1", leadstatus.New, leadstatus.Treated); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	mock.ExpectExec(update).WithArgs("TREATED", "gone", "NEW").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(exists).WithArgs("gone").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	if err := repo.UpdateStatus(context.Background(), "gone", leadstatus.New, leadstatus.Treated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGFormationsLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	lookup := &PGFormations{DB: db}
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	next := time.Date(2027, 1, 12, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM formations f\s+WHERE f.id = \$1`).
		WithArgs("f1", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "next"}).AddRow("f1", "Sophrologie", "sophrologie", next))
	f, err := lookup.Formation(context.Background(), "f1", now)
	if err != nil {
		t.Fatalf("Formation: %v", err)
	}
	if f.Title != "Sophrologie" || f.NextSession == nil || !f.NextSession.Equal(next) {
		t.Fatalf("unexpected formation: %+v", f)
	}

	mock.ExpectQuery(`FROM formations f`).
		WithArgs("f2", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "next"}).AddRow("f2", "Kizomba", "kizomba", nil))
	f, err = lookup.Formation(context.Background(), "f2", now)
	if err != nil {
		t.Fatalf("Formation: %v", err)
	}
	if f.NextSession != nil {
		t.Fatalf("expected no session, got %v", f.NextSession)
	}

	mock.ExpectQuery(`FROM formations f`).
		WithArgs("missing", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "next"}))
	if _, err := lookup.Formation(context.Background(), "missing", now); !errors.Is(err, ErrFormationNotFound) {
		t.Fatalf("expected ErrFormationNotFound, got %v", err)
	}
}

func TestPGFormationsUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	start := time.Date(2027, 1, 12, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO formations .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("f1", "Sophrologie", "sophrologie").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO formation_sessions").
		WithArgs(sqlmock.AnyArg(), "f1", start, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = (&PGFormations{DB: db}).Upsert(context.Background(),
		FormationRef{ID: "f1", Title: "Sophrologie", Slug: "sophrologie"},
		Session{Start: start, Available: true})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
