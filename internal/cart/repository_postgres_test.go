package cart

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresCreate_AssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO carts").
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(12))

	created, err := repo.Create(Cart{
		UserID: 42,
		Items:  []Line{{ProductID: 1, Quantity: 2}},
		Status: StatusConfirmed,
		Value:  20.0,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 12 {
		t.Fatalf("expected id 12, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_UnmarshalsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"cart_id", "user_id", "items", "status", "value", "created_at", "updated_at"}).
		AddRow(3, 42, []byte(`[{"product":1,"quantity":2},{"product":2,"quantity":1}]`), "confirmed", 25.0, "t", "u")
	mock.ExpectQuery("FROM carts").WithArgs(3).WillReturnRows(rows)

	c, err := repo.GetByID(3)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if c.Status != StatusConfirmed || c.Value != 25.0 {
		t.Fatalf("unexpected cart %+v", c)
	}
	if len(c.Items) != 2 || c.Items[0].ProductID != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", c.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM carts").WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "user_id", "items", "status", "value", "created_at", "updated_at"}))

	if _, err := repo.GetByID(8); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT COUNT").WithArgs("draft").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByStatus(StatusDraft)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE carts SET status").WithArgs("completed", "now", 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(9, StatusCompleted, "now"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
