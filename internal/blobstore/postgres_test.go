package blobstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupMock(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := NewPostgres(db)
	cleanup := func() {
		db.Close()
	}
	return store, mock, cleanup
}

func TestPostgresGet_Success(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"title":"Milk"}]`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM blobs WHERE key = $1`)).
		WithArgs("scannedItems").
		WillReturnRows(rows)

	got, err := store.Get(context.Background(), "scannedItems")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"title":"Milk"}]` {
		t.Errorf("Get = %s; want stored value", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGet_MissingKey(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM blobs WHERE key = $1`)).
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get error = %v; want ErrKeyNotFound", err)
	}
}

func TestPostgresSet_Upsert(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO blobs (key, value) VALUES ($1, $2)`)).
		WithArgs("notificationTime", []byte(`"2024-01-01T09:00:00Z"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "notificationTime", []byte(`"2024-01-01T09:00:00Z"`))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSet_QueryError(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO blobs`)).
		WillReturnError(errors.New("connection reset"))

	if err := store.Set(context.Background(), "k", []byte("v")); err == nil {
		t.Fatal("Set did not return error")
	}
}

func TestPostgresDelete(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM blobs WHERE key = $1`)).
		WithArgs("scannedItems").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(context.Background(), "scannedItems"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
