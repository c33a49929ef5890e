package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var taskCols = []string{"id", "applicant_id", "assignee_id", "title", "description", "status", "due_at", "created_at", "updated_at"}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs(int64(9), int64(1), "Review essay", nil, "pending", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	applicant, assignee := int64(9), int64(1)
	task, err := repo.Create(context.Background(), Task{ApplicantID: &applicant, AssigneeID: &assignee, Title: "Review essay", Status: StatusPending})
	if err != nil || task.ID != 5 {
		t.Fatalf("unexpected %+v err=%v", task, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE tasks SET status").
		WithArgs(int64(5), "completed").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow(int64(5), nil, int64(1), "t", nil, "completed", nil, now, now))
	mock.ExpectQuery("UPDATE tasks SET status").
		WithArgs(int64(6), "completed").
		WillReturnRows(sqlmock.NewRows(taskCols))

	task, err := repo.UpdateStatus(context.Background(), 5, "completed")
	if err != nil || task.Status != "completed" || task.ApplicantID != nil {
		t.Fatalf("unexpected %+v err=%v", task, err)
	}
	if _, err := repo.UpdateStatus(context.Background(), 6, "completed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT COUNT").WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := repo.CountByStatus(context.Background(), StatusPending)
	if err != nil || n != 4 {
		t.Fatalf("unexpected %d err=%v", n, err)
	}
}
