package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func expectRequestLookup(mock sqlmock.Sqlmock, requestID, reference, subject string, assignedTo *string) {
	mock.ExpectQuery(`SELECT .* FROM "maintenance_requests" WHERE id = \$1`).
		WithArgs(requestID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "subject", "assigned_to"}).
			AddRow(requestID, reference, subject, assignedTo))
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// Dispatch a job
	wp.Dispatch("req-123")

	// Check if the job is in the channel
	select {
	case job := <-wp.jobs:
		assert.Equal(t, "req-123", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	technicianID := "tech-1"

	t.Run("sends reminder to the assigned technician", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		requestID := "req-101"

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "Maintenance request MR/2024/00101 (Leaking Oil) is overdue", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		expectRequestLookup(mock, requestID, "MR/2024/00101", "Leaking Oil", &technicianID)

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs(technicianID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", technicianID))

		wp.Dispatch(requestID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		requestID := "req-102"

		// The sender returns a 410 Gone status
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		expectRequestLookup(mock, requestID, "MR/2024/00102", "Worn belt", &technicianID)

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs(technicianID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id"}).
				AddRow("https://example.com/expired", "test_p256dh_expired", "test_auth_expired", technicianID))

		// Expect the delete operation
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(requestID)

		// A short sleep to allow the worker to process the job
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips unassigned requests", func(t *testing.T) {
		requestID := "req-103"

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("no notification should be sent for an unassigned request")
				return nil, nil
			},
		}

		expectRequestLookup(mock, requestID, "MR/2024/00103", "Nobody's problem", nil)

		wp.Dispatch(requestID)

		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
