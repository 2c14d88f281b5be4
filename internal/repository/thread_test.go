package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadRepository_GetByID_MapsDetails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT threads\.\*,.+vote_score.+view_count.+reply_count.+FROM "threads"`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "user_id", "created_at", "vote_score", "view_count", "reply_count"}).
			AddRow(1, "hello", 10, now, 4, 120, 3))

	thread, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "hello", thread.Content)
	assert.Equal(t, 4, thread.VoteScore)
	assert.Equal(t, 120, thread.ViewCount)
	assert.Equal(t, 3, thread.ReplyCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectQuery(`SELECT threads\.\*,.+FROM "threads"`).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assertAppErrorCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_RecordView_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectExec(`INSERT INTO thread_views .+ON CONFLICT \(thread_id\) DO UPDATE SET view_count = thread_views\.view_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordView(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_ListByAuthor_CursorFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	cursorAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	claims := models.CursorClaims{ID: 40, CreatedAt: cursorAt}

	mock.ExpectQuery(`SELECT threads\.\*,.+FROM "threads" WHERE threads\.user_id = \$1 AND threads\.created_at < \$2 AND threads\.id > \$3 AND "threads"\."deleted_at" IS NULL ORDER BY threads\.created_at DESC, threads\.id DESC LIMIT \$4`).
		WithArgs(10, cursorAt, 40, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(41, 10, cursorAt.Add(-time.Hour)).
			AddRow(42, 10, cursorAt.Add(-2*time.Hour)))

	threads, err := repo.ListByAuthor(context.Background(), 10, claims, 5)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, uint(41), threads[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_ListByFollowing_TopLevelOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	claims := models.DefaultCursorClaims()

	mock.ExpectQuery(`JOIN follows ON follows\.followee_id = threads\.user_id AND follows\.follower_id = \$1.+threads\.parent_id IS NULL AND threads\.created_at < \$2`).
		WithArgs(3, claims.CreatedAt, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(5, 8))

	threads, err := repo.ListByFollowing(context.Background(), 3, claims, 10)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_ListByPopularity_OrdersByDecayedScore(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	claims := models.DefaultCursorClaims()

	mock.ExpectQuery(`ORDER BY .+POWER\(EXTRACT\(EPOCH FROM \(NOW\(\) - threads\.created_at\)\) / 3600\.0 \+ 2, 1\.5\) DESC, threads\.created_at DESC`).
		WithArgs(claims.CreatedAt, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	threads, err := repo.ListByPopularity(context.Background(), claims, 10)
	require.NoError(t, err)
	assert.Len(t, threads, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_ListByParent_OrdersByVoteScore(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	claims := models.DefaultCursorClaims()

	mock.ExpectQuery(`WHERE threads\.parent_id = \$1 AND threads\.created_at < \$2.+ORDER BY vote_score DESC, threads\.created_at DESC`).
		WithArgs(9, claims.CreatedAt, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "vote_score"}).
			AddRow(11, 9, 5).
			AddRow(12, 9, 2))

	threads, err := repo.ListByParent(context.Background(), 9, claims, 10)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, 5, threads[0].VoteScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_ListByRecency_StoreError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectQuery(`FROM "threads"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.ListByRecency(context.Background(), models.DefaultCursorClaims(), 10)
	assertAppErrorCode(t, err, models.CodeStoreUnavailable)
}
