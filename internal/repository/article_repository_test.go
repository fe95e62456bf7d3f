package repository

import (
	"testing"

	"campushub/internal/apperr"
	"campushub/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens gorm over a sqlmock connection. Every statement text
// is recorded so tests can assert on the generated SQL; expectations
// match in order regardless of their text.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *[]string) {
	t.Helper()

	var statements []string
	recorder := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		statements = append(statements, actualSQL)
		return nil
	})

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(recorder))
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	return db, mock, &statements
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestUpdateWritesOnlyEditableColumns(t *testing.T) {
	db, mock, statements := newTestDB(t)
	repo := NewArticleRepository(db)

	// Edit snapshot carrying a comment_ids copy that may already be stale.
	article := &models.Article{
		ID:         9,
		Title:      "T",
		Content:    "C",
		Status:     models.StatusPrivate,
		Partition:  models.PartitionSquare,
		AuthorID:   1,
		CommentIDs: models.IDList{5},
	}

	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(article))
	assert.Len(t, *statements, 1)

	sql := (*statements)[0]
	assert.Contains(t, sql, `"title"`)
	assert.Contains(t, sql, `"status"`)
	assert.NotContains(t, sql, "comment_ids")
	assert.NotContains(t, sql, "created_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeDoubleToggleRestoresMembership(t *testing.T) {
	db, mock, _ := newTestDB(t)
	repo := NewArticleRepository(db)

	// First toggle: no like row yet, membership turns on.
	mock.ExpectQuery("SELECT").WillReturnRows(countRows(1)) // article exists
	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT").WillReturnRows(countRows(1)) // like count

	liked, count, err := repo.ToggleLike(5, 7)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	// Second toggle by the same user: the like row is removed again and
	// the count returns to its prior value.
	mock.ExpectQuery("SELECT").WillReturnRows(countRows(1))
	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT").WillReturnRows(countRows(0))

	liked, count, err = repo.ToggleLike(5, 7)
	assert.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeMissingArticle(t *testing.T) {
	db, mock, _ := newTestDB(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery("SELECT").WillReturnRows(countRows(0))

	_, _, err := repo.ToggleLike(99, 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
