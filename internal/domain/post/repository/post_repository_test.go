package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, mock
}

func TestToggleUpvote(t *testing.T) {
	t.Run("Add commits set flip and counter together", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		// 加锁顺序固定：先 user 行后 post 行
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvoted_posts"}).AddRow("u1", `[]`))
		mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvotes"}).AddRow("p1", 3))
		mock.ExpectExec(`UPDATE "users" SET (.+)"upvoted_posts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "posts" SET (.+)"upvotes"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		added, upvotes, err := repo.ToggleUpvote("u1", "p1")

		assert.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, 4, upvotes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second toggle removes and decrements", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvoted_posts"}).AddRow("u1", `["p1"]`))
		mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvotes"}).AddRow("p1", 3))
		mock.ExpectExec(`UPDATE "users" SET (.+)"upvoted_posts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "posts" SET (.+)"upvotes"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		added, upvotes, err := repo.ToggleUpvote("u1", "p1")

		assert.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 2, upvotes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing post rolls back with no writes", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvoted_posts"}).AddRow("u1", `[]`))
		mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvotes"}))
		mock.ExpectRollback()

		_, _, err := repo.ToggleUpvote("u1", "ghost")

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing user rolls back before touching the post", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upvoted_posts"}))
		mock.ExpectRollback()

		_, _, err := repo.ToggleUpvote("ghost", "p1")

		assert.ErrorIs(t, err, ErrUpvoterNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
