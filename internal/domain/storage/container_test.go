package storage

import (
	"context"
	"errors"
	"testing"

	"sitefeed/internal/domain/updates"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFeedTx_Commits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO update_documents`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectExec(`INSERT INTO update_entries`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	c := NewContainer(mock)
	err = c.WithFeedTx(context.Background(), func(tx *FeedTx) error {
		_, err := tx.Updates.Append(context.Background(), &updates.Post{
			SectionType: updates.SectionProject,
			SectionID:   "sec-1",
			Name:        "Tower A",
			Updates:     []updates.NewEntry{{Images: []string{"a.jpg"}, Title: "Slab"}},
		})
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithFeedTx_RollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewContainer(mock).WithFeedTx(context.Background(), func(*FeedTx) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithFeedTx_NoPool(t *testing.T) {
	err := (&Container{}).WithFeedTx(context.Background(), func(*FeedTx) error { return nil })
	require.Error(t, err)
}
