package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectSlugLookup scripts the post-toggle slug read that feeds cache
// invalidation.
func expectSlugLookup(mock sqlmock.Sqlmock, slug string) {
	mock.ExpectQuery(`SELECT "slug" FROM "configs" WHERE id = \$1 LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow(slug))
}

func expectToolVoteAbsent(mock sqlmock.Sqlmock, count int64) {
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE user_id = \$1 AND config_id = \$2 AND tool_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
	expectSlugLookup(mock, "some-config-a1b2c3")
}

func expectToolVotePresent(mock sqlmock.Sqlmock, existingID string, count int64) {
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE user_id = \$1 AND config_id = \$2 AND tool_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existingID))
	mock.ExpectExec(`DELETE FROM "votes" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
	expectSlugLookup(mock, "some-config-a1b2c3")
}

func TestToggleToolVoteInsertsWhenAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	expectToolVoteAbsent(mock, 1)

	voted, count, err := svc.ToggleToolVote(uuid.NewString(), uuid.NewString(), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleToolVoteDeletesWhenPresent(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	expectToolVotePresent(mock, uuid.NewString(), 0)

	voted, count, err := svc.ToggleToolVote(uuid.NewString(), uuid.NewString(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two sequential toggles from the same voter land back on the original
// state and count.
func TestToggleToolVoteIsIdempotentOverTwoCalls(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	voteID := uuid.NewString()
	expectToolVoteAbsent(mock, 1)
	expectToolVotePresent(mock, voteID, 0)

	userID, configID, toolID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	voted, count, err := svc.ToggleToolVote(userID, configID, toolID)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, int64(1), count)

	voted, count, err = svc.ToggleToolVote(userID, configID, toolID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleToolVoteLookupFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnError(errors.New("connection reset"))

	_, _, err := svc.ToggleToolVote(uuid.NewString(), uuid.NewString(), uuid.NewString())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleHelpfulVoteInsertsWhenAbsent(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "anonymous_votes" WHERE config_id = \$1 AND ip_hash = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "anonymous_votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "anonymous_votes" WHERE config_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	expectSlugLookup(mock, "some-config-a1b2c3")

	voted, count, err := svc.ToggleHelpfulVote(uuid.NewString(), "aabbcc")
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleHelpfulVoteDeletesWhenPresent(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewVoteService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "anonymous_votes" WHERE config_id = \$1 AND ip_hash = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectExec(`DELETE FROM "anonymous_votes" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "anonymous_votes" WHERE config_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	expectSlugLookup(mock, "some-config-a1b2c3")

	voted, count, err := svc.ToggleHelpfulVote(uuid.NewString(), "aabbcc")
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A toggle must drop the cached detail so the next read reports the
// count the toggle response just promised.
func TestToggleHelpfulVoteRefreshesCachedDetail(t *testing.T) {
	gdb, mock := newMockDB(t)
	configs := NewConfigService(gdb)
	votes := NewVoteService(gdb)

	configID, fileTypeID := uuid.NewString(), uuid.NewString()
	slug := "helpful-rules-" + uuid.NewString()[:6]

	expectDetailLoad(mock, configID, slug, fileTypeID, 0)

	mock.ExpectQuery(`SELECT \* FROM "anonymous_votes" WHERE config_id = \$1 AND ip_hash = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "anonymous_votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "anonymous_votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	expectSlugLookup(mock, slug)

	expectDetailLoad(mock, configID, slug, fileTypeID, 1)

	before, err := configs.GetBySlug(slug)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before.HelpfulCount)

	voted, count, err := votes.ToggleHelpfulVote(configID, "aabbcc")
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, int64(1), count)

	after, err := configs.GetBySlug(slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.HelpfulCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
