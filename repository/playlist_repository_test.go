package repository

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newGormMock opens a GORM handle over a sqlmock connection.
func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestListNames(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	rows := sqlmock.NewRows([]string{"playlist_name"}).
		AddRow("mix").
		AddRow("chill")
	mock.ExpectQuery("SELECT `playlist_name` FROM `user_playlists` WHERE user_id").
		WillReturnRows(rows)

	names, err := repo.ListNames(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"mix", "chill"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNamesEmpty(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	mock.ExpectQuery("SELECT `playlist_name` FROM `user_playlists` WHERE user_id").
		WillReturnRows(sqlmock.NewRows([]string{"playlist_name"}))

	names, err := repo.ListNames(1)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestGetByName(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	data, _ := json.Marshal([]string{"rock/a.mp3", "rock/b.mp3"})
	rows := sqlmock.NewRows([]string{"id", "user_id", "playlist_name", "playlist_data"}).
		AddRow(5, 1, "mix", string(data))
	mock.ExpectQuery("SELECT (.+) FROM `user_playlists` WHERE user_id").
		WillReturnRows(rows)

	playlist, err := repo.GetByName(1, "mix")
	require.NoError(t, err)
	require.NotNil(t, playlist)

	songs, err := playlist.Songs()
	require.NoError(t, err)
	assert.Equal(t, []string{"rock/a.mp3", "rock/b.mp3"}, songs)
}

func TestGetByNameMissing(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `user_playlists` WHERE user_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "playlist_name", "playlist_data"}))

	playlist, err := repo.GetByName(1, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, playlist)
}

func TestSaveUpserts(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	// The save must be a single atomic statement: INSERT with an
	// ON DUPLICATE KEY UPDATE clause, not a read-then-branch.
	mock.ExpectExec("INSERT INTO `user_playlists` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(5, 1))

	playlist, err := repo.Save(1, "mix", []string{"a.mp3", "b.mp3"})
	require.NoError(t, err)
	require.NotNil(t, playlist)
	assert.Equal(t, int64(1), playlist.UserID)
	assert.Equal(t, "mix", playlist.PlaylistName)

	songs, err := playlist.Songs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, songs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNilSongs(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	mock.ExpectExec("INSERT INTO `user_playlists` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(6, 1))

	playlist, err := repo.Save(1, "empty", nil)
	require.NoError(t, err)

	songs, err := playlist.Songs()
	require.NoError(t, err)
	assert.Empty(t, songs)
	assert.NotNil(t, songs)
}

func TestDelete(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	mock.ExpectExec("DELETE FROM `user_playlists`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(1, "mix"))
}

func TestDeleteMissing(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewGormPlaylistRepository(gdb)

	mock.ExpectExec("DELETE FROM `user_playlists`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(1, "nonexistent")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}
