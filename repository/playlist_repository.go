package repository

import (
	"errors"
	"fmt"

	"mpdfm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository defines the interface for per-user playlist storage.
type PlaylistRepository interface {
	// ListNames returns the names of every playlist owned by the user.
	ListNames(userID int64) ([]string, error)
	// GetByName returns the playlist, or nil if the user has no playlist
	// with that name.
	GetByName(userID int64, name string) (*model.UserPlaylist, error)
	// Save stores the song list under the given name, replacing any
	// existing contents wholesale.
	Save(userID int64, name string, songs []string) (*model.UserPlaylist, error)
	// Delete removes the playlist. Returns ErrPlaylistNotFound when the
	// user has no playlist with that name.
	Delete(userID int64, name string) error
}

// gormPlaylistRepository implements PlaylistRepository on GORM/MySQL.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new gormPlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// ListNames returns all playlist names for the user, oldest first.
func (r *gormPlaylistRepository) ListNames(userID int64) ([]string, error) {
	names := make([]string, 0)
	err := r.db.Model(&model.UserPlaylist{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("playlist_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist names for user %d: %w", userID, err)
	}
	return names, nil
}

// GetByName retrieves one playlist row scoped to the user.
func (r *gormPlaylistRepository) GetByName(userID int64, name string) (*model.UserPlaylist, error) {
	var playlist model.UserPlaylist
	err := r.db.Where("user_id = ? AND playlist_name = ?", userID, name).
		First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Playlist not found
		}
		return nil, fmt.Errorf("failed to query playlist %q for user %d: %w", name, userID, err)
	}
	return &playlist, nil
}

// Save upserts the playlist in a single statement. The unique key on
// (user_id, playlist_name) turns a concurrent double-create into an update,
// so there is no read-then-branch race.
func (r *gormPlaylistRepository) Save(userID int64, name string, songs []string) (*model.UserPlaylist, error) {
	playlist := &model.UserPlaylist{
		UserID:       userID,
		PlaylistName: name,
	}
	if err := playlist.SetSongs(songs); err != nil {
		return nil, err
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "playlist_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"playlist_data", "updated_at"}),
	}).Create(playlist).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save playlist %q for user %d: %w", name, userID, err)
	}

	return playlist, nil
}

// Delete removes the playlist row permanently.
func (r *gormPlaylistRepository) Delete(userID int64, name string) error {
	res := r.db.Where("user_id = ? AND playlist_name = ?", userID, name).
		Delete(&model.UserPlaylist{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete playlist %q for user %d: %w", name, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}
