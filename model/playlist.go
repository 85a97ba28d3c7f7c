package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// UserPlaylist is a named, ordered list of file paths owned by one user.
// The song list is stored as a JSON-encoded array in PlaylistData; a row is
// unique per (UserID, PlaylistName).
type UserPlaylist struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"userId" gorm:"column:user_id;uniqueIndex:uq_user_playlist_name"`
	PlaylistName string    `json:"playlistName" gorm:"column:playlist_name;size:255;uniqueIndex:uq_user_playlist_name"`
	PlaylistData string    `json:"-" gorm:"column:playlist_data;type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName maps the model to the user_playlists table.
func (UserPlaylist) TableName() string {
	return "user_playlists"
}

// Songs decodes the stored song list. An empty data column decodes to an
// empty slice, never nil.
func (p *UserPlaylist) Songs() ([]string, error) {
	if p.PlaylistData == "" {
		return []string{}, nil
	}
	var songs []string
	if err := json.Unmarshal([]byte(p.PlaylistData), &songs); err != nil {
		return nil, fmt.Errorf("failed to decode playlist %q: %w", p.PlaylistName, err)
	}
	if songs == nil {
		songs = []string{}
	}
	return songs, nil
}

// SetSongs encodes the song list into the data column, preserving order.
func (p *UserPlaylist) SetSongs(songs []string) error {
	if songs == nil {
		songs = []string{}
	}
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to encode playlist %q: %w", p.PlaylistName, err)
	}
	p.PlaylistData = string(data)
	return nil
}
