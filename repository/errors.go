package repository

import "errors"

var (
	// ErrDuplicateUser is returned when a username is already taken.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrPlaylistNotFound is returned when a delete targets a playlist that
	// does not exist for that user.
	ErrPlaylistNotFound = errors.New("playlist not found")
)
