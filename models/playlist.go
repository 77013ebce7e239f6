package models

import "time"

// Playlist is a user-named collection of movie references
type Playlist struct {
	ID        int             `db:"id"`
	Name      string          `db:"name"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
	Movies    []PlaylistMovie `db:"-"`
}

// PlaylistMovie links a playlist to an externally identified movie
type PlaylistMovie struct {
	ID         int       `db:"id"`
	TMDBID     int       `db:"tmdb_id"`
	Title      string    `db:"title"`
	AddedAt    time.Time `db:"added_at"`
	PlaylistID int       `db:"playlist_id"`
}
