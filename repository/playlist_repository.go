// Package repository provides data access layer for the movie application.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"movieapp/apperror"
	"movieapp/database"
	"movieapp/models"
)

// PlaylistRepository handles database operations for playlists and their movies
type PlaylistRepository struct {
	db     *database.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *database.DB, logger zerolog.Logger) *PlaylistRepository {
	return &PlaylistRepository{
		db:     db,
		logger: logger.With().Str("component", "playlist_repository").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for created_at/updated_at/added_at
func (r *PlaylistRepository) WithClock(now func() time.Time) *PlaylistRepository {
	r.now = now
	return r
}

func (r *PlaylistRepository) timestamp() time.Time {
	return r.now().UTC()
}

// GetAll retrieves all playlists with their movies, most recently created first
func (r *PlaylistRepository) GetAll(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	query := `SELECT id, name, created_at, updated_at FROM playlists ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &playlists, query); err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	var movies []models.PlaylistMovie
	query = `SELECT id, tmdb_id, title, added_at, playlist_id FROM playlist_movies ORDER BY added_at, id`
	if err := r.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, fmt.Errorf("failed to query playlist movies: %w", err)
	}

	byPlaylist := make(map[int][]models.PlaylistMovie, len(playlists))
	for _, movie := range movies {
		byPlaylist[movie.PlaylistID] = append(byPlaylist[movie.PlaylistID], movie)
	}
	for i := range playlists {
		playlists[i].Movies = byPlaylist[playlists[i].ID]
	}

	return playlists, nil
}

// GetByID retrieves a playlist and its movies. A missing playlist yields an
// apperror.PlaylistNotFound error.
func (r *PlaylistRepository) GetByID(ctx context.Context, id int) (*models.Playlist, error) {
	return r.load(ctx, r.db, id)
}

func (r *PlaylistRepository) load(ctx context.Context, q sqlx.QueryerContext, id int) (*models.Playlist, error) {
	var playlist models.Playlist
	query := r.db.Rebind(`SELECT id, name, created_at, updated_at FROM playlists WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &playlist, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewPlaylistNotFound("Playlist %d not found", id)
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	query = r.db.Rebind(`SELECT id, tmdb_id, title, added_at, playlist_id FROM playlist_movies WHERE playlist_id = ? ORDER BY added_at, id`)
	if err := sqlx.SelectContext(ctx, q, &playlist.Movies, query, id); err != nil {
		return nil, fmt.Errorf("failed to get playlist movies: %w", err)
	}

	return &playlist, nil
}

// Create inserts a new, empty playlist
func (r *PlaylistRepository) Create(ctx context.Context, name string) (*models.Playlist, error) {
	now := r.timestamp()
	playlist := &models.Playlist{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.logger.Info().Str("name", name).Msg("Creating new playlist")

	query := r.db.Rebind(`INSERT INTO playlists (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`)
	if err := r.db.GetContext(ctx, &playlist.ID, query, playlist.Name, playlist.CreatedAt, playlist.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

// AddMovie appends a movie to a playlist and refreshes the playlist's
// updated_at in the same transaction.
func (r *PlaylistRepository) AddMovie(ctx context.Context, playlistID, tmdbID int, title string) (*models.PlaylistMovie, error) {
	movie := &models.PlaylistMovie{
		TMDBID:     tmdbID,
		Title:      title,
		AddedAt:    r.timestamp(),
		PlaylistID: playlistID,
	}

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.requirePlaylist(ctx, tx, playlistID); err != nil {
			return err
		}

		query := tx.Rebind(`INSERT INTO playlist_movies (tmdb_id, title, added_at, playlist_id) VALUES (?, ?, ?, ?) RETURNING id`)
		if err := tx.GetContext(ctx, &movie.ID, query, movie.TMDBID, movie.Title, movie.AddedAt, movie.PlaylistID); err != nil {
			return fmt.Errorf("failed to add movie to playlist: %w", err)
		}

		return r.touch(ctx, tx, playlistID, movie.AddedAt)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().Int("playlist_id", playlistID).Int("tmdb_id", tmdbID).Msg("Added movie to playlist")
	return movie, nil
}

// RemoveMovie removes one membership row for tmdbID from the playlist. When a
// movie was added more than once the earliest entry goes first. It reports
// false, without error, when no such row exists.
func (r *PlaylistRepository) RemoveMovie(ctx context.Context, playlistID, tmdbID int) (bool, error) {
	removed := false

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var movieID int
		query := tx.Rebind(`SELECT id FROM playlist_movies WHERE playlist_id = ? AND tmdb_id = ? ORDER BY id LIMIT 1`)
		if err := tx.GetContext(ctx, &movieID, query, playlistID, tmdbID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to find playlist movie: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM playlist_movies WHERE id = ?`), movieID); err != nil {
			return fmt.Errorf("failed to remove movie from playlist: %w", err)
		}
		removed = true

		return r.touch(ctx, tx, playlistID, r.timestamp())
	})
	if err != nil {
		return false, err
	}

	if removed {
		r.logger.Info().Int("playlist_id", playlistID).Int("tmdb_id", tmdbID).Msg("Removed movie from playlist")
	}
	return removed, nil
}

// Update renames a playlist and refreshes its updated_at
func (r *PlaylistRepository) Update(ctx context.Context, id int, newName string) (*models.Playlist, error) {
	var playlist *models.Playlist

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`UPDATE playlists SET name = ?, updated_at = ? WHERE id = ?`)
		result, err := tx.ExecContext(ctx, query, newName, r.timestamp(), id)
		if err != nil {
			return fmt.Errorf("failed to update playlist: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperror.NewPlaylistNotFound("Playlist %d not found", id)
		}

		playlist, err = r.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().Int("playlist_id", id).Str("name", newName).Msg("Updated playlist name")
	return playlist, nil
}

// Delete removes a playlist; its movies go with it through the foreign key
// cascade. It reports false when the playlist does not exist.
func (r *PlaylistRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM playlists WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		r.logger.Info().Int("playlist_id", id).Msg("Deleted playlist")
	}
	return rows > 0, nil
}

func (r *PlaylistRepository) requirePlaylist(ctx context.Context, tx *sqlx.Tx, id int) error {
	var found int
	err := tx.GetContext(ctx, &found, tx.Rebind(`SELECT id FROM playlists WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewPlaylistNotFound("Playlist %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) touch(ctx context.Context, tx *sqlx.Tx, id int, at time.Time) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE playlists SET updated_at = ? WHERE id = ?`), at, id); err != nil {
		return fmt.Errorf("failed to refresh playlist timestamp: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing only when fn succeeds
func (r *PlaylistRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.Warn().Err(err).Msg("Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
