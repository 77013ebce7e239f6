package services

import (
	"context"

	"github.com/rs/zerolog"

	"movieapp/models"
)

// MovieFetcher is implemented by clients of an external movie database
type MovieFetcher interface {
	SearchMovies(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
	GetMovie(ctx context.Context, tmdbID int, language string) (*models.Movie, error)
}

// MovieService exposes movie lookups to the API layer
type MovieService struct {
	fetcher MovieFetcher
	logger  zerolog.Logger
}

// NewMovieService creates a new movie service
func NewMovieService(fetcher MovieFetcher, logger zerolog.Logger) *MovieService {
	return &MovieService{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "movie_service").Logger(),
	}
}

// SearchMovies searches movies by title
func (s *MovieService) SearchMovies(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	s.logger.Info().
		Str("search_term", query.SearchTerm).
		Str("language", query.Language).
		Msg("Starting movie search")

	result, err := s.fetcher.SearchMovies(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Movie search failed")
		return nil, err
	}

	s.logger.Info().
		Int("total_results", result.TotalResults).
		Int("page", result.Page).
		Int("total_pages", result.TotalPages).
		Msg("Movie search completed")
	return result, nil
}

// GetMovie returns a single movie's details
func (s *MovieService) GetMovie(ctx context.Context, tmdbID int, language string) (*models.Movie, error) {
	s.logger.Info().Int("tmdb_id", tmdbID).Str("language", language).Msg("Getting movie details")
	return s.fetcher.GetMovie(ctx, tmdbID, language)
}
