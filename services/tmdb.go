// Package services provides external service integrations.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"movieapp/apperror"
	"movieapp/config"
	"movieapp/models"
)

// ErrDecode is returned when a TMDB response body cannot be turned into a movie
var ErrDecode = errors.New("failed to decode TMDB response")

// FetchError is returned when a TMDB search answers with a non-success status
type FetchError struct {
	StatusCode int
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d", e.StatusCode)
}

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// TMDBMovie represents a movie response from TMDB API
type TMDBMovie struct {
	ID               int     `json:"id"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date"`
	Title            string  `json:"title"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       *string `json:"poster_path"`
}

// TMDBSearchResponse represents a page of search results from TMDB API
type TMDBSearchResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// NewTMDBService creates a new TMDB service instance
func NewTMDBService(cfg config.TMDBConfig, logger zerolog.Logger) *TMDBService {
	return &TMDBService{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// SearchMovies searches TMDB for movies by title
func (t *TMDBService) SearchMovies(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	t.logger.Info().
		Str("search_term", query.SearchTerm).
		Str("language", query.Language).
		Msg("Starting TMDB search")

	params := url.Values{}
	params.Set("query", query.SearchTerm)
	params.Set("language", query.Language)

	status, body, err := t.get(ctx, "/search/movie", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search TMDB: %w", err)
	}
	if !isSuccess(status) {
		t.logger.Error().Int("status", status).Msg("TMDB API returned error")
		return nil, &FetchError{StatusCode: status}
	}

	var resp *TMDBSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty search response", ErrDecode)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: search response has no results field", ErrDecode)
	}

	result := &models.SearchResult{
		Page:         resp.Page,
		Results:      make([]models.Movie, 0, len(resp.Results)),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
	for _, tmdbMovie := range resp.Results {
		movie, err := convertToMovie(tmdbMovie)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, *movie)
	}

	t.logger.Info().Int("count", len(result.Results)).Msg("Parsed TMDB search response")
	return result, nil
}

// GetMovie fetches movie details from TMDB by ID
func (t *TMDBService) GetMovie(ctx context.Context, tmdbID int, language string) (*models.Movie, error) {
	if language == "" {
		language = "en"
	}

	params := url.Values{}
	params.Set("language", language)

	status, body, err := t.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie from TMDB: %w", err)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, apperror.NewMovieNotFound("Movie %d not found", tmdbID)
	case !isSuccess(status):
		t.logger.Error().Int("status", status).Int("tmdb_id", tmdbID).Msg("TMDB API returned error")
		return nil, apperror.NewUpstream(status, fmt.Sprintf("TMDB API returned status %d for movie %d", status, tmdbID))
	}

	var tmdbMovie *TMDBMovie
	if err := json.Unmarshal(body, &tmdbMovie); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if tmdbMovie == nil {
		return nil, fmt.Errorf("%w: empty movie response", ErrDecode)
	}

	return convertToMovie(*tmdbMovie)
}

// get performs an authenticated GET and returns the status and full body
func (t *TMDBService) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	params.Set("api_key", t.apiKey)
	reqURL := t.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error().Err(err).Str("path", path).Dur("elapsed", time.Since(start)).Msg("TMDB request failed")
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.logger.Info().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("TMDB response received")

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func convertToMovie(tmdbMovie TMDBMovie) (*models.Movie, error) {
	movie := &models.Movie{
		ID:               tmdbMovie.ID,
		OriginalLanguage: tmdbMovie.OriginalLanguage,
		OriginalTitle:    tmdbMovie.OriginalTitle,
		Overview:         tmdbMovie.Overview,
		Popularity:       tmdbMovie.Popularity,
		Title:            tmdbMovie.Title,
		VoteAverage:      tmdbMovie.VoteAverage,
		VoteCount:        tmdbMovie.VoteCount,
		PosterPath:       tmdbMovie.PosterPath,
	}

	// An empty release date means the movie has none yet
	if tmdbMovie.ReleaseDate != "" {
		releaseDate, err := time.Parse(time.DateOnly, tmdbMovie.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid release_date %q for movie %d", ErrDecode, tmdbMovie.ReleaseDate, tmdbMovie.ID)
		}
		movie.ReleaseDate = &releaseDate
	}

	return movie, nil
}
