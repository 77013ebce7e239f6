package api

import (
	"time"

	"movieapp/models"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type searchMoviesQuery struct {
	SearchTerm string `json:"search_term" validate:"required,notblank"`
	Language   string `json:"language" validate:"required,oneof=en fr"`
}

type movieResponse struct {
	ID               int        `json:"id"`
	OriginalLanguage string     `json:"original_language"`
	OriginalTitle    string     `json:"original_title"`
	Overview         string     `json:"overview"`
	Popularity       float64    `json:"popularity"`
	Title            string     `json:"title"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	ReleaseDate      *time.Time `json:"release_date"`
	PosterPath       *string    `json:"poster_path"`
}

type searchMoviesResponse struct {
	Page         int             `json:"page"`
	Results      []movieResponse `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

// Field matching in encoding/json is case-insensitive, so {"Name": ...} binds too.
type playlistNameRequest struct {
	Name string `json:"name" validate:"required,notblank,min=1,max=100"`
}

// addMovieRequest leaves TmdbID unchecked; any integer, zero included, is stored.
type addMovieRequest struct {
	TmdbID int    `json:"tmdbId"`
	Title  string `json:"title" validate:"required,notblank,max=200"`
}

type playlistMovieResponse struct {
	ID      int       `json:"id"`
	TmdbID  int       `json:"tmdb_id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

type playlistResponse struct {
	ID         int                     `json:"id"`
	Name       string                  `json:"name"`
	CreatedAt  time.Time               `json:"created_at"`
	MovieCount int                     `json:"movie_count"`
	Movies     []playlistMovieResponse `json:"movies"`
}

func toMovieResponse(movie models.Movie) movieResponse {
	return movieResponse{
		ID:               movie.ID,
		OriginalLanguage: movie.OriginalLanguage,
		OriginalTitle:    movie.OriginalTitle,
		Overview:         movie.Overview,
		Popularity:       movie.Popularity,
		Title:            movie.Title,
		VoteAverage:      movie.VoteAverage,
		VoteCount:        movie.VoteCount,
		ReleaseDate:      movie.ReleaseDate,
		PosterPath:       movie.PosterPath,
	}
}

func toSearchMoviesResponse(result *models.SearchResult) searchMoviesResponse {
	resp := searchMoviesResponse{
		Page:         result.Page,
		Results:      make([]movieResponse, 0, len(result.Results)),
		TotalPages:   result.TotalPages,
		TotalResults: result.TotalResults,
	}
	for _, movie := range result.Results {
		resp.Results = append(resp.Results, toMovieResponse(movie))
	}
	return resp
}

func toPlaylistResponse(playlist models.Playlist) playlistResponse {
	resp := playlistResponse{
		ID:         playlist.ID,
		Name:       playlist.Name,
		CreatedAt:  playlist.CreatedAt,
		MovieCount: len(playlist.Movies),
		Movies:     make([]playlistMovieResponse, 0, len(playlist.Movies)),
	}
	for _, movie := range playlist.Movies {
		resp.Movies = append(resp.Movies, playlistMovieResponse{
			ID:      movie.ID,
			TmdbID:  movie.TMDBID,
			Title:   movie.Title,
			AddedAt: movie.AddedAt,
		})
	}
	return resp
}
