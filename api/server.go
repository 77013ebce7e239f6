// Package api exposes the movie search and playlist HTTP endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"movieapp/models"
)

// MovieSearcher is the movie lookup surface the handlers depend on
type MovieSearcher interface {
	SearchMovies(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
	GetMovie(ctx context.Context, tmdbID int, language string) (*models.Movie, error)
}

// PlaylistStore is the playlist persistence surface the handlers depend on
type PlaylistStore interface {
	GetAll(ctx context.Context) ([]models.Playlist, error)
	GetByID(ctx context.Context, id int) (*models.Playlist, error)
	Create(ctx context.Context, name string) (*models.Playlist, error)
	AddMovie(ctx context.Context, playlistID, tmdbID int, title string) (*models.PlaylistMovie, error)
	RemoveMovie(ctx context.Context, playlistID, tmdbID int) (bool, error)
	Update(ctx context.Context, id int, newName string) (*models.Playlist, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// Options carries the configuration the HTTP layer needs
type Options struct {
	Version        string
	AllowedOrigins []string
}

// Server holds the handler dependencies and the routing table
type Server struct {
	movies    MovieSearcher
	playlists PlaylistStore
	validate  *validator.Validate
	logger    zerolog.Logger
	opts      Options
	router    *mux.Router
	handler   http.Handler
	now       func() time.Time
}

// NewServer wires handlers and middleware around the given dependencies
func NewServer(movies MovieSearcher, playlists PlaylistStore, opts Options, logger zerolog.Logger) *Server {
	s := &Server{
		movies:    movies,
		playlists: playlists,
		validate:  newValidator(),
		logger:    logger.With().Str("component", "api").Logger(),
		opts:      opts,
		now:       time.Now,
	}

	s.router = s.routes()
	s.handler = s.requestID(s.accessLog(s.recoverPanics(s.cors(s.router))))
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handle(s.health)).Methods(http.MethodGet)

	movies := api.PathPrefix("/movies").Subrouter()
	movies.HandleFunc("", s.handle(s.searchMovies)).Methods(http.MethodGet)
	movies.HandleFunc("/{id}", s.handle(s.getMovie)).Methods(http.MethodGet)

	playlists := api.PathPrefix("/playlists").Subrouter()
	playlists.HandleFunc("", s.handle(s.listPlaylists)).Methods(http.MethodGet)
	playlists.HandleFunc("", s.handle(s.createPlaylist)).Methods(http.MethodPost)
	playlists.HandleFunc("/{id}", s.handle(s.getPlaylist)).Methods(http.MethodGet).Name(routePlaylist)
	playlists.HandleFunc("/{id}", s.handle(s.updatePlaylist)).Methods(http.MethodPut)
	playlists.HandleFunc("/{id}", s.handle(s.deletePlaylist)).Methods(http.MethodDelete)
	playlists.HandleFunc("/{id}/movies", s.handle(s.addMovie)).Methods(http.MethodPost)
	playlists.HandleFunc("/{id}/movies/{tmdbId}", s.handle(s.removeMovie)).Methods(http.MethodDelete)

	return router
}

const routePlaylist = "playlist"
