package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"movieapp/apperror"
	"movieapp/models"
)

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.requestLogger(r).Error().Err(err).Str("path", r.URL.Path).Msg("Failed to encode JSON response")
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	s.requestLogger(r).Debug().Msg("Health check requested")
	s.respondJSON(w, r, http.StatusOK, healthResponse{
		Status:    "Healthy",
		Timestamp: s.now().UTC(),
		Version:   s.opts.Version,
	})
	return nil
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) error {
	query := searchMoviesQuery{
		SearchTerm: r.URL.Query().Get("search_term"),
		Language:   r.URL.Query().Get("language"),
	}
	if err := s.validateStruct(r, &query); err != nil {
		return err
	}

	result, err := s.movies.SearchMovies(r.Context(), models.SearchQuery{
		SearchTerm: query.SearchTerm,
		Language:   query.Language,
	})
	if err != nil {
		return err
	}

	resp := toSearchMoviesResponse(result)
	s.requestLogger(r).Info().Int("count", len(resp.Results)).Msg("Search successful")
	s.respondJSON(w, r, http.StatusOK, resp)
	return nil
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = "en"
	}

	movie, err := s.movies.GetMovie(r.Context(), id, language)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Kind == apperror.MovieNotFound {
			s.requestLogger(r).Warn().Int("tmdb_id", id).Msg("Movie not found")
			s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: appErr.Message})
			return nil
		}
		return err
	}

	s.respondJSON(w, r, http.StatusOK, toMovieResponse(*movie))
	return nil
}

func (s *Server) listPlaylists(w http.ResponseWriter, r *http.Request) error {
	playlists, err := s.playlists.GetAll(r.Context())
	if err != nil {
		return err
	}

	resp := make([]playlistResponse, 0, len(playlists))
	for _, playlist := range playlists {
		resp = append(resp, toPlaylistResponse(playlist))
	}
	s.respondJSON(w, r, http.StatusOK, resp)
	return nil
}

func (s *Server) getPlaylist(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}

	playlist, err := s.playlists.GetByID(r.Context(), id)
	if errors.Is(err, apperror.ErrPlaylistNotFound) {
		s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: "Playlist not found"})
		return nil
	}
	if err != nil {
		return err
	}

	s.respondJSON(w, r, http.StatusOK, toPlaylistResponse(*playlist))
	return nil
}

func (s *Server) createPlaylist(w http.ResponseWriter, r *http.Request) error {
	var req playlistNameRequest
	if err := s.decodeJSON(r, &req); err != nil {
		return err
	}

	playlist, err := s.playlists.Create(r.Context(), req.Name)
	if err != nil {
		return err
	}

	location, err := s.router.Get(routePlaylist).URL("id", strconv.Itoa(playlist.ID))
	if err != nil {
		return err
	}
	w.Header().Set("Location", location.String())
	s.respondJSON(w, r, http.StatusCreated, toPlaylistResponse(*playlist))
	return nil
}

func (s *Server) updatePlaylist(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}

	var req playlistNameRequest
	if err := s.decodeJSON(r, &req); err != nil {
		return err
	}

	s.requestLogger(r).Info().Int("playlist_id", id).Str("name", req.Name).Msg("Updating playlist")
	playlist, err := s.playlists.Update(r.Context(), id, req.Name)
	if errors.Is(err, apperror.ErrPlaylistNotFound) {
		s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: "Playlist not found"})
		return nil
	}
	if err != nil {
		return err
	}

	s.respondJSON(w, r, http.StatusOK, toPlaylistResponse(*playlist))
	return nil
}

func (s *Server) deletePlaylist(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}

	deleted, err := s.playlists.Delete(r.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: "Playlist not found"})
		return nil
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) addMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}

	var req addMovieRequest
	if err := s.decodeJSON(r, &req); err != nil {
		return err
	}

	_, err = s.playlists.AddMovie(r.Context(), id, req.TmdbID, req.Title)
	if errors.Is(err, apperror.ErrPlaylistNotFound) {
		s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: "Playlist not found"})
		return nil
	}
	if err != nil {
		return err
	}

	s.requestLogger(r).Info().Str("title", req.Title).Int("playlist_id", id).Msg("Added movie to playlist")
	s.respondJSON(w, r, http.StatusOK, messageResponse{Message: "Movie added successfully"})
	return nil
}

func (s *Server) removeMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id")
	if err != nil {
		return err
	}
	tmdbID, err := pathInt(r, "tmdbId")
	if err != nil {
		return err
	}

	removed, err := s.playlists.RemoveMovie(r.Context(), id, tmdbID)
	if err != nil {
		return err
	}
	if !removed {
		s.requestLogger(r).Warn().Int("tmdb_id", tmdbID).Int("playlist_id", id).Msg("Movie not found in playlist")
		s.respondJSON(w, r, http.StatusNotFound, messageResponse{Message: "Movie not found in playlist"})
		return nil
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
