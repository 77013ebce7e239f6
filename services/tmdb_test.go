package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieapp/apperror"
	"movieapp/config"
	"movieapp/models"
)

const searchBody = `{
	"page": 1,
	"results": [
		{
			"id": 27205,
			"original_language": "en",
			"original_title": "Inception",
			"overview": "Cobb steals secrets.",
			"popularity": 83.9,
			"release_date": "2010-07-15",
			"title": "Inception",
			"vote_average": 8.4,
			"vote_count": 36000,
			"poster_path": "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"
		},
		{
			"id": 99999,
			"original_language": "fr",
			"original_title": "Sans date",
			"overview": "",
			"popularity": 0.6,
			"release_date": "",
			"title": "Sans date",
			"vote_average": 0,
			"vote_count": 0,
			"poster_path": null
		}
	],
	"total_pages": 3,
	"total_results": 42
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *TMDBService {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTMDBService(config.TMDBConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestSearchMovies_Success(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "star wars & co", r.URL.Query().Get("query"))
		assert.Equal(t, "fr", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	result, err := svc.SearchMovies(context.Background(), models.SearchQuery{SearchTerm: "star wars & co", Language: "fr"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 42, result.TotalResults)
	require.Len(t, result.Results, 2)

	inception := result.Results[0]
	assert.Equal(t, 27205, inception.ID)
	assert.Equal(t, "en", inception.OriginalLanguage)
	assert.Equal(t, "Inception", inception.Title)
	assert.InDelta(t, 8.4, inception.VoteAverage, 0.0001)
	assert.Equal(t, 36000, inception.VoteCount)
	require.NotNil(t, inception.ReleaseDate)
	assert.Equal(t, time.Date(2010, 7, 15, 0, 0, 0, 0, time.UTC), *inception.ReleaseDate)
	require.NotNil(t, inception.PosterPath)
	assert.Equal(t, "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg", *inception.PosterPath)

	undated := result.Results[1]
	assert.Nil(t, undated.ReleaseDate, "empty release_date maps to no date")
	assert.Nil(t, undated.PosterPath)
	assert.Empty(t, undated.Overview)
}

func TestSearchMovies_NonSuccessStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.SearchMovies(context.Background(), models.SearchQuery{SearchTerm: "x", Language: "en"})
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Equal(t, apperror.Unclassified, apperror.KindOf(err))
}

func TestSearchMovies_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"page": 1, "results": [`},
		{name: "null body", body: `null`},
		{name: "missing results", body: `{"page": 1, "total_pages": 0, "total_results": 0}`},
		{name: "bad release date", body: `{"page":1,"results":[{"id":1,"release_date":"15/07/2010"}],"total_pages":1,"total_results":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.SearchMovies(context.Background(), models.SearchQuery{SearchTerm: "x", Language: "en"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestGetMovie_Success(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(`{"id":27205,"original_language":"en","original_title":"Inception","overview":"o","popularity":1.5,"release_date":"2010-07-15","title":"Inception","vote_average":8.4,"vote_count":10,"poster_path":null}`))
	})

	movie, err := svc.GetMovie(context.Background(), 27205, "")
	require.NoError(t, err)
	assert.Equal(t, 27205, movie.ID)
	assert.Equal(t, "Inception", movie.Title)
	assert.Nil(t, movie.PosterPath)
}

func TestGetMovie_NotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := svc.GetMovie(context.Background(), 1, "en")
	require.Error(t, err)
	assert.Equal(t, apperror.MovieNotFound, apperror.KindOf(err))
	assert.Equal(t, "Movie 1 not found", err.Error())
}

func TestGetMovie_UpstreamError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.GetMovie(context.Background(), 1, "en")
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.Upstream, appErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, appErr.StatusCode)
}

func TestGetMovie_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	svc := NewTMDBService(config.TMDBConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	}, zerolog.Nop())

	start := time.Now()
	_, err := svc.GetMovie(context.Background(), 1, "en")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

type stubFetcher struct {
	searchErr error
	movie     *models.Movie
}

func (s *stubFetcher) SearchMovies(_ context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &models.SearchResult{Page: 1, TotalPages: 1, TotalResults: 1, Results: []models.Movie{{ID: 1, Title: query.SearchTerm}}}, nil
}

func (s *stubFetcher) GetMovie(_ context.Context, tmdbID int, _ string) (*models.Movie, error) {
	if s.movie == nil {
		return nil, apperror.NewMovieNotFound("Movie %d not found", tmdbID)
	}
	return s.movie, nil
}

func TestMovieService_Delegates(t *testing.T) {
	svc := NewMovieService(&stubFetcher{movie: &models.Movie{ID: 5, Title: "Five"}}, zerolog.Nop())

	result, err := svc.SearchMovies(context.Background(), models.SearchQuery{SearchTerm: "Alien", Language: "en"})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Alien", result.Results[0].Title)

	movie, err := svc.GetMovie(context.Background(), 5, "en")
	require.NoError(t, err)
	assert.Equal(t, "Five", movie.Title)
}

func TestMovieService_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewMovieService(&stubFetcher{searchErr: boom}, zerolog.Nop())

	_, err := svc.SearchMovies(context.Background(), models.SearchQuery{SearchTerm: "x", Language: "en"})
	assert.ErrorIs(t, err, boom)

	_, err = svc.GetMovie(context.Background(), 9, "en")
	assert.Equal(t, apperror.MovieNotFound, apperror.KindOf(err))
}
