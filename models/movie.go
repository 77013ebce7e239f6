// Package models defines the data structures used throughout the application.
package models

import "time"

// Movie is a movie as described by the external movie database. It lives for
// a single request and is never persisted.
type Movie struct {
	ID               int
	OriginalLanguage string
	OriginalTitle    string
	Overview         string
	Popularity       float64
	ReleaseDate      *time.Time // nil when the upstream date is empty
	Title            string
	VoteAverage      float64
	VoteCount        int
	PosterPath       *string
}

// SearchResult is one page of movie search results
type SearchResult struct {
	Page         int
	Results      []Movie
	TotalPages   int
	TotalResults int
}

// SearchQuery holds the parameters of a title search
type SearchQuery struct {
	SearchTerm string
	Language   string
}
