package handler

// APIV1Prefix is the base path of the versioned operational endpoints.
const APIV1Prefix = "/api/v1"

// Base paths used to build next_page / prev_page links.
const (
	booksPath     = "/books"
	questionsPath = "/questions"
	searchPath    = "/questions/search"
)
