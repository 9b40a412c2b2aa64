package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/shelf-trivia-service/internal/handler"
	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
)

func createBook(t *testing.T, r *gin.Engine, title, author string) int64 {
	t.Helper()
	w := do(t, r, http.MethodPost, "/books", map[string]any{"title": title, "author": author, "rating": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decode(t, w)["created"].(float64))
}

func TestBooks_ShelfPagination(t *testing.T) {
	r := newApp(t)
	for i := 0; i < 9; i++ {
		createBook(t, r, fmt.Sprintf("Book %d", i), fmt.Sprintf("Author %d", i))
	}

	first := decode(t, do(t, r, http.MethodGet, "/books", nil))
	assert.Equal(t, true, first["success"])
	assert.Len(t, first["books"], 8)
	assert.Equal(t, float64(9), first["total_books"])
	assert.Equal(t, "/books?page=2", first["next_page"])
	assert.NotContains(t, first, "prev_page")

	second := decode(t, do(t, r, http.MethodGet, "/books?page=2", nil))
	assert.Len(t, second["books"], 1)
	assert.NotContains(t, second, "next_page")
	assert.Equal(t, "/books?page=1", second["prev_page"])

	w := do(t, r, http.MethodGet, "/books?page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	beyond := decode(t, w)
	assert.Equal(t, true, beyond["success"])
	assert.Equal(t, []any{}, beyond["books"])
	assert.Equal(t, float64(9), beyond["total_books"])

	garbage := decode(t, do(t, r, http.MethodGet, "/books?page=abc", nil))
	assert.Len(t, garbage["books"], 8)
}

func TestBooks_HugePageIsEmptyNotError(t *testing.T) {
	r := newApp(t)
	for i := 0; i < 9; i++ {
		createBook(t, r, fmt.Sprintf("Book %d", i), fmt.Sprintf("Author %d", i))
	}

	for _, page := range []string{"2305843009213693952", "1152921504606846977", "9223372036854775807"} {
		w := do(t, r, http.MethodGet, "/books?page="+page, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, []any{}, body["books"])
		assert.Equal(t, float64(9), body["total_books"])
		assert.NotContains(t, body, "next_page")
	}
}

func TestBooks_CreateThenList(t *testing.T) {
	r := newApp(t)
	id := createBook(t, r, "Emma", "Austen")
	assert.NotZero(t, id)

	body := decode(t, do(t, r, http.MethodGet, "/books", nil))
	books := body["books"].([]any)
	require.Len(t, books, 1)
	assert.Equal(t, float64(id), books[0].(map[string]any)["id"])
}

func TestBooks_CreateWithoutRating(t *testing.T) {
	r := newApp(t)
	w := do(t, r, http.MethodPost, "/books", map[string]any{"title": "Emma", "author": "Austen"})
	require.Equal(t, http.StatusCreated, w.Code)
	books := decode(t, w)["books"].([]any)
	require.Len(t, books, 1)
	assert.Nil(t, books[0].(map[string]any)["rating"])
}

func TestBooks_CreateInvalid(t *testing.T) {
	r := newApp(t)

	w := do(t, r, http.MethodPost, "/books", map[string]any{"title": "", "author": "Austen"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_input", body["error"])
	assert.NotEmpty(t, body["field_errors"])

	w = do(t, r, http.MethodPost, "/books", `{"title": "Emma", "rating": "five"`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBooks_UpdateRating(t *testing.T) {
	r := newApp(t)
	id := createBook(t, r, "Emma", "Austen")

	w := do(t, r, http.MethodPatch, fmt.Sprintf("/books/%d", id), map[string]any{"rating": 5, "title": "ignored"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(id), body["updated"])
	book := body["book"].(map[string]any)
	assert.Equal(t, float64(5), book["rating"])
	assert.Equal(t, "Emma", book["title"])

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/books/%d", id), map[string]any{"title": "new", "id": 9})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, float64(id), body["updated"])
	book = body["book"].(map[string]any)
	assert.Equal(t, float64(id), book["id"])
	assert.Equal(t, "Emma", book["title"])
	assert.Equal(t, float64(5), book["rating"])
	assert.Len(t, body["books"], 1)

	w = do(t, r, http.MethodPatch, fmt.Sprintf("/books/%d", id), map[string]any{"rating": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPatch, "/books/999", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPatch, "/books/abc", map[string]any{"rating": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPatch, "/books/999", map[string]any{"rating": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_Delete(t *testing.T) {
	r := newApp(t)
	id := createBook(t, r, "Emma", "Austen")
	createBook(t, r, "Kindred", "Butler")

	w := do(t, r, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(id), body["deleted"])
	assert.Equal(t, float64(1), body["total_books"])

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestRouting_ErrorEnvelopes(t *testing.T) {
	r := newApp(t)

	w := do(t, r, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["error"])

	w = do(t, r, http.MethodPut, "/books", nil)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "method_not_allowed", body["error"])
}

func corsRequest(t *testing.T, r http.Handler, method, path, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_CORSAndRequestID(t *testing.T) {
	r := newApp(t)
	const origin = "http://localhost:3000"

	w := corsRequest(t, r, http.MethodOptions, "/books", origin)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	w = corsRequest(t, r, http.MethodGet, "/books", origin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(handler.RequestIDHeader))

	w = corsRequest(t, r, http.MethodGet, "/missing", origin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.CORS(handler.CORSOptions{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET"},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := corsRequest(t, r, http.MethodGet, "/x", "http://localhost:3000")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(t, r, http.MethodGet, "/x", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMiddleware_RequestIDEchoed(t *testing.T) {
	r := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(handler.RequestIDHeader))
}

// stubBookService lets tests force failures the real store never produces.
type stubBookService struct {
	err   error
	panic bool
}

func (s *stubBookService) ListBooks(context.Context, int) (paging.Page[model.Book], error) {
	if s.panic {
		panic("shelf collapsed")
	}
	return paging.Page[model.Book]{}, s.err
}
func (s *stubBookService) CreateBook(context.Context, service.NewBook, int) (service.BookResult, error) {
	return service.BookResult{}, s.err
}
func (s *stubBookService) UpdateRating(context.Context, int64, *int, int) (service.BookResult, error) {
	return service.BookResult{}, s.err
}
func (s *stubBookService) DeleteBook(context.Context, int64, int) (service.BookResult, error) {
	return service.BookResult{}, s.err
}

func newStubApp(svc service.BookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := handler.NewEngine(zerolog.New(io.Discard), testCORS)
	handler.Register(r, stubPinger{}, svc, nil)
	return r
}

func TestBooks_UnmappedErrorIs500(t *testing.T) {
	r := newStubApp(&stubBookService{err: errors.New("db exploded")})
	w := do(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal_error", body["error"])
	assert.NotContains(t, w.Body.String(), "db exploded")
}

func TestRecovery_PanicIs500Envelope(t *testing.T) {
	r := newStubApp(&stubBookService{panic: true})
	w := do(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}
