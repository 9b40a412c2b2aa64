package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/internal/handler"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/memory"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
)

var testCORS = handler.CORSOptions{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowHeaders: []string{"Content-Type", "Authorization", "true"},
}

// newApp wires the real services over an in-memory store. Quiz picks are deterministic.
func newApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.New(io.Discard)
	store := memory.NewStore()
	books := service.NewBookService(store.Books, store.Tx, 8, log)
	trivia := service.NewTriviaService(store.Questions, store.Categories, store.Tx, 10, log,
		service.WithIntn(func(int) int { return 0 }))
	r := handler.NewEngine(log, testCORS)
	handler.Register(r, store.Pinger, books, trivia)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}
