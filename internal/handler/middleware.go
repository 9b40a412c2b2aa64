package handler

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/pkg/response"
)

// RequestIDHeader carries the per-request correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// CORSOptions lists the values echoed in the Access-Control-Allow-* headers.
type CORSOptions struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// NewEngine builds a gin engine with the middleware chain every route shares.
// Routes are mounted separately by Register.
func NewEngine(logger zerolog.Logger, cors CORSOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		RequestID(),
		RequestLogger(logger),
		Recovery(logger),
		CORS(cors),
	)
	return r
}

// RequestID reuses an incoming X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str(requestIDKey, c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("took", time.Since(start)).
			Int("size", c.Writer.Size()).
			Msg("request")
	}
}

// Recovery turns a panic into the 500 error envelope.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error().
			Str(requestIDKey, c.GetString(requestIDKey)).
			Interface("panic", recovered).
			Msg("request panicked")
		response.WriteError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// CORS answers preflight requests and sets the Access-Control-Allow-* headers on
// cross-origin requests. An empty origin list or "*" allows any origin.
func CORS(opts CORSOptions) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:              opts.AllowMethods,
		AllowHeaders:              opts.AllowHeaders,
		ExposeHeaders:             []string{RequestIDHeader},
		OptionsResponseStatusCode: http.StatusNoContent,
		MaxAge:                    12 * time.Hour,
	}
	if len(opts.AllowOrigins) == 0 || slices.Contains(opts.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.AllowOrigins
	}
	return cors.New(cfg)
}
