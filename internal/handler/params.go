package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
)

// pathID reads a numeric path parameter. Anything that is not a positive integer
// behaves like a route that did not match.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func pageParam(c *gin.Context) int {
	return paging.ParseNumber(c.Query("page"))
}

// bindJSON decodes the body; parse failures never leak decoder internals to the client.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return service.NewInvalidInputError(service.FieldError{Field: "body", Message: "must be a valid JSON object"})
	}
	return nil
}

// flexID accepts an id sent either as a JSON number or as a numeric string,
// since category ids reach clients as object keys.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return err
	}
	*f = flexID(v)
	return nil
}
