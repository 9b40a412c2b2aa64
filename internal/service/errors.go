package service

import (
	"errors"

	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
