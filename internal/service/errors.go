package service

import (
	"errors"

	"todo_webapp/internal/domain"
)

var (
	ErrTodoNotFound = domain.ErrTaskNotFound
	ErrInvalidTodo  = errors.New("invalid todo")
)
