package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/server/services"
)

// todoID validates the :id path parameter. An id that is not a UUID cannot
// name any todo, so it reports the same not-found as a missing record.
func todoID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (s *HTTPServer) listTodos(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	todos, err := s.todos.List(c.UserContext(), identity.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"data": newTodoListResponse(todos)})
}

func (s *HTTPServer) createTodo(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	req := &createTodoRequest{}
	if err := parseBody(c, req); err != nil {
		return s.writeError(c, err)
	}

	todo, err := s.todos.Create(c.UserContext(), identity.ID, req.Title, req.Description)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": newTodoResponse(todo)})
}

func (s *HTTPServer) getTodo(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	todo, err := s.todos.Get(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"data": newTodoResponse(todo)})
}

func (s *HTTPServer) updateTodo(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	req := &updateTodoRequest{}
	if err := parseBody(c, req); err != nil {
		return s.writeError(c, err)
	}

	todo, err := s.todos.Update(c.UserContext(), id, identity.ID, services.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"data": newTodoResponse(todo)})
}

func (s *HTTPServer) toggleTodo(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	todo, err := s.todos.Toggle(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"data": newTodoResponse(todo)})
}

func (s *HTTPServer) deleteTodo(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.todos.Delete(c.UserContext(), id, identity.ID); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "todo deleted"})
}

func (s *HTTPServer) attachmentUploadURL(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	url, err := s.todos.AttachmentUploadURL(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"upload_url": url})
}

func (s *HTTPServer) attachmentDownloadURL(c *fiber.Ctx) error {
	identity, err := identityFromCtx(c)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := todoID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	url, err := s.todos.AttachmentDownloadURL(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"download_url": url})
}
