package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) register(c *fiber.Ctx) error {
	req := &registerRequest{}
	if err := parseBody(c, req); err != nil {
		return s.writeError(c, err)
	}

	user, err := s.users.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	s.logger.Info(c.UserContext(), "user registered", "id", user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user created",
		"data":    newUserResponse(user),
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	req := &loginRequest{}
	if err := parseBody(c, req); err != nil {
		return s.writeError(c, err)
	}

	token, err := s.users.Login(c.UserContext(), req.Email, req.Password, c.IP())
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}
