package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	UserName *string `json:"username"`
	Password *string `json:"password"`
}

func (r credentialsRequest) validate() error {
	var c validation.Checklist
	c.Required("username", r.UserName != nil)
	c.Required("password", r.Password != nil)
	return c.Err()
}

type statusRequest struct {
	Status *string `json:"status"`
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	token, err := s.users.Login(c.Request().Context(), *req.UserName, *req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) registerUser(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	user, err := s.users.Register(c.Request().Context(), *req.UserName, *req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.Request().Context(), "Registered", "username", user.UserName, "id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) listActiveUsers(c echo.Context) error {
	users, err := s.users.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) listUsers(c echo.Context) error {
	params := services.UserListParams{
		Page:     c.QueryParam("page"),
		Limit:    c.QueryParam("limit"),
		Search:   c.QueryParam("search"),
		OrderBy:  c.QueryParam("orderBy"),
		OrderDir: c.QueryParam("orderDir"),
		Status:   c.QueryParam("status"),
	}

	page, err := s.users.ListPage(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := s.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := s.users.Update(c.Request().Context(), id, req.UserName, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) setUserStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	var check validation.Checklist
	check.Required("status", req.Status != nil)
	if err := check.Err(); err != nil {
		return err
	}

	user, err := s.users.SetStatus(c.Request().Context(), id, *req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) userDoneTasks(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	done, err := s.users.DoneTasks(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, done)
}
