package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/labstack/echo/v4"
)

type taskNameRequest struct {
	Name *string `json:"name"`
}

type taskDoneRequest struct {
	Done *bool `json:"done"`
}

func (s *Server) listTasks(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	tasks, err := s.tasks.List(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req taskNameRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	var check validation.Checklist
	check.Required("name", req.Name != nil)
	check.NotBlank("name", deref(req.Name))
	if err := check.Err(); err != nil {
		return err
	}

	task, err := s.tasks.Create(c.Request().Context(), who, *req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) getTask(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := s.tasks.Get(c.Request().Context(), who, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) renameTask(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req taskNameRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	var check validation.Checklist
	check.Required("name", req.Name != nil)
	check.NotBlank("name", deref(req.Name))
	if err := check.Err(); err != nil {
		return err
	}

	task, err := s.tasks.Rename(c.Request().Context(), who, id, *req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) setTaskDone(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req taskDoneRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	var check validation.Checklist
	check.Required("done", req.Done != nil)
	if err := check.Err(); err != nil {
		return err
	}

	task, err := s.tasks.SetDone(c.Request().Context(), who, id, *req.Done)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(c.Request().Context(), who, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "task deleted"})
}
