package web

import (
	"errors"
	"strconv"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/modules/activity"
	"github.com/AleksKostadinov/todo-app/modules/task"
	"github.com/gofiber/fiber/v2"
)

var taskMessages = []struct {
	err     error
	message string
}{
	{domain.ErrTitleRequired, "This field is required."},
	{domain.ErrTitleTooLong, "Ensure this value has at most 50 characters."},
	{domain.ErrTitleTaken, "Task with this Title already exists."},
}

func taskMessage(err error) string {
	for _, m := range taskMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return err.Error()
}

// taskForm is the state of a task form as rendered back to the user.
type taskForm struct {
	Title       string
	Description string
	Complete    bool
	Error       string
}

// notFound turns a missing or foreign task into a 404.
func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.ErrNotFound
	}
	return err
}

func taskID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}

func (s *Server) taskList(c *fiber.Ctx) error {
	return s.renderList(c, fiber.StatusOK, taskForm{})
}

// renderList renders the list page with the given create form state.
func (s *Server) renderList(c *fiber.Ctx, status int, form taskForm) error {
	owner := currentUser(c).UserID

	list, err := s.tasks.ListTasks(c.UserContext(), owner)
	if err != nil {
		return err
	}

	var recent []activity.Entry
	if s.activity != nil {
		recent, err = s.activity.RecentActivity(c.UserContext(), owner, s.opts.ActivityLimit)
		if err != nil {
			s.logger.Warn("Failed to load activity feed", "owner", owner, "error", err)
			recent = nil
		}
	}

	return s.render(c, status, "index", fiber.Map{
		"Tasks":    list.Tasks,
		"Count":    list.Incomplete,
		"Form":     form,
		"Activity": recent,
	})
}

func (s *Server) taskCreate(c *fiber.Ctx) error {
	owner := currentUser(c).UserID
	title := c.FormValue("title")

	created, err := s.tasks.CreateTask(c.UserContext(), owner, task.CreateInput{Title: title})
	if err != nil {
		if !domain.IsValidationError(err) {
			return err
		}
		return s.renderList(c, fiber.StatusOK, taskForm{Title: title, Error: taskMessage(err)})
	}

	s.logger.Debug("Task created via web", "task_id", created.ID, "owner", owner)
	return c.Redirect("/")
}

func (s *Server) taskDetail(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	t, err := s.tasks.GetTask(c.UserContext(), id, currentUser(c).UserID)
	if err != nil {
		return notFound(err)
	}

	return s.render(c, fiber.StatusOK, "detail", fiber.Map{
		"Title":       t.Title,
		"Task":        t,
		"Description": t.DisplayDescription(),
	})
}

func (s *Server) taskUpdateForm(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	t, err := s.tasks.GetTask(c.UserContext(), id, currentUser(c).UserID)
	if err != nil {
		return notFound(err)
	}

	return s.render(c, fiber.StatusOK, "update", fiber.Map{
		"Task": t,
		"Form": taskForm{Title: t.Title, Description: t.Description, Complete: t.Complete},
	})
}

func (s *Server) taskUpdate(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	owner := currentUser(c).UserID

	changes := domain.Changes{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Complete:    checkbox(c.FormValue("complete")),
	}

	if _, err := s.tasks.UpdateTask(c.UserContext(), id, owner, changes); err != nil {
		if !domain.IsValidationError(err) {
			return notFound(err)
		}
		return s.render(c, fiber.StatusOK, "update", fiber.Map{
			"Task": &domain.Task{ID: id},
			"Form": taskForm{
				Title:       changes.Title,
				Description: changes.Description,
				Complete:    changes.Complete,
				Error:       taskMessage(err),
			},
		})
	}
	return c.Redirect("/")
}

func (s *Server) taskDeleteConfirm(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	t, err := s.tasks.GetTask(c.UserContext(), id, currentUser(c).UserID)
	if err != nil {
		return notFound(err)
	}

	return s.render(c, fiber.StatusOK, "delete", fiber.Map{
		"Task": t,
	})
}

func (s *Server) taskDelete(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(c.UserContext(), id, currentUser(c).UserID); err != nil {
		return notFound(err)
	}
	return c.Redirect("/")
}

func (s *Server) deleteCompleted(c *fiber.Ctx) error {
	if _, err := s.tasks.DeleteCompleted(c.UserContext(), currentUser(c).UserID); err != nil {
		return err
	}
	return c.Redirect("/")
}

// checkbox reports whether an HTML checkbox value means checked. An
// unchecked box is absent from the form.
func checkbox(value string) bool {
	switch value {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
