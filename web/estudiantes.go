package webui

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/session"
)

// estudiantesPage is the data the estudiantes template receives on top of page.
type estudiantesPage struct {
	Rows          []estudiante.Estudiante
	Form          estudiante.Form
	FieldErrors   map[string]string
	EditingID     int
	PendingDelete int
}

type estudiantesHandler struct {
	module   *estudiante.Module
	sessions *session.Store
}

func registerEstudiantes(g *echo.Group, module *estudiante.Module, sessions *session.Store) {
	h := estudiantesHandler{module: module, sessions: sessions}

	eg := g.Group("/estudiantes")
	eg.GET("", h.index)
	eg.POST("", h.save)
	eg.GET("/editar/:id", h.edit)
	eg.GET("/cancelar", h.cancelEdit)
	eg.GET("/eliminar/:id", h.requestDelete)
	eg.POST("/eliminar/confirmar", h.confirmDelete)
	eg.POST("/eliminar/cancelar", h.cancelDelete)
}

func (h *estudiantesHandler) render(ctx echo.Context, notice, errMsg string) error {
	return ctx.Render(http.StatusOK, "estudiantes", page{
		Title:  "Gestión de Estudiantes",
		User:   h.sessions.User(),
		Notice: notice,
		Error:  errMsg,
		Data: estudiantesPage{
			Rows:          h.module.Rows(),
			Form:          h.module.Form(),
			FieldErrors:   h.module.FieldErrors(),
			EditingID:     h.module.EditingID(),
			PendingDelete: h.module.PendingDelete(),
		},
	})
}

func (h *estudiantesHandler) index(ctx echo.Context) error {
	if err := h.module.Refresh(ctx.Request().Context()); err != nil {
		// stale list stays visible
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, "", "")
}

func (h *estudiantesHandler) save(ctx echo.Context) error {
	var f estudiante.Form
	if err := ctx.Bind(&f); err != nil {
		return errors.Wrap(err, "binding estudiante form")
	}
	notice, err := h.module.Submit(ctx.Request().Context(), f)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return h.render(ctx, "", "") // field errors render inline
		}
		return h.render(ctx, notice, err.Error())
	}
	return h.render(ctx, notice, "")
}

func (h *estudiantesHandler) edit(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro no encontrado")
	}
	if err := h.module.Refresh(ctx.Request().Context()); err != nil {
		return h.render(ctx, "", err.Error())
	}
	if err := h.module.StartEdit(id); err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, "", "")
}

func (h *estudiantesHandler) cancelEdit(ctx echo.Context) error {
	h.module.CancelEdit()
	return ctx.Redirect(http.StatusFound, "/dashboard/estudiantes")
}

func (h *estudiantesHandler) requestDelete(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro no encontrado")
	}
	h.module.RequestDelete(id)
	return h.render(ctx, "", "")
}

func (h *estudiantesHandler) confirmDelete(ctx echo.Context) error {
	notice, err := h.module.ConfirmDelete(ctx.Request().Context())
	if err != nil {
		// a conflict (student still enrolled) carries the backend's message
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, notice, "")
}

func (h *estudiantesHandler) cancelDelete(ctx echo.Context) error {
	h.module.CancelDelete()
	return ctx.Redirect(http.StatusFound, "/dashboard/estudiantes")
}
