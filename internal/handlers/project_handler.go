package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteinspect_backend/internal/services"
	"siteinspect_backend/internal/services/dto"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("/", h.CreateProject)
		projects.GET("/", h.ListProjects)
		projects.GET("/:projectId", h.GetProject)
		projects.GET("/:projectId/storage", h.GetProjectStorage)
		projects.PUT("/:projectId", h.UpdateProject)
		projects.DELETE("/:projectId", h.DeleteProject)
	}
}

// CreateProject создает новый проект.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects возвращает список проектов.
// Заголовок Owner, если задан, сужает выборку до проектов этого владельца.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	skip, limit := ParseSkipLimit(c)
	owner := c.GetHeader("Owner")

	projects, err := h.projectService.List(h.GetDB(c), owner, skip, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject возвращает проект вместе с его проверками.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := ParseParamID(c, "projectId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	project, err := h.projectService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.CheckOwner(c, project.Owner, false) {
		return
	}

	c.JSON(http.StatusOK, project)
}

// GetProjectStorage возвращает отчет об использовании хранилища проектом.
// Несуществующий проект не ошибка: возвращается exists=false.
func (h *ProjectHandler) GetProjectStorage(c *gin.Context) {
	id, err := ParseParamID(c, "projectId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	// Проверка владельца выполняется только для существующего проекта
	if project, err := h.projectService.Get(db, id); err == nil {
		if !h.CheckOwner(c, project.Owner, false) {
			return
		}
	}

	report, err := h.projectService.StorageUsage(c.Request.Context(), db, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateProject полностью заменяет поля проекта. Заголовок Owner обязателен
// и должен совпадать с текущим владельцем.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := ParseParamID(c, "projectId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	existing, err := h.projectService.Get(db, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.CheckOwner(c, existing.Owner, true) {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(db, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject каскадно удаляет проект со всеми проверками, фото и файлами.
// Возвращает удаленную запись.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := ParseParamID(c, "projectId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	existing, err := h.projectService.Get(db, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.CheckOwner(c, existing.Owner, true) {
		return
	}

	project, err := h.projectService.Delete(c.Request.Context(), db, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}
