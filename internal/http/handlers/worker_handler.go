package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kaamwala-backend/internal/http/handlers/common"
	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
	"github.com/ignatzorin/kaamwala-backend/internal/validation"
)

// WorkerHandler поиск исполнителей и пользователей по роли.
type WorkerHandler struct {
	search WorkerSearchService
}

func NewWorkerHandler(search WorkerSearchService) *WorkerHandler {
	return &WorkerHandler{search: search}
}

// Search GET /workers
func (h *WorkerHandler) Search(c *gin.Context) {
	filter, err := parseWorkerFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.search.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ByCategory GET /workers/search/category/:name
func (h *WorkerHandler) ByCategory(c *gin.Context) {
	page, size := common.PageParams(c)
	h.respond(c)(h.search.ByCategory(c.Request.Context(), c.Param("name"), page, size))
}

// BySkill GET /workers/search/skill/:name
func (h *WorkerHandler) BySkill(c *gin.Context) {
	page, size := common.PageParams(c)
	h.respond(c)(h.search.BySkill(c.Request.Context(), c.Param("name"), page, size))
}

// ByLocation GET /workers/search/location/:location
func (h *WorkerHandler) ByLocation(c *gin.Context) {
	page, size := common.PageParams(c)
	h.respond(c)(h.search.ByLocation(c.Request.Context(), c.Param("location"), page, size))
}

// TopRated GET /workers/top-rated
func (h *WorkerHandler) TopRated(c *gin.Context) {
	page, size := common.PageParams(c)
	h.respond(c)(h.search.TopRatedByExperience(c.Request.Context(), page, size))
}

// Recent GET /workers/recent
func (h *WorkerHandler) Recent(c *gin.Context) {
	page, size := common.PageParams(c)
	h.respond(c)(h.search.RecentlyJoined(c.Request.Context(), page, size))
}

// ByRole GET /users?role=
func (h *WorkerHandler) ByRole(c *gin.Context) {
	role := c.DefaultQuery("role", models.RoleWorker)
	if err := validation.ValidateRole(role); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, size := common.PageParams(c)
	h.respond(c)(h.search.ByRole(c.Request.Context(), role, page, size))
}

func (h *WorkerHandler) respond(c *gin.Context) func(models.Page[models.WorkerSummary], error) {
	return func(result models.Page[models.WorkerSummary], err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
	}
}

// parseWorkerFilter собирает фильтр из query. Ошибки разбора и валидации отдаются как VALIDATION_ERROR.
func parseWorkerFilter(c *gin.Context) (search.Filter, error) {
	errs := validation.Errors{}

	minRate, err := common.OptionalFloatQuery(c, "minRate")
	errs.Add("minRate", err)
	maxRate, err := common.OptionalFloatQuery(c, "maxRate")
	errs.Add("maxRate", err)
	minExperience, err := common.OptionalIntQuery(c, "minExperience")
	errs.Add("minExperience", err)

	page, err := common.OptionalIntQuery(c, "page")
	errs.Add("page", err)
	size, err := common.OptionalIntQuery(c, "size")
	errs.Add("size", err)

	sortBy, err := search.ParseSortField(c.Query("sortBy"))
	errs.Add("sortBy", err)
	direction, err := search.ParseDirection(c.Query("sortDir"))
	errs.Add("sortDir", err)

	filter := search.Filter{
		Category:      c.Query("category"),
		Skill:         c.Query("skill"),
		Location:      c.Query("location"),
		MinRate:       minRate,
		MaxRate:       maxRate,
		MinExperience: minExperience,
		SortBy:        sortBy,
		Direction:     direction,
	}
	if page != nil {
		filter.Page = *page
	}
	if size != nil {
		filter.Size = *size
	}

	for field, msg := range validation.ValidateSearch(filter.Category, filter.Skill, filter.Location, minRate, maxRate, minExperience) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}

	if err := errs.Err(); err != nil {
		return search.Filter{}, err
	}
	return filter, nil
}
