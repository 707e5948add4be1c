package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kaamwala-backend/internal/dto"
	"github.com/ignatzorin/kaamwala-backend/internal/http/handlers/common"
	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
)

const (
	defaultSeedWorkers = 20
	maxSeedWorkers     = 200
)

// DemoSeeder генерация демо-данных. Реализуется *service.SeedService.
type DemoSeeder interface {
	SeedDemoData(ctx context.Context, numWorkers int) (*service.SeedResult, error)
}

// SeedHandler обрабатывает запросы для генерации демо-данных. Подключается только вне production.
type SeedHandler struct {
	seeder DemoSeeder
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seeder DemoSeeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Seed загружает каталог и создаёт демо-исполнителей.
// POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	var req dto.SeedRequest

	// Параметры из query или body
	if raw := c.Query("num_workers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "num_workers должен быть целым числом")
			return
		}
		req.NumWorkers = n
	} else if c.Request.ContentLength > 0 {
		if err := common.BindJSON(c, &req); err != nil {
			response.Error(c, err)
			return
		}
	}

	if req.NumWorkers < 1 {
		req.NumWorkers = defaultSeedWorkers
	}
	if req.NumWorkers > maxSeedWorkers {
		req.NumWorkers = maxSeedWorkers
	}

	result, err := h.seeder.SeedDemoData(c.Request.Context(), req.NumWorkers)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
