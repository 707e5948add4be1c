package handlers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/kaamwala-backend/internal/dto"
	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/storage"
)

// Разрешённые типы иконок. SVG не поддерживается: по магическим байтам его не отличить от текста.
var allowedIconTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// IconHandler загрузка иконок категорий.
type IconHandler struct {
	taxonomy TaxonomyService
	storage  storage.IconStorage
	log      *logrus.Entry
}

func NewIconHandler(taxonomy TaxonomyService, storage storage.IconStorage) *IconHandler {
	return &IconHandler{taxonomy: taxonomy, storage: storage, log: logger.For("icons")}
}

// Upload PUT /categories/:id/icon (multipart, поле file)
func (h *IconHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	categoryID := c.Param("id")

	if _, err := h.taxonomy.GetCategory(ctx, categoryID); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "файл не может быть пустым")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	// Тип определяется по первым байтам, расширение и заголовок клиента не учитываются
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown || !allowedIconTypes[kind.MIME.Value] {
		response.BadRequest(c, fmt.Sprintf("неподдерживаемый тип файла. Разрешены: %s", strings.Join(allowedIconTypeList(), ", ")))
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		response.Error(c, err)
		return
	}

	ref, size, err := h.storage.Save(ctx, categoryID, file.Filename, kind.MIME.Value, src)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			response.Error(c, apperror.Validation(map[string]string{"file": "файл превышает допустимый размер"}))
			return
		}
		response.Error(c, err)
		return
	}

	category, err := h.taxonomy.SetCategoryIcon(ctx, categoryID, ref)
	if err != nil {
		if delErr := h.storage.Delete(ctx, ref); delErr != nil {
			h.log.WithError(delErr).WithField("ref", ref).Warn("не удалось удалить осиротевшую иконку")
		}
		response.Error(c, err)
		return
	}

	url, err := h.storage.URL(ctx, ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{"category_id": categoryID, "ref": ref, "size": size}).Info("иконка загружена")
	response.Success(c, dto.IconUploadResponse{Category: category, URL: url})
}

func allowedIconTypeList() []string {
	types := make([]string, 0, len(allowedIconTypes))
	for t := range allowedIconTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
