package helper

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler/dto"
)

// Пагинация списков админки
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ToAdminDTO убирает из администратора хеш пароля
func ToAdminDTO(admin *entity.AdminUser) dto.AdminDTO {
	return dto.AdminDTO{
		ID:        admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		CreatedAt: admin.CreatedAt,
	}
}

// ParsePagination читает page/per_page из query и возвращает page, perPage и смещение
func ParsePagination(c *gin.Context) (int, int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = DefaultPerPage
	} else if perPage > MaxPerPage {
		perPage = MaxPerPage // Максимальный лимит
	}
	return page, perPage, (page - 1) * perPage
}

// Paginated собирает ответ со страницей списка
func Paginated(items interface{}, total int64, page, perPage int) dto.PaginatedResponse {
	return dto.PaginatedResponse{Items: items, Total: total, Page: page, PerPage: perPage}
}
