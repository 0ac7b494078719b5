package handler

import (
	"net/http"

	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageHandler 负责页面列表和菜单接口
type PageHandler struct {
	DB *gorm.DB
}

func NewPageHandler(db *gorm.DB) *PageHandler {
	return &PageHandler{DB: db}
}

// List 获取所有页面
func (h *PageHandler) List(c *gin.Context) {
	var pages []models.Page
	if err := h.DB.Order("id").Find(&pages).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询页面失败")
		return
	}
	c.JSON(http.StatusOK, pages)
}

type menuItem struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Menu 按当前用户角色返回可访问的页面，管理员看到全部
func (h *PageHandler) Menu(c *gin.Context) {
	user := middleware.MustUser(c)
	if user == nil {
		return
	}

	query := h.DB.Model(&models.Page{}).Order("pages.id")
	if !user.IsAdmin() {
		if user.RoleID == nil {
			c.JSON(http.StatusOK, []menuItem{})
			return
		}
		query = query.
			Joins("JOIN role_pages ON role_pages.page_id = pages.id").
			Where("role_pages.role_id = ?", *user.RoleID)
	}

	var pages []models.Page
	if err := query.Find(&pages).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, "获取菜单失败")
		return
	}

	items := make([]menuItem, 0, len(pages))
	for _, page := range pages {
		items = append(items, menuItem{
			ID:          page.ID,
			Name:        page.Name,
			Path:        page.Path,
			Description: page.Description,
		})
	}
	c.JSON(http.StatusOK, items)
}
