package handler

import (
	"net/http"
	"strings"

	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoleHandler 负责角色与页面授权接口
type RoleHandler struct {
	DB *gorm.DB
}

func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{DB: db}
}

// loadPages 填充角色的页面ID列表
func (h *RoleHandler) loadPages(role *models.Role) error {
	var pageIDs []uint
	err := h.DB.Model(&models.RolePage{}).
		Where("role_id = ?", role.ID).
		Order("page_id").
		Pluck("page_id", &pageIDs).Error
	if err != nil {
		return err
	}
	if pageIDs == nil {
		pageIDs = []uint{}
	}
	role.Pages = pageIDs
	return nil
}

// replacePages 在事务内重建角色的页面授权
func replacePages(tx *gorm.DB, roleID uint, pageIDs []uint) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePage{}).Error; err != nil {
		return err
	}
	for _, pageID := range pageIDs {
		if err := tx.Create(&models.RolePage{RoleID: roleID, PageID: pageID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// ---------- 列表 ----------

func (h *RoleHandler) List(c *gin.Context) {
	var roles []models.Role
	if err := h.DB.Order("id").Find(&roles).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询角色失败")
		return
	}
	for i := range roles {
		if err := h.loadPages(&roles[i]); err != nil {
			util.Error(c, http.StatusInternalServerError, "查询角色失败")
			return
		}
	}
	c.JSON(http.StatusOK, roles)
}

// ---------- 创建 ----------

type roleReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Pages       []uint `json:"pages"`
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		util.Error(c, http.StatusBadRequest, "角色名称不能为空")
		return
	}

	role := models.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return replacePages(tx, role.ID, req.Pages)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "创建角色失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      role.ID,
		"message": "创建成功",
	})
}

// ---------- 详情 ----------

func (h *RoleHandler) Get(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var role models.Role
	if err := h.DB.Take(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该角色")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询角色失败")
		}
		return
	}
	if err := h.loadPages(&role); err != nil {
		util.Error(c, http.StatusInternalServerError, "查询角色失败")
		return
	}

	c.JSON(http.StatusOK, role)
}

// ---------- 更新 ----------

func (h *RoleHandler) Update(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var role models.Role
	if err := h.DB.Take(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该角色")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询角色失败")
		}
		return
	}

	updates := util.PickFields(req, "name", "description")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Role{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if raw, ok := req["pages"]; ok {
			pageIDs := toUintSlice(raw)
			return replacePages(tx, id, pageIDs)
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "更新角色失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
	})
}

// toUintSlice 把 JSON 数组转成页面ID列表，非数字元素忽略
func toUintSlice(raw interface{}) []uint {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if f, ok := item.(float64); ok && f > 0 {
			ids = append(ids, uint(f))
		}
	}
	return ids
}

// ---------- 删除 ----------

func (h *RoleHandler) Delete(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var found int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Role{}, id)
		found = result.RowsAffected
		return result.Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "删除角色失败")
		return
	}
	if found == 0 {
		util.Error(c, http.StatusNotFound, "未找到该角色")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
