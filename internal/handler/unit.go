package handler

import (
	"net/http"
	"strings"

	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UnitHandler 负责救助单位接口
type UnitHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewUnitHandler(db *gorm.DB, pageSize int) *UnitHandler {
	return &UnitHandler{DB: db, PageSize: pageSize}
}

// ---------- 列表 ----------

func (h *UnitHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Unit{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(contact_person) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询单位失败")
		return
	}

	page, pageSize := util.ParsePage(c, h.PageSize)
	var units []models.Unit
	if err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&units).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询单位失败")
		return
	}

	c.JSON(http.StatusOK, util.NewPageResult(units, total, page, pageSize))
}

// nameTaken 单位名称是否已被其它单位占用
func (h *UnitHandler) nameTaken(name string, excludeID uint) (bool, error) {
	var count int64
	query := h.DB.Model(&models.Unit{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---------- 创建 ----------

type unitReq struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Address       string `json:"address"`
	Location      string `json:"location"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Description   string `json:"description"`
	Status        string `json:"status"`
}

func (h *UnitHandler) Create(c *gin.Context) {
	var req unitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		util.Error(c, http.StatusBadRequest, "单位名称不能为空")
		return
	}
	if taken, err := h.nameTaken(req.Name, 0); err != nil {
		util.Error(c, http.StatusInternalServerError, "查询单位失败")
		return
	} else if taken {
		util.Error(c, http.StatusBadRequest, "单位名称已存在")
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	unit := models.Unit{
		Name:          req.Name,
		Code:          req.Code,
		Address:       req.Address,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Description:   req.Description,
		Status:        req.Status,
	}
	if err := h.DB.Create(&unit).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "创建单位失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      unit.ID,
		"message": "创建成功",
	})
}

// ---------- 详情 ----------

func (h *UnitHandler) Get(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var unit models.Unit
	if err := h.DB.Take(&unit, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该单位信息")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询单位失败")
		}
		return
	}

	c.JSON(http.StatusOK, unit)
}

// ---------- 更新 ----------

func (h *UnitHandler) Update(c *gin.Context) {
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
	if v, ok := req["name"]; ok {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			util.Error(c, http.StatusBadRequest, "单位名称不能为空")
			return
		}
		if taken, err := h.nameTaken(s, id); err != nil {
			util.Error(c, http.StatusInternalServerError, "查询单位失败")
			return
		} else if taken {
			util.Error(c, http.StatusBadRequest, "单位名称已存在")
			return
		}
	}

	updates := util.PickFields(req,
		"name", "code", "address", "location", "contact_person",
		"phone", "email", "description", "status")
	if len(updates) == 0 {
		util.Error(c, http.StatusBadRequest, "没有需要更新的字段")
		return
	}

	result := h.DB.Model(&models.Unit{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "更新单位失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该单位信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
	})
}

// ---------- 删除 ----------

func (h *UnitHandler) Delete(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	result := h.DB.Delete(&models.Unit{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除单位失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该单位信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
