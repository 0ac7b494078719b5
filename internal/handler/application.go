package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationHandler 负责领养申请接口
type ApplicationHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewApplicationHandler(db *gorm.DB, pageSize int) *ApplicationHandler {
	return &ApplicationHandler{DB: db, PageSize: pageSize}
}

// ---------- 列表 ----------

func (h *ApplicationHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.AdoptionApplication{})
	if catID := util.ParseQueryUint(c, "cat_id"); catID != nil {
		query = query.Where("cat_id = ?", *catID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if name := c.Query("applicant_name"); name != "" {
		query = query.Where("LOWER(applicant_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if phone := c.Query("applicant_phone"); phone != "" {
		query = query.Where("applicant_phone LIKE ?", "%"+phone+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询领养申请失败")
		return
	}

	page, pageSize := util.ParsePage(c, h.PageSize)
	var apps []models.AdoptionApplication
	if err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&apps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询领养申请失败")
		return
	}

	c.JSON(http.StatusOK, util.NewPageResult(apps, total, page, pageSize))
}

// ---------- 创建 ----------

type applicationReq struct {
	CatID             uint   `json:"cat_id"`
	ApplicantName     string `json:"applicant_name"`
	ApplicantPhone    string `json:"applicant_phone"`
	ApplicantIDCard   string `json:"applicant_id_card"`
	ApplicantAddress  string `json:"applicant_address"`
	ApplicantLocation string `json:"applicant_location"`
	ApplicantEmail    string `json:"applicant_email"`
	ApplicationReason string `json:"application_reason"`
	Status            string `json:"status"`
	Notes             string `json:"notes"`
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	var req applicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if req.CatID == 0 || req.ApplicantName == "" || req.ApplicantPhone == "" {
		util.Error(c, http.StatusBadRequest, "缺少必填字段：cat_id, applicant_name, applicant_phone")
		return
	}
	if req.Status == "" {
		req.Status = "pending"
	}

	app := models.AdoptionApplication{
		CatID:             req.CatID,
		ApplicantName:     req.ApplicantName,
		ApplicantPhone:    req.ApplicantPhone,
		ApplicantIDCard:   req.ApplicantIDCard,
		ApplicantAddress:  req.ApplicantAddress,
		ApplicantLocation: req.ApplicantLocation,
		ApplicantEmail:    req.ApplicantEmail,
		ApplicationReason: req.ApplicationReason,
		Status:            req.Status,
		Notes:             req.Notes,
	}
	if err := h.DB.Create(&app).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "创建领养申请失败")
		return
	}

	c.JSON(http.StatusOK, app)
}

// ---------- 详情 ----------

func (h *ApplicationHandler) Get(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var app models.AdoptionApplication
	if err := h.DB.Take(&app, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该领养申请")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询领养申请失败")
		}
		return
	}

	c.JSON(http.StatusOK, app)
}

// mustOwnApplication 非管理员只能操作本单位猫咪的申请
func (h *ApplicationHandler) mustOwnApplication(c *gin.Context, id uint, denyMsg string) bool {
	user := middleware.CurrentUser(c)
	if user == nil || user.IsAdmin() {
		return true
	}

	var app models.AdoptionApplication
	if err := h.DB.Select("id, cat_id").Take(&app, id).Error; err != nil {
		// 申请不存在时交给后续操作返回 404
		return true
	}
	var cat models.Cat
	if err := h.DB.Select("id, unit_id").Take(&cat, app.CatID).Error; err != nil {
		return true
	}
	if !user.SameUnit(cat.UnitID) {
		util.Error(c, http.StatusForbidden, denyMsg)
		return false
	}
	return true
}

// ---------- 更新 ----------

func (h *ApplicationHandler) Update(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}
	if !h.mustOwnApplication(c, id, "无权更新该领养申请") {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	updates := util.PickFields(req,
		"applicant_name", "applicant_phone", "applicant_id_card",
		"applicant_address", "applicant_location", "applicant_email",
		"application_reason", "status", "notes")

	// 审批通过或完成时记录审批人
	if status, _ := req["status"].(string); status == "approved" || status == "completed" {
		if user := middleware.CurrentUser(c); user != nil {
			now := time.Now()
			updates["approved_by"] = user.ID
			updates["approved_at"] = &now
		}
	}

	result := h.DB.Model(&models.AdoptionApplication{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "更新领养申请失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该领养申请")
		return
	}

	var app models.AdoptionApplication
	if err := h.DB.Take(&app, id).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询领养申请失败")
		return
	}
	c.JSON(http.StatusOK, app)
}

// ---------- 删除 ----------

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}
	if !h.mustOwnApplication(c, id, "无权删除该领养申请") {
		return
	}

	result := h.DB.Delete(&models.AdoptionApplication{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除领养申请失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该领养申请")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
