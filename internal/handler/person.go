package handler

import (
	"net/http"
	"strings"

	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PersonHandler 负责人员（工作人员/账号）接口
type PersonHandler struct {
	DB         *gorm.DB
	BcryptCost int
	PageSize   int
}

func NewPersonHandler(db *gorm.DB, bcryptCost, pageSize int) *PersonHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PersonHandler{
		DB:         db,
		BcryptCost: bcryptCost,
		PageSize:   pageSize,
	}
}

// withNames 联表带出单位名和角色名
func (h *PersonHandler) withNames() *gorm.DB {
	return h.DB.Model(&models.Person{}).
		Select("persons.*, units.name AS unit_name, roles.name AS role_name").
		Joins("LEFT JOIN units ON persons.unit_id = units.id").
		Joins("LEFT JOIN roles ON persons.role_id = roles.id")
}

// ---------- 列表 ----------

// List 人员列表。非管理员只能看到本单位的人员。
func (h *PersonHandler) List(c *gin.Context) {
	var unitID *uint
	if user := middleware.CurrentUser(c); user != nil {
		if user.RoleID != nil && !user.IsAdmin() {
			unitID = user.UnitID
		}
	}
	// 查询参数里指定了 unit_id 则以参数为准
	if v := util.ParseQueryUint(c, "unit_id"); v != nil {
		unitID = v
	}

	query := h.withNames()
	if status := c.Query("status"); status != "" {
		query = query.Where("persons.status = ?", status)
	}
	if unitID != nil {
		query = query.Where("persons.unit_id = ?", *unitID)
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("persons.gender = ?", gender)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(persons.name) LIKE ? OR persons.id_card LIKE ? OR persons.phone LIKE ? OR LOWER(persons.position) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询人员失败")
		return
	}

	page, pageSize := util.ParsePage(c, h.PageSize)
	var persons []models.Person
	if err := query.Order("persons.created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&persons).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询人员失败")
		return
	}

	c.JSON(http.StatusOK, util.NewPageResult(persons, total, page, pageSize))
}

// ---------- 创建 ----------

type personReq struct {
	Name     string `json:"name"`
	IDCard   string `json:"id_card"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	UnitID   *uint  `json:"unit_id"`
	Notes    string `json:"notes"`
	RoleID   *uint  `json:"role_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *PersonHandler) Create(c *gin.Context) {
	var req personReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "姓名不能为空")
		return
	}
	if req.UnitID == nil {
		util.Error(c, http.StatusBadRequest, "所属单位不能为空")
		return
	}
	if req.RoleID == nil {
		util.Error(c, http.StatusBadRequest, "角色不能为空")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		util.Error(c, http.StatusBadRequest, "用户名不能为空")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		util.Error(c, http.StatusBadRequest, "密码不能为空")
		return
	}
	if len(req.Password) < 6 {
		util.Error(c, http.StatusBadRequest, "密码长度至少6位")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "密码加密失败")
		return
	}

	person := models.Person{
		Name:     req.Name,
		IDCard:   req.IDCard,
		Phone:    req.Phone,
		Email:    req.Email,
		Gender:   req.Gender,
		Address:  req.Address,
		UnitID:   req.UnitID,
		Notes:    req.Notes,
		RoleID:   req.RoleID,
		Username: req.Username,
		Password: string(hash),
		Status:   "active",
		Role:     "user",
	}
	if err := h.DB.Create(&person).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "创建人员失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      person.ID,
		"message": "创建成功",
	})
}

// ---------- 详情 ----------

func (h *PersonHandler) Get(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var person models.Person
	err := h.withNames().Where("persons.id = ?", id).Take(&person).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该人员信息")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询人员失败")
		}
		return
	}

	c.JSON(http.StatusOK, person)
}

// ---------- 更新 ----------

func (h *PersonHandler) Update(c *gin.Context) {
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

	if v, ok := req["unit_id"]; ok && v == nil {
		util.Error(c, http.StatusBadRequest, "所属单位不能为空")
		return
	}
	if v, ok := req["role_id"]; ok && v == nil {
		util.Error(c, http.StatusBadRequest, "角色不能为空")
		return
	}
	if v, ok := req["username"]; ok {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			util.Error(c, http.StatusBadRequest, "用户名不能为空")
			return
		}
	}

	password, _ := req["password"].(string)
	if strings.TrimSpace(password) == "" {
		util.Error(c, http.StatusBadRequest, "密码不能为空")
		return
	}
	if len(password) < 6 {
		util.Error(c, http.StatusBadRequest, "密码长度至少6位")
		return
	}

	// 只允许更新白名单里的字段
	updates := util.PickFields(req,
		"name", "id_card", "phone", "email", "gender", "address",
		"unit_id", "notes", "role_id", "username")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "密码加密失败")
		return
	}
	updates["password"] = string(hash)

	result := h.DB.Model(&models.Person{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "更新人员失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该人员信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
	})
}

// ---------- 设置密码 ----------

type setPasswordReq struct {
	Password string `json:"password"`
}

func (h *PersonHandler) SetPassword(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var req setPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "密码不能为空")
		return
	}
	if len(req.Password) < 6 {
		util.Error(c, http.StatusBadRequest, "密码长度至少6位")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "密码加密失败")
		return
	}

	result := h.DB.Model(&models.Person{}).Where("id = ?", id).
		Update("password", string(hash))
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "设置密码失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该人员信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "密码设置成功",
	})
}

// ---------- 删除 ----------

func (h *PersonHandler) Delete(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	result := h.DB.Delete(&models.Person{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除人员失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该人员信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
