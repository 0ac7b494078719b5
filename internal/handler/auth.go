package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/qilimazhualuo/cat-rescue/internal/auth"
	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/登出/当前用户相关接口
type AuthHandler struct {
	DB      *gorm.DB
	Manager *auth.Manager
}

func NewAuthHandler(db *gorm.DB, manager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		DB:      db,
		Manager: manager,
	}
}

// findPersonByUsername 按用户名查人员，带出单位名和角色名
func (h *AuthHandler) findPersonByUsername(username string) (*models.Person, error) {
	var person models.Person
	err := h.DB.Model(&models.Person{}).
		Select("persons.*, units.name AS unit_name, roles.name AS role_name").
		Joins("LEFT JOIN units ON persons.unit_id = units.id").
		Joins("LEFT JOIN roles ON persons.role_id = roles.id").
		Where("persons.username = ?", username).
		Take(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}

	person, err := h.findPersonByUsername(req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "用户名或密码错误")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询用户失败")
		}
		return
	}

	// 检查状态
	if person.Status != "active" {
		util.Error(c, http.StatusForbidden, "账户已被禁用")
		return
	}

	// 校验密码
	if person.Password == "" {
		util.Error(c, http.StatusUnauthorized, "该账户未设置密码")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 更新最后登录时间，失败不影响登录
	now := time.Now()
	_ = h.DB.Model(&models.Person{}).Where("id = ?", person.ID).
		Update("last_login", now).Error

	role := person.Role
	if role == "" {
		role = "user"
	}
	user := auth.User{
		ID:       person.ID,
		Username: person.Username,
		Name:     person.Name,
		Role:     role,
		RoleID:   person.RoleID,
		RoleName: person.RoleName,
		UnitID:   person.UnitID,
		UnitName: person.UnitName,
	}

	// 签发会话：同账号的旧会话会被顶掉（单点登录）
	token, err := h.Manager.Login(c.Request.Context(), user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "生成 token 失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"token":   token,
		"user":    user,
	})
}

// ---------- 登出 ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		util.Unauthorized(c)
		return
	}

	// token 已失效也算登出成功（幂等）
	if err := h.Manager.Logout(c.Request.Context(), token); err != nil {
		util.Unauthorized(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "注销成功",
	})
}

// ---------- 当前用户 ----------

// Me 返回当前登录用户的身份快照（需要经过网关）
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.MustUser(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, user)
}

// ---------- 页面权限检查 ----------

func (h *AuthHandler) CheckPermission(c *gin.Context) {
	user := middleware.MustUser(c)
	if user == nil {
		return
	}

	pagePath := c.Query("pagePath")
	if pagePath == "" {
		util.Error(c, http.StatusBadRequest, "缺少 pagePath 参数")
		return
	}

	// 管理员拥有所有权限
	if user.IsAdmin() {
		c.JSON(http.StatusOK, gin.H{"hasPermission": true})
		return
	}

	// 没有细粒度角色即没有权限
	if user.RoleID == nil {
		c.JSON(http.StatusOK, gin.H{"hasPermission": false})
		return
	}

	var count int64
	err := h.DB.Model(&models.RolePage{}).
		Joins("JOIN pages ON role_pages.page_id = pages.id").
		Where("role_pages.role_id = ? AND pages.path = ?", *user.RoleID, pagePath).
		Count(&count).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "查询权限失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasPermission": count > 0})
}
