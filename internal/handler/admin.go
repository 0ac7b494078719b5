package handler

import (
	"net/http"

	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminHandler 负责管理员账户初始化
type AdminHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewAdminHandler(db *gorm.DB, bcryptCost int) *AdminHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AdminHandler{DB: db, BcryptCost: bcryptCost}
}

// Init 创建默认管理员账户（admin/admin123），已存在则跳过
func (h *AdminHandler) Init(c *gin.Context) {
	var role models.Role
	if err := h.DB.Where("name = ?", "admin").Take(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusInternalServerError, "管理员角色不存在，请先运行数据库初始化脚本")
		} else {
			util.Error(c, http.StatusInternalServerError, "初始化管理员账户失败")
		}
		return
	}

	var count int64
	if err := h.DB.Model(&models.Person{}).
		Where("username = ?", "admin").Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "初始化管理员账户失败")
		return
	}
	if count > 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "管理员账户已存在",
			"username": "admin",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "初始化管理员账户失败")
		return
	}

	admin := models.Person{
		Name:     "系统管理员",
		Username: "admin",
		Password: string(hash),
		Role:     "admin",
		RoleID:   &role.ID,
		Status:   "active",
	}
	if err := h.DB.Create(&admin).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "初始化管理员账户失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "管理员账户创建成功",
		"username": "admin",
		"password": "admin123",
		"warning":  "请登录后立即修改密码！",
	})
}
