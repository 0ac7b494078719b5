package router

import (
	"github.com/qilimazhualuo/cat-rescue/internal/auth"
	"github.com/qilimazhualuo/cat-rescue/internal/config"
	"github.com/qilimazhualuo/cat-rescue/internal/handler"
	"github.com/qilimazhualuo/cat-rescue/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, the auth gate and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, manager *auth.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 全局鉴权闸门：白名单前缀放行，其余要求有效会话
	gate := middleware.NewGate(manager, nil)
	r.Use(gate.Handler())

	pageSize := cfg.App.PageSize

	// ====== 认证 ======
	authHandler := handler.NewAuthHandler(db, manager)
	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/logout", authHandler.Logout)
	r.GET("/api/auth/me", authHandler.Me)
	r.GET("/api/auth/check-permission", authHandler.CheckPermission)

	// ====== 管理员初始化 ======
	adminHandler := handler.NewAdminHandler(db, cfg.Security.BcryptCost)
	r.POST("/api/admin/init", adminHandler.Init)

	// ====== 猫咪 ======
	catHandler := handler.NewCatHandler(db, pageSize)
	r.GET("/api/cats", catHandler.List)
	r.GET("/api/cats/manage", catHandler.Manage)
	r.POST("/api/cats", catHandler.Create)
	r.GET("/api/cats/:id", catHandler.Get)
	r.GET("/api/cats/:id/photo", catHandler.Photo)
	r.GET("/api/cats/:id/vaccination_proof", catHandler.VaccinationProof)
	r.GET("/api/cats/:id/applications", catHandler.Applications)
	r.PUT("/api/cats/:id", catHandler.Update)
	r.DELETE("/api/cats/:id", catHandler.Delete)

	// ====== 领养申请 ======
	appHandler := handler.NewApplicationHandler(db, pageSize)
	r.GET("/api/adoption-applications", appHandler.List)
	r.POST("/api/adoption-applications", appHandler.Create)
	r.GET("/api/adoption-applications/:id", appHandler.Get)
	r.PUT("/api/adoption-applications/:id", appHandler.Update)
	r.DELETE("/api/adoption-applications/:id", appHandler.Delete)

	// ====== 人员 ======
	personHandler := handler.NewPersonHandler(db, cfg.Security.BcryptCost, pageSize)
	r.GET("/api/persons", personHandler.List)
	r.POST("/api/persons", personHandler.Create)
	r.GET("/api/persons/:id", personHandler.Get)
	r.PUT("/api/persons/:id", personHandler.Update)
	r.POST("/api/persons/:id/set-password", personHandler.SetPassword)
	r.DELETE("/api/persons/:id", personHandler.Delete)

	// ====== 单位 ======
	unitHandler := handler.NewUnitHandler(db, pageSize)
	r.GET("/api/units", unitHandler.List)
	r.POST("/api/units", unitHandler.Create)
	r.GET("/api/units/:id", unitHandler.Get)
	r.PUT("/api/units/:id", unitHandler.Update)
	r.DELETE("/api/units/:id", unitHandler.Delete)

	// ====== 角色与页面 ======
	roleHandler := handler.NewRoleHandler(db)
	r.GET("/api/roles", roleHandler.List)
	r.POST("/api/roles", roleHandler.Create)
	r.GET("/api/roles/:id", roleHandler.Get)
	r.PUT("/api/roles/:id", roleHandler.Update)
	r.DELETE("/api/roles/:id", roleHandler.Delete)

	pageHandler := handler.NewPageHandler(db)
	r.GET("/api/pages", pageHandler.List)
	r.GET("/api/menu", pageHandler.Menu)

	// ====== 上传 ======
	uploadHandler := handler.NewUploadHandler(cfg.Upload.Dir)
	r.POST("/api/upload", uploadHandler.Upload)
	r.GET("/api/uploads/:filename", uploadHandler.Serve)

	// ====== 导出 ======
	exportHandler := handler.NewExportHandler(db)
	r.GET("/api/export/csv", exportHandler.ExportCSV)
	r.GET("/api/export/xlsx", exportHandler.ExportXLSX)

	return r
}
