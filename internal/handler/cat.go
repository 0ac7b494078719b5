package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/qilimazhualuo/cat-rescue/internal/auth"
	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxImageSize = 5 * 1024 * 1024

// catColumns 列表查询用的投影：图片入库后对外只暴露接口地址
const catColumns = `cats.id, category, name, gender, age_months,
	is_vaccinated, is_dewormed, is_neutered, is_placed,
	rescuer_name, phone, rescue_date, rescue_location, rescue_process,
	adoption_location, current_status, adoption_status, unit_id,
	created_at, updated_at,
	CASE WHEN photo_data IS NOT NULL THEN '/api/cats/' || cats.id || '/photo' ELSE photo END AS photo,
	CASE WHEN vaccination_proof_data IS NOT NULL THEN '/api/cats/' || cats.id || '/vaccination_proof' ELSE vaccination_proof END AS vaccination_proof`

// CatHandler 负责猫咪档案接口
type CatHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewCatHandler(db *gorm.DB, pageSize int) *CatHandler {
	return &CatHandler{DB: db, PageSize: pageSize}
}

// ---------- 图片解析 ----------

type imageUpload struct {
	Data     []byte
	MimeType string
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// readImageFile 读取并校验上传的图片，字段缺失时返回 nil
func readImageFile(c *gin.Context, field, label string) (*imageUpload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if !allowedImageTypes[mimeType] {
		util.Error(c, http.StatusBadRequest, label+"只支持图片格式：jpg, png, gif, webp")
		return nil, false
	}
	if header.Size > maxImageSize {
		util.Error(c, http.StatusBadRequest, label+"大小不能超过 5MB")
		return nil, false
	}

	data, err := readFileHeader(header)
	if err != nil {
		util.Error(c, http.StatusBadRequest, label+"读取失败")
		return nil, false
	}
	if len(data) > maxImageSize {
		util.Error(c, http.StatusBadRequest, label+"大小不能超过 5MB")
		return nil, false
	}

	return &imageUpload{Data: data, MimeType: mimeType}, true
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// formBool 表单里的布尔项，"1" 和 "true" 算真
func formBool(c *gin.Context, name string) int {
	v := c.PostForm(name)
	if v == "1" || v == "true" {
		return 1
	}
	return 0
}

// ---------- 列表 ----------

func (h *CatHandler) search(c *gin.Context, unitID *uint) {
	query := h.DB.Model(&models.Cat{}).Select(catColumns)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("adoption_status"); status != "" {
		query = query.Where("COALESCE(adoption_status, '未领养') = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(rescuer_name) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}
	if unitID != nil {
		query = query.Where("unit_id = ?", *unitID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "获取猫咪列表失败")
		return
	}

	page, pageSize := util.ParsePage(c, h.PageSize)
	var cats []models.Cat
	if err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "获取猫咪列表失败")
		return
	}

	c.JSON(http.StatusOK, util.NewPageResult(cats, total, page, pageSize))
}

// List 公开列表，未登录也可访问
func (h *CatHandler) List(c *gin.Context) {
	h.search(c, util.ParseQueryUint(c, "unit_id"))
}

// Manage 管理端列表，非管理员只能看本单位
func (h *CatHandler) Manage(c *gin.Context) {
	user := middleware.MustUser(c)
	if user == nil {
		return
	}

	var unitID *uint
	if !user.IsAdmin() {
		unitID = user.UnitID
	}
	h.search(c, unitID)
}

// ---------- 创建 ----------

func (h *CatHandler) Create(c *gin.Context) {
	user := middleware.MustUser(c)
	if user == nil {
		return
	}

	category := c.PostForm("category")
	name := c.PostForm("name")
	gender := c.PostForm("gender")
	rescuerName := c.PostForm("rescuer_name")
	phone := c.PostForm("phone")
	rescueDateStr := c.PostForm("rescue_date")
	rescueLocation := c.PostForm("rescue_location")
	rescueProcess := c.PostForm("rescue_process")

	if category == "" || name == "" || gender == "" || rescuerName == "" ||
		phone == "" || rescueDateStr == "" || rescueLocation == "" || rescueProcess == "" {
		util.Error(c, http.StatusBadRequest, "缺少必填字段")
		return
	}

	if n := utf8.RuneCountInString(rescueProcess); n < 20 || n > 200 {
		util.Error(c, http.StatusBadRequest, "救助过程描述必须在20-200字之间")
		return
	}

	ageMonths, err := strconv.Atoi(c.PostForm("age_months"))
	if err != nil || ageMonths <= 0 {
		util.Error(c, http.StatusBadRequest, "年龄必须大于等于0")
		return
	}

	rescueDate, err := time.Parse("2006-01-02", rescueDateStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "救助日期格式错误")
		return
	}

	photo, ok := readImageFile(c, "photo", "照片")
	if !ok {
		return
	}
	proof, ok := readImageFile(c, "vaccination_proof", "免疫证明")
	if !ok {
		return
	}

	// 单位归属：表单优先，否则落到当前用户的单位
	unitID := user.UnitID
	if raw := c.PostForm("unit_id"); raw != "" {
		v, perr := strconv.ParseUint(raw, 10, 64)
		if perr == nil && v > 0 {
			selected := uint(v)
			if !user.IsAdmin() && !user.SameUnit(&selected) {
				util.Error(c, http.StatusForbidden, "普通用户只能为本单位添加猫咪")
				return
			}
			unitID = &selected
		}
	}

	cat := models.Cat{
		Category:         category,
		Name:             name,
		Gender:           gender,
		AgeMonths:        ageMonths,
		IsVaccinated:     formBool(c, "is_vaccinated"),
		IsDewormed:       formBool(c, "is_dewormed"),
		IsNeutered:       formBool(c, "is_neutered"),
		IsPlaced:         formBool(c, "is_placed"),
		RescuerName:      rescuerName,
		Phone:            phone,
		RescueDate:       rescueDate,
		RescueLocation:   rescueLocation,
		RescueProcess:    rescueProcess,
		AdoptionLocation: c.PostForm("adoption_location"),
		CurrentStatus:    c.PostForm("current_status"),
		UnitID:           unitID,
	}
	if photo != nil {
		cat.PhotoData = photo.Data
		cat.PhotoMimeType = photo.MimeType
	}
	if proof != nil {
		cat.VaccinationProofData = proof.Data
		cat.VaccinationProofMimeType = proof.MimeType
	}

	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "创建猫咪失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      cat.ID,
		"message": "创建成功",
	})
}

// ---------- 详情 ----------

func (h *CatHandler) getByID(id uint) (*models.Cat, error) {
	var cat models.Cat
	err := h.DB.Model(&models.Cat{}).Select(catColumns).
		Where("cats.id = ?", id).Take(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (h *CatHandler) Get(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	cat, err := h.getByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该猫咪信息")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询猫咪失败")
		}
		return
	}

	c.JSON(http.StatusOK, cat)
}

// ---------- 图片 ----------

func (h *CatHandler) servePhoto(c *gin.Context, dataColumn, mimeColumn string) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var row struct {
		Data     []byte
		MimeType string
	}
	err := h.DB.Model(&models.Cat{}).
		Select(dataColumn+" AS data, "+mimeColumn+" AS mime_type").
		Where("id = ?", id).Take(&row).Error
	if err != nil || len(row.Data) == 0 {
		util.Error(c, http.StatusNotFound, "图片不存在")
		return
	}
	if row.MimeType == "" {
		row.MimeType = "image/jpeg"
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.Data(http.StatusOK, row.MimeType, row.Data)
}

// Photo 猫咪照片
func (h *CatHandler) Photo(c *gin.Context) {
	h.servePhoto(c, "photo_data", "photo_mime_type")
}

// VaccinationProof 免疫证明图片
func (h *CatHandler) VaccinationProof(c *gin.Context) {
	h.servePhoto(c, "vaccination_proof_data", "vaccination_proof_mime_type")
}

// ---------- 领养申请 ----------

// Applications 某只猫的领养申请列表
func (h *CatHandler) Applications(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	var apps []models.AdoptionApplication
	if err := h.DB.Where("cat_id = ?", id).
		Order("created_at DESC").Find(&apps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询领养申请失败")
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ---------- 更新 ----------

// mustOwnCat 非管理员只能操作本单位的猫咪
func (h *CatHandler) mustOwnCat(c *gin.Context, user *auth.User, id uint, denyMsg string) bool {
	if user.IsAdmin() {
		return true
	}

	var cat models.Cat
	err := h.DB.Select("id, unit_id").Take(&cat, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "未找到该猫咪信息")
		} else {
			util.Error(c, http.StatusInternalServerError, "查询猫咪失败")
		}
		return false
	}
	if !user.SameUnit(cat.UnitID) {
		util.Error(c, http.StatusForbidden, denyMsg)
		return false
	}
	return true
}

func (h *CatHandler) Update(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	user := middleware.MustUser(c)
	if user == nil {
		return
	}
	if !h.mustOwnCat(c, user, id, "无权编辑该猫咪信息") {
		return
	}

	if process, ok := c.GetPostForm("rescue_process"); ok {
		if n := utf8.RuneCountInString(process); n < 20 || n > 200 {
			util.Error(c, http.StatusBadRequest, "救助过程描述必须在20-200字之间")
			return
		}
	}

	photo, ok := readImageFile(c, "photo", "照片")
	if !ok {
		return
	}
	proof, ok := readImageFile(c, "vaccination_proof", "免疫证明")
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	for _, field := range []string{
		"category", "name", "gender", "rescuer_name", "phone",
		"rescue_location", "rescue_process", "adoption_location",
		"current_status", "adoption_status",
	} {
		if v, exists := c.GetPostForm(field); exists {
			updates[field] = v
		}
	}
	if v, exists := c.GetPostForm("age_months"); exists {
		age, _ := strconv.Atoi(v)
		updates["age_months"] = age
	}
	if v, exists := c.GetPostForm("rescue_date"); exists {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "救助日期格式错误")
			return
		}
		updates["rescue_date"] = date
	}
	for _, field := range []string{"is_vaccinated", "is_dewormed", "is_neutered", "is_placed"} {
		if _, exists := c.GetPostForm(field); exists {
			updates[field] = formBool(c, field)
		}
	}
	if photo != nil {
		updates["photo_data"] = photo.Data
		updates["photo_mime_type"] = photo.MimeType
	}
	if proof != nil {
		updates["vaccination_proof_data"] = proof.Data
		updates["vaccination_proof_mime_type"] = proof.MimeType
	}

	if len(updates) > 0 {
		result := h.DB.Model(&models.Cat{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			util.Error(c, http.StatusInternalServerError, "更新猫咪失败")
			return
		}
		if result.RowsAffected == 0 {
			util.Error(c, http.StatusNotFound, "未找到该猫咪信息")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
	})
}

// ---------- 删除 ----------

func (h *CatHandler) Delete(c *gin.Context) {
	id := util.ParseID(c, "id")
	if id == 0 {
		util.Error(c, http.StatusBadRequest, "缺少ID参数")
		return
	}

	user := middleware.MustUser(c)
	if user == nil {
		return
	}
	if !h.mustOwnCat(c, user, id, "无权删除该猫咪信息") {
		return
	}

	result := h.DB.Delete(&models.Cat{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, "删除猫咪失败")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "未找到该猫咪信息")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
