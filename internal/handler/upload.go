package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler 负责通用图片上传与读取
type UploadHandler struct {
	Dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{Dir: dir}
}

var uploadContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload 接收单个图片文件，存盘后返回访问地址。
// 不限定字段名，取表单里的第一个文件。
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		form, ferr := c.MultipartForm()
		if ferr != nil {
			util.Error(c, http.StatusBadRequest, "没有上传文件")
			return
		}
		for _, files := range form.File {
			if len(files) > 0 {
				header = files[0]
				break
			}
		}
		if header == nil {
			util.Error(c, http.StatusBadRequest, "没有上传文件")
			return
		}
	}
	if header.Filename == "" {
		util.Error(c, http.StatusBadRequest, "文件格式错误")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		util.Error(c, http.StatusBadRequest, "只支持图片格式：jpg, png, gif, webp")
		return
	}
	if header.Size > maxImageSize {
		util.Error(c, http.StatusBadRequest, "文件大小不能超过 5MB")
		return
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(header, filepath.Join(h.Dir, filename)); err != nil {
		util.Error(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      "/api/uploads/" + filename,
		"filename": header.Filename,
		"size":     header.Size,
	})
}

// Serve 按文件名回读上传的文件
func (h *UploadHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		util.Error(c, http.StatusBadRequest, "缺少文件名")
		return
	}
	// 防止目录穿越
	if filename != filepath.Base(filename) {
		util.Error(c, http.StatusBadRequest, "缺少文件名")
		return
	}

	path := filepath.Join(h.Dir, filename)
	if _, err := os.Stat(path); err != nil {
		util.Error(c, http.StatusNotFound, "文件不存在")
		return
	}

	contentType := uploadContentTypes[strings.ToLower(filepath.Ext(filename))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}
