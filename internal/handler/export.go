package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/qilimazhualuo/cat-rescue/internal/middleware"
	"github.com/qilimazhualuo/cat-rescue/internal/models"
	"github.com/qilimazhualuo/cat-rescue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 负责猫咪档案导出
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// exportScope 非管理员只导出本单位的数据
func (h *ExportHandler) exportScope(c *gin.Context) (*gorm.DB, bool) {
	user := middleware.MustUser(c)
	if user == nil {
		return nil, false
	}

	query := h.DB.Model(&models.Cat{}).Order("created_at DESC")
	if !user.IsAdmin() {
		if user.UnitID == nil {
			query = query.Where("1 = 0")
		} else {
			query = query.Where("unit_id = ?", *user.UnitID)
		}
	}
	return query, true
}

func yesNo(v int) string {
	if v == 1 {
		return "是"
	}
	return "否"
}

func catRow(cat *models.Cat) []string {
	status := cat.AdoptionStatus
	if status == "" {
		status = "未领养"
	}
	return []string{
		cat.Name,
		cat.Category,
		cat.Gender,
		fmt.Sprintf("%d", cat.AgeMonths),
		yesNo(cat.IsVaccinated),
		yesNo(cat.IsDewormed),
		yesNo(cat.IsNeutered),
		status,
		cat.RescuerName,
		cat.Phone,
		cat.RescueDate.Format("2006-01-02"),
		cat.RescueLocation,
		cat.CurrentStatus,
	}
}

var catExportHeaders = []string{
	"名称", "品类", "性别", "月龄", "已免疫", "已驱虫", "已绝育",
	"领养状态", "救助人", "联系电话", "救助日期", "救助地点", "当前状态",
}

// ExportCSV 导出猫咪档案为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	query, ok := h.exportScope(c)
	if !ok {
		return
	}

	var cats []models.Cat
	if err := query.Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询猫咪失败")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"cats_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(catExportHeaders)
	for i := range cats {
		writer.Write(catRow(&cats[i]))
	}
}

// ExportXLSX 导出猫咪档案为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	query, ok := h.exportScope(c)
	if !ok {
		return
	}

	var cats []models.Cat
	if err := query.Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "查询猫咪失败")
		return
	}

	f := excelize.NewFile()
	sheetName := "猫咪档案"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	for i, header := range catExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range cats {
		row := idx + 2
		for col, value := range catRow(&cats[idx]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "C", 12)
	f.SetColWidth(sheetName, "I", "M", 16)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"cats_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "导出失败")
	}
}
