package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
)

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// exportHeader 导出列：IC / 姓名 / 邮箱
var exportHeader = []string{"IC", "Name", "Email"}

// ExportService 会员导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCSV 导出全部会员为 CSV（按创建时间倒序）
	ExportCSV(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportXLSX 导出全部会员为 Excel
	ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) ExportCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	members, err := s.loadMembers(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	for i := range members {
		if err := w.Write(exportRow(&members[i])); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "members.csv", nil
}

func (s *exportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	members, err := s.loadMembers(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	for i := range members {
		row := exportRow(&members[i])
		if err := f.SetSheetRow(sheet, cell(1, i+2), &row); err != nil {
			s.logger.Error("写入 Excel 行失败", zap.Int("row", i+2), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	// 表头加粗并冻结首行
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "C1", style)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	_ = f.SetColWidth(sheet, "A", "C", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("members_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) loadMembers(ctx context.Context) ([]model.Member, error) {
	members, err := s.repo.Member.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询导出会员失败", zap.Error(err))
		return nil, err
	}
	return members, nil
}

func exportRow(m *model.Member) []string {
	return []string{m.ICNumber, m.DisplayName(), m.Email}
}

// cell 由列号（从 1 开始）与行号生成单元格名称
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
