package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/internal/dto"
)

// ImportMemberRow 导入文件中的一行
type ImportMemberRow struct {
	Row      int
	ICNumber string
	Email    string
	Name     string
}

const maxImportRows = 1000

// importValidator 导入行字段校验
var importValidator = validator.New()

var (
	ErrImportNoData      = errors.New("Excel 文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel 表头缺少必要列（IC / Email）")
	ErrImportBadFile     = errors.New("无法解析 Excel 文件")
)

// ParseImportFile 解析预登记 Excel 文件（第一个工作表，第一行为表头）
func (s *registrationService) ParseImportFile(reader io.Reader) ([]ImportMemberRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["ic"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportMemberRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportMemberRow{Row: i + 1}

		if idx := colIndex["ic"]; idx < len(row) {
			item.ICNumber = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["email"]; idx < len(row) {
			item.Email = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["name"]; idx >= 0 && idx < len(row) {
			item.Name = strings.TrimSpace(row[idx])
		}

		// 跳过全空行
		if item.ICNumber == "" && item.Email == "" && item.Name == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"ic":    -1,
		"email": -1,
		"name":  -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "ic", "ic number", "icnumber", "ic_number", "no. ic", "no ic":
			idx["ic"] = i
		case "email", "e-mail", "emel":
			idx["email"] = i
		case "name", "full name", "fullname", "nama":
			idx["name"] = i
		}
	}
	return idx
}

// ImportPreRegistrations 逐行预登记；每行独立事务，失败行不影响其他行
func (s *registrationService) ImportPreRegistrations(ctx context.Context, rows []ImportMemberRow, adminID uint) (*dto.ImportMemberResponse, error) {
	resp := &dto.ImportMemberResponse{Total: len(rows)}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportMemberError{Row: row, Reason: reason})
	}

	for _, row := range rows {
		if row.ICNumber == "" || row.Email == "" {
			fail(row.Row, "IC and email are required")
			continue
		}
		if importValidator.Var(row.Email, "email") != nil {
			fail(row.Row, fmt.Sprintf("invalid email: %s", row.Email))
			continue
		}

		req := &dto.PreRegisterRequest{ICNumber: row.ICNumber, Email: row.Email}
		if row.Name != "" {
			name := row.Name
			req.Name = &name
		}

		_, err := s.PreRegister(ctx, req, adminID)
		switch {
		case err == nil:
			resp.Success++
		case errors.Is(err, ErrDuplicateIC):
			fail(row.Row, fmt.Sprintf("IC already exists: %s", row.ICNumber))
		case errors.Is(err, ErrEmailExists):
			fail(row.Row, fmt.Sprintf("email already in use: %s", row.Email))
		default:
			s.logger.Error("导入预登记失败", zap.Int("row", row.Row), zap.Error(err))
			return nil, fmt.Errorf("第 %d 行写入数据库失败: %w", row.Row, err)
		}
	}

	return resp, nil
}
