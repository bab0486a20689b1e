package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	pkgerrors "github.com/khaifmono/memberbase/pkg/errors"
)

var (
	ErrMemberNotFound = errors.New("会员不存在")
	ErrInvalidClass   = errors.New("班级不存在")
)

// MemberService 会员目录与资料维护业务接口
type MemberService interface {
	Get(ctx context.Context, id uint) (*dto.MemberWithClasses, error)
	List(ctx context.Context, req *dto.MemberListRequest) (*dto.MemberListResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateMemberRequest, adminID uint) (*model.Member, error)
	UpdateSelf(ctx context.Context, memberID uint, req *dto.UpdateSelfRequest) (*model.Member, error)
	Delete(ctx context.Context, id uint, adminID uint) error
	Stats(ctx context.Context) (*dto.MemberStatsResponse, error)
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── 查询 ──────────────────────

func (s *memberService) Get(ctx context.Context, id uint) (*dto.MemberWithClasses, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询会员失败", zap.Uint("member_id", id), zap.Error(err))
		return nil, err
	}

	classIDs, err := s.repo.Member.ClassIDs(ctx, id)
	if err != nil {
		s.logger.Error("查询会员班级失败", zap.Uint("member_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.MemberWithClasses{Member: *member, Classes: classIDs}, nil
}

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) (*dto.MemberListResponse, error) {
	page, limit := req.GetPage(), req.GetLimit()
	filter := repository.MemberFilter{
		Search:  strings.TrimSpace(req.Search),
		ClassID: req.ClassID,
	}

	members, total, err := s.repo.Member.List(ctx, filter, req.GetOffset(), limit)
	if err != nil {
		s.logger.Error("查询会员列表失败", zap.Error(err))
		return nil, err
	}

	ids := make([]uint, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	classMap, err := s.repo.Member.ClassIDsByMembers(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询会员班级失败", zap.Error(err))
		return nil, err
	}

	data := make([]dto.MemberWithClasses, len(members))
	for i := range members {
		classes := classMap[members[i].ID]
		if classes == nil {
			classes = []uint{}
		}
		data[i] = dto.MemberWithClasses{Member: members[i], Classes: classes}
	}

	return &dto.MemberListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		TotalPages: dto.TotalPages(total, limit),
	}, nil
}

func (s *memberService) Stats(ctx context.Context) (*dto.MemberStatsResponse, error) {
	stats, err := s.repo.Member.Stats(ctx)
	if err != nil {
		s.logger.Error("查询会员统计失败", zap.Error(err))
		return nil, err
	}
	return &dto.MemberStatsResponse{
		Total:      stats.Total,
		Registered: stats.Registered,
		Pending:    stats.Total - stats.Registered,
	}, nil
}

// ────────────────────── 更新 ──────────────────────

// Update 管理员更新会员；字段、班级关联与审计日志在同一事务中完成
func (s *memberService) Update(ctx context.Context, id uint, req *dto.UpdateMemberRequest, adminID uint) (*model.Member, error) {
	var updated *model.Member
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.Member.GetByID(ctx, id)
		if err != nil {
			return err
		}

		fields := profileFieldMap(&req.MemberProfileFields)

		if req.ICNumber != nil {
			ic := strings.TrimSpace(*req.ICNumber)
			if ic != current.ICNumber {
				if err := ensureICAvailable(ctx, tx, ic, id); err != nil {
					return err
				}
				fields["ic_number"] = ic
			}
		}
		if req.Email != nil {
			email := normalizeEmail(*req.Email)
			if email != current.Email {
				if err := ensureEmailAvailable(ctx, tx, email, id); err != nil {
					return err
				}
				fields["email"] = email
			}
		}

		changed := fieldNames(fields)
		if err := s.applyUpdate(ctx, tx, id, fields, req.ClassIDs); err != nil {
			return err
		}

		details := map[string]interface{}{"fields": changed}
		if req.ClassIDs != nil {
			details["classIds"] = dedupeIDs(*req.ClassIDs)
		}
		if err := recordAudit(ctx, tx, adminID, model.AuditActionUpdateMember, model.AuditTargetMember, id, details); err != nil {
			return err
		}

		updated, err = tx.Member.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError(err, id)
	}
	return updated, nil
}

// UpdateSelf 会员自助更新；IC、邮箱与注册状态不可修改，不写审计日志
func (s *memberService) UpdateSelf(ctx context.Context, memberID uint, req *dto.UpdateSelfRequest) (*model.Member, error) {
	var updated *model.Member
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.Member.GetByID(ctx, memberID)
		if err != nil {
			return err
		}

		fields := profileFieldMap(&req.MemberProfileFields)
		if req.PDPAConsent != nil && *req.PDPAConsent && current.PDPAConsentAt == nil {
			fields["pdpa_consent_at"] = s.now()
		}

		if err := s.applyUpdate(ctx, tx, memberID, fields, req.ClassIDs); err != nil {
			return err
		}

		updated, err = tx.Member.GetByID(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError(err, memberID)
	}
	return updated, nil
}

// applyUpdate 写入字段（总是刷新 updated_at），classIDs 非 nil 时整体替换班级关联
func (s *memberService) applyUpdate(ctx context.Context, tx *repository.Repository, id uint, fields map[string]interface{}, classIDs *[]uint) error {
	fields["updated_at"] = s.now()
	if err := tx.Member.UpdateFields(ctx, id, fields); err != nil {
		return err
	}

	if classIDs != nil {
		if err := tx.Member.ReplaceClasses(ctx, id, dedupeIDs(*classIDs)); err != nil {
			if pkgerrors.IsForeignKey(err) {
				return ErrInvalidClass
			}
			return err
		}
	}
	return nil
}

// ────────────────────── 删除 ──────────────────────

// Delete 删除会员及其班级关联并写审计日志；会员不存在时不写审计
func (s *memberService) Delete(ctx context.Context, id uint, adminID uint) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		member, err := tx.Member.GetByID(ctx, id)
		if err != nil {
			return err
		}

		affected, err := tx.Member.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrMemberNotFound
		}

		return recordAudit(ctx, tx, adminID, model.AuditActionDeleteMember, model.AuditTargetMember, id,
			map[string]interface{}{"ic": member.ICNumber})
	})
	if err != nil {
		return s.mapWriteError(err, id)
	}
	return nil
}

// ── 内部辅助方法 ──

// mapWriteError 将写操作中的存储错误转换为业务错误
func (s *memberService) mapWriteError(err error, id uint) error {
	switch {
	case pkgerrors.IsNotFound(err), errors.Is(err, ErrMemberNotFound):
		return ErrMemberNotFound
	case errors.Is(err, ErrInvalidClass), pkgerrors.IsForeignKey(err):
		return ErrInvalidClass
	case errors.Is(err, ErrDuplicateIC), errors.Is(err, ErrEmailExists):
		return err
	case pkgerrors.IsDuplicate(err):
		return ErrEmailExists
	default:
		s.logger.Error("更新会员失败", zap.Uint("member_id", id), zap.Error(err))
		return err
	}
}

func ensureICAvailable(ctx context.Context, tx *repository.Repository, ic string, selfID uint) error {
	other, err := tx.Member.GetByIC(ctx, ic)
	if err == nil && other.ID != selfID {
		return ErrDuplicateIC
	}
	if err != nil && !pkgerrors.IsNotFound(err) {
		return err
	}
	return nil
}

func ensureEmailAvailable(ctx context.Context, tx *repository.Repository, email string, selfID uint) error {
	other, err := tx.Member.GetByEmail(ctx, email)
	if err == nil && other.ID != selfID {
		return ErrEmailExists
	}
	if err != nil && !pkgerrors.IsNotFound(err) {
		return err
	}
	return nil
}

// profileFieldMap 只收集请求中出现的字段（列名 -> 值）
func profileFieldMap(p *dto.MemberProfileFields) map[string]interface{} {
	fields := make(map[string]interface{})
	setStr := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setBool := func(col string, v *bool) {
		if v != nil {
			fields[col] = *v
		}
	}

	setStr("full_name", p.FullName)
	setStr("nickname", p.Nickname)
	setStr("gender", p.Gender)
	setStr("dob", p.DOB)
	setStr("phone", p.Phone)
	setStr("address", p.Address)
	setStr("postcode", p.Postcode)
	setStr("city", p.City)
	setStr("state", p.State)
	setStr("occupation", p.Occupation)
	setStr("employer_name", p.EmployerName)
	setStr("employer_address", p.EmployerAddress)
	setStr("kin_name", p.KinName)
	setStr("kin_relation", p.KinRelation)
	setStr("kin_phone", p.KinPhone)
	setBool("has_silat_experience", p.HasSilatExperience)
	setStr("silat_experience_details", p.SilatExperienceDetails)
	setBool("completed_cekak", p.CompletedCekak)

	return fields
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// dedupeIDs 去重并保持原有顺序
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
