package leavetype

import (
	"context"
	"errors"

	"github.com/dashpratyush277/hrms-1/internal/audit"
	leavetypeerrors "github.com/dashpratyush277/hrms-1/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID, actorID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, tenantID, actorID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, tenantID, actorID, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	auditLog audit.Logger
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, auditLog audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	if auditLog == nil {
		auditLog = audit.NopLogger{}
	}
	return &service{db: db, repo: repo, auditLog: auditLog, logger: l}
}

func (s *service) Create(ctx context.Context, tenantID, actorID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidTenantID
	}

	lt := &LeaveType{
		ID:                  uuid.New(),
		TenantID:            tenantUUID,
		Name:                req.Name,
		Code:                req.Code,
		MaxDays:             req.MaxDays,
		CarryForward:        req.CarryForward,
		CarryForwardLimit:   req.CarryForwardLimit,
		RequiresApproval:    boolOrDefault(req.RequiresApproval, true),
		IsPaid:              boolOrDefault(req.IsPaid, true),
		HalfDayAllowed:      req.HalfDayAllowed,
		AttachmentRequired:  req.AttachmentRequired,
		MaxDaysPerRequest:   req.MaxDaysPerRequest,
		GenderEligibility:   genderOrAll(req.GenderEligibility),
		LocationEligibility: req.LocationEligibility,
		GradeEligibility:    req.GradeEligibility,
		IsActive:            boolOrDefault(req.IsActive, true),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.CodeExists(ctx, tenantID, req.Code, nil)
		if err != nil {
			return err
		}
		if exists {
			return leavetypeerrors.ErrDuplicateCode
		}

		return qtx.Create(ctx, lt)
	})
	if err != nil {
		s.logger.Warn("create leave type failed",
			zap.String("tenant_id", tenantID),
			zap.String("code", req.Code),
			zap.Error(err),
		)
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("leave type created",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("code", lt.Code),
	)
	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionCreate,
		EntityType: "LeaveType",
		EntityID:   lt.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		NewValues:  lt,
	})

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, tenantID, actorID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	var updated *LeaveType
	var previous LeaveType

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lt, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		previous = *lt

		if req.Code != nil && *req.Code != lt.Code {
			exists, err := qtx.CodeExists(ctx, tenantID, *req.Code, &id)
			if err != nil {
				return err
			}
			if exists {
				return leavetypeerrors.ErrDuplicateCode
			}
			lt.Code = *req.Code
		}

		if req.Name != nil {
			lt.Name = *req.Name
		}
		if req.MaxDays != nil {
			lt.MaxDays = req.MaxDays
		}
		if req.CarryForward != nil {
			lt.CarryForward = *req.CarryForward
		}
		if req.CarryForwardLimit != nil {
			lt.CarryForwardLimit = req.CarryForwardLimit
		}
		if req.RequiresApproval != nil {
			lt.RequiresApproval = *req.RequiresApproval
		}
		if req.IsPaid != nil {
			lt.IsPaid = *req.IsPaid
		}
		if req.HalfDayAllowed != nil {
			lt.HalfDayAllowed = *req.HalfDayAllowed
		}
		if req.AttachmentRequired != nil {
			lt.AttachmentRequired = *req.AttachmentRequired
		}
		if req.MaxDaysPerRequest != nil {
			lt.MaxDaysPerRequest = req.MaxDaysPerRequest
		}
		if req.GenderEligibility != nil {
			lt.GenderEligibility = *req.GenderEligibility
		}
		if req.LocationEligibility != nil {
			lt.LocationEligibility = req.LocationEligibility
		}
		if req.GradeEligibility != nil {
			lt.GradeEligibility = req.GradeEligibility
		}
		if req.IsActive != nil {
			lt.IsActive = *req.IsActive
		}

		if err := qtx.Update(ctx, lt); err != nil {
			return err
		}
		updated = lt
		return nil
	})
	if err != nil {
		return LeaveTypeResponse{}, err
	}

	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionUpdate,
		EntityType: "LeaveType",
		EntityID:   id,
		TenantID:   tenantID,
		ActorID:    actorID,
		OldValues:  previous,
		NewValues:  updated,
	})

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, tenantID, actorID, id string) error {
	var previous LeaveType

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lt, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		previous = *lt

		inUse, err := qtx.HasApplications(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if inUse {
			return leavetypeerrors.ErrTypeInUse
		}

		return qtx.Delete(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("leave type deleted",
		zap.String("leave_type_id", id),
		zap.String("tenant_id", tenantID),
	)
	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionDelete,
		EntityType: "LeaveType",
		EntityID:   id,
		TenantID:   tenantID,
		ActorID:    actorID,
		OldValues:  previous,
	})

	return nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func genderOrAll(v string) string {
	if v == "" {
		return GenderAll
	}
	return v
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                  lt.ID.String(),
		TenantID:            lt.TenantID.String(),
		Name:                lt.Name,
		Code:                lt.Code,
		MaxDays:             lt.MaxDays,
		CarryForward:        lt.CarryForward,
		CarryForwardLimit:   lt.CarryForwardLimit,
		RequiresApproval:    lt.RequiresApproval,
		IsPaid:              lt.IsPaid,
		HalfDayAllowed:      lt.HalfDayAllowed,
		AttachmentRequired:  lt.AttachmentRequired,
		MaxDaysPerRequest:   lt.MaxDaysPerRequest,
		GenderEligibility:   lt.GenderEligibility,
		LocationEligibility: lt.LocationEligibility,
		GradeEligibility:    lt.GradeEligibility,
		IsActive:            lt.IsActive,
	}
}
