package leavepolicy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/audit"
	leavepolicyerrors "github.com/dashpratyush277/hrms-1/internal/leavepolicy/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavepolicy_service.go -destination=mock/leavepolicy_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID, actorID string, req CreateLeavePolicyRequest) (LeavePolicyResponse, error)
	GetAll(ctx context.Context, tenantID string, leaveTypeID *string) ([]LeavePolicyResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LeavePolicyResponse, error)
	Update(ctx context.Context, tenantID, actorID, id string, req UpdateLeavePolicyRequest) (LeavePolicyResponse, error)
	Delete(ctx context.Context, tenantID, actorID, id string) error
	// GetActivePolicy resolves the policy effective at asOf; zero asOf means now.
	GetActivePolicy(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	auditLog audit.Logger
	logger   *zap.Logger

	// Active-policy lookups are hot on every apply; collapse concurrent
	// reads per (tenant, type) and serve from cache until a write lands.
	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*LeavePolicy
}

func NewService(db *gorm.DB, repo Repository, auditLog audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavepolicy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavepolicy.service")
	}
	if auditLog == nil {
		auditLog = audit.NopLogger{}
	}
	return &service{
		db:       db,
		repo:     repo,
		auditLog: auditLog,
		logger:   l,
		cache:    make(map[string]*LeavePolicy),
	}
}

func (s *service) Create(ctx context.Context, tenantID, actorID string, req CreateLeavePolicyRequest) (LeavePolicyResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeavePolicyResponse{}, leavepolicyerrors.ErrInvalidTenantID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeavePolicyResponse{}, leavepolicyerrors.ErrLeaveTypeNotFound
	}

	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return LeavePolicyResponse{}, err
	}
	effectiveTo, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return LeavePolicyResponse{}, err
	}
	if effectiveTo != nil && effectiveTo.Before(effectiveFrom) {
		return LeavePolicyResponse{}, leavepolicyerrors.ErrInvalidEffectiveWindow
	}
	lapsingDate, err := parseOptionalDate(req.LapsingDate)
	if err != nil {
		return LeavePolicyResponse{}, err
	}

	p := &LeavePolicy{
		ID:                  uuid.New(),
		TenantID:            tenantUUID,
		LeaveTypeID:         leaveTypeUUID,
		Name:                req.Name,
		AccrualType:         accrualOrAnnual(req.AccrualType),
		AccrualDays:         req.AccrualDays,
		AccrualPeriod:       intOrDefault(req.AccrualPeriod, 12),
		ProratedForJoiners:  boolOrDefault(req.ProratedForJoiners, true),
		CarryForwardEnabled: req.CarryForwardEnabled,
		CarryForwardLimit:   req.CarryForwardLimit,
		CarryForwardExpiry:  req.CarryForwardExpiry,
		EncashmentEnabled:   req.EncashmentEnabled,
		EncashmentLimit:     req.EncashmentLimit,
		LapsingEnabled:      req.LapsingEnabled,
		LapsingDate:         lapsingDate,
		LocationFilter:      req.LocationFilter,
		GradeFilter:         req.GradeFilter,
		EffectiveFrom:       effectiveFrom,
		EffectiveTo:         effectiveTo,
		IsDefault:           req.IsDefault,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.LeaveTypeExists(ctx, tenantID, req.LeaveTypeID)
		if err != nil {
			return err
		}
		if !exists {
			return leavepolicyerrors.ErrLeaveTypeNotFound
		}

		// Defaults swap atomically with the insert: at no committed point
		// do two defaults exist for the same (tenant, type).
		if req.IsDefault {
			if err := qtx.ClearDefaults(ctx, tenantID, req.LeaveTypeID); err != nil {
				return err
			}
		}

		return qtx.Create(ctx, p)
	})
	if err != nil {
		s.logger.Warn("create leave policy failed",
			zap.String("tenant_id", tenantID),
			zap.String("leave_type_id", req.LeaveTypeID),
			zap.Error(err),
		)
		return LeavePolicyResponse{}, err
	}

	s.invalidate(tenantID, req.LeaveTypeID)
	s.logger.Info("leave policy created",
		zap.String("policy_id", p.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.Bool("is_default", p.IsDefault),
	)
	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionCreate,
		EntityType: "LeavePolicy",
		EntityID:   p.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		NewValues:  p,
	})

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, leaveTypeID *string) ([]LeavePolicyResponse, error) {
	policies, err := s.repo.FindAllByTenant(ctx, tenantID, leaveTypeID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeavePolicyResponse, len(policies))
	for i, p := range policies {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeavePolicyResponse, error) {
	p, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeavePolicyResponse{}, leavepolicyerrors.ErrPolicyNotFound
		}
		return LeavePolicyResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, tenantID, actorID, id string, req UpdateLeavePolicyRequest) (LeavePolicyResponse, error) {
	var updated *LeavePolicy
	var previous LeavePolicy

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavepolicyerrors.ErrPolicyNotFound
			}
			return err
		}
		previous = *p

		if req.IsDefault != nil && *req.IsDefault && !p.IsDefault {
			if err := qtx.ClearDefaults(ctx, tenantID, p.LeaveTypeID.String()); err != nil {
				return err
			}
		}

		if err := applyUpdate(p, req); err != nil {
			return err
		}

		if err := qtx.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return LeavePolicyResponse{}, err
	}

	s.invalidate(tenantID, updated.LeaveTypeID.String())
	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionUpdate,
		EntityType: "LeavePolicy",
		EntityID:   id,
		TenantID:   tenantID,
		ActorID:    actorID,
		OldValues:  previous,
		NewValues:  updated,
	})

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, tenantID, actorID, id string) error {
	var previous LeavePolicy

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavepolicyerrors.ErrPolicyNotFound
			}
			return err
		}
		previous = *p

		return qtx.Delete(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(tenantID, previous.LeaveTypeID.String())
	s.auditLog.Log(ctx, audit.Event{
		Action:     audit.ActionDelete,
		EntityType: "LeavePolicy",
		EntityID:   id,
		TenantID:   tenantID,
		ActorID:    actorID,
		OldValues:  previous,
	})

	return nil
}

func (s *service) GetActivePolicy(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error) {
	// Historical lookups bypass the cache; it only holds "now" resolutions.
	if !asOf.IsZero() {
		return s.findActive(ctx, tenantID, leaveTypeID, asOf)
	}

	key := tenantID + "|" + leaveTypeID

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		p, err := s.findActive(ctx, tenantID, leaveTypeID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LeavePolicy), nil
}

func (s *service) findActive(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error) {
	p, err := s.repo.FindActive(ctx, tenantID, leaveTypeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavepolicyerrors.ErrPolicyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) invalidate(tenantID, leaveTypeID string) {
	key := tenantID + "|" + leaveTypeID
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	s.group.Forget(key)
}

func applyUpdate(p *LeavePolicy, req UpdateLeavePolicyRequest) error {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.AccrualType != nil {
		p.AccrualType = *req.AccrualType
	}
	if req.AccrualDays != nil {
		p.AccrualDays = *req.AccrualDays
	}
	if req.AccrualPeriod != nil {
		p.AccrualPeriod = *req.AccrualPeriod
	}
	if req.ProratedForJoiners != nil {
		p.ProratedForJoiners = *req.ProratedForJoiners
	}
	if req.CarryForwardEnabled != nil {
		p.CarryForwardEnabled = *req.CarryForwardEnabled
	}
	if req.CarryForwardLimit != nil {
		p.CarryForwardLimit = req.CarryForwardLimit
	}
	if req.CarryForwardExpiry != nil {
		p.CarryForwardExpiry = req.CarryForwardExpiry
	}
	if req.EncashmentEnabled != nil {
		p.EncashmentEnabled = *req.EncashmentEnabled
	}
	if req.EncashmentLimit != nil {
		p.EncashmentLimit = req.EncashmentLimit
	}
	if req.LapsingEnabled != nil {
		p.LapsingEnabled = *req.LapsingEnabled
	}
	if req.LapsingDate != nil {
		d, err := parseDate(*req.LapsingDate)
		if err != nil {
			return err
		}
		p.LapsingDate = &d
	}
	if req.LocationFilter != nil {
		p.LocationFilter = req.LocationFilter
	}
	if req.GradeFilter != nil {
		p.GradeFilter = req.GradeFilter
	}
	if req.EffectiveFrom != nil {
		d, err := parseDate(*req.EffectiveFrom)
		if err != nil {
			return err
		}
		p.EffectiveFrom = d
	}
	if req.EffectiveTo != nil {
		d, err := parseDate(*req.EffectiveTo)
		if err != nil {
			return err
		}
		p.EffectiveTo = &d
	}
	if req.IsDefault != nil {
		p.IsDefault = *req.IsDefault
	}
	if p.EffectiveTo != nil && p.EffectiveTo.Before(p.EffectiveFrom) {
		return leavepolicyerrors.ErrInvalidEffectiveWindow
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leavepolicyerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := parseDate(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func accrualOrAnnual(v string) string {
	if v == "" {
		return AccrualAnnual
	}
	return v
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func mapToResponse(p LeavePolicy) LeavePolicyResponse {
	resp := LeavePolicyResponse{
		ID:                  p.ID.String(),
		TenantID:            p.TenantID.String(),
		LeaveTypeID:         p.LeaveTypeID.String(),
		Name:                p.Name,
		AccrualType:         p.AccrualType,
		AccrualDays:         p.AccrualDays,
		AccrualPeriod:       p.AccrualPeriod,
		ProratedForJoiners:  p.ProratedForJoiners,
		CarryForwardEnabled: p.CarryForwardEnabled,
		CarryForwardLimit:   p.CarryForwardLimit,
		CarryForwardExpiry:  p.CarryForwardExpiry,
		EncashmentEnabled:   p.EncashmentEnabled,
		EncashmentLimit:     p.EncashmentLimit,
		LapsingEnabled:      p.LapsingEnabled,
		LocationFilter:      p.LocationFilter,
		GradeFilter:         p.GradeFilter,
		EffectiveFrom:       p.EffectiveFrom.Format("2006-01-02"),
		IsDefault:           p.IsDefault,
	}
	if p.LapsingDate != nil {
		v := p.LapsingDate.Format("2006-01-02")
		resp.LapsingDate = &v
	}
	if p.EffectiveTo != nil {
		v := p.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}
