package leave

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/audit"
	"github.com/dashpratyush277/hrms-1/internal/employee"
	"github.com/dashpratyush277/hrms-1/internal/events"
	leaveerrors "github.com/dashpratyush277/hrms-1/internal/leave/errors"
	"github.com/dashpratyush277/hrms-1/internal/leavebalance"
	"github.com/dashpratyush277/hrms-1/internal/leavetype"
	leavetypeerrors "github.com/dashpratyush277/hrms-1/internal/leavetype/errors"
	"github.com/dashpratyush277/hrms-1/internal/messaging/kafka"
	"github.com/dashpratyush277/hrms-1/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemActor is the identity recorded on auto-approvals.
const SystemActor = "SYSTEM"

const autoApproveComment = "Auto-approved"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, tenantID, actorID string, req ApplyLeaveRequest) (LeaveApplicationResponse, error)
	Edit(ctx context.Context, tenantID, actorID, id string, req EditLeaveRequest) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, tenantID, actorID, id string, req CancelLeaveRequest) (LeaveApplicationResponse, error)
	Approve(ctx context.Context, tenantID, actorID, id string, req ApproveLeaveRequest) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, tenantID, actorID, id string, req RejectLeaveRequest) (LeaveApplicationResponse, error)
	GetAll(ctx context.Context, tenantID string, filter ApplicationFilter) ([]LeaveApplicationResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveApplicationDetail, error)
	// GetTeamApplications lists applications of the manager's direct
	// reports.
	GetTeamApplications(ctx context.Context, tenantID, managerID string, filter ApplicationFilter) ([]LeaveApplicationResponse, int64, error)
	GetBalances(ctx context.Context, tenantID, employeeID string, year int) ([]leavebalance.BalanceResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	typeRepo  leavetype.Repository
	directory employee.Directory
	books     *leavebalance.Books
	balances  leavebalance.Service
	outbox    kafka.OutboxRepository
	auditor   audit.Logger
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	typeRepo leavetype.Repository,
	directory employee.Directory,
	books *leavebalance.Books,
	balances leavebalance.Service,
	outbox kafka.OutboxRepository,
	auditor audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		typeRepo:  typeRepo,
		directory: directory,
		books:     books,
		balances:  balances,
		outbox:    outbox,
		auditor:   auditor,
		logger:    l,
	}
}

func (s *service) Apply(ctx context.Context, tenantID, actorID string, req ApplyLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("tenant_id", tenantID),
		zap.String("actor_id", actorID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidTenantID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	days := computeDays(startDate, endDate, req.IsHalfDay)

	var app *LeaveApplication
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lt, err := s.typeRepo.WithTx(tx).FindByIDAndTenant(ctx, tenantID, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		if err := validateRequestRules(lt, req.IsHalfDay, req.HalfDayType, days, req.Attachments); err != nil {
			return err
		}

		emp, err := s.directory.FindByIDAndTenant(ctx, tenantID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrEmployeeNotFound
			}
			return err
		}

		// Lock the balance row before the availability check. Concurrent
		// applies for the same key queue here and re-read availability,
		// so two requests can never jointly overdraw.
		key := leavebalance.BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  actorID,
			LeaveTypeID: req.LeaveTypeID,
			Year:        startDate.Year(),
		}
		bal, err := s.books.LockBalance(ctx, tx, key)
		if err != nil {
			return err
		}
		if bal.AvailableDays() < days {
			return leaveerrors.ErrInsufficientBalance
		}

		approverID, err := s.resolveApprover(ctx, tenantID, emp)
		if err != nil {
			return err
		}

		app = &LeaveApplication{
			ID:                uuid.New(),
			TenantID:          tenantUUID,
			EmployeeID:        employeeUUID,
			LeaveTypeID:       lt.ID,
			StartDate:         startDate,
			EndDate:           endDate,
			Days:              days,
			IsHalfDay:         req.IsHalfDay,
			HalfDayType:       req.HalfDayType,
			Reason:            req.Reason,
			Attachments:       req.Attachments,
			Status:            StatusPending,
			CurrentApproverID: approverID,
		}
		if err := qtx.Create(ctx, app); err != nil {
			return err
		}

		if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
			TenantID:           tenantUUID,
			EmployeeID:         employeeUUID,
			LeaveTypeID:        lt.ID,
			LeaveApplicationID: &app.ID,
			TransactionType:    leavebalance.TxApplication,
			Days:               days,
			Year:               startDate.Year(),
			EffectiveDate:      startDate,
			Description:        "Leave application",
			CreatedBy:          actorID,
		}); err != nil {
			return err
		}

		if !lt.RequiresApproval {
			comment := autoApproveComment
			if err := s.approveLocked(ctx, tx, qtx, app, SystemActor, &comment); err != nil {
				return err
			}
		}

		eventType := events.LeaveApplied
		if app.Status == StatusApproved {
			eventType = events.LeaveApproved
		}
		return s.appendOutbox(ctx, tx, eventType, app)
	})
	if err != nil {
		s.logger.Warn("apply leave failed",
			zap.String("tenant_id", tenantID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		Action:     audit.ActionCreate,
		EntityType: "leave_application",
		EntityID:   app.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		EmployeeID: actorID,
		NewValues:  mapToResponse(*app),
	})
	s.logger.Info("apply leave success",
		zap.String("application_id", app.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("status", app.Status),
		zap.Float64("days", days),
	)
	return mapToResponse(*app), nil
}

func (s *service) Edit(ctx context.Context, tenantID, actorID, id string, req EditLeaveRequest) (LeaveApplicationResponse, error) {
	var app *LeaveApplication
	var before LeaveApplicationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		app, err = qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrApplicationNotFound
			}
			return err
		}
		before = mapToResponse(*app)

		if app.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotApplicant
		}
		if app.IsTerminal() {
			return leaveerrors.ErrNotPending
		}

		startDate := app.StartDate
		if req.StartDate != nil {
			if startDate, err = parseDate(*req.StartDate); err != nil {
				return err
			}
		}
		endDate := app.EndDate
		if req.EndDate != nil {
			if endDate, err = parseDate(*req.EndDate); err != nil {
				return err
			}
		}
		if startDate.After(endDate) {
			return leaveerrors.ErrInvalidDateRange
		}

		isHalfDay := app.IsHalfDay
		if req.IsHalfDay != nil {
			isHalfDay = *req.IsHalfDay
		}
		halfDayType := app.HalfDayType
		if req.HalfDayType != nil {
			halfDayType = req.HalfDayType
		}

		lt, err := s.typeRepo.WithTx(tx).FindByIDAndTenant(ctx, tenantID, app.LeaveTypeID.String())
		if err != nil {
			return err
		}

		newDays := computeDays(startDate, endDate, isHalfDay)
		attachments := app.Attachments
		if req.Attachments != nil {
			attachments = req.Attachments
		}
		if err := validateRequestRules(lt, isHalfDay, halfDayType, newDays, attachments); err != nil {
			return err
		}

		oldYear := app.StartDate.Year()
		newYear := startDate.Year()

		key := leavebalance.BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  app.EmployeeID.String(),
			LeaveTypeID: app.LeaveTypeID.String(),
			Year:        newYear,
		}
		bal, err := s.books.LockBalance(ctx, tx, key)
		if err != nil {
			return err
		}

		if newYear != oldYear {
			// The edit moves the leave into another year, so the hold moves
			// between balance rows: release the original days from the old
			// year and place a full hold on the new one. The new row carries
			// none of the original hold, so the whole request needs headroom
			// there.
			if bal.AvailableDays() < newDays {
				return leaveerrors.ErrInsufficientBalance
			}
			if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
				TenantID:           app.TenantID,
				EmployeeID:         app.EmployeeID,
				LeaveTypeID:        app.LeaveTypeID,
				LeaveApplicationID: &app.ID,
				TransactionType:    leavebalance.TxCancellation,
				Days:               -app.Days,
				Year:               oldYear,
				EffectiveDate:      app.StartDate,
				Description:        "Leave application moved to another year",
				CreatedBy:          actorID,
			}); err != nil {
				return err
			}
			if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
				TenantID:           app.TenantID,
				EmployeeID:         app.EmployeeID,
				LeaveTypeID:        app.LeaveTypeID,
				LeaveApplicationID: &app.ID,
				TransactionType:    leavebalance.TxApplication,
				Days:               newDays,
				Year:               newYear,
				EffectiveDate:      startDate,
				Description:        "Leave application edited",
				CreatedBy:          actorID,
			}); err != nil {
				return err
			}
		} else if delta := newDays - app.Days; delta != 0 {
			// Only the increase needs headroom; the original days are already
			// held as pending.
			if delta > 0 && bal.AvailableDays() < delta {
				return leaveerrors.ErrInsufficientBalance
			}
			if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
				TenantID:           app.TenantID,
				EmployeeID:         app.EmployeeID,
				LeaveTypeID:        app.LeaveTypeID,
				LeaveApplicationID: &app.ID,
				TransactionType:    leavebalance.TxApplication,
				Days:               delta,
				Year:               newYear,
				EffectiveDate:      startDate,
				Description:        "Leave application edited",
				CreatedBy:          actorID,
			}); err != nil {
				return err
			}
		}

		app.StartDate = startDate
		app.EndDate = endDate
		app.Days = newDays
		app.IsHalfDay = isHalfDay
		app.HalfDayType = halfDayType
		if req.Reason != nil {
			app.Reason = *req.Reason
		}
		if req.Attachments != nil {
			app.Attachments = req.Attachments
		}

		if err := qtx.Update(ctx, app); err != nil {
			return err
		}
		return s.appendOutbox(ctx, tx, events.LeaveEdited, app)
	})
	if err != nil {
		s.logger.Warn("edit leave failed",
			zap.String("application_id", id),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		Action:     audit.ActionUpdate,
		EntityType: "leave_application",
		EntityID:   app.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		EmployeeID: app.EmployeeID.String(),
		OldValues:  before,
		NewValues:  mapToResponse(*app),
	})
	s.logger.Info("edit leave success",
		zap.String("application_id", id),
		zap.Float64("days", app.Days),
	)
	return mapToResponse(*app), nil
}

func (s *service) Cancel(ctx context.Context, tenantID, actorID, id string, req CancelLeaveRequest) (LeaveApplicationResponse, error) {
	var app *LeaveApplication
	var before LeaveApplicationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		app, err = qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrApplicationNotFound
			}
			return err
		}
		before = mapToResponse(*app)

		if app.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotApplicant
		}
		if app.Status == StatusApproved {
			return leaveerrors.ErrCancelApproved
		}
		if app.Status != StatusPending {
			return leaveerrors.ErrNotPending
		}

		key := leavebalance.BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  app.EmployeeID.String(),
			LeaveTypeID: app.LeaveTypeID.String(),
			Year:        app.StartDate.Year(),
		}
		if _, err := s.books.LockBalance(ctx, tx, key); err != nil {
			return err
		}

		if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
			TenantID:           app.TenantID,
			EmployeeID:         app.EmployeeID,
			LeaveTypeID:        app.LeaveTypeID,
			LeaveApplicationID: &app.ID,
			TransactionType:    leavebalance.TxCancellation,
			Days:               -app.Days,
			Year:               app.StartDate.Year(),
			EffectiveDate:      app.StartDate,
			Description:        "Leave application cancelled",
			CreatedBy:          actorID,
		}); err != nil {
			return err
		}

		actorUUID := app.EmployeeID
		now := time.Now().UTC()
		app.Status = StatusCancelled
		app.CancelledBy = &actorUUID
		app.CancelledAt = &now
		app.CancellationReason = req.CancellationReason

		if err := qtx.Update(ctx, app); err != nil {
			return err
		}
		if err := qtx.AppendHistory(ctx, &LeaveApprovalHistory{
			ID:              uuid.New(),
			TenantID:        app.TenantID,
			ApplicationID:   app.ID,
			ApproverID:      actorID,
			Action:          HistoryActionCancel,
			ResultingStatus: StatusCancelled,
			Comments:        req.CancellationReason,
		}); err != nil {
			return err
		}
		return s.appendOutbox(ctx, tx, events.LeaveCancelled, app)
	})
	if err != nil {
		s.logger.Warn("cancel leave failed",
			zap.String("application_id", id),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		Action:     audit.ActionUpdate,
		EntityType: "leave_application",
		EntityID:   app.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		EmployeeID: app.EmployeeID.String(),
		OldValues:  before,
		NewValues:  mapToResponse(*app),
	})
	s.logger.Info("cancel leave success", zap.String("application_id", id))
	return mapToResponse(*app), nil
}

func (s *service) Approve(ctx context.Context, tenantID, actorID, id string, req ApproveLeaveRequest) (LeaveApplicationResponse, error) {
	var app *LeaveApplication
	var before LeaveApplicationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		app, err = qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrApplicationNotFound
			}
			return err
		}
		before = mapToResponse(*app)

		if err := s.requireApprover(ctx, tenantID, actorID, app); err != nil {
			return err
		}
		if app.IsTerminal() {
			return leaveerrors.ErrAlreadyProcessed
		}

		if err := s.approveLocked(ctx, tx, qtx, app, actorID, req.Comments); err != nil {
			return err
		}
		return s.appendOutbox(ctx, tx, events.LeaveApproved, app)
	})
	if err != nil {
		s.logger.Warn("approve leave failed",
			zap.String("application_id", id),
			zap.String("tenant_id", tenantID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		Action:     audit.ActionApprove,
		EntityType: "leave_application",
		EntityID:   app.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		EmployeeID: app.EmployeeID.String(),
		OldValues:  before,
		NewValues:  mapToResponse(*app),
	})
	s.logger.Info("approve leave success",
		zap.String("application_id", id),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*app), nil
}

// approveLocked performs the APPROVED transition inside the caller's
// transaction. Auto-approval on apply and explicit approval share this
// path.
func (s *service) approveLocked(ctx context.Context, tx *gorm.DB, qtx Repository, app *LeaveApplication, actorID string, comments *string) error {
	key := leavebalance.BalanceKey{
		TenantID:    app.TenantID.String(),
		EmployeeID:  app.EmployeeID.String(),
		LeaveTypeID: app.LeaveTypeID.String(),
		Year:        app.StartDate.Year(),
	}
	if _, err := s.books.LockBalance(ctx, tx, key); err != nil {
		return err
	}

	if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
		TenantID:           app.TenantID,
		EmployeeID:         app.EmployeeID,
		LeaveTypeID:        app.LeaveTypeID,
		LeaveApplicationID: &app.ID,
		TransactionType:    leavebalance.TxApproval,
		Days:               app.Days,
		Year:               app.StartDate.Year(),
		EffectiveDate:      app.StartDate,
		Description:        "Leave application approved",
		CreatedBy:          actorID,
	}); err != nil {
		return err
	}

	now := time.Now().UTC()
	app.Status = StatusApproved
	app.ApprovedAt = &now
	app.Comments = comments
	if approverUUID, err := uuid.Parse(actorID); err == nil {
		app.ApprovedBy = &approverUUID
	}

	if err := qtx.Update(ctx, app); err != nil {
		return err
	}
	return qtx.AppendHistory(ctx, &LeaveApprovalHistory{
		ID:              uuid.New(),
		TenantID:        app.TenantID,
		ApplicationID:   app.ID,
		ApproverID:      actorID,
		Action:          HistoryActionApprove,
		ResultingStatus: StatusApproved,
		Comments:        comments,
	})
}

func (s *service) Reject(ctx context.Context, tenantID, actorID, id string, req RejectLeaveRequest) (LeaveApplicationResponse, error) {
	if req.RejectionReason == "" {
		return LeaveApplicationResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	var app *LeaveApplication
	var before LeaveApplicationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		app, err = qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrApplicationNotFound
			}
			return err
		}
		before = mapToResponse(*app)

		if err := s.requireApprover(ctx, tenantID, actorID, app); err != nil {
			return err
		}
		if app.IsTerminal() {
			return leaveerrors.ErrAlreadyProcessed
		}

		key := leavebalance.BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  app.EmployeeID.String(),
			LeaveTypeID: app.LeaveTypeID.String(),
			Year:        app.StartDate.Year(),
		}
		if _, err := s.books.LockBalance(ctx, tx, key); err != nil {
			return err
		}

		if _, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
			TenantID:           app.TenantID,
			EmployeeID:         app.EmployeeID,
			LeaveTypeID:        app.LeaveTypeID,
			LeaveApplicationID: &app.ID,
			TransactionType:    leavebalance.TxRejection,
			Days:               -app.Days,
			Year:               app.StartDate.Year(),
			EffectiveDate:      app.StartDate,
			Description:        "Leave application rejected",
			CreatedBy:          actorID,
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		app.Status = StatusRejected
		app.RejectedAt = &now
		app.RejectionReason = &req.RejectionReason
		if rejectorUUID, err := uuid.Parse(actorID); err == nil {
			app.RejectedBy = &rejectorUUID
		}

		if err := qtx.Update(ctx, app); err != nil {
			return err
		}
		if err := qtx.AppendHistory(ctx, &LeaveApprovalHistory{
			ID:              uuid.New(),
			TenantID:        app.TenantID,
			ApplicationID:   app.ID,
			ApproverID:      actorID,
			Action:          HistoryActionReject,
			ResultingStatus: StatusRejected,
			Comments:        &req.RejectionReason,
		}); err != nil {
			return err
		}
		return s.appendOutbox(ctx, tx, events.LeaveRejected, app)
	})
	if err != nil {
		s.logger.Warn("reject leave failed",
			zap.String("application_id", id),
			zap.String("tenant_id", tenantID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		Action:     audit.ActionUpdate,
		EntityType: "leave_application",
		EntityID:   app.ID.String(),
		TenantID:   tenantID,
		ActorID:    actorID,
		EmployeeID: app.EmployeeID.String(),
		OldValues:  before,
		NewValues:  mapToResponse(*app),
	})
	s.logger.Info("reject leave success",
		zap.String("application_id", id),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*app), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, filter ApplicationFilter) ([]LeaveApplicationResponse, int64, error) {
	apps, total, err := s.repo.FindAllByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(apps), total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveApplicationDetail, error) {
	app, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationDetail{}, leaveerrors.ErrApplicationNotFound
		}
		return LeaveApplicationDetail{}, err
	}

	history, err := s.repo.ListHistory(ctx, tenantID, id)
	if err != nil {
		return LeaveApplicationDetail{}, err
	}

	detail := LeaveApplicationDetail{
		LeaveApplicationResponse: mapToResponse(*app),
		History:                  make([]ApprovalHistoryResponse, len(history)),
	}
	for i, h := range history {
		detail.History[i] = ApprovalHistoryResponse{
			ID:              h.ID.String(),
			ApproverID:      h.ApproverID,
			Action:          h.Action,
			ResultingStatus: h.ResultingStatus,
			Comments:        h.Comments,
			CreatedAt:       h.CreatedAt.Format(time.RFC3339),
		}
	}
	return detail, nil
}

func (s *service) GetTeamApplications(ctx context.Context, tenantID, managerID string, filter ApplicationFilter) ([]LeaveApplicationResponse, int64, error) {
	reports, err := s.directory.ListActiveByManager(ctx, tenantID, managerID)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID.String()
	}

	apps, total, err := s.repo.FindByEmployees(ctx, tenantID, ids, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(apps), total, nil
}

func (s *service) GetBalances(ctx context.Context, tenantID, employeeID string, year int) ([]leavebalance.BalanceResponse, error) {
	return s.balances.GetAllBalances(ctx, tenantID, employeeID, year)
}

// requireApprover is the single capability check for approve/reject:
// the assigned approver, or an HR_ADMIN / TENANT_ADMIN actor.
func (s *service) requireApprover(ctx context.Context, tenantID, actorID string, app *LeaveApplication) error {
	if app.CurrentApproverID != nil && app.CurrentApproverID.String() == actorID {
		return nil
	}

	role, err := s.directory.ActorRole(ctx, tenantID, actorID)
	if err != nil {
		return err
	}
	if role == employee.RoleHRAdmin || role == employee.RoleTenantAdmin {
		return nil
	}
	return leaveerrors.ErrNotAuthorizedApprover
}

// resolveApprover picks the reporting manager, falling back to the
// tenant's HR admin; nil when neither exists.
func (s *service) resolveApprover(ctx context.Context, tenantID string, emp *employee.Employee) (*uuid.UUID, error) {
	if emp.ReportingManagerID != nil {
		id := *emp.ReportingManagerID
		return &id, nil
	}

	hr, err := s.directory.FindHRAdminEmployee(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	id := hr.ID
	return &id, nil
}

func (s *service) appendOutbox(ctx context.Context, tx *gorm.DB, eventType string, app *LeaveApplication) error {
	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:     eventType,
		ApplicationID: app.ID.String(),
		TenantID:      app.TenantID.String(),
		EmployeeID:    app.EmployeeID.String(),
		LeaveTypeID:   app.LeaveTypeID.String(),
		Status:        app.Status,
		Days:          app.Days,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   app.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateRequestRules(lt *leavetype.LeaveType, isHalfDay bool, halfDayType *string, days float64, attachments []string) error {
	if !lt.IsActive {
		return leaveerrors.ErrLeaveTypeInactive
	}
	if isHalfDay {
		if !lt.HalfDayAllowed {
			return leaveerrors.ErrHalfDayNotAllowed
		}
		if halfDayType != nil && *halfDayType != FirstHalf && *halfDayType != SecondHalf {
			return leaveerrors.ErrInvalidHalfDayType
		}
	}
	if lt.MaxDaysPerRequest != nil && days > float64(*lt.MaxDaysPerRequest) {
		return leaveerrors.ErrOverMaxDaysPerRequest
	}
	if lt.AttachmentRequired && len(attachments) == 0 {
		return leaveerrors.ErrAttachmentRequired
	}
	return nil
}

// computeDays is the only day-count formula: 0.5 for any half-day
// request, otherwise the inclusive calendar-day count.
func computeDays(startDate, endDate time.Time, isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	return math.Ceil(endDate.Sub(startDate).Hours()/24) + 1
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(app LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:          app.ID.String(),
		TenantID:    app.TenantID.String(),
		EmployeeID:  app.EmployeeID.String(),
		LeaveTypeID: app.LeaveTypeID.String(),
		StartDate:   app.StartDate.Format("2006-01-02"),
		EndDate:     app.EndDate.Format("2006-01-02"),
		Days:        app.Days,
		IsHalfDay:   app.IsHalfDay,
		HalfDayType: app.HalfDayType,
		Reason:      app.Reason,
		Attachments: app.Attachments,
		Status:      app.Status,
		Comments:    app.Comments,
		CreatedAt:   app.CreatedAt.Format(time.RFC3339),
	}
	if app.CurrentApproverID != nil {
		v := app.CurrentApproverID.String()
		resp.CurrentApproverID = &v
	}
	if app.ApprovedBy != nil {
		v := app.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if app.ApprovedAt != nil {
		v := app.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if app.RejectedBy != nil {
		v := app.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if app.RejectedAt != nil {
		v := app.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	resp.RejectionReason = app.RejectionReason
	if app.CancelledBy != nil {
		v := app.CancelledBy.String()
		resp.CancelledBy = &v
	}
	if app.CancelledAt != nil {
		v := app.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	resp.CancellationReason = app.CancellationReason
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = mapToResponse(app)
	}
	return resp
}
