package leavetype_test

import (
	"context"
	"testing"

	"github.com/dashpratyush277/hrms-1/internal/leavetype"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn            func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllByTenantFn   func(ctx context.Context, tenantID string) ([]leavetype.LeaveType, error)
	findByIDAndTenantFn func(ctx context.Context, tenantID, id string) (*leavetype.LeaveType, error)
	updateFn            func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn            func(ctx context.Context, tenantID, id string) error
	codeExistsFn        func(ctx context.Context, tenantID, code string, excludeID *string) (bool, error)
	hasApplicationsFn   func(ctx context.Context, tenantID, id string) (bool, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) leavetype.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]leavetype.LeaveType, error) {
	if f.findAllByTenantFn != nil {
		return f.findAllByTenantFn(ctx, tenantID)
	}
	return nil, nil
}

func (f *fakeRepository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDAndTenantFn != nil {
		return f.findByIDAndTenantFn(ctx, tenantID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, tenantID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, tenantID, id)
	}
	return nil
}

func (f *fakeRepository) CodeExists(ctx context.Context, tenantID, code string, excludeID *string) (bool, error) {
	if f.codeExistsFn != nil {
		return f.codeExistsFn(ctx, tenantID, code, excludeID)
	}
	return false, nil
}

func (f *fakeRepository) HasApplications(ctx context.Context, tenantID, id string) (bool, error) {
	if f.hasApplicationsFn != nil {
		return f.hasApplicationsFn(ctx, tenantID, id)
	}
	return false, nil
}

func setupServiceTest(t *testing.T) (leavetype.Service, *fakeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	assert.NoError(t, err)

	repo := &fakeRepository{}
	svc := leavetype.NewService(gormDB, repo, nil)
	return svc, repo, sqlMock, func() { sqlDB.Close() }
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("applies defaults", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		var created *leavetype.LeaveType
		repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			created = lt
			return nil
		}

		resp, err := svc.Create(ctx, tenantID, actorID, leavetype.CreateLeaveTypeRequest{
			Name: "Casual Leave",
			Code: "CL",
		})

		assert.NoError(t, err)
		assert.True(t, resp.RequiresApproval)
		assert.True(t, resp.IsPaid)
		assert.True(t, resp.IsActive)
		assert.Equal(t, leavetype.GenderAll, resp.GenderEligibility)
		assert.NotNil(t, created)
		assert.Equal(t, tenantID, created.TenantID.String())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		repo.codeExistsFn = func(ctx context.Context, tenantID, code string, excludeID *string) (bool, error) {
			assert.Equal(t, "CL", code)
			return true, nil
		}
		repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			t.Fatal("create should not run on duplicate code")
			return nil
		}

		_, err := svc.Create(ctx, tenantID, actorID, leavetype.CreateLeaveTypeRequest{
			Name: "Casual Leave",
			Code: "CL",
		})

		assert.ErrorContains(t, err, "code already exists")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid tenant id", func(t *testing.T) {
		svc, _, _, closeDB := setupServiceTest(t)
		defer closeDB()

		_, err := svc.Create(ctx, "nope", actorID, leavetype.CreateLeaveTypeRequest{Name: "X", Code: "X"})

		assert.ErrorContains(t, err, "invalid tenant id")
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		id := uuid.New()
		tenantUUID := uuid.MustParse(tenantID)
		repo.findByIDAndTenantFn = func(ctx context.Context, tid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{
				ID: id, TenantID: tenantUUID,
				Name: "Casual Leave", Code: "CL",
				RequiresApproval: true, IsPaid: true, IsActive: true,
				GenderEligibility: leavetype.GenderAll,
			}, nil
		}

		name := "Casual"
		isActive := false
		resp, err := svc.Update(ctx, tenantID, actorID, id.String(), leavetype.UpdateLeaveTypeRequest{
			Name:     &name,
			IsActive: &isActive,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Casual", resp.Name)
		assert.Equal(t, "CL", resp.Code)
		assert.False(t, resp.IsActive)
		assert.True(t, resp.RequiresApproval)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("changing code to an existing one fails", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		id := uuid.New()
		repo.findByIDAndTenantFn = func(ctx context.Context, tid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, TenantID: uuid.MustParse(tenantID), Code: "CL"}, nil
		}
		repo.codeExistsFn = func(ctx context.Context, tid, code string, excludeID *string) (bool, error) {
			assert.Equal(t, "SL", code)
			assert.NotNil(t, excludeID)
			return true, nil
		}

		code := "SL"
		_, err := svc.Update(ctx, tenantID, actorID, id.String(), leavetype.UpdateLeaveTypeRequest{Code: &code})

		assert.ErrorContains(t, err, "code already exists")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		name := "X"
		_, err := svc.Update(ctx, tenantID, actorID, uuid.New().String(), leavetype.UpdateLeaveTypeRequest{Name: &name})

		assert.ErrorContains(t, err, "not found")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("deletes an unused type", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		id := uuid.New()
		repo.findByIDAndTenantFn = func(ctx context.Context, tid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, TenantID: uuid.MustParse(tenantID), Code: "CL"}, nil
		}

		deleted := false
		repo.deleteFn = func(ctx context.Context, tid, ltid string) error {
			deleted = true
			return nil
		}

		err := svc.Delete(ctx, tenantID, actorID, id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("refuses while applications reference the type", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		id := uuid.New()
		repo.findByIDAndTenantFn = func(ctx context.Context, tid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, TenantID: uuid.MustParse(tenantID), Code: "CL"}, nil
		}
		repo.hasApplicationsFn = func(ctx context.Context, tid, ltid string) (bool, error) {
			return true, nil
		}

		err := svc.Delete(ctx, tenantID, actorID, id.String())

		assert.ErrorContains(t, err, "existing applications")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()

	svc, repo, _, closeDB := setupServiceTest(t)
	defer closeDB()

	id := uuid.New()
	repo.findByIDAndTenantFn = func(ctx context.Context, tid, ltid string) (*leavetype.LeaveType, error) {
		if ltid == id.String() {
			return &leavetype.LeaveType{ID: id, TenantID: uuid.MustParse(tenantID), Code: "CL", Name: "Casual Leave"}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	resp, err := svc.GetByID(ctx, tenantID, id.String())
	assert.NoError(t, err)
	assert.Equal(t, "CL", resp.Code)

	_, err = svc.GetByID(ctx, tenantID, uuid.New().String())
	assert.ErrorContains(t, err, "not found")
}
