package leavepolicy_test

import (
	"context"
	"testing"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/leavepolicy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn              func(ctx context.Context, p *leavepolicy.LeavePolicy) error
	findByIDAndTenantFn   func(ctx context.Context, tenantID, id string) (*leavepolicy.LeavePolicy, error)
	findActiveFn          func(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*leavepolicy.LeavePolicy, error)
	clearDefaultsFn       func(ctx context.Context, tenantID, leaveTypeID string) error
	leaveTypeExistsFn     func(ctx context.Context, tenantID, leaveTypeID string) (bool, error)
	findActiveCalls       int
}

func (f *fakeRepository) WithTx(tx *gorm.DB) leavepolicy.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, p *leavepolicy.LeavePolicy) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeRepository) FindAllByTenant(ctx context.Context, tenantID string, leaveTypeID *string) ([]leavepolicy.LeavePolicy, error) {
	return nil, nil
}

func (f *fakeRepository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*leavepolicy.LeavePolicy, error) {
	if f.findByIDAndTenantFn != nil {
		return f.findByIDAndTenantFn(ctx, tenantID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, p *leavepolicy.LeavePolicy) error { return nil }
func (f *fakeRepository) Delete(ctx context.Context, tenantID, id string) error        { return nil }

func (f *fakeRepository) ClearDefaults(ctx context.Context, tenantID, leaveTypeID string) error {
	if f.clearDefaultsFn != nil {
		return f.clearDefaultsFn(ctx, tenantID, leaveTypeID)
	}
	return nil
}

func (f *fakeRepository) FindActive(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*leavepolicy.LeavePolicy, error) {
	f.findActiveCalls++
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, tenantID, leaveTypeID, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindEffectiveDefault(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*leavepolicy.LeavePolicy, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindDefaultByAccrualType(ctx context.Context, tenantID, leaveTypeID, accrualType string) (*leavepolicy.LeavePolicy, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) LeaveTypeExists(ctx context.Context, tenantID, leaveTypeID string) (bool, error) {
	if f.leaveTypeExistsFn != nil {
		return f.leaveTypeExistsFn(ctx, tenantID, leaveTypeID)
	}
	return true, nil
}

func setupServiceTest(t *testing.T) (leavepolicy.Service, *fakeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	assert.NoError(t, err)

	repo := &fakeRepository{}
	svc := leavepolicy.NewService(gormDB, repo, nil)
	return svc, repo, sqlMock, func() { sqlDB.Close() }
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	actorID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("new default clears old defaults in the same tx", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		cleared := false
		repo.clearDefaultsFn = func(ctx context.Context, tid, ltid string) error {
			cleared = true
			assert.Equal(t, leaveTypeID, ltid)
			return nil
		}

		resp, err := svc.Create(ctx, tenantID, actorID, leavepolicy.CreateLeavePolicyRequest{
			LeaveTypeID:   leaveTypeID,
			Name:          "Default CL policy",
			AccrualDays:   12,
			EffectiveFrom: "2024-01-01",
			IsDefault:     true,
		})

		assert.NoError(t, err)
		assert.True(t, cleared)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, leavepolicy.AccrualAnnual, resp.AccrualType)
		assert.Equal(t, 12, resp.AccrualPeriod)
		assert.True(t, resp.ProratedForJoiners)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("non-default leaves existing defaults alone", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		repo.clearDefaultsFn = func(ctx context.Context, tid, ltid string) error {
			t.Fatal("defaults must not be cleared for a non-default policy")
			return nil
		}

		_, err := svc.Create(ctx, tenantID, actorID, leavepolicy.CreateLeavePolicyRequest{
			LeaveTypeID:   leaveTypeID,
			Name:          "Secondary policy",
			AccrualDays:   6,
			EffectiveFrom: "2024-01-01",
		})

		assert.NoError(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown leave type", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		repo.leaveTypeExistsFn = func(ctx context.Context, tid, ltid string) (bool, error) {
			return false, nil
		}

		_, err := svc.Create(ctx, tenantID, actorID, leavepolicy.CreateLeavePolicyRequest{
			LeaveTypeID:   leaveTypeID,
			Name:          "Orphan",
			AccrualDays:   12,
			EffectiveFrom: "2024-01-01",
		})

		assert.ErrorContains(t, err, "leave type not found")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("effective window must not be inverted", func(t *testing.T) {
		svc, _, _, closeDB := setupServiceTest(t)
		defer closeDB()

		to := "2023-12-31"
		_, err := svc.Create(ctx, tenantID, actorID, leavepolicy.CreateLeavePolicyRequest{
			LeaveTypeID:   leaveTypeID,
			Name:          "Backwards",
			AccrualDays:   12,
			EffectiveFrom: "2024-01-01",
			EffectiveTo:   &to,
		})

		assert.ErrorContains(t, err, "effective_to must be on or after")
	})
}

func TestService_GetActivePolicy(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	leaveTypeUUID := uuid.New()

	t.Run("caches current resolutions until a write invalidates", func(t *testing.T) {
		svc, repo, sqlMock, closeDB := setupServiceTest(t)
		defer closeDB()

		active := &leavepolicy.LeavePolicy{
			ID:          uuid.New(),
			TenantID:    uuid.MustParse(tenantID),
			LeaveTypeID: leaveTypeUUID,
			Name:        "Active",
			AccrualType: leavepolicy.AccrualAnnual,
			AccrualDays: 12,
			IsDefault:   true,
		}
		repo.findActiveFn = func(ctx context.Context, tid, ltid string, asOf time.Time) (*leavepolicy.LeavePolicy, error) {
			return active, nil
		}
		repo.findByIDAndTenantFn = func(ctx context.Context, tid, id string) (*leavepolicy.LeavePolicy, error) {
			copied := *active
			return &copied, nil
		}

		p1, err := svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), time.Time{})
		assert.NoError(t, err)
		p2, err := svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), time.Time{})
		assert.NoError(t, err)
		assert.Equal(t, p1.ID, p2.ID)
		assert.Equal(t, 1, repo.findActiveCalls)

		// An update to the type's policies drops the cached entry.
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		name := "Renamed"
		_, err = svc.Update(ctx, tenantID, uuid.New().String(), active.ID.String(), leavepolicy.UpdateLeavePolicyRequest{Name: &name})
		assert.NoError(t, err)

		_, err = svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), time.Time{})
		assert.NoError(t, err)
		assert.Equal(t, 2, repo.findActiveCalls)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("historical lookups bypass the cache", func(t *testing.T) {
		svc, repo, _, closeDB := setupServiceTest(t)
		defer closeDB()

		repo.findActiveFn = func(ctx context.Context, tid, ltid string, asOf time.Time) (*leavepolicy.LeavePolicy, error) {
			return &leavepolicy.LeavePolicy{ID: uuid.New()}, nil
		}

		asOf := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), asOf)
		assert.NoError(t, err)
		_, err = svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), asOf)
		assert.NoError(t, err)
		assert.Equal(t, 2, repo.findActiveCalls)
	})

	t.Run("no active policy", func(t *testing.T) {
		svc, _, _, closeDB := setupServiceTest(t)
		defer closeDB()

		_, err := svc.GetActivePolicy(ctx, tenantID, leaveTypeUUID.String(), time.Time{})
		assert.ErrorContains(t, err, "leave policy not found")
	})
}
