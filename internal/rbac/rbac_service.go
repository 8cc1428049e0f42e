package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

// Platform roles are static, so the model and grants are held in code
// rather than a policy store.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// grants maps each role to its resource:action pairs. Role inheritance
// flows downward: TENANT_ADMIN > HR_ADMIN > MANAGER > EMPLOYEE.
var grants = [][3]string{
	{"EMPLOYEE", "leave", "read"},
	{"EMPLOYEE", "leave", "create"},
	{"MANAGER", "leave", "approve"},
	{"HR_ADMIN", "leave_config", "read"},
	{"HR_ADMIN", "leave_config", "manage"},
}

var roleHierarchy = [][2]string{
	{"MANAGER", "EMPLOYEE"},
	{"HR_ADMIN", "MANAGER"},
	{"TENANT_ADMIN", "HR_ADMIN"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, g := range grants {
		if _, err := enforcer.AddPolicy(g[0], g[1], g[2]); err != nil {
			return nil, err
		}
	}
	for _, h := range roleHierarchy {
		if _, err := enforcer.AddGroupingPolicy(h[0], h[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
