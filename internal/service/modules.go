package service

import (
	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/dispatch"
	"github.com/spec-kit/school-auth-service/internal/domain"
)

// RegisterOperations binds the service methods to their module.function names.
func RegisterOperations(r *dispatch.Registry, tokens *TokenService, users *UserService) {
	dispatch.Register(r, dispatch.Operation{
		Module:   "token",
		Function: "createShortToken",
		Exposed:  true,
		Requires: []string{auth.KeyLongToken, auth.KeyDevice},
	}, tokens.CreateShortToken)

	dispatch.Register(r, dispatch.Operation{
		Module:   "user",
		Function: "createUser",
		Exposed:  true,
	}, users.CreateUser)

	dispatch.Register(r, dispatch.Operation{
		Module:   "user",
		Function: "createMember",
		Exposed:  true,
		Requires: []string{auth.KeyShortToken},
		Roles:    []string{string(domain.RoleSuperAdmin), string(domain.RoleSchoolAdmin)},
	}, users.CreateMember)

	dispatch.Register(r, dispatch.Operation{
		Module:   "user",
		Function: "login",
		Exposed:  true,
	}, users.Login)

	dispatch.Register(r, dispatch.Operation{
		Module:   "user",
		Function: "getProfile",
		Exposed:  true,
		Requires: []string{auth.KeyShortToken},
	}, users.GetProfile)
}
