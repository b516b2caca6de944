package auth

import (
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// RequireRole ensures the verified claims carry one of the allowed roles.
// An empty allow list only requires verified claims.
func RequireRole(claims *Claims, allowed ...string) error {
	if claims == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}
