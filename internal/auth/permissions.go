package auth

import "fmt"

// CheckPermission — точное вхождение permission в claims.Permissions, без wildcard
func CheckPermission(claims *Claims, permission string) error {
	if claims == nil || claims.Permissions == nil {
		return newFailure(ErrClaimsMissingPermissions, nil)
	}
	for _, p := range claims.Permissions {
		if p == permission {
			return nil
		}
	}
	return newFailure(ErrPermissionDenied, fmt.Errorf("missing %q", permission))
}
