package auth

import (
	"fmt"

	"github.com/heartmarshall/wordclass/pkg/ctxutil"
)

// ParseRole accepts the roles a bearer token may carry.
func ParseRole(role string) (string, error) {
	switch role {
	case ctxutil.RoleStudent, ctxutil.RoleSupervisor:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}
