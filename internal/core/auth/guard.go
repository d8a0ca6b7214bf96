package auth

import "doggy-rescue/internal/domain"

func RequireAuthenticated(id Identity) error {
	if !id.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

func RequireAdmin(id Identity) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}
