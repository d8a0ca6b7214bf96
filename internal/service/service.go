// Package service holds the identity, catalog and adoption operations. Every
// operation receives the caller's auth.Identity and enforces its own access rule.
package service

import (
	"strings"

	"doggy-rescue/internal/domain"
)

// Notifier delivers emails in the background; calls return immediately.
type Notifier interface {
	Welcome(u domain.User)
	AdoptionRequested(req domain.AdoptionRequest, u domain.User, d domain.Dog)
}

type NopNotifier struct{}

func (NopNotifier) Welcome(domain.User)                                               {}
func (NopNotifier) AdoptionRequested(domain.AdoptionRequest, domain.User, domain.Dog) {}

func trimmed(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	s := strings.TrimSpace(*p)
	return s, s != ""
}
