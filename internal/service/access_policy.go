package service

import (
	"strings"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

// AccessPolicy decides who may use the API and who may change other reviewers' records.
type AccessPolicy struct {
	allowlist map[string]struct{}
	admins    map[string]struct{}
}

// NewAccessPolicy builds a policy. An empty allowlist admits every active reviewer.
func NewAccessPolicy(allowlist, admins []string) *AccessPolicy {
	return &AccessPolicy{allowlist: emailSet(allowlist), admins: emailSet(admins)}
}

func emailSet(emails []string) map[string]struct{} {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = normalizeEmail(email)
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return set
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Allowed reports whether email may sign in and call the API.
func (p *AccessPolicy) Allowed(email string) bool {
	if p == nil || len(p.allowlist) == 0 {
		return true
	}
	_, ok := p.allowlist[normalizeEmail(email)]
	return ok
}

// IsAdmin reports whether email may edit and delete any record.
func (p *AccessPolicy) IsAdmin(email string) bool {
	if p == nil {
		return false
	}
	_, ok := p.admins[normalizeEmail(email)]
	return ok
}

// CanMutate applies the edit rule for identity against record.
func (p *AccessPolicy) CanMutate(identity models.Identity, record models.QaRecord) bool {
	return CanMutate(identity, record, p.IsAdmin(identity.Email))
}

// CanMutate reports whether identity submitted record or is an administrator.
func CanMutate(identity models.Identity, record models.QaRecord, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	owner := normalizeEmail(record.CreatedBy)
	return owner != "" && owner == normalizeEmail(identity.Email)
}
