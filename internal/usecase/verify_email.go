package usecase

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
)

const mxTimeout = 5 * time.Second

var defaultResolver MXResolver = net.DefaultResolver

// CheckEmail classifies an address: INVALID when it does not parse or its
// domain does not exist, VERIFIED when the domain accepts mail, UNKNOWN
// when the lookup could not be completed.
func CheckEmail(ctx context.Context, r MXResolver, address string) entity.EmailStatus {
	addr, err := mail.ParseAddress(strings.TrimSpace(address))
	if err != nil {
		return entity.EmailInvalid
	}
	_, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || !strings.Contains(domain, ".") {
		return entity.EmailInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, mxTimeout)
	defer cancel()

	records, err := r.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return entity.EmailInvalid
		}
		return entity.EmailUnknown
	}
	if len(records) == 0 {
		return entity.EmailInvalid
	}
	return entity.EmailVerified
}

// VerifyEmail checks the lead's guessed address and stores the result.
// Offline only the syntax is checked.
func (uc *EnrichLeadUseCase) VerifyEmail(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := uc.Workspace.Lead(id)
	if err != nil {
		return nil, err
	}
	if l.EmailGuess == "" {
		return nil, invalidInput("lead has no email to verify")
	}

	var status entity.EmailStatus
	if uc.Workspace.Offline() || uc.Resolver == nil {
		status = entity.EmailUnknown
		if _, err := mail.ParseAddress(l.EmailGuess); err != nil {
			status = entity.EmailInvalid
		}
	} else {
		status = CheckEmail(ctx, uc.Resolver, l.EmailGuess)
	}

	uc.Logger.Info("email verified", "lead_id", id, "status", status)
	return uc.Workspace.UpdateLead(ctx, id, entity.LeadPatch{EmailStatus: &status})
}
