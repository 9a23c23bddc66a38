package usecase

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/xavierca1/prospector/internal/entity"
)

const maxLeadCount = 50

var nonDigit = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateSearchCriteria(c entity.SearchCriteria) []ValidationError {
	var errors []ValidationError

	switch c.SearchType {
	case "", entity.SearchWeb, entity.SearchMaps, entity.SearchCompetitors, entity.SearchSocial:
	default:
		errors = append(errors, ValidationError{"searchType", "must be WEB, MAPS, COMPETITORS or SOCIAL"})
	}

	if strings.TrimSpace(c.Industry) == "" && strings.TrimSpace(c.TargetPersona) == "" {
		errors = append(errors, ValidationError{"industry", "industry or targetPersona is required"})
	}

	if c.LeadCount < 0 {
		errors = append(errors, ValidationError{"leadCount", "must not be negative"})
	} else if c.LeadCount > maxLeadCount {
		errors = append(errors, ValidationError{"leadCount", fmt.Sprintf("must not exceed %d", maxLeadCount)})
	}

	switch c.Strategy {
	case "", entity.StrategyHunter, entity.StrategyConsultant, entity.StrategyPartner:
	default:
		errors = append(errors, ValidationError{"strategy", "must be HUNTER, CONSULTANT or PARTNER"})
	}

	if c.SearchType == entity.SearchCompetitors && strings.TrimSpace(c.CompetitorURL) == "" {
		errors = append(errors, ValidationError{"competitorUrl", "is required for COMPETITORS searches"})
	} else if c.CompetitorURL != "" && !isValidURL(c.CompetitorURL) {
		errors = append(errors, ValidationError{"competitorUrl", "must be a valid URL"})
	}

	if c.SenderEmail != "" && !isValidEmail(c.SenderEmail) {
		errors = append(errors, ValidationError{"senderEmail", "is invalid"})
	}
	if c.SenderWebsite != "" && !isValidURL(c.SenderWebsite) {
		errors = append(errors, ValidationError{"senderWebsite", "must be a valid URL"})
	}
	if c.LandingPageURL != "" && !isValidURL(c.LandingPageURL) {
		errors = append(errors, ValidationError{"landingPageUrl", "must be a valid URL"})
	}

	return errors
}

func ValidateManualLead(in ManualLead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Company) == "" {
		errors = append(errors, ValidationError{"name", "name or company is required"})
	} else if len(in.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if in.Email != "" && !isValidEmail(in.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if in.Phone != "" && !isValidPhoneNumber(in.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if in.LinkedInURL != "" && !isValidURL(in.LinkedInURL) {
		errors = append(errors, ValidationError{"linkedinUrl", "must be a valid URL"})
	}
	if in.SourceURL != "" && !isValidURL(in.SourceURL) {
		errors = append(errors, ValidationError{"sourceUrl", "must be a valid URL"})
	}

	return errors
}

func ValidateSettings(p entity.UserProfile) []ValidationError {
	var errors []ValidationError

	if p.Email != "" && !isValidEmail(p.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if p.Website != "" && !isValidURL(p.Website) {
		errors = append(errors, ValidationError{"website", "must be a valid URL"})
	}
	if p.WebhookURL != "" && !isValidURL(p.WebhookURL) {
		errors = append(errors, ValidationError{"webhookUrl", "must be a valid http(s) URL"})
	}
	if p.SalesforceKey != "" && p.SalesforceInstanceURL == "" {
		errors = append(errors, ValidationError{"salesforceInstanceUrl", "is required with a Salesforce token"})
	} else if p.SalesforceInstanceURL != "" && !isValidURL(p.SalesforceInstanceURL) {
		errors = append(errors, ValidationError{"salesforceInstanceUrl", "must be a valid URL"})
	}
	if w := p.ScoringWeights; w != nil {
		if w.TechStack < 0 || w.SocialPresence < 0 || w.SeoHealth < 0 {
			errors = append(errors, ValidationError{"scoringWeights", "must not be negative"})
		}
	}

	return errors
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && strings.Contains(addr.Address, "@")
}

func isValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}
