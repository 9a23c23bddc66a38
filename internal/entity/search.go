package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxHistoryItems caps the search history; the oldest entries fall off.
const MaxHistoryItems = 10

type SearchType string

const (
	SearchWeb         SearchType = "WEB"
	SearchMaps        SearchType = "MAPS"
	SearchCompetitors SearchType = "COMPETITORS"
	SearchSocial      SearchType = "SOCIAL"
)

type SalesStrategy string

const (
	StrategyHunter     SalesStrategy = "HUNTER"
	StrategyConsultant SalesStrategy = "CONSULTANT"
	StrategyPartner    SalesStrategy = "PARTNER"
)

type SearchCriteria struct {
	SearchType       SearchType    `json:"searchType"`
	TargetPersona    string        `json:"targetPersona"`
	Industry         string        `json:"industry"`
	Location         string        `json:"location"`
	ValueProposition string        `json:"valueProposition"`
	SenderName       string        `json:"senderName"`
	SenderWebsite    string        `json:"senderWebsite"`
	SenderEmail      string        `json:"senderEmail"`
	LandingPageURL   string        `json:"landingPageUrl"`
	Strategy         SalesStrategy `json:"strategy"`
	CompetitorURL    string        `json:"competitorUrl,omitempty"`
	LeadCount        int           `json:"leadCount"`
}

type SearchHistoryItem struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"`
	Criteria  SearchCriteria `json:"criteria"`
	LeadCount int            `json:"leadCount"`
	Leads     []*Lead        `json:"leads"`
}

// NewSearchHistoryItem snapshots a finished search, copying every lead.
func NewSearchHistoryItem(criteria SearchCriteria, leads []*Lead, now time.Time) SearchHistoryItem {
	snapshot := make([]*Lead, 0, len(leads))
	for _, l := range leads {
		snapshot = append(snapshot, l.Clone())
	}
	return SearchHistoryItem{
		ID:        uuid.New().String(),
		Timestamp: now.UnixMilli(),
		Criteria:  criteria,
		LeadCount: len(leads),
		Leads:     snapshot,
	}
}

// PushHistory prepends item and keeps at most MaxHistoryItems entries.
func PushHistory(history []SearchHistoryItem, item SearchHistoryItem) []SearchHistoryItem {
	out := make([]SearchHistoryItem, 0, MaxHistoryItems)
	out = append(out, item)
	for _, h := range history {
		if len(out) == MaxHistoryItems {
			break
		}
		out = append(out, h)
	}
	return out
}

type HistoryRepository interface {
	GetAll(ctx context.Context) []SearchHistoryItem
	SaveAll(ctx context.Context, history []SearchHistoryItem)
}
