package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrInvalidStatus   = errors.New("invalid lead status")
	ErrNoCRMConfigured = errors.New("no CRM configured")
)

type LeadStatus string

const (
	StatusNew          LeadStatus = "NEW"
	StatusContacted    LeadStatus = "CONTACTED"
	StatusQualified    LeadStatus = "QUALIFIED"
	StatusDisqualified LeadStatus = "DISQUALIFIED"
)

// Valid reports whether s is one of the pipeline statuses. Any status may
// follow any other; only membership is checked.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusDisqualified:
		return true
	}
	return false
}

type EmailStatus string

const (
	EmailVerified EmailStatus = "VERIFIED"
	EmailInvalid  EmailStatus = "INVALID"
	EmailUnknown  EmailStatus = "UNKNOWN"
	EmailRisky    EmailStatus = "RISKY"
)

type CRMPlatform string

const (
	PlatformHubSpot    CRMPlatform = "HUBSPOT"
	PlatformSalesforce CRMPlatform = "SALESFORCE"
	PlatformWebhook    CRMPlatform = "WEBHOOK"
)

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SequenceStep struct {
	ID      string `json:"id"`
	Day     int    `json:"day"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Intent  string `json:"intent"` // HOOK, VALUE, BREAKUP
	Status  string `json:"status,omitempty"`
}

type Outreach struct {
	SubjectVariants []string       `json:"subjectVariants"`
	Subject         string         `json:"subject,omitempty"`
	Email           string         `json:"email"`
	LinkedIn        string         `json:"linkedin"`
	Phone           string         `json:"phone"`
	Sequence        []SequenceStep `json:"sequence,omitempty"`
	LastContactedAt int64          `json:"lastContactedAt,omitempty"`
	NextFollowUpAt  int64          `json:"nextFollowUpAt,omitempty"`
}

type HeadingStructure struct {
	H1Count int `json:"h1Count"`
	H2Count int `json:"h2Count"`
}

type SeoAnalysis struct {
	KeywordDensity       string           `json:"keywordDensity,omitempty"`
	MetaDescription      bool             `json:"metaDescription"`
	Readability          string           `json:"readability,omitempty"`
	OverallScore         int              `json:"overallScore"`
	MainIssue            string           `json:"mainIssue,omitempty"`
	MetaTitlePresence    bool             `json:"metaTitlePresence"`
	HeadingStructure     HeadingStructure `json:"headingStructure"`
	InternalLinkingScore int              `json:"internalLinkingScore"`
}

type VisualAnalysis struct {
	Screenshot         string   `json:"screenshot,omitempty"` // base64 PNG
	DesignScore        int      `json:"designScore"`
	UXIssues           []string `json:"uxIssues"`
	ConversionBlockers []string `json:"conversionBlockers"`
	AIFeedback         string   `json:"aiFeedback"`
}

type Objection struct {
	Objection string `json:"objection"`
	Counter   string `json:"counter"`
}

type Battlecard struct {
	PersonalityType   string    `json:"personalityType"` // DRIVER, ANALYTICAL, AMIABLE, EXPRESSIVE
	PersonalityTips   string    `json:"personalityTips"`
	IceBreakers       []string  `json:"iceBreakers"`
	GoldenQuestion    string    `json:"goldenQuestion"`
	ValueHook         string    `json:"valueHook"`
	KillShotObjection Objection `json:"killShotObjection"`
	WinProbability    int       `json:"winProbability"`
}

type BuyingSignal struct {
	Type        string `json:"type"` // FUNDING, HIRING, MANAGEMENT_CHANGE, EXPANSION, TECH_ADOPTION
	Description string `json:"description"`
	DetectedAt  int64  `json:"detectedAt"`
	ScoreImpact int    `json:"scoreImpact"`
}

type OrgNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Type     string `json:"type"` // DECISION_MAKER, INFLUENCER, BLOCKER, USER
	ParentID string `json:"parentId,omitempty"`
}

type CRMSync struct {
	Platform     CRMPlatform `json:"platform"`
	SyncedAt     int64       `json:"syncedAt"`
	ExternalID   string      `json:"externalId,omitempty"`
	Status       string      `json:"status"` // SUCCESS, FAILED
	RemoteStatus string      `json:"remoteStatus,omitempty"`
}

type Note struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

type LeadLog struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Action    string `json:"action"`
	User      string `json:"user"`
}

type Lead struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Role               string          `json:"role"`
	Company            string          `json:"company"`
	QualificationScore int             `json:"qualificationScore"`
	Reasoning          string          `json:"reasoning"`
	PainPoints         []string        `json:"painPoints,omitempty"`
	SourceURL          string          `json:"sourceUrl,omitempty"`
	LinkedInURL        string          `json:"linkedinUrl,omitempty"`
	EmailGuess         string          `json:"emailGuess,omitempty"`
	EmailStatus        EmailStatus     `json:"emailStatus,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	TechStack          []string        `json:"techStack,omitempty"`
	Outreach           Outreach        `json:"outreach"`
	AuditObservation   string          `json:"auditObservation,omitempty"`
	SeoAnalysis        *SeoAnalysis    `json:"seoAnalysis,omitempty"`
	VisualAnalysis     *VisualAnalysis `json:"visualAnalysis,omitempty"`
	Battlecard         *Battlecard     `json:"battlecard,omitempty"`
	BuyingSignals      []BuyingSignal  `json:"buyingSignals,omitempty"`
	OrgChart           []OrgNode       `json:"orgChart,omitempty"`
	Coordinates        *Coordinates    `json:"coordinates,omitempty"`
	CRMSync            *CRMSync        `json:"crmSync,omitempty"`
	Address            string          `json:"address,omitempty"`
	Location           string          `json:"location,omitempty"`
	Industry           string          `json:"industry,omitempty"`
	Rating             float64         `json:"rating,omitempty"`
	Status             LeadStatus      `json:"status"`
	ValueProposition   string          `json:"valueProposition,omitempty"`
	SenderName         string          `json:"senderName,omitempty"`
	SenderWebsite      string          `json:"senderWebsite,omitempty"`
	SenderEmail        string          `json:"senderEmail,omitempty"`
	Strategy           SalesStrategy   `json:"strategy,omitempty"`
	LandingPageURL     string          `json:"landingPageUrl,omitempty"`
	IsDeepDived        bool            `json:"isDeepDived,omitempty"`
	Notes              []Note          `json:"notes,omitempty"`
	History            []LeadLog       `json:"history,omitempty"`
}

// NewLead builds a lead with a fresh id, NEW status and a creation entry in
// its history.
func NewLead(name, role, company string, score int, actor, action string) *Lead {
	l := &Lead{
		ID:                 uuid.New().String(),
		Name:               name,
		Role:               role,
		Company:            company,
		QualificationScore: ClampScore(score),
		Status:             StatusNew,
		EmailStatus:        EmailUnknown,
		Outreach:           Outreach{SubjectVariants: []string{}},
	}
	l.Log(action, actor, time.Now())
	return l
}

// ClampScore forces a qualification score into [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Log appends an audit entry. History is append-only.
func (l *Lead) Log(action, actor string, at time.Time) {
	l.History = append(l.History, LeadLog{
		ID:        uuid.New().String(),
		Timestamp: at.UnixMilli(),
		Action:    action,
		User:      actor,
	})
}

func (l *Lead) Validate() error {
	if l.ID == "" {
		return errors.New("id is required")
	}
	if l.Name == "" && l.Company == "" {
		return errors.New("name or company is required")
	}
	if l.Status != "" && !l.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Clone returns a deep copy so callers never share slices with the store.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	c.PainPoints = cloneSlice(l.PainPoints)
	c.TechStack = cloneSlice(l.TechStack)
	c.Outreach.SubjectVariants = cloneSlice(l.Outreach.SubjectVariants)
	c.Outreach.Sequence = cloneSlice(l.Outreach.Sequence)
	c.BuyingSignals = cloneSlice(l.BuyingSignals)
	c.OrgChart = cloneSlice(l.OrgChart)
	c.Notes = cloneSlice(l.Notes)
	c.History = cloneSlice(l.History)
	if l.SeoAnalysis != nil {
		s := *l.SeoAnalysis
		c.SeoAnalysis = &s
	}
	if l.VisualAnalysis != nil {
		v := *l.VisualAnalysis
		v.UXIssues = cloneSlice(l.VisualAnalysis.UXIssues)
		v.ConversionBlockers = cloneSlice(l.VisualAnalysis.ConversionBlockers)
		c.VisualAnalysis = &v
	}
	if l.Battlecard != nil {
		b := *l.Battlecard
		b.IceBreakers = cloneSlice(l.Battlecard.IceBreakers)
		c.Battlecard = &b
	}
	if l.Coordinates != nil {
		xy := *l.Coordinates
		c.Coordinates = &xy
	}
	if l.CRMSync != nil {
		s := *l.CRMSync
		c.CRMSync = &s
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// LeadRepository is implemented by the local-first lead store.
type LeadRepository interface {
	GetAll(ctx context.Context) []*Lead
	SaveAll(ctx context.Context, leads []*Lead)
	Update(ctx context.Context, lead *Lead)
	Delete(ctx context.Context, id string)
}
