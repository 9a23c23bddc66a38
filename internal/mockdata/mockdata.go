// Package mockdata synthesizes structurally valid records for offline/demo
// mode and for the fallback path when a remote call cannot be made. Nothing
// here returns an error or panics.
package mockdata

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
)

const (
	DefaultLeadCount = 5
	SimulatedReason  = "Simulated data (missing API key, exhausted quota or model not found)."
)

var crmStatuses = []string{"OPEN", "CONTACTED", "QUALIFIED", "CUSTOMER"}

// Leads returns exactly count leads shaped like a real search result. When
// count <= 0 the criteria lead count is used, then DefaultLeadCount.
func Leads(criteria entity.SearchCriteria, count int, now time.Time) []*entity.Lead {
	if count <= 0 {
		count = criteria.LeadCount
	}
	if count <= 0 {
		count = DefaultLeadCount
	}

	role := criteria.TargetPersona
	if role == "" {
		role = "Decision Maker"
	}
	industry := criteria.Industry
	if industry == "" {
		industry = "General"
	}

	stamp := now.UnixMilli()
	leads := make([]*entity.Lead, 0, count)
	for i := 0; i < count; i++ {
		seed := fmt.Sprintf("%s|%s|%d", criteria.Industry, criteria.Location, i)
		xy := Coordinates(fmt.Sprintf("mock-%d", i))
		leads = append(leads, &entity.Lead{
			ID:                 fmt.Sprintf("mock-%d-%d", stamp, i),
			Name:               fmt.Sprintf("Simulated Lead %d", i+1),
			Role:               role,
			Company:            fmt.Sprintf("%s Corp %d", industry, i+1),
			QualificationScore: 50 + int(hash(seed)%40),
			Reasoning:          SimulatedReason,
			Status:             entity.StatusNew,
			EmailStatus:        entity.EmailUnknown,
			Industry:           criteria.Industry,
			Location:           criteria.Location,
			PainPoints:         []string{"Needs process optimization", "Stalled growth"},
			EmailGuess:         fmt.Sprintf("contact@company%d.com", i+1),
			Outreach:           entity.Outreach{SubjectVariants: []string{}},
			Coordinates:        &xy,
			ValueProposition:   criteria.ValueProposition,
			SenderName:         criteria.SenderName,
			SenderWebsite:      criteria.SenderWebsite,
			SenderEmail:        criteria.SenderEmail,
			LandingPageURL:     criteria.LandingPageURL,
			Strategy:           criteria.Strategy,
			History: []entity.LeadLog{{
				ID:        fmt.Sprintf("log-%d-%d", stamp, i),
				Timestamp: stamp,
				Action:    "Lead Created (Simulated)",
				User:      "System",
			}},
		})
	}
	return leads
}

// Coordinates projects a seed onto the radar view, both axes in [5,95).
func Coordinates(seed string) entity.Coordinates {
	h := float64(int32(hash(seed)))
	x := math.Mod(math.Abs(math.Sin(h)*10000), 90) + 5
	y := math.Mod(math.Abs(math.Cos(h)*10000), 90) + 5
	return entity.Coordinates{X: x, Y: y}
}

// DeepDive is the offline enrichment result.
func DeepDive(l *entity.Lead) entity.LeadPatch {
	l = orEmpty(l)
	patch := entity.LeadPatch{
		IsDeepDived:      entity.Ptr(true),
		AuditObservation: entity.Ptr("Simulated offline deep dive."),
	}
	if len(l.TechStack) == 0 {
		patch.TechStack = []string{"WordPress", "Google Analytics"}
	}
	if l.SeoAnalysis == nil {
		patch.SeoAnalysis = &entity.SeoAnalysis{
			KeywordDensity:    "Media",
			OverallScore:      60,
			MainIssue:         "Missing meta descriptions",
			MetaTitlePresence: true,
		}
	}
	return patch
}

// Battlecard is a neutral briefing used when no model is reachable.
func Battlecard(l *entity.Lead) *entity.Battlecard {
	l = orEmpty(l)
	return &entity.Battlecard{
		PersonalityType: "ANALYTICAL",
		PersonalityTips: "Lead with data and concrete results.",
		IceBreakers: []string{
			fmt.Sprintf("I saw %s is growing in %s.", l.Company, orDefault(l.Location, "its market")),
			"What does your current process look like?",
		},
		GoldenQuestion: fmt.Sprintf("What would it mean for %s to fix this quarter's top bottleneck?", l.Company),
		ValueHook:      orDefault(l.ValueProposition, "We help teams like yours grow faster."),
		KillShotObjection: entity.Objection{
			Objection: "We already have a provider.",
			Counter:   "Great, let's compare results against a concrete benchmark.",
		},
		WinProbability: l.QualificationScore,
	}
}

// Sequence is a three step follow-up sequence (days 1, 3 and 7).
func Sequence(l *entity.Lead) []entity.SequenceStep {
	l = orEmpty(l)
	intents := []string{"HOOK", "VALUE", "BREAKUP"}
	days := []int{1, 3, 7}
	steps := make([]entity.SequenceStep, 0, len(intents))
	for i, intent := range intents {
		steps = append(steps, entity.SequenceStep{
			ID:      fmt.Sprintf("%s-step-%d", l.ID, i+1),
			Day:     days[i],
			Subject: fmt.Sprintf("%s: %s", l.Company, strings.ToLower(intent)),
			Body:    fmt.Sprintf("Hi %s,\n\n(%s)\n", firstName(l.Name), intent),
			Intent:  intent,
			Status:  "PENDING",
		})
	}
	return steps
}

// EmailTemplate is the placeholder template returned offline.
func EmailTemplate(instruction string) (subject, body string) {
	subject = "Idea for {{company}}"
	body = "Hi {{name}},\n\nAs {{role}} at {{company}} you may be interested in: " + instruction + "\n"
	return subject, body
}

// VisualAnalysis is the placeholder audit returned offline.
func VisualAnalysis() *entity.VisualAnalysis {
	return &entity.VisualAnalysis{
		DesignScore:        50,
		UXIssues:           []string{"Simulated analysis"},
		ConversionBlockers: []string{},
		AIFeedback:         "Visual audit unavailable; simulated result.",
	}
}

// CRMExportID is the external id recorded for a simulated CRM export.
func CRMExportID(platform string, now time.Time) string {
	return fmt.Sprintf("mock-%s-%d", strings.ToLower(platform), now.UnixMilli())
}

// CRMStatus picks a simulated remote status, stable per lead and day.
func CRMStatus(l *entity.Lead, now time.Time) string {
	l = orEmpty(l)
	idx := hash(l.ID+now.Format(time.DateOnly)) % uint32(len(crmStatuses))
	return crmStatuses[idx]
}

// hash is the classic 31-multiplier string hash.
func hash(s string) uint32 {
	var h uint32
	for _, r := range s {
		h = uint32(r) + (h << 5) - h
	}
	return h
}

func firstName(name string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
	return orDefault(first, "there")
}

func orEmpty(l *entity.Lead) *entity.Lead {
	if l == nil {
		return &entity.Lead{}
	}
	return l
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
