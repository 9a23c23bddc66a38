package usecase

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/integration/gemini"
	"github.com/xavierca1/prospector/internal/resilience"
)

func newEnrich(ws *Workspace, ai LeadAI, shots Screenshotter) *EnrichLeadUseCase {
	provider := AIProvider{}
	if ai != nil {
		provider = aiProvider(ai)
	}
	uc := NewEnrichLeadUseCase(ws, provider, shots, testPolicy(), nil)
	uc.Logger = quietLogger()
	return uc
}

var quotaErr = &resilience.RemoteError{Service: "gemini", Kind: resilience.QuotaExceeded, StatusCode: 429, Err: errors.New("quota")}

func TestDeepDive_Offline(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ws.SetOffline(true)
	ai := new(MockLeadAI)

	updated, err := newEnrich(ws, ai, nil).DeepDive(context.Background(), l.ID)
	require.NoError(t, err)

	assert.True(t, updated.IsDeepDived)
	assert.NotEmpty(t, updated.AuditObservation)
	ai.AssertNotCalled(t, "DeepDive", mock.Anything, mock.Anything)
}

func TestDeepDive_NoClientChangesNothing(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)

	updated, err := newEnrich(ws, nil, nil).DeepDive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsDeepDived)
	assert.Equal(t, l.History, updated.History)
}

func TestDeepDive_Success(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("DeepDive", mock.Anything, mock.MatchedBy(func(x *entity.Lead) bool { return x.ID == l.ID })).
		Return(entity.LeadPatch{IsDeepDived: entity.Ptr(true), TechStack: []string{"Go", "Postgres"}}, nil)

	updated, err := newEnrich(ws, ai, nil).DeepDive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDeepDived)
	assert.Equal(t, []string{"Go", "Postgres"}, updated.TechStack)
}

func TestDeepDive_FailureOnlyMarksAnalysed(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("DeepDive", mock.Anything, mock.Anything).Return(entity.LeadPatch{}, quotaErr).Once()

	updated, err := newEnrich(ws, ai, nil).DeepDive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDeepDived)
	assert.Empty(t, updated.TechStack)
	ai.AssertNumberOfCalls(t, "DeepDive", 1)
}

func TestDeepDive_UnknownLead(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	_, err := newEnrich(ws, nil, nil).DeepDive(context.Background(), "missing")
	assert.True(t, errors.Is(err, entity.ErrLeadNotFound))
}

func TestBattlecard_FallsBackAndWarns(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("Battlecard", mock.Anything, mock.Anything).Return(nil, quotaErr).Once()

	updated, err := newEnrich(ws, ai, nil).Battlecard(context.Background(), l.ID)
	require.NoError(t, err)

	require.NotNil(t, updated.Battlecard)
	assert.Equal(t, "ANALYTICAL", updated.Battlecard.PersonalityType)
	assert.True(t, hasNotification(ws, entity.NotifyWarning, "AI unavailable. Showing simulated battlecard."))
}

func TestBattlecard_Success(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("Battlecard", mock.Anything, mock.Anything).Return(&entity.Battlecard{PersonalityType: "DRIVER", WinProbability: 80}, nil)

	updated, err := newEnrich(ws, ai, nil).Battlecard(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "DRIVER", updated.Battlecard.PersonalityType)
	assert.Empty(t, ws.Notifications())
}

func TestSequence_FillsIDsAndStatus(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("Sequence", mock.Anything, mock.Anything).Return([]entity.SequenceStep{
		{Day: 1, Subject: "Hi", Intent: "HOOK"},
		{Day: 4, Subject: "Value", Intent: "VALUE"},
	}, nil)

	updated, err := newEnrich(ws, ai, nil).Sequence(context.Background(), l.ID)
	require.NoError(t, err)

	require.Len(t, updated.Outreach.Sequence, 2)
	assert.Equal(t, l.ID+"-step-1", updated.Outreach.Sequence[0].ID)
	assert.Equal(t, "PENDING", updated.Outreach.Sequence[1].Status)
	assert.NotNil(t, updated.Outreach.SubjectVariants)
}

func TestSignalsAndOrgChart_EmptyOnFailure(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("BuyingSignals", mock.Anything, mock.Anything).Return(nil, quotaErr)
	ai.On("OrgChart", mock.Anything, mock.Anything).Return(nil, quotaErr)
	uc := newEnrich(ws, ai, nil)

	updated, err := uc.BuyingSignals(context.Background(), l.ID)
	require.NoError(t, err)
	assert.NotNil(t, updated.BuyingSignals)
	assert.Empty(t, updated.BuyingSignals)

	updated, err = uc.OrgChart(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.OrgChart)
	assert.Empty(t, ws.Notifications(), "signals and org chart fail quietly")
}

func TestBuyingSignals_StampsDetection(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	ai := new(MockLeadAI)
	ai.On("BuyingSignals", mock.Anything, mock.Anything).Return([]entity.BuyingSignal{{Type: "HIRING", ScoreImpact: 10}}, nil)

	updated, err := newEnrich(ws, ai, nil).BuyingSignals(context.Background(), l.ID)
	require.NoError(t, err)
	require.Len(t, updated.BuyingSignals, 1)
	assert.Equal(t, fixedNow.UnixMilli(), updated.BuyingSignals[0].DetectedAt)
}

func TestAnalyzeVisual(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	t.Run("screenshot is sent to the model", func(t *testing.T) {
		ws, _ := newTestWorkspace(t)
		l := seedLead(t, ws, "Ana", "acme", 70)
		shots := new(MockScreenshotter)
		shots.On("Capture", mock.Anything, "https://acme.com").Return(png, nil)
		ai := new(MockLeadAI)
		ai.On("AnalyzeVisual", mock.Anything, png).Return(&entity.VisualAnalysis{DesignScore: 120, UXIssues: []string{"tiny fonts"}}, nil)

		updated, err := newEnrich(ws, ai, shots).AnalyzeVisual(context.Background(), l.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.VisualAnalysis)
		assert.Equal(t, 100, updated.VisualAnalysis.DesignScore)
		assert.Equal(t, "iVBORw==", updated.VisualAnalysis.Screenshot)
	})

	t.Run("screenshot failure falls back", func(t *testing.T) {
		ws, _ := newTestWorkspace(t)
		l := seedLead(t, ws, "Ana", "acme", 70)
		shots := new(MockScreenshotter)
		shots.On("Capture", mock.Anything, mock.Anything).Return(nil, errors.New("chrome not found"))
		ai := new(MockLeadAI)

		updated, err := newEnrich(ws, ai, shots).AnalyzeVisual(context.Background(), l.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, updated.VisualAnalysis.DesignScore)
		assert.Empty(t, updated.VisualAnalysis.Screenshot)
		ai.AssertNotCalled(t, "AnalyzeVisual", mock.Anything, mock.Anything)
	})
}

func TestAnalyzeVisual_RequiresCompanySite(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	_, err := ws.UpdateLead(context.Background(), l.ID, entity.LeadPatch{SourceURL: entity.Ptr("https://google.com/search?q=acme")})
	require.NoError(t, err)
	shots := new(MockScreenshotter)

	_, err = newEnrich(ws, nil, shots).AnalyzeVisual(context.Background(), l.ID)
	assert.True(t, IsDomainError(err))
	shots.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestAuditTarget(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://acme.com", true},
		{"http://www.acme.io/about", true},
		{"https://google.com/search?q=acme", false},
		{"https://www.google.es/search?q=acme", false},
		{"", false},
		{"acme.com", false},
		{"ftp://acme.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, ok := auditTarget(&entity.Lead{SourceURL: tt.url, SenderWebsite: "https://me.example"})
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDraftTemplate(t *testing.T) {
	ws, _ := newTestWorkspace(t)

	_, err := newEnrich(ws, nil, nil).DraftTemplate(context.Background(), "")
	assert.True(t, IsDomainError(err))

	draft, err := newEnrich(ws, nil, nil).DraftTemplate(context.Background(), "intro for CTOs")
	require.NoError(t, err)
	assert.Contains(t, draft.Body, "intro for CTOs")

	ai := new(MockLeadAI)
	ai.On("EmailTemplate", mock.Anything, "intro for CTOs").Return(gemini.EmailDraft{Subject: "Hi {{name}}", Body: "Body"}, nil)
	draft, err = newEnrich(ws, ai, nil).DraftTemplate(context.Background(), "intro for CTOs")
	require.NoError(t, err)
	assert.Equal(t, "Hi {{name}}", draft.Subject)
}

func TestLandingCopy(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	ai := new(MockLeadAI)
	ai.On("LandingCopy", mock.Anything, "Dental").Return("Smile more.", nil)

	text, err := newEnrich(ws, ai, nil).LandingCopy(context.Background(), "Dental")
	require.NoError(t, err)
	assert.Equal(t, "Smile more.", text)

	_, err = newEnrich(ws, ai, nil).LandingCopy(context.Background(), "")
	assert.True(t, IsDomainError(err))
}

func TestCheckEmail(t *testing.T) {
	ctx := context.Background()
	found := fakeResolver{records: []*net.MX{{Host: "mx.acme.io.", Pref: 10}}}

	assert.Equal(t, entity.EmailVerified, CheckEmail(ctx, found, "ana@acme.io"))
	assert.Equal(t, entity.EmailInvalid, CheckEmail(ctx, found, "not-an-email"))
	assert.Equal(t, entity.EmailInvalid, CheckEmail(ctx, found, "ana@localhost"))
	assert.Equal(t, entity.EmailInvalid, CheckEmail(ctx, fakeResolver{}, "ana@acme.io"))
	assert.Equal(t, entity.EmailInvalid, CheckEmail(ctx, fakeResolver{err: &net.DNSError{Err: "no such host", IsNotFound: true}}, "ana@nowhere.io"))
	assert.Equal(t, entity.EmailUnknown, CheckEmail(ctx, fakeResolver{err: &net.DNSError{Err: "i/o timeout", IsTimeout: true}}, "ana@acme.io"))
}

func TestVerifyEmail_StoresStatus(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	l := seedLead(t, ws, "Ana", "acme", 70)
	uc := newEnrich(ws, nil, nil)
	uc.Resolver = fakeResolver{records: []*net.MX{{Host: "mx.acme.com."}}}

	updated, err := uc.VerifyEmail(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailVerified, updated.EmailStatus)
}
