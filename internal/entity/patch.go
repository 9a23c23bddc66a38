package entity

// LeadPatch is a partial lead update. Nil fields are left untouched; id,
// notes and history are never patched.
type LeadPatch struct {
	Name               *string         `json:"name,omitempty"`
	Role               *string         `json:"role,omitempty"`
	Company            *string         `json:"company,omitempty"`
	QualificationScore *int            `json:"qualificationScore,omitempty"`
	Reasoning          *string         `json:"reasoning,omitempty"`
	Status             *LeadStatus     `json:"status,omitempty"`
	PainPoints         []string        `json:"painPoints,omitempty"`
	TechStack          []string        `json:"techStack,omitempty"`
	SourceURL          *string         `json:"sourceUrl,omitempty"`
	LinkedInURL        *string         `json:"linkedinUrl,omitempty"`
	EmailGuess         *string         `json:"emailGuess,omitempty"`
	EmailStatus        *EmailStatus    `json:"emailStatus,omitempty"`
	Phone              *string         `json:"phone,omitempty"`
	Address            *string         `json:"address,omitempty"`
	Location           *string         `json:"location,omitempty"`
	Industry           *string         `json:"industry,omitempty"`
	Outreach           *Outreach       `json:"outreach,omitempty"`
	AuditObservation   *string         `json:"auditObservation,omitempty"`
	SeoAnalysis        *SeoAnalysis    `json:"seoAnalysis,omitempty"`
	VisualAnalysis     *VisualAnalysis `json:"visualAnalysis,omitempty"`
	Battlecard         *Battlecard     `json:"battlecard,omitempty"`
	BuyingSignals      []BuyingSignal  `json:"buyingSignals,omitempty"`
	OrgChart           []OrgNode       `json:"orgChart,omitempty"`
	CRMSync            *CRMSync        `json:"crmSync,omitempty"`
	IsDeepDived        *bool           `json:"isDeepDived,omitempty"`
}

// Apply merges p into l and clamps the score.
func (p LeadPatch) Apply(l *Lead) {
	setIf(&l.Name, p.Name)
	setIf(&l.Role, p.Role)
	setIf(&l.Company, p.Company)
	setIf(&l.QualificationScore, p.QualificationScore)
	setIf(&l.Reasoning, p.Reasoning)
	setIf(&l.Status, p.Status)
	setIf(&l.SourceURL, p.SourceURL)
	setIf(&l.LinkedInURL, p.LinkedInURL)
	setIf(&l.EmailGuess, p.EmailGuess)
	setIf(&l.EmailStatus, p.EmailStatus)
	setIf(&l.Phone, p.Phone)
	setIf(&l.Address, p.Address)
	setIf(&l.Location, p.Location)
	setIf(&l.Industry, p.Industry)
	setIf(&l.AuditObservation, p.AuditObservation)
	setIf(&l.IsDeepDived, p.IsDeepDived)

	if p.PainPoints != nil {
		l.PainPoints = cloneSlice(p.PainPoints)
	}
	if p.TechStack != nil {
		l.TechStack = cloneSlice(p.TechStack)
	}
	if p.BuyingSignals != nil {
		l.BuyingSignals = cloneSlice(p.BuyingSignals)
	}
	if p.OrgChart != nil {
		l.OrgChart = cloneSlice(p.OrgChart)
	}
	if p.Outreach != nil {
		o := *p.Outreach
		o.SubjectVariants = cloneSlice(p.Outreach.SubjectVariants)
		if o.SubjectVariants == nil {
			o.SubjectVariants = []string{}
		}
		o.Sequence = cloneSlice(p.Outreach.Sequence)
		l.Outreach = o
	}
	if p.SeoAnalysis != nil {
		s := *p.SeoAnalysis
		l.SeoAnalysis = &s
	}
	if p.VisualAnalysis != nil {
		v := *p.VisualAnalysis
		v.UXIssues = cloneSlice(p.VisualAnalysis.UXIssues)
		v.ConversionBlockers = cloneSlice(p.VisualAnalysis.ConversionBlockers)
		l.VisualAnalysis = &v
	}
	if p.Battlecard != nil {
		b := *p.Battlecard
		b.IceBreakers = cloneSlice(p.Battlecard.IceBreakers)
		l.Battlecard = &b
	}
	if p.CRMSync != nil {
		s := *p.CRMSync
		l.CRMSync = &s
	}

	l.QualificationScore = ClampScore(l.QualificationScore)
}

// IsEmpty reports whether applying p would change nothing.
func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Role == nil && p.Company == nil &&
		p.QualificationScore == nil && p.Reasoning == nil && p.Status == nil &&
		p.PainPoints == nil && p.TechStack == nil && p.SourceURL == nil &&
		p.LinkedInURL == nil && p.EmailGuess == nil && p.EmailStatus == nil &&
		p.Phone == nil && p.Address == nil && p.Location == nil &&
		p.Industry == nil && p.Outreach == nil && p.AuditObservation == nil &&
		p.SeoAnalysis == nil && p.VisualAnalysis == nil && p.Battlecard == nil &&
		p.BuyingSignals == nil && p.OrgChart == nil && p.CRMSync == nil &&
		p.IsDeepDived == nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
