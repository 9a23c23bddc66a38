package gemini

import (
	"fmt"
	"strings"

	"github.com/xavierca1/prospector/internal/entity"
)

const researcherInstruction = `You are an elite B2B lead researcher. Do not just list companies, qualify them.

Process:
1. Research: use Google Search to find real companies.
2. Analyze: do they have the problem the value proposition solves?
3. Infer: if the exact email is unknown, produce the most likely pattern (first.last@company.com).

Scoring (0-100):
- 90-100: perfect match, evident problem and budget to fix it.
- 70-89: good fit, right industry and size.
- below 70: doubtful fit or very small/inactive company.

Respond ONLY with a valid JSON array. No markdown, no text outside the JSON.`

const leadShape = `[
  {
    "name": "Decision maker name",
    "role": "Exact title",
    "company": "Company name",
    "qualificationScore": 85,
    "reasoning": "Why this score",
    "painPoints": ["Pain 1", "Pain 2"],
    "sourceUrl": "Website URL",
    "emailGuess": "email@company.com",
    "industry": "Industry",
    "location": "City",
    "techStack": ["Technology 1", "Technology 2"],
    "outreach": {"subject": "Subject", "email": "Email body", "linkedin": "LinkedIn message", "phone": "Call script"}
  }
]`

func searchInstruction(customInstructions string) string {
	if customInstructions == "" {
		return researcherInstruction
	}
	return researcherInstruction + "\n\nAdditional requirements: " + customInstructions
}

func searchPrompt(c entity.SearchCriteria, count int) string {
	var b strings.Builder
	switch {
	case c.SearchType == entity.SearchCompetitors && c.CompetitorURL != "":
		fmt.Fprintf(&b, "Find companies that are direct competitors of or alternatives to %q in %q.\n", c.CompetitorURL, c.Location)
		b.WriteString("Do not include the original company or list aggregators.\n")
	case c.SearchType == entity.SearchSocial:
		fmt.Fprintf(&b, "Find public profiles (LinkedIn/Twitter) of %q working in the %q sector in %q. ", c.TargetPersona, c.Industry, c.Location)
		fmt.Fprintf(&b, "Prioritize people who recently posted about %q.\n", c.ValueProposition)
	default:
		fmt.Fprintf(&b, "Goal: find %d B2B companies in %q (industry: %q) that could benefit from: %q.\n\n", count, c.Location, c.Industry, c.ValueProposition)
		b.WriteString("Search strategy:\n")
		fmt.Fprintf(&b, "1. Look for companies showing symptoms of needing this solution (bad reviews, slow websites, expansion news, open positions for %q).\n", c.TargetPersona)
		fmt.Fprintf(&b, "2. Identify the ideal decision maker: %q.\n", c.TargetPersona)
	}
	b.WriteString("\nFor every lead found, extract or infer the following structured JSON:\n")
	b.WriteString(leadShape)
	return b.String()
}

func deepDivePrompt(l *entity.Lead) string {
	return fmt.Sprintf(`Run an in-depth investigation of the company %q (%s).
Look for recent technical and business information.

Return a JSON object with:
{
  "techStack": ["Technology 1", "Technology 2"],
  "painPoints": ["Problem 1", "Problem 2"],
  "auditObservation": "Short strategic observation about their digital situation.",
  "seoAnalysis": {"overallScore": 75, "mainIssue": "Main SEO problem", "keywordDensity": "Medium", "metaTitlePresence": true}
}`, l.Company, l.SourceURL)
}

func battlecardPrompt(l *entity.Lead) string {
	return fmt.Sprintf(`Build a strategic sales battlecard for selling to the %s of %q.
Context: %s

Expected JSON:
{
  "personalityType": "DRIVER" | "ANALYTICAL" | "AMIABLE" | "EXPRESSIVE",
  "personalityTips": "How to handle them",
  "iceBreakers": ["Line 1", "Line 2"],
  "goldenQuestion": "Key question",
  "valueHook": "Value hook",
  "killShotObjection": {"objection": "Likely objection", "counter": "Answer"},
  "winProbability": 85
}`, l.Role, l.Company, l.Reasoning)
}

func sequencePrompt(l *entity.Lead) string {
	return fmt.Sprintf(`Write a 3 email sales sequence for %s of %s, sent on days 1, 3 and 7.
Focus on their pains: %s.
Return a JSON array of {"id", "day", "subject", "body", "intent"} where intent is HOOK, VALUE or BREAKUP.`,
		l.Name, l.Company, strings.Join(l.PainPoints, ", "))
}

func emailTemplatePrompt(instruction string) string {
	return fmt.Sprintf(`Act as an expert B2B sales copywriter.
Write an email template based on this instruction: %q.

Use these exact variables where appropriate:
{{name}} = prospect name
{{company}} = company name
{{role}} = job title
{{industry}} = industry
{{city}} = city

Return JSON: {"subject": "Catchy subject", "body": "Email body (use \n line breaks)"}`, instruction)
}

func signalsPrompt(l *entity.Lead) string {
	return fmt.Sprintf(`Search recent news about %s. Detect buying signals (FUNDING, HIRING, MANAGEMENT_CHANGE, EXPANSION, TECH_ADOPTION).
Return a JSON array of {"type", "description", "detectedAt" (unix ms), "scoreImpact"}.`, l.Company)
}

func orgChartPrompt(l *entity.Lead) string {
	return fmt.Sprintf(`Research the organizational structure of %s. Identify key roles (CEO, CTO, Marketing, Sales).
Return a JSON array of nodes {"id", "name", "role", "type" (DECISION_MAKER, INFLUENCER, BLOCKER, USER), "parentId"}.`, l.Company)
}

func landingCopyPrompt(industry string) string {
	return fmt.Sprintf("Write the copy for a high-converting landing page for the %s industry. Use the AIDA structure.", industry)
}

const visualPrompt = `Analyze this website screenshot. Identify UX/UI and design problems that reduce conversion.
Return JSON: {"designScore": 0-100, "uxIssues": ["..."], "conversionBlockers": ["..."], "aiFeedback": "..."}`
