package usecase

import "github.com/xavierca1/prospector/internal/entity"

type NoteInput struct {
	Content string `json:"content"`
}

type BulkInput struct {
	IDs []string `json:"ids"`
}

type CreateTemplateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type GenerateTemplateInput struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
}

type LandingCopyInput struct {
	Industry string `json:"industry"`
}

type LandingCopyOutput struct {
	Copy string `json:"copy"`
}

type OfflineInput struct {
	Offline bool `json:"offline"`
}

type SearchOutput struct {
	State entity.AppState `json:"state"`
	Count int             `json:"count"`
	Leads []*entity.Lead  `json:"leads"`
}

type BulkOutput struct {
	JobID string `json:"jobId"`
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

type SelectionOutput struct {
	Selected []string `json:"selected"`
}

type CRMStatusOutput struct {
	Changed      bool   `json:"changed"`
	RemoteStatus string `json:"remoteStatus,omitempty"`
}
