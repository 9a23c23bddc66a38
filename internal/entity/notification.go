package entity

type NotificationType string

const (
	NotifySuccess NotificationType = "SUCCESS"
	NotifyError   NotificationType = "ERROR"
	NotifyInfo    NotificationType = "INFO"
	NotifyWarning NotificationType = "WARNING"
)

type Notification struct {
	ID      string           `json:"id"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

type AppState string

const (
	StateIdle       AppState = "IDLE"
	StateSearching  AppState = "SEARCHING"
	StateProcessing AppState = "PROCESSING"
	StateComplete   AppState = "COMPLETE"
	StateError      AppState = "ERROR"
)

type SortOption string

const (
	SortScoreDesc SortOption = "SCORE_DESC"
	SortScoreAsc  SortOption = "SCORE_ASC"
	SortNameAsc   SortOption = "NAME_ASC"
)
