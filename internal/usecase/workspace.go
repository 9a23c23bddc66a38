package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/mockdata"
)

const (
	ActorUser   = "User"
	ActorSystem = "System"

	maxNotifications = 50
)

type EventType string

const (
	EventLeads         EventType = "leads"
	EventProfile       EventType = "profile"
	EventHistory       EventType = "history"
	EventSelection     EventType = "selection"
	EventNotifications EventType = "notifications"
	EventState         EventType = "state"
	EventSession       EventType = "session"
)

// Event tells subscribers which part of the workspace changed. LeadID is
// set when a single lead changed.
type Event struct {
	Type   EventType `json:"type"`
	LeadID string    `json:"leadId,omitempty"`
}

// ManualLead is the input for a lead typed in by the user.
type ManualLead struct {
	Name               string `json:"name"`
	Role               string `json:"role"`
	Company            string `json:"company"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	LinkedInURL        string `json:"linkedinUrl"`
	SourceURL          string `json:"sourceUrl"`
	Location           string `json:"location"`
	Industry           string `json:"industry"`
	Reasoning          string `json:"reasoning"`
	QualificationScore int    `json:"qualificationScore"`
}

// Workspace is the in-memory source of truth for one owner's session. The
// repositories are mirrors: every mutation is applied here first and then
// written through, in mutation order.
type Workspace struct {
	mu        sync.RWMutex
	persistMu sync.Mutex

	leads         []*entity.Lead
	profile       *entity.UserProfile
	history       []entity.SearchHistoryItem
	selected      map[string]struct{}
	activeID      string
	notifications []entity.Notification
	state         entity.AppState
	offline       bool

	leadRepo    entity.LeadRepository
	profileRepo entity.ProfileRepository
	historyRepo entity.HistoryRepository

	ownerEmail string
	onOffline  func(bool)
	now        func() time.Time
	logger     *slog.Logger

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

type WorkspaceOption func(*Workspace)

// WithOfflineHook is called whenever offline mode toggles, so that the
// persistence layer can stop talking to its remote mirror.
func WithOfflineHook(fn func(offline bool)) WorkspaceOption {
	return func(w *Workspace) { w.onOffline = fn }
}

func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) { w.now = now }
}

func WithWorkspaceLogger(l *slog.Logger) WorkspaceOption {
	return func(w *Workspace) { w.logger = l }
}

func NewWorkspace(
	leads entity.LeadRepository,
	profiles entity.ProfileRepository,
	history entity.HistoryRepository,
	ownerEmail string,
	opts ...WorkspaceOption,
) *Workspace {
	w := &Workspace{
		leadRepo:    leads,
		profileRepo: profiles,
		historyRepo: history,
		ownerEmail:  ownerEmail,
		selected:    map[string]struct{}{},
		state:       entity.StateIdle,
		now:         time.Now,
		logger:      slog.Default(),
		subs:        map[int]chan Event{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// commit hands the state lock over to the persistence lock, so writes reach
// the repositories in the order the mutations happened. The caller must
// hold w.mu.
func (w *Workspace) commit(persist func()) {
	w.persistMu.Lock()
	w.mu.Unlock()
	defer w.persistMu.Unlock()
	persist()
}

// Load reads the workspace from the repositories and creates the default
// profile when none is stored.
func (w *Workspace) Load(ctx context.Context) {
	leads := w.leadRepo.GetAll(ctx)
	history := w.historyRepo.GetAll(ctx)
	profile := w.profileRepo.Get(ctx)

	created := false
	if profile == nil {
		profile = entity.NewProfile(w.ownerEmail, w.now())
		created = true
	}

	w.mu.Lock()
	w.leads = leads
	w.history = history
	w.profile = profile
	if len(leads) > 0 {
		w.state = entity.StateComplete
	}
	snapshot := profile.Clone()
	if created {
		w.commit(func() { w.profileRepo.Save(ctx, snapshot) })
	} else {
		w.mu.Unlock()
	}

	w.logger.Info("workspace loaded", "leads", len(leads), "history", len(history), "profile_created", created)
	w.publish(Event{Type: EventLeads}, Event{Type: EventHistory}, Event{Type: EventProfile})
}

func (w *Workspace) indexOf(id string) int {
	return slices.IndexFunc(w.leads, func(l *entity.Lead) bool { return l.ID == id })
}

// Leads returns a copy of every lead. An empty sort keeps insertion order.
func (w *Workspace) Leads(sortBy entity.SortOption) []*entity.Lead {
	w.mu.RLock()
	out := make([]*entity.Lead, 0, len(w.leads))
	for _, l := range w.leads {
		out = append(out, l.Clone())
	}
	w.mu.RUnlock()

	sortLeads(out, sortBy)
	return out
}

func sortLeads(leads []*entity.Lead, sortBy entity.SortOption) {
	switch sortBy {
	case entity.SortScoreDesc:
		slices.SortStableFunc(leads, func(a, b *entity.Lead) int { return b.QualificationScore - a.QualificationScore })
	case entity.SortScoreAsc:
		slices.SortStableFunc(leads, func(a, b *entity.Lead) int { return a.QualificationScore - b.QualificationScore })
	case entity.SortNameAsc:
		slices.SortStableFunc(leads, func(a, b *entity.Lead) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}

func (w *Workspace) Lead(id string) (*entity.Lead, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := w.indexOf(id)
	if i < 0 {
		return nil, leadNotFound(id)
	}
	return w.leads[i].Clone(), nil
}

// UpdateLead merges patch into the lead. A status change is recorded in the
// lead history; any status may follow any other.
func (w *Workspace) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	return w.updateLead(ctx, id, patch, "")
}

// updateLead applies patch and, when action is set, records it in the lead
// history after any status change.
func (w *Workspace) updateLead(ctx context.Context, id string, patch entity.LeadPatch, action string) (*entity.Lead, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, &DomainError{Code: CodeInvalidInput, Message: "invalid status " + string(*patch.Status), Err: entity.ErrInvalidStatus}
	}

	w.mu.Lock()
	i := w.indexOf(id)
	if i < 0 {
		w.mu.Unlock()
		return nil, leadNotFound(id)
	}

	l := w.leads[i]
	previous := l.Status
	patch.Apply(l)
	if patch.Status != nil && *patch.Status != previous {
		l.Log("Status changed to "+string(*patch.Status), ActorUser, w.now())
	}
	if action != "" {
		l.Log(action, ActorUser, w.now())
	}
	snapshot := l.Clone()
	w.commit(func() { w.leadRepo.Update(ctx, snapshot) })

	w.publish(Event{Type: EventLeads, LeadID: id})
	return snapshot.Clone(), nil
}

// AddLead appends a manually entered lead.
func (w *Workspace) AddLead(ctx context.Context, in ManualLead) (*entity.Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Company = strings.TrimSpace(in.Company)
	if in.Name == "" && in.Company == "" {
		return nil, invalidInput("name or company is required")
	}

	l := entity.NewLead(in.Name, in.Role, in.Company, in.QualificationScore, ActorUser, "Lead Created (Manual)")
	l.EmailGuess = strings.ToLower(strings.TrimSpace(in.Email))
	l.Phone = in.Phone
	l.LinkedInURL = in.LinkedInURL
	l.SourceURL = in.SourceURL
	l.Location = in.Location
	l.Industry = in.Industry
	l.Reasoning = in.Reasoning
	xy := mockdata.Coordinates(in.Location + in.Company)
	l.Coordinates = &xy

	w.mu.Lock()
	w.leads = append(w.leads, l)
	if w.state == entity.StateIdle {
		w.state = entity.StateComplete
	}
	snapshot := l.Clone()
	w.commit(func() { w.leadRepo.Update(ctx, snapshot) })

	w.publish(Event{Type: EventLeads, LeadID: l.ID})
	return snapshot.Clone(), nil
}

func (w *Workspace) AddNote(ctx context.Context, id, content string) (*entity.Lead, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("note content is required")
	}

	w.mu.Lock()
	i := w.indexOf(id)
	if i < 0 {
		w.mu.Unlock()
		return nil, leadNotFound(id)
	}
	l := w.leads[i]
	l.Notes = append(l.Notes, entity.Note{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: w.now().UnixMilli(),
	})
	snapshot := l.Clone()
	w.commit(func() { w.leadRepo.Update(ctx, snapshot) })

	w.publish(Event{Type: EventLeads, LeadID: id})
	return snapshot.Clone(), nil
}

// DeleteLead removes the lead and drops it from the selection and the
// active slot.
func (w *Workspace) DeleteLead(ctx context.Context, id string) error {
	w.mu.Lock()
	i := w.indexOf(id)
	if i < 0 {
		w.mu.Unlock()
		return leadNotFound(id)
	}
	w.leads = slices.Delete(w.leads, i, i+1)
	delete(w.selected, id)
	if w.activeID == id {
		w.activeID = ""
	}
	w.commit(func() { w.leadRepo.Delete(ctx, id) })

	w.Notify("Lead deleted", entity.NotifyInfo)
	w.publish(Event{Type: EventLeads, LeadID: id}, Event{Type: EventSelection})
	return nil
}

// ToggleSelect flips id in the selection and reports whether it is now
// selected.
func (w *Workspace) ToggleSelect(id string) (bool, error) {
	w.mu.Lock()
	if w.indexOf(id) < 0 {
		w.mu.Unlock()
		return false, leadNotFound(id)
	}
	_, on := w.selected[id]
	if on {
		delete(w.selected, id)
	} else {
		w.selected[id] = struct{}{}
	}
	w.mu.Unlock()

	w.publish(Event{Type: EventSelection})
	return !on, nil
}

// SelectAll selects every id in ids, or clears the selection when exactly
// those ids are already selected. Empty ids means all leads. Unknown ids
// are ignored.
func (w *Workspace) SelectAll(ids []string) []string {
	w.mu.Lock()
	if len(ids) == 0 {
		for _, l := range w.leads {
			ids = append(ids, l.ID)
		}
	}
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		if w.indexOf(id) >= 0 && !slices.Contains(known, id) {
			known = append(known, id)
		}
	}

	if len(w.selected) == len(known) && allSelected(w.selected, known) {
		w.selected = map[string]struct{}{}
	} else {
		w.selected = make(map[string]struct{}, len(known))
		for _, id := range known {
			w.selected[id] = struct{}{}
		}
	}
	out := w.selectionLocked()
	w.mu.Unlock()

	w.publish(Event{Type: EventSelection})
	return out
}

func allSelected(selected map[string]struct{}, ids []string) bool {
	for _, id := range ids {
		if _, ok := selected[id]; !ok {
			return false
		}
	}
	return true
}

func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	w.selected = map[string]struct{}{}
	w.mu.Unlock()

	w.publish(Event{Type: EventSelection})
}

// Selection returns the selected ids in lead order.
func (w *Workspace) Selection() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selectionLocked()
}

func (w *Workspace) selectionLocked() []string {
	out := make([]string, 0, len(w.selected))
	for _, l := range w.leads {
		if _, ok := w.selected[l.ID]; ok {
			out = append(out, l.ID)
		}
	}
	return out
}

// SetActive marks the lead shown in the focus view. An empty id clears it.
func (w *Workspace) SetActive(id string) error {
	w.mu.Lock()
	if id != "" && w.indexOf(id) < 0 {
		w.mu.Unlock()
		return leadNotFound(id)
	}
	w.activeID = id
	w.mu.Unlock()

	w.publish(Event{Type: EventSelection, LeadID: id})
	return nil
}

func (w *Workspace) ActiveLead() (*entity.Lead, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.activeID == "" {
		return nil, false
	}
	i := w.indexOf(w.activeID)
	if i < 0 {
		return nil, false
	}
	return w.leads[i].Clone(), true
}

func (w *Workspace) Notify(message string, typ entity.NotificationType) entity.Notification {
	n := entity.Notification{ID: uuid.New().String(), Message: message, Type: typ}

	w.mu.Lock()
	w.notifications = append(w.notifications, n)
	if len(w.notifications) > maxNotifications {
		w.notifications = slices.Delete(w.notifications, 0, len(w.notifications)-maxNotifications)
	}
	w.mu.Unlock()

	w.logger.Debug("notification", "type", typ, "message", message)
	w.publish(Event{Type: EventNotifications})
	return n
}

// Warn is the Notifier handed to fallback paths.
func (w *Workspace) Warn(message string) {
	w.Notify(message, entity.NotifyWarning)
}

func (w *Workspace) Notifications() []entity.Notification {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entity.Notification{}, w.notifications...)
}

func (w *Workspace) DismissNotification(id string) bool {
	w.mu.Lock()
	i := slices.IndexFunc(w.notifications, func(n entity.Notification) bool { return n.ID == id })
	if i >= 0 {
		w.notifications = slices.Delete(w.notifications, i, i+1)
	}
	w.mu.Unlock()

	if i >= 0 {
		w.publish(Event{Type: EventNotifications})
	}
	return i >= 0
}

func (w *Workspace) State() entity.AppState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Workspace) SetState(s entity.AppState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()

	w.publish(Event{Type: EventState})
}

// Reset clears the dashboard and the stored lead list. Search history and
// the profile are kept.
func (w *Workspace) Reset(ctx context.Context) {
	w.mu.Lock()
	w.leads = nil
	w.selected = map[string]struct{}{}
	w.activeID = ""
	w.state = entity.StateIdle
	w.commit(func() { w.leadRepo.SaveAll(ctx, []*entity.Lead{}) })

	w.Notify("Dashboard reset", entity.NotifyInfo)
	w.publish(Event{Type: EventLeads}, Event{Type: EventSelection}, Event{Type: EventState})
}

func (w *Workspace) Offline() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.offline
}

func (w *Workspace) SetOffline(offline bool) {
	w.mu.Lock()
	w.offline = offline
	w.mu.Unlock()

	if w.onOffline != nil {
		w.onOffline(offline)
	}
	w.logger.Info("offline mode changed", "offline", offline)
	w.publish(Event{Type: EventSession})
}

// Logout ends the session. Leaving offline mode also drops the profile, so
// the next Load starts from the stored one.
func (w *Workspace) Logout() {
	w.mu.Lock()
	wasOffline := w.offline
	w.leads = nil
	w.selected = map[string]struct{}{}
	w.activeID = ""
	w.state = entity.StateIdle
	if wasOffline {
		w.offline = false
		w.profile = nil
	}
	w.mu.Unlock()

	if wasOffline && w.onOffline != nil {
		w.onOffline(false)
	}
	w.publish(Event{Type: EventSession}, Event{Type: EventLeads}, Event{Type: EventProfile})
}

// Profile returns a copy of the profile, or nil after an offline logout.
func (w *Workspace) Profile() *entity.UserProfile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.profile.Clone()
}

// profileOrDefault never returns nil.
func (w *Workspace) profileOrDefault() *entity.UserProfile {
	if p := w.Profile(); p != nil {
		return p
	}
	return entity.NewProfile(w.ownerEmail, w.now())
}

func (w *Workspace) SaveProfile(ctx context.Context, p *entity.UserProfile) *entity.UserProfile {
	w.mu.Lock()
	w.profile = p.Clone()
	snapshot := p.Clone()
	w.commit(func() { w.profileRepo.Save(ctx, snapshot) })

	w.publish(Event{Type: EventProfile})
	return snapshot.Clone()
}

func (w *Workspace) History() []entity.SearchHistoryItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entity.SearchHistoryItem{}, w.history...)
}

// beginSearch empties the board before a new search.
func (w *Workspace) beginSearch() {
	w.mu.Lock()
	w.state = entity.StateSearching
	w.leads = nil
	w.selected = map[string]struct{}{}
	w.activeID = ""
	w.mu.Unlock()

	w.publish(Event{Type: EventState}, Event{Type: EventLeads}, Event{Type: EventSelection})
}

// completeSearch stores the results sorted by score, records the search in
// history and persists both.
func (w *Workspace) completeSearch(ctx context.Context, criteria entity.SearchCriteria, leads []*entity.Lead) []*entity.Lead {
	sortLeads(leads, entity.SortScoreDesc)
	item := entity.NewSearchHistoryItem(criteria, leads, w.now())

	w.mu.Lock()
	w.leads = leads
	w.history = entity.PushHistory(w.history, item)
	w.state = entity.StateComplete

	leadSnap := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		leadSnap = append(leadSnap, l.Clone())
	}
	historySnap := append([]entity.SearchHistoryItem{}, w.history...)
	w.commit(func() {
		w.leadRepo.SaveAll(ctx, leadSnap)
		w.historyRepo.SaveAll(ctx, historySnap)
	})

	w.publish(Event{Type: EventLeads}, Event{Type: EventHistory}, Event{Type: EventState})

	out := make([]*entity.Lead, 0, len(leadSnap))
	for _, l := range leadSnap {
		out = append(out, l.Clone())
	}
	return out
}

// Subscribe returns a channel of change events and a cancel func. Slow
// subscribers miss events rather than block the workspace.
func (w *Workspace) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	w.subMu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	w.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.subMu.Lock()
			delete(w.subs, id)
			w.subMu.Unlock()
			close(ch)
		})
	}
}

func (w *Workspace) publish(events ...Event) {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	for _, ch := range w.subs {
		for _, e := range events {
			select {
			case ch <- e:
			default:
			}
		}
	}
}
