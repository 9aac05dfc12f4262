// Package workflow implements the application state machine that drives a
// syllabus audit from login through grading, guidance, and career planning.
// The machine owns all transient state; durable state lives behind the
// identity store, the skill ledger, and the session repository.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/syllabus-auditor/internal/domains"
	"github.com/jonathan/syllabus-auditor/internal/identity"
	"github.com/jonathan/syllabus-auditor/internal/ledger"
	"github.com/jonathan/syllabus-auditor/internal/oracle"
	"github.com/jonathan/syllabus-auditor/internal/scoring"
	"github.com/jonathan/syllabus-auditor/internal/session"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// Step is one screen-level state of the audit workflow.
type Step string

// Workflow steps. Profile and career compass are side-destinations reachable
// from any authenticated step; the rest form the linear audit flow.
const (
	StepLogin    Step = "login"
	StepDomain   Step = "domain"
	StepUpload   Step = "upload"
	StepAnalysis Step = "analysis"
	StepGuidance Step = "guidance"
	StepProfile  Step = "profile"
	StepCompass  Step = "career_compass"
)

// MinSyllabusTextLen is the minimum accepted length for pasted syllabus text
// when no file is attached.
const MinSyllabusTextLen = 50

// PassingQuizScore is the quiz percentage required to mark a skill verified.
const PassingQuizScore = 100

// Notice is a transient user-facing notification. Action, when set, names a
// follow-up the user can take (e.g. "View Profile" after a save).
type Notice struct {
	Message string
	Action  string
}

// Notifier receives transient notifications. Implementations must not block.
type Notifier interface {
	Notify(notice Notice)
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// Notify implements Notifier.
func (NoopNotifier) Notify(Notice) {}

// NavStats aggregates the signed-in user's audit history for display.
type NavStats struct {
	AuditCount   int `json:"auditCount"`
	AverageScore int `json:"averageScore"`
}

// Machine is the application state machine. All methods are safe for
// concurrent use; collaborator calls run outside the state lock under a
// generation guard so a superseded continuation never mutates state.
type Machine struct {
	oracle   oracle.Oracle
	identity *identity.Store
	ledger   *ledger.Ledger
	sessions *session.Repository
	notifier Notifier

	now   func() time.Time
	newID func() string

	mu              sync.Mutex
	step            Step
	user            *types.User
	domain          string
	role            string
	skills          []types.Skill
	syllabus        types.SyllabusContent
	analysis        *types.AnalysisResult
	resources       []types.Resource
	validated       []string
	activeSessionID string
	compass         *types.CareerCompass
	loading         bool
	generation      uint64
}

// NewMachine builds a machine and hydrates it from durable storage: when a
// current user is persisted the machine starts at domain selection, otherwise
// at login.
func NewMachine(o oracle.Oracle, ident *identity.Store, led *ledger.Ledger, repo *session.Repository, notifier Notifier) *Machine {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	m := &Machine{
		oracle:   o,
		identity: ident,
		ledger:   led,
		sessions: repo,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
		step:     StepLogin,
	}
	if user := ident.CurrentUser(); user != nil {
		m.user = user
		m.step = StepDomain
	}
	return m
}

// Login authenticates by email, persists the user, and advances to domain
// selection. On failure the machine is unchanged.
func (m *Machine) Login(email, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.step != StepLogin {
		return &TransitionError{Event: "login", Step: m.step}
	}

	user, err := m.identity.Login(email, name)
	if err != nil {
		m.notifier.Notify(Notice{Message: "Sign in failed. Check your email and try again."})
		return err
	}
	m.user = user
	m.step = StepDomain
	m.notifier.Notify(Notice{Message: fmt.Sprintf("Welcome, %s!", user.Name)})
	return nil
}

// Logout clears the current-user pointer and all transient state. Durable
// sessions and the skill ledger are untouched.
func (m *Machine) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.user == nil {
		return &TransitionError{Event: "logout", Step: m.step}
	}

	if err := m.identity.Logout(); err != nil {
		return err
	}
	m.generation++
	m.user = nil
	m.clearAuditLocked()
	m.compass = nil
	m.step = StepLogin
	return nil
}

// SelectDomainRole fetches the industry skill list for the chosen pair and
// advances to upload. On collaborator failure the machine stays at domain
// selection with no skills captured.
func (m *Machine) SelectDomainRole(ctx context.Context, domain, role string) error {
	if !domains.ValidDomain(domain) {
		return &RejectionError{Message: fmt.Sprintf("unknown domain %q", domain)}
	}
	if !domains.ValidRole(domain, role) {
		return &RejectionError{Message: fmt.Sprintf("unknown role %q for domain %q", role, domain)}
	}

	gen, err := m.beginCall(StepDomain, "selectDomainRole")
	if err != nil {
		return err
	}

	skills, err := m.oracle.IndustrySkills(ctx, domain, role)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settleLocked(gen) {
		return nil
	}
	if err != nil {
		m.notifier.Notify(Notice{Message: "Could not fetch industry skills. Please try again."})
		return err
	}
	m.domain = domain
	m.role = role
	m.skills = skills
	m.step = StepUpload
	return nil
}

// SubmitSyllabus grades the syllabus content against the fetched skill list
// and advances to analysis. A fresh analysis is always unsaved, and its
// missing skills are intersected with the global ledger so already-verified
// skills arrive pre-validated.
func (m *Machine) SubmitSyllabus(ctx context.Context, content types.SyllabusContent) error {
	if content.File == nil && len(content.Text) < MinSyllabusTextLen {
		return &RejectionError{Message: fmt.Sprintf("syllabus text must be at least %d characters", MinSyllabusTextLen)}
	}

	gen, err := m.beginCall(StepUpload, "submitSyllabus")
	if err != nil {
		return err
	}

	m.mu.Lock()
	skills := m.skills
	userID := m.user.ID
	domain, role := m.domain, m.role
	m.mu.Unlock()

	analysis, err := m.oracle.GradeSyllabus(ctx, domain, role, skills, content)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settleLocked(gen) {
		return nil
	}
	if err != nil {
		m.notifier.Notify(Notice{Message: "Grading failed. Please try again."})
		return err
	}
	m.syllabus = content
	m.analysis = analysis
	m.validated = m.ledger.Intersect(userID, analysis.MissingSkills)
	m.activeSessionID = ""
	m.resources = nil
	m.step = StepAnalysis
	return nil
}

// RequestGuidance fetches learning resources for the missing skills and
// advances to guidance. On failure the machine stays at analysis.
func (m *Machine) RequestGuidance(ctx context.Context) error {
	gen, err := m.beginCall(StepAnalysis, "requestGuidance")
	if err != nil {
		return err
	}

	m.mu.Lock()
	missing := append([]string(nil), m.analysis.MissingSkills...)
	m.mu.Unlock()

	resources, err := m.oracle.LearningResources(ctx, missing)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settleLocked(gen) {
		return nil
	}
	if err != nil {
		m.notifier.Notify(Notice{Message: "Could not fetch learning resources. Please try again."})
		return err
	}
	m.resources = resources
	m.step = StepGuidance
	return nil
}

// Save persists the current analysis. The first save mints a new session id;
// later saves reuse it and replace the record. An empty name falls back to
// the previous name, then to "<role> Analysis - <date>".
func (m *Machine) Save(name string) (*types.SavedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return nil, ErrBusy
	}
	if m.analysis == nil || (m.step != StepAnalysis && m.step != StepGuidance) {
		return nil, &TransitionError{Event: "save", Step: m.step}
	}

	id := m.activeSessionID
	if name == "" && id != "" {
		if existing := m.sessions.Get(id); existing != nil {
			name = existing.Name
		}
	}
	if id == "" {
		id = m.newID()
	}
	now := m.now()
	if name == "" {
		name = fmt.Sprintf("%s Analysis - %s", m.role, now.Format("2006-01-02"))
	}

	saved := types.SavedSession{
		ID:              id,
		UserID:          m.user.ID,
		Name:            name,
		Date:            now.Format("2006-01-02"),
		Timestamp:       now.UnixMilli(),
		Domain:          m.domain,
		Role:            m.role,
		IndustrySkills:  m.skills,
		Analysis:        m.analysis,
		SyllabusText:    m.syllabus.Text,
		ValidatedSkills: append([]string(nil), m.validated...),
	}
	if err := m.sessions.Save(saved); err != nil {
		m.notifier.Notify(Notice{Message: "Could not save the session. Please try again."})
		return nil, err
	}
	m.activeSessionID = id
	m.notifier.Notify(Notice{Message: "Session saved.", Action: "View Profile"})
	return &saved, nil
}

// ValidateSkill records a quiz result for a missing skill. A perfect score
// marks the skill verified in the session, the global ledger, and, when the
// session is saved, the persisted record. Anything below the threshold is
// informational and mutates nothing.
func (m *Machine) ValidateSkill(skill string, quizScore int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.step != StepGuidance || m.analysis == nil {
		return &TransitionError{Event: "validateSkill", Step: m.step}
	}
	if !contains(m.analysis.MissingSkills, skill) {
		return &RejectionError{Message: fmt.Sprintf("%q is not a missing skill of the current analysis", skill)}
	}

	if quizScore < PassingQuizScore {
		m.notifier.Notify(Notice{Message: fmt.Sprintf("Quiz score %d%%. A perfect score is required to verify %q.", quizScore, skill)})
		return nil
	}
	if contains(m.validated, skill) {
		return nil
	}

	if _, err := m.ledger.Merge(m.user.ID, skill); err != nil {
		m.notifier.Notify(Notice{Message: "Could not record the verified skill. Please try again."})
		return err
	}
	m.validated = append(m.validated, skill)
	if m.activeSessionID != "" {
		if err := m.sessions.UpdateValidatedSkills(m.activeSessionID, m.validated); err != nil {
			return err
		}
	}
	m.notifier.Notify(Notice{Message: fmt.Sprintf("%q verified.", skill)})
	return nil
}

// Reset discards the current audit and returns to domain selection, forcing
// a fresh domain/role choice.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.user == nil {
		return &TransitionError{Event: "reset", Step: m.step}
	}
	m.generation++
	m.clearAuditLocked()
	m.step = StepDomain
	return nil
}

// OpenProfile navigates to the profile from any authenticated step.
func (m *Machine) OpenProfile() error {
	return m.navigate("openProfile", StepProfile)
}

// OpenCompass navigates to the career compass from any authenticated step.
// Any previously generated compass data is cleared on entry.
func (m *Machine) OpenCompass() error {
	if err := m.navigate("openCompass", StepCompass); err != nil {
		return err
	}
	m.mu.Lock()
	m.compass = nil
	m.mu.Unlock()
	return nil
}

// GenerateCompass produces a roadmap, practice tasks, and a readiness test
// for an aspirational role. The result lives only in memory.
func (m *Machine) GenerateCompass(ctx context.Context, stream, domain, role string) error {
	if !domains.ValidStream(stream) {
		return &RejectionError{Message: fmt.Sprintf("unknown stream %q", stream)}
	}
	if !domains.ValidDomain(domain) {
		return &RejectionError{Message: fmt.Sprintf("unknown domain %q", domain)}
	}
	if !domains.ValidRole(domain, role) {
		return &RejectionError{Message: fmt.Sprintf("unknown role %q for domain %q", role, domain)}
	}

	gen, err := m.beginCall(StepCompass, "generateCompass")
	if err != nil {
		return err
	}

	domainLabel := fmt.Sprintf("%s (%s)", stream, domain)
	compass, err := m.oracle.CareerCompass(ctx, domainLabel, role)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settleLocked(gen) {
		return nil
	}
	if err != nil {
		m.notifier.Notify(Notice{Message: "Could not generate the career compass. Please try again."})
		return err
	}
	m.compass = compass
	return nil
}

// LoadSession restores a saved session into the live state and jumps to
// analysis. The uploaded file is not restored; only its extracted text was
// persisted.
func (m *Machine) LoadSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.step != StepProfile || m.user == nil {
		return &TransitionError{Event: "loadSession", Step: m.step}
	}

	saved := m.sessions.Get(id)
	if saved == nil || saved.UserID != m.user.ID {
		return &RejectionError{Message: "session not found"}
	}

	m.domain = saved.Domain
	m.role = saved.Role
	m.skills = saved.IndustrySkills
	m.analysis = saved.Analysis
	m.syllabus = types.SyllabusContent{Text: saved.SyllabusText}
	m.validated = append([]string(nil), saved.ValidatedSkills...)
	m.activeSessionID = saved.ID
	m.resources = nil
	m.step = StepAnalysis
	return nil
}

// DeleteSession removes a saved session after explicit confirmation.
// Declining aborts with no state change.
func (m *Machine) DeleteSession(id string, confirmed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.user == nil {
		return &TransitionError{Event: "deleteSession", Step: m.step}
	}
	if !confirmed {
		return nil
	}

	saved := m.sessions.Get(id)
	if saved == nil || saved.UserID != m.user.ID {
		return nil
	}
	if err := m.sessions.Delete(id); err != nil {
		return err
	}
	if m.activeSessionID == id {
		m.activeSessionID = ""
	}
	m.notifier.Notify(Notice{Message: "Session deleted."})
	return nil
}

// Step returns the current workflow step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// User returns the signed-in user, or nil.
func (m *Machine) User() *types.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether a collaborator call is outstanding.
func (m *Machine) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Selection returns the current domain and role.
func (m *Machine) Selection() (domain, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domain, m.role
}

// Skills returns the fetched industry skill list.
func (m *Machine) Skills() []types.Skill {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skills
}

// Analysis returns the current analysis, or nil.
func (m *Machine) Analysis() *types.AnalysisResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analysis
}

// Resources returns the fetched learning resources.
func (m *Machine) Resources() []types.Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resources
}

// ValidatedSkills returns the session-scoped verified skills.
func (m *Machine) ValidatedSkills() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.validated...)
}

// ActiveSessionID returns the id of the saved session backing the current
// analysis, or empty when the analysis has never been persisted.
func (m *Machine) ActiveSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeSessionID
}

// Compass returns the generated career compass, or nil.
func (m *Machine) Compass() *types.CareerCompass {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compass
}

// EffectiveScore returns the current analysis score after crediting verified
// skills, or 0 when no analysis is present.
func (m *Machine) EffectiveScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.analysis == nil {
		return 0
	}
	return scoring.EffectiveScore(m.analysis.Score, len(m.analysis.MissingSkills), len(m.validated))
}

// Sessions returns the signed-in user's saved sessions, most recent first.
func (m *Machine) Sessions() []types.SavedSession {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	if user == nil {
		return nil
	}
	return m.sessions.ListForUser(user.ID)
}

// NavStats returns the signed-in user's audit count and average effective
// score.
func (m *Machine) NavStats() NavStats {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	if user == nil {
		return NavStats{}
	}
	stats := m.sessions.StatsForUser(user.ID)
	return NavStats{AuditCount: stats.Count, AverageScore: stats.AverageScore}
}

// navigate moves to a side-destination reachable from any authenticated step.
func (m *Machine) navigate(event string, to Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return ErrBusy
	}
	if m.user == nil {
		return &TransitionError{Event: event, Step: m.step}
	}
	m.step = to
	return nil
}

// beginCall gates a collaborator call: the machine must be idle and at the
// required step. It sets the loading flag and returns the generation to hand
// to settleLocked.
func (m *Machine) beginCall(required Step, event string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return 0, ErrBusy
	}
	if m.step != required {
		return 0, &TransitionError{Event: event, Step: m.step}
	}
	m.loading = true
	m.generation++
	return m.generation, nil
}

// settleLocked clears the loading flag if the continuation is still current.
// A stale continuation (superseded by reset or logout) must not mutate
// state. Caller holds m.mu.
func (m *Machine) settleLocked(gen uint64) bool {
	if m.generation != gen {
		return false
	}
	m.loading = false
	return true
}

// clearAuditLocked discards all audit-scoped transient state. Caller holds
// m.mu.
func (m *Machine) clearAuditLocked() {
	m.domain = ""
	m.role = ""
	m.skills = nil
	m.syllabus = types.SyllabusContent{}
	m.analysis = nil
	m.resources = nil
	m.validated = nil
	m.activeSessionID = ""
	m.loading = false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
