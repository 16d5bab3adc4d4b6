package focus

import (
	"github.com/google/uuid"

	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Features selects trap behaviours.
type Features int

const (
	// FeatureInitialFocus moves focus into the trap on activation.
	FeatureInitialFocus Features = 1 << iota
	// FeatureTabLock cycles Tab and Shift+Tab inside the containers.
	FeatureTabLock
	// FeatureFocusLock pulls focus back when it lands outside.
	FeatureFocusLock
	// FeatureRestoreFocus returns focus to the pre-activation element on
	// deactivation.
	FeatureRestoreFocus

	FeaturesNone Features = 0
	FeaturesAll           = FeatureInitialFocus | FeatureTabLock | FeatureFocusLock | FeatureRestoreFocus
)

var featureNames = map[string]Features{
	"initial_focus": FeatureInitialFocus,
	"tab_lock":      FeatureTabLock,
	"focus_lock":    FeatureFocusLock,
	"restore_focus": FeatureRestoreFocus,
}

// ParseFeatures maps config names to a feature set.
func ParseFeatures(names []string) (Features, error) {
	var f Features
	for _, name := range names {
		bit, ok := featureNames[name]
		if !ok {
			return 0, tserrors.New(tserrors.ErrCodeInvalidInput, "unknown trap feature").
				WithContext("feature", name)
		}
		f |= bit
	}
	return f, nil
}

// Has reports whether every bit of o is set.
func (f Features) Has(o Features) bool { return f&o == o }

// TrapOptions configures a Trap.
type TrapOptions struct {
	Containers   []*tree.Node
	Features     Features
	InitialFocus *tree.Node
	// Enabled gates Tab and focus interception while active. Nil means
	// always enabled. Overlays pass "my layer is topmost" here so nested
	// traps do not fight over focus.
	Enabled func() bool

	History *History
	Logger  *logging.Logger
	Metrics *telemetry.Metrics
}

// Session is the state of one activation.
type Session struct {
	ID              string
	RestoreTarget   *tree.Node
	LastKnownActive *tree.Node
}

// Trap keeps focus inside a set of containers while active.
type Trap struct {
	doc          *tree.Document
	containers   []*tree.Node
	features     Features
	initialFocus *tree.Node
	enabled      func() bool
	history      *History
	logger       *logging.Logger
	metrics      *telemetry.Metrics

	session  *Session
	removers []func()
	locking  bool
}

// NewTrap validates opts. A trap without a document or container is a
// caller bug and fails here rather than at activation.
func NewTrap(doc *tree.Document, opts TrapOptions) (*Trap, error) {
	if doc == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoDocument, "focus trap requires a document")
	}
	var containers []*tree.Node
	for _, c := range opts.Containers {
		if c != nil {
			containers = append(containers, c)
		}
	}
	if len(containers) == 0 {
		return nil, tserrors.New(tserrors.ErrCodeNoContainer, "focus trap requires at least one container")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Trap{
		doc:          doc,
		containers:   containers,
		features:     opts.Features,
		initialFocus: opts.InitialFocus,
		enabled:      opts.Enabled,
		history:      opts.History,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Active reports whether the trap is active.
func (t *Trap) Active() bool { return t.session != nil }

// Session returns the current session, or nil when inactive.
func (t *Trap) Session() *Session { return t.session }

// Containers returns a copy of the trap's containers.
func (t *Trap) Containers() []*tree.Node {
	return append([]*tree.Node(nil), t.containers...)
}

// AddContainer adds another container, such as a portalled sibling tree.
func (t *Trap) AddContainer(n *tree.Node) {
	if n == nil {
		return
	}
	for _, c := range t.containers {
		if c == n {
			return
		}
	}
	t.containers = append(t.containers, n)
}

// Activate starts a session. Calling it on an active trap does nothing.
func (t *Trap) Activate() {
	if t.session != nil {
		return
	}
	s := &Session{ID: uuid.NewString()}
	if t.features.Has(FeatureRestoreFocus) {
		s.RestoreTarget = t.doc.ActiveElement()
	}
	t.session = s

	if t.features.Has(FeatureInitialFocus) {
		t.focusInitial()
	}
	if active := t.doc.ActiveElement(); t.contains(active) {
		s.LastKnownActive = active
	}

	if t.features.Has(FeatureTabLock) {
		t.removers = append(t.removers, t.doc.AddEventListener(tree.KeyDown, t.onKeyDown))
	}
	if t.features.Has(FeatureFocusLock) {
		t.removers = append(t.removers, t.doc.AddEventListener(tree.FocusIn, t.onFocusIn))
	}
	t.metrics.TrapTransition("activate")
	t.logger.Debug("focus trap activated", "session_id", s.ID, "container", t.containers[0].String())
}

// Deactivate ends the session, restoring focus when enabled. It is safe to
// call repeatedly and after the containers were detached.
func (t *Trap) Deactivate() {
	s := t.session
	if s == nil {
		return
	}
	for _, remove := range t.removers {
		remove()
	}
	t.removers = nil
	t.session = nil

	if t.features.Has(FeatureRestoreFocus) {
		target := s.RestoreTarget
		if target == nil || !target.Connected() {
			target = t.history.LatestExcept(t.containers)
		}
		if target != nil {
			t.doc.Focus(target, tree.FocusOptions{PreventScroll: true})
		}
	}
	t.metrics.TrapTransition("deactivate")
	t.logger.Debug("focus trap deactivated", "session_id", s.ID)
}

func (t *Trap) focusInitial() {
	active := t.doc.ActiveElement()
	if t.initialFocus != nil {
		if t.initialFocus == active {
			return
		}
	} else if t.contains(active) {
		return
	}

	if t.initialFocus != nil && t.doc.Focus(t.initialFocus, tree.FocusOptions{PreventScroll: true}) {
		return
	}
	if InContainer(t.containers[0], First, WithMetrics(t.metrics)) == Error {
		t.logger.NoFocusableElement(t.containers[0].String())
	}
}

func (t *Trap) enabledNow() bool {
	return t.enabled == nil || t.enabled()
}

func (t *Trap) contains(n *tree.Node) bool {
	if n == nil {
		return false
	}
	for _, c := range t.containers {
		if c.Contains(n) {
			return true
		}
	}
	return false
}

func (t *Trap) onKeyDown(ev *tree.Event) {
	if ev.Key.Key != terminal.KeyTab || ev.DefaultPrevented() || !t.enabledNow() {
		return
	}
	ev.PreventDefault()

	dir := Next
	if ev.Key.Shift {
		dir = Previous
	}
	In(t.doc, CandidatesIn(t.containers), dir|WrapAround,
		RelativeTo(ev.Target), WithMetrics(t.metrics))
}

func (t *Trap) onFocusIn(ev *tree.Event) {
	s := t.session
	if s == nil || t.locking || !t.enabledNow() {
		return
	}
	if t.contains(ev.Target) {
		s.LastKnownActive = ev.Target
		return
	}

	t.locking = true
	defer func() { t.locking = false }()

	opts := tree.FocusOptions{PreventScroll: true}
	if last := s.LastKnownActive; last != nil && last.Connected() && t.doc.Focus(last, opts) {
		return
	}
	In(t.doc, CandidatesIn(t.containers), First, WithMetrics(t.metrics))
	if active := t.doc.ActiveElement(); t.contains(active) {
		s.LastKnownActive = active
	}
}
