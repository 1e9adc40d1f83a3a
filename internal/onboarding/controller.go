package onboarding

import (
	"errors"
	"fmt"
	"sync"

	"highpitch/internal/logging"
)

// BaselineSPM is the speaking pace recorded when the user skips calibration.
const BaselineSPM = 356.7

// ErrNotReady is returned by Advance when the pace test has not produced a
// result yet.
var ErrNotReady = errors.New("onboarding: pace test has no result yet")

// ConfigStore is the durable, process-wide configuration the tour writes to.
type ConfigStore interface {
	PassOnboarding() bool
	SetPassOnboarding(bool) error
	SPMAverage() float64
	SetSPMAverage(float64) error
}

// ReadinessFunc reports whether the pace test has produced a result. It is
// called without the controller's lock held.
type ReadinessFunc func() bool

// SkipResult tells the caller what to present after a skip.
type SkipResult struct {
	// NoticeRequired asks the caller to show the skip notice.
	NoticeRequired bool
	SPMAverage     float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithBaselineSPM overrides the pace recorded on skip.
func WithBaselineSPM(spm float64) Option {
	return func(c *Controller) {
		if spm > 0 {
			c.baselineSPM = spm
		}
	}
}

// WithStartStep starts the tour at s instead of the intro.
func WithStartStep(s Step) Option {
	return func(c *Controller) {
		c.current = clampStep(s)
	}
}

// Controller owns the tour's step index.
type Controller struct {
	mu          sync.Mutex
	store       ConfigStore
	ready       ReadinessFunc
	current     Step
	completed   bool
	baselineSPM float64
}

// NewController creates a controller at the intro step. A nil ready func is
// treated as always ready.
func NewController(store ConfigStore, ready ReadinessFunc, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		ready:       ready,
		baselineSPM: BaselineSPM,
	}
	for _, opt := range opts {
		opt(c)
	}
	if store != nil && store.PassOnboarding() {
		c.completed = true
	}
	return c
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Completed reports whether the tour has been finished.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// CanRetreat reports whether Retreat would move.
func (c *Controller) CanRetreat() bool {
	return c.Current() > FirstStep
}

// CanAdvance reports whether the forward control is enabled. It is disabled
// only on the speech test step until the pace test has a result.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	step, ready := c.current, c.ready
	c.mu.Unlock()
	return readyFor(step, ready)
}

// readyFor runs the readiness func without holding c.mu, so it may call
// back into the controller.
func readyFor(step Step, ready ReadinessFunc) bool {
	if step != StepSpeechTest {
		return true
	}
	return ready == nil || ready()
}

// Retreat moves one step back. It does nothing on the first step.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current > FirstStep {
		c.current--
		logging.Onboarding("retreat to %s", c.current)
	}
}

// Advance moves one step forward. On the last step it marks onboarding as
// passed in the store, once; later calls are no-ops.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		step, ready := c.current, c.ready
		c.mu.Unlock()
		ok := readyFor(step, ready)
		c.mu.Lock()
		if !ok {
			return ErrNotReady
		}
		if c.current == step {
			break
		}
	}

	if c.current == LastStep {
		if c.completed {
			return nil
		}
		c.completed = true
		logging.Onboarding("onboarding complete")
		if c.store == nil {
			return nil
		}
		if err := c.store.SetPassOnboarding(true); err != nil {
			logging.OnboardingWarn("failed to persist onboarding flag: %v", err)
			return fmt.Errorf("persist onboarding flag: %w", err)
		}
		return nil
	}

	c.current++
	logging.Onboarding("advance to %s", c.current)
	return nil
}

// Skip records the baseline pace and asks the caller to show the skip
// notice. The step does not change.
func (c *Controller) Skip() SkipResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	logging.Onboarding("skip at %s, spm baseline %.1f", c.current, c.baselineSPM)
	if c.store != nil {
		if err := c.store.SetSPMAverage(c.baselineSPM); err != nil {
			logging.OnboardingWarn("failed to persist spm baseline: %v", err)
		}
	}
	return SkipResult{NoticeRequired: true, SPMAverage: c.baselineSPM}
}

// Indicator returns the "n/5" progress caption.
func (c *Controller) Indicator() string {
	return fmt.Sprintf("%d/%d", c.Current(), len(Steps)-1)
}

// Pills returns the fill state of the five progress pills: pill i is filled
// once the tour has moved past it.
func (c *Controller) Pills() []bool {
	cur := int(c.Current())
	pills := make([]bool, len(Steps)-1)
	for i := range pills {
		pills[i] = i < cur
	}
	return pills
}
