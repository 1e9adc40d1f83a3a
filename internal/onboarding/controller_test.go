package onboarding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pass      bool
	spm       float64
	passWrite int
	spmWrite  int
	err       error
}

func (f *fakeStore) PassOnboarding() bool { return f.pass }
func (f *fakeStore) SPMAverage() float64  { return f.spm }

func (f *fakeStore) SetPassOnboarding(v bool) error {
	f.passWrite++
	if f.err != nil {
		return f.err
	}
	f.pass = v
	return nil
}

func (f *fakeStore) SetSPMAverage(v float64) error {
	f.spmWrite++
	if f.err != nil {
		return f.err
	}
	f.spm = v
	return nil
}

func always() bool { return true }

func TestController_RetreatAtFirstStepIsNoop(t *testing.T) {
	c := NewController(&fakeStore{}, always)
	assert.False(t, c.CanRetreat())
	c.Retreat()
	assert.Equal(t, StepIntro, c.Current())
}

func TestController_WalkThrough(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store, always)

	for want := StepMenubar; want <= StepOuttro; want++ {
		require.NoError(t, c.Advance())
		assert.Equal(t, want, c.Current())
	}
	assert.False(t, c.Completed())
	assert.Zero(t, store.passWrite)

	c.Retreat()
	assert.Equal(t, StepSpeechTest, c.Current())
	require.NoError(t, c.Advance())
	assert.Equal(t, StepOuttro, c.Current())
}

func TestController_CompletionFlagSetOnce(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store, always, WithStartStep(StepOuttro))

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Advance())
		assert.Equal(t, StepOuttro, c.Current())
	}
	assert.True(t, c.Completed())
	assert.True(t, store.pass)
	assert.Equal(t, 1, store.passWrite)
}

func TestController_SpeechTestGate(t *testing.T) {
	ready := false
	c := NewController(&fakeStore{}, func() bool { return ready }, WithStartStep(StepSpeechTest))

	assert.False(t, c.CanAdvance())
	err := c.Advance()
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.Equal(t, StepSpeechTest, c.Current())

	// retreating is never gated
	c.Retreat()
	assert.Equal(t, StepPractice, c.Current())
	assert.True(t, c.CanAdvance())
	require.NoError(t, c.Advance())

	ready = true
	assert.True(t, c.CanAdvance())
	require.NoError(t, c.Advance())
	assert.Equal(t, StepOuttro, c.Current())
}

func TestController_NilReadinessIsReady(t *testing.T) {
	c := NewController(nil, nil, WithStartStep(StepSpeechTest))
	assert.True(t, c.CanAdvance())
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())
	assert.True(t, c.Completed())
}

func TestController_Skip(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store, always, WithStartStep(StepFeedback))

	res := c.Skip()
	assert.True(t, res.NoticeRequired)
	assert.Equal(t, BaselineSPM, res.SPMAverage)
	assert.Equal(t, BaselineSPM, store.spm)
	assert.Equal(t, StepFeedback, c.Current())

	c = NewController(store, always, WithBaselineSPM(300))
	assert.Equal(t, 300.0, c.Skip().SPMAverage)
	assert.Equal(t, 300.0, store.spm)
}

func TestController_StoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	c := NewController(store, always, WithStartStep(StepOuttro))

	err := c.Advance()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, c.Completed())

	// skip never surfaces the write failure
	assert.True(t, c.Skip().NoticeRequired)
}

func TestController_AlreadyPassed(t *testing.T) {
	store := &fakeStore{pass: true}
	c := NewController(store, always, WithStartStep(StepOuttro))
	assert.True(t, c.Completed())
	require.NoError(t, c.Advance())
	assert.Zero(t, store.passWrite)
}

func TestController_Indicator(t *testing.T) {
	c := NewController(nil, always, WithStartStep(StepFeedback))
	assert.Equal(t, "2/5", c.Indicator())
	assert.Equal(t, []bool{true, true, false, false, false}, c.Pills())
}

func TestContent(t *testing.T) {
	for _, s := range Steps {
		content := Content(s)
		assert.NotEmpty(t, content.Title, s.String())
		assert.NotEmpty(t, content.Subtitle, s.String())
	}
	assert.True(t, Content(StepSpeechTest).Illustration.Embedded)
	assert.Equal(t, Content(StepOuttro), Content(Step(42)))
	assert.Equal(t, Content(StepIntro), Content(Step(-1)))
	assert.False(t, Step(6).Valid())
	assert.Equal(t, "speechTest", StepSpeechTest.String())
}

func TestController_ReadinessMayQueryController(t *testing.T) {
	var c *Controller
	c = NewController(nil, func() bool {
		return c.Current() == StepSpeechTest
	}, WithStartStep(StepSpeechTest))

	done := make(chan error, 1)
	go func() {
		assert.True(t, c.CanAdvance())
		done <- c.Advance()
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Equal(t, StepOuttro, c.Current())
	case <-time.After(2 * time.Second):
		t.Fatal("readiness callback deadlocked the controller")
	}
}

func TestResumeStep(t *testing.T) {
	assert.Equal(t, StepIntro, ResumeStep(nil))
	assert.Equal(t, StepIntro, ResumeStep([]string{"bogus"}))
	assert.Equal(t, StepPractice, ResumeStep([]string{"intro", "menubar", "practice", "feedback"}))
	assert.Equal(t, StepOuttro, ResumeStep([]string{"outtro", "intro"}))
}
