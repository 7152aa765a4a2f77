package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRecognizer(policy TapPolicy) (*Recognizer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(Config{LongPress: 600 * time.Millisecond, TapPolicy: policy, Now: clock.Now}), clock
}

func TestReleaseJustBeforeDurationNeverCommits(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	token, ok := r.Press(7, PointerPrimary)
	require.True(t, ok)
	clock.Advance(599 * time.Millisecond)

	assert.Equal(t, None, r.Release(7))
	// The scheduled tick arrives after release
	clock.Advance(time.Millisecond)
	assert.Equal(t, None, r.Expire(7, token))
	assert.Equal(t, Idle, r.Phase(7))
}

func TestHeldPressCommitsOnceWithoutRelease(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	token, ok := r.Press(7, PointerTouch)
	require.True(t, ok)
	clock.Advance(600 * time.Millisecond)

	assert.Equal(t, LongPress, r.Expire(7, token))
	assert.Equal(t, Committed, r.Phase(7))
	assert.Equal(t, None, r.Expire(7, token), "second expiry must not commit again")
	assert.Equal(t, None, r.Release(7), "release after commit does nothing")
	assert.Equal(t, Idle, r.Phase(7))
}

func TestReleaseAfterDurationBeforeTickCommitsOnce(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	token, _ := r.Press(3, PointerPrimary)
	clock.Advance(700 * time.Millisecond)

	assert.Equal(t, LongPress, r.Release(3))
	assert.Equal(t, None, r.Expire(3, token))
}

func TestEarlyTickDoesNotCommit(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	token, _ := r.Press(3, PointerPrimary)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, None, r.Expire(3, token))
	assert.Equal(t, Pressed, r.Phase(3))
}

func TestStaleTokenFromEarlierPress(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	first, _ := r.Press(3, PointerPrimary)
	clock.Advance(100 * time.Millisecond)
	r.Release(3)

	second, ok := r.Press(3, PointerPrimary)
	require.True(t, ok)
	require.NotEqual(t, first, second)
	clock.Advance(550 * time.Millisecond)

	// The first press's tick fires 600ms after it started, only 550ms into the second
	assert.Equal(t, None, r.Expire(3, first))
	assert.Equal(t, Pressed, r.Phase(3))
}

func TestPressIsIdempotentWhilePressed(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)

	token, ok := r.Press(1, PointerPrimary)
	require.True(t, ok)
	clock.Advance(300 * time.Millisecond)

	again, ok := r.Press(1, PointerTouch)
	assert.False(t, ok)
	assert.Equal(t, token, again)

	// The original start time still counts
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, LongPress, r.Expire(1, token))
}

func TestNonPrimaryButtonsIgnored(t *testing.T) {
	r, _ := newTestRecognizer(TapIgnored)

	for _, ptr := range []Pointer{PointerSecondary, PointerMiddle} {
		_, ok := r.Press(1, ptr)
		assert.False(t, ok)
		assert.Equal(t, Idle, r.Phase(1))
	}
	assert.True(t, r.ContextMenu(1))
}

func TestCancelSignals(t *testing.T) {
	r, clock := newTestRecognizer(TapOpensEditor)

	token, _ := r.Press(5, PointerTouch)
	clock.Advance(200 * time.Millisecond)
	assert.True(t, r.Cancel(5))
	assert.False(t, r.Cancel(5))

	clock.Advance(time.Second)
	assert.Equal(t, None, r.Expire(5, token))
	assert.Equal(t, None, r.Release(5))
}

func TestCancelAll(t *testing.T) {
	r, clock := newTestRecognizer(TapIgnored)
	a, _ := r.Press(1, PointerPrimary)
	b, _ := r.Press(2, PointerTouch)

	r.CancelAll()
	clock.Advance(time.Second)
	assert.Equal(t, None, r.Expire(1, a))
	assert.Equal(t, None, r.Expire(2, b))
}

func TestTapPolicy(t *testing.T) {
	tests := []struct {
		policy TapPolicy
		want   Outcome
	}{
		{TapIgnored, None},
		{TapOpensEditor, Tap},
	}

	for _, tt := range tests {
		r, clock := newTestRecognizer(tt.policy)
		r.Press(9, PointerPrimary)
		clock.Advance(50 * time.Millisecond)
		assert.Equal(t, tt.want, r.Release(9))
	}
}

func TestDefaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, DefaultLongPress, r.Duration())
	assert.Equal(t, TapIgnored, r.Policy())
	assert.Equal(t, None, r.Release(1))
}
