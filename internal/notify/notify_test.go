package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerNotifierDelivers(t *testing.T) {
	got := make(chan Notification, 1)
	n := NewTimerNotifier(func(_ string, note Notification) { got <- note })
	defer n.Close()

	id, err := n.ScheduleOneShot(10*time.Millisecond, Notification{Title: "done", Body: "focus finished"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case note := <-got:
		assert.Equal(t, "done", note.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
	assert.Eventually(t, func() bool { return n.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTimerNotifierCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	n := NewTimerNotifier(func(string, Notification) { fired <- struct{}{} })
	defer n.Close()

	id, err := n.ScheduleOneShot(50*time.Millisecond, Notification{Title: "x"})
	require.NoError(t, err)
	n.Cancel(id)
	n.Cancel("unknown")
	assert.Equal(t, 0, n.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled notification fired")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestTimerNotifierClosed(t *testing.T) {
	n := NewTimerNotifier(nil)
	_, err := n.ScheduleOneShot(time.Hour, Notification{Title: "later"})
	require.NoError(t, err)
	assert.Equal(t, 1, n.Pending())

	n.Close()
	assert.Equal(t, 0, n.Pending())
	_, err = n.ScheduleOneShot(time.Second, Notification{})
	assert.ErrorIs(t, err, ErrClosed)
}
