package serverclock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-minewatch/go-minewatch/lib/chat"
	"github.com/go-minewatch/go-minewatch/lib/util/time/clockmath"
)

type mockSender struct {
	mu   sync.Mutex
	cmds []string
	err  error
}

func (m *mockSender) SendCommand(cmd string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = append(m.cmds, cmd)
	return m.err
}

func (m *mockSender) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.cmds))
	copy(out, m.cmds)
	return out
}

type mockEndpoints struct {
	id string
	ok bool
}

func (m *mockEndpoints) CurrentEndpoint() (string, bool) {
	return m.id, m.ok
}

type fixture struct {
	clock      *ServerClock
	sender     *mockSender
	endpoints  *mockEndpoints
	dispatcher *chat.Dispatcher
	displayed  []string
}

func newFixture(endpoint string, now time.Time) *fixture {
	f := &fixture{
		sender:     &mockSender{},
		endpoints:  &mockEndpoints{id: endpoint, ok: endpoint != ""},
		dispatcher: chat.NewDispatcher(),
	}
	f.clock = New(f.sender, f.endpoints, func(line string) {
		f.displayed = append(f.displayed, line)
	}, Options{})
	f.clock.nowFunc = func() time.Time { return now }
	f.clock.Register(f.dispatcher)
	return f
}

func timeCheckLine(minutes string) string {
	return "Block changes from player watsonservertimecheck between " + minutes + " and " + minutes + " minutes ago in world:"
}

func TestOffsetMinutesZeroBeforeResolution(t *testing.T) {
	f := newFixture("203.0.113.5:25565", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 0, f.clock.OffsetMinutes())
	f.clock.EnsureKnown(false)
	assert.Equal(t, 0, f.clock.OffsetMinutes())
}

func TestOffsetMinutesZeroWithoutEndpoint(t *testing.T) {
	f := newFixture("", time.Now())

	assert.Equal(t, 0, f.clock.OffsetMinutes())
}

func TestEnsureKnownWithoutEndpointIsNoop(t *testing.T) {
	f := newFixture("", time.Now())

	f.clock.EnsureKnown(true)
	assert.Empty(t, f.sender.sent())
	assert.Empty(t, f.displayed)
}

func TestEnsureKnownSendsProbeWithReferenceDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)

	f.clock.EnsureKnown(true)

	require.Len(t, f.sender.sent(), 1)
	assert.Equal(t,
		"/lb player watsonservertimecheck since 28.8.2026 00:00:00 before 28.8.2026 00:00:01 limit 1",
		f.sender.sent()[0])
}

func TestFullProbeResolution(t *testing.T) {
	// Midnight local: the reference instant is exactly two days (2880
	// minutes) in the past.
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)

	f.clock.EnsureKnown(true)
	require.Len(t, f.sender.sent(), 1)

	echo := f.dispatcher.Dispatch(timeCheckLine("100"))
	assert.False(t, echo, "probe header must never be echoed")

	assert.Equal(t, 2780, f.clock.OffsetMinutes())
	require.Len(t, f.displayed, 1)
	assert.Equal(t, clockmath.FormatMonthDayTime(now.Add(-2780*time.Minute)), f.displayed[0])
}

func TestOffsetSignConvention(t *testing.T) {
	// 01:41 local: 2*1440+101 = 2981 minutes past the reference instant.
	now := time.Date(2026, 3, 10, 1, 41, 0, 0, time.UTC)
	f := newFixture("play.example.net:25565", now)

	f.clock.EnsureKnown(false)
	f.dispatcher.Dispatch(timeCheckLine("1552"))

	assert.Equal(t, 1429, f.clock.OffsetMinutes())
}

func TestFirstResponseWins(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)

	f.clock.EnsureKnown(true)
	f.dispatcher.Dispatch(timeCheckLine("100"))
	f.dispatcher.Dispatch(timeCheckLine("90"))

	assert.Equal(t, 2780, f.clock.OffsetMinutes())
	assert.Len(t, f.displayed, 1, "display fires once, for the first response only")
}

func TestNoResultsSuppressedExactlyOnceAfterProbe(t *testing.T) {
	now := time.Date(2026, 3, 10, 1, 41, 0, 0, time.UTC)
	f := newFixture("play.example.net:25565", now)

	// Before any probe: user-triggered no-results lines pass through.
	assert.True(t, f.dispatcher.Dispatch("No results found."))

	f.clock.EnsureKnown(false)
	f.dispatcher.Dispatch(timeCheckLine("1552"))

	assert.False(t, f.dispatcher.Dispatch("No results found."), "the probe's own no-results line is hidden")
	assert.True(t, f.dispatcher.Dispatch("No results found."), "later no-results lines echo again")
}

func TestUnparsableMinutesAbandonsProbe(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)
	f.clock.EnsureKnown(true)

	// \d+ admits more digits than an int holds; the handler must abandon
	// rather than store garbage.
	echo := f.clock.handleTimeCheck("header", []string{"header", "99999999999999999999", "99999999999999999999"})

	assert.False(t, echo)
	assert.Equal(t, 0, f.clock.OffsetMinutes())
	assert.Empty(t, f.displayed)
	// Suppression was never armed, so an unrelated no-results line echoes.
	assert.True(t, f.dispatcher.Dispatch("No results found."))
}

func TestEnsureKnownAfterResolutionDisplaysWithoutProbe(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)

	f.clock.EnsureKnown(false)
	f.dispatcher.Dispatch(timeCheckLine("100"))
	require.Len(t, f.sender.sent(), 1)
	assert.Empty(t, f.displayed)

	f.clock.EnsureKnown(true)

	assert.Len(t, f.sender.sent(), 1, "no second probe once resolved")
	assert.Len(t, f.displayed, 1)
}

func TestDuplicateEnsureKnownResends(t *testing.T) {
	// Sending again before resolution is harmless: the first response wins
	// and the duplicate header is ignored.
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)

	f.clock.EnsureKnown(false)
	f.clock.EnsureKnown(false)

	sent := f.sender.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, sent[0], sent[1])
}

func TestEndpointsResolveIndependently(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("first:25565", now)

	f.clock.EnsureKnown(false)
	f.dispatcher.Dispatch(timeCheckLine("100"))
	assert.Equal(t, 2780, f.clock.OffsetMinutes())

	// Reconnect to a different server.
	f.endpoints.id = "second:25565"
	assert.Equal(t, 0, f.clock.OffsetMinutes())

	f.clock.EnsureKnown(false)
	require.Len(t, f.sender.sent(), 2)
	f.dispatcher.Dispatch(timeCheckLine("2880"))
	assert.Equal(t, 0, f.clock.OffsetMinutes())

	// The first server's entry is untouched.
	f.endpoints.id = "first:25565"
	assert.Equal(t, 2780, f.clock.OffsetMinutes())
}

func TestHeaderIgnoredWithoutEndpoint(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f := newFixture("203.0.113.5:25565", now)
	f.clock.EnsureKnown(false)
	f.endpoints.ok = false
	f.endpoints.id = ""

	echo := f.dispatcher.Dispatch(timeCheckLine("100"))

	assert.False(t, echo)
	f.endpoints.ok = true
	f.endpoints.id = "203.0.113.5:25565"
	assert.Equal(t, 0, f.clock.OffsetMinutes())
}

func TestOptionsDefaults(t *testing.T) {
	sc := New(&mockSender{}, &mockEndpoints{}, nil, Options{})

	assert.Equal(t, DefaultProbePlayer, sc.probePlayer)
	assert.Equal(t, clockmath.DefaultReferenceDays, sc.referenceDays)
	assert.True(t, sc.echoNextNoResults)
}
