package transport

import (
	"bufio"
	"net"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-minewatch/go-minewatch/lib/chat"
)

type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (c *lineCollector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *lineCollector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestLineConnEchoesUnmatchedLines(t *testing.T) {
	server, client := net.Pipe()
	out := &lineCollector{}
	c := Start(client, chat.NewDispatcher(), out.add)
	defer c.Close()

	_, err := server.Write([]byte("hello\nworld\n"))
	require.NoError(t, err)

	waitFor(t, func() bool { return len(out.get()) == 2 })
	assert.Equal(t, []string{"hello", "world"}, out.get())
}

func TestLineConnSuppressedLinesSkipOutput(t *testing.T) {
	server, client := net.Pipe()
	d := chat.NewDispatcher()
	d.Subscribe(regexp.MustCompile(`^secret`), func(string, []string) bool { return false })
	out := &lineCollector{}
	c := Start(client, d, out.add)
	defer c.Close()

	_, err := server.Write([]byte("secret line\nvisible line\n"))
	require.NoError(t, err)

	waitFor(t, func() bool { return len(out.get()) == 1 })
	assert.Equal(t, []string{"visible line"}, out.get())
}

func TestLineConnSendCommand(t *testing.T) {
	server, client := net.Pipe()
	c := Start(client, chat.NewDispatcher(), nil)
	defer c.Close()

	go func() {
		_ = c.SendCommand("/lb tool")
	}()

	reader := bufio.NewReader(server)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "/lb tool\n", line)
}

func TestLineConnCurrentEndpoint(t *testing.T) {
	server, client := net.Pipe()
	c := Start(client, chat.NewDispatcher(), nil)

	endpoint, ok := c.CurrentEndpoint()
	assert.True(t, ok)
	assert.NotEmpty(t, endpoint)

	require.NoError(t, c.Close())
	_, ok = c.CurrentEndpoint()
	assert.False(t, ok)

	assert.Error(t, c.SendCommand("too late"))
	server.Close()
}

func TestLineConnServerDropEndsWait(t *testing.T) {
	server, client := net.Pipe()
	c := Start(client, chat.NewDispatcher(), nil)

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	server.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after server dropped the connection")
	}
	_, ok := c.CurrentEndpoint()
	assert.False(t, ok)
}
