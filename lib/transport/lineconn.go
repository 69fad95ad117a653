package transport

import (
	"bufio"
	"net"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/go-minewatch/go-minewatch/lib/chat"
	"github.com/go-minewatch/go-minewatch/lib/util/logger"
)

var log = logger.GetMinewatchLogger()

// LineConn is a newline-delimited console connection to a remote server.
// Inbound lines are handed to the chat dispatcher in arrival order on a
// single reader goroutine; lines no handler suppresses are echoed to the
// local output. Outbound commands are single lines.
//
// LineConn satisfies the collaborator contract the server clock needs: it
// is a command sender and an endpoint source.
type LineConn struct {
	conn       net.Conn
	endpoint   string
	dispatcher *chat.Dispatcher
	output     chat.OutputFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Dial connects to a console address and returns a started LineConn.
func Dial(address string, timeout time.Duration, dispatcher *chat.Dispatcher, output chat.OutputFunc) (*LineConn, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, oops.Errorf("console dial to %s failed: %w", address, err)
	}
	log.WithField("endpoint", conn.RemoteAddr().String()).Debug("Console connection established")
	return Start(conn, dispatcher, output), nil
}

// Start wraps an already established connection and begins reading. The
// endpoint identifier is the connection's remote address.
func Start(conn net.Conn, dispatcher *chat.Dispatcher, output chat.OutputFunc) *LineConn {
	c := &LineConn{
		conn:       conn,
		endpoint:   conn.RemoteAddr().String(),
		dispatcher: dispatcher,
		output:     output,
		done:       make(chan struct{}),
	}
	c.wg.Add(1)
	go c.readLoop()
	return c
}

func (c *LineConn) readLoop() {
	defer c.wg.Done()
	defer c.markDone()

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Text()
		if c.dispatcher.Dispatch(line) && c.output != nil {
			c.output(line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).WithField("endpoint", c.endpoint).Debug("Console read loop ended")
	}
}

func (c *LineConn) markDone() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// SendCommand writes one command line to the server.
func (c *LineConn) SendCommand(cmd string) error {
	select {
	case <-c.done:
		return oops.Errorf("console connection to %s is closed", c.endpoint)
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write([]byte(cmd + "\n")); err != nil {
		return oops.Errorf("console write to %s failed: %w", c.endpoint, err)
	}
	return nil
}

// CurrentEndpoint returns the remote server identifier while the
// connection is alive.
func (c *LineConn) CurrentEndpoint() (string, bool) {
	select {
	case <-c.done:
		return "", false
	default:
		return c.endpoint, true
	}
}

// Close shuts the connection down and waits for the reader to finish.
func (c *LineConn) Close() error {
	c.markDone()
	c.wg.Wait()
	return nil
}

// Wait blocks until the connection is gone, whether closed locally or
// dropped by the server.
func (c *LineConn) Wait() {
	<-c.done
	c.wg.Wait()
}
