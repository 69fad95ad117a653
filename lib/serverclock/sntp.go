package serverclock

import (
	"net"
	"time"

	"github.com/beevik/ntp"
	"github.com/samber/oops"
)

// NTPClient abstracts the SNTP query so tests can substitute canned
// responses.
type NTPClient interface {
	QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error)
}

// DefaultNTPClient queries over the network via beevik/ntp.
type DefaultNTPClient struct{}

func (c *DefaultNTPClient) QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error) {
	return ntp.QueryWithOptions(host, options)
}

const (
	defaultSNTPTimeout = 5 * time.Second
	maxRTT             = 2 * time.Second // Max acceptable round-trip time
	maxRootDispersion  = 1 * time.Second // Max acceptable root dispersion
	maxRootDelay       = 1 * time.Second // Max acceptable root delay
)

// SNTPResolver is the fast path around the chat probe: when the remote
// endpoint's host answers SNTP itself, the clock offset can be measured
// directly instead of being teased out of LogBlock query headers.
type SNTPResolver struct {
	client  NTPClient
	timeout time.Duration
}

// NewSNTPResolver returns a resolver using the given client. A nil client
// falls back to DefaultNTPClient; a non-positive timeout falls back to a
// five second default.
func NewSNTPResolver(client NTPClient, timeout time.Duration) *SNTPResolver {
	if client == nil {
		client = &DefaultNTPClient{}
	}
	if timeout <= 0 {
		timeout = defaultSNTPTimeout
	}
	return &SNTPResolver{client: client, timeout: timeout}
}

// Resolve queries the endpoint's host over SNTP and converts the measured
// clock offset into whole minutes, local-ahead-of-remote. A host:port
// endpoint is reduced to its host before querying.
func (r *SNTPResolver) Resolve(endpoint string) (int, error) {
	host := endpoint
	if h, _, err := net.SplitHostPort(endpoint); err == nil {
		host = h
	}

	response, err := r.client.QueryWithOptions(host, ntp.QueryOptions{Timeout: r.timeout})
	if err != nil {
		return 0, oops.Errorf("SNTP query against %s failed: %w", host, err)
	}
	if err := validateResponse(response); err != nil {
		return 0, err
	}

	// beevik's ClockOffset is the correction to add to the local clock to
	// match the server, i.e. remote minus local. Stored offsets are local
	// minus remote, hence the negation. Integer division truncates toward
	// zero, matching the chat probe's minute arithmetic.
	return -int(response.ClockOffset / time.Minute), nil
}

// validateResponse rejects responses that cannot be trusted as a time
// source. Unlike general NTP hygiene checks, no bound is placed on the
// clock offset itself: a wildly wrong server clock is exactly what this
// module exists to measure.
func validateResponse(response *ntp.Response) error {
	if response.Leap == ntp.LeapNotInSync {
		return oops.Errorf("SNTP response rejected: server clock not synchronized")
	}
	if response.Stratum == 0 || response.Stratum > 15 {
		return oops.Errorf("SNTP response rejected: stratum %d out of range", response.Stratum)
	}
	if response.RTT < 0 || response.RTT > maxRTT {
		return oops.Errorf("SNTP response rejected: round-trip time %v out of bounds", response.RTT)
	}
	if response.Time.IsZero() {
		return oops.Errorf("SNTP response rejected: zero time value")
	}
	if response.RootDispersion > maxRootDispersion {
		return oops.Errorf("SNTP response rejected: root dispersion %v too high", response.RootDispersion)
	}
	if response.RootDelay > maxRootDelay {
		return oops.Errorf("SNTP response rejected: root delay %v too high", response.RootDelay)
	}
	return nil
}
