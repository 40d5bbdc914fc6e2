// Package dnscheck probes nameservers configured for host interfaces.
//
// It is used by the self-check command to tell a nameserver that is
// unreachable from one that merely answers with an error.
package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"github.com/maksimkurb/hostnet/src/internal/log"
)

const (
	defaultDNSPort = 53

	// DefaultTimeout bounds a single probe.
	DefaultTimeout = 3 * time.Second

	// DefaultQueryName is resolved by Check when no name is given.
	DefaultQueryName = "example.com."
)

// Result is the outcome of probing one nameserver.
type Result struct {
	Server string        `json:"server"`
	RTT    time.Duration `json:"rtt"`
	// Rcode is the response code, e.g. NOERROR or SERVFAIL.
	Rcode   string `json:"rcode,omitempty"`
	Answers int    `json:"answers"`
	Err     error  `json:"-"`
}

// Reachable reports whether the server answered at all.
func (r Result) Reachable() bool {
	return r.Err == nil
}

// Checker sends A queries over UDP.
type Checker struct {
	client *dns.Client
}

// New creates a checker. A zero timeout means DefaultTimeout.
func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}
}

// Check queries server for name. server is an IP address with an optional
// port, port 53 is assumed otherwise.
func (c *Checker) Check(ctx context.Context, server, name string) Result {
	res := Result{Server: server}

	address, err := serverAddress(server)
	if err != nil {
		res.Err = err
		return res
	}
	if name == "" {
		name = DefaultQueryName
	}

	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(name), dns.TypeA)
	req.RecursionDesired = true

	resp, rtt, err := c.client.ExchangeContext(ctx, req, address)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			log.Debugf("Nameserver %s timed out for %s", address, name)
		} else {
			log.Debugf("Nameserver %s failed for %s: %v", address, name, err)
		}
		res.Err = fmt.Errorf("query to %s failed: %w", address, err)
		return res
	}

	res.RTT = rtt
	res.Rcode = dns.RcodeToString[resp.Rcode]
	res.Answers = len(resp.Answer)
	return res
}

// CheckAll probes every server in order.
func (c *Checker) CheckAll(ctx context.Context, servers []netip.Addr, name string) []Result {
	results := make([]Result, 0, len(servers))
	for _, s := range servers {
		results = append(results, c.Check(ctx, s.String(), name))
	}
	return results
}

func serverAddress(server string) (string, error) {
	if ap, err := netip.ParseAddrPort(server); err == nil {
		return ap.String(), nil
	}
	addr, err := netip.ParseAddr(server)
	if err != nil {
		return "", fmt.Errorf("invalid nameserver address %q", server)
	}
	return netip.AddrPortFrom(addr.Unmap(), defaultDNSPort).String(), nil
}
