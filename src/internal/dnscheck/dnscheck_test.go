package dnscheck

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() {
		_ = srv.ActivateAndServe()
	}()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("DNS server did not start")
	}
	return pc.LocalAddr().String()
}

func TestCheck_Answer(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Answer = append(m.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
			A:   net.ParseIP("192.0.2.1"),
		})
		_ = w.WriteMsg(m)
	})

	res := New(time.Second).Check(context.Background(), addr, "hostnet.test")
	if !res.Reachable() {
		t.Fatalf("Expected reachable server, got %v", res.Err)
	}
	if res.Rcode != "NOERROR" || res.Answers != 1 {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestCheck_ErrorRcodeIsReachable(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeServerFailure)
		_ = w.WriteMsg(m)
	})

	res := New(time.Second).Check(context.Background(), addr, "")
	if !res.Reachable() || res.Rcode != "SERVFAIL" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestCheck_Timeout(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer pc.Close()

	res := New(200*time.Millisecond).Check(context.Background(), pc.LocalAddr().String(), "")
	if res.Reachable() {
		t.Error("Expected silent server to be unreachable")
	}
}

func TestServerAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"8.8.8.8", "8.8.8.8:53", false},
		{"127.0.0.1:5353", "127.0.0.1:5353", false},
		{"2001:4860:4860::8888", "[2001:4860:4860::8888]:53", false},
		{"dns.google", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := serverAddress(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("serverAddress(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("serverAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
