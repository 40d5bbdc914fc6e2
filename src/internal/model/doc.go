// Package model defines the canonical per-interface network configuration.
//
// A NetworkRecord describes one interface independently of any backend file
// format. Settings holds the records of a host keyed by interface name and
// remembers insertion order, which every consumer relies on for
// deterministic output ("first enabled access point wins").
//
// Backends only know part of a record. A field an adapter cannot express is
// left at its zero value and merges skip zero values, so a later, narrower
// source never erases what an earlier source established:
//
//	live := model.NewLiveRecord("wlan0", true, true)
//	live.MergeNonIdentity(&model.NetworkRecord{
//	    Name:           "wlan0",
//	    DHCPRangeStart: netip.MustParseAddr("192.168.4.2"),
//	    DHCPRangeEnd:   netip.MustParseAddr("192.168.4.100"),
//	})
package model
