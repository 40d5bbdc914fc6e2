package dhcpcd

// Flags are the global dhcpcd directives hostnet understands. Anything else in
// the file is dropped on save.
type Flags struct {
	Hostname             bool
	ClientID             bool
	DUID                 bool
	Persistent           bool
	RapidCommit          bool
	DomainNameServers    bool
	DomainName           bool
	DomainSearch         bool
	HostName             bool
	ClasslessStaticRoute bool
	InterfaceMTU         bool
	ServerIdentifier     bool
	SLAACPrivate         bool
	SLAACHWAddr          bool
}

// DefaultFlags returns the directives of a stock Raspberry Pi OS dhcpcd.conf.
func DefaultFlags() Flags {
	return Flags{
		Hostname:             true,
		ClientID:             true,
		Persistent:           true,
		RapidCommit:          true,
		DomainNameServers:    true,
		DomainName:           true,
		DomainSearch:         true,
		HostName:             true,
		ClasslessStaticRoute: true,
		InterfaceMTU:         true,
		ServerIdentifier:     true,
		SLAACPrivate:         true,
	}
}

// setOption marks a name from an "option" line. Unknown names are ignored.
func (f *Flags) setOption(name string) bool {
	switch name {
	case "rapid_commit":
		f.RapidCommit = true
	case "domain_name_servers":
		f.DomainNameServers = true
	case "domain_name":
		f.DomainName = true
	case "domain_search":
		f.DomainSearch = true
	case "host_name":
		f.HostName = true
	case "classless_static_routes":
		f.ClasslessStaticRoute = true
	case "interface_mtu":
		f.InterfaceMTU = true
	default:
		return false
	}
	return true
}

// lines renders the directives in the order dhcpcd.conf lists them.
func (f Flags) lines() []string {
	var out []string
	add := func(set bool, line string) {
		if set {
			out = append(out, line)
		}
	}

	add(f.Hostname, "hostname")
	add(f.ClientID, "clientid")
	add(f.DUID, "duid")
	add(f.Persistent, "persistent")
	add(f.RapidCommit, "option rapid_commit")

	var dns []string
	for _, opt := range []struct {
		set  bool
		name string
	}{
		{f.DomainNameServers, "domain_name_servers"},
		{f.DomainName, "domain_name"},
		{f.DomainSearch, "domain_search"},
		{f.HostName, "host_name"},
	} {
		if opt.set {
			dns = append(dns, opt.name)
		}
	}
	if len(dns) > 0 {
		line := "option " + dns[0]
		for _, name := range dns[1:] {
			line += ", " + name
		}
		out = append(out, line)
	}

	add(f.ClasslessStaticRoute, "option classless_static_routes")
	add(f.InterfaceMTU, "option interface_mtu")
	add(f.ServerIdentifier, "require dhcp_server_identifier")
	add(f.SLAACPrivate, "slaac private")
	add(f.SLAACHWAddr, "slaac hwaddr")
	return out
}
