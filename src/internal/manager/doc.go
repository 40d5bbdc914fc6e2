// Package manager reconciles the host network configuration.
//
// A Manager builds one model.Settings from live interfaces and the backend
// configuration files (netplan or dhcpcd, dnsmasq, hostapd), lets the caller
// edit it, and projects it back into those files before restarting the
// matching services.
//
//	m := manager.New(manager.Options{Identity: id, Lister: lister, Services: ctl, ...})
//	if err := m.LoadSettingsFromSystem(ctx); err != nil {
//	    return err
//	}
//	rec, _ := m.Settings().Get("wlan0")
//	rec.SSID = "lab"
//	err := m.UpdateSystemFromSettings(ctx)
package manager
