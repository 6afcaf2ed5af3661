package config

import "kilometers.ai/dropin/internal/core/domain/dropin"

// systemdDomain describes a systemd daemon configured through
// /etc/systemd/<name>.conf and its .conf.d trees
func systemdDomain(name, section string) dropin.Domain {
	return dropin.Domain{
		Name:      name,
		Base:      "/etc/systemd/" + name + ".conf",
		AdminDir:  "/etc/systemd/" + name + ".conf.d",
		VendorDir: "/usr/lib/systemd/" + name + ".conf.d",
		Suffix:    ".conf",
		Syntax:    dropin.SyntaxINI,
		Section:   section,
	}
}

// BuiltinDomains returns the domains known without any configuration file
func BuiltinDomains() []dropin.Domain {
	return []dropin.Domain{
		systemdDomain("journald", "Journal"),
		systemdDomain("logind", "Login"),
		systemdDomain("resolved", "Resolve"),
		systemdDomain("timesyncd", "Time"),
		systemdDomain("coredump", "Coredump"),
		systemdDomain("system", "Manager"),
		{
			Name:      "sysctl",
			Base:      "/etc/sysctl.conf",
			AdminDir:  "/etc/sysctl.d",
			VendorDir: "/usr/lib/sysctl.d",
			Suffix:    ".conf",
			Syntax:    dropin.SyntaxKeyValue,
		},
		{
			Name:      "limits",
			Base:      "/etc/security/limits.conf",
			AdminDir:  "/etc/security/limits.d",
			VendorDir: "/usr/lib/security/limits.d",
			Suffix:    ".conf",
			Syntax:    dropin.SyntaxLimits,
		},
	}
}
