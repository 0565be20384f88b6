// Package compileinfo reports which build of the QC tools produced a
// report.
package compileinfo

import (
	"fmt"
	"runtime/debug"
)

type CompileInfo struct {
	Binary     string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary (%s %s) was built with %s at commit %s at time %s.%s",
		c.Binary, c.Module, c.Version, c.GoVersion, orUnknown(c.Commit), orUnknown(c.CommitTime), mod)
}

// Footer is the one-line provenance stamped into generated reports.
func (c CompileInfo) Footer() string {
	commit := orUnknown(c.Commit)
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if c.Modified {
		commit += "+dirty"
	}

	return fmt.Sprintf("Generated by %s %s (commit %s, %s)", c.Binary, orUnknown(c.Version), commit, orUnknown(c.GoVersion))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}

// Get reads the build info of the running binary. Fields the toolchain did
// not record are left empty.
func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Binary = z.Path
	out.Module = z.Main.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
