// Package policy implements the security policy enforced on filesystem
// and command-execution tools: path containment, a command blocklist,
// and a cap on command timeouts.
//
// A Policy is built once from configuration and is immutable for the
// process lifetime. Checks always run before the guarded action, never
// after.
package policy

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rigpilot/rigpilot/internal/config"
	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

// Policy holds the resolved allow/block rules.
type Policy struct {
	allowedPaths    []string
	blockedCommands []string
	maxTimeout      time.Duration
}

// New builds a Policy from security configuration. Allowed paths are
// canonicalized up front so later containment checks compare like with
// like.
func New(cfg config.Security) *Policy {
	p := &Policy{
		blockedCommands: make([]string, 0, len(cfg.BlockedCommands)),
		maxTimeout:      cfg.MaxCommandTimeout,
	}
	for _, b := range cfg.BlockedCommands {
		if b = strings.TrimSpace(b); b != "" {
			p.blockedCommands = append(p.blockedCommands, strings.ToLower(b))
		}
	}
	for _, a := range cfg.AllowedPaths {
		if a = strings.TrimSpace(a); a == "" {
			continue
		}
		resolved, err := Canonical(a)
		if err != nil {
			resolved = filepath.Clean(a)
		}
		p.allowedPaths = append(p.allowedPaths, resolved)
	}
	return p
}

// Unrestricted reports whether the path allow-list is empty. Empty
// means every path is accepted, which deployments accept as a
// documented risk.
func (p *Policy) Unrestricted() bool { return len(p.allowedPaths) == 0 }

// CheckPath resolves path to canonical absolute form and accepts it
// only if it is contained in at least one allowed prefix, or if the
// allow-list is empty. Containment is on path-segment boundaries, so
// /srv/data does not admit /srv/database, and traversal segments
// (allowed/../../etc) are eliminated before comparison.
func (p *Policy) CheckPath(path string) error {
	if p.Unrestricted() {
		return nil
	}
	resolved, err := Canonical(path)
	if err != nil {
		return &tool.PolicyViolationError{Reason: fmt.Sprintf("cannot resolve path %q: %v", path, err)}
	}
	for _, allowed := range p.allowedPaths {
		if resolved == allowed || strings.HasPrefix(resolved, allowed+string(filepath.Separator)) {
			return nil
		}
	}
	return &tool.PolicyViolationError{Reason: fmt.Sprintf("path not allowed: %s", path)}
}

// CheckCommand scans the literal command string for blocked substrings,
// case-insensitively, and rejects before any process spawns.
func (p *Policy) CheckCommand(command string) error {
	lower := strings.ToLower(command)
	for _, blocked := range p.blockedCommands {
		if strings.Contains(lower, blocked) {
			return &tool.PolicyViolationError{Reason: fmt.Sprintf("command blocked by security policy: %s", command)}
		}
	}
	return nil
}

// EffectiveTimeout clamps a requested command timeout to the configured
// maximum. Zero or negative means "no preference" and yields the max.
func (p *Policy) EffectiveTimeout(requested time.Duration) time.Duration {
	if requested <= 0 || requested > p.maxTimeout {
		return p.maxTimeout
	}
	return requested
}

// Canonical resolves a path to absolute form, eliminates "." and ".."
// segments, and follows symlinks on the longest existing ancestor.
// Paths that do not exist yet still canonicalize against their nearest
// existing parent, so traversal cannot hide behind a missing leaf.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	dir := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}
