// Package featureflags evaluates the rollout switches that gate optional
// behavior, such as feed deduplication.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds flags parsed from a comma-separated key=value list, e.g.
// "feed_dedup=on,reply_ranking=10%,legacy_profiles=off". Values are parsed
// once at construction.
type Manager struct {
	settings map[string]setting
}

type settingKind int

const (
	kindOff settingKind = iota
	kindOn
	kindRollout
)

// setting is one parsed flag. pct only applies to rollouts.
type setting struct {
	kind settingKind
	pct  int
	raw  string
}

// NewManager parses the raw flag list. Malformed pairs are dropped silently
// so a typo in FEATURE_FLAGS never takes the server down.
func NewManager(raw string) *Manager {
	settings := make(map[string]setting)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = normalize(key)
		value = normalize(value)
		if key == "" || value == "" {
			continue
		}
		settings[key] = parseSetting(value)
	}

	return &Manager{settings: settings}
}

func parseSetting(value string) setting {
	s := setting{raw: value}

	switch value {
	case "on", "true", "1":
		s.kind = kindOn
		return s
	case "off", "false", "0":
		return s
	}

	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err == nil && pct > 0 {
			s.kind = kindRollout
			s.pct = pct
		}
	}
	return s
}

// Enabled reports whether a flag is on for the given user. Percentage
// rollouts bucket deterministically per user; anonymous viewers (userID 0)
// are excluded from partial rollouts.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	s, ok := m.settings[normalize(name)]
	if !ok {
		return false
	}

	switch s.kind {
	case kindOn:
		return true
	case kindRollout:
		if s.pct >= 100 {
			return true
		}
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < s.pct
	default:
		return false
	}
}

// Raw returns the configured flag values as parsed from config.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.settings))
	for name, s := range m.settings {
		out[name] = s.raw
	}
	return out
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.settings))
	for name := range m.settings {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
