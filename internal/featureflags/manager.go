// Package featureflags gates gradual rollouts of community features.
//
// Flags arrive as one comma-separated config string, for example
// "tag_rank_v2=on,new_feed_sort=25%,legacy_editor=off". A percentage value
// rolls the feature out to a stable slice of signed-in users: the same user
// gets the same answer on every request and across restarts, so a member who
// sees the new feed sort keeps seeing it.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

// rule is one parsed flag value. raw keeps the configured string for the
// admin inspection endpoint.
type rule struct {
	kind ruleKind
	pct  int
	raw  string
}

// Manager evaluates feature flags for users.
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated flag list. Malformed pairs are dropped;
// unrecognized values parse as off so a config typo can never enable a
// feature by accident.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := canon(parts[0])
		value := canon(parts[1])
		if name == "" || value == "" {
			continue
		}
		rules[name] = parseRule(value)
	}

	return &Manager{rules: rules}
}

func parseRule(value string) rule {
	r := rule{kind: ruleOff, raw: value}

	switch value {
	case "on", "true", "1":
		r.kind = ruleOn
		return r
	case "off", "false", "0":
		return r
	}

	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		if pct, err := strconv.Atoi(pctRaw); err == nil {
			r.kind = rulePercent
			r.pct = pct
		}
	}
	return r
}

// Enabled reports whether a flag is on for the given user. Unknown flags are
// off. Percentage rollouts below 100% require a signed-in user; anonymous
// readers stay on the old behavior.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	r, ok := m.rules[canon(name)]
	if !ok {
		return false
	}

	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if r.pct <= 0 {
			return false
		}
		if r.pct >= 100 {
			return true
		}
		if userID == 0 {
			return false
		}
		return bucket(name, userID) < r.pct
	default:
		return false
	}
}

// Raw returns the configured flag values as written.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket hashes (flag, user) into 0..99. Buckets are independent per flag so
// the same early cohort does not receive every experiment.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(canon(name)))
	_, _ = h.Write([]byte(":"))
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
