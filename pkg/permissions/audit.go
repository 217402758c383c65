package permissions

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// AuditEntry records the tool grant of one generated skill.
type AuditEntry struct {
	ID        string         `json:"id" yaml:"id"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Skill     string         `json:"skill" yaml:"skill"`
	Tools     []skill.ToolID `json:"tools" yaml:"tools"`
	Score     int            `json:"score" yaml:"score"`
	Level     skill.RiskTier `json:"level" yaml:"level"`
}

// AuditLog is an in-memory audit trail of permission grants. It is safe for
// concurrent use.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	now     func() time.Time
}

// NewAuditLog creates an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{now: time.Now}
}

// AuditScore sums the per-tool scores of tools.
func AuditScore(tools []skill.ToolID) int {
	total := 0
	for _, t := range tools {
		total += Score(t)
	}
	return total
}

// AuditLevel maps a score to a level: high from 10, medium from 4.
func AuditLevel(score int) skill.RiskTier {
	switch {
	case score >= 10:
		return skill.RiskHigh
	case score >= 4:
		return skill.RiskMedium
	default:
		return skill.RiskLow
	}
}

// Record appends an entry for skillName and returns it.
func (l *AuditLog) Record(skillName string, tools []skill.ToolID) AuditEntry {
	sorted := append([]skill.ToolID(nil), tools...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	score := AuditScore(sorted)

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Skill:     skillName,
		Tools:     sorted,
		Score:     score,
		Level:     AuditLevel(score),
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of all entries in recording order.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AuditEntry(nil), l.entries...)
}

// HighRisk returns the entries whose level is high.
func (l *AuditLog) HighRisk() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []AuditEntry
	for _, e := range l.entries {
		if e.Level == skill.RiskHigh {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
