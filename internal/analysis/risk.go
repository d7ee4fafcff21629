package analysis

import (
	"fmt"
	"strings"
)

type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskOrder is the total order none<low<moderate<high<critical.
var riskOrder = []RiskLevel{RiskNone, RiskLow, RiskModerate, RiskHigh, RiskCritical}

// Rank returns the position of r in the severity order, or -1 if r is unknown.
func (r RiskLevel) Rank() int {
	for i, lvl := range riskOrder {
		if lvl == r {
			return i
		}
	}
	return -1
}

func (r RiskLevel) Valid() bool {
	return r.Rank() >= 0
}

// Escalate moves exactly one step up the severity order and never past critical.
func (r RiskLevel) Escalate() RiskLevel {
	rank := r.Rank()
	if rank < 0 {
		return r
	}
	if rank+1 >= len(riskOrder) {
		return RiskCritical
	}
	return riskOrder[rank+1]
}

// MaxRisk returns the most severe of levels, or none when levels is empty.
func MaxRisk(levels ...RiskLevel) RiskLevel {
	highest := RiskNone
	for _, lvl := range levels {
		if lvl.Rank() > highest.Rank() {
			highest = lvl
		}
	}
	return highest
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	lvl := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !lvl.Valid() {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return lvl, nil
}

type CompatibilityStatus string

const (
	Compatible   CompatibilityStatus = "compatible"
	Incompatible CompatibilityStatus = "incompatible"
)

func (c CompatibilityStatus) Valid() bool {
	return c == Compatible || c == Incompatible
}

type TimeToOnset string

const (
	OnsetImmediate TimeToOnset = "immediate"
	OnsetShortTerm TimeToOnset = "short-term"
	OnsetDelayed   TimeToOnset = "delayed"
)

func (t TimeToOnset) Valid() bool {
	switch t {
	case OnsetImmediate, OnsetShortTerm, OnsetDelayed:
		return true
	default:
		return false
	}
}
