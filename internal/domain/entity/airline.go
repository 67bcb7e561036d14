package entity

import (
	"time"
)

// AirlineState is the consensus lifecycle state of an airline.
// Transitions only move forward: Registering -> Registered -> Actived.
type AirlineState int

const (
	AirlineRegistering AirlineState = iota
	AirlineRegistered
	AirlineActived
)

// String returns the state name used in events and persisted snapshots.
func (s AirlineState) String() string {
	switch s {
	case AirlineRegistering:
		return "Registering"
	case AirlineRegistered:
		return "Registered"
	case AirlineActived:
		return "Actived"
	default:
		return "Unknown"
	}
}

// ParseAirlineState maps a persisted state name back to its enum value.
func ParseAirlineState(name string) AirlineState {
	switch name {
	case "Registered":
		return AirlineRegistered
	case "Actived":
		return AirlineActived
	default:
		return AirlineRegistering
	}
}

// Airline represents a marketplace participant progressing through the
// onboarding consensus.
type Airline struct {
	Address    string       `bson:"_id"`
	Name       string       `bson:"name"`
	StakedFund int64        `bson:"stakedFund"`
	State      AirlineState `bson:"state"`
	Approvals  []string     `bson:"approvals"`
	CreatedAt  time.Time    `bson:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt"`
}

// HasApproval reports whether addr already voted for this airline.
func (a Airline) HasApproval(addr string) bool {
	for _, approver := range a.Approvals {
		if approver == addr {
			return true
		}
	}
	return false
}

// WithApproval returns a copy of the airline with addr appended to its
// approvals. The approvals slice is cloned so the prior record stays intact
// for journal rollback.
func (a Airline) WithApproval(addr string) Airline {
	approvals := make([]string, len(a.Approvals), len(a.Approvals)+1)
	copy(approvals, a.Approvals)
	a.Approvals = append(approvals, addr)
	return a
}
