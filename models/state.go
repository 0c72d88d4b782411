package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type ElectionPhase string

const (
	PhasePreElection ElectionPhase = "pre_election"
	PhaseOpen        ElectionPhase = "open"
	PhaseEnded       ElectionPhase = "ended"
)

// ViewState is the portal's cached copy of the ledger. Voters and VoterCount
// are only as fresh as SyncedAt.
type ViewState struct {
	Connected    bool             `json:"connected"`
	Account      common.Address   `json:"account"`
	IsAdmin      bool             `json:"is_admin"`
	Started      bool             `json:"started"`
	Ended        bool             `json:"ended"`
	VoterCount   uint64           `json:"voter_count"`
	Voters       []VoterRecord    `json:"voters"`
	CurrentVoter VoterRecord      `json:"current_voter"`
	Form         RegistrationForm `json:"form"`
	Syncing      bool             `json:"syncing"`
	SyncedAt     time.Time        `json:"synced_at"`
}

// Phase derives the election phase from the start and end flags. An ended
// election is reported as ended whatever the start flag says.
func (v ViewState) Phase() ElectionPhase {
	switch {
	case v.Ended:
		return PhaseEnded
	case v.Started:
		return PhaseOpen
	default:
		return PhasePreElection
	}
}

// Clone returns a copy that shares no slices with v.
func (v ViewState) Clone() ViewState {
	out := v
	if v.Voters != nil {
		out.Voters = make([]VoterRecord, len(v.Voters))
		copy(out.Voters, v.Voters)
	}
	return out
}
