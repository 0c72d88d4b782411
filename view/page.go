// Package view turns the portal state into the registration page.
package view

import (
	"time"

	"github.com/dustin/go-humanize"

	"voter-registration/models"
	"voter-registration/service"
)

const (
	LoadingMessage = "Loading Web3, accounts, and contract..."
	NotInitMessage = "The election has not been initialized."
	EndedMessage   = "The election has ended."
)

// Page is everything the template needs. Build fills it from the state alone.
type Page struct {
	Loading     bool
	IsAdmin     bool
	Phase       models.ElectionPhase
	Placeholder string

	VoterCount uint64
	SyncedAgo  string
	Form       *FormView
	Self       *SelfPanel
	Roster     *Roster

	Notifications []Toast
}

type FormView struct {
	Account        string
	Name           string
	Phone          string
	DocumentNumber string
	PhoneHint      string
	DocumentHint   string
	SubmitLabel    string
	SubmitDisabled bool
}

type SelfPanel struct {
	Registered bool
	Record     models.VoterRecord
}

func (p SelfPanel) Style() string {
	if p.Registered {
		return "success"
	}
	return "attention"
}

type Roster struct {
	Total  int
	Voters []models.VoterRecord
}

type Toast struct {
	ID        string
	Kind      models.NotificationKind
	Title     string
	Message   string
	ExpiresIn time.Duration
}

// Build derives the page from a state snapshot and the active notifications.
func Build(state models.ViewState, notes []models.Notification, now time.Time) Page {
	page := Page{
		IsAdmin:       state.IsAdmin,
		Phase:         state.Phase(),
		Notifications: toasts(notes, now),
	}

	if !state.Connected {
		page.Loading = true
		page.Placeholder = LoadingMessage
		return page
	}

	switch page.Phase {
	case models.PhasePreElection:
		page.Placeholder = NotInitMessage
		return page
	case models.PhaseEnded:
		page.Placeholder = EndedMessage
		page.Self = selfPanel(state.CurrentVoter)
		return page
	}

	page.VoterCount = state.VoterCount
	if !state.SyncedAt.IsZero() {
		page.SyncedAgo = humanize.RelTime(state.SyncedAt, now, "ago", "from now")
	}
	if !state.CurrentVoter.IsVerified {
		page.Form = formView(state)
	}
	page.Self = selfPanel(state.CurrentVoter)
	if state.IsAdmin {
		page.Roster = &Roster{Total: len(state.Voters), Voters: state.Voters}
	}
	return page
}

func formView(state models.ViewState) *FormView {
	fields := service.FieldErrors(state.Form)

	label := "Register"
	if state.CurrentVoter.IsRegistered {
		label = "Update"
	}

	return &FormView{
		Account:        state.Account.Hex(),
		Name:           state.Form.Name,
		Phone:          state.Form.Phone,
		DocumentNumber: state.Form.DocumentNumber,
		PhoneHint:      fields[service.FieldPhone],
		DocumentHint:   fields[service.FieldDocumentNumber],
		SubmitLabel:    label,
		SubmitDisabled: !service.CanSubmit(state.Form, state.CurrentVoter),
	}
}

func selfPanel(record models.VoterRecord) *SelfPanel {
	return &SelfPanel{Registered: record.IsRegistered, Record: record}
}

func toasts(notes []models.Notification, now time.Time) []Toast {
	out := make([]Toast, 0, len(notes))
	for _, n := range notes {
		if n.Expired(now) {
			continue
		}
		out = append(out, Toast{
			ID:        n.ID,
			Kind:      n.Kind,
			Title:     n.Title,
			Message:   n.Message,
			ExpiresIn: n.ExpiresAt().Sub(now),
		})
	}
	return out
}
