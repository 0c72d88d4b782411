package api

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

var errInvalidAddress = errors.New("invalid voter address")

// ElectionAdmin drives the election lifecycle. Only the in-process ledger
// offers it; on a real node the admin signs these calls from their wallet.
type ElectionAdmin interface {
	StartElection(caller common.Address) error
	EndElection(caller common.Address) error
	VerifyVoter(caller, voter common.Address, verified bool) error
}

// EnableAdmin mounts the /api/admin routes. Call it before Handler.
func (s *Server) EnableAdmin(admin ElectionAdmin) {
	s.admin = admin
}

type verifyRequest struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

// requireAdmin returns the connected account when it is the election admin.
func (s *Server) requireAdmin(w http.ResponseWriter) (common.Address, bool) {
	state := s.svc.State()
	if !state.Connected {
		errorJSON(w, http.StatusServiceUnavailable, "provider not connected", nil)
		return common.Address{}, false
	}
	if !state.IsAdmin {
		errorJSON(w, http.StatusForbidden, "only the election admin can do this", nil)
		return common.Address{}, false
	}
	return state.Account, true
}

func (s *Server) handleStartElection(w http.ResponseWriter, r *http.Request) {
	s.changePhase(w, r, "election started", s.admin.StartElection)
}

func (s *Server) handleEndElection(w http.ResponseWriter, r *http.Request) {
	s.changePhase(w, r, "election ended", s.admin.EndElection)
}

func (s *Server) changePhase(w http.ResponseWriter, r *http.Request, msg string, change func(common.Address) error) {
	caller, ok := s.requireAdmin(w)
	if !ok {
		return
	}
	if err := change(caller); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.RefreshPhase(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}

	state := s.svc.State()
	s.logger.Info(msg, "phase", state.Phase(), "request_id", RequestID(r.Context()))
	JSONResponse(w, http.StatusOK, state)
}

func (s *Server) handleVerifyVoter(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := ParseJSONBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if !common.IsHexAddress(req.Address) {
		s.writeError(w, r, errInvalidAddress)
		return
	}

	caller, ok := s.requireAdmin(w)
	if !ok {
		return
	}
	voter := common.HexToAddress(req.Address)
	if err := s.admin.VerifyVoter(caller, voter, req.Verified); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("voter verification changed",
		"voter", voter.Hex(),
		"verified", req.Verified,
		"request_id", RequestID(r.Context()),
	)

	if err := s.worker.Request(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, s.svc.State())
}
