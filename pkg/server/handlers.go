package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/statechannels/native-utils/pkg/nitro"
	"github.com/statechannels/native-utils/pkg/signature"
	"github.com/statechannels/native-utils/pkg/transition"
	"github.com/statechannels/native-utils/pkg/wire"
)

type channelRequest struct {
	Channel wire.Channel `json:"channel"`
}

type stateRequest struct {
	State wire.State `json:"state"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type signRequest struct {
	State      wire.State `json:"state"`
	PrivateKey string     `json:"privateKey"`
}

type recoverRequest struct {
	State     wire.State `json:"state"`
	Signature string     `json:"signature"`
}

type verifyRequest struct {
	Hash      string `json:"hash"`
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type transitionRequest struct {
	From      wire.State `json:"from"`
	To        wire.State `json:"to"`
	Signature string     `json:"signature,omitempty"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type validResponse struct {
	Valid bool `json:"valid"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type fieldError struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Error     string       `json:"error"`
	Violation string       `json:"violation,omitempty"`
	Fields    []fieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps core errors onto status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	var inputErr *wire.InputError
	var violation *transition.Violation

	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
	case errors.As(err, &inputErr):
		resp := errorResponse{Error: "invalid request"}
		for _, f := range inputErr.Fields() {
			resp.Fields = append(resp.Fields, fieldError{Field: f.Field, Detail: f.ErrorBody()})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, signature.ErrInvalidSignatureLength):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &violation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: violation.Error(), Violation: violation.Name()})
	case errors.Is(err, nitro.ErrSignerMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Violation: "SignerMismatch"})
	case errors.Is(err, signature.ErrInvalidPrivateKey),
		errors.Is(err, signature.ErrInvalidRecoveryID),
		errors.Is(err, signature.ErrUnrecoverable):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Sugar().Errorw("Unexpected error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// handlePost decodes a POST body into Req and writes the result of fn
func handlePost[Req any](s *Server, fn func(*Req) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req Req
		if err := wire.Decode(r.Body, &req); err != nil {
			s.writeError(w, err)
			return
		}

		resp, err := fn(&req)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleChannelID(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *channelRequest) (interface{}, error) {
		id, err := s.utils.GetChannelId(&req.Channel)
		return resultResponse{Result: id}, err
	})(w, r)
}

func (s *Server) handleEncodeOutcome(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *stateRequest) (interface{}, error) {
		encoded, err := s.utils.EncodeOutcome(&req.State)
		return resultResponse{Result: encoded}, err
	})(w, r)
}

func (s *Server) handleHashOutcome(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *stateRequest) (interface{}, error) {
		hash, err := s.utils.HashOutcome(&req.State)
		return resultResponse{Result: hash}, err
	})(w, r)
}

func (s *Server) handleHashAppPart(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *stateRequest) (interface{}, error) {
		hash, err := s.utils.HashAppPart(&req.State)
		return resultResponse{Result: hash}, err
	})(w, r)
}

func (s *Server) handleHashState(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *stateRequest) (interface{}, error) {
		hash, err := s.utils.HashState(&req.State)
		return resultResponse{Result: hash}, err
	})(w, r)
}

func (s *Server) handleHashMessage(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *messageRequest) (interface{}, error) {
		hash, err := s.utils.HashMessage(req.Message)
		return resultResponse{Result: hash}, err
	})(w, r)
}

func (s *Server) handleSignState(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *signRequest) (interface{}, error) {
		return s.utils.SignState(&req.State, req.PrivateKey)
	})(w, r)
}

func (s *Server) handleRecoverAddress(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *recoverRequest) (interface{}, error) {
		addr, err := s.utils.RecoverAddress(&req.State, req.Signature)
		return resultResponse{Result: addr}, err
	})(w, r)
}

func (s *Server) handleVerifySignature(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *verifyRequest) (interface{}, error) {
		ok, err := s.utils.VerifySignature(req.Hash, req.Address, req.Signature)
		return validResponse{Valid: ok}, err
	})(w, r)
}

func (s *Server) handleValidateTransition(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *transitionRequest) (interface{}, error) {
		status, err := s.utils.RequireValidTransition(&req.From, &req.To)
		return statusResponse{Status: status.String()}, err
	})(w, r)
}

func (s *Server) handleValidatePeerUpdate(w http.ResponseWriter, r *http.Request) {
	handlePost(s, func(req *transitionRequest) (interface{}, error) {
		status, err := s.utils.ValidatePeerUpdate(&req.From, &req.To, req.Signature)
		return statusResponse{Status: status.String()}, err
	})(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
