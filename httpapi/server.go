package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/payment"
	"pitchflow/pitch"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	auth       *auth.Service
	agents     *agent.Service
	brokerages *brokerage.Service
	pitches    *pitch.Service
	payments   *payment.Service
	logger     *zap.Logger
}

// NewServer wires the HTTP layer.
func NewServer(authSvc *auth.Service, agents *agent.Service, brokerages *brokerage.Service, pitches *pitch.Service, payments *payment.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		auth:       authSvc,
		agents:     agents,
		brokerages: brokerages,
		pitches:    pitches,
		payments:   payments,
		logger:     logger,
	}
}

// Router builds the route table. The payment webhook stays outside the auth
// middleware; its authenticity comes from the signature header.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/webhook", s.handleWebhook).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/agent/profile", requireRole(auth.RoleAgent, s.handleGetAgentProfile)).Methods(http.MethodGet)
	api.HandleFunc("/agent/profile", requireRole(auth.RoleAgent, s.handleCreateAgentProfile)).Methods(http.MethodPost)
	api.HandleFunc("/agent/profile", requireRole(auth.RoleAgent, s.handleUpdateAgentProfile)).Methods(http.MethodPut)

	api.HandleFunc("/brokerage/profile", requireRole(auth.RoleBrokerage, s.handleGetBrokerageProfile)).Methods(http.MethodGet)
	api.HandleFunc("/brokerage/profile", requireRole(auth.RoleBrokerage, s.handleCreateBrokerageProfile)).Methods(http.MethodPost)
	api.HandleFunc("/brokerage/profile", requireRole(auth.RoleBrokerage, s.handleUpdateBrokerageProfile)).Methods(http.MethodPut)

	api.HandleFunc("/agents", requireRole(auth.RoleBrokerage, s.handleDiscovery)).Methods(http.MethodGet)
	api.HandleFunc("/commission/estimate", requireRole(auth.RoleAgent, s.handleCommissionEstimate)).Methods(http.MethodGet)

	api.HandleFunc("/pitches", s.handleListPitches).Methods(http.MethodGet)
	api.HandleFunc("/pitches", requireRole(auth.RoleBrokerage, s.handleCreatePitch)).Methods(http.MethodPost)
	api.HandleFunc("/pitches/{id}", s.handleGetPitch).Methods(http.MethodGet)
	api.HandleFunc("/pitches/{id}/accept", requireRole(auth.RoleAgent, s.handleAcceptPitch)).Methods(http.MethodPost)
	api.HandleFunc("/pitches/{id}/decline", requireRole(auth.RoleAgent, s.handleDeclinePitch)).Methods(http.MethodPost)

	api.HandleFunc("/payments/checkout", requireRole(auth.RoleBrokerage, s.handleCheckout)).Methods(http.MethodPost)

	return r
}
