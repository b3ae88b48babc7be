package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/match"
	"pitchflow/offer"
	"pitchflow/pitch"
)

// discoveryItem is one agent in the brokerage discovery feed. Name and
// license only appear when the agent has been revealed.
type discoveryItem struct {
	ID              string          `json:"id"`
	AnonymousID     string          `json:"anonymousId"`
	Name            *string         `json:"name"`
	LicenseNumber   *string         `json:"licenseNumber"`
	YearsExperience int             `json:"yearsExperience"`
	SalesVolume     decimal.Decimal `json:"salesVolume"`
	CurrentBroker   *string         `json:"currentBroker"`
	WishList        []string        `json:"wishList"`
	MatchScore      int             `json:"matchScore"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	caller, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	filters, err := parseDiscoveryFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	profiles, err := s.agents.List(r.Context(), filters)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	// Identity shows only for agents this brokerage has a paid pitch with.
	// The global is_anonymous flag is a display hint and never consulted here.
	sent, err := s.pitches.Sent(r.Context(), caller.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	paid := make(map[string]pitch.AgentView, len(sent))
	for _, item := range sent {
		if item.Pitch.PaymentStatus == pitch.PaymentPaid {
			paid[item.Agent.ID] = item.Agent
		}
	}

	items := make([]discoveryItem, 0, len(profiles))
	for _, p := range profiles {
		item := discoveryItem{
			ID:              p.ID,
			AnonymousID:     p.AnonymousID,
			YearsExperience: p.YearsExperience,
			SalesVolume:     p.SalesVolume,
			CurrentBroker:   p.CurrentBroker,
			WishList:        p.WishList,
			MatchScore:      match.Score(p.WishList, caller.StandardOffer),
		}
		if view, ok := paid[p.ID]; ok {
			item.Name = view.Name
			item.LicenseNumber = view.LicenseNumber
		}
		items = append(items, item)
	}
	respondJSON(w, http.StatusOK, map[string]any{"agents": items})
}

func parseDiscoveryFilters(r *http.Request) (agent.Filters, error) {
	var filters agent.Filters
	q := r.URL.Query()

	if raw := q.Get("minExperience"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filters, fmt.Errorf("minExperience must be a non-negative integer")
		}
		filters.MinExperience = n
	}
	if raw := q.Get("minVolume"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			return filters, fmt.Errorf("minVolume must be a non-negative number")
		}
		filters.MinVolume = v
	}
	if raw := q.Get("wishList"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !offer.ValidWishTag(tag) {
				return filters, fmt.Errorf("unknown wish-list tag %q", tag)
			}
			filters.WishTags = append(filters.WishTags, tag)
		}
	}
	return filters, nil
}

func (s *Server) handleListPitches(w http.ResponseWriter, r *http.Request) {
	switch callerRole(r) {
	case auth.RoleAgent:
		profile, err := s.agents.GetByUserID(r.Context(), callerID(r))
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		items, err := s.pitches.Inbox(r.Context(), profile.ID)
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"pitches": items})
	case auth.RoleBrokerage:
		profile, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		items, err := s.pitches.Sent(r.Context(), profile.ID)
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"pitches": items})
	default:
		respondError(w, http.StatusForbidden, "forbidden", "unknown role")
	}
}

type createPitchRequest struct {
	AgentID string       `json:"agentId"`
	Message string       `json:"message"`
	Offer   *offer.Offer `json:"offer"`
}

func (s *Server) handleCreatePitch(w http.ResponseWriter, r *http.Request) {
	var req createPitchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	created, err := s.pitches.Create(r.Context(), pitch.CreateParams{
		BrokerageID:   caller.ID,
		AgentID:       req.AgentID,
		Message:       req.Message,
		OfferOverride: req.Offer,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"pitch": created})
}

func (s *Server) handleGetPitch(w http.ResponseWriter, r *http.Request) {
	var agentID, brokerageID string
	switch callerRole(r) {
	case auth.RoleAgent:
		profile, err := s.agents.GetByUserID(r.Context(), callerID(r))
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		agentID = profile.ID
	case auth.RoleBrokerage:
		profile, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		brokerageID = profile.ID
	default:
		respondError(w, http.StatusForbidden, "forbidden", "unknown role")
		return
	}

	p, err := s.pitches.GetByID(r.Context(), mux.Vars(r)["id"], agentID, brokerageID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"pitch": p})
}

func (s *Server) handleAcceptPitch(w http.ResponseWriter, r *http.Request) {
	s.respondToPitch(w, r, s.pitches.Accept)
}

func (s *Server) handleDeclinePitch(w http.ResponseWriter, r *http.Request) {
	s.respondToPitch(w, r, s.pitches.Decline)
}

func (s *Server) respondToPitch(w http.ResponseWriter, r *http.Request, respond func(ctx context.Context, pitchID, actingAgentID string) (pitch.Pitch, error)) {
	caller, err := s.agents.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	updated, err := respond(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"pitch": updated})
}

type commissionEstimateResponse struct {
	CurrentEarnings   decimal.Decimal `json:"currentEarnings"`
	PotentialEarnings decimal.Decimal `json:"potentialEarnings"`
	LostCommission    decimal.Decimal `json:"lostCommission"`
}

// handleCommissionEstimate powers the "what are you leaving on the table"
// calculator on the agent dashboard.
func (s *Server) handleCommissionEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	volume, err := decimal.NewFromString(q.Get("annualVolume"))
	if err != nil || volume.IsNegative() {
		respondError(w, http.StatusBadRequest, "validation_error", "annualVolume must be a non-negative number")
		return
	}
	split, err := decimal.NewFromString(q.Get("currentSplit"))
	if err != nil || split.IsNegative() || split.GreaterThan(decimal.NewFromInt(100)) {
		respondError(w, http.StatusBadRequest, "validation_error", "currentSplit must be between 0 and 100")
		return
	}

	breakdown := match.LostCommission(volume, split)
	respondJSON(w, http.StatusOK, commissionEstimateResponse{
		CurrentEarnings:   breakdown.CurrentShare,
		PotentialEarnings: breakdown.PotentialEarnings,
		LostCommission:    breakdown.LostCommission,
	})
}
