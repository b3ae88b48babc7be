package httpapi

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pitchflow/agent"
	"pitchflow/brokerage"
	"pitchflow/offer"
)

type agentProfileResponse struct {
	ID              string          `json:"id"`
	AnonymousID     string          `json:"anonymousId"`
	Name            *string         `json:"name"`
	LicenseNumber   string          `json:"licenseNumber"`
	YearsExperience int             `json:"yearsExperience"`
	SalesVolume     decimal.Decimal `json:"salesVolume"`
	CurrentBroker   *string         `json:"currentBroker"`
	WishList        []string        `json:"wishList"`
	IsAnonymous     bool            `json:"isAnonymous"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Owners see their own profile unredacted.
func toAgentProfileResponse(p agent.Profile) agentProfileResponse {
	return agentProfileResponse{
		ID:              p.ID,
		AnonymousID:     p.AnonymousID,
		Name:            p.Name,
		LicenseNumber:   p.LicenseNumber,
		YearsExperience: p.YearsExperience,
		SalesVolume:     p.SalesVolume,
		CurrentBroker:   p.CurrentBroker,
		WishList:        p.WishList,
		IsAnonymous:     p.IsAnonymous,
		CreatedAt:       p.CreatedAt,
	}
}

func (s *Server) handleGetAgentProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.agents.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"agent": toAgentProfileResponse(profile)})
}

type createAgentProfileRequest struct {
	Name            *string         `json:"name"`
	LicenseNumber   string          `json:"licenseNumber"`
	YearsExperience int             `json:"yearsExperience"`
	SalesVolume     decimal.Decimal `json:"salesVolume"`
	CurrentBroker   *string         `json:"currentBroker"`
	WishList        []string        `json:"wishList"`
}

func (s *Server) handleCreateAgentProfile(w http.ResponseWriter, r *http.Request) {
	var req createAgentProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := s.agents.CreateProfile(r.Context(), callerID(r), agent.CreateParams{
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		YearsExperience: req.YearsExperience,
		SalesVolume:     req.SalesVolume,
		CurrentBroker:   req.CurrentBroker,
		WishList:        req.WishList,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"agent": toAgentProfileResponse(profile)})
}

type updateAgentProfileRequest struct {
	Name            *string          `json:"name"`
	LicenseNumber   *string          `json:"licenseNumber"`
	YearsExperience *int             `json:"yearsExperience"`
	SalesVolume     *decimal.Decimal `json:"salesVolume"`
	CurrentBroker   *string          `json:"currentBroker"`
	WishList        []string         `json:"wishList"`
}

func (s *Server) handleUpdateAgentProfile(w http.ResponseWriter, r *http.Request) {
	var req updateAgentProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := s.agents.UpdateProfile(r.Context(), callerID(r), agent.UpdateParams{
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		YearsExperience: req.YearsExperience,
		SalesVolume:     req.SalesVolume,
		CurrentBroker:   req.CurrentBroker,
		WishList:        req.WishList,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"agent": toAgentProfileResponse(profile)})
}

type brokerageProfileResponse struct {
	ID            string      `json:"id"`
	CompanyName   string      `json:"companyName"`
	Location      string      `json:"location"`
	LogoURL       *string     `json:"logoUrl"`
	Description   *string     `json:"description"`
	StandardOffer offer.Offer `json:"standardOffer"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func toBrokerageProfileResponse(p brokerage.Profile) brokerageProfileResponse {
	return brokerageProfileResponse{
		ID:            p.ID,
		CompanyName:   p.CompanyName,
		Location:      p.Location,
		LogoURL:       p.LogoURL,
		Description:   p.Description,
		StandardOffer: p.StandardOffer,
		CreatedAt:     p.CreatedAt,
	}
}

func (s *Server) handleGetBrokerageProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"brokerage": toBrokerageProfileResponse(profile)})
}

type createBrokerageProfileRequest struct {
	CompanyName   string      `json:"companyName"`
	Location      string      `json:"location"`
	LogoURL       *string     `json:"logoUrl"`
	Description   *string     `json:"description"`
	StandardOffer offer.Offer `json:"standardOffer"`
}

func (s *Server) handleCreateBrokerageProfile(w http.ResponseWriter, r *http.Request) {
	var req createBrokerageProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := s.brokerages.CreateProfile(r.Context(), callerID(r), brokerage.CreateParams{
		CompanyName:   req.CompanyName,
		Location:      req.Location,
		LogoURL:       req.LogoURL,
		Description:   req.Description,
		StandardOffer: req.StandardOffer,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"brokerage": toBrokerageProfileResponse(profile)})
}

type updateBrokerageProfileRequest struct {
	CompanyName   *string      `json:"companyName"`
	Location      *string      `json:"location"`
	LogoURL       *string      `json:"logoUrl"`
	Description   *string      `json:"description"`
	StandardOffer *offer.Offer `json:"standardOffer"`
}

func (s *Server) handleUpdateBrokerageProfile(w http.ResponseWriter, r *http.Request) {
	var req updateBrokerageProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := s.brokerages.UpdateProfile(r.Context(), callerID(r), brokerage.UpdateParams{
		CompanyName:   req.CompanyName,
		Location:      req.Location,
		LogoURL:       req.LogoURL,
		Description:   req.Description,
		StandardOffer: req.StandardOffer,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"brokerage": toBrokerageProfileResponse(profile)})
}
