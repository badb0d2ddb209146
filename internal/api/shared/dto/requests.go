package dto

import (
	"fmt"

	"github.com/marketlens/attribution-engine/internal/api/shared/constants"
	apierrors "github.com/marketlens/attribution-engine/internal/api/shared/errors"
	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/identity"
	"github.com/marketlens/attribution-engine/internal/tracking"
)

// UTMParams carries the structured UTM query parameters from a beacon
type UTMParams struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Term     string `json:"term"`
	Content  string `json:"content"`
}

// ClickIDs carries the paid-traffic click identifiers
type ClickIDs struct {
	GCLID  string `json:"gclid"`
	FBCLID string `json:"fbclid"`
}

// DeviceInfo carries the client-detected device facts
type DeviceInfo struct {
	Type    string `json:"type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// BeaconRequest represents the request body for a session beacon
type BeaconRequest struct {
	VisitorID    string         `json:"visitorId"`
	SessionID    string         `json:"sessionId"`
	IsNewVisitor bool           `json:"isNewVisitor"`
	IsNewSession bool           `json:"isNewSession"`
	LandingPage  string         `json:"landingPage"`
	Referrer     string         `json:"referrer"`
	UTM          UTMParams      `json:"utm"`
	ClickIDs     ClickIDs       `json:"clickIds"`
	AdClickData  map[string]any `json:"adClickData"`
	Device       DeviceInfo     `json:"device"`
}

// Validate validates the request body
func (r *BeaconRequest) Validate() error {
	if r.VisitorID == "" {
		return apierrors.NewValidationError("visitorId is required")
	}
	if r.SessionID == "" {
		return apierrors.NewValidationError("sessionId is required")
	}
	if len(r.LandingPage) > constants.MAX_URL_LENGTH {
		return apierrors.NewValidationError("landingPage is too long")
	}
	if len(r.Referrer) > constants.MAX_URL_LENGTH {
		return apierrors.NewValidationError("referrer is too long")
	}
	if len(r.AdClickData) > constants.MAX_AD_CLICK_PARAMS {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d adClickData parameters allowed", constants.MAX_AD_CLICK_PARAMS))
	}
	return nil
}

// ToBeacon converts the request into the tracker's input
func (r *BeaconRequest) ToBeacon() tracking.Beacon {
	return tracking.Beacon{
		VisitorID:  r.VisitorID,
		SessionID:  r.SessionID,
		NewVisitor: r.IsNewVisitor,
		NewSession: r.IsNewSession,
		Attribution: domain.Attribution{
			Source:      r.UTM.Source,
			Medium:      r.UTM.Medium,
			Campaign:    r.UTM.Campaign,
			Term:        r.UTM.Term,
			Content:     r.UTM.Content,
			LandingPage: r.LandingPage,
			Referrer:    r.Referrer,
			GCLID:       r.ClickIDs.GCLID,
			FBCLID:      r.ClickIDs.FBCLID,
		},
		AdClickData: r.AdClickData,
		Device: domain.Device{
			Type:    r.Device.Type,
			Browser: r.Device.Browser,
			OS:      r.Device.OS,
		},
	}
}

// PageviewRequest represents the request body for a pageview tick
type PageviewRequest struct {
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
}

// Validate validates the request body
func (r *PageviewRequest) Validate() error {
	if r.SessionID == "" {
		return apierrors.NewValidationError("sessionId is required")
	}
	return nil
}

// ToPageview converts the request into the tracker's input
func (r *PageviewRequest) ToPageview() tracking.Pageview {
	return tracking.Pageview{
		VisitorID: r.VisitorID,
		SessionID: r.SessionID,
	}
}

// IdentifyRequest represents the request body for an email capture
type IdentifyRequest struct {
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Validate validates the request body
func (r *IdentifyRequest) Validate() error {
	if r.VisitorID == "" {
		return apierrors.NewValidationError("visitorId is required")
	}
	if r.Email == "" {
		return apierrors.NewValidationError("email is required")
	}
	if len(r.Email) > constants.MAX_EMAIL_LENGTH {
		return apierrors.NewValidationError("email is too long")
	}
	if !domain.ValidEmail(domain.NormalizeEmail(r.Email)) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid email: %s", r.Email))
	}
	if len(r.FirstName) > constants.MAX_NAME_LENGTH || len(r.LastName) > constants.MAX_NAME_LENGTH {
		return apierrors.NewValidationError("name is too long")
	}
	if len(r.Phone) > constants.MAX_PHONE_LENGTH {
		return apierrors.NewValidationError("phone is too long")
	}
	return nil
}

// ToIdentification converts the request into the resolver's input
func (r *IdentifyRequest) ToIdentification() identity.Identification {
	return identity.Identification{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		VisitorID: r.VisitorID,
		SessionID: r.SessionID,
	}
}
