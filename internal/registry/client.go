package registry

import "time"

// ClientType categorizes the hiring organization.
type ClientType string

const (
	ClientAssetManager  ClientType = "asset_manager"
	ClientHedgeFund     ClientType = "hedge_fund"
	ClientPrivateEquity ClientType = "private_equity"
	ClientFamilyOffice  ClientType = "family_office"
)

// PositionType is the engagement model a client hires for.
type PositionType string

const (
	PositionFullTime  PositionType = "full_time"
	PositionContract  PositionType = "contract"
	PositionFreelance PositionType = "freelance"
)

// Client is one hiring organization's requirements.
type Client struct {
	// ID is assigned by the store on Add and never changes afterwards.
	ID                       string       `json:"id,omitempty"`
	CompanyName              string       `json:"company_name" validate:"required"`
	ContactName              string       `json:"contact_name"`
	Email                    string       `json:"email"`
	Phone                    string       `json:"phone"`
	Type                     ClientType   `json:"client_type" validate:"omitempty,oneof=asset_manager hedge_fund private_equity family_office"`
	RequiredSkills           []string     `json:"required_skills"`
	PreferredSpecializations []string     `json:"preferred_specializations"`
	Location                 string       `json:"location"`
	PositionType             PositionType `json:"position_type" validate:"omitempty,oneof=full_time contract freelance"`
	MinExperienceYears       float64      `json:"min_experience_years" validate:"gte=0"`
	BudgetRange              string       `json:"budget_range,omitempty"`
	Urgent                   bool         `json:"urgent"`
	CreatedAt                time.Time    `json:"created_at,omitempty"`
}

func (c *Client) normalize() {
	if c.Type == "" {
		c.Type = ClientAssetManager
	}
	if c.PositionType == "" {
		c.PositionType = PositionFullTime
	}
	if c.RequiredSkills == nil {
		c.RequiredSkills = []string{}
	}
	if c.PreferredSpecializations == nil {
		c.PreferredSpecializations = []string{}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}
