package model

import "time"

type ConnectionType string

const (
	ConnectionKnows        ConnectionType = "knows"
	ConnectionIntroducedBy ConnectionType = "introduced_by"
	ConnectionWorksWith    ConnectionType = "works_with"
	ConnectionReportsTo    ConnectionType = "reports_to"
	ConnectionInvestedIn   ConnectionType = "invested_in"
	ConnectionReferredBy   ConnectionType = "referred_by"
)

type FavorDirection string

const (
	FavorGiven    FavorDirection = "given"
	FavorReceived FavorDirection = "received"
)

// Contact is a person in the owner's address book. Rating (0-5) and
// InfluenceLevel (0-10) are optional.
type Contact struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Company           string   `json:"company,omitempty"`
	City              string   `json:"city,omitempty"`
	Country           string   `json:"country,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	PersonalInterests []string `json:"personal_interests,omitempty"`
	ProfessionalGoals []string `json:"professional_goals,omitempty"`
	RelationshipType  string   `json:"relationship_type,omitempty"`
	Rating            *int     `json:"rating,omitempty"`
	InfluenceLevel    *int     `json:"influence_level,omitempty"`
}

// ContactConnection is a directed relationship record between two contacts.
// Strength is 1-5; nil or out-of-range values are read as neutral.
type ContactConnection struct {
	ID              string         `json:"id"`
	SourceContactID string         `json:"source_contact_id"`
	TargetContactID string         `json:"target_contact_id"`
	ConnectionType  ConnectionType `json:"connection_type"`
	Strength        *int           `json:"strength,omitempty"`
	Bidirectional   bool           `json:"bidirectional"`
}

type Interaction struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
}

type Favor struct {
	ID        string         `json:"id"`
	ContactID string         `json:"contact_id"`
	Direction FavorDirection `json:"direction"`
	Date      time.Time      `json:"date"`
}

// Snapshot is everything one owner has recorded, as handed to the analyzers.
type Snapshot struct {
	Contacts     []Contact           `json:"contacts"`
	Connections  []ContactConnection `json:"connections"`
	Interactions []Interaction       `json:"interactions"`
	Favors       []Favor             `json:"favors"`
}

// Clone returns a deep copy so callers cannot alias a store's state.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Contacts:     make([]Contact, len(s.Contacts)),
		Connections:  make([]ContactConnection, len(s.Connections)),
		Interactions: append([]Interaction(nil), s.Interactions...),
		Favors:       append([]Favor(nil), s.Favors...),
	}
	for i, c := range s.Contacts {
		c.Tags = append([]string(nil), c.Tags...)
		c.PersonalInterests = append([]string(nil), c.PersonalInterests...)
		c.ProfessionalGoals = append([]string(nil), c.ProfessionalGoals...)
		c.Rating = cloneInt(c.Rating)
		c.InfluenceLevel = cloneInt(c.InfluenceLevel)
		out.Contacts[i] = c
	}
	for i, c := range s.Connections {
		c.Strength = cloneInt(c.Strength)
		out.Connections[i] = c
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr is a small helper for optional numeric fields.
func IntPtr(v int) *int {
	return &v
}
