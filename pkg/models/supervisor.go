package models

// Supervisor is the locally stored supervisor row. Availability is the only
// field the application writes; the rest mirrors the directory service.
type Supervisor struct {
	ID        string `json:"uuid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

// OrganisationalUnit is an organisation a supervisor is affiliated with.
type OrganisationalUnit struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// SupervisorProfile is assembled live from the directory service on every read.
type SupervisorProfile struct {
	ID                  string               `json:"uuid"`
	Name                string               `json:"name"`
	FirstName           string               `json:"firstName"`
	Email               string               `json:"email"`
	ImageURL            string               `json:"imageUrl,omitempty"`
	OrganisationalUnits []OrganisationalUnit `json:"organisationalUnits"`
	Keywords            []string             `json:"keywords"`
}
