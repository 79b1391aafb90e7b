package pure

import (
	"sort"
	"strings"
)

// Person is the subset of a Pure person record the application reads.
type Person struct {
	UUID                          string                         `json:"uuid"`
	Name                          PersonName                     `json:"name"`
	StaffOrganizationAssociations []StaffOrganizationAssociation `json:"staffOrganizationAssociations"`
	ProfilePhotos                 []ProfilePhoto                 `json:"profilePhotos"`
	KeywordGroups                 []KeywordGroup                 `json:"keywordGroups"`
}

// PersonName is the structured name of a person.
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Full returns "First Last", skipping empty parts.
func (n PersonName) Full() string {
	return strings.TrimSpace(strings.TrimSpace(n.FirstName) + " " + strings.TrimSpace(n.LastName))
}

// StaffOrganizationAssociation links a person to an organisation.
type StaffOrganizationAssociation struct {
	Emails       []ClassifiedValue `json:"emails"`
	Organization OrganizationRef   `json:"organization"`
}

// ClassifiedValue is a plain value wrapper used for emails and similar fields.
type ClassifiedValue struct {
	Value string `json:"value"`
}

// OrganizationRef points at an organisation by UUID.
type OrganizationRef struct {
	UUID string `json:"uuid"`
}

// ProfilePhoto references a downloadable image.
type ProfilePhoto struct {
	URL string `json:"url"`
}

// KeywordGroup holds free keywords grouped per locale.
type KeywordGroup struct {
	FreeKeywords []LocalizedKeywords `json:"freeKeywords"`
}

// LocalizedKeywords is a list of free keywords in one locale.
type LocalizedKeywords struct {
	Locale       string   `json:"locale"`
	FreeKeywords []string `json:"freeKeywords"`
}

// Emails returns all non-empty emails in association order.
func (p *Person) Emails() []string {
	var emails []string
	for _, assoc := range p.StaffOrganizationAssociations {
		for _, e := range assoc.Emails {
			if v := strings.TrimSpace(e.Value); v != "" {
				emails = append(emails, v)
			}
		}
	}
	return emails
}

// OrganizationUUIDs returns the distinct organisation UUIDs of the staff
// associations, in first-seen order.
func (p *Person) OrganizationUUIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, assoc := range p.StaffOrganizationAssociations {
		id := strings.TrimSpace(assoc.Organization.UUID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// PhotoURL returns the first non-empty profile photo URL, or "".
func (p *Person) PhotoURL() string {
	for _, photo := range p.ProfilePhotos {
		if u := strings.TrimSpace(photo.URL); u != "" {
			return u
		}
	}
	return ""
}

// FreeKeywords flattens all free keywords across groups and locales.
func (p *Person) FreeKeywords() []string {
	var keywords []string
	for _, group := range p.KeywordGroups {
		for _, localized := range group.FreeKeywords {
			keywords = append(keywords, localized.FreeKeywords...)
		}
	}
	return keywords
}

// Organization is an organisational unit record.
type Organization struct {
	UUID      string            `json:"uuid"`
	Name      map[string]string `json:"name"`
	PortalURL string            `json:"portalUrl"`
}

// preferredLocales are tried in order before any other locale.
var preferredLocales = []string{"en_GB", "en_US", "da_DK"}

// DisplayName returns the first non-blank name in preferredLocales, then in
// the remaining locales sorted by key.
func (o *Organization) DisplayName() string {
	for _, locale := range preferredLocales {
		if name := strings.TrimSpace(o.Name[locale]); name != "" {
			return name
		}
	}
	locales := make([]string, 0, len(o.Name))
	for locale := range o.Name {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		if name := strings.TrimSpace(o.Name[locale]); name != "" {
			return name
		}
	}
	return ""
}

// ResearchOutput is a publication record.
type ResearchOutput struct {
	UUID      string      `json:"uuid"`
	Title     OutputTitle `json:"title"`
	PortalURL string      `json:"portalUrl"`
}

// OutputTitle wraps a research output title.
type OutputTitle struct {
	Value string `json:"value"`
}
