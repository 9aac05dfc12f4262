// Package domains defines the stream/domain/role hierarchy a user selects
// from before an audit or a career-compass run.
package domains

// Professional domains offered for auditing.
const (
	Software      = "Software Development"
	Data          = "Data Science & Analytics"
	AI            = "Artificial Intelligence"
	Cybersecurity = "Cybersecurity"
	CloudDevOps   = "Cloud & DevOps"
	ProductDesign = "Product & Design"
	Blockchain    = "Blockchain & Web3"
	BusinessTech  = "Business & Management"
)

// Streams are the top-level career-compass groupings.
var Streams = []string{
	"Engineering & Technology",
	"Data & Artificial Intelligence",
	"Business & Management",
	"Design & Creative Arts",
}

// StreamDomains maps each stream to its domains.
var StreamDomains = map[string][]string{
	"Engineering & Technology":       {Software, CloudDevOps, Cybersecurity, Blockchain},
	"Data & Artificial Intelligence": {Data, AI},
	"Business & Management":          {BusinessTech},
	"Design & Creative Arts":         {ProductDesign},
}

// DomainRoles maps each domain to the roles it offers.
var DomainRoles = map[string][]string{
	Software:      {"Frontend Engineer", "Backend Engineer", "Fullstack Developer", "Mobile Dev", "Embedded Systems", "QA Automation", "System Architect"},
	Data:          {"Data Analyst", "Data Engineer", "Data Scientist", "BI Developer", "Data Architect", "Statistician"},
	AI:            {"ML Engineer", "NLP Specialist", "AI Architect", "Computer Vision Engineer", "Robotics Engineer", "AI Ethicist"},
	Cybersecurity: {"Security Analyst", "Penetration Tester", "Incident Responder", "Cloud Security Engineer", "GRC Specialist"},
	CloudDevOps:   {"DevOps Engineer", "Cloud Architect", "Site Reliability Engineer", "Platform Engineer", "Cloud Migration Specialist"},
	ProductDesign: {"UI/UX Designer", "Product Manager", "Product Designer", "Interaction Designer", "User Researcher"},
	Blockchain:    {"Smart Contract Developer", "DApp Developer", "Blockchain Architect", "Web3 Product Manager"},
	BusinessTech:  {"Digital Transformation Lead", "IT Business Analyst", "Growth Hacker", "Tech Sales Engineer", "E-commerce Specialist"},
}

// ValidDomain reports whether the domain is in the catalog.
func ValidDomain(domain string) bool {
	_, ok := DomainRoles[domain]
	return ok
}

// ValidRole reports whether the role belongs to the domain.
func ValidRole(domain, role string) bool {
	for _, r := range DomainRoles[domain] {
		if r == role {
			return true
		}
	}
	return false
}

// ValidStream reports whether the stream is in the catalog.
func ValidStream(stream string) bool {
	_, ok := StreamDomains[stream]
	return ok
}
