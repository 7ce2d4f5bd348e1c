package domain

// Answers is the full answer record of a wizard session.
// JSON names match the dotted field paths used by the step layouts
// (e.g. "socialMedia.facebook", "ecommerceDetails.categories").
type Answers struct {
	// Basic information
	Name             string      `json:"name" yaml:"name"`
	Description      string      `json:"description,omitempty" yaml:"description,omitempty"`
	ShortDescription string      `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	LongDescription  string      `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Goal             string      `json:"goal,omitempty" yaml:"goal,omitempty"`
	ProjectType      ProjectType `json:"projectType,omitempty" yaml:"projectType,omitempty"`

	// Goals & audience
	MainGoals      []string `json:"mainGoals,omitempty" yaml:"mainGoals,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	Competitors    string   `json:"competitors,omitempty" yaml:"competitors,omitempty"`

	// Brand identity
	PreferredColors     string `json:"preferredColors,omitempty" yaml:"preferredColors,omitempty"`
	Fonts               string `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	LogoAvailable       bool   `json:"logoAvailable,omitempty" yaml:"logoAvailable,omitempty"`
	InspirationWebsites string `json:"inspirationWebsites,omitempty" yaml:"inspirationWebsites,omitempty"`

	// Per-type details, allocated on first write.
	ProjectDetails `yaml:",inline"`

	// Content
	Sections          []string `json:"sections,omitempty" yaml:"sections,omitempty"`
	InitialContent    string   `json:"initialContent,omitempty" yaml:"initialContent,omitempty"`
	NeedsReadyContent bool     `json:"needsReadyContent,omitempty" yaml:"needsReadyContent,omitempty"`
	Languages         []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Functionalities
	Features     []string `json:"features,omitempty" yaml:"features,omitempty"`
	Integrations []string `json:"integrations,omitempty" yaml:"integrations,omitempty"`

	SocialMedia SocialMedia `json:"socialMedia" yaml:"socialMedia"`

	// Hosting & domain
	HasDomain    string `json:"hasDomain,omitempty" yaml:"hasDomain,omitempty"`
	DomainName   string `json:"domainName,omitempty" yaml:"domainName,omitempty"`
	NeedsHosting string `json:"needsHosting,omitempty" yaml:"needsHosting,omitempty"`

	// Design
	Template       string `json:"template,omitempty" yaml:"template,omitempty"`
	StyleDirection string `json:"styleDirection,omitempty" yaml:"styleDirection,omitempty"`
	Pages          string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Timeline
	StartDate        string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	ExpectedDelivery string `json:"expectedDelivery,omitempty" yaml:"expectedDelivery,omitempty"`

	// Budget
	Package     string   `json:"package,omitempty" yaml:"package,omitempty"`
	Addons      []string `json:"addons,omitempty" yaml:"addons,omitempty"`
	BudgetRange string   `json:"budgetRange,omitempty" yaml:"budgetRange,omitempty"`

	// Contact
	ContactName      string `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	ContactEmail     string `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	ContactPhone     string `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty" yaml:"preferredContact,omitempty"`
}

// SocialMedia holds the client's existing social accounts.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" yaml:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	TikTok    string `json:"tiktok,omitempty" yaml:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty" yaml:"youtube,omitempty"`
}

// Clone returns a deep copy of the answers. Slices and detail variants are
// copied so the clone can be mutated without touching the original snapshot.
func (a Answers) Clone() Answers {
	out := a
	out.MainGoals = cloneStrings(a.MainGoals)
	out.Sections = cloneStrings(a.Sections)
	out.Languages = cloneStrings(a.Languages)
	out.Features = cloneStrings(a.Features)
	out.Integrations = cloneStrings(a.Integrations)
	out.Addons = cloneStrings(a.Addons)
	out.ProjectDetails = a.ProjectDetails.Clone()
	return out
}

// ActiveDetails returns the variant owned by the selected project type,
// or nil when the type has none or it was never filled in.
func (a *Answers) ActiveDetails() Details {
	return a.ProjectDetails.Variant(a.ProjectType)
}

// ToggleMember removes item from list if present, otherwise appends it.
// The relative order of the remaining members is preserved.
func ToggleMember(list []string, item string) []string {
	for i, v := range list {
		if v == item {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
