package domain

// ProjectType is the category of website the client asks for.
// It selects which project-details variant the wizard shows.
type ProjectType string

const (
	ProjectPortfolio ProjectType = "portfolio"
	ProjectEcommerce ProjectType = "ecommerce"
	ProjectEducation ProjectType = "education"
	ProjectCompany   ProjectType = "company"
	ProjectBlog      ProjectType = "blog"
	ProjectSaaS      ProjectType = "saas"
	ProjectLanding   ProjectType = "landing"
	ProjectOther     ProjectType = "other"
)

// ProjectTypes lists every known project type in display order.
var ProjectTypes = []ProjectType{
	ProjectPortfolio,
	ProjectEcommerce,
	ProjectEducation,
	ProjectCompany,
	ProjectBlog,
	ProjectSaaS,
	ProjectLanding,
	ProjectOther,
}

// Valid reports whether t is one of the known project types.
func (t ProjectType) Valid() bool {
	for _, known := range ProjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasDetails reports whether the type owns a project-details variant.
// Landing pages and "other" projects have no type-specific questions.
func (t ProjectType) HasDetails() bool {
	switch t {
	case ProjectPortfolio, ProjectEcommerce, ProjectEducation, ProjectCompany, ProjectBlog, ProjectSaaS:
		return true
	}
	return false
}

// DetailsPolicy decides what happens to inactive project-details variants
// when the project type changes.
type DetailsPolicy string

const (
	// DetailsRetain keeps every variant the client filled in, so switching back
	// and forth loses nothing. Inactive variants are embedded in the submission.
	DetailsRetain DetailsPolicy = "retain"
	// DetailsReset drops every variant other than the newly selected one.
	DetailsReset DetailsPolicy = "reset"
)

// Valid reports whether p is a known policy.
func (p DetailsPolicy) Valid() bool {
	return p == DetailsRetain || p == DetailsReset
}
