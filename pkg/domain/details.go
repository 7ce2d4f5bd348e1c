package domain

// Details is the type-specific part of the answers (the "Project Details" step).
// Exactly one variant is active at a time, selected by Answers.ProjectType.
type Details interface {
	ProjectType() ProjectType
}

// PortfolioDetails describes a personal portfolio.
type PortfolioDetails struct {
	Profession    string `json:"profession,omitempty" yaml:"profession,omitempty"`
	ProjectsCount string `json:"projectsCount,omitempty" yaml:"projectsCount,omitempty"`
	ShowResume    bool   `json:"showResume,omitempty" yaml:"showResume,omitempty"`
	GalleryStyle  string `json:"galleryStyle,omitempty" yaml:"galleryStyle,omitempty"`
}

// EcommerceDetails describes an online store.
type EcommerceDetails struct {
	Categories     []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	ProductsCount  string   `json:"productsCount,omitempty" yaml:"productsCount,omitempty"`
	PaymentMethods []string `json:"paymentMethods,omitempty" yaml:"paymentMethods,omitempty"`
	ShippingZones  string   `json:"shippingZones,omitempty" yaml:"shippingZones,omitempty"`
	NeedsInventory bool     `json:"needsInventory,omitempty" yaml:"needsInventory,omitempty"`
}

// EducationDetails describes an educational platform.
type EducationDetails struct {
	CourseTypes       []string `json:"courseTypes,omitempty" yaml:"courseTypes,omitempty"`
	StudentsCount     string   `json:"studentsCount,omitempty" yaml:"studentsCount,omitempty"`
	NeedsCertificates bool     `json:"needsCertificates,omitempty" yaml:"needsCertificates,omitempty"`
	LiveSessions      bool     `json:"liveSessions,omitempty" yaml:"liveSessions,omitempty"`
}

// CompanyDetails describes a corporate website.
type CompanyDetails struct {
	Industry       string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	EmployeesCount string   `json:"employeesCount,omitempty" yaml:"employeesCount,omitempty"`
	Services       []string `json:"services,omitempty" yaml:"services,omitempty"`
	NeedsCareers   bool     `json:"needsCareers,omitempty" yaml:"needsCareers,omitempty"`
}

// BlogDetails describes a blog or magazine.
type BlogDetails struct {
	Topics           []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	PostingFrequency string   `json:"postingFrequency,omitempty" yaml:"postingFrequency,omitempty"`
	NeedsNewsletter  bool     `json:"needsNewsletter,omitempty" yaml:"needsNewsletter,omitempty"`
	Monetization     []string `json:"monetization,omitempty" yaml:"monetization,omitempty"`
}

// SaaSDetails describes a software-as-a-service product site.
type SaaSDetails struct {
	ProductStage   string   `json:"productStage,omitempty" yaml:"productStage,omitempty"`
	PricingModel   string   `json:"pricingModel,omitempty" yaml:"pricingModel,omitempty"`
	NeedsDashboard bool     `json:"needsDashboard,omitempty" yaml:"needsDashboard,omitempty"`
	Integrations   []string `json:"integrations,omitempty" yaml:"integrations,omitempty"`
}

func (*PortfolioDetails) ProjectType() ProjectType { return ProjectPortfolio }
func (*EcommerceDetails) ProjectType() ProjectType { return ProjectEcommerce }
func (*EducationDetails) ProjectType() ProjectType { return ProjectEducation }
func (*CompanyDetails) ProjectType() ProjectType   { return ProjectCompany }
func (*BlogDetails) ProjectType() ProjectType      { return ProjectBlog }
func (*SaaSDetails) ProjectType() ProjectType      { return ProjectSaaS }

// ProjectDetails holds the per-type variants. A nil pointer means the client
// never touched that variant.
type ProjectDetails struct {
	Portfolio *PortfolioDetails `json:"portfolioDetails,omitempty" yaml:"portfolioDetails,omitempty"`
	Ecommerce *EcommerceDetails `json:"ecommerceDetails,omitempty" yaml:"ecommerceDetails,omitempty"`
	Education *EducationDetails `json:"educationDetails,omitempty" yaml:"educationDetails,omitempty"`
	Company   *CompanyDetails   `json:"companyDetails,omitempty" yaml:"companyDetails,omitempty"`
	Blog      *BlogDetails      `json:"blogDetails,omitempty" yaml:"blogDetails,omitempty"`
	SaaS      *SaaSDetails      `json:"saasDetails,omitempty" yaml:"saasDetails,omitempty"`
}

// Variant returns the allocated variant for t, or nil.
func (d *ProjectDetails) Variant(t ProjectType) Details {
	switch t {
	case ProjectPortfolio:
		if d.Portfolio != nil {
			return d.Portfolio
		}
	case ProjectEcommerce:
		if d.Ecommerce != nil {
			return d.Ecommerce
		}
	case ProjectEducation:
		if d.Education != nil {
			return d.Education
		}
	case ProjectCompany:
		if d.Company != nil {
			return d.Company
		}
	case ProjectBlog:
		if d.Blog != nil {
			return d.Blog
		}
	case ProjectSaaS:
		if d.SaaS != nil {
			return d.SaaS
		}
	}
	return nil
}

// Keep drops every variant except the one owned by t.
func (d *ProjectDetails) Keep(t ProjectType) {
	kept := ProjectDetails{}
	switch t {
	case ProjectPortfolio:
		kept.Portfolio = d.Portfolio
	case ProjectEcommerce:
		kept.Ecommerce = d.Ecommerce
	case ProjectEducation:
		kept.Education = d.Education
	case ProjectCompany:
		kept.Company = d.Company
	case ProjectBlog:
		kept.Blog = d.Blog
	case ProjectSaaS:
		kept.SaaS = d.SaaS
	}
	*d = kept
}

// Allocated lists the project types whose variant has been allocated.
func (d *ProjectDetails) Allocated() []ProjectType {
	var out []ProjectType
	for _, t := range ProjectTypes {
		if d.Variant(t) != nil {
			out = append(out, t)
		}
	}
	return out
}

// PortfolioOrNew returns the portfolio variant, allocating it when missing.
func (d *ProjectDetails) PortfolioOrNew() *PortfolioDetails {
	if d.Portfolio == nil {
		d.Portfolio = &PortfolioDetails{}
	}
	return d.Portfolio
}

// EcommerceOrNew returns the ecommerce variant, allocating it when missing.
func (d *ProjectDetails) EcommerceOrNew() *EcommerceDetails {
	if d.Ecommerce == nil {
		d.Ecommerce = &EcommerceDetails{}
	}
	return d.Ecommerce
}

// EducationOrNew returns the education variant, allocating it when missing.
func (d *ProjectDetails) EducationOrNew() *EducationDetails {
	if d.Education == nil {
		d.Education = &EducationDetails{}
	}
	return d.Education
}

// CompanyOrNew returns the company variant, allocating it when missing.
func (d *ProjectDetails) CompanyOrNew() *CompanyDetails {
	if d.Company == nil {
		d.Company = &CompanyDetails{}
	}
	return d.Company
}

// BlogOrNew returns the blog variant, allocating it when missing.
func (d *ProjectDetails) BlogOrNew() *BlogDetails {
	if d.Blog == nil {
		d.Blog = &BlogDetails{}
	}
	return d.Blog
}

// SaaSOrNew returns the saas variant, allocating it when missing.
func (d *ProjectDetails) SaaSOrNew() *SaaSDetails {
	if d.SaaS == nil {
		d.SaaS = &SaaSDetails{}
	}
	return d.SaaS
}

// Clone deep-copies every allocated variant.
func (d ProjectDetails) Clone() ProjectDetails {
	out := ProjectDetails{}
	if d.Portfolio != nil {
		v := *d.Portfolio
		out.Portfolio = &v
	}
	if d.Ecommerce != nil {
		v := *d.Ecommerce
		v.Categories = cloneStrings(v.Categories)
		v.PaymentMethods = cloneStrings(v.PaymentMethods)
		out.Ecommerce = &v
	}
	if d.Education != nil {
		v := *d.Education
		v.CourseTypes = cloneStrings(v.CourseTypes)
		out.Education = &v
	}
	if d.Company != nil {
		v := *d.Company
		v.Services = cloneStrings(v.Services)
		out.Company = &v
	}
	if d.Blog != nil {
		v := *d.Blog
		v.Topics = cloneStrings(v.Topics)
		v.Monetization = cloneStrings(v.Monetization)
		out.Blog = &v
	}
	if d.SaaS != nil {
		v := *d.SaaS
		v.Integrations = cloneStrings(v.Integrations)
		out.SaaS = &v
	}
	return out
}
