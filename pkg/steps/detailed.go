package steps

import "github.com/aretw0/intake/pkg/domain"

var detailed = register(newLayout("detailed", "projectType", []string{"name", "shortDescription"},
	step("basic_info",
		text("name", top(func(a *domain.Answers) *string { return &a.Name })),
		text("shortDescription", top(func(a *domain.Answers) *string { return &a.ShortDescription })),
		text("longDescription", top(func(a *domain.Answers) *string { return &a.LongDescription })),
		choice("projectType", top(func(a *domain.Answers) *string { return (*string)(&a.ProjectType) }), projectTypeOptions()...),
	),
	step("goals_audience",
		set("mainGoals", top(func(a *domain.Answers) *[]string { return &a.MainGoals }),
			"sell_online", "generate_leads", "build_brand", "share_content", "provide_information", "book_appointments"),
		text("targetAudience", top(func(a *domain.Answers) *string { return &a.TargetAudience })),
		text("competitors", top(func(a *domain.Answers) *string { return &a.Competitors })),
	),
	brandStep(true),
	step("project_details", detailsFields()...),
	contentStep(true),
	functionalitiesStep(),
	step("social_media",
		text("socialMedia.facebook", top(func(a *domain.Answers) *string { return &a.SocialMedia.Facebook })),
		text("socialMedia.instagram", top(func(a *domain.Answers) *string { return &a.SocialMedia.Instagram })),
		text("socialMedia.twitter", top(func(a *domain.Answers) *string { return &a.SocialMedia.Twitter })),
		text("socialMedia.linkedin", top(func(a *domain.Answers) *string { return &a.SocialMedia.LinkedIn })),
		text("socialMedia.tiktok", top(func(a *domain.Answers) *string { return &a.SocialMedia.TikTok })),
		text("socialMedia.youtube", top(func(a *domain.Answers) *string { return &a.SocialMedia.YouTube })),
	),
	hostingStep(),
	designStep(),
	timelineStep(),
	step("budget",
		choice("package", top(func(a *domain.Answers) *string { return &a.Package }), packageOptions...),
		set("addons", top(func(a *domain.Answers) *[]string { return &a.Addons }), addonOptions...),
		choice("budgetRange", top(func(a *domain.Answers) *string { return &a.BudgetRange }),
			"under_5000", "5000_10000", "10000_25000", "over_25000"),
	),
	step("contact_confirmation", contactFields()...),
))

// Detailed returns the twelve-step layout with per-project-type details.
func Detailed() *Layout { return detailed }

func projectTypeOptions() []string {
	out := make([]string, len(domain.ProjectTypes))
	for i, t := range domain.ProjectTypes {
		out[i] = string(t)
	}
	return out
}

func detailsFields() []*Field {
	return []*Field{
		owned(domain.ProjectPortfolio, text("portfolioDetails.profession",
			variant(portfolio, func(d *domain.PortfolioDetails) *string { return &d.Profession }))),
		owned(domain.ProjectPortfolio, text("portfolioDetails.projectsCount",
			variant(portfolio, func(d *domain.PortfolioDetails) *string { return &d.ProjectsCount }))),
		owned(domain.ProjectPortfolio, flag("portfolioDetails.showResume",
			variant(portfolio, func(d *domain.PortfolioDetails) *bool { return &d.ShowResume }))),
		owned(domain.ProjectPortfolio, choice("portfolioDetails.galleryStyle",
			variant(portfolio, func(d *domain.PortfolioDetails) *string { return &d.GalleryStyle }),
			"grid", "masonry", "carousel", "list")),

		owned(domain.ProjectEcommerce, set("ecommerceDetails.categories",
			variant(ecommerce, func(d *domain.EcommerceDetails) *[]string { return &d.Categories }),
			"electronics", "fashion", "home", "beauty", "food", "books", "sports", "toys", "other")),
		owned(domain.ProjectEcommerce, choice("ecommerceDetails.productsCount",
			variant(ecommerce, func(d *domain.EcommerceDetails) *string { return &d.ProductsCount }),
			"1_50", "50_200", "200_1000", "over_1000")),
		owned(domain.ProjectEcommerce, set("ecommerceDetails.paymentMethods",
			variant(ecommerce, func(d *domain.EcommerceDetails) *[]string { return &d.PaymentMethods }),
			"cash_on_delivery", "card", "wallet", "bank_transfer", "paypal")),
		owned(domain.ProjectEcommerce, text("ecommerceDetails.shippingZones",
			variant(ecommerce, func(d *domain.EcommerceDetails) *string { return &d.ShippingZones }))),
		owned(domain.ProjectEcommerce, flag("ecommerceDetails.needsInventory",
			variant(ecommerce, func(d *domain.EcommerceDetails) *bool { return &d.NeedsInventory }))),

		owned(domain.ProjectEducation, set("educationDetails.courseTypes",
			variant(education, func(d *domain.EducationDetails) *[]string { return &d.CourseTypes }),
			"video", "live", "text", "quizzes")),
		owned(domain.ProjectEducation, choice("educationDetails.studentsCount",
			variant(education, func(d *domain.EducationDetails) *string { return &d.StudentsCount }),
			"1_100", "100_1000", "over_1000")),
		owned(domain.ProjectEducation, flag("educationDetails.needsCertificates",
			variant(education, func(d *domain.EducationDetails) *bool { return &d.NeedsCertificates }))),
		owned(domain.ProjectEducation, flag("educationDetails.liveSessions",
			variant(education, func(d *domain.EducationDetails) *bool { return &d.LiveSessions }))),

		owned(domain.ProjectCompany, text("companyDetails.industry",
			variant(company, func(d *domain.CompanyDetails) *string { return &d.Industry }))),
		owned(domain.ProjectCompany, choice("companyDetails.employeesCount",
			variant(company, func(d *domain.CompanyDetails) *string { return &d.EmployeesCount }),
			"1_10", "11_50", "51_200", "over_200")),
		// Free-form: the company lists its own services.
		owned(domain.ProjectCompany, set("companyDetails.services",
			variant(company, func(d *domain.CompanyDetails) *[]string { return &d.Services }))),
		owned(domain.ProjectCompany, flag("companyDetails.needsCareers",
			variant(company, func(d *domain.CompanyDetails) *bool { return &d.NeedsCareers }))),

		owned(domain.ProjectBlog, set("blogDetails.topics",
			variant(blog, func(d *domain.BlogDetails) *[]string { return &d.Topics }))),
		owned(domain.ProjectBlog, choice("blogDetails.postingFrequency",
			variant(blog, func(d *domain.BlogDetails) *string { return &d.PostingFrequency }),
			"daily", "weekly", "monthly")),
		owned(domain.ProjectBlog, flag("blogDetails.needsNewsletter",
			variant(blog, func(d *domain.BlogDetails) *bool { return &d.NeedsNewsletter }))),
		owned(domain.ProjectBlog, set("blogDetails.monetization",
			variant(blog, func(d *domain.BlogDetails) *[]string { return &d.Monetization }),
			"ads", "sponsorships", "subscriptions", "affiliate")),

		owned(domain.ProjectSaaS, choice("saasDetails.productStage",
			variant(saas, func(d *domain.SaaSDetails) *string { return &d.ProductStage }),
			"idea", "mvp", "launched", "scaling")),
		owned(domain.ProjectSaaS, choice("saasDetails.pricingModel",
			variant(saas, func(d *domain.SaaSDetails) *string { return &d.PricingModel }),
			"free", "freemium", "subscription", "one_time")),
		owned(domain.ProjectSaaS, flag("saasDetails.needsDashboard",
			variant(saas, func(d *domain.SaaSDetails) *bool { return &d.NeedsDashboard }))),
		owned(domain.ProjectSaaS, set("saasDetails.integrations",
			variant(saas, func(d *domain.SaaSDetails) *[]string { return &d.Integrations }))),
	}
}
