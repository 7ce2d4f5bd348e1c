package steps

import "github.com/aretw0/intake/pkg/domain"

// Option lists shared by both layouts.
var (
	fontOptions        = []string{"default", "modern", "classic", "elegant"}
	sectionOptions     = []string{"home", "about", "services", "portfolio", "blog", "contact", "faq"}
	featureOptions     = []string{"contact_form", "booking", "live_chat", "newsletter", "search", "user_accounts", "payments", "multilingual", "analytics"}
	integrationOptions = []string{"google_analytics", "facebook_pixel", "whatsapp", "mailchimp", "stripe", "paypal", "zapier"}
	yesNo              = []string{"yes", "no"}
	templateOptions    = []string{"minimal", "modern", "classic", "bold", "custom"}
	deliveryOptions    = []string{"asap", "1_month", "2_months", "3_months", "flexible"}
	packageOptions     = []string{"basic", "standard", "premium", "custom"}
	addonOptions       = []string{"seo", "maintenance", "content_writing", "logo_design", "social_media", "extra_revisions"}
	contactOptions     = []string{"email", "phone", "whatsapp"}
)

// Goal options of the classic layout. "corporate" is the classic name of
// what the detailed layout calls "company".
var goalOptions = []string{"portfolio", "ecommerce", "education", "corporate", "blog", "landing", "other"}

var classic = register(newLayout("classic", "goal", []string{"name", "description"},
	step("basic_info",
		text("name", top(func(a *domain.Answers) *string { return &a.Name })),
		text("description", top(func(a *domain.Answers) *string { return &a.Description })),
		choice("goal", top(func(a *domain.Answers) *string { return &a.Goal }), goalOptions...),
	),
	brandStep(false),
	contentStep(false),
	functionalitiesStep(),
	hostingStep(),
	designStep(),
	timelineStep(),
	step("budget",
		choice("package", top(func(a *domain.Answers) *string { return &a.Package }), packageOptions...),
		set("addons", top(func(a *domain.Answers) *[]string { return &a.Addons }), addonOptions...),
	),
	step("confirmation", contactFields()...),
))

// Classic returns the nine-step layout of the dashboard form.
func Classic() *Layout { return classic }

func brandStep(withLogo bool) *Step {
	fields := []*Field{
		text("preferredColors", top(func(a *domain.Answers) *string { return &a.PreferredColors })),
		choice("fonts", top(func(a *domain.Answers) *string { return &a.Fonts }), fontOptions...),
	}
	if withLogo {
		fields = append(fields, flag("logoAvailable", top(func(a *domain.Answers) *bool { return &a.LogoAvailable })))
	}
	fields = append(fields, text("inspirationWebsites", top(func(a *domain.Answers) *string { return &a.InspirationWebsites })))
	return step("brand_identity", fields...)
}

func contentStep(withLanguages bool) *Step {
	fields := []*Field{
		set("sections", top(func(a *domain.Answers) *[]string { return &a.Sections }), sectionOptions...),
		text("initialContent", top(func(a *domain.Answers) *string { return &a.InitialContent })),
		flag("needsReadyContent", top(func(a *domain.Answers) *bool { return &a.NeedsReadyContent })),
	}
	if withLanguages {
		fields = append(fields, set("languages", top(func(a *domain.Answers) *[]string { return &a.Languages }), "ar", "en", "fr"))
	}
	return step("content", fields...)
}

func functionalitiesStep() *Step {
	return step("functionalities",
		set("features", top(func(a *domain.Answers) *[]string { return &a.Features }), featureOptions...),
		set("integrations", top(func(a *domain.Answers) *[]string { return &a.Integrations }), integrationOptions...),
	)
}

func hostingStep() *Step {
	return step("hosting_domain",
		choice("hasDomain", top(func(a *domain.Answers) *string { return &a.HasDomain }), yesNo...),
		text("domainName", top(func(a *domain.Answers) *string { return &a.DomainName })),
		choice("needsHosting", top(func(a *domain.Answers) *string { return &a.NeedsHosting }), yesNo...),
	)
}

func designStep() *Step {
	return step("design",
		choice("template", top(func(a *domain.Answers) *string { return &a.Template }), templateOptions...),
		text("styleDirection", top(func(a *domain.Answers) *string { return &a.StyleDirection })),
		text("pages", top(func(a *domain.Answers) *string { return &a.Pages })),
	)
}

func timelineStep() *Step {
	return step("timeline",
		text("startDate", top(func(a *domain.Answers) *string { return &a.StartDate })),
		choice("expectedDelivery", top(func(a *domain.Answers) *string { return &a.ExpectedDelivery }), deliveryOptions...),
	)
}

func contactFields() []*Field {
	return []*Field{
		text("contactName", top(func(a *domain.Answers) *string { return &a.ContactName })),
		text("contactEmail", top(func(a *domain.Answers) *string { return &a.ContactEmail })),
		text("contactPhone", top(func(a *domain.Answers) *string { return &a.ContactPhone })),
		choice("preferredContact", top(func(a *domain.Answers) *string { return &a.PreferredContact }), contactOptions...),
	}
}
