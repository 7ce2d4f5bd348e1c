package steps

import "github.com/aretw0/intake/pkg/domain"

func top[T any](get func(*domain.Answers) *T) ref[T] {
	return func(a *domain.Answers, _ bool) *T { return get(a) }
}

func variant[V, T any](pick func(*domain.ProjectDetails, bool) *V, get func(*V) *T) ref[T] {
	return func(a *domain.Answers, alloc bool) *T {
		v := pick(&a.ProjectDetails, alloc)
		if v == nil {
			return nil
		}
		return get(v)
	}
}

func portfolio(d *domain.ProjectDetails, alloc bool) *domain.PortfolioDetails {
	if alloc {
		return d.PortfolioOrNew()
	}
	return d.Portfolio
}

func ecommerce(d *domain.ProjectDetails, alloc bool) *domain.EcommerceDetails {
	if alloc {
		return d.EcommerceOrNew()
	}
	return d.Ecommerce
}

func education(d *domain.ProjectDetails, alloc bool) *domain.EducationDetails {
	if alloc {
		return d.EducationOrNew()
	}
	return d.Education
}

func company(d *domain.ProjectDetails, alloc bool) *domain.CompanyDetails {
	if alloc {
		return d.CompanyOrNew()
	}
	return d.Company
}

func blog(d *domain.ProjectDetails, alloc bool) *domain.BlogDetails {
	if alloc {
		return d.BlogOrNew()
	}
	return d.Blog
}

func saas(d *domain.ProjectDetails, alloc bool) *domain.SaaSDetails {
	if alloc {
		return d.SaaSOrNew()
	}
	return d.SaaS
}
