package config

import "strings"

// DefaultSiteTitle is shown in the header when SITE_TITLE is unset.
const DefaultSiteTitle = "MarketNest"

// SiteConfig holds storefront presentation settings.
type SiteConfig struct {
	Title string `env:"SITE_TITLE" envDefault:"MarketNest"`
}

// Sanitize trims the title and restores the default when it is blank.
func (s *SiteConfig) Sanitize() {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		s.Title = DefaultSiteTitle
	}
}
