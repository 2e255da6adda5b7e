package enums

import "fmt"

// AdPlatform represents the social network an ad is generated for.
type AdPlatform string

const (
	AdPlatformInstagram AdPlatform = "instagram"
	AdPlatformFacebook  AdPlatform = "facebook"
	AdPlatformTwitter   AdPlatform = "twitter"
	AdPlatformLinkedIn  AdPlatform = "linkedin"
	AdPlatformPinterest AdPlatform = "pinterest"
)

var validAdPlatforms = []AdPlatform{
	AdPlatformInstagram,
	AdPlatformFacebook,
	AdPlatformTwitter,
	AdPlatformLinkedIn,
	AdPlatformPinterest,
}

// DefaultAdPlatform is applied when a flow does not choose a platform.
const DefaultAdPlatform = AdPlatformInstagram

// String implements fmt.Stringer.
func (p AdPlatform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known AdPlatform.
func (p AdPlatform) IsValid() bool {
	for _, candidate := range validAdPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseAdPlatform converts raw input into an AdPlatform.
func ParseAdPlatform(value string) (AdPlatform, error) {
	for _, candidate := range validAdPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ad platform %q", value)
}
