package model

// Profile holds everything extracted from a single Linktree page plus
// the static copy the renderer substitutes into the page.
//
// A Profile is transient: every build recomputes it from the input HTML.
// Nothing here persists across runs except what the history database
// chooses to record from the BuildReport.
type Profile struct {
	// Username is the Linktree account name, without the leading "@".
	Username string `json:"username"`

	// AvatarURL is the CDN URL of the profile picture. The URL usually
	// carries a signed query token, so it must not be logged verbatim.
	AvatarURL string `json:"avatar_url"`

	// Tagline is static copy shown under the profile name.
	// It comes from configuration, never from the scraped payload.
	Tagline string `json:"tagline,omitempty"`

	// Location is static copy shown in the profile header.
	Location string `json:"location,omitempty"`

	// Role is static copy describing the profile owner.
	Role string `json:"role,omitempty"`

	// Links are the link cards in source order. Duplicates are allowed;
	// the source payload is the only authority on ordering.
	Links []Link `json:"links"`

	// SocialLinks are the social icon entries in source order.
	SocialLinks []SocialLink `json:"social_links,omitempty"`
}

// Link is one (label, URL) pair shown as a card on the generated page.
type Link struct {
	// Title is the visible label of the link card.
	Title string `json:"title"`

	// URL is the target the card points at.
	URL string `json:"url"`
}

// SocialLink is one entry of the social icon row.
type SocialLink struct {
	// Type identifies the platform as reported by the payload
	// (e.g. "INSTAGRAM", "YOUTUBE"). Rendered as a text label; we do
	// not ship platform icons.
	Type string `json:"type"`

	// URL is the profile URL on that platform.
	URL string `json:"url"`
}

// DisplayName returns the username prefixed with "@" for rendering.
func (p *Profile) DisplayName() string {
	return "@" + p.Username
}

// LinkCount returns the number of link cards.
func (p *Profile) LinkCount() int {
	return len(p.Links)
}
