package extract

import (
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"

	"github.com/watari-dev/linkmirror/internal/model"
)

// Key paths into the payload. The account object lives under the fixed
// path props.pageProps.account; everything below is relative to it.
const (
	accountPath = "props.pageProps.account"

	usernameKey    = "username"
	avatarKey      = "profilePictureUrl"
	linksKey       = "links"
	socialLinksKey = "socialLinks"

	linkTitleKey  = "title"
	linkURLKey    = "url"
	socialTypeKey = "type"
	socialURLKey  = "url"
)

// accountFromPayload walks the fixed key path into the payload and
// builds a Profile. This is the ONLY place that knows the payload
// schema; when Linktree changes it, this function is the one site to
// update.
//
// Strictness follows the external-contract rule: the path to the
// account object, the username, the avatar URL, and the link list are
// required and their absence is ErrUnexpectedSchema. socialLinks is
// absent on some profile variants, so it alone degrades to empty.
func accountFromPayload(payload string) (*model.Profile, []string, error) {
	if !gjson.Valid(payload) {
		return nil, nil, ErrMalformedPayload
	}

	account := gjson.Get(payload, accountPath)
	if !account.Exists() {
		return nil, nil, fmt.Errorf("%w: missing key path %q", ErrUnexpectedSchema, accountPath)
	}

	username := account.Get(usernameKey)
	if !username.Exists() {
		return nil, nil, fmt.Errorf("%w: missing key %q", ErrUnexpectedSchema, usernameKey)
	}

	avatar := account.Get(avatarKey)
	if !avatar.Exists() {
		return nil, nil, fmt.Errorf("%w: missing key %q", ErrUnexpectedSchema, avatarKey)
	}

	rawLinks := account.Get(linksKey)
	if !rawLinks.Exists() || !rawLinks.IsArray() {
		return nil, nil, fmt.Errorf("%w: missing key %q", ErrUnexpectedSchema, linksKey)
	}

	profile := &model.Profile{
		Username:  normalize(username.String()),
		AvatarURL: normalize(avatar.String()),
		Links:     make([]model.Link, 0, len(rawLinks.Array())),
	}

	// Source order is authoritative; duplicates stay as-is.
	var skipped []string
	for i, entry := range rawLinks.Array() {
		title := entry.Get(linkTitleKey).String()
		target := entry.Get(linkURLKey).String()
		if target == "" {
			// Header entries have a title but no URL.
			skipped = append(skipped, fmt.Sprintf("%s.%d", linksKey, i))
			continue
		}
		profile.Links = append(profile.Links, model.Link{
			Title: normalize(title),
			URL:   normalize(target),
		})
	}

	for _, entry := range account.Get(socialLinksKey).Array() {
		target := entry.Get(socialURLKey).String()
		if target == "" {
			continue
		}
		profile.SocialLinks = append(profile.SocialLinks, model.SocialLink{
			Type: normalize(entry.Get(socialTypeKey).String()),
			URL:  normalize(target),
		})
	}

	return profile, skipped, nil
}

// normalize NFC-normalizes an extracted string. Payloads can carry the
// same display name in different Unicode normal forms; normalizing here
// keeps the rendered output byte-identical for equal input.
func normalize(s string) string {
	return norm.NFC.String(s)
}
