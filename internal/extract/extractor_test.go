package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fixturePage wraps a payload JSON string in a minimal profile page.
func fixturePage(payload string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>ambertree | Linktree</title></head>
<body>
<div id="__next"></div>
<script id="__NEXT_DATA__" type="application/json">%s</script>
</body>
</html>`, payload)
}

// validPayload is a trimmed-down version of a real profile payload.
const validPayload = `{
  "props": {
    "pageProps": {
      "account": {
        "username": "ambertree",
        "profilePictureUrl": "https://cdn.example.com/ambertree.jpeg?Signature=abc",
        "links": [
          {"id": "1", "title": "My Shop", "url": "https://shop.example.com"},
          {"id": "2", "title": "New Album", "url": "https://music.example.com/album"},
          {"id": "3", "title": "My Shop", "url": "https://shop.example.com"}
        ],
        "socialLinks": [
          {"type": "INSTAGRAM", "url": "https://instagram.com/ambertree"},
          {"type": "YOUTUBE", "url": "https://youtube.com/@ambertree"}
        ]
      }
    }
  },
  "page": "/[profile]"
}`

// TestExtract tests extraction against a valid fixture page.
func TestExtract(t *testing.T) {
	t.Parallel()

	result, err := New().Extract(strings.NewReader(fixturePage(validPayload)), "")
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}

	profile := result.Profile
	if profile.Username != "ambertree" {
		t.Errorf("expected username ambertree, got %q", profile.Username)
	}
	if profile.AvatarURL != "https://cdn.example.com/ambertree.jpeg?Signature=abc" {
		t.Errorf("unexpected avatar URL %q", profile.AvatarURL)
	}

	// Source order and duplicates must be preserved.
	wantLinks := []struct{ title, url string }{
		{"My Shop", "https://shop.example.com"},
		{"New Album", "https://music.example.com/album"},
		{"My Shop", "https://shop.example.com"},
	}
	if len(profile.Links) != len(wantLinks) {
		t.Fatalf("expected %d links, got %d", len(wantLinks), len(profile.Links))
	}
	for i, want := range wantLinks {
		if profile.Links[i].Title != want.title || profile.Links[i].URL != want.url {
			t.Errorf("link %d: expected (%q, %q), got (%q, %q)",
				i, want.title, want.url, profile.Links[i].Title, profile.Links[i].URL)
		}
	}

	if len(profile.SocialLinks) != 2 {
		t.Fatalf("expected 2 social links, got %d", len(profile.SocialLinks))
	}
	if profile.SocialLinks[0].Type != "INSTAGRAM" {
		t.Errorf("unexpected first social link type %q", profile.SocialLinks[0].Type)
	}
}

// TestExtractMissingPayload tests the "marker not found" failure.
func TestExtractMissingPayload(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html><html><head><title>Not Linktree</title></head>
<body><script type="application/json">{"unrelated": true}</script></body></html>`

	_, err := New().Extract(strings.NewReader(html), "")
	if !errors.Is(err, ErrPayloadNotFound) {
		t.Errorf("expected ErrPayloadNotFound, got %v", err)
	}
}

// TestExtractMalformedPayload tests the JSON parse failure.
func TestExtractMalformedPayload(t *testing.T) {
	t.Parallel()

	_, err := New().Extract(strings.NewReader(fixturePage(`{"props": `)), "")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

// TestExtractUnexpectedSchema tests missing keys along the fixed path.
func TestExtractUnexpectedSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "missing account object",
			payload: `{"props": {"pageProps": {}}}`,
		},
		{
			name:    "missing username",
			payload: `{"props": {"pageProps": {"account": {"profilePictureUrl": "x", "links": []}}}}`,
		},
		{
			name:    "missing avatar URL",
			payload: `{"props": {"pageProps": {"account": {"username": "a", "links": []}}}}`,
		},
		{
			name:    "missing link list",
			payload: `{"props": {"pageProps": {"account": {"username": "a", "profilePictureUrl": "x"}}}}`,
		},
		{
			name:    "link list is not an array",
			payload: `{"props": {"pageProps": {"account": {"username": "a", "profilePictureUrl": "x", "links": 42}}}}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New().Extract(strings.NewReader(fixturePage(tt.payload)), "")
			if !errors.Is(err, ErrUnexpectedSchema) {
				t.Errorf("expected ErrUnexpectedSchema, got %v", err)
			}
		})
	}
}

// TestExtractSkipsHeaderEntries tests that link entries without a URL
// are skipped and reported rather than rendered as dead cards.
func TestExtractSkipsHeaderEntries(t *testing.T) {
	t.Parallel()

	payload := `{"props": {"pageProps": {"account": {
		"username": "ambertree",
		"profilePictureUrl": "https://cdn.example.com/a.jpeg",
		"links": [
			{"title": "Music", "url": ""},
			{"title": "New Album", "url": "https://music.example.com"}
		]
	}}}}`

	result, err := New().Extract(strings.NewReader(fixturePage(payload)), "")
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}

	if len(result.Profile.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(result.Profile.Links))
	}
	if len(result.SkippedEntries) != 1 || result.SkippedEntries[0] != "links.0" {
		t.Errorf("expected skipped entry links.0, got %v", result.SkippedEntries)
	}
}

// TestExtractZeroLinks tests that an empty link list is not an error.
func TestExtractZeroLinks(t *testing.T) {
	t.Parallel()

	payload := `{"props": {"pageProps": {"account": {
		"username": "ambertree",
		"profilePictureUrl": "https://cdn.example.com/a.jpeg",
		"links": []
	}}}}`

	result, err := New().Extract(strings.NewReader(fixturePage(payload)), "")
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}
	if len(result.Profile.Links) != 0 {
		t.Errorf("expected 0 links, got %d", len(result.Profile.Links))
	}
}

// TestExtractNormalizesUnicode tests NFC normalization of extracted
// strings. The same display name in NFD and NFC must extract equal.
func TestExtractNormalizesUnicode(t *testing.T) {
	t.Parallel()

	// "cafe" followed by a combining acute accent (NFD form of café).
	nfd := "cafe\u0301"
	payload := fmt.Sprintf(`{"props": {"pageProps": {"account": {
		"username": %q,
		"profilePictureUrl": "https://cdn.example.com/a.jpeg",
		"links": []
	}}}}`, nfd)

	result, err := New().Extract(strings.NewReader(fixturePage(payload)), "")
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}

	if result.Profile.Username != "café" {
		t.Errorf("expected NFC-normalized username, got %q", result.Profile.Username)
	}
}

// TestExtractAttributeOrder tests that the payload script is found
// regardless of attribute order in the tag.
func TestExtractAttributeOrder(t *testing.T) {
	t.Parallel()

	html := `<html><body><script type="application/json" id="__NEXT_DATA__">` +
		validPayload + `</script></body></html>`

	result, err := New().Extract(strings.NewReader(html), "")
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}
	if result.Profile.Username != "ambertree" {
		t.Errorf("unexpected username %q", result.Profile.Username)
	}
}

// TestExtractPayloadTooLarge tests the payload size limit.
func TestExtractPayloadTooLarge(t *testing.T) {
	t.Parallel()

	e := New(WithMaxPayloadSize(16))
	_, err := e.Extract(strings.NewReader(fixturePage(validPayload)), "")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload for oversized payload, got %v", err)
	}
}
