package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/watari-dev/linkmirror/internal/model"
)

// PayloadScriptID is the id attribute of the script tag carrying the
// embedded Next.js page state.
const PayloadScriptID = "__NEXT_DATA__"

// Result holds the outcome of an extraction.
type Result struct {
	// Profile is the extracted profile.
	Profile *model.Profile

	// SkippedEntries names link entries that were dropped because they
	// carry no URL (Linktree renders those as section headers, not
	// links). Paths are relative to the account object, e.g. "links.2".
	SkippedEntries []string
}

// Extractor parses a saved or fetched Linktree page.
//
// We parse the document with golang.org/x/net/html rather than
// substring search: saved pages are routinely re-encoded or pretty-
// printed by browsers, and a DOM walk finds the payload script
// regardless of attribute order or whitespace.
type Extractor struct {
	// maxPayloadSize limits the payload script body size.
	maxPayloadSize int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxPayloadSize sets the maximum accepted payload size in bytes.
func WithMaxPayloadSize(size int64) Option {
	return func(e *Extractor) {
		e.maxPayloadSize = size
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxPayloadSize: 5 * 1024 * 1024, // 5MB, far above any real payload
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract reads an HTML document, locates the embedded payload, and
// returns the extracted profile.
//
// contentType may carry the Content-Type header of the response the
// document came from; pass "" for local files. It feeds charset
// detection so pages saved in legacy encodings still decode correctly.
func (e *Extractor) Extract(r io.Reader, contentType string) (*Result, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	payload, err := e.findPayload(decoded)
	if err != nil {
		return nil, err
	}

	profile, skipped, err := accountFromPayload(payload)
	if err != nil {
		return nil, err
	}

	return &Result{Profile: profile, SkippedEntries: skipped}, nil
}

// findPayload walks the DOM and returns the body of the payload script.
func (e *Extractor) findPayload(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var payload string
	var found bool

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" && getAttr(n, "id") == PayloadScriptID {
			found = true
			payload = textContent(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !found {
		return "", ErrPayloadNotFound
	}
	if int64(len(payload)) > e.maxPayloadSize {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrMalformedPayload, e.maxPayloadSize)
	}

	return strings.TrimSpace(payload), nil
}

// textContent concatenates the text children of a node.
// Script bodies normally have a single text child, but html.Parse may
// split very large bodies across nodes.
func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
