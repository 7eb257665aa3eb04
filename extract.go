// SPDX-FileCopyrightText: 2025 M. Shulhan <ms@kilabit.info>
// SPDX-License-Identifier: GPL-3.0-only

package gooscan

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// denyDomains list the shortener's own infrastructure.
// A candidate destination that contains one of these is never a real
// redirect target, only a service or tracking resource on the warning page.
var denyDomains = []string{
	`google.com`, `goo.gl`, `googleapis.com`, `googleusercontent.com`,
	`gstatic.com`, `googletagmanager.com`, `googlesyndication.com`,
	`doubleclick.net`, `googlebots.com`,
}

// candidateDecoder normalize escaped separators before validation.
var candidateDecoder = strings.NewReplacer(
	`\u003d`, `=`,
	`\u0026`, `&`,
	`%3D`, `=`,
	`%26`, `&`,
)

var (
	reJsonRedirectUrl = regexp.MustCompile(`(?i)"redirect_url":"([^"]+)"`)
	reJsonUrl         = regexp.MustCompile(`(?i)"url":"([^"]+)"`)
	reJsonTarget      = regexp.MustCompile(`(?i)"target":"([^"]+)"`)

	reQueryRedirectUrl = regexp.MustCompile(`(?i)redirect_url=([^&\s'"]+)`)
	reQueryUrl         = regexp.MustCompile(`(?i)url=([^&\s'"]+)`)
	reQueryContinue    = regexp.MustCompile(`(?i)continue=([^&\s'"]+)`)

	reScriptLocationHref = regexp.MustCompile(`(?i)window\.location\.href\s*=\s*["']([^"']+)["']`)
	reScriptLocation     = regexp.MustCompile(`(?i)window\.location\s*=\s*["']([^"']+)["']`)
	reLocationHref       = regexp.MustCompile(`(?i)location\.href\s*=\s*["']([^"']+)["']`)

	reMetaRefreshContent = regexp.MustCompile(`(?i)^\s*\d+\s*;\s*url=(.+)$`)

	reBareUrl = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)
)

// warningPage hold the raw body of an interstitial page and its parsed
// document.
// The doc field is nil when the body could not be parsed; the regexp based
// strategies still work on the raw text.
type warningPage struct {
	doc  *goquery.Document
	body string
}

func newWarningPage(body string) (page *warningPage) {
	page = &warningPage{body: body}
	page.doc, _ = goquery.NewDocumentFromReader(strings.NewReader(body))
	return page
}

// extractStrategy return zero or more candidate destinations found on the
// page, in document order.
type extractStrategy func(page *warningPage) (candidates []string)

// extractStrategies are evaluated in order; the first candidate that passes
// validation wins.
// The structured strategies must run before the bare token fallback in
// [extractRedirect], because the fallback also picks up tracking and
// analytics URLs that happen to pass the domain filter.
var extractStrategies = []extractStrategy{
	matchAll(reJsonRedirectUrl),
	matchAll(reJsonUrl),
	matchAll(reJsonTarget),

	matchAll(reQueryRedirectUrl),
	matchAll(reQueryUrl),
	matchAll(reQueryContinue),

	extractContinueAnchor,

	matchAll(reScriptLocationHref),
	matchAll(reScriptLocation),
	matchAll(reLocationHref),

	extractMetaRefresh,
}

// matchAll wrap a regexp with one capture group into an extractStrategy.
func matchAll(re *regexp.Regexp) extractStrategy {
	return func(page *warningPage) (candidates []string) {
		var listMatch = re.FindAllStringSubmatch(page.body, -1)
		var match []string
		for _, match = range listMatch {
			candidates = append(candidates, match[1])
		}
		return candidates
	}
}

// extractContinueAnchor return the href of anchors that represent the
// "Continue" action on the warning page, either by their visible text or by
// a class name that contains "continue".
func extractContinueAnchor(page *warningPage) (candidates []string) {
	if page.doc == nil {
		return nil
	}
	page.doc.Find(`a[href]`).Each(func(_ int, sel *goquery.Selection) {
		var href, _ = sel.Attr(`href`)
		if !strings.HasPrefix(href, `http://`) &&
			!strings.HasPrefix(href, `https://`) {
			return
		}
		var text = strings.TrimSpace(sel.Text())
		var class, _ = sel.Attr(`class`)
		if strings.EqualFold(text, `Continue`) ||
			strings.Contains(strings.ToLower(class), `continue`) {
			candidates = append(candidates, href)
		}
	})
	return candidates
}

// extractMetaRefresh return the URL of a meta refresh directive, like
// `<meta http-equiv="refresh" content="0;url=...">`.
func extractMetaRefresh(page *warningPage) (candidates []string) {
	if page.doc == nil {
		return nil
	}
	page.doc.Find(`meta[content]`).Each(func(_ int, sel *goquery.Selection) {
		var httpEquiv, _ = sel.Attr(`http-equiv`)
		if !strings.EqualFold(httpEquiv, `refresh`) {
			return
		}
		var content, _ = sel.Attr(`content`)
		var match = reMetaRefreshContent.FindStringSubmatch(content)
		if match == nil {
			return
		}
		candidates = append(candidates, strings.Trim(match[1], `"' `))
	})
	return candidates
}

// extractRedirect recover the real destination URL from the interstitial
// warning page body.
// It apply the structured strategies first and fall back to scanning the
// whole body for any bare "http(s)://" token.
// It return an empty string when no candidate passes validation.
func extractRedirect(body string) (redirectUrl string) {
	var page = newWarningPage(body)

	var strategy extractStrategy
	for _, strategy = range extractStrategies {
		var candidate string
		for _, candidate = range strategy(page) {
			candidate = decodeCandidate(candidate)
			if isValidRedirect(candidate) {
				return candidate
			}
		}
	}

	var candidate string
	for _, candidate = range reBareUrl.FindAllString(body, -1) {
		candidate = html.UnescapeString(candidate)
		if isValidRedirect(candidate) {
			return candidate
		}
	}
	return ``
}

func decodeCandidate(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	candidate = candidateDecoder.Replace(candidate)
	return html.UnescapeString(candidate)
}

// isValidRedirect return true if the candidate looks like a real redirect
// destination: long enough, an absolute http(s) URL, and not pointing back
// into the shortener's own infrastructure.
func isValidRedirect(candidate string) bool {
	if len(candidate) < 10 {
		return false
	}
	if !strings.HasPrefix(candidate, `http://`) &&
		!strings.HasPrefix(candidate, `https://`) {
		return false
	}
	var lower = strings.ToLower(candidate)
	var domain string
	for _, domain = range denyDomains {
		if strings.Contains(lower, domain) {
			return false
		}
	}
	return true
}
