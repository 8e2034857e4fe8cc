package rest

import (
	"net/http"
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/x-way/crawlerdetect"
)

// goodBots are crawlers allowed for SEO and link previews.
var goodBots = []string{
	"googlebot",
	"apis-google",
	"google-inspectiontool",
	"googleother",
	"bingbot",
	"msnbot",
	"slurp",
	"duckduckbot",
	"baiduspider",
	"yandexbot",
	"yandex",
	"facebot",
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"pinterestbot",
	"applebot",
}

// clientMarkers are HTTP libraries and headless browsers that crawler lists treat as generic
// clients rather than crawlers.
var clientMarkers = []string{
	"curl/",
	"wget",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"okhttp",
	"axios",
	"node-fetch",
	"libwww",
	"headlesschrome",
	"phantomjs",
}

// IsBot reports whether ua looks automated. An empty user agent counts as a bot.
func IsBot(ua string) bool {
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return true
	}
	if crawlerdetect.IsCrawler(ua) {
		return true
	}
	lower := strings.ToLower(ua)
	for _, m := range clientMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsGoodBot reports whether ua belongs to an allowed crawler.
func IsGoodBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, b := range goodBots {
		if strings.Contains(ua, b) {
			return true
		}
	}
	return false
}

// BotGuard rejects automated clients with 403 unless they are allow-listed crawlers.
func BotGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.UserAgent()
		if IsBot(ua) && !IsGoodBot(ua) {
			if len(ua) > 120 {
				ua = ua[:120]
			}
			contextkeys.LoggerFromContext(r.Context()).Warn("Blocked bot", port.Fields{
				"http_path":  r.URL.Path,
				"user_agent": ua,
			})
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
