package viewcount

import "strings"

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"googlebot", "bingbot", "yandex", "baidu", "duckduckbot",
	"facebookexternalhit", "twitterbot", "linkedinbot",
	"ahrefsbot", "semrushbot", "mj12bot", "dotbot",
	"gptbot", "chatgpt-user", "headless", "curl/", "wget/",
	"python-requests", "go-http-client",
}

// IsBot reports whether the User-Agent looks like a crawler or script.
// An empty User-Agent counts as a bot.
func IsBot(ua string) bool {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return true
	}
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

var botNames = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"gptbot", "GPTBot"},
	{"chatgpt-user", "ChatGPT-User"},
	{"slurp", "Yahoo Slurp"},
}

// BotName names the crawler behind ua for logging.
func BotName(ua string) string {
	ua = strings.ToLower(ua)
	for _, b := range botNames {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	if strings.TrimSpace(ua) == "" {
		return "Empty"
	}
	return "Other Bot"
}
