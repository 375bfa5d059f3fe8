// Package tech maps skill slugs from portfolio data to display metadata.
package tech

import "strings"

// Tech describes how a technology is shown on the home page.
type Tech struct {
	Slug  string
	Title string
	// Color is a Catppuccin text class.
	Color string
	// Icon is the simple-icons name.
	Icon string
}

var table = map[string]Tech{}

var ordered = []Tech{
	{"javascript", "JavaScript", "text-ctp-yellow", "javascript"},
	{"typescript", "TypeScript", "text-ctp-blue", "typescript"},
	{"java", "Java", "text-ctp-red", "openjdk"},
	{"python", "Python", "text-ctp-yellow", "python"},
	{"kotlin", "Kotlin", "text-ctp-mauve", "kotlin"},
	{"cplusplus", "C++", "text-ctp-blue", "cplusplus"},
	{"php", "PHP", "text-ctp-mauve", "php"},
	{"go", "Go", "text-ctp-blue", "go"},
	{"c", "C", "text-ctp-blue", "c"},
	{"csharp", "C#", "text-ctp-mauve", "dotnet"},
	{"react", "React", "text-ctp-blue", "react"},
	{"nextjs", "Next.js", "text-ctp-text", "nextdotjs"},
	{"fastify", "Fastify", "text-ctp-green", "fastify"},
	{"express", "Express", "text-ctp-text", "express"},
	{"spring", "Spring", "text-ctp-green", "spring"},
	{"git", "Git", "text-ctp-peach", "git"},
	{"docker", "Docker", "text-ctp-blue", "docker"},
	{"linux", "Linux", "text-ctp-yellow", "linux"},
	{"nginx", "Nginx", "text-ctp-green", "nginx"},
	{"mongodb", "MongoDB", "text-ctp-green", "mongodb"},
	{"mysql", "MySQL", "text-ctp-blue", "mysql"},
	{"redis", "Redis", "text-ctp-red", "redis"},
	{"amazonaws", "AWS", "text-ctp-yellow", "amazonwebservices"},
	{"digitalocean", "DigitalOcean", "text-ctp-blue", "digitalocean"},
	{"oracle", "Oracle Cloud", "text-ctp-red", "oracle"},
	{"coolify", "Coolify", "text-ctp-mauve", "serverfault"},
	{"letsencrypt", "Let's Encrypt", "text-ctp-green", "letsencrypt"},
}

func init() {
	for _, t := range ordered {
		table[t.Slug] = t
	}
}

// Lookup returns the Tech registered under slug. Unknown slugs yield a
// plain entry titled with the slug itself and ok=false.
func Lookup(slug string) (Tech, bool) {
	key := strings.ToLower(strings.TrimSpace(slug))
	if t, ok := table[key]; ok {
		return t, true
	}
	return Tech{Slug: key, Title: strings.TrimSpace(slug), Color: "text-ctp-text"}, false
}

// All returns every known technology in display order.
func All() []Tech {
	return append([]Tech(nil), ordered...)
}

// Normalize rewrites technology labels for display.
func Normalize(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		if strings.EqualFold(strings.TrimSpace(l), "square api") {
			out[i] = "Square"
			continue
		}
		out[i] = l
	}
	return out
}
