package entity

import (
	"regexp"
	"sort"
	"strings"
)

// Entities is the bag of candidate tokens pulled out of a text. Every list is
// in order of first occurrence. Emails, phones, dates and times keep repeats;
// people, organizations and locations are deduplicated.
type Entities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
	Dates         []string `json:"dates"`
	Times         []string `json:"times"`
	Emails        []string `json:"emails"`
	Phones        []string `json:"phones"`
}

var (
	EmailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	PhoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\b\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	dateRe = regexp.MustCompile(`(?i)\b(?:today|tonight|tomorrow|yesterday|` +
		`next (?:week|month|year|monday|tuesday|wednesday|thursday|friday|saturday|sunday)|` +
		`monday|tuesday|wednesday|thursday|friday|saturday|sunday|` +
		`(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.? \d{1,2}(?:st|nd|rd|th)?|` +
		`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`)
	timeRe = regexp.MustCompile(`(?i)\b\d{1,2}(?::[0-5]\d)?\s*(?:am|pm)\b|\b(?:[01]?\d|2[0-3]):[0-5]\d\b|\b(?:noon|midnight)\b`)

	namePairRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	nameCueRe  = regexp.MustCompile(`\b(?i:with|to|call|email|from|ask|tell|contact|meet|ping|text|cc)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)

	orgRe = regexp.MustCompile(`\b(?:[A-Z][A-Za-z0-9&]*\s+)+(?:Inc|Corp|Corporation|LLC|Ltd|Company|Co|Group|Labs|Technologies|Partners)\b\.?`)

	locationCueRe = regexp.MustCompile(`\b(?i:in|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	roomRe        = regexp.MustCompile(`\b(?i:room|office|building|floor)\s+[A-Z0-9][A-Za-z0-9-]*\b`)
)

var orgSuffixes = map[string]bool{
	"Inc": true, "Corp": true, "Corporation": true, "LLC": true, "Ltd": true, "Company": true,
	"Co": true, "Group": true, "Labs": true, "Technologies": true, "Partners": true,
}

var placeNouns = map[string]bool{"Room": true, "Office": true, "Building": true, "Floor": true}

var calendarWords = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	"January", "February", "March", "April", "May", "June", "July", "August",
	"September", "October", "November", "December",
	"Today", "Tomorrow", "Tonight", "Next", "Noon", "Midnight",
}

var leadingWords = []string{
	"I", "We", "You", "They", "He", "She", "It", "The", "This", "That", "These", "Our", "My",
	"Let", "Please", "Hey", "Hi", "Hello", "Thanks", "Also", "And", "But", "Then", "So",
	"Call", "Email", "Send", "Schedule", "Remind", "Meet", "Ask", "Tell", "Contact", "Ping",
	"Text", "Follow", "Remember", "Need", "Team", "Meeting",
}

// Extractor pulls people, organizations, locations, dates, times, emails and
// phone numbers out of free text. It holds no per-call state.
type Extractor struct {
	stopwords map[string]bool
}

func New() *Extractor {
	stop := make(map[string]bool, len(calendarWords)+len(leadingWords))
	for _, w := range calendarWords {
		stop[w] = true
	}
	for _, w := range leadingWords {
		stop[w] = true
	}
	return &Extractor{stopwords: stop}
}

// Extract never fails; kinds with no match come back as empty lists.
func (e *Extractor) Extract(text string) Entities {
	orgs := dedupe(e.organizations(text))
	locations := dedupe(e.locations(text))

	known := make(map[string]bool, len(orgs)+len(locations))
	for _, v := range orgs {
		known[v] = true
	}
	for _, v := range locations {
		known[v] = true
	}

	var people []string
	for _, p := range dedupe(e.people(text)) {
		if !known[p] {
			people = append(people, p)
		}
	}

	return Entities{
		People:        nonNil(people),
		Organizations: orgs,
		Locations:     locations,
		Dates:         findAll(dateRe, text),
		Times:         findAll(timeRe, text),
		Emails:        findAll(EmailRe, text),
		Phones:        findAll(PhoneRe, text),
	}
}

// candidate is a match with its offset so several patterns can be merged
// back into text order.
type candidate struct {
	pos   int
	value string
}

func (e *Extractor) people(text string) []candidate {
	var out []candidate
	for _, loc := range namePairRe.FindAllStringIndex(text, -1) {
		if name := e.cleanName(text[loc[0]:loc[1]]); name != "" {
			out = append(out, candidate{loc[0], name})
		}
	}
	for _, loc := range nameCueRe.FindAllStringSubmatchIndex(text, -1) {
		if name := e.cleanName(text[loc[2]:loc[3]]); name != "" {
			out = append(out, candidate{loc[2], name})
		}
	}
	return out
}

// cleanName strips stop words from both ends of a capitalised run. Runs that
// name a company are rejected.
func (e *Extractor) cleanName(raw string) string {
	words := strings.Fields(raw)
	for _, w := range words {
		if orgSuffixes[w] {
			return ""
		}
	}
	for len(words) > 0 && e.stopwords[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && e.stopwords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func (e *Extractor) organizations(text string) []candidate {
	var out []candidate
	for _, loc := range orgRe.FindAllStringIndex(text, -1) {
		words := strings.Fields(strings.TrimSuffix(text[loc[0]:loc[1]], "."))
		start := loc[0]
		for len(words) > 1 && e.stopwords[words[0]] {
			start += strings.Index(text[start:], words[0]) + len(words[0])
			words = words[1:]
		}
		if len(words) < 2 {
			continue
		}
		out = append(out, candidate{start, strings.Join(words, " ")})
	}
	return out
}

func (e *Extractor) locations(text string) []candidate {
	var out []candidate
	for _, loc := range locationCueRe.FindAllStringSubmatchIndex(text, -1) {
		words := strings.Fields(text[loc[2]:loc[3]])
		if orgSuffixes[words[len(words)-1]] || e.stopwords[words[0]] || placeNouns[words[0]] {
			continue
		}
		out = append(out, candidate{loc[2], strings.Join(words, " ")})
	}
	for _, loc := range roomRe.FindAllStringIndex(text, -1) {
		out = append(out, candidate{loc[0], text[loc[0]:loc[1]]})
	}
	return out
}

// dedupe orders candidates by position and keeps the first of each value.
func dedupe(cands []candidate) []string {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })
	seen := make(map[string]bool, len(cands))
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		if seen[c.value] {
			continue
		}
		seen[c.value] = true
		out = append(out, c.value)
	}
	return out
}

func findAll(re *regexp.Regexp, text string) []string {
	return nonNil(re.FindAllString(text, -1))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
