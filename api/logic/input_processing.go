/* input_processing.go
 * Contains the logic for processing user input: resolving team names typed by an admin and parsing multiple
 * choice answers typed by a participant
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"hackathon-engine/api/shared"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var questionKeyPattern = regexp.MustCompile(`^q[0-9]+$`)

// MatchTeam finds the team an admin meant when typing a team name.
// Preconditions: receives the name as typed and the teams to search
// Postconditions: returns the matched team, a NotFoundError if nothing matches, or a ValidationError if the name
// is ambiguous (several fuzzy matches and none of them exact)
func MatchTeam(name string, teams []shared.Team) (shared.Team, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return shared.Team{}, shared.ValidationError("team name is required")
	}

	// Convert team names to lowercase for better matching
	lookup := make(map[string]shared.Team, len(teams))
	var namesLower []string
	for _, t := range teams {
		lower := strings.ToLower(t.Name)
		lookup[lower] = t
		namesLower = append(namesLower, lower)
	}

	// An exact match always wins, even if it is also a substring of other names
	if t, ok := lookup[query]; ok {
		return t, nil
	}

	results := fuzzy.RankFind(query, namesLower)
	switch len(results) {
	case 0:
		return shared.Team{}, shared.NotFoundError(fmt.Sprintf("no team matches '%s'", name))
	case 1:
		return lookup[results[0].Target], nil
	default:
		var candidates []string
		for _, r := range results {
			candidates = append(candidates, fmt.Sprintf("'%s'", lookup[r.Target].Name))
		}
		return shared.Team{}, shared.ValidationError(fmt.Sprintf("'%s' matches several teams: %s", name, strings.Join(candidates, ", ")))
	}
}

// NormalizeAnswer puts a question key and an option into the form answer keys are stored in: trimmed, the key lower
// cased and the option upper cased
func NormalizeAnswer(question string, option string) (string, string) {
	return strings.ToLower(strings.TrimSpace(question)), strings.ToUpper(strings.TrimSpace(option))
}

// NormalizeAnswers applies NormalizeAnswer to an answers map submitted as a whole.
// Preconditions: receives the answers keyed by question
// Postconditions: returns the normalized answers with blank entries dropped, or a ValidationError if two entries
// name the same question once normalized
func NormalizeAnswers(answers map[string]string) (map[string]string, error) {
	normalized := make(map[string]string, len(answers))
	for question, option := range answers {
		question, option = NormalizeAnswer(question, option)
		if question == "" || option == "" {
			continue
		}
		if _, ok := normalized[question]; ok {
			return nil, shared.ValidationError(fmt.Sprintf("question '%s' is answered more than once", question))
		}
		normalized[question] = option
	}
	return normalized, nil
}

// ParseAnswers converts tokens such as "q1=A" or "Q2:b" into an answers map keyed by question.
// Preconditions: receives the answer tokens typed by the user
// Postconditions: returns the answers with keys lower cased and options upper cased, and a slice of the tokens
// that could not be parsed. A repeated question keeps the last answer given
func ParseAnswers(tokens []string) (map[string]string, []string) {
	answers := make(map[string]string)
	var invalid []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			key, value, ok = strings.Cut(token, ":")
		}
		key, value = NormalizeAnswer(key, value)
		if !ok || value == "" || !questionKeyPattern.MatchString(key) {
			invalid = append(invalid, token)
			continue
		}
		answers[key] = value
	}
	return answers, invalid
}

// ExtractCodeBlock splits a message into the text before the first ``` fence and the code inside the fence.
// A language hint on the opening fence (e.g. ```python) is dropped. If there is no fence the whole message is
// returned as text and code is empty
func ExtractCodeBlock(message string) (text string, code string) {
	start := strings.Index(message, "```")
	if start < 0 {
		return message, ""
	}
	text = message[:start]
	rest := message[start+3:]
	end := strings.Index(rest, "```")
	if end >= 0 {
		rest = rest[:end]
	}
	// Drop the language hint on the opening line
	if nl := strings.Index(rest, "\n"); nl >= 0 && !strings.ContainsAny(rest[:nl], " \t=(){};") {
		rest = rest[nl+1:]
	}
	return text, strings.TrimSpace(rest)
}
