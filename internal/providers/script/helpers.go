package script

import (
	"encoding/json"
	"errors"
	"strings"
)

type modelScenePayload struct {
	Title      string `json:"title"`
	Narration  string `json:"narration"`
	VisualIdea string `json:"visual_idea"`
}

type modelScriptPayload struct {
	Hook     string              `json:"hook"`
	Scenes   []modelScenePayload `json:"scenes"`
	Closing  string              `json:"closing"`
	Keywords []string            `json:"keywords"`
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "how": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {}, "your": {},
}

// tokenize splits free text into lowercase keyword candidates, dropping
// punctuation and stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}

// topicSnippet returns up to the first eight words of the topic, which is the
// salience guarantee the hook must carry.
func topicSnippet(topic string) string {
	words := strings.Fields(strings.TrimSpace(topic))
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

// ensureHookMentions guards the topical-relevance invariant: a hook that
// carries no topic token gets the topic snippet prefixed.
func ensureHookMentions(topic, hook string) string {
	hook = strings.TrimSpace(hook)
	if hook == "" {
		return topicSnippet(topic)
	}
	lower := strings.ToLower(hook)
	for _, tok := range tokenize(topic) {
		if strings.Contains(lower, tok) {
			return hook
		}
	}
	return topicSnippet(topic) + ": " + hook
}

func normalizeKeywords(keywords []string, limit int, fallback ...string) []string {
	seen := make(map[string]struct{})
	var result []string
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		result = append(result, kw)
	}
	for _, kw := range keywords {
		add(kw)
	}
	if len(result) == 0 {
		for _, kw := range fallback {
			add(kw)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
