package tasks

import (
	"context"
	"strings"

	"github.com/desertthunder/vidx/internal/shared"
	"github.com/sahilm/fuzzy"
)

// MaxSuggestions caps the number of titles returned by [Engine.Suggest].
const MaxSuggestions = 8

// Suggest returns title completions for query.
//
// Server suggestions come first, followed by fuzzy matches over cached titles when the cache implements
// [TitleSource]. Titles are de-duplicated case-insensitively. The server error is returned only when there is
// nothing to show at all.
func (e *Engine) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	seen := map[string]bool{}
	out := make([]string, 0, MaxSuggestions)
	add := func(title string) {
		key := shared.NormalizeTitle(title)
		if key == "" || seen[key] || len(out) >= MaxSuggestions {
			return
		}
		seen[key] = true
		out = append(out, title)
	}

	remote, serverErr := e.client.Videos.Suggestions(ctx, query).Unwrap()
	for _, title := range remote {
		add(title)
	}

	for _, title := range e.localMatches(query) {
		add(title)
	}

	if len(out) == 0 && serverErr != nil {
		return nil, serverErr
	}
	return out, nil
}

// localMatches fuzzy-matches query against cached titles, best match first.
func (e *Engine) localMatches(query string) []string {
	source, ok := e.cache.(TitleSource)
	if !ok {
		return nil
	}
	titles, err := source.CachedTitles()
	if err != nil || len(titles) == 0 {
		return nil
	}

	matches := fuzzy.Find(query, titles)
	out := make([]string, 0, min(len(matches), MaxSuggestions))
	for _, m := range matches {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
