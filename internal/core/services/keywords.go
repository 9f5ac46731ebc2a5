package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Defaults for keyword extraction and expansion.
const (
	// DefaultKeywordTopN is how many base phrases are kept per dimension.
	DefaultKeywordTopN = 10

	// DefaultExpandPerTerm bounds LLM paraphrases per base term.
	DefaultExpandPerTerm = 10

	// keywordExpandTemperature keeps expansion near-deterministic.
	keywordExpandTemperature = 0.2
)

var marksPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*marks?\b`)

// stopwords is the filter applied to candidate phrase terms.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "e.g": true, "for": true, "from": true, "in": true,
	"is": true, "it": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "with": true,
	"will": true, "should": true, "must": true, "can": true, "which": true,
	"such": true, "these": true, "its": true, "into": true, "between": true,
}

// KeywordService derives the keyword phrases that position each
// rubric dimension in embedding space: lexical base phrases from the
// dimension description, optionally enlarged with LLM paraphrases.
type KeywordService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	perTerm int
}

// NewKeywordService creates the service. The LLM is optional; without
// it, expansion is skipped and base phrases are used as-is.
func NewKeywordService(llm driven.LLMService, prompts driven.PromptStore) *KeywordService {
	return &KeywordService{
		llm:     llm,
		prompts: prompts,
		perTerm: DefaultExpandPerTerm,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (k *KeywordService) SetPromptStore(store driven.PromptStore) {
	k.prompts = store
}

// ParseRubric turns cleaned rubric paragraphs into rubric dimensions.
// A paragraph of the form "N. name: ... description ..." becomes one
// dimension; a trailing "NN marks" token sets its maximum score.
// Paragraphs without a colon-separated title are skipped.
func ParseRubric(assignmentID int64, paragraphs []domain.Paragraph) *domain.Rubric {
	rubric := &domain.Rubric{AssignmentID: assignmentID}
	for _, p := range paragraphs {
		idx := strings.Index(p.Text, ":")
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(p.Text[:idx])
		desc := strings.TrimSpace(p.Text[idx+1:])
		if name == "" || desc == "" {
			continue
		}

		var maxScore float64
		if m := marksPattern.FindStringSubmatch(desc); m != nil {
			maxScore, _ = strconv.ParseFloat(m[1], 64)
		}

		rubric.Dimensions = append(rubric.Dimensions, domain.RubricDimension{
			ID:       name,
			Name:     name,
			MaxScore: maxScore,
		})
		// Description stays attached for phrase extraction below; the
		// ID doubles as the sheet's detail key.
		rubric.Dimensions[len(rubric.Dimensions)-1].Keywords = BasePhrases(desc, DefaultKeywordTopN)
	}
	return rubric
}

// BasePhrases extracts up to topN scored candidate phrases (1-3 word
// n-grams, stopword-filtered) from a dimension description. Scoring
// is term frequency summed over the phrase, discounted by phrase
// length so single strong terms still surface. Deterministic: equal
// scores resolve by first appearance.
func BasePhrases(text string, topN int) []string {
	words := tokenise(text)
	if len(words) == 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, w := range words {
		freq[w]++
	}

	type scored struct {
		phrase string
		score  float64
		pos    int
	}
	var candidates []scored
	seen := make(map[string]bool)

	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			phrase := strings.Join(words[i:i+n], " ")
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			score := 0.0
			for _, w := range words[i : i+n] {
				score += float64(freq[w])
			}
			candidates = append(candidates, scored{
				phrase: phrase,
				score:  score / float64(n+1),
				pos:    i,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})

	// Greedy diversity pass: drop phrases fully contained in an
	// already-kept phrase or containing one.
	var kept []string
	for _, c := range candidates {
		if len(kept) >= topN {
			break
		}
		redundant := false
		for _, k := range kept {
			if strings.Contains(k, c.phrase) || strings.Contains(c.phrase, k) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, c.phrase)
		}
	}
	return kept
}

func tokenise(text string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if len(w) < 3 || stopwords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// expandPayload is the structured answer the expansion prompt demands.
type expandPayload struct {
	Phrases []json.RawMessage `json:"phrases"`
}

// Expand enlarges a dimension's keyword set with LLM paraphrases. The
// model answers {"phrases": [...]} where entries may be strings or
// nested lists; both are flattened. The merged list preserves base
// order, appends new phrases in model order and drops duplicates. Any
// expansion failure falls back to the base phrases.
func (k *KeywordService) Expand(ctx context.Context, dimension string, base []string) []string {
	if k.llm == nil || len(base) == 0 {
		return base
	}

	prompt, err := k.buildPrompt(dimension, base)
	if err != nil {
		logger.Warn("Keyword expansion prompt failed for %s: %v", dimension, err)
		return base
	}

	answer, err := k.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature:  keywordExpandTemperature,
		JSONResponse: true,
	})
	if err != nil {
		logger.Warn("Keyword expansion failed for %s: %v", dimension, err)
		return base
	}

	var payload expandPayload
	if err := json.Unmarshal([]byte(answer), &payload); err != nil {
		logger.Warn("Keyword expansion returned malformed JSON for %s: %v", dimension, err)
		return base
	}

	flattened := flattenPhrases(payload.Phrases)
	return mergeKeywords(base, flattened)
}

// ExpandRubric expands every dimension of a rubric in place.
func (k *KeywordService) ExpandRubric(ctx context.Context, rubric *domain.Rubric) {
	for i := range rubric.Dimensions {
		dim := &rubric.Dimensions[i]
		dim.Keywords = k.Expand(ctx, dim.Name, dim.Keywords)
		logger.Debug("Dimension %s: %d keywords after expansion", dim.ID, len(dim.Keywords))
	}
}

func (k *KeywordService) buildPrompt(dimension string, base []string) (string, error) {
	template, err := k.prompts.Load(driven.PromptKeywordExpand)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	seeds, err := json.Marshal(map[string]any{
		"dimension":  dimension,
		"base_terms": base,
	})
	if err != nil {
		return "", fmt.Errorf("marshal seeds: %w", err)
	}
	return fmt.Sprintf(template, k.perTerm, string(seeds)), nil
}

// flattenPhrases accepts string entries and nested string lists,
// ignoring anything else the model invents.
func flattenPhrases(raw []json.RawMessage) []string {
	var out []string
	for _, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, s)
			continue
		}
		var list []string
		if err := json.Unmarshal(entry, &list); err == nil {
			out = append(out, list...)
		}
	}
	return out
}

// mergeKeywords concatenates base and expanded preserving order and
// dropping duplicates, first occurrence wins.
func mergeKeywords(base, expanded []string) []string {
	seen := make(map[string]bool, len(base)+len(expanded))
	merged := make([]string, 0, len(base)+len(expanded))
	for _, phrase := range append(append([]string{}, base...), expanded...) {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" || seen[phrase] {
			continue
		}
		seen[phrase] = true
		merged = append(merged, phrase)
	}
	return merged
}
