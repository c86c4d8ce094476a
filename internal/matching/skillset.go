package matching

import "strings"

// SkillSet is a deduplicated set of normalized skill tokens. Tokens are
// lower-cased and trimmed; empty tokens are never stored. First-occurrence
// order is preserved so traversal stays deterministic.
type SkillSet struct {
	tokens []string
	index  map[string]struct{}
}

// NewSkillSet builds a SkillSet from a free-text comma-separated field.
func NewSkillSet(raw string) *SkillSet {
	s := &SkillSet{index: make(map[string]struct{})}
	for _, token := range strings.Split(raw, ",") {
		s.add(token)
	}
	return s
}

// NewSkillSetFromTokens builds a SkillSet from an already tokenized sequence.
// Every token goes through the same normalization as the comma-separated form.
func NewSkillSetFromTokens(tokens []string) *SkillSet {
	s := &SkillSet{index: make(map[string]struct{})}
	for _, token := range tokens {
		s.add(token)
	}
	return s
}

func (s *SkillSet) add(token string) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}
	if _, ok := s.index[token]; ok {
		return
	}
	s.index[token] = struct{}{}
	s.tokens = append(s.tokens, token)
}

func (s *SkillSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tokens)
}

// Contains reports whether the set holds the token. The argument is
// normalized before lookup.
func (s *SkillSet) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// Tokens returns the tokens in first-occurrence order.
func (s *SkillSet) Tokens() []string {
	if s == nil {
		return nil
	}
	tokens := make([]string, len(s.tokens))
	copy(tokens, s.tokens)
	return tokens
}
