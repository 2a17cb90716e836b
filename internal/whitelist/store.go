package whitelist

import (
	"fmt"
	"sync"

	"github.com/Feandil/netlog/internal/event"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// Store is the concurrent rule set consulted on the event submission path.
// Text rules and the optional CEL expression are independent: an event is
// suppressed when any text rule matches or the CEL program answers true.
type Store struct {
	mu     sync.RWMutex
	rules  []Rule
	cel    event.Filter
	logger logpkg.Logger
}

// NewStore returns an empty store.
func NewStore(logger logpkg.Logger) *Store {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	return &Store{logger: logger.WithComponent("whitelist")}
}

// Add inserts a rule unless an identical one is already present. Reports
// whether the set changed.
func (s *Store) Add(r Rule) bool {
	canon := r.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.rules {
		if have.String() == canon {
			return false
		}
	}
	s.rules = append(s.rules, r)
	s.logger.Info("rule added", logpkg.Str("rule", canon), logpkg.Int("rules", len(s.rules)))
	return true
}

// AddText parses and inserts one rule in text form.
func (s *Store) AddText(text string) error {
	r, err := ParseRule(text)
	if err != nil {
		return err
	}
	s.Add(r)
	return nil
}

// Remove deletes the rule whose canonical text form equals text. Reports
// whether a rule was removed.
func (s *Store) Remove(text string) bool {
	r, err := ParseRule(text)
	if err != nil {
		return false
	}
	canon := r.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.rules {
		if have.String() == canon {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			s.logger.Info("rule removed", logpkg.Str("rule", canon), logpkg.Int("rules", len(s.rules)))
			return true
		}
	}
	return false
}

// Replace parses every entry and swaps the whole rule set atomically.
// On any parse error the existing set is left untouched.
func (s *Store) Replace(texts []string) error {
	rules := make([]Rule, 0, len(texts))
	for _, t := range texts {
		r, err := ParseRule(t)
		if err != nil {
			return fmt.Errorf("whitelist: replace: %w", err)
		}
		rules = append(rules, r)
	}
	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
	s.logger.Info("rules replaced", logpkg.Int("rules", len(rules)))
	return nil
}

// Clear drops every text rule. The CEL expression is left alone.
func (s *Store) Clear() {
	s.mu.Lock()
	s.rules = nil
	s.mu.Unlock()
	s.logger.Info("rules cleared")
}

// List returns the canonical text form of every rule, in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.String()
	}
	return out
}

// Len returns the number of text rules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// SetCEL compiles and installs expr as the CEL suppression program. An
// empty expression removes it. Compile failures leave the previous program
// in place.
func (s *Store) SetCEL(expr string) error {
	f, err := event.NewFilter(expr)
	if err != nil {
		return fmt.Errorf("whitelist: cel: %w", err)
	}
	s.mu.Lock()
	s.cel = f
	s.mu.Unlock()
	if f.Enabled() {
		s.logger.Info("cel expression installed", logpkg.Str("expr", expr))
	}
	return nil
}

// CELExpr returns the installed CEL expression, "" when none.
func (s *Store) CELExpr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cel.Expr()
}

// ShouldSuppress reports whether ev matches any text rule or the CEL
// program. Called on the hot submission path; takes only a read lock.
func (s *Store) ShouldSuppress(ev *event.Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.rules {
		if s.rules[i].Match(ev) {
			return true
		}
	}
	return s.cel.Enabled() && s.cel.Eval(ev)
}
