package whitelist

import (
	"testing"

	"github.com/Feandil/netlog/internal/event"
)

func TestStoreAddRemove(t *testing.T) {
	s := NewStore(nil)
	if err := s.AddText("/usr/bin/curl|<443>"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddText("/usr/bin/wget"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	// duplicate is a no-op
	if err := s.AddText("/usr/bin/curl|<443>"); err != nil {
		t.Fatalf("add dup: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len after dup = %d, want 2", s.Len())
	}

	got := s.List()
	want := []string{"/usr/bin/curl|<443>", "/usr/bin/wget"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("list = %v, want %v", got, want)
	}

	if !s.Remove("/usr/bin/wget") {
		t.Fatalf("remove failed")
	}
	if s.Remove("/usr/bin/wget") {
		t.Fatalf("second remove should report nothing removed")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestStoreAddTextRejectsBadRule(t *testing.T) {
	s := NewStore(nil)
	if err := s.AddText("not-absolute"); err == nil {
		t.Fatalf("expected parse error")
	}
	if s.Len() != 0 {
		t.Fatalf("bad rule stored")
	}
}

func TestStoreReplaceAtomic(t *testing.T) {
	s := NewStore(nil)
	if err := s.AddText("/usr/bin/curl"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// one bad entry rejects the whole batch
	err := s.Replace([]string{"/usr/bin/a", "garbage", "/usr/bin/b"})
	if err == nil {
		t.Fatalf("expected replace error")
	}
	if got := s.List(); len(got) != 1 || got[0] != "/usr/bin/curl" {
		t.Fatalf("failed replace modified the set: %v", got)
	}

	if err := s.Replace([]string{"/usr/bin/a", "/usr/bin/b"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := s.List(); len(got) != 2 || got[0] != "/usr/bin/a" {
		t.Fatalf("list = %v", got)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("clear left %d rules", s.Len())
	}
}

func TestStoreShouldSuppress(t *testing.T) {
	s := NewStore(nil)
	if err := s.AddText("/usr/bin/curl|<443>"); err != nil {
		t.Fatalf("add: %v", err)
	}

	hit := matchEvent("/usr/bin/curl", "1.2.3.4", 443)
	miss := matchEvent("/usr/bin/curl", "1.2.3.4", 80)
	if !s.ShouldSuppress(&hit) {
		t.Fatalf("matching event not suppressed")
	}
	if s.ShouldSuppress(&miss) {
		t.Fatalf("non-matching event suppressed")
	}
}

func TestStoreCEL(t *testing.T) {
	s := NewStore(nil)
	if err := s.SetCEL(`uid == 0 && action == "connect"`); err != nil {
		t.Fatalf("set cel: %v", err)
	}
	if s.CELExpr() == "" {
		t.Fatalf("cel expression not recorded")
	}

	root := matchEvent("/usr/bin/ssh", "1.2.3.4", 22)
	root.UID = 0
	user := matchEvent("/usr/bin/ssh", "1.2.3.4", 22)
	user.UID = 1000

	if !s.ShouldSuppress(&root) {
		t.Fatalf("cel match not suppressed")
	}
	if s.ShouldSuppress(&user) {
		t.Fatalf("cel miss suppressed")
	}

	// clearing text rules keeps the cel program
	s.Clear()
	if !s.ShouldSuppress(&root) {
		t.Fatalf("cel dropped by Clear")
	}

	// empty expression removes it
	if err := s.SetCEL(""); err != nil {
		t.Fatalf("clear cel: %v", err)
	}
	if s.ShouldSuppress(&root) {
		t.Fatalf("disabled cel still suppressing")
	}
}

func TestStoreCELCompileErrorKeepsOld(t *testing.T) {
	s := NewStore(nil)
	if err := s.SetCEL(`uid == 0`); err != nil {
		t.Fatalf("set cel: %v", err)
	}
	if err := s.SetCEL(`uid == `); err == nil {
		t.Fatalf("expected compile error")
	}
	ev := matchEvent("/usr/bin/ssh", "1.2.3.4", 22)
	ev.UID = 0
	if !s.ShouldSuppress(&ev) {
		t.Fatalf("previous cel program lost after failed compile")
	}
}

func TestStoreTextOrCEL(t *testing.T) {
	s := NewStore(nil)
	if err := s.AddText("/usr/bin/curl"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.SetCEL(`dport == 22`); err != nil {
		t.Fatalf("set cel: %v", err)
	}

	byText := matchEvent("/usr/bin/curl", "1.2.3.4", 80)
	byCEL := matchEvent("/usr/bin/ssh", "1.2.3.4", 22)
	neither := matchEvent("/usr/bin/wget", "1.2.3.4", 80)

	if !s.ShouldSuppress(&byText) || !s.ShouldSuppress(&byCEL) {
		t.Fatalf("text OR cel must both suppress")
	}
	if s.ShouldSuppress(&neither) {
		t.Fatalf("unmatched event suppressed")
	}

	ev := event.Event{Path: "/usr/bin/curl"}
	if !s.ShouldSuppress(&ev) {
		t.Fatalf("path-only rule must match destination-less event")
	}
}
