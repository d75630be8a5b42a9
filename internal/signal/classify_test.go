package signal

import (
	"strings"
	"testing"

	"github.com/hallgrim/skald/internal/models"
)

func msg(author, content string) models.Message {
	return models.Message{Time: "10:00", Author: author, Content: content}
}

func TestClassify_DecisionTriggers(t *testing.T) {
	msgs := []models.Message{
		msg("alice", "We DECIDED to ship on Friday"),
		msg("bob", "Мы решили отложить релиз"),
		msg("carol", "plan: migrate the database first"),
		msg("dave", "✅ rollout complete"),
		msg("erin", "nothing to see here"),
	}
	set := Rules{}.Classify(msgs)
	if len(set.Decisions) != 4 {
		t.Fatalf("decisions = %d, want 4", len(set.Decisions))
	}
	// Order preserved, original casing kept.
	if set.Decisions[0].Author != "alice" || set.Decisions[0].Excerpt != "We DECIDED to ship on Friday" {
		t.Errorf("first decision = %+v", set.Decisions[0])
	}
	if set.Decisions[1].Author != "bob" {
		t.Errorf("second decision = %+v", set.Decisions[1])
	}
}

func TestClassify_CategoryIndependence(t *testing.T) {
	msgs := []models.Message{msg("alice", "todo: we decided to rewrite it")}
	set := Rules{}.Classify(msgs)
	if len(set.Decisions) != 1 || len(set.Actions) != 1 {
		t.Fatalf("decisions=%d actions=%d, want 1 and 1", len(set.Decisions), len(set.Actions))
	}
	if set.Decisions[0].Excerpt != set.Actions[0].Excerpt {
		t.Errorf("excerpts differ: %q vs %q", set.Decisions[0].Excerpt, set.Actions[0].Excerpt)
	}
}

func TestClassify_SubstringFalsePositiveAccepted(t *testing.T) {
	set := Rules{}.Classify([]models.Message{msg("bob", "that insight is actionable")})
	if len(set.Actions) != 1 {
		t.Errorf("actions = %d, want 1 (substring match, not tokenized)", len(set.Actions))
	}
}

func TestClassify_LinksPreserveOrder(t *testing.T) {
	msgs := []models.Message{
		msg("alice", "compare https://a.example/one and https://a.example/two"),
		msg("bob", "docs (http://b.example/three) are stale"),
	}
	set := Rules{}.Classify(msgs)
	want := []string{"https://a.example/one", "https://a.example/two", "http://b.example/three"}
	if len(set.Links) != len(want) {
		t.Fatalf("links = %d, want %d", len(set.Links), len(want))
	}
	for i, w := range want {
		if set.Links[i].URL != w {
			t.Errorf("link[%d] = %q, want %q", i, set.Links[i].URL, w)
		}
	}
	if set.Links[2].Author != "bob" {
		t.Errorf("link author = %q", set.Links[2].Author)
	}
}

func TestClassify_QuestionExcludesURLQueryString(t *testing.T) {
	msgs := []models.Message{
		msg("alice", "check https://x.com/search?q=1"),
		msg("bob", "does the deploy run tonight?"),
	}
	set := Rules{}.Classify(msgs)
	if len(set.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(set.Questions))
	}
	if set.Questions[0].Author != "bob" {
		t.Errorf("question author = %q, want bob", set.Questions[0].Author)
	}
}

func TestClassify_ExcerptLimits(t *testing.T) {
	long := strings.Repeat("x", 300) + " todo?"
	set := Rules{}.Classify([]models.Message{msg("alice", long)})
	if got := len([]rune(set.Actions[0].Excerpt)); got != 200 {
		t.Errorf("action excerpt runes = %d, want 200", got)
	}
	if got := len([]rune(set.Questions[0].Excerpt)); got != 150 {
		t.Errorf("question excerpt runes = %d, want 150", got)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	s := strings.Repeat("ж", 250)
	got := truncate(s, 200)
	if len([]rune(got)) != 200 {
		t.Errorf("rune len = %d, want 200", len([]rune(got)))
	}
	if !strings.HasPrefix(s, got) {
		t.Error("truncation split a rune")
	}
}
