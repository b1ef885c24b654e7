package gitlog

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

const mergeMessage = `    Merge branch 'topic'

    commit abc
    Author: Bob <bob@example.com>
    Date:   Tue Jan 3 10:00:00 2006 -0700

        fix(api): correct status code

    commit def
    Author: Carol <carol@example.com>
    Date:   Wed Jan 4 10:00:00 2006 -0700

        feat(ui): add button

        Adds the button to the toolbar.`

func TestNormalize_EmbeddedCommits(t *testing.T) {
	logger, buf := captureLogger()
	n := NewNormalizer(logger)

	in := []CommitRecord{{CommitID: "999", Author: "Alice", Date: "d", Message: mergeMessage}}
	got := n.Normalize(in)

	if len(got) != 2 {
		t.Fatalf("records = %d, expected 2: %#v", len(got), got)
	}
	want := []CommitRecord{
		{CommitID: "abc", Author: "Bob <bob@example.com>", Date: "Tue Jan 3 10:00:00 2006 -0700",
			Message: "    fix(api): correct status code"},
		{CommitID: "def", Author: "Carol <carol@example.com>", Date: "Wed Jan 4 10:00:00 2006 -0700",
			Message: "    feat(ui): add button\n\n    Adds the button to the toolbar."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize =\n%#v\nexpected\n%#v", got, want)
	}
	if !strings.Contains(buf.String(), "dropping text before embedded commits") {
		t.Errorf("expected info log about the dropped merge subject, got %q", buf.String())
	}
}

func TestNormalize_InconsistentIndentKeepsOriginal(t *testing.T) {
	logger, buf := captureLogger()
	n := NewNormalizer(logger)

	msg := `    Squashed work

    commit abc
    Author: Bob <bob@example.com>
    Date:   Tue Jan 3 10:00:00 2006 -0700

        Correct the status code
  stray line with the wrong indent`

	in := []CommitRecord{{CommitID: "999", Author: "Alice", Date: "d", Message: msg}}
	got := n.Normalize(in)

	if !reflect.DeepEqual(got, in) {
		t.Errorf("Normalize = %#v, expected the original record", got)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestNormalize_ZeroIndentEmbeddedCommit(t *testing.T) {
	msg := "commit abc\nAuthor: Bob\nDate:   today\n\n    fix(x): y"
	got := NewNormalizer(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		Normalize([]CommitRecord{{CommitID: "1", Message: msg}})

	if len(got) != 1 || got[0].CommitID != "abc" || got[0].Message != "    fix(x): y" {
		t.Errorf("Normalize = %#v", got)
	}
}

func TestNormalize_NestedMerges(t *testing.T) {
	inner := FormatLog([]CommitRecord{
		{CommitID: "aaa", Author: "A", Date: "d1", Message: "fix(a): one"},
		{CommitID: "bbb", Author: "B", Date: "d2", Message: "feat(b): two"},
	})
	middle := FormatLog([]CommitRecord{
		{CommitID: "ccc", Author: "C", Date: "d3", Message: "Merge topic\n\n" + strings.TrimRight(inner, "\n")},
	})
	outer := "    Merge release\n\n" + Indent(strings.TrimRight(middle, "\n"), "    ")

	got := Normalize([]CommitRecord{{CommitID: "ddd", Message: outer}})

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.CommitID
	}
	if !reflect.DeepEqual(ids, []string{"aaa", "bbb"}) {
		t.Errorf("ids = %v, expected [aaa bbb]", ids)
	}
}

func TestNormalize_DepthGuard(t *testing.T) {
	inner := FormatLog([]CommitRecord{{CommitID: "aaa", Author: "A", Date: "d1", Message: "Nested body"}})
	middle := strings.TrimRight(FormatLog([]CommitRecord{
		{CommitID: "bbb", Author: "B", Date: "d2", Message: strings.TrimRight(inner, "\n")},
	}), "\n")

	n := &Normalizer{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), MaxDepth: 1}
	got := n.Normalize([]CommitRecord{{CommitID: "ccc", Message: Indent(middle, "    ")}})

	if len(got) != 1 || got[0].CommitID != "bbb" {
		t.Fatalf("Normalize = %#v, expected only the first level unpacked", got)
	}
	if !strings.Contains(got[0].Message, "commit aaa") {
		t.Errorf("expected nested commit left in message, got %q", got[0].Message)
	}
}

func TestNormalize_EmbeddedSummaries(t *testing.T) {
	msg := "    feat(api): add endpoint\n    fix(db): close rows\n\n    More detail on the fix."
	got := Normalize([]CommitRecord{{CommitID: "abc", Author: "A", Date: "D", Message: msg}})

	want := []CommitRecord{
		{CommitID: "abc", Author: "A", Date: "D", Message: "    feat(api): add endpoint"},
		{CommitID: "abc", Author: "A", Date: "D", Message: "    fix(db): close rows\n\n    More detail on the fix."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize =\n%#v\nexpected\n%#v", got, want)
	}
}

func TestNormalize_LeadingTextBecomesBlock(t *testing.T) {
	msg := "    Release prep\n\n    * fix(a): b\n    * feat(c): d"
	got := Normalize([]CommitRecord{{CommitID: "abc", Message: msg}})

	want := []string{"    Release prep", "    * fix(a): b", "    * feat(c): d"}
	if !reflect.DeepEqual(Messages(got), want) {
		t.Errorf("messages = %q, expected %q", Messages(got), want)
	}
	for _, r := range got {
		if r.CommitID != "abc" {
			t.Errorf("CommitID = %q, expected abc", r.CommitID)
		}
	}
}

func TestNormalize_SummaryMatcherIsLowercaseOnly(t *testing.T) {
	msg := "    Feat(api): not a summary\n    fix(db): a summary"
	got := Normalize([]CommitRecord{{CommitID: "abc", Message: msg}})

	want := []string{"    Feat(api): not a summary", "    fix(db): a summary"}
	if !reflect.DeepEqual(Messages(got), want) {
		t.Errorf("messages = %q, expected %q", Messages(got), want)
	}
}

func TestNormalize_AtomicRecordsUnchanged(t *testing.T) {
	in := []CommitRecord{
		{CommitID: "a", Author: "A", Date: "D", Message: "    fix(core): handle nil\n\n    Body text."},
		{CommitID: "b", Author: "B", Date: "D", Message: "    Plain message without summary"},
		{CommitID: "c", Author: "C", Date: "D", Message: ""},
	}
	once := Normalize(in)
	if !reflect.DeepEqual(once, in) {
		t.Errorf("Normalize changed atomic records: %#v", once)
	}
	if twice := Normalize(once); !reflect.DeepEqual(twice, once) {
		t.Errorf("Normalize is not idempotent: %#v", twice)
	}
}
