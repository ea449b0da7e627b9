package document

import (
	"io"
	"strings"
	"testing"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

const manuscript = `<html><body>
<h1>Chapter One</h1>
<p>It was a dark and stormy night.</p>
<blockquote>A letter, creased from rereading.</blockquote>
<hr>
<p>Morning came slowly.</p>
</body></html>`

func TestParseHTMLBlocks(t *testing.T) {
	doc, err := ParseHTMLString(manuscript)
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	blocks := doc.Blocks()
	wantKinds := []Kind{KindHeading, KindParagraph, KindBlockquote, KindSceneBreak, KindParagraph}
	if len(blocks) != len(wantKinds) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(wantKinds))
	}
	for i, want := range wantKinds {
		if blocks[i].Kind != want {
			t.Errorf("block %d kind = %v, want %v", i, blocks[i].Kind, want)
		}
	}
	if blocks[0].Level != 1 {
		t.Errorf("h1 level = %d, want 1", blocks[0].Level)
	}
	if blocks[1].Text != "It was a dark and stormy night." {
		t.Errorf("paragraph text = %q", blocks[1].Text)
	}
}

func TestBlockOffsetsPartition(t *testing.T) {
	doc, err := ParseHTMLString(manuscript)
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	blocks := doc.Blocks()
	if blocks[0].StartOffset != 0 {
		t.Errorf("first block starts at %d, want 0", blocks[0].StartOffset)
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].StartOffset != blocks[i-1].EndOffset() {
			t.Errorf("gap between block %d and %d: %d != %d",
				i-1, i, blocks[i-1].EndOffset(), blocks[i].StartOffset)
		}
	}
	if last := blocks[len(blocks)-1]; last.EndOffset() != doc.Size() {
		t.Errorf("last block ends at %d, document size %d", last.EndOffset(), doc.Size())
	}
}

func TestOnChange(t *testing.T) {
	doc, err := ParseHTMLString("<p>one</p>")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	calls := 0
	remove := doc.OnChange(func() { calls++ })

	doc.AppendParagraph("two")
	if calls != 1 {
		t.Fatalf("listener calls = %d, want 1", calls)
	}

	remove()
	doc.AppendParagraph("three")
	if calls != 1 {
		t.Errorf("removed listener still called, calls = %d", calls)
	}
}

func TestAppendParagraphExtendsSize(t *testing.T) {
	doc, err := ParseHTMLString("<p>one</p>")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	before := doc.Size()
	doc.AppendParagraph("a longer second paragraph")
	if doc.Size() <= before {
		t.Errorf("size did not grow: %d -> %d", before, doc.Size())
	}

	blocks := doc.Blocks()
	last := blocks[len(blocks)-1]
	if last.Kind != KindParagraph || last.Text != "a longer second paragraph" {
		t.Errorf("unexpected appended block %+v", last)
	}
}

func TestSetBlockHeight(t *testing.T) {
	doc, err := ParseHTMLString("<p>one</p><p>two</p>")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	doc.SetBlockHeight(1, 120, 640)
	blocks := doc.Blocks()
	if !blocks[1].Measured || blocks[1].Height != 120 || blocks[1].RenderWidth != 640 {
		t.Errorf("block 1 = %+v, want measured 120px at 640", blocks[1])
	}
	if blocks[0].Measured {
		t.Error("block 0 should remain unmeasured")
	}

	// Out of range indexes are ignored.
	doc.SetBlockHeight(99, 10, 0)
}

func TestReplaceDiscardsHeights(t *testing.T) {
	doc, err := ParseHTMLString("<p>one</p>")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}
	doc.SetBlockHeight(0, 80, 0)

	notified := false
	doc.OnChange(func() { notified = true })

	if err := doc.Replace(stringsReader("<p>alpha</p><p>beta</p>")); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if !notified {
		t.Error("Replace must notify listeners")
	}
	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks after replace, want 2", len(blocks))
	}
	for i, b := range blocks {
		if b.Measured {
			t.Errorf("block %d kept a stale measurement", i)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	doc, err := ParseHTMLString("")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}
	if len(doc.Blocks()) != 0 || doc.Size() != 0 {
		t.Errorf("empty manuscript: %d blocks, size %d", len(doc.Blocks()), doc.Size())
	}
}

func TestCollapsesWhitespace(t *testing.T) {
	doc, err := ParseHTMLString("<p>spaced   out\n\ttext</p>")
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}
	if got := doc.Blocks()[0].Text; got != "spaced out text" {
		t.Errorf("text = %q, want collapsed whitespace", got)
	}
}
