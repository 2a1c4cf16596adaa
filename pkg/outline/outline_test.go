package outline

import (
	"strings"
	"testing"
)

func TestParseDropsNonHeadingLines(t *testing.T) {
	text := "# Intro\nsome prose\n\n## Background\n- bullet\n### Detail"
	nodes := Parse(text)
	if len(nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(nodes))
	}
	want := []struct {
		level int
		text  string
	}{
		{1, "Intro"},
		{2, "Background"},
		{3, "Detail"},
	}
	for i, w := range want {
		if nodes[i].Level != w.level || nodes[i].Text != w.text {
			t.Errorf("nodes[%d] = (%d, %q), want (%d, %q)", i, nodes[i].Level, nodes[i].Text, w.level, w.text)
		}
	}
}

func TestHierarchicalNumbering(t *testing.T) {
	d := Load("# A\n# B\n## B1\n# C\n## C1\n## C2")
	want := []string{"1", "2", "2.1", "3", "3.1", "3.2"}
	nodes := d.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("len(nodes) = %d, want %d", len(nodes), len(want))
	}
	for i, w := range want {
		if nodes[i].Number != w {
			t.Errorf("nodes[%d].Number = %q, want %q", i, nodes[i].Number, w)
		}
	}
}

func TestNumberingResetsDeeperCounters(t *testing.T) {
	d := Load("# A\n## A1\n### A1a\n## A2\n### A2a")
	want := []string{"1", "1.1", "1.1.1", "1.2", "1.2.1"}
	for i, n := range d.Nodes() {
		if n.Number != want[i] {
			t.Errorf("nodes[%d].Number = %q, want %q", i, n.Number, want[i])
		}
	}
}

func TestNumberingClampsSkippedLevels(t *testing.T) {
	// H1 straight to H3: the deep heading numbers as a direct child, no
	// zero segments like 1.0.1.
	d := Load("# A\n### A-deep\n# B\n## B1")
	want := []string{"1", "1.1", "2", "2.1"}
	for i, n := range d.Nodes() {
		if n.Number != want[i] {
			t.Errorf("nodes[%d].Number = %q, want %q", i, n.Number, want[i])
		}
	}
	// Parsed levels survive clamping and round-trip through Serialize.
	if got := d.Nodes()[1].Level; got != 3 {
		t.Errorf("nodes[1].Level = %d, want the parsed level kept", got)
	}
}

func TestHasChildren(t *testing.T) {
	d := Load("# A\n## A1\n## A2\n# B\n# C\n### C-deep")
	want := []bool{true, false, false, false, true, false}
	for i, n := range d.Nodes() {
		if n.HasChildren != want[i] {
			t.Errorf("nodes[%d].HasChildren = %v, want %v", i, n.HasChildren, want[i])
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	d := Load("# A\n## A1\n# B")
	d.Add("B1", 2)
	if err := d.Edit(0, "Alpha", 1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := d.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	serialized := d.Serialize()
	reparsed := Parse(serialized)
	nodes := d.Nodes()
	if len(reparsed) != len(nodes) {
		t.Fatalf("reparsed %d nodes, want %d", len(reparsed), len(nodes))
	}
	for i := range nodes {
		if reparsed[i].Level != nodes[i].Level || reparsed[i].Text != nodes[i].Text {
			t.Errorf("round trip node %d = (%d, %q), want (%d, %q)",
				i, reparsed[i].Level, reparsed[i].Text, nodes[i].Level, nodes[i].Text)
		}
	}
}

func TestMoveReordersAndRenumbers(t *testing.T) {
	d := Load("# A\n# B\n# C")
	if err := d.Move(2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got := d.Serialize()
	if got != "# C\n# A\n# B" {
		t.Errorf("Serialize() = %q, want %q", got, "# C\n# A\n# B")
	}
	nodes := d.Nodes()
	for i, wantNum := range []string{"1", "2", "3"} {
		if nodes[i].Number != wantNum {
			t.Errorf("nodes[%d].Number = %q, want %q", i, nodes[i].Number, wantNum)
		}
	}
}

func TestMutationIndexBounds(t *testing.T) {
	d := Load("# A")
	if err := d.Edit(5, "x", 1); err == nil {
		t.Error("Edit out of range should error")
	}
	if err := d.Delete(-1); err == nil {
		t.Error("Delete out of range should error")
	}
	if err := d.Move(0, 3); err == nil {
		t.Error("Move out of range should error")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d after failed mutations, want 1", d.Len())
	}
}

func TestSerializeUsesHeadingMarkers(t *testing.T) {
	d := NewDocument([]Node{{Level: 3, Text: "Deep"}})
	got := d.Serialize()
	if !strings.HasPrefix(got, "### ") {
		t.Errorf("Serialize() = %q, want ### prefix", got)
	}
}
