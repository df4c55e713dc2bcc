package dom

import (
	"strings"
	"testing"
)

func sample() *Node {
	root := NewElement("div",
		NewElement("span").SetID("label"),
		NewElement("div",
			NewElement("slot"),
		).SetID("frame"),
	).SetID("root")
	return root
}

func TestFindByID(t *testing.T) {
	root := sample()

	if got := root.FindByID("frame"); got == nil || got.Tag != "div" {
		t.Fatalf("FindByID(frame) = %v", got)
	}
	if got := root.FindByID("missing"); got != nil {
		t.Errorf("FindByID(missing) = %v, want nil", got)
	}
	if root.FindByID("label").Parent() != root {
		t.Error("label parent should be root")
	}
}

func TestAppendMovesNode(t *testing.T) {
	a := NewElement("div")
	b := NewElement("div")
	child := NewText("x")

	a.Append(child)
	b.Append(child)

	if len(a.Children) != 0 {
		t.Errorf("a still has %d children after move", len(a.Children))
	}
	if len(b.Children) != 1 || child.Parent() != b {
		t.Error("child was not moved to b")
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	root := sample()
	root.SetClass("open", true).SetStyle("color", "red").SetProperty("playing", true)

	c := root.Clone()
	if c.Parent() != nil {
		t.Error("clone should be detached")
	}
	c.SetClass("open", false)
	c.FindByID("label").SetAttr("role", "heading")

	if !root.HasClass("open") {
		t.Error("mutating clone changed original classes")
	}
	if _, ok := root.FindByID("label").Attr("role"); ok {
		t.Error("mutating clone child changed original child")
	}
	if c.FindByID("frame").Parent() != c {
		t.Error("cloned child parent not rewired")
	}
	if c.Properties["playing"] != true {
		t.Error("properties not cloned")
	}
}

func TestSubstitute(t *testing.T) {
	root := sample()
	frame := root.FindByID("frame")
	frame.SetAttr("role", "none")

	replacement := NewElement("section")
	if !Substitute(frame, replacement) {
		t.Fatal("Substitute returned false")
	}

	got := root.FindByID("frame")
	if got != replacement {
		t.Fatal("replacement did not take over the id")
	}
	if v, _ := got.Attr("role"); v != "none" {
		t.Errorf("role = %q, want carried over", v)
	}
	if len(got.Children) != 1 || got.Children[0].Tag != "slot" {
		t.Error("children were not moved into the replacement")
	}
	if Substitute(NewElement("orphan"), NewElement("x")) {
		t.Error("Substitute on detached node should fail")
	}
}

func TestReplaceChild(t *testing.T) {
	root := sample()
	label := root.FindByID("label")
	if root.ReplaceChild(NewElement("nope"), NewText("x")) {
		t.Error("ReplaceChild with non-child should fail")
	}
	if !root.ReplaceChild(label, NewText("x")) {
		t.Fatal("ReplaceChild failed")
	}
	if label.Parent() != nil {
		t.Error("old child should be detached")
	}
}

func TestHTML(t *testing.T) {
	n := NewElement("div",
		NewText("a < b"),
		NewElement("input").SetAttr("disabled", ""),
	).SetID("x")
	n.SetClass("b", true).SetClass("a", true).SetClass("off", false)
	n.SetStyle("top", "0").SetStyle("color", "red")
	n.SetAttr("title", `say "hi"`)

	got := n.HTML()
	want := `<div id="x" class="a b" style="color: red; top: 0" title="say &#34;hi&#34;">a &lt; b<input disabled></div>`
	if got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderHTMLPretty(t *testing.T) {
	var sb strings.Builder
	if err := RenderHTML(&sb, sample(), RenderConfig{Pretty: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "\n  <span id=\"label\"></span>") {
		t.Errorf("pretty output not indented:\n%s", sb.String())
	}
}

func TestTextContent(t *testing.T) {
	n := NewElement("p", NewText("Hello, "), NewElement("b", NewText("world")))
	if got := n.TextContent(); got != "Hello, world" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestKindString(t *testing.T) {
	if KindElement.String() != "Element" || KindText.String() != "Text" || Kind(9).String() != "Unknown" {
		t.Error("Kind.String mismatch")
	}
}

func TestSetChildrenFromAnotherParent(t *testing.T) {
	src := NewElement("template", NewText("a"), NewElement("b"), NewElement("c"))
	dst := NewElement("div")

	dst.SetChildren(src.Children)

	if len(dst.Children) != 3 {
		t.Fatalf("moved %d children, want 3", len(dst.Children))
	}
	if len(src.Children) != 0 {
		t.Errorf("source kept %d children", len(src.Children))
	}
	for _, c := range dst.Children {
		if c.Parent() != dst {
			t.Errorf("%v has wrong parent", c)
		}
	}
}
