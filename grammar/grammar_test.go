package grammar

import (
	"testing"

	"github.com/invograph/invograph/invoke"
)

func extract(t *testing.T, src string) FileResult {
	t.Helper()
	return New(nil).ExtractSource([]byte(src), "test.m")
}

func singleInvocation(t *testing.T, src string) *invoke.Node {
	t.Helper()
	res := extract(t, src)
	if len(res.Invocations) != 1 {
		t.Fatalf("got %d invocations from %q, want 1", len(res.Invocations), src)
	}
	return res.Invocations[0].Node
}

func TestMessageSend(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[obj description]", "[obj description]"},
		{"[obj setValue:x forKey:k]", "[obj setValue: forKey:]"},
		{"[[Foo alloc] init]", "[[Foo alloc] init]"},
		{"[self.view addSubview:button]", "[self.view addSubview:]"},
		{"[obj setValue:[helper compute] forKey:k]", "[obj setValue: forKey:]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := singleInvocation(t, tt.input)
			if node.Style != invoke.StyleBracket {
				t.Error("message send must be bracket style")
			}
			if got := node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageSendNestedArgument(t *testing.T) {
	node := singleInvocation(t, "[obj setValue:[helper compute] forKey:k]")
	if len(node.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(node.Params))
	}
	nested := node.Params[0].Nested
	if len(nested) != 1 {
		t.Fatalf("got %d nested invocations in first arg, want 1", len(nested))
	}
	if got := nested[0].String(); got != "[helper compute]" {
		t.Errorf("nested = %q, want %q", got, "[helper compute]")
	}
}

func TestDotCall(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"obj.foo(x: 1, 2)", "obj.foo(x:, _:)"},
		{"print(message)", "print(_:)"},
		{"view.reload()", "view.reload()"},
		{"a.b(x: 1).c(y: 2)", "a.b(x:).c(y:)"},
		{"net.api.fetch(url: u)", "net.api.fetch(url:)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := singleInvocation(t, tt.input)
			if node.Style != invoke.StyleDotCall {
				t.Error("dot call must be dot-call style")
			}
			if got := node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDotCallChainTopInvoker(t *testing.T) {
	node := singleInvocation(t, "a.b(x: 1).c(y: 2)")
	if got := node.TopInvoker(); got != "a" {
		t.Errorf("TopInvoker() = %q, want %q", got, "a")
	}
	if node.Invoker.Kind != invoke.InvokerMethod {
		t.Error("chained call must wrap the previous call as its invoker")
	}
}

func TestDotCallNestedArgument(t *testing.T) {
	node := singleInvocation(t, "f(g(x), y: h(z))")
	if len(node.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(node.Params))
	}
	if node.Params[0].Name != "" || node.Params[1].Name != "y" {
		t.Errorf("labels = %q, %q; want empty and y", node.Params[0].Name, node.Params[1].Name)
	}
	if len(node.Params[0].Nested) != 1 || node.Params[0].Nested[0].String() != "g(_:)" {
		t.Error("first arg must carry the nested g call")
	}
	if len(node.Params[1].Nested) != 1 || node.Params[1].Nested[0].String() != "h(_:)" {
		t.Error("second arg must carry the nested h call")
	}
}

func TestCommaInsideNestedCallDoesNotSplitArgs(t *testing.T) {
	node := singleInvocation(t, "f(g(a, b), c)")
	if len(node.Params) != 2 {
		t.Fatalf("got %d params, want 2: comma inside g(...) split the arguments", len(node.Params))
	}
}

func TestControlKeywordsAreNotCalls(t *testing.T) {
	res := extract(t, "if (x) { return (y) }")
	if len(res.Invocations) != 0 {
		t.Errorf("got %d invocations, want 0; control flow must not parse as a call", len(res.Invocations))
	}
}

func TestInheritance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Inheritance
	}{
		{
			"objc interface",
			"@interface MyView : UIView",
			[]Inheritance{{Child: "MyView", Parent: "UIView"}},
		},
		{
			"swift class with conformances",
			"class Controller: UIViewController, UITableViewDelegate {",
			[]Inheritance{
				{Child: "Controller", Parent: "UIViewController"},
				{Child: "Controller", Parent: "UITableViewDelegate"},
			},
		},
		{
			"swift extension",
			"extension Controller: Codable {}",
			[]Inheritance{{Child: "Controller", Parent: "Codable"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extract(t, tt.input)
			if len(res.Inheritance) != len(tt.want) {
				t.Fatalf("got %d edges %v, want %d", len(res.Inheritance), res.Inheritance, len(tt.want))
			}
			for i, w := range tt.want {
				if res.Inheritance[i] != w {
					t.Errorf("edge %d = %v, want %v", i, res.Inheritance[i], w)
				}
			}
		})
	}
}

func TestMalformedExpressionDoesNotStopExtraction(t *testing.T) {
	src := "[broken send without close\nobj.foo(x: 1)"
	res := extract(t, src)

	var rendered []string
	for _, inv := range res.Invocations {
		rendered = append(rendered, inv.Node.String())
	}
	found := false
	for _, r := range rendered {
		if r == "obj.foo(x:)" {
			found = true
		}
	}
	if !found {
		t.Errorf("extraction after the malformed send failed; got %v", rendered)
	}
}

func TestExtractFileSpans(t *testing.T) {
	res := extract(t, "pad\nobj.foo(x: 1)")
	if len(res.Invocations) != 1 {
		t.Fatalf("got %d invocations, want 1", len(res.Invocations))
	}
	span := res.Invocations[0].Span
	if span.Start.Line != 2 {
		t.Errorf("invocation starts on line %d, want 2", span.Start.Line)
	}
}

func TestMixedFile(t *testing.T) {
	src := `
@interface Feed : NSObject
[fetcher loadFrom:url into:[Cache shared]]
feed.render(items: list).refresh()
`
	res := extract(t, src)
	if len(res.Inheritance) != 1 {
		t.Errorf("got %d inheritance edges, want 1", len(res.Inheritance))
	}
	if len(res.Invocations) != 2 {
		t.Fatalf("got %d invocations, want 2", len(res.Invocations))
	}
	if got := res.Invocations[0].Node.String(); got != "[fetcher loadFrom: into:]" {
		t.Errorf("first = %q", got)
	}
	if got := res.Invocations[1].Node.String(); got != "feed.render(items:).refresh()" {
		t.Errorf("second = %q", got)
	}
}
