package excerpt

import (
	"strings"
	"testing"
)

func pdpHTML() string {
	desc := strings.Repeat("A relaxed-fit jumper knitted from extra-fine merino wool. ", 10)
	return `<html><head><title>Wool Jumper | Example Shop</title></head><body>
<nav aria-label="breadcrumb"><a href="/">Home</a><a href="/men">Men</a><a href="/men/knitwear">Knitwear</a></nav>
<main>
<h1 itemprop="name">Merino Wool Jumper</h1>
<span itemprop="price">£89.00</span>
<article><h2>Description</h2><p>` + desc + `</p>
<table><tr><th>Size</th><th>Chest</th></tr><tr><td>M</td><td>96-101 cm</td></tr></table>
</article>
</main>
</body></html>`
}

func TestBuild_ProductSignals(t *testing.T) {
	ex := NewBuilder().Build(pdpHTML(), "https://shop.example.com/p/wool-jumper")

	if ex.ProductName != "Merino Wool Jumper" {
		t.Errorf("ProductName = %q", ex.ProductName)
	}
	if ex.Price != "£89.00" {
		t.Errorf("Price = %q", ex.Price)
	}
	want := []string{"Home", "Men", "Knitwear"}
	if len(ex.Breadcrumbs) != len(want) {
		t.Fatalf("Breadcrumbs = %v, want %v", ex.Breadcrumbs, want)
	}
	for i := range want {
		if ex.Breadcrumbs[i] != want[i] {
			t.Errorf("Breadcrumbs[%d] = %q, want %q", i, ex.Breadcrumbs[i], want[i])
		}
	}
}

func TestBuild_MarkdownContent(t *testing.T) {
	ex := NewBuilder().Build(pdpHTML(), "https://shop.example.com/p/wool-jumper")

	if ex.Markdown == "" {
		t.Fatal("expected non-empty markdown")
	}
	if !strings.Contains(ex.Markdown, "merino wool") {
		t.Error("description copy missing from markdown")
	}
	if ex.EstimatedTokens == 0 {
		t.Error("EstimatedTokens should be set")
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	ex := NewBuilder().Build("", "https://shop.example.com/p/1")
	if ex == nil {
		t.Fatal("Build must never return nil")
	}
	if ex.Markdown != "" || ex.ProductName != "" {
		t.Errorf("empty input should yield an empty excerpt, got %+v", ex)
	}
}

func TestBuild_UnparseableStillReturns(t *testing.T) {
	// Garbage in, empty-ish excerpt out; never a panic or nil.
	ex := NewBuilder().Build("<<<%%% not html", "://bad url")
	if ex == nil {
		t.Fatal("Build must never return nil")
	}
}

func TestPickProductSignals_FallbackToH1(t *testing.T) {
	html := `<html><body><h1>Plain Heading Product</h1></body></html>`
	sig := pickProductSignals(html)
	if sig.name != "Plain Heading Product" {
		t.Errorf("name = %q, want the h1 fallback", sig.name)
	}
	if sig.price != "" {
		t.Errorf("price = %q, want empty when absent", sig.price)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("empty text = 0 tokens")
	}
	if EstimateTokens("ab") != 1 {
		t.Error("short non-empty text = at least 1 token")
	}
	if got := EstimateTokens(strings.Repeat("a", 300)); got != 100 {
		t.Errorf("300 chars = %d tokens, want 100", got)
	}
}

func TestCapTokens(t *testing.T) {
	long := strings.Repeat("word ", 5000)
	capped := capTokens(long, 100)

	if EstimateTokens(capped) > 100 {
		t.Errorf("capped estimate = %d, want <= 100", EstimateTokens(capped))
	}

	short := "short text"
	if capTokens(short, 100) != short {
		t.Error("text under budget must be unchanged")
	}
	if capTokens(long, 0) != "" {
		t.Error("zero budget yields empty text")
	}
}
