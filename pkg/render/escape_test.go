package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Hello, World!", "Hello, World!"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"<script>alert('xss')</script>", "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"&amp;", "&amp;amp;"},
		{"Hello 世界 🌍", "Hello 世界 🌍"},
		{"line1\nline2", "line1\nline2"},
	}

	for _, tt := range tests {
		if got := escapeHTML(tt.input); got != tt.expected {
			t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"simple-value", "simple-value"},
		{`"><img src=x onerror=alert(1)>`, "&quot;&gt;&lt;img src=x onerror=alert(1)&gt;"},
		{"a\n\r\tb", "a&#10;&#13;&#9;b"},
		{`<>&"'`, "&lt;&gt;&amp;&quot;&#39;"},
	}

	for _, tt := range tests {
		if got := escapeAttr(tt.input); got != tt.expected {
			t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func BenchmarkEscapeHTML(b *testing.B) {
	s := `<script>alert("xss")</script> & more content here`
	for i := 0; i < b.N; i++ {
		escapeHTML(s)
	}
}
