package extractor

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "escaped json round trip",
			body: `<pre class="json">{&quot;a&quot;:1}</pre>`,
			want: `{"a":1}`,
		},
		{
			name: "all four entities",
			body: `<pre class="json">&lt;x&gt; &amp; &quot;y&quot;</pre>`,
			want: `<x> & "y"`,
		},
		{
			name: "extra attributes on start tag",
			body: `<pre id="payload" class="json" data-v="2">{&quot;ok&quot;:true}</pre>`,
			want: `{"ok":true}`,
		},
		{
			name: "class among multiple classes",
			body: `<pre class="highlight json wide">{}</pre>`,
			want: `{}`,
		},
		{
			name: "multi-line content",
			body: "<pre class=\"json\">{\n  &quot;a&quot;: 1,\n  &quot;b&quot;: 2\n}</pre>",
			want: "{\n  \"a\": 1,\n  \"b\": 2\n}",
		},
		{
			name: "truncated end marker",
			body: `<html><pre class="json">{&quot;partial&quot;:1}`,
			want: `{"partial":1}`,
		},
		{
			name: "surrounding markup ignored",
			body: `<html><body><h1>Title</h1><pre class="json">{&quot;a&quot;:1}</pre><footer>f</footer></body></html>`,
			want: `{"a":1}`,
		},
		{
			name: "first block wins",
			body: `<pre class="json">first</pre><pre class="json">second</pre>`,
			want: "first",
		},
		{
			name:    "no start marker",
			body:    `<html><body><p>nothing here</p></body></html>`,
			wantErr: true,
		},
		{
			name:    "wrong class",
			body:    `<pre class="code">{&quot;a&quot;:1}</pre>`,
			wantErr: true,
		},
		{
			name:    "no class attribute",
			body:    `<pre>{&quot;a&quot;:1}</pre>`,
			wantErr: true,
		},
		{
			name:    "empty block",
			body:    `<pre class="json"></pre>`,
			wantErr: true,
		},
		{
			name:    "whitespace-only block",
			body:    "<pre class=\"json\">  \n\t </pre>",
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
	}

	scanner := NewScanner("pre", "json")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanner.Extract([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHasPayload(t *testing.T) {
	scanner := NewScanner("pre", "json")

	if !scanner.HasPayload([]byte(`<pre class="json">{"a":1}</pre>`)) {
		t.Error("expected payload to be detected")
	}
	if scanner.HasPayload([]byte(`<pre class="json">   </pre>`)) {
		t.Error("whitespace-only block must not count as a payload")
	}
	if scanner.HasPayload([]byte(`<p>no block</p>`)) {
		t.Error("body without block must not count as a payload")
	}
}

func TestScannerCaseInsensitiveTag(t *testing.T) {
	scanner := NewScanner("PRE", "json")

	got, err := scanner.Extract([]byte(`<pre class="json">x</pre>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("expected x, got %q", got)
	}
}
