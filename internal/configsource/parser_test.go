package configsource

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseKV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue any
		wantErr   bool
	}{
		{name: "string", input: "bucket=snapshots", wantKey: "bucket", wantValue: "snapshots"},
		{name: "integer", input: "retries=5", wantKey: "retries", wantValue: 5},
		{name: "one is an integer", input: "secure=1", wantKey: "secure", wantValue: 1},
		{name: "float", input: "ratio=0.5", wantKey: "ratio", wantValue: 0.5},
		{name: "boolean", input: "secure=false", wantKey: "secure", wantValue: false},
		{name: "value with equals", input: "token=a=b", wantKey: "token", wantValue: "a=b"},
		{name: "whitespace trimmed", input: " region = eu-west-1 ", wantKey: "region", wantValue: "eu-west-1"},
		{name: "empty value", input: "prefix=", wantKey: "prefix", wantValue: ""},
		{name: "missing equals", input: "bucket", wantErr: true},
		{name: "empty key", input: "=value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := ParseKV(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKV(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKV(%q) error = %v", tt.input, err)
			}
			if key != tt.wantKey || !reflect.DeepEqual(value, tt.wantValue) {
				t.Errorf("ParseKV(%q) = %q, %#v; want %q, %#v", tt.input, key, value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		want    any
		wantErr bool
	}{
		{
			name: "json object",
			path: write("upload.json", `{"endpoint":"localhost:9000","secure":false}`),
			want: map[string]any{"endpoint": "localhost:9000", "secure": false},
		},
		{
			name: "yaml object",
			path: write("upload.yaml", "endpoint: localhost:9000\nsecure: false\nport: 9000\n"),
			want: map[string]any{"endpoint": "localhost:9000", "secure": false, "port": 9000},
		},
		{
			name: "yml extension",
			path: write("webhook.yml", "url: http://example.com/hook\n"),
			want: map[string]any{"url": "http://example.com/hook"},
		},
		{
			name:    "invalid json",
			path:    write("broken.json", `{"endpoint":`),
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			path:    write("broken.yaml", "endpoint: [unterminated\n"),
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.json"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("RERE_TEST_CONFIG", `{"bucket":"from-json","region":"us-east-1"}`)
	t.Setenv("RERE_TEST_CONFIG_BUCKET", "from-var")
	t.Setenv("RERE_TEST_CONFIG_SECURE", "false")
	t.Setenv("RERE_TEST_CONFIG_EMPTY", "")

	got := ParseEnv("RERE_TEST_CONFIG")
	want := map[string]any{
		"bucket": "from-var",
		"region": "us-east-1",
		"secure": false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEnv() = %#v, want %#v", got, want)
	}

	if got := ParseEnv("RERE_TEST_UNSET_PREFIX"); got != nil {
		t.Errorf("ParseEnv() with no variables = %#v, want nil", got)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		sources []any
		want    any
	}{
		{name: "nothing", sources: nil, want: nil},
		{name: "nil sources", sources: []any{nil, nil}, want: nil},
		{
			name: "later wins",
			sources: []any{
				map[string]any{"a": 1, "b": 1},
				map[string]any{"b": 2},
			},
			want: map[string]any{"a": 1, "b": 2},
		},
		{
			name:    "lone array",
			sources: []any{[]any{"x"}},
			want:    []any{"x"},
		},
		{
			name:    "array after map is ignored",
			sources: []any{map[string]any{"a": 1}, []any{"x"}},
			want:    map[string]any{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(tt.sources...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("env: file\nfile: file\njson: file\nkv: file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RERE_TEST_BUILD_ENV", "env")
	t.Setenv("RERE_TEST_BUILD_FILE", "env")

	got, err := Build("RERE_TEST_BUILD", `{"json":"json","kv":"json"}`, []string{"kv=kv"}, file)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := map[string]any{
		"env":  "file",
		"file": "file",
		"json": "json",
		"kv":   "kv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %#v, want %#v", got, want)
	}
}

func TestBuildMap(t *testing.T) {
	m, err := BuildMap("RERE_TEST_BUILDMAP_UNSET", "", nil, "")
	if err != nil {
		t.Fatalf("BuildMap() error = %v", err)
	}
	if m == nil || len(m) != 0 {
		t.Errorf("BuildMap() with no sources = %#v, want empty map", m)
	}

	if _, err := BuildMap("RERE_TEST_BUILDMAP_UNSET", `[1,2]`, nil, ""); err == nil {
		t.Error("BuildMap() with an array should fail")
	}

	if _, err := BuildMap("RERE_TEST_BUILDMAP_UNSET", "", []string{"broken"}, ""); err == nil {
		t.Error("BuildMap() with a bad key=value pair should fail")
	}
}
