package tokenizer

import (
	"reflect"
	"strings"
	"testing"

	"feedscope/internal/config"
)

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want rune
	}{
		{name: "comma", in: "a,b,c\n1,2,3\n", want: ','},
		{name: "semicolon", in: "a;b;c\n1;2;3\n", want: ';'},
		{name: "tab", in: "a\tb\tc\n1\t2\t3\n", want: '\t'},
		{name: "pipe", in: "a|b|c\n1|2|3\n", want: '|'},
		{name: "tie prefers comma", in: "a,b;c\n1,2;3\n", want: ','},
		{name: "semicolon beats comma in decimals", in: "name;price\nshirt;10,50\nhat;5,25\nsock;1,10\npen;2,20\n", want: ';'},
		{name: "no delimiter at all", in: "justoneword\n", want: ','},
		{name: "only first five lines counted", in: "a,b\na,b\na,b\na,b\na,b\n1;2;3;4;5;6;7;8;9\n", want: ','},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectDelimiter(tt.in); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		opt          config.Options
		want         [][]string
		wantWarnings int
	}{
		{
			name: "simple rows",
			in:   "a,b,c\n1,2,3\n",
			want: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name: "no trailing newline",
			in:   "a,b\n1,2",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "crlf and lone cr",
			in:   "a,b\r\n1,2\r3,4\n",
			want: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name: "blank lines skipped",
			in:   "a,b\n\n\n1,2\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "quoted delimiter and newline",
			in:   "name,note\nshirt,\"a, \"\"quoted\"\" value\nwith newline\"\n",
			want: [][]string{
				{"name", "note"},
				{"shirt", "a, \"quoted\" value\nwith newline"},
			},
		},
		{
			name: "quoted empty field row is kept",
			in:   "a,b\n\"\",x\n",
			want: [][]string{{"a", "b"}, {"", "x"}},
		},
		{
			name:         "unterminated quote keeps content",
			in:           "a,b\n1,\"oops\n",
			opt:          config.Options{"trim_space": false},
			want:         [][]string{{"a", "b"}, {"1", "oops\n"}},
			wantWarnings: 1,
		},
		{
			name: "trim by default",
			in:   "  a , b \n 1 ,2\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "trim disabled",
			in:   " a ,b\n",
			opt:  config.Options{"trim_space": false},
			want: [][]string{{" a ", "b"}},
		},
		{
			name: "forced delimiter overrides detection",
			in:   "a;b,c\n",
			opt:  config.Options{"delimiter": ";"},
			want: [][]string{{"a", "b,c"}},
		},
		{
			name: "ragged rows are kept",
			in:   "a,b,c\n1,2\n1,2,3,4\n",
			want: [][]string{{"a", "b", "c"}, {"1", "2"}, {"1", "2", "3", "4"}},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Tokenize(tt.in, tt.opt)
			if !reflect.DeepEqual(got.Rows, tt.want) {
				t.Errorf("Rows = %q, want %q", got.Rows, tt.want)
			}
			if len(got.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d", got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestTokenizeUnterminatedQuoteTrimmed(t *testing.T) {
	t.Parallel()

	// With default trimming the trailing newline inside the unterminated
	// field is stripped like any other whitespace.
	got := Tokenize("1,\"oops\n", config.Options{"trim_space": true})
	want := [][]string{{"1", "oops"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Fatalf("Rows = %q, want %q", got.Rows, want)
	}
}

func TestRaggedWarnings(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"1", "2", "3"},
		{"1", "2"},
		{"1", "2", "3", "4"},
	}
	got := RaggedWarnings(rows, 3, 1)
	if len(got) != 2 {
		t.Fatalf("warnings = %v, want 2", got)
	}
	if !strings.Contains(got[0], "row 3") {
		t.Errorf("first warning %q should name physical row 3", got[0])
	}
	if !strings.Contains(got[1], "row 4") {
		t.Errorf("second warning %q should name physical row 4", got[1])
	}

	if ws := RaggedWarnings(rows[:1], 3, 1); len(ws) != 0 {
		t.Errorf("uniform rows produced warnings: %v", ws)
	}
}
