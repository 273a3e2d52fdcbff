package app

import (
	"errors"
	"reflect"
	"testing"
)

func fakeLookPath(found ...string) func(string) (string, error) {
	set := make(map[string]bool, len(found))
	for _, f := range found {
		set[f] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectEditorCommandInternal(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		configured string
		env        map[string]string
		found      []string
		want       []string
		wantOK     bool
	}{
		{
			name:       "configured wins",
			goos:       "linux",
			configured: `hx --vsplit`,
			env:        map[string]string{"EDITOR": "nano"},
			found:      []string{"hx", "nano"},
			want:       []string{"/bin/hx", "--vsplit"},
			wantOK:     true,
		},
		{
			name:   "visual before editor",
			goos:   "linux",
			env:    map[string]string{"VISUAL": "emacs -nw", "EDITOR": "nano"},
			found:  []string{"emacs", "nano"},
			want:   []string{"/bin/emacs", "-nw"},
			wantOK: true,
		},
		{
			name:       "quoted arguments",
			goos:       "linux",
			configured: `code --wait "--profile=My Work"`,
			found:      []string{"code"},
			want:       []string{"/bin/code", "--wait", "--profile=My Work"},
			wantOK:     true,
		},
		{
			name:       "missing configured falls through",
			goos:       "linux",
			configured: "nvim",
			env:        map[string]string{"EDITOR": "nano"},
			found:      []string{"nano"},
			want:       []string{"/bin/nano"},
			wantOK:     true,
		},
		{
			name:       "bad quoting skipped",
			goos:       "linux",
			configured: `vim "unterminated`,
			found:      []string{"vim"},
			want:       []string{"/bin/vim"},
			wantOK:     true,
		},
		{
			name:   "unix default",
			goos:   "darwin",
			found:  []string{"nano"},
			want:   []string{"/bin/nano"},
			wantOK: true,
		},
		{
			name:   "windows default keeps args",
			goos:   "windows",
			found:  []string{"code"},
			want:   []string{"/bin/code", "--wait"},
			wantOK: true,
		},
		{
			name:   "nothing available",
			goos:   "linux",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			got, ok := detectEditorCommandInternal(tt.goos, tt.configured, getenv, fakeLookPath(tt.found...))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandUserPathLeavesOthers(t *testing.T) {
	for _, in := range []string{"", "vim", "/usr/bin/vim", "~user/bin/vim"} {
		if got := expandUserPath(in); got != in {
			t.Errorf("expandUserPath(%q) = %q", in, got)
		}
	}
}
