package render

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStyleForAvatar(t *testing.T) {
	if StyleForAvatar(AvatarSkeleton) != StyleClean {
		t.Fatal("skeleton should render clean")
	}
	if StyleForAvatar(AvatarHuman) != StyleAvatar {
		t.Fatal("human should render avatar")
	}
}

func TestRenderInvokesCommand(t *testing.T) {
	video := filepath.Join(t.TempDir(), "job", "output.mp4")
	var gotName string
	var gotArgs []string
	r := New("python3 -m render", Options{}).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return os.WriteFile(video, []byte("mp4"), 0o644)
	})
	if err := r.Render(context.Background(), "output.pose", video, StyleClean); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if gotName != "python3" || gotArgs[0] != "-m" || gotArgs[1] != "render" {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
	for flag, want := range map[string]string{"--width": "640", "--height": "480", "--fps": "0", "--style": "clean", "--video": video} {
		i := slices.Index(gotArgs, flag)
		if i < 0 || gotArgs[i+1] != want {
			t.Fatalf("expected %s %s in %v", flag, want, gotArgs)
		}
	}
}

func TestRenderMissingOutput(t *testing.T) {
	r := New("render", Options{Width: 320, Height: 240}).WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if err := r.Render(context.Background(), "p.pose", filepath.Join(t.TempDir(), "v.mp4"), StyleAvatar); err == nil {
		t.Fatal("expected error when renderer produced nothing")
	}
	if err := New("", Options{}).Render(context.Background(), "p", "v", StyleClean); err == nil {
		t.Fatal("expected error for unconfigured command")
	}
}
