package pose

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"glossa/internal/gloss"
	"glossa/internal/rescache"
)

const testIndex = `path,spoken_language,signed_language,start,end,words,glosses,priority
hello.pose,en,ase,0,0,hello,HELLO,0
hello-alt.pose,en,ase,0,0,hello,HELLO,5
bonjour.pose,fr,fsl,0,0,bonjour,BONJOUR,0
letters/h.pose,en,ase,0,0,h,,0
letters/i.pose,en,ase,0,0,i,,0
/abs/world.pose,en,ase,10,40,world,WORLD,0
`

func writeLexicon(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(testIndex), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return dir
}

func TestLookupFindPrefersPriority(t *testing.T) {
	dir := writeLexicon(t)
	lookup, err := LoadLookup(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("LoadLookup: %v", err)
	}
	defer lookup.Close()

	if lookup.Size() != 6 {
		t.Fatalf("expected 6 entries, got %d", lookup.Size())
	}
	entry, ok, err := lookup.Find(context.Background(), "Hello", "HELLO", "en", "ase")
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if entry.Path != filepath.Join(dir, "hello-alt.pose") {
		t.Fatalf("expected highest priority entry, got %s", entry.Path)
	}

	entry, ok, _ = lookup.Find(context.Background(), "world", "WORLD", "en", "ASE")
	if !ok || entry.Path != "/abs/world.pose" || entry.Start != 10 || entry.End != 40 {
		t.Fatalf("unexpected absolute entry %+v", entry)
	}

	if _, ok, _ := lookup.Find(context.Background(), "bonjour", "BONJOUR", "fr", "ase"); ok {
		t.Fatal("entries from another signed language must not match")
	}
}

func TestLookupFingerspelling(t *testing.T) {
	dir := writeLexicon(t)
	lookup, err := LoadLookup(context.Background(), dir, true)
	if err != nil {
		t.Fatalf("LoadLookup: %v", err)
	}
	defer lookup.Close()

	entries, ok, err := lookup.Resolve(context.Background(), "Hi!", "HI", "en", "ase")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if len(entries) != 2 || filepath.Base(entries[0].Path) != "h.pose" || filepath.Base(entries[1].Path) != "i.pose" {
		t.Fatalf("unexpected spelling %+v", entries)
	}

	if _, ok, _ := lookup.Resolve(context.Background(), "hz", "HZ", "en", "ase"); ok {
		t.Fatal("word with an unknown letter should not resolve")
	}
}

func TestLoadLookupMissingIndex(t *testing.T) {
	if _, err := LoadLookup(context.Background(), t.TempDir(), false); err == nil {
		t.Fatal("expected error for missing index")
	}
}

func TestBuilderWritesManifestAndRunsConcat(t *testing.T) {
	dir := writeLexicon(t)
	out := filepath.Join(t.TempDir(), "job", "output.pose")

	var gotName string
	var gotArgs []string
	builder := NewBuilder("python3 concat.py", true, nil, nil).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(out, []byte("pose"), 0o644)
	})

	sentences := []gloss.Sentence{
		{{Word: "hello", Gloss: "HELLO"}, {Word: "xyz", Gloss: "XYZ"}},
		{{Word: "hi", Gloss: "HI"}},
	}
	if err := builder.Build(context.Background(), sentences, dir, "en", "ase", out); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if gotName != "python3" || gotArgs[0] != "concat.py" {
		t.Fatalf("unexpected command %s %v", gotName, gotArgs)
	}
	i := slices.Index(gotArgs, "--manifest")
	if i < 0 {
		t.Fatalf("manifest flag missing: %v", gotArgs)
	}
	data, err := os.ReadFile(gotArgs[i+1])
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(manifest.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %+v", manifest.Sentences)
	}
	if len(manifest.Sentences[0]) != 1 || manifest.Sentences[0][0].Gloss != "HELLO" {
		t.Fatalf("expected unknown word skipped, got %+v", manifest.Sentences[0])
	}
	if len(manifest.Sentences[1]) != 2 {
		t.Fatalf("expected fingerspelled word, got %+v", manifest.Sentences[1])
	}
	if manifest.Trim {
		t.Fatal("concatenation must not trim")
	}
}

func TestBuilderNoPoses(t *testing.T) {
	dir := writeLexicon(t)
	builder := NewBuilder("concat", false, nil, nil).WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("concat must not run without poses")
		return nil
	})
	err := builder.Build(context.Background(), []gloss.Sentence{{{Word: "nothing", Gloss: "NOTHING"}}}, dir, "en", "ase", filepath.Join(t.TempDir(), "o.pose"))
	if !errors.Is(err, ErrNoPoses) {
		t.Fatalf("expected ErrNoPoses, got %v", err)
	}
}

func TestBuilderCachesLookupByAbsolutePath(t *testing.T) {
	dir := writeLexicon(t)
	cache := rescache.New[string, *Lookup]("pose lookup")
	builder := NewBuilder("concat", false, cache, nil)

	first, err := builder.LookupFor(context.Background(), dir)
	if err != nil {
		t.Fatalf("LookupFor: %v", err)
	}
	t.Chdir(filepath.Dir(dir))
	second, err := builder.LookupFor(context.Background(), filepath.Base(dir))
	if err != nil {
		t.Fatalf("LookupFor relative: %v", err)
	}
	if first != second {
		t.Fatal("relative and absolute lexicon paths should share one lookup")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached lookup, got %d", cache.Len())
	}
}

func TestBuilderCachesLookupThroughSymlink(t *testing.T) {
	dir := writeLexicon(t)
	link := filepath.Join(t.TempDir(), "lexicon-link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	cache := rescache.New[string, *Lookup]("pose lookup")
	builder := NewBuilder("concat", false, cache, nil)

	first, err := builder.LookupFor(context.Background(), dir)
	if err != nil {
		t.Fatalf("LookupFor: %v", err)
	}
	second, err := builder.LookupFor(context.Background(), link)
	if err != nil {
		t.Fatalf("LookupFor symlink: %v", err)
	}
	if first != second || cache.Len() != 1 {
		t.Fatalf("symlinked lexicon loaded twice (cached=%d)", cache.Len())
	}
}
