package organizer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/llm"
)

// fakeEngine returns fixed answers and records what it was asked.
type fakeEngine struct {
	renameResult llm.RenameResult
	keepResult   llm.KeepResult
	category     string

	renameCalls []string
	keepStems   []string
	sortItems   []llm.SortItem
}

func (f *fakeEngine) Rename(ctx context.Context, currentName string, meta llm.Metadata) (llm.RenameResult, error) {
	f.renameCalls = append(f.renameCalls, currentName)
	return f.renameResult, nil
}

func (f *fakeEngine) StemAction(ctx context.Context, originalStem, suggestedName, extension string) (llm.KeepResult, error) {
	f.keepStems = append(f.keepStems, originalStem)
	return f.keepResult, nil
}

func (f *fakeEngine) Sort(ctx context.Context, items []llm.SortItem) (llm.SortResult, error) {
	f.sortItems = append(f.sortItems, items...)
	result := llm.SortResult{Assignments: map[string]string{}, Reasons: map[string]string{}}
	for _, item := range items {
		result.Assignments[item.Path] = f.category
	}
	return result, nil
}

type fakeExtractor struct{ meta llm.Metadata }

func (f fakeExtractor) Extract(path string) llm.Metadata { return f.meta }

type recordedMove struct{ source, target, category, reason string }

type fakeRecorder struct{ moves []recordedMove }

func (f *fakeRecorder) Record(ctx context.Context, source, target, category, reason string) error {
	f.moves = append(f.moves, recordedMove{source, target, category, reason})
	return nil
}

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

func TestPlanOne(t *testing.T) {
	dir := t.TempDir()
	source := writeTempFile(t, dir, "IMG_0001.pdf")

	engine := &fakeEngine{
		renameResult: llm.RenameResult{NewName: "Fan-Manual-2015", Reason: "manual with year"},
		keepResult:   llm.KeepResult{Action: llm.ActionDrop, Reason: "generic label"},
		category:     "Document",
	}
	target := filepath.Join(dir, "sorted")
	org := New(engine, fakeExtractor{llm.Metadata{Title: "Fan Manual"}}, nil, target, nil)

	plan, err := org.PlanOne(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, "Fan-Manual-2015", plan.NewName)
	assert.Equal(t, "Document", plan.Category)
	assert.Equal(t, filepath.Join(target, "Document", "Fan-Manual-2015.pdf"), plan.Target)
	assert.Equal(t, []string{"IMG_0001.pdf"}, engine.renameCalls)
	assert.Equal(t, []string{"IMG_0001"}, engine.keepStems)
	require.Len(t, engine.sortItems, 1)
	assert.Equal(t, source, engine.sortItems[0].Path)
}

func TestPlanOneKeepsStem(t *testing.T) {
	dir := t.TempDir()
	source := writeTempFile(t, dir, "GV60_notes.pdf")

	engine := &fakeEngine{
		renameResult: llm.RenameResult{NewName: "Fan-Manual"},
		keepResult:   llm.KeepResult{Action: llm.ActionKeep},
		category:     "Document",
	}
	org := New(engine, fakeExtractor{}, nil, dir, nil)

	plan, err := org.PlanOne(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, "Fan-Manual_GV60_notes", plan.NewName)
}

func TestProcessOneByOneApplies(t *testing.T) {
	dir := t.TempDir()
	source := writeTempFile(t, dir, "scan0001.pdf")

	engine := &fakeEngine{
		renameResult: llm.RenameResult{NewName: "Warranty-Card", Reason: "warranty details"},
		keepResult:   llm.KeepResult{Action: llm.ActionDrop},
		category:     "Document",
	}
	recorder := &fakeRecorder{}
	target := filepath.Join(dir, "sorted")
	var out bytes.Buffer
	org := New(engine, fakeExtractor{}, recorder, target, &out)

	plans, err := org.ProcessOneByOne(context.Background(), []string{source}, true)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	moved := filepath.Join(target, "Document", "Warranty-Card.pdf")
	_, statErr := os.Stat(moved)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(source)
	assert.True(t, os.IsNotExist(statErr))

	require.Len(t, recorder.moves, 1)
	assert.Equal(t, source, recorder.moves[0].source)
	assert.Equal(t, moved, recorder.moves[0].target)
	assert.Equal(t, "Document", recorder.moves[0].category)

	assert.Contains(t, out.String(), "Warranty-Card.pdf")
}

func TestNormalizeNewName(t *testing.T) {
	cases := []struct {
		name      string
		suggested string
		stem      string
		ext       string
		want      string
	}{
		{"plain", "Fan-Manual", "IMG_0001", ".pdf", "Fan-Manual"},
		{"duplicate extension stripped", "Fan-Manual.pdf", "IMG_0001", ".pdf", "Fan-Manual"},
		{"double extension stripped", "Fan-Manual.pdf.pdf", "IMG_0001", ".pdf", "Fan-Manual"},
		{"echoed stem stripped", "Fan-Manual-IMG_0001", "IMG_0001", ".pdf", "Fan-Manual"},
		{"echoed stem with underscore", "Fan-Manual_IMG_0001", "IMG_0001", ".pdf", "Fan-Manual"},
		{"unsanitary input cleaned", "my summer photo!", "x", ".jpg", "my-summer-photo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeNewName(tc.suggested, tc.stem, tc.ext))
		})
	}
}

func TestCombineStem(t *testing.T) {
	assert.Equal(t, "Fan-Manual", combineStem("Fan-Manual", "IMG_0001", llm.ActionDrop))
	assert.Equal(t, "Fan-Manual_GV60", combineStem("Fan-Manual", "GV60", llm.ActionKeep))
	assert.Equal(t, "Fan-Manual", combineStem("Fan-Manual", "", llm.ActionKeep))

	// normalize keeps lettered tokens and drops digit runs
	got := combineStem("Fan-Manual", "gv60_spec_20240115123045", llm.ActionNormalize)
	assert.Equal(t, "Fan-Manual_gv60-spec", got)
}

func TestNormalizeStem(t *testing.T) {
	assert.Equal(t, "gv60-spec", normalizeStem("gv60_spec_20240115123045"))
	assert.Equal(t, "", normalizeStem("20240115123045"))
	assert.Equal(t, "file", llm.SanitizeFilename(""))
}

func TestOverrideStemAction(t *testing.T) {
	meta := llm.Metadata{Title: "vacation photos from June"}

	// normalize whose reason invents a doc type absent from metadata: demoted
	demoted := overrideStemAction(llm.KeepResult{
		Action: llm.ActionNormalize,
		Reason: "stem looks like an invoice number",
	}, meta)
	assert.Equal(t, llm.ActionKeep, demoted)

	// corroborated by metadata: trusted
	trusted := overrideStemAction(llm.KeepResult{
		Action: llm.ActionNormalize,
		Reason: "stem repeats the invoice id",
	}, llm.Metadata{Title: "Invoice for June services"})
	assert.Equal(t, llm.ActionNormalize, trusted)

	// non-normalize actions pass through untouched
	kept := overrideStemAction(llm.KeepResult{
		Action: llm.ActionDrop,
		Reason: "claims this is an invoice",
	}, meta)
	assert.Equal(t, llm.ActionDrop, kept)
}

func TestMoveFileCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "name.pdf")

	first := writeTempFile(t, dir, "a.pdf")
	got, err := MoveFile(first, target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	second := writeTempFile(t, dir, "b.pdf")
	got, err = MoveFile(second, target)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "name-1.pdf"), got)

	third := writeTempFile(t, dir, "c.pdf")
	got, err = MoveFile(third, target)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "name-2.pdf"), got)
}

func TestScannerSkipsHiddenAndTarget(t *testing.T) {
	root := t.TempDir()
	writeTempFile(t, root, "visible.txt")
	writeTempFile(t, root, ".hidden.txt")

	hiddenDir := filepath.Join(root, ".cache")
	require.NoError(t, os.MkdirAll(hiddenDir, 0o755))
	writeTempFile(t, hiddenDir, "inside.txt")

	targetDir := filepath.Join(root, "sorted")
	require.NoError(t, os.MkdirAll(targetDir, 0o755))
	writeTempFile(t, targetDir, "already-sorted.txt")

	scanner := &Scanner{Roots: []string{root}, TargetRoot: targetDir}
	files, err := scanner.Scan()
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "visible.txt", filepath.Base(files[0]))
}
