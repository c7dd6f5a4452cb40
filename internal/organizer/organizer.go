package organizer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"curator/internal/llm"
)

// Engine is the slice of the model pipeline the organizer needs. Defined here
// so tests can script replies without touching a backend.
type Engine interface {
	Rename(ctx context.Context, currentName string, meta llm.Metadata) (llm.RenameResult, error)
	StemAction(ctx context.Context, originalStem, suggestedName, extension string) (llm.KeepResult, error)
	Sort(ctx context.Context, items []llm.SortItem) (llm.SortResult, error)
}

// Extractor produces metadata for one file path.
type Extractor interface {
	Extract(path string) llm.Metadata
}

// Recorder persists applied moves. May be nil when history is disabled.
type Recorder interface {
	Record(ctx context.Context, source, target, category, reason string) error
}

// Plan is one file's proposed outcome: the new name, its category, and the
// full destination path, plus the reasons behind each decision.
type Plan struct {
	Source     string
	Meta       llm.Metadata
	NewName    string
	Category   string
	Target     string
	Reason     string
	SortReason string
	StemAction llm.StemAction
}

// Organizer plans and applies renames and moves, one file at a time.
type Organizer struct {
	engine     Engine
	extractor  Extractor
	recorder   Recorder
	targetRoot string
	out        io.Writer
}

// New builds an organizer. recorder may be nil; out defaults to discard when
// nil so library callers stay quiet.
func New(engine Engine, extractor Extractor, recorder Recorder, targetRoot string, out io.Writer) *Organizer {
	if out == nil {
		out = io.Discard
	}
	return &Organizer{
		engine:     engine,
		extractor:  extractor,
		recorder:   recorder,
		targetRoot: targetRoot,
		out:        out,
	}
}

// PlanOne runs the full pipeline for a single file: extract metadata, ask for
// a name, decide the stem's fate, assign a category, and compute the target.
func (o *Organizer) PlanOne(ctx context.Context, path string) (Plan, error) {
	plan := Plan{Source: path}
	currentName := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(currentName))
	stem := strings.TrimSuffix(currentName, filepath.Ext(currentName))

	plan.Meta = o.extractor.Extract(path)

	renamed, err := o.engine.Rename(ctx, currentName, plan.Meta)
	if err != nil {
		return plan, fmt.Errorf("rename failed for %s: %w", currentName, err)
	}
	suggested := normalizeNewName(renamed.NewName, stem, ext)
	plan.Reason = renamed.Reason

	keep, err := o.engine.StemAction(ctx, stem, suggested, ext)
	if err != nil {
		return plan, fmt.Errorf("stem decision failed for %s: %w", currentName, err)
	}
	action := overrideStemAction(keep, plan.Meta)
	plan.StemAction = action

	plan.NewName = combineStem(suggested, stem, action)

	items := []llm.SortItem{{
		Path:        path,
		Name:        plan.NewName + ext,
		Ext:         ext,
		Description: sortDescription(plan.Meta),
	}}
	sorted, err := o.engine.Sort(ctx, items)
	if err != nil {
		return plan, fmt.Errorf("categorization failed for %s: %w", currentName, err)
	}
	plan.Category = sorted.Assignments[path]
	if plan.Category == "" {
		plan.Category = "Other"
	}
	plan.SortReason = sorted.Reasons[path]

	plan.Target = filepath.Join(o.targetRoot, plan.Category, plan.NewName+ext)
	return plan, nil
}

// ProcessOneByOne plans each file in order, printing the outcome as it goes.
// With apply set, every successful plan is executed immediately. Failed files
// are logged and skipped; processing continues with the next file.
func (o *Organizer) ProcessOneByOne(ctx context.Context, paths []string, apply bool) ([]Plan, error) {
	var plans []Plan
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return plans, err
		}
		plan, err := o.PlanOne(ctx, path)
		if err != nil {
			log.Errorf("skipping %s: %v", path, err)
			continue
		}
		o.printPlan(plan)
		if apply {
			target, err := o.Apply(ctx, plan)
			if err != nil {
				log.Errorf("failed to apply plan for %s: %v", path, err)
				continue
			}
			plan.Target = target
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Apply moves the planned file into place and records the move. Returns the
// actual target, which may differ from the plan when a collision suffix was
// needed.
func (o *Organizer) Apply(ctx context.Context, plan Plan) (string, error) {
	target, err := MoveFile(plan.Source, plan.Target)
	if err != nil {
		return "", err
	}
	if o.recorder != nil {
		if err := o.recorder.Record(ctx, plan.Source, target, plan.Category, plan.Reason); err != nil {
			log.Warnf("move applied but not recorded: %v", err)
		}
	}
	return target, nil
}

func (o *Organizer) printPlan(plan Plan) {
	fileTag := color.New(color.FgCyan, color.Bold).Sprint("[FILE]")
	metaTag := color.New(color.FgBlue).Sprint("[META]")
	renameTag := color.New(color.FgGreen).Sprint("[RENAME]")
	whyTag := color.New(color.FgYellow).Sprint("[WHY]")
	destTag := color.New(color.FgMagenta).Sprint("[DEST]")

	fmt.Fprintf(o.out, "%s %s (%d bytes)\n", fileTag, plan.Source, statSize(plan.Source))
	if summary := metaSummary(plan.Meta); summary != "" {
		fmt.Fprintf(o.out, "%s %s\n", metaTag, summary)
	}
	fmt.Fprintf(o.out, "%s %s\n", renameTag, filepath.Base(plan.Target))
	if plan.Reason != "" {
		fmt.Fprintf(o.out, "%s %s\n", whyTag, plan.Reason)
	}
	fmt.Fprintf(o.out, "%s %s\n", destTag, plan.Target)
}

// normalizeNewName cleans up the model's suggestion: strips a duplicated
// extension, removes an echoed copy of the current stem, and re-sanitizes.
func normalizeNewName(suggested, currentStem, ext string) string {
	name := suggested
	for ext != "" && strings.HasSuffix(strings.ToLower(name), ext) {
		name = name[:len(name)-len(ext)]
	}
	if currentStem != "" {
		lower := strings.ToLower(name)
		echo := strings.ToLower(llm.SanitizeFilename(currentStem))
		for _, sep := range []string{"-", "_"} {
			suffix := sep + echo
			if echo != "" && strings.HasSuffix(lower, suffix) && len(name) > len(suffix) {
				name = name[:len(name)-len(suffix)]
				break
			}
		}
	}
	return llm.SanitizeFilename(name)
}

// docTypeWords are labels a model sometimes invents for files whose metadata
// never mentions them. When that happens a normalize verdict is not trusted.
var docTypeWords = []string{
	"invoice", "receipt", "manual", "report", "contract", "statement", "warranty",
}

// overrideStemAction demotes normalize to keep when the stated reason names a
// document type that no metadata field corroborates.
func overrideStemAction(result llm.KeepResult, meta llm.Metadata) llm.StemAction {
	if result.Action != llm.ActionNormalize {
		return result.Action
	}
	reason := strings.ToLower(result.Reason)
	haystack := strings.ToLower(strings.Join([]string{
		meta.Title, meta.Summary, meta.Description, meta.Caption, meta.OCRText,
	}, " "))
	for _, word := range docTypeWords {
		if strings.Contains(reason, word) && !strings.Contains(haystack, word) {
			log.Debugf("stem action normalize demoted to keep: reason mentions %q without metadata support", word)
			return llm.ActionKeep
		}
	}
	return result.Action
}

// combineStem merges the original stem into the suggested name according to
// the stem action.
func combineStem(suggested, stem string, action llm.StemAction) string {
	switch action {
	case llm.ActionDrop:
		return suggested
	case llm.ActionNormalize:
		normalized := normalizeStem(stem)
		if normalized == "" {
			return suggested
		}
		return llm.SanitizeFilename(suggested + "_" + normalized)
	default:
		clean := llm.SanitizeFilename(stem)
		if clean == "" || clean == "file" {
			return suggested
		}
		return llm.SanitizeFilename(suggested + "_" + clean)
	}
}

// normalizeStem shortens a noisy stem to its informative tokens: tokens with
// letters survive, pure digit runs are dropped, and the result is capped.
func normalizeStem(stem string) string {
	tokens := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	var kept []string
	total := 0
	for _, tok := range tokens {
		if !strings.ContainsFunc(tok, isLetter) {
			continue
		}
		if total+len(tok) > 24 {
			break
		}
		kept = append(kept, tok)
		total += len(tok)
	}
	if len(kept) == 0 {
		return ""
	}
	return llm.SanitizeFilename(strings.Join(kept, "-"))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// metaSummary condenses extracted metadata into one display line.
func metaSummary(meta llm.Metadata) string {
	var parts []string
	if meta.FiletypeHint != "" {
		parts = append(parts, meta.FiletypeHint)
	}
	if meta.Title != "" {
		parts = append(parts, meta.Title)
	}
	return strings.Join(parts, " | ")
}

// sortDescription picks the most informative metadata field for the category
// prompt.
func sortDescription(meta llm.Metadata) string {
	for _, v := range []string{meta.Summary, meta.Description, meta.Title, meta.Caption, meta.FiletypeHint} {
		if v != "" {
			return v
		}
	}
	return ""
}
