package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func renameReq() RenameRequest {
	return RenameRequest{
		CurrentName: "IMG_0001.pdf",
		Metadata: Metadata{
			Title:        "GV60 MAX Fan Manual",
			Summary:      "Installation and operation manual for the GV60 MAX fan, 2015 edition.",
			FiletypeHint: "PDF document",
			Extension:    ".pdf",
		},
	}
}

func TestBuildRenamePromptDeterministic(t *testing.T) {
	req := renameReq()
	assert.Equal(t, BuildRenamePrompt(req), BuildRenamePrompt(req))
}

func TestBuildRenamePromptFields(t *testing.T) {
	prompt := BuildRenamePrompt(renameReq())
	assert.Contains(t, prompt, "current_name: IMG_0001.pdf")
	assert.Contains(t, prompt, "title: GV60 MAX Fan Manual")
	assert.Contains(t, prompt, "filetype: PDF document")
	assert.Contains(t, prompt, "description: Installation and operation manual")
	assert.Contains(t, prompt, "extension: .pdf")
	assert.Contains(t, prompt, RenameExampleOutput)
}

func TestBuildRenamePromptOmitsEmptyFields(t *testing.T) {
	prompt := BuildRenamePrompt(RenameRequest{CurrentName: "a.txt"})
	assert.NotContains(t, prompt, "title:")
	assert.NotContains(t, prompt, "description:")
	assert.NotContains(t, prompt, "keywords:")
	assert.NotContains(t, prompt, "Context:")
}

func TestBuildRenamePromptDropsLongTokens(t *testing.T) {
	req := renameReq()
	req.Metadata.Title = "Manual deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef edition"
	prompt := BuildRenamePrompt(req)
	assert.Contains(t, prompt, "title: Manual edition")
}

func TestBuildRenamePromptIncludesContext(t *testing.T) {
	req := renameReq()
	req.Context = "Files belong to a home appliance archive."
	prompt := BuildRenamePrompt(req)
	assert.True(t, strings.HasPrefix(prompt, "Context: Files belong to a home appliance archive."))
}

func TestBuildRenamePromptMinimal(t *testing.T) {
	req := renameReq()
	full := BuildRenamePrompt(req)
	minimal := BuildRenamePromptMinimal(req)
	assert.Less(t, len(minimal), len(full))
	assert.Contains(t, minimal, "current_name: IMG_0001.pdf")
	assert.Contains(t, minimal, "excerpt: Installation and operation manual")
	assert.NotContains(t, minimal, "description:")
	assert.NotContains(t, minimal, "Do not include phone numbers")
}

func TestBuildKeepPrompt(t *testing.T) {
	req := KeepRequest{
		OriginalStem:  "IMG_0001",
		SuggestedName: "Birthday-Party",
		Extension:     ".jpg",
		Features:      ComputeStemFeatures("IMG_0001", "Birthday-Party"),
	}
	prompt := BuildKeepPrompt(req)
	assert.Contains(t, prompt, "original_stem: IMG_0001")
	assert.Contains(t, prompt, "suggested_name: Birthday-Party")
	assert.Contains(t, prompt, "- generic_label: true")
	assert.Contains(t, prompt, "Do not re-derive them")
	assert.Contains(t, prompt, "<stem_action>normalize</stem_action>")
}

func TestBuildSortPrompt(t *testing.T) {
	req := SortRequest{Files: []SortItem{{
		Path:        "/tmp/a.xlsx",
		Name:        "budget.xlsx",
		Ext:         ".xlsx",
		Description: "monthly budget",
	}}}
	prompt := BuildSortPrompt(req)
	assert.Contains(t, prompt, "path=/tmp/a.xlsx | name=budget.xlsx | ext=.xlsx | desc=monthly budget")
	for _, cat := range Categories {
		assert.Contains(t, prompt, "- "+cat)
	}
	assert.Contains(t, prompt, SortExampleOutput)
}

func TestBuildFormatFixPrompt(t *testing.T) {
	original := BuildRenamePrompt(renameReq())
	fix := BuildFormatFixPrompt(original, RenameExampleOutput)
	assert.True(t, strings.HasPrefix(fix, original))
	assert.Contains(t, fix, "did not match the required format")
	assert.True(t, strings.HasSuffix(fix, RenameExampleOutput))
}
