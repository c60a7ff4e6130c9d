package task

import "skuntir.com/BuildScripts/internal/script"

// Built-in task names.
const (
	CreateReleaseBranch        = "createReleaseBranch"
	GenerateReleaseNotes       = "generateReleaseNotes"
	BumpMinorVersion           = "bumpMinorVersion"
	UpdateTranslationsPhrase   = "updateTranslationsPhrase"
	UpdateTranslationsLokalise = "updateTranslationsLokalise"
)

var releaseNotesScript = script.Script{
	FileName:     "generate_release_notes.sh",
	Dependencies: []string{"utils.sh"},
}

// Builtin returns every bundled task, in the order the CLI lists them.
func Builtin(runner ScriptRunner) []Task {
	return []Task{
		NewScriptTask(CreateReleaseBranch,
			"Check out release/<version> from HEAD and tag it as an internal release",
			script.Script{FileName: "create_release_branch.sh", Dependencies: []string{"utils.sh"}},
			runner),
		NewReleaseNotesTask(runner),
		NewScriptTask(BumpMinorVersion,
			"Bump the minor version and commit the change to the current branch",
			script.Script{FileName: "bump_minor_version.sh", Dependencies: []string{"utils.sh", "semver.sh"}},
			runner),
		NewScriptTask(UpdateTranslationsPhrase,
			"Download the Phrase CLI and pull the latest translations",
			script.Script{FileName: "update_translations_phrase_v1.17.1.sh", Dependencies: []string{"utils.sh"}},
			runner),
		NewScriptTask(UpdateTranslationsLokalise,
			"Download the Lokalise CLI and pull the latest translations",
			script.Script{FileName: "update_translations_lokalise_v2.sh", Dependencies: []string{"utils.sh"}},
			runner),
	}
}

// NewBuiltinRegistry registers Builtin(runner).
func NewBuiltinRegistry(runner ScriptRunner) *Registry {
	reg := NewRegistry()
	for _, t := range Builtin(runner) {
		reg.Register(t)
	}
	return reg
}
