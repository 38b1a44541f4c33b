package errors

import "fmt"

// WorkspaceNotFound reports a missing or unreadable root manifest.
func WorkspaceNotFound(root, manifest string, err error) *CLIError {
	return WrapWithMessage(err, Workspace,
		fmt.Sprintf("no workspace found in %s", root),
		fmt.Sprintf("Check that %s exists and lists the workspace members", manifest),
		"Point wsbump at the workspace with --root <dir>",
		"Or set root_manifest in .wsbump/config.yml",
	)
}

// InvalidManifest reports a member manifest that cannot be used.
func InvalidManifest(err error) *CLIError {
	return Wrap(err, Workspace,
		"Every member manifest needs a \"name\" and a strict semver \"version\" (e.g. 1.2.3)",
		"Check member_manifests in .wsbump/config.yml if the manifest uses another file name",
	)
}

// NotAGitRepository reports that the workspace is not inside a git repository.
func NotAGitRepository(path string, err error) *CLIError {
	return WrapWithMessage(err, History,
		fmt.Sprintf("%s is not inside a git repository", path),
		"Run wsbump from within the repository, or pass --root",
	)
}

// InvalidRevision reports a start or base revision that cannot be resolved.
func InvalidRevision(flag, rev string, err error) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  fmt.Sprintf("cannot resolve %s revision %q", flag, rev),
		Usage:    "wsbump plan --start <tag|branch|hash> --base <tag|branch|hash>",
		Remediation: []string{
			"List tags with: git tag --sort=-creatordate",
			"Fetch missing history with: git fetch --tags --unshallow",
		},
		Cause: err,
	}
}

// InconsistentVersion reports a hand-edited version from which no change can be derived.
func InconsistentVersion(err error) *CLIError {
	return WrapWithMessage(err, Version,
		"cannot reconcile manually edited version",
		"A version was changed by hand since the start revision, but not to a higher version",
		"Restore the previous version or set a version that is greater than it",
	)
}

// DiagnosticsPresent reports commits that could not be used while fail_on_diagnostics is set.
func DiagnosticsPresent(count int) *CLIError {
	return New(Runtime,
		fmt.Sprintf("%d commit(s) could not be attributed to a module", count),
		"Reword the listed commits as <kind>(<module>): <description>",
		"Or run without --fail-on-diagnostics to only report them",
	)
}

// InvalidFormat reports an unsupported --format value.
func InvalidFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unsupported output format %q", format),
		"wsbump plan --format text|json|yaml",
		"Use one of: text, json, yaml",
	)
}

// ConfigLoadFailed reports a configuration that could not be loaded.
func ConfigLoadFailed(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"loading configuration",
		"Check .wsbump/config.yml and WSBUMP_* environment variables",
		"See all keys with: wsbump config keys",
	)
}

// WriteFailed reports a manifest that could not be updated by apply.
func WriteFailed(module string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("updating version of %s", module),
		"Check that the manifest is writable",
		"Manifests already updated are left in place; rerun after fixing the error",
	)
}
