package policy

// versioningRules cover git operations that rewrite or discard history.
// Specific rules come first so the reported rule is the most precise one;
// git-force catches any remaining invocation carrying a force flag.
func versioningRules() []Rule {
	return []Rule{
		rule("git-push-force", Versioning,
			"force push overwrites remote history",
			`\bgit\s+push\s+(?:.*\s)?--force`),
		rule("git-push-force-short", Versioning,
			"force push overwrites remote history",
			`\bgit\s+push\s+(?:.*\s)?-[a-zA-Z]*f[a-zA-Z]*(?:\s|$)`),
		rule("git-push-force-refspec", Versioning,
			"a +refspec force-updates the remote ref",
			`\bgit\s+push\s+(?:.*\s)?\+\S`),
		rule("git-push-delete", Versioning,
			"push --delete removes remote branches or tags",
			`\bgit\s+push\s+(?:.*\s)?(?:--delete|-d)(?:\s|$)`),
		rule("git-push-delete-refspec", Versioning,
			"an empty :refspec deletes the remote ref",
			`\bgit\s+push\s+(?:.*\s)?:\S`),
		rule("git-push-mirror", Versioning,
			"mirror and prune pushes delete remote refs",
			`\bgit\s+push\s+(?:.*\s)?--(?:mirror|prune)\b`),
		rule("git-branch-delete", Versioning,
			"deletes a local branch",
			`\bgit\s+branch\s+(?:.*\s)?(?:-[a-zA-Z]*[dD][a-zA-Z]*|--delete)(?:\s|$)`),
		rule("git-tag-delete", Versioning,
			"deletes a tag",
			`\bgit\s+tag\s+(?:.*\s)?(?:-d|--delete)(?:\s|$)`),
		rule("git-reset-hard", Versioning,
			"hard reset discards uncommitted work",
			`\bgit\s+reset\s+(?:.*\s)?--hard\b`),
		rule("git-clean-force", Versioning,
			"forced clean deletes untracked files",
			`\bgit\s+clean\s+(?:.*\s)?(?:-[a-zA-Z]*f[a-zA-Z]*|--force)(?:\s|$)`),
		rule("git-stash-drop", Versioning,
			"drops stashed changes",
			`\bgit\s+stash\s+(?:drop|clear)\b`),
		rule("git-rm", Versioning,
			"removes tracked files",
			`\bgit\s+rm\b`),
		rule("git-force", Versioning,
			"git invocation with a force flag",
			`\bgit\s+(?:.*\s)?(?:--force|-f(?:\s|$))`),
	}
}
