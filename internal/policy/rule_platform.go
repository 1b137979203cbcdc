package policy

// platformRules cover GitHub CLI calls that delete or force-modify
// resources on the hosting platform.
func platformRules() []Rule {
	return []Rule{
		rule("gh-repo-delete", Platform,
			"deletes a repository",
			`\bgh\s+repo\s+delete\b`),
		rule("gh-release-delete", Platform,
			"deletes a release or its assets",
			`\bgh\s+release\s+delete`),
		rule("gh-resource-delete", Platform,
			"deletes a tag, pull request or branch",
			`\bgh\s+(?:tag|pr|branch)\s+delete\b`),
		rule("gh-api-delete-ref", Platform,
			"API DELETE on a git ref",
			`\bgh\s+api\s+(?:.*\s)?(?:-X|--method)[\s=]*DELETE\b.*refs/`),
		rule("gh-api-ref-delete", Platform,
			"API DELETE on a git ref",
			`\bgh\s+api\s+.*refs/.*(?:-X|--method)[\s=]*DELETE\b`),
		rule("gh-api-delete", Platform,
			"API call with the DELETE method",
			`\bgh\s+api\s+(?:.*\s)?(?:-X|--method)[\s=]*DELETE\b`),
		rule("gh-pr-merge-admin", Platform,
			"admin merge bypasses branch protection",
			`\bgh\s+pr\s+merge\s+(?:.*\s)?--admin\b`),
		rule("gh-force", Platform,
			"gh invocation with a force flag",
			`\bgh\s+(?:.*\s)?(?:--force|-f(?:\s|$))`),
	}
}
