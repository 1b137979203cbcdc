package policy

// Raw disk device families. Pseudo devices such as /dev/null are not listed.
const blockDevices = `(?:sd|hd|vd|xvd|nvme|mmcblk|disk|rdisk|loop|md|dm-|mapper/)`

// filesystemRules cover local deletion and overwrite.
// The rm rules accept the recursive and force flags combined in one token
// (-rf, -fr, -Rf, -rfv) or as separate tokens in either order, with other
// arguments in between. Force alone (rm -f file) is not matched.
func filesystemRules() []Rule {
	return []Rule{
		rule("rm-recursive-force", Filesystem,
			"recursive forced delete",
			`\brm\s+(?:.*\s)?-[a-zA-Z]*(?:[rR][a-zA-Z]*f|f[a-zA-Z]*[rR])`),
		rule("rm-recursive-then-force", Filesystem,
			"recursive forced delete",
			`\brm\s+(?:.*\s)?(?:-[a-zA-Z]*[rR][a-zA-Z]*|--recursive)\s+(?:.*\s)?(?:-[a-zA-Z]*f[a-zA-Z]*|--force)(?:\s|$)`),
		rule("rm-force-then-recursive", Filesystem,
			"recursive forced delete",
			`\brm\s+(?:.*\s)?(?:-[a-zA-Z]*f[a-zA-Z]*|--force)\s+(?:.*\s)?(?:-[a-zA-Z]*[rR][a-zA-Z]*|--recursive)(?:\s|$)`),
		rule("rm-no-preserve-root", Filesystem,
			"delete without root protection",
			`\brm\s+(?:.*\s)?--no-preserve-root\b`),
		rule("find-delete", Filesystem,
			"find with -delete removes every match",
			`\bfind\s+(?:.*\s)?-delete\b`),
		rule("find-exec-rm", Filesystem,
			"find hands every match to rm",
			`\bfind\s+.*(?:-exec(?:dir)?\s+(?:\S*/)?rm\b|\|\s*xargs\s+(?:.*\s)?(?:\S*/)?rm\b)`),
		rule("dd-device", Filesystem,
			"dd writes directly to a block device",
			`\bdd\s+(?:.*\s)?of=/dev/`+blockDevices),
		rule("device-redirect", Filesystem,
			"redirection overwrites a block device",
			`>\s*/dev/`+blockDevices),
		rule("secure-erase", Filesystem,
			"secure erase destroys data beyond recovery",
			`\b(?:shred|wipe|wipefs|srm)(?:\s|$)`),
		rule("truncate-zero", Filesystem,
			"truncates a file to zero length",
			`\btruncate\s+(?:.*\s)?(?:-s\s*0|--size(?:\s+|=)0)(?:\s|$)`),
	}
}
