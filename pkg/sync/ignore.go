package sync

import (
	"bufio"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// builtinIgnores are temporary files created by DAWs and operating systems.
// Project rules are applied after them, so they can be re-included with `!`.
var builtinIgnores = []string{
	// Ableton Live
	"*.tmp",
	"Backup/",
	"*.asd",

	// Logic Pro
	"*.autosave",

	// FL Studio
	"*.flpbackup",

	// Common temporary files
	".DS_Store",
	"Thumbs.db",
	"*.bak",
	"*.swp",

	config.MetadataDir + "/",
}

type ignoreRule struct {
	pattern  string
	matchers []glob.Glob

	negate  bool
	dirOnly bool

	// anchored rules match the full relative path. Other rules match the
	// base name at any depth.
	anchored bool
}

func (rule ignoreRule) match(relPath string) bool {
	if !rule.anchored {
		relPath = path.Base(relPath)
	}
	for _, matcher := range rule.matchers {
		if matcher.Match(relPath) {
			return true
		}
	}
	return false
}

// IgnoreRules decides which paths in a project aren't tracked. It follows
// gitignore semantics: the last matching rule wins, `!` negates a rule, a
// trailing `/` only matches directories, and a rule containing a `/` is
// relative to the project root.
type IgnoreRules struct {
	rules []ignoreRule
}

// ParseIgnoreRules compiles the built-in rules followed by `patterns`. Blank
// lines and lines starting with `#` are skipped.
func ParseIgnoreRules(patterns []string) (*IgnoreRules, error) {
	rules := &IgnoreRules{}
	for _, pattern := range append(append([]string{}, builtinIgnores...), patterns...) {
		rule, ok, err := compileIgnoreRule(pattern)
		if err != nil {
			return nil, errors.NewFriendlyError(
				"Invalid ignore pattern %q in %s:\n%s", pattern, config.IgnoreFile, err)
		}
		if ok {
			rules.rules = append(rules.rules, rule)
		}
	}
	return rules, nil
}

// LoadIgnoreRules returns the built-in rules merged with the rules in the
// project's ignore file, if it exists.
func LoadIgnoreRules(root string) (*IgnoreRules, error) {
	ignorePath := filepath.Join(root, config.IgnoreFile)
	contents, err := afero.ReadFile(fs, ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.NewLocalIoError(ignorePath, err)
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewLocalIoError(ignorePath, err)
	}
	return ParseIgnoreRules(patterns)
}

func compileIgnoreRule(line string) (ignoreRule, bool, error) {
	pattern := strings.TrimSpace(line)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return ignoreRule{}, false, nil
	}

	rule := ignoreRule{pattern: pattern}
	if strings.HasPrefix(pattern, "!") {
		rule.negate = true
		pattern = pattern[1:]
	}

	if strings.HasSuffix(pattern, "/") {
		rule.dirOnly = true
		pattern = strings.TrimRight(pattern, "/")
	}

	if strings.Contains(pattern, "/") {
		rule.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	}

	if pattern == "" {
		return ignoreRule{}, false, nil
	}

	for _, variant := range expandDoubleStar(literalBraces.Replace(pattern)) {
		matcher, err := glob.Compile(variant, '/')
		if err != nil {
			return ignoreRule{}, false, err
		}
		rule.matchers = append(rule.matchers, matcher)
	}
	return rule, true, nil
}

// literalBraces escapes the glob alternation syntax, which ignore files
// don't support.
var literalBraces = strings.NewReplacer("{", `\{`, "}", `\}`, ",", `\,`)

// expandDoubleStar returns the variants of `pattern` where each `**/` may
// also match zero directories. For example, `a/**/b` also matches `a/b`.
func expandDoubleStar(pattern string) []string {
	if strings.HasPrefix(pattern, "**/") {
		var variants []string
		for _, rest := range expandDoubleStar(pattern[len("**/"):]) {
			variants = append(variants, rest, "**/"+rest)
		}
		return variants
	}

	i := strings.Index(pattern, "/**/")
	if i < 0 {
		return []string{pattern}
	}

	var variants []string
	for _, rest := range expandDoubleStar(pattern[i+len("/**/"):]) {
		variants = append(variants, pattern[:i]+"/"+rest, pattern[:i]+"/**/"+rest)
	}
	return variants
}

// Match returns whether the slash-separated relative path should be ignored.
func (r *IgnoreRules) Match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, rule := range r.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		if rule.match(relPath) {
			ignored = !rule.negate
		}
	}
	return ignored
}
