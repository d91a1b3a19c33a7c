package types

import "regexp"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MaxIdentLen bounds database, table and column names.
const MaxIdentLen = 64

// ValidIdentifier reports whether name can be used as a database, table or
// column name. The character set keeps '-' and '.' free for file naming.
func ValidIdentifier(name string) bool {
	return len(name) <= MaxIdentLen && identRe.MatchString(name)
}
