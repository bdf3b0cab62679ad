package workflow

import "regexp"

var hashFilesRe = regexp.MustCompile(`hashFiles\(\s*'([^']+)'\s*\)`)
var cacheHitRe = regexp.MustCompile(`steps\.([A-Za-z0-9_-]+)\.outputs\.cache-hit`)

// HashFilesArgs extracts the file paths of the hashFiles('...') calls in a
// cache key expression
func HashFilesArgs(expr string) []string {
	var paths []string
	for _, m := range hashFilesRe.FindAllStringSubmatch(expr, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// CacheHitRefs extracts the step ids a condition reads cache-hit outputs from
func CacheHitRefs(cond string) []string {
	var ids []string
	for _, m := range cacheHitRe.FindAllStringSubmatch(cond, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
