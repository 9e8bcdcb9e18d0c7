package authz

import "strings"

// Permission formats an entity and action as "entity:action" with the
// action lowercased.
func Permission(entity, action string) string {
	return entity + ":" + strings.ToLower(action)
}

// MatchPattern reports whether pattern grants required. Both use the
// "entity:action" form, split at the last ':' so entity names may contain
// colons. Each side matches when it is "*", equal, or a trailing-"*" prefix:
//
//   - "*:*"               matches everything
//   - "widget-service:*"  matches every action on widget-service
//   - "*:read"            matches read on every entity
//   - "catalog-*:delete"  matches delete on catalog-api, catalog-web, ...
func MatchPattern(pattern, required string) bool {
	if pattern == required || pattern == "*" || pattern == "*:*" {
		return true
	}

	patEntity, patAction, patOK := cutLast(pattern)
	reqEntity, reqAction, reqOK := cutLast(required)
	if !patOK || !reqOK {
		return matchWildcard(pattern, required)
	}
	return matchWildcard(patEntity, reqEntity) && matchWildcard(patAction, reqAction)
}

// MatchAny returns true if any of the patterns match required.
func MatchAny(patterns []string, required string) bool {
	for _, p := range patterns {
		if MatchPattern(p, required) {
			return true
		}
	}
	return false
}

func cutLast(s string) (before, after string, found bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func matchWildcard(pattern, value string) bool {
	if pattern == "*" || pattern == value {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(value, prefix)
	}
	return false
}
