package rtmagent

import "strings"

const namespacePrefix = "rtm."

// ResolveMethod maps a call-style name onto the remote operation name:
// any "::"-qualified prefix is stripped, underscores become dots, and the
// rtm. namespace is prepended unless already present. "tasks_getList",
// "tasks.getList", and "rtm.tasks.getList" all resolve to
// "rtm.tasks.getList".
func ResolveMethod(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	name = strings.ReplaceAll(name, "_", ".")
	if !strings.HasPrefix(name, namespacePrefix) {
		name = namespacePrefix + name
	}
	return name
}
