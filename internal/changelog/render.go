package changelog

import (
	"fmt"
	"strings"
	"time"
)

func subjectLine(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}

func renderEntries(target, previous string, when time.Time, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s - %s\n\n", target, when.UTC().Format("2006-01-02"))
	if previous != "" {
		fmt.Fprintf(&b, "Changes since `%s`:\n\n", previous)
	} else {
		b.WriteString("First release; full history:\n\n")
	}
	for _, entry := range entries {
		fmt.Fprintf(&b, "* %s %s (%s)\n", entry.ShortHash, entry.Subject, entry.Author)
	}
	return b.String()
}
