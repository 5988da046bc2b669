package github

import (
	"bufio"
	"regexp"
	"strings"
)

var (
	archieKey     = regexp.MustCompile(`^\s*([A-Za-z0-9\-_.]+)[ \t\r]*:[ \t\r]*(.*)$`)
	archieCommand = regexp.MustCompile(`^\s*:[ \t]*(ignore|skip|endskip)\b`)
)

// ParseArchieML reads the top level key: value pairs of an ArchieML
// document. Later keys replace earlier ones, text after :ignore is
// dropped and :skip ... :endskip blocks are passed over.
func ParseArchieML(doc string) map[string]string {
	values := make(map[string]string)
	skipping := false

	sc := bufio.NewScanner(strings.NewReader(doc))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()

		if m := archieCommand.FindStringSubmatch(strings.ToLower(line)); m != nil {
			switch m[1] {
			case "ignore":
				return values
			case "skip":
				skipping = true
			case "endskip":
				skipping = false
			}
			continue
		}
		if skipping {
			continue
		}

		if m := archieKey.FindStringSubmatch(line); m != nil {
			values[m[1]] = strings.TrimSpace(m[2])
		}
	}

	return values
}
