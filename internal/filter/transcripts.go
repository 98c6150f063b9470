package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// transcriptColumns are header names recognised in transcript list TSVs.
var transcriptColumns = []string{"Transcript", "transcript_id", "RefSeq"}

// LoadTranscriptList loads transcript IDs for the list transcript filter.
// The file holds either one ID per line, or a TSV whose header has a
// "Transcript", "transcript_id" or "RefSeq" column. Lines starting with
// "#" and blank lines are ignored.
func LoadTranscriptList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	col := 0
	first := true
	var ids []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")

		if first {
			first = false
			if idx := headerColumn(fields); idx >= 0 {
				col = idx
				continue
			}
		}

		if col >= len(fields) {
			continue
		}
		if id := strings.TrimSpace(fields[col]); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript list: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("transcript list %s: no transcript IDs", path)
	}

	return ids, nil
}

func headerColumn(fields []string) int {
	for i, f := range fields {
		for _, name := range transcriptColumns {
			if strings.TrimSpace(f) == name {
				return i
			}
		}
	}
	return -1
}
