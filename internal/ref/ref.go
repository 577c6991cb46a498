package ref

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var refRe = regexp.MustCompile(`^MR/(\d{4})/(\d{5})$`)

// ParsedRef holds the structured parts of a request reference number.
type ParsedRef struct {
	Year int
	Seq  int
}

// Generate produces a reference number in the MR/YYYY/NNNNN format. The
// serial comes from a fresh UUID, so collisions are caught by the unique
// index rather than coordinated here.
func Generate(now time.Time) string {
	serial := uuid.New().ID() % 100000
	return fmt.Sprintf("MR/%d/%05d", now.Year(), serial)
}

// Parse validates and decomposes a reference number.
func Parse(raw string) (ParsedRef, error) {
	m := refRe.FindStringSubmatch(raw)
	if m == nil {
		return ParsedRef{}, fmt.Errorf("unable to parse reference: %q", raw)
	}
	year, _ := strconv.Atoi(m[1])
	seq, _ := strconv.Atoi(m[2])
	return ParsedRef{Year: year, Seq: seq}, nil
}
