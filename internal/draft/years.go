package draft

import (
	"fmt"
	"strconv"
	"strings"
)

var DecadeLabels = []string{
	"1950-1959",
	"1960-1969",
	"1970-1979",
	"1980-1989",
	"1990-1999",
	"2000-2009",
	"2010-2019",
	"2020-2029",
}

// ParseYearLabel parses "1990-1999" into its bounds.
func ParseYearLabel(label string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(label), "-", 2)
	if len(parts) != 2 {
		return 0, 0, ErrInvalidYearLabel
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, ErrInvalidYearLabel
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, ErrInvalidYearLabel
	}
	if start < 1800 || end < start {
		return 0, 0, ErrInvalidYearLabel
	}
	return start, end, nil
}

func YearLabel(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}
