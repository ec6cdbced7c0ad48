package grid

import (
	"fmt"
	"regexp"
	"strconv"
)

var durationComponent = regexp.MustCompile(`(?i)(\d+)\s*(d|h|m|s)`)

// parseSlurmTime converts a duration string like "2h", "30m", or "1h30m"
// into HH:MM:SS, one of Slurm's sbatch "-t" formats. Whole days are folded
// into the hours field ("1d" gives "24:00:00"); no DD- prefix is emitted.
func parseSlurmTime(d string) string {
	var days, hours, minutes, seconds int
	for _, m := range durationComponent.FindAllStringSubmatch(d, -1) {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "d", "D":
			days = n
		case "h", "H":
			hours = n
		case "m", "M":
			minutes = n
		case "s", "S":
			seconds = n
		}
	}
	hours += days * 24
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// parseMemMB converts a size string like "200M" or "4GB" into megabytes.
func parseMemMB(mem string) int {
	re := regexp.MustCompile(`(?i)^(\d+)\s*([KMGT]?B?)$`)
	m := re.FindStringSubmatch(mem)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	unit := ""
	if len(m[2]) > 0 {
		unit = m[2][:1]
	}
	switch unit {
	case "K", "k":
		return n / 1024
	case "G", "g":
		return n * 1024
	case "T", "t":
		return n * 1024 * 1024
	default:
		return n
	}
}
