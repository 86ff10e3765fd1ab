package image

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Partition is one row of a parted partition table printed in bytes.
type Partition struct {
	Number int
	Start  int64
	End    int64
	Size   int64
}

// ParsePartitions reads the table printed by `parted -s IMAGE unit b print`.
// Rows before the "Number" header are ignored.
func ParsePartitions(output string) ([]Partition, error) {
	var parts []Partition
	inTable := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "Number" {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("malformed partition row %q", scanner.Text())
		}

		num, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed partition number %q: %w", fields[0], err)
		}
		var bounds [3]int64
		for i := range bounds {
			v, err := strconv.ParseInt(strings.TrimSuffix(fields[i+1], "B"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("partition %d: malformed byte value %q: %w", num, fields[i+1], err)
			}
			bounds[i] = v
		}
		parts = append(parts, Partition{Number: num, Start: bounds[0], End: bounds[1], Size: bounds[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !inTable {
		return nil, fmt.Errorf("no partition table in parted output")
	}
	return parts, nil
}

// Largest returns the biggest partition, or false when parts is empty. Ties
// go to the lower partition number.
func Largest(parts []Partition) (Partition, bool) {
	if len(parts) == 0 {
		return Partition{}, false
	}
	best := parts[0]
	for _, p := range parts[1:] {
		if p.Size > best.Size {
			best = p
		}
	}
	return best, true
}
