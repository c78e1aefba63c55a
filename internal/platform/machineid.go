package platform

import (
	"errors"
	"regexp"
	"strings"
)

var errNoMachineID = errors.New("no machine id available")

var ioPlatformUUID = regexp.MustCompile(`"IOPlatformUUID"\s*=\s*"([^"]+)"`)

// parseIOPlatformUUID extracts the hardware UUID from `ioreg` output.
func parseIOPlatformUUID(out string) (string, error) {
	m := ioPlatformUUID.FindStringSubmatch(out)
	if m == nil {
		return "", errNoMachineID
	}
	return strings.TrimSpace(m[1]), nil
}
