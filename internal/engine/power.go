package engine

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const lowBatteryPct = 20

// systemLowPower reports whether the host runs on a discharging battery
// below lowBatteryPct. Hosts without a battery always report false.
func systemLowPower() bool {
	supplies, err := filepath.Glob("/sys/class/power_supply/BAT*")
	if err != nil {
		return false
	}
	for _, dir := range supplies {
		status, err := os.ReadFile(filepath.Join(dir, "status"))
		if err != nil || strings.TrimSpace(string(status)) != "Discharging" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err == nil && pct <= lowBatteryPct {
			return true
		}
	}
	return false
}
