package device

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// MuMu Player 12 exposes each instance on a predictable ADB port.
const (
	mumuBasePort      = 16384
	mumuPortIncrement = 32
	mumuMaxInstances  = 10
)

// DiscoverMuMu connects to every reachable MuMu 12 instance and
// returns the serials that respond to a shell probe. Unresponsive or
// refused ports are silently skipped.
func DiscoverMuMu(adbPath string) []string {
	if adbPath == "" {
		adbPath = "adb"
	}

	var connected []string
	for i := 0; i < mumuMaxInstances; i++ {
		port := mumuBasePort + i*mumuPortIncrement
		address := fmt.Sprintf("127.0.0.1:%d", port)

		out, err := exec.Command(adbPath, "connect", address).CombinedOutput()
		if err != nil {
			continue
		}
		s := strings.ToLower(string(out))
		if !strings.Contains(s, "connected") ||
			strings.Contains(s, "cannot") || strings.Contains(s, "refused") {
			continue
		}
		if responsive(adbPath, address) {
			connected = append(connected, address)
		}
	}
	return connected
}

// responsive runs a trivial shell command with a short deadline; a
// port can accept the connection and still belong to a dead instance.
func responsive(adbPath, serial string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, adbPath, "-s", serial, "shell", "echo", "ok").Output()
	return err == nil && strings.Contains(string(out), "ok")
}
