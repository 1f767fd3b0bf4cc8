package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// memoryShare is the part of available memory frame buffers may claim.
const memoryShare = 0.5

// Workers picks the number of parallel frame renderers. A positive request
// wins; otherwise the logical CPU count is used. Either way the result is
// lowered until workers*frameBytes fits in half the available memory.
func Workers(requested int, frameBytes int64) int {
	n := requested
	if n <= 0 {
		n = logicalCPUs()
	}

	if frameBytes > 0 {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
			limit := int64(float64(vm.Available)*memoryShare) / frameBytes
			if limit < int64(n) {
				n = int(limit)
			}
		}
	}
	return max(n, 1)
}

func logicalCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// DocumentExtensions are the path document formats FindLatestDocument
// looks for.
var DocumentExtensions = []string{".json", ".yaml", ".yml"}

// FindLatestDocument returns the most recently modified path document in dir.
func FindLatestDocument(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), DocumentExtensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no path documents found in %s", dir)
	}

	return latestFile, nil
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// OutputName builds output/<base>_<timestamp>.<ext> for an input file.
func OutputName(dir, input, ext string) string {
	base := "signature"
	if input != "" {
		name := filepath.Base(input)
		base = strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), " ", "_")
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext))
}
