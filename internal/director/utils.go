package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// GenerateScenarioPath creates a timestamped timing scenario filename in dir
func GenerateScenarioPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("timing_%s.yaml", timestamp))
}
