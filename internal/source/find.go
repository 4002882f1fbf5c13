package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// Find returns the folder name under videosDir whose checkpoint records url.
// It reads only the url field so it does not depend on the checkpoint package.
func Find(videosDir, url string) (string, bool) {
	entries, err := os.ReadDir(videosDir)
	if err != nil {
		return "", false
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(videosDir, name, checkpointName))
		if err != nil {
			continue
		}
		var rec struct {
			URL string `json:"url"`
		}
		if json.Unmarshal(data, &rec) != nil {
			continue
		}
		if rec.URL == url {
			return name, true
		}
	}
	return "", false
}
