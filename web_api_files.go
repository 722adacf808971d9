package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// listedExtensions limits the project files view to source and text files.
var listedExtensions = []string{".go", ".md", ".txt"}

// FileEntry is one row of the project files view.
type FileEntry struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	Modified  time.Time `json:"modified"`
}

// listProjectFiles enumerates matching files in dir, non-recursive, sorted
// by name.
func listProjectFiles(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasListedExtension(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			Modified:  info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func hasListedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range listedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (ws *WebServer) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	files, err := listProjectFiles(".")
	if err != nil {
		GetLogger().Warnf("Failed to list project files: %v", err)
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(files); err != nil {
		http.Error(w, "Failed to encode files", http.StatusInternalServerError)
	}
}
