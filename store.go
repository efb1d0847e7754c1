package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"sqweek.net/engrave/fs"
	"sqweek.net/engrave/log"
)

func IsScoreFilename(file string) bool {
	return strings.HasSuffix(strings.ToLower(file), ".json")
}

/* ScoreFile maps a bare score name into the save directory. */
func ScoreFile(name string) string {
	if !IsScoreFilename(name) {
		name += ".json"
	}
	return fs.SaveDir() + "/" + name
}

func LoadScore(path string) (*SavedScore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var saved SavedScore
	if err := json.NewDecoder(f).Decode(&saved); err != nil {
		return nil, err
	}
	if saved.Version == 0 {
		saved.Version = currentVersion
	}
	return &saved, nil
}

func SaveScore(path string, saved *SavedScore) (err error) {
	var tmpfile *os.File
	d, f := filepath.Split(path)
	if tmpfile, err = os.CreateTemp(d, f); err == nil {
		enc := json.NewEncoder(tmpfile)
		enc.SetIndent("", "  ")
		err = enc.Encode(saved)
		tmpfile.Close()
		if err == nil {
			err = fs.ReplaceFile(tmpfile.Name(), path)
		} else {
			os.Remove(tmpfile.Name())
		}
	}
	if err == nil {
		log.FS.Printf("saved %s", path)
	}
	return
}
