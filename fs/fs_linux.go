package fs

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var configDir string
var saveDir string

func init() {
	configDir = os.Getenv("HOME") + "/.config/engrave"
	saveDir = os.Getenv("HOME") + "/.local/share/engrave"
	err := os.MkdirAll(configDir, 0755)
	if err != nil {
		panic(err)
	}
	err = os.MkdirAll(saveDir, 0755)
	if err != nil {
		panic(err)
	}
}

func ConfigDir() string {
	return configDir
}

func SaveDir() string {
	return saveDir
}

func ReplaceFile(src, dst string) error {
	return os.Rename(src, dst)
}

func ExeDir() string {
	var path string
	if strings.Contains(os.Args[0], "/") {
		path = os.Args[0]
	} else {
		p, err := exec.LookPath(os.Args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "couldn't find self in path:", err)
			return "."
		}
		path = p
	}
	// absolute or relative path; just drop the executable name
	dirs := strings.Split(path, "/")
	return strings.Join(dirs[:len(dirs)-1], "/")
}
