package main

import (
	"encoding/json"
	"os"
	"time"

	"sqweek.net/engrave/fs"
	"sqweek.net/engrave/log"
)

type ConfigJSON struct {
	FS struct {
		SaveDir string
	}
	MIDI struct {
		Tempo float64 /* quarter notes per minute */
		TicksPerQuarter int
	}
}

var Cfg struct {
	ConfigJSON

	mtime time.Time // mtime of the config file when it was loaded
}

func confinit() {
	Cfg.FS.SaveDir = fs.SaveDir()
	Cfg.MIDI.Tempo = 120
	Cfg.MIDI.TicksPerQuarter = 960
	mtime, p, err := ReadConfig(fs.ConfigDir() + "/engrave.json")
	if err == nil {
		applyConfig(mtime, &p)
	} else if !os.IsNotExist(err) {
		log.FS.Println("loading config failed:", err)
	}
}

func ReadConfig(path string) (mtime time.Time, p ConfigJSON, err error) {
	var f *os.File
	var st os.FileInfo
	if st, err = os.Stat(path); err == nil {
		mtime = st.ModTime()
		if f, err = os.Open(path); err == nil {
			defer f.Close()
			j := json.NewDecoder(f)
			err = j.Decode(&p)
		}
	}
	return
}

// Applies a parsed config to the memory model
func applyConfig(mtime time.Time, params *ConfigJSON) {
	if params.FS.SaveDir != "" {
		Cfg.FS.SaveDir = params.FS.SaveDir
	}
	if params.MIDI.Tempo > 0 {
		Cfg.MIDI.Tempo = params.MIDI.Tempo
	}
	if params.MIDI.TicksPerQuarter > 0 {
		Cfg.MIDI.TicksPerQuarter = params.MIDI.TicksPerQuarter
	}
	Cfg.mtime = mtime
}
