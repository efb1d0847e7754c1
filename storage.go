package main

import (
	"time"

	"database/sql"
	_ "github.com/mattn/go-sqlite3"

	"sqweek.net/engrave/fs"
)

/* RenderDB tracks which midi files were derived from which scores, so
 * stale outputs can be found after a score is edited. */
type RenderDB interface {
	Outputs(scorefile string) ([]string, error)
	Record(scorefile, midifile string) error
}

type rendersSqlite struct {
	db *sql.DB
	initialised bool
}

var renderDB RenderDB = &rendersSqlite{}

func (r *rendersSqlite) withDB(fn func(db *sql.DB) error) (err error) {
	if r.db == nil {
		r.db, err = sql.Open("sqlite3", fs.SaveDir() + "/renders.db?_busy_timeout=3500")
		if err != nil {
			return err
		}
	}
	if !r.initialised {
		if err = r.createSchema(r.db); err != nil {
			return err
		}
		r.initialised = true
	}
	return fn(r.db)
}

func (r *rendersSqlite) createSchema(db *sql.DB) (err error) {
	var tx *sql.Tx
	if tx, err = db.Begin(); err == nil {
		var vers int
		defer commitUnlessErr(tx, &err)
		row := tx.QueryRow("PRAGMA schema_version;")
		if err = row.Scan(&vers); err == nil && vers == 0 {
			_, err = tx.Exec("CREATE TABLE renders (midi TEXT NOT NULL PRIMARY KEY, score TEXT NOT NULL, rendered INTEGER NOT NULL, CHECK(length(midi) > 0 AND length(score) > 0));")
		}
	}
	return
}

func (r *rendersSqlite) Outputs(scorefile string) (midifiles []string, err error) {
	err = r.withDB(func(db *sql.DB) (err error) {
		var rows *sql.Rows
		if rows, err = db.Query("SELECT midi FROM renders WHERE score = ?", scorefile); err == nil {
			defer rows.Close()
			for rows.Next() {
				var m string
				rows.Scan(&m)
				midifiles = append(midifiles, m)
			}
		}
		return
	})
	return
}

func (r *rendersSqlite) Record(scorefile, midifile string) error {
	return r.withDB(func(db *sql.DB) (err error) {
		var tx *sql.Tx
		if tx, err = db.Begin(); err != nil {
			return
		}
		defer commitUnlessErr(tx, &err)
		_, err = tx.Exec("INSERT OR REPLACE INTO renders VALUES (?, ?, ?)", midifile, scorefile, time.Now().Unix())
		return
	})
}

func commitUnlessErr(tx *sql.Tx, err *error) {
	if *err == nil {
		*err = tx.Commit()
	}
	if *err != nil {
		tx.Rollback()
	}
}
