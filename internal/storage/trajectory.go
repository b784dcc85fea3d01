package storage

import (
	"database/sql"

	"github.com/go-gl/mathgl/mgl32"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/orbitsim/internal/sim"
)

const schema = `
CREATE TABLE frames (
	frame 	INTEGER,
	tick 	INTEGER,
	time 	REAL,
	id 		INTEGER, -- body index
	x 		REAL,
	y 		REAL,
	z 		REAL);
CREATE INDEX idx_frame ON frames (frame, id);
`

const insert = `INSERT INTO frames VALUES (?, ?, ?, ?, ?, ?, ?);`
const queryFrames = `SELECT frame, tick, time, id, x, y, z FROM frames ORDER BY frame ASC, id ASC;`

func opendb(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
}

// writeTrajectory stores every frame in one transaction.
func writeTrajectory(path string, frames []sim.Frame) error {
	db, err := opendb(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, f := range frames {
		for id, p := range f.Positions {
			if _, err := stmt.Exec(i, f.Tick, f.Time, id, p[0], p[1], p[2]); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	return tx.Commit()
}

func readTrajectory(path string) ([]sim.Frame, error) {
	db, err := opendb(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(queryFrames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frames := make([]sim.Frame, 0)
	current := -1
	for rows.Next() {
		var (
			frame, tick, id int
			t               float64
			x, y, z         float64
		)
		if err := rows.Scan(&frame, &tick, &t, &id, &x, &y, &z); err != nil {
			return nil, err
		}
		if frame != current {
			frames = append(frames, sim.Frame{Tick: tick, Time: t})
			current = frame
		}
		last := &frames[len(frames)-1]
		last.Positions = append(last.Positions, mgl32.Vec3{float32(x), float32(y), float32(z)})
	}

	return frames, rows.Err()
}
