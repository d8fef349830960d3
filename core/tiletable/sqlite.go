// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package tiletable

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clemtools/icat/core/transform"
)

// SQLite persistence for tile tables, for ad-hoc joins between pipeline
// stages without pulling everything from the server again. Rows are keyed by
// (stack, tileId) and upserted, so re-running an import refreshes in place.

type DB struct {
	conn *sql.DB
}

func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(`CREATE TABLE IF NOT EXISTS tiles (
		stack TEXT NOT NULL,
		tileId TEXT NOT NULL,
		z REAL NOT NULL,
		width INTEGER, height INTEGER,
		minIntensity INTEGER, maxIntensity INTEGER,
		sectionId TEXT, scopeId TEXT, cameraId TEXT,
		imageRow INTEGER, imageCol INTEGER,
		stageX REAL, stageY REAL, pixelsize REAL,
		imageUrl TEXT,
		transformCount INTEGER,
		transform TEXT,
		PRIMARY KEY (stack, tileId)
	)`)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// StoreRows - upserts rows in one transaction
func (db *DB) StoreRows(rows []Row) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO tiles (
		stack, tileId, z, width, height, minIntensity, maxIntensity,
		sectionId, scopeId, cameraId, imageRow, imageCol,
		stageX, stageY, pixelsize, imageUrl, transformCount, transform
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(stack, tileId) DO UPDATE SET
		z=excluded.z, width=excluded.width, height=excluded.height,
		minIntensity=excluded.minIntensity, maxIntensity=excluded.maxIntensity,
		sectionId=excluded.sectionId, scopeId=excluded.scopeId, cameraId=excluded.cameraId,
		imageRow=excluded.imageRow, imageCol=excluded.imageCol,
		stageX=excluded.stageX, stageY=excluded.stageY, pixelsize=excluded.pixelsize,
		imageUrl=excluded.imageUrl, transformCount=excluded.transformCount,
		transform=excluded.transform`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			row.Stack, row.TileID, row.Z, row.Width, row.Height,
			row.MinIntensity, row.MaxIntensity,
			row.SectionID, row.ScopeID, row.CameraID,
			row.ImageRow, row.ImageCol,
			row.StageX, row.StageY, row.Pixelsize,
			row.ImageURL, row.TransformCount, row.Transform.String(),
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// QueryStack - all rows for a stack, ordered by z then tileId
func (db *DB) QueryStack(stack string) ([]Row, error) {
	return db.query(`SELECT * FROM tiles WHERE stack = ? ORDER BY z, tileId`, stack)
}

// QueryZ - rows for one section of a stack
func (db *DB) QueryZ(stack string, z float64) ([]Row, error) {
	return db.query(`SELECT * FROM tiles WHERE stack = ? AND z = ? ORDER BY tileId`, stack, z)
}

func (db *DB) query(q string, args ...interface{}) ([]Row, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		row := Row{}
		transformStr := ""
		err := rows.Scan(
			&row.Stack, &row.TileID, &row.Z, &row.Width, &row.Height,
			&row.MinIntensity, &row.MaxIntensity,
			&row.SectionID, &row.ScopeID, &row.CameraID,
			&row.ImageRow, &row.ImageCol,
			&row.StageX, &row.StageY, &row.Pixelsize,
			&row.ImageURL, &row.TransformCount, &transformStr,
		)
		if err != nil {
			return nil, err
		}
		row.Transform, err = transform.ParseAffineString(transformStr)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
