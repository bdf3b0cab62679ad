package store

import (
	"time"

	"github.com/project-causica/causica/pkg/store/model"
	"github.com/project-causica/causica/pkg/store/sql"
	"github.com/russross/meddler"
)

// SaveResolution stores a resolve run
func (db *Store) SaveResolution(resolution *model.Resolution) error {
	if resolution.Created == 0 {
		resolution.Created = time.Now().Unix()
	}
	return meddler.Insert(db, "resolutions", resolution)
}

// ResolutionByKey returns the most recent resolution for a manifest hash
func (db *Store) ResolutionByKey(key string) (*model.Resolution, error) {
	stmt := sql.Stmt(db.driver, sql.SelectResolutionByKey)
	data := new(model.Resolution)
	err := meddler.QueryRow(db, data, stmt, key)
	return data, err
}

// Resolutions returns the latest resolutions, newest first
func (db *Store) Resolutions(limit int) ([]*model.Resolution, error) {
	stmt := sql.Stmt(db.driver, sql.SelectResolutions)
	data := []*model.Resolution{}
	err := meddler.QueryAll(db, &data, stmt, limit)
	return data, err
}

// DeleteResolutionByKey evicts stored resolutions for a manifest hash
func (db *Store) DeleteResolutionByKey(key string) error {
	stmt := sql.Stmt(db.driver, sql.DeleteResolutionByKey)
	_, err := db.Exec(stmt, key)
	return err
}
