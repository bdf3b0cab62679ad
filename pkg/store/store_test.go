package store

import (
	"database/sql"
	"testing"

	"github.com/project-causica/causica/pkg/registry"
	"github.com/project-causica/causica/pkg/store/model"
	"github.com/stretchr/testify/assert"
)

func TestResolutionCRUD(t *testing.T) {
	s := NewTest()
	defer func() {
		s.Close()
	}()

	resolution := &model.Resolution{
		Key:     "abc123",
		EnvName: "project-causica",
		Status:  model.StatusResolved,
		Result: &registry.Result{
			Key:     "abc123",
			EnvName: "project-causica",
			Resolutions: []registry.DependencyResolution{
				{Spec: "python=3.8.13", Kind: registry.KindConda, Channel: "defaults", Resolved: true},
			},
		},
	}

	err := s.SaveResolution(resolution)
	assert.Nil(t, err)
	assert.NotZero(t, resolution.Created)

	saved, err := s.ResolutionByKey("abc123")
	assert.Nil(t, err)
	assert.Equal(t, "project-causica", saved.EnvName)
	assert.Equal(t, model.StatusResolved, saved.Status)
	assert.Equal(t, 1, len(saved.Result.Resolutions))
	assert.Equal(t, "python=3.8.13", saved.Result.Resolutions[0].Spec)

	_, err = s.ResolutionByKey("unknown")
	assert.Equal(t, sql.ErrNoRows, err)

	resolutions, err := s.Resolutions(10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(resolutions))

	err = s.DeleteResolutionByKey("abc123")
	assert.Nil(t, err)

	_, err = s.ResolutionByKey("abc123")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestResolutionsReturnNewestFirst(t *testing.T) {
	s := NewTest()
	defer func() {
		s.Close()
	}()

	err := s.SaveResolution(&model.Resolution{Key: "first", EnvName: "env", Status: model.StatusResolved, Created: 100})
	assert.Nil(t, err)
	err = s.SaveResolution(&model.Resolution{Key: "second", EnvName: "env", Status: model.StatusFailed, Created: 200})
	assert.Nil(t, err)

	resolutions, err := s.Resolutions(10)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(resolutions))
	assert.Equal(t, "second", resolutions[0].Key)

	resolutions, err = s.Resolutions(1)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(resolutions))
}

func TestKeyValueCRUD(t *testing.T) {
	s := NewTest()
	defer func() {
		s.Close()
	}()

	err := s.SaveKeyValue(&model.KeyValue{Key: "registry-url", Value: "https://conda.anaconda.org"})
	assert.Nil(t, err)

	saved, err := s.KeyValue("registry-url")
	assert.Nil(t, err)
	assert.Equal(t, "https://conda.anaconda.org", saved.Value)

	err = s.SaveKeyValue(&model.KeyValue{Key: "registry-url", Value: "https://mirror.internal"})
	assert.Nil(t, err)

	saved, err = s.KeyValue("registry-url")
	assert.Nil(t, err)
	assert.Equal(t, "https://mirror.internal", saved.Value)
}
