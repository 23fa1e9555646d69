package platforms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PostFox/app/models"
)

func TestNewStaticRegistryKeepsOrderAndSkipsInvalid(t *testing.T) {
	reg := NewStaticRegistry([]Platform{
		{ID: "b", Name: "B"},
		{ID: "", Name: "missing id"},
		{ID: "a", Name: "A", RequiredPlan: "PRO", FeatureID: "multi-platform-sync"},
		{ID: "b", Name: "duplicate"},
		{ID: "c", Name: "C", RequiredPlan: "enterprise"},
	})

	require.Equal(t, 2, reg.Len())
	all := reg.All()
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "pro", all[1].RequiredPlan)

	b, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "B", b.Name)
	assert.True(t, b.Open())

	_, ok = reg.Lookup("c")
	assert.False(t, ok)
}

func TestNilRegistry(t *testing.T) {
	var reg *StaticRegistry
	_, ok := reg.Lookup("wechat")
	assert.False(t, ok)
	assert.Nil(t, reg.All())
	assert.Zero(t, reg.Len())
}

type fakePlatformRepo struct {
	rows     []models.Platform
	err      error
	upserted []models.Platform
}

func (f *fakePlatformRepo) ListActive() ([]models.Platform, error) { return f.rows, f.err }
func (f *fakePlatformRepo) GetBySlug(slug string) (*models.Platform, error) {
	return nil, errors.New("not implemented")
}
func (f *fakePlatformRepo) Upsert(p *models.Platform) error {
	f.upserted = append(f.upserted, *p)
	return nil
}
func (f *fakePlatformRepo) Count() (int64, error) { return int64(len(f.rows)), f.err }

func TestLoad(t *testing.T) {
	t.Run("nil repository uses defaults", func(t *testing.T) {
		reg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, len(DefaultPlatforms), reg.Len())
	})

	t.Run("empty table uses defaults", func(t *testing.T) {
		reg, err := Load(&fakePlatformRepo{})
		require.NoError(t, err)
		assert.Equal(t, len(DefaultPlatforms), reg.Len())
	})

	t.Run("rows are converted in order", func(t *testing.T) {
		repo := &fakePlatformRepo{rows: []models.Platform{
			{Slug: "ghost", Name: "Ghost", RequiredPlan: "pro", FeatureID: "multi-platform-sync"},
			{Slug: "wechat", Name: "WeChat"},
		}}
		reg, err := Load(repo)
		require.NoError(t, err)
		require.Equal(t, 2, reg.Len())
		assert.Equal(t, "ghost", reg.All()[0].ID)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		_, err := Load(&fakePlatformRepo{err: errors.New("db down")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestSeedOnlyFillsEmptyTable(t *testing.T) {
	repo := &fakePlatformRepo{}
	require.NoError(t, Seed(repo))
	assert.Len(t, repo.upserted, len(DefaultPlatforms))
	assert.Equal(t, "wechat", repo.upserted[0].Slug)

	full := &fakePlatformRepo{rows: []models.Platform{{Slug: "x", Name: "X"}}}
	require.NoError(t, Seed(full))
	assert.Empty(t, full.upserted)
}
