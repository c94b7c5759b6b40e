package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	for _, class := range models.AllClasses {
		def, ok := cat.Class(class)
		require.True(t, ok, "missing class %s", class)
		assert.NotEmpty(t, def.SkillName)
		assert.Positive(t, def.SkillCooldown)
	}

	thief, _ := cat.Class(models.ClassThief)
	assert.Equal(t, 19*time.Hour, thief.StealCooldown)

	assert.Equal(t, "karakura", cat.StartingZone().ID)
	assert.NotEmpty(t, cat.Quiz)
	assert.NotEmpty(t, cat.Words)
	assert.NotEmpty(t, cat.QuestsFor(TriggerAbsorb))

	shield, ok := cat.ShopItem("shield")
	require.True(t, ok)
	assert.Equal(t, ItemKindShield, shield.Kind)
	assert.Equal(t, 24*time.Hour, shield.Duration)

	crop, ok := cat.Crop("radish")
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, crop.GrowTime)
}

func TestZonesUnlockedAt(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"karakura"}, cat.ZonesUnlockedAt(1))
	assert.Equal(t, []string{"karakura", "soul_society"}, cat.ZonesUnlockedAt(3))
}

func TestLoad_LaterFilesOverride(t *testing.T) {
	base, err := os.ReadFile(filepath.Join("data", "rpg.yaml"))
	require.NoError(t, err)
	words, err := os.ReadFile(filepath.Join("data", "words.yaml"))
	require.NoError(t, err)
	economy, err := os.ReadFile(filepath.Join("data", "economy.yaml"))
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"cfg/a_economy.yaml": {Data: economy},
		"cfg/b_rpg.yaml":     {Data: base},
		"cfg/c_words.yaml":   {Data: words},
		"cfg/d_tweak.yaml":   {Data: []byte("economy:\n  super_gain: 250\n")},
		"cfg/readme.txt":     {Data: []byte("ignored")},
	}

	cat, err := Load(fsys, "cfg")
	require.NoError(t, err)
	assert.Equal(t, int64(250), cat.Economy.SuperGain)
	assert.Equal(t, int64(1), cat.Economy.NormalGain)
}

func TestValidate_Errors(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	t.Run("duplicate shop item", func(t *testing.T) {
		broken := *cat
		broken.Shop = append([]ShopItem{}, cat.Shop...)
		broken.Shop = append(broken.Shop, cat.Shop[0])
		assert.ErrorContains(t, broken.Validate(), "duplicate shop item")
	})

	t.Run("quiz needs three wrong answers", func(t *testing.T) {
		broken := *cat
		broken.Quiz = []QuizQuestion{{Question: "?", Answer: "a", Wrong: []string{"b"}}}
		assert.ErrorContains(t, broken.Validate(), "3 wrong answers")
	})

	t.Run("unknown class", func(t *testing.T) {
		broken := *cat
		broken.Classes = []ClassDef{{ID: "paladin"}}
		assert.ErrorContains(t, broken.Validate(), "unknown class")
	})
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(100), store.Get().Economy.SuperGain)

	watcher, err := NewWatcher(store, 20*time.Millisecond)
	require.NoError(t, err)

	reloaded := make(chan *Catalog, 4)
	watcher.OnReload(func(c *Catalog) { reloaded <- c })

	require.NoError(t, watcher.Start(t.Context()))
	defer watcher.Stop()

	override := filepath.Join(dir, "zz_override.yaml")
	require.NoError(t, os.WriteFile(override, []byte("economy:\n  super_gain: 500\n"), 0o644))

	select {
	case c := <-reloaded:
		assert.Equal(t, int64(500), c.Economy.SuperGain)
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not reloaded")
	}
	assert.Equal(t, int64(500), store.Get().Economy.SuperGain)
}

func TestWatcher_BrokenOverrideKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("shop: [{id: x, price: 0}]"), 0o644))
	assert.Error(t, store.Reload())
	assert.Equal(t, int64(100), store.Get().Economy.SuperGain)
}
