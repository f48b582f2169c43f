package unlock

import (
	"testing"

	"io73k/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockIsIdempotent(t *testing.T) {
	r := NewAchievements(storage.NewMemory(), nil)

	var notified []string
	r.OnUnlock(func(id string) { notified = append(notified, id) })

	assert.True(t, r.Unlock(Killjoy))
	assert.False(t, r.Unlock(Killjoy))
	assert.True(t, r.IsUnlocked(Killjoy))
	assert.Equal(t, []string{Killjoy}, notified)
}

func TestUnlockRejectsUnknownIDs(t *testing.T) {
	r := NewCodex(storage.NewMemory(), nil)
	assert.False(t, r.Unlock("necronomicon"))
	assert.Empty(t, r.Unlocked())

	a := NewAchievements(storage.NewMemory(), nil)
	assert.False(t, a.Unlock(CodexTheBasement), "codex ids are not achievements")
}

func TestRegistriesAreSeparate(t *testing.T) {
	kv := storage.NewMemory()
	codex := NewCodex(kv, nil)
	ach := NewAchievements(kv, nil)

	require.True(t, codex.Unlock(CodexTheBasement))
	require.True(t, ach.Unlock(TruthBeneath))

	assert.Len(t, codex.Unlocked(), 1)
	assert.Len(t, ach.Unlocked(), 1)
}

func TestUnlocksPersist(t *testing.T) {
	kv := storage.NewMemory()
	NewCodex(kv, nil).Unlock(CodexTheConvent)

	again := NewCodex(kv, nil)
	assert.True(t, again.IsUnlocked(CodexTheConvent))

	again.Reset()
	assert.False(t, again.IsUnlocked(CodexTheConvent))
}

func TestStats(t *testing.T) {
	r := NewAchievements(storage.NewMemory(), nil)
	r.Unlock(Killjoy)
	r.Unlock(TruthBeneath)

	s := r.Stats(len(Achievements()))
	assert.Equal(t, Stats{Unlocked: 2, Total: 6, Percentage: 33}, s)
	assert.Equal(t, 0, r.Stats(0).Percentage)
}

func TestCatalogLookups(t *testing.T) {
	e, ok := EntryByID(CodexMargaretDiary)
	require.True(t, ok)
	assert.Equal(t, "Documents", e.Category)

	_, ok = AchievementByID("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Artifacts", "Characters", "Documents", "Locations"}, Categories())

	locs := EntriesByCategory("Locations")
	require.Len(t, locs, 2)
	assert.Equal(t, CodexTheConvent, locs[0].ID)
	assert.Equal(t, CodexTheBasement, locs[1].ID)
}
