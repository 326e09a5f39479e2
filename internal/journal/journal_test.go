package journal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/crypto"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/mock"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/validators"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

func newUnlockedJournal(t *testing.T) (*Journal, *crypto.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	keys, err := crypto.NewService(config.Crypto{
		KDF:              config.KDFPBKDF2,
		PBKDF2Iterations: config.MinPBKDF2Iterations,
		Cipher:           config.CipherAESGCM,
	}, mem, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, keys.InitializeKey(context.Background(), "u1", "correct horse battery staple"))
	return New(keys, mem, logger.Nop()), keys, mem
}

func TestJournal_AddGetListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	j, _, mem := newUnlockedJournal(t)

	added, err := j.Add(ctx, "u1", models.JournalContent{Title: "Day 12", Body: "built a chi router", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.NotEmpty(t, added.EntryID)

	raw, err := mem.GetEntry(ctx, "u1", added.EntryID)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw.Blob.Ciphertext, []byte("chi router")))
	assert.Equal(t, models.AlgorithmAES256GCM, raw.Blob.AlgorithmTag)

	got, err := j.Get(ctx, "u1", added.EntryID)
	require.NoError(t, err)
	assert.Equal(t, "built a chi router", got.Body)
	assert.Equal(t, []string{"go"}, got.Tags)

	_, err = j.Add(ctx, "u1", models.JournalContent{Title: "Day 13"})
	require.NoError(t, err)
	list, err := j.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	updated, err := j.Update(ctx, "u1", added.EntryID, models.JournalContent{Title: "Day 12", Body: "rewrote it"})
	require.NoError(t, err)
	assert.Equal(t, "rewrote it", updated.Body)

	got, err = j.Get(ctx, "u1", added.EntryID)
	require.NoError(t, err)
	assert.Equal(t, "rewrote it", got.Body)

	require.NoError(t, j.Delete(ctx, "u1", added.EntryID))
	_, err = j.Get(ctx, "u1", added.EntryID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestJournal_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	j, _, _ := newUnlockedJournal(t)

	e, err := j.Add(ctx, "u1", models.JournalContent{Title: "mine"})
	require.NoError(t, err)

	_, err = j.Get(ctx, "u2", e.EntryID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, j.Delete(ctx, "u2", e.EntryID), ErrEntryNotFound)
	_, err = j.Update(ctx, "u2", e.EntryID, models.JournalContent{Title: "theirs"})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestJournal_RejectsInvalidContent(t *testing.T) {
	j, _, _ := newUnlockedJournal(t)

	_, err := j.Add(context.Background(), "u1", models.JournalContent{})
	assert.ErrorIs(t, err, validators.ErrEmptyJournalEntry)

	_, err = j.Add(context.Background(), "", models.JournalContent{Title: "t"})
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestJournal_LockedKey(t *testing.T) {
	ctx := context.Background()
	j, keys, _ := newUnlockedJournal(t)

	e, err := j.Add(ctx, "u1", models.JournalContent{Title: "sealed"})
	require.NoError(t, err)

	keys.ClearKey()
	_, err = j.Get(ctx, "u1", e.EntryID)
	assert.ErrorIs(t, err, crypto.ErrKeyNotInitialized)
	_, err = j.Add(ctx, "u1", models.JournalContent{Title: "more"})
	assert.ErrorIs(t, err, crypto.ErrKeyNotInitialized)
}

func TestJournal_WrongKeyFailsToOpen(t *testing.T) {
	ctx := context.Background()
	j, keys, _ := newUnlockedJournal(t)

	e, err := j.Add(ctx, "u1", models.JournalContent{Title: "sealed"})
	require.NoError(t, err)

	require.NoError(t, keys.InitializeKey(ctx, "u1", "wrong-password"))
	_, err = j.Get(ctx, "u1", e.EntryID)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	_, err = j.List(ctx, "u1")
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestJournal_DecryptFailureFromSealer(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sealer := mock.NewMockSealer(ctrl)
	entries := mock.NewMockJournalRepository(ctrl)

	entries.EXPECT().GetEntry(gomock.Any(), "u1", "e1").
		Return(models.JournalEntry{EntryID: "e1", UserID: "u1"}, nil)
	sealer.EXPECT().DecryptJSON(gomock.Any(), gomock.Any()).Return(crypto.ErrDecryptionFailed)

	j := New(sealer, entries, logger.Nop())
	_, err := j.Get(ctx, "u1", "e1")
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestJournal_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sealer := mock.NewMockSealer(ctrl)
	entries := mock.NewMockJournalRepository(ctrl)
	boom := errors.New("disk full")

	sealer.EXPECT().EncryptJSON(gomock.Any()).Return(models.EncryptedBlob{Ciphertext: []byte{1}}, nil)
	entries.EXPECT().SaveEntry(gomock.Any(), gomock.Any()).Return(boom)

	j := New(sealer, entries, logger.Nop())
	_, err := j.Add(ctx, "u1", models.JournalContent{Title: "t"})
	assert.ErrorIs(t, err, boom)
}
