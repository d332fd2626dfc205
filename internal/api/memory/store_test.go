package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

func TestStore_Items(t *testing.T) {
	s := memory.NewStore()

	shirt := s.AddItem("shirt.png", []byte("img"), "Shirt", "")
	assert.Equal(t, domain.ID("1"), shirt.ID)
	assert.Equal(t, memory.DefaultColor, shirt.Color)
	assert.Equal(t, "1_shirt.png", shirt.Filename)

	data, ok := s.Upload(shirt.Filename)
	require.True(t, ok)
	assert.Equal(t, []byte("img"), data)

	color := "Blue"
	updated, err := s.UpdateItem(shirt.ID, domain.ItemPatch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Blue", updated.Color)
	assert.Equal(t, "Shirt", updated.Category)

	require.NoError(t, s.DeleteItem(shirt.ID))
	assert.Empty(t, s.Items())
	_, ok = s.Upload(shirt.Filename)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeleteItem(shirt.ID), memory.ErrNotFound)
	_, err = s.UpdateItem("99", domain.ItemPatch{})
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestStore_Inference(t *testing.T) {
	s := memory.NewStore()
	s.Inference = func(string) string { return "Jeans" }

	item := s.AddItem("x.jpg", nil, "", "Black")
	assert.Equal(t, "Jeans", item.Category)
}

func TestStore_Sessions(t *testing.T) {
	s := memory.NewStore()

	first := s.CreateSession()
	second := s.CreateSession()
	assert.Equal(t, domain.DefaultSessionTitle, first.Title)

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)

	renamed, err := s.RenameSession(first.ID, "Work week")
	require.NoError(t, err)
	assert.Equal(t, "Work week", renamed.Title)

	require.NoError(t, s.DeleteSession(first.ID))
	assert.Len(t, s.Sessions(), 1)
	assert.ErrorIs(t, s.DeleteSession(first.ID), memory.ErrNotFound)
	_, err = s.Messages(first.ID)
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestStore_Send(t *testing.T) {
	s := memory.NewStore()
	session := s.CreateSession()

	t.Run("no outfit possible", func(t *testing.T) {
		reply, err := s.Send(session.ID, "office")
		require.NoError(t, err)
		assert.Equal(t, "ai", reply["role"])
		assert.Nil(t, reply["outfit_data"])
	})

	t.Run("outfit attached as string", func(t *testing.T) {
		s.AddItem("shirt.png", nil, "Shirt", "White")
		s.AddItem("jeans.png", nil, "Jeans", "Blue")

		reply, err := s.Send(session.ID, "casual")
		require.NoError(t, err)

		raw, ok := reply["outfit_data"].(string)
		require.True(t, ok)

		var outfit domain.OutfitSuggestion
		require.NoError(t, json.Unmarshal([]byte(raw), &outfit))
		assert.Equal(t, "Shirt", outfit.Top.Category)
		assert.Equal(t, "Jeans", outfit.Bottom.Category)
	})

	msgs, err := s.Messages(session.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
	assert.Equal(t, "user", msgs[0]["role"])

	_, err = s.Send("42", "x")
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestStore_SuggestDress(t *testing.T) {
	s := memory.NewStore()
	s.AddItem("dress.png", nil, "Dress", "Red")
	s.AddItem("coat.png", nil, "Coat", "Black")

	outfit, err := s.Suggest("party")
	require.NoError(t, err)
	assert.Equal(t, "Dress", outfit.Top.Category)
	assert.Nil(t, outfit.Bottom)
	require.NotNil(t, outfit.Outerwear)
	assert.Equal(t, "Coat", outfit.Outerwear.Category)
}
